package internal

import (
	"strings"
	"testing"
)

func TestNewCodeLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{4, 10, 64} {
		code, err := NewCode(length)
		if err != nil {
			t.Fatalf("length %d: %v", length, err)
		}
		if len(code) != length {
			t.Fatalf("expected length %d, got %d", length, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
	}
}

func TestNewCodeRejectsBadLengths(t *testing.T) {
	for _, length := range []int{-1, 0, 3, 65} {
		if _, err := NewCode(length); err == nil {
			t.Fatalf("expected error for length %d", length)
		}
	}
}

func TestNewCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code, err := NewCode(10)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected generated codes to vary")
	}
}
