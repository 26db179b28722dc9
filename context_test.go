package dirauth

import (
	"context"
	"errors"
	"testing"

	"github.com/facilitydir/dirauth/actor"
	"github.com/facilitydir/dirauth/session"
)

func TestCurrentRoundTrip(t *testing.T) {
	v := session.NewPerson(&actor.Person{ID: "p-1"}, false)
	ctx := WithCurrent(context.Background(), v)

	got, ok := Current(ctx)
	if !ok {
		t.Fatal("expected current session")
	}
	if got.ID != v.ID {
		t.Fatalf("expected id %s, got %s", v.ID, got.ID)
	}
}

func TestCurrentAbsent(t *testing.T) {
	if _, ok := Current(context.Background()); ok {
		t.Fatal("expected no current session on a fresh context")
	}
	if _, ok := Current(nil); ok { //nolint:staticcheck
		t.Fatal("expected no current session on a nil context")
	}
}

func TestRequireCurrent(t *testing.T) {
	_, err := RequireCurrent(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	v := session.NewAdmin(&actor.Admin{ID: "a-1"}, false)
	got, err := RequireCurrent(WithCurrent(context.Background(), v))
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if got.ID != v.ID {
		t.Fatalf("expected id %s, got %s", v.ID, got.ID)
	}
}
