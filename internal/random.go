// Package internal holds helpers shared by the dirauth packages that must
// not become part of the public surface.
package internal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// codeAlphabet is uppercase alphanumeric: codes travel over SMS and get
// typed back by hand, so lowercase adds nothing but transcription errors.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCode generates a random uppercase alphanumeric code of the given
// length using crypto/rand.
func NewCode(length int) (string, error) {
	if length < 4 || length > 64 {
		return "", errors.New("invalid code length")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}

	return b.String(), nil
}
