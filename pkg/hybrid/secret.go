// Package hybrid implements the encryption used by secret notifications: a fresh
// symmetric secret per notification, encapsulated for the recipient with ECIES over
// secp256k1, and independent XChaCha20-Poly1305 ciphertexts for every field.
package hybrid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// MinSecretLength is the shortest secret Seal accepts.
	MinSecretLength = 14
	// DefaultSecretLength is used when an Engine has no length configured.
	DefaultSecretLength = 24
)

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var ErrSecretTooShort = errors.New("secret too short")

// NewSecret returns n random alphanumeric characters read from crypto/rand.
func NewSecret(n int) ([]byte, error) {
	return newSecret(rand.Reader, n)
}

func newSecret(r io.Reader, n int) ([]byte, error) {
	if n < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrSecretTooShort, MinSecretLength, n)
	}
	// 248 is the largest multiple of len(secretAlphabet) below 256.
	const limit = 256 - 256%len(secretAlphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, secretAlphabet[int(b)%len(secretAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	wipe(buf)
	return out, nil
}

// wipe zeroes secret material in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
