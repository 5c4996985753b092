// Package storage holds what the content-addressed payload stores share.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// AddressPrefix marks the hash function of an Address.
const AddressPrefix = "sha256-"

var ErrNotFound = errors.New("object not found")

// Store is implemented by every backend.
type Store interface {
	// Put writes payload and returns its content pointer.
	Put(ctx context.Context, payload []byte) (string, error)
	Get(ctx context.Context, pointer string) ([]byte, error)
}

// Address is the content pointer of payload for stores that derive it themselves.
// Equal payloads always map to the same address.
func Address(payload []byte) string {
	sum := sha256.Sum256(payload)
	return AddressPrefix + hex.EncodeToString(sum[:])
}
