package hybrid

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/sha3"
)

// Field names double as associated data, binding each ciphertext to its slot.
const (
	FieldSubject = "asub"
	FieldBody    = "amsg"
	FieldCTA     = "acta"
	FieldMedia   = "aimg"
)

const fieldKDFLabel = "raycon-notify/field/v1"

var ErrMalformedCiphertext = errors.New("malformed field ciphertext")

func fieldKey(secret []byte) [32]byte {
	buf := make([]byte, 0, len(fieldKDFLabel)+len(secret))
	buf = append(buf, fieldKDFLabel...)
	buf = append(buf, secret...)
	key := sha3.Sum256(buf)
	wipe(buf)
	return key
}

// EncryptField seals plaintext under the notification secret.
// Output is base64(nonce || ciphertext || tag) with a fresh 24-byte nonce.
func EncryptField(name, plaintext string, secret []byte) (string, error) {
	key := fieldKey(secret)
	defer wipe(key[:])

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), []byte(name))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. A wrong secret or field name fails authentication.
func DecryptField(name, ciphertext string, secret []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) < chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", ErrMalformedCiphertext
	}
	key := fieldKey(secret)
	defer wipe(key[:])

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", err
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, []byte(name))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	return string(plain), nil
}
