package hybrid

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto/ecies"
)

// Encapsulate encrypts the symmetric secret for the holder of pub.
// The result is hex encoded for the payload's data.secret field.
func Encapsulate(pub *ecdsa.PublicKey, secret []byte) (string, error) {
	ct, err := ecies.Encrypt(rand.Reader, ecies.ImportECDSAPublic(pub), secret, nil, nil)
	if err != nil {
		return "", fmt.Errorf("ecies encrypt: %w", err)
	}
	return hex.EncodeToString(ct), nil
}

// Decapsulate recovers the secret. A private key that does not match the
// encapsulating public key fails the ECIES MAC check.
func Decapsulate(priv *ecdsa.PrivateKey, encapsulated string) ([]byte, error) {
	ct, err := hex.DecodeString(encapsulated)
	if err != nil {
		return nil, fmt.Errorf("decode encapsulated secret: %w", err)
	}
	secret, err := ecies.ImportECDSA(priv).Decrypt(ct, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("ecies decrypt: %w", err)
	}
	return secret, nil
}
