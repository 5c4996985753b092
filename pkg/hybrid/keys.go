package hybrid

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidPublicKey = errors.New("invalid public key")

// ParsePublicKey accepts the shapes a registry may hand back: 64-byte raw X||Y,
// 65-byte uncompressed, 33-byte compressed, or any of those as 0x-prefixed hex text.
func ParsePublicKey(raw []byte) (*ecdsa.PublicKey, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("0x")) || bytes.HasPrefix(raw, []byte("0X")) {
		decoded, err := hex.DecodeString(string(raw[2:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
		raw = decoded
	}

	switch len(raw) {
	case 64:
		full := make([]byte, 0, 65)
		full = append(full, 0x04)
		raw = append(full, raw...)
		fallthrough
	case 65:
		pub, err := ethcrypto.UnmarshalPubkey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
		return pub, nil
	case 33:
		pub, err := ethcrypto.DecompressPubkey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidPublicKey, len(raw))
	}
}

// GenerateKey creates a secp256k1 key pair for a recipient.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ethcrypto.GenerateKey()
}

// PublicKeyHex is the 0x-prefixed uncompressed public key a recipient registers.
func PublicKeyHex(priv *ecdsa.PrivateKey) string {
	return "0x" + hex.EncodeToString(ethcrypto.FromECDSAPub(&priv.PublicKey))
}

// PrivateKeyHex is the hex form accepted by ParsePrivateKey.
func PrivateKeyHex(priv *ecdsa.PrivateKey) string {
	return hex.EncodeToString(ethcrypto.FromECDSA(priv))
}

// ParsePrivateKey reads a hex secp256k1 private key, with or without 0x.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return ethcrypto.HexToECDSA(s)
}
