package hybrid

import (
	"crypto/ecdsa"
	"fmt"
)

// Fields is the plaintext content of a secret notification.
type Fields struct {
	Subject string
	Body    string
	CTA     string
	Media   string
}

// Envelope is the encrypted form of Fields plus the encapsulated secret.
// The symmetric secret itself is never part of it.
type Envelope struct {
	Secret  string
	Subject string
	Body    string
	CTA     string
	Media   string
}

// Engine seals notification fields. The zero value uses DefaultSecretLength.
type Engine struct {
	SecretLength int
}

// Seal encrypts f for pub under a secret generated for this call only.
// On any failure no envelope is returned.
func (e Engine) Seal(pub *ecdsa.PublicKey, f Fields) (Envelope, error) {
	n := e.SecretLength
	if n == 0 {
		n = DefaultSecretLength
	}
	secret, err := NewSecret(n)
	if err != nil {
		return Envelope{}, err
	}
	defer wipe(secret)

	var env Envelope
	if env.Secret, err = Encapsulate(pub, secret); err != nil {
		return Envelope{}, err
	}
	for _, p := range []struct {
		name  string
		plain string
		out   *string
	}{
		{FieldSubject, f.Subject, &env.Subject},
		{FieldBody, f.Body, &env.Body},
		{FieldCTA, f.CTA, &env.CTA},
		{FieldMedia, f.Media, &env.Media},
	} {
		ct, err := EncryptField(p.name, p.plain, secret)
		if err != nil {
			return Envelope{}, fmt.Errorf("encrypt %s: %w", p.name, err)
		}
		*p.out = ct
	}
	return env, nil
}

// Seal uses the default Engine.
func Seal(pub *ecdsa.PublicKey, f Fields) (Envelope, error) {
	return Engine{}.Seal(pub, f)
}

// Open is the recipient side of Seal.
func Open(priv *ecdsa.PrivateKey, env Envelope) (Fields, error) {
	secret, err := Decapsulate(priv, env.Secret)
	if err != nil {
		return Fields{}, err
	}
	defer wipe(secret)

	var f Fields
	for _, p := range []struct {
		name   string
		cipher string
		out    *string
	}{
		{FieldSubject, env.Subject, &f.Subject},
		{FieldBody, env.Body, &f.Body},
		{FieldCTA, env.CTA, &f.CTA},
		{FieldMedia, env.Media, &f.Media},
	} {
		plain, err := DecryptField(p.name, p.cipher, secret)
		if err != nil {
			return Fields{}, err
		}
		*p.out = plain
	}
	return f, nil
}
