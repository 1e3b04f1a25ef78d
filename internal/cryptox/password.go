package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrEncryptionUnavailable is returned when no usable public key is
// configured and the plaintext fallback is not allowed.
var ErrEncryptionUnavailable = errors.New("password encryption unavailable")

// PasswordEncrypter turns a plaintext password into a string that is safe to
// put into a JSON request body.
type PasswordEncrypter interface {
	Encrypt(plaintext string) (string, error)
}

// RSAEncrypter encrypts with RSA PKCS#1 v1.5 and base64-encodes the result,
// which is what browser-side JSEncrypt produces and the server expects.
type RSAEncrypter struct {
	key *rsa.PublicKey
}

func NewRSAEncrypter(key *rsa.PublicKey) *RSAEncrypter {
	return &RSAEncrypter{key: key}
}

func (e *RSAEncrypter) Encrypt(plaintext string) (string, error) {
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, e.key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("rsa encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// PlaintextEncrypter returns its input unchanged. It exists only for local
// development against a server that accepts plaintext; NewPasswordEncrypter
// never hands it out in production.
type PlaintextEncrypter struct{}

func (PlaintextEncrypter) Encrypt(plaintext string) (string, error) {
	return plaintext, nil
}

// EncrypterOptions selects the password encrypter.
type EncrypterOptions struct {
	// PublicKeyPEM is the server's RSA public key (PEM or bare base64 DER).
	PublicKeyPEM []byte
	// Production disables every fallback.
	Production bool
	// AllowPlaintext opts into PlaintextEncrypter when no key is usable.
	// Ignored in production.
	AllowPlaintext bool
}

// NewPasswordEncrypter returns an RSAEncrypter when a valid public key is
// configured. Otherwise it fails, unless this is a non-production build that
// explicitly allows plaintext, in which case PlaintextEncrypter is returned
// together with the reason the key was rejected.
func NewPasswordEncrypter(opts EncrypterOptions) (PasswordEncrypter, error) {
	key, keyErr := ParsePublicKey(opts.PublicKeyPEM)
	if keyErr == nil {
		return NewRSAEncrypter(key), nil
	}

	if opts.Production || !opts.AllowPlaintext {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionUnavailable, keyErr)
	}

	return PlaintextEncrypter{}, nil
}

// DecryptPassword reverses RSAEncrypter.Encrypt with the private key.
func DecryptPassword(key *rsa.PrivateKey, encoded string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	pt, err := rsa.DecryptPKCS1v15(rand.Reader, key, ct)
	if err != nil {
		return "", fmt.Errorf("rsa decrypt: %w", err)
	}
	return string(pt), nil
}
