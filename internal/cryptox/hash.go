package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// DeriveKey runs argon2id with the package parameters.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns an encoded argon2id hash in the usual
// $argon2id$v=19$m=...,t=...,p=...$salt$key form.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltLen)
	return encodeHash(salt, DeriveKey([]byte(password), salt))
}

// VerifyPassword reports whether password matches encoded.
func VerifyPassword(encoded, password string) (bool, error) {
	salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	candidate := DeriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func encodeHash(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decodeHash(encoded string) (salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, ErrMalformedHash
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return nil, nil, ErrMalformedHash
	}
	if m != argonMemory || t != argonTime || p != argonThreads {
		return nil, nil, fmt.Errorf("%w: unsupported parameters", ErrMalformedHash)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, ErrMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, ErrMalformedHash
	}
	return salt, key, nil
}
