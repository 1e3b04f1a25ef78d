package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Verify(t *testing.T) {
	h := HashPassword("correct horse")
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, err := VerifyPassword(h, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(h, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	assert.NotEqual(t, HashPassword("pw"), HashPassword("pw"))
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$***$a2V5",
	} {
		_, err := VerifyPassword(in, "pw")
		assert.ErrorIs(t, err, ErrMalformedHash, in)
	}
}
