package services

import (
	"context"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/cryptox"
	"github.com/dmitrijs2005/portalauth/internal/server/config"
	"github.com/dmitrijs2005/portalauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

// fakeCaptcha accepts exactly one code per address.
type fakeCaptcha struct {
	codes map[string]string
}

func (f *fakeCaptcha) Verify(email, code string) error {
	if f.codes[email] != code {
		return common.ErrInvalidCaptcha
	}
	delete(f.codes, email)
	return nil
}

type fakeMailer struct {
	sent map[string]string
	err  error
}

func (m *fakeMailer) SendCaptcha(_ context.Context, email, code string) error {
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = map[string]string{}
	}
	m.sent[email] = code
	return nil
}

var testKey *rsa.PrivateKey

func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	if testKey == nil {
		k, err := cryptox.GenerateKeyPair(1024)
		require.NoError(t, err)
		testKey = k
	}
	return testKey
}

func encrypt(t *testing.T, pw string) string {
	t.Helper()
	out, err := cryptox.NewRSAEncrypter(&rsaKey(t).PublicKey).Encrypt(pw)
	require.NoError(t, err)
	return out
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = "k"
	c.TokenValidityDuration = time.Hour
	return c
}

func newMemoryUserService(t *testing.T, captcha CaptchaVerifier) *UserService {
	t.Helper()
	return NewUserService(nil, repomanager.NewMemoryRepositoryManager(), captcha, rsaKey(t), testConfig())
}
