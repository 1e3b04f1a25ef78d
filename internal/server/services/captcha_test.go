package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptcha(ttl, interval time.Duration) (*CaptchaService, *fakeMailer, *time.Time) {
	m := &fakeMailer{}
	s := NewCaptchaService(ttl, interval, m)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, m, &now
}

func TestCaptcha_SendAndVerifyOnce(t *testing.T) {
	s, m, _ := newCaptcha(time.Minute, 0)

	require.NoError(t, s.Send(context.Background(), "A@Example.com"))
	code := m.sent["a@example.com"]
	assert.Len(t, code, CaptchaLength)

	assert.ErrorIs(t, s.Verify("a@example.com", "wrong"), common.ErrInvalidCaptcha)
	assert.NoError(t, s.Verify("a@example.com", code))
	assert.ErrorIs(t, s.Verify("a@example.com", code), common.ErrInvalidCaptcha, "codes are single use")
}

func TestCaptcha_Expires(t *testing.T) {
	s, m, now := newCaptcha(time.Minute, 0)

	require.NoError(t, s.Send(context.Background(), "a@example.com"))
	*now = now.Add(2 * time.Minute)

	assert.ErrorIs(t, s.Verify("a@example.com", m.sent["a@example.com"]), common.ErrInvalidCaptcha)
}

func TestCaptcha_RateLimitedPerAddress(t *testing.T) {
	s, _, now := newCaptcha(10*time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "a@example.com"))
	assert.ErrorIs(t, s.Send(ctx, "a@example.com"), common.ErrTooManyRequests)
	assert.NoError(t, s.Send(ctx, "b@example.com"))

	*now = now.Add(61 * time.Second)
	assert.NoError(t, s.Send(ctx, "a@example.com"))
}

func TestCaptcha_Validation(t *testing.T) {
	s, _, _ := newCaptcha(time.Minute, 0)

	assert.ErrorIs(t, s.Send(context.Background(), "nope"), common.ErrorValidation)
	assert.ErrorIs(t, s.Verify("a@example.com", ""), common.ErrInvalidCaptcha)
}

func TestCaptcha_MailerFailureDropsCode(t *testing.T) {
	s, m, _ := newCaptcha(time.Minute, 0)
	m.err = errors.New("smtp down")

	err := s.Send(context.Background(), "a@example.com")
	assert.ErrorContains(t, err, "smtp down")
	assert.Empty(t, s.codes)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer(logging.Discard()).SendCaptcha(context.Background(), "a@example.com", "123456"))
}
