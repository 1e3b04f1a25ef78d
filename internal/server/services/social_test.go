package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/server/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	lastState string
	profile   *oauth.Profile
	err       error
	exchanges int
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	p.lastState = state
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string) (*oauth.Profile, error) {
	p.exchanges++
	return p.profile, p.err
}

func TestSocial_Disabled(t *testing.T) {
	s := NewSocialService(nil, oauth.NewStateStore(time.Minute), nil)

	_, err := s.AuthorizeURL()
	assert.ErrorIs(t, err, ErrGoogleDisabled)
	_, err = s.Login(context.Background(), "c", "s")
	assert.ErrorIs(t, err, ErrGoogleDisabled)
}

func TestSocial_LoginConsumesState(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{profile: &oauth.Profile{Subject: "g-1", Email: "g@example.com"}}
	s := NewSocialService(p, oauth.NewStateStore(time.Minute), newMemoryUserService(t, &fakeCaptcha{}))

	u, err := s.AuthorizeURL()
	require.NoError(t, err)
	assert.Contains(t, u, p.lastState)

	tok, err := s.Login(ctx, "code", p.lastState)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	_, err = s.Login(ctx, "code", p.lastState)
	assert.ErrorIs(t, err, common.ErrInvalidOAuthState)
	assert.Equal(t, 1, p.exchanges)
}

func TestSocial_ExchangeFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("invalid_grant")}
	s := NewSocialService(p, oauth.NewStateStore(time.Minute), newMemoryUserService(t, &fakeCaptcha{}))

	_, _ = s.AuthorizeURL()
	_, err := s.Login(context.Background(), "code", p.lastState)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidOAuthState)
}
