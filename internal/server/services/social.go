package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/server/oauth"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// SocialService runs "Sign in with Google". provider may be nil, in which
// case every call fails with ErrGoogleDisabled.
type SocialService struct {
	provider oauth.Provider
	states   *oauth.StateStore
	users    *UserService
}

func NewSocialService(provider oauth.Provider, states *oauth.StateStore, users *UserService) *SocialService {
	return &SocialService{provider: provider, states: states, users: users}
}

func (s *SocialService) AuthorizeURL() (string, error) {
	if s.provider == nil {
		return "", ErrGoogleDisabled
	}
	return s.provider.AuthCodeURL(s.states.Issue()), nil
}

func (s *SocialService) Login(ctx context.Context, code, state string) (string, error) {
	if s.provider == nil {
		return "", ErrGoogleDisabled
	}
	if code == "" || !s.states.Consume(state) {
		return "", common.ErrInvalidOAuthState
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", common.ErrorUnauthorized
	}
	return s.users.LoginWithGoogle(ctx, profile)
}
