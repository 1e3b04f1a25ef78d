package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
)

const (
	AuthorizationCodeTTL = 5 * time.Minute
	authorizationCodeLen = 16
)

// Grant is what an authorization code stands for.
type Grant struct {
	UserID   string
	ClientID string
	Expires  time.Time
}

// AuthorizeService issues short-lived, single-use authorization codes that
// let a signed-in user carry the session to another portal client.
type AuthorizeService struct {
	mu      sync.Mutex
	allowed func(clientID string) bool
	ttl     time.Duration
	grants  map[string]Grant
	now     func() time.Time
}

func NewAuthorizeService(allowed func(clientID string) bool) *AuthorizeService {
	return &AuthorizeService{
		allowed: allowed,
		ttl:     AuthorizationCodeTTL,
		grants:  make(map[string]Grant),
		now:     time.Now,
	}
}

func (s *AuthorizeService) Issue(_ context.Context, userID, clientID string) (string, error) {
	if !s.allowed(clientID) {
		return "", common.ErrUnknownClient
	}

	code, err := common.MakeRandHexString(authorizationCodeLen)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, g := range s.grants {
		if now.After(g.Expires) {
			delete(s.grants, k)
		}
	}

	s.grants[code] = Grant{UserID: userID, ClientID: clientID, Expires: now.Add(s.ttl)}
	return code, nil
}

// Redeem consumes code for clientID.
func (s *AuthorizeService) Redeem(_ context.Context, code, clientID string) (*Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grants[code]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	delete(s.grants, code)

	if g.ClientID != clientID || s.now().After(g.Expires) {
		return nil, common.ErrInvalidToken
	}
	return &g, nil
}
