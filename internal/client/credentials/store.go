package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/storage"
	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/dbx"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

// TokenMaxAge is the lifetime of the token cookie.
const TokenMaxAge = 30 * 24 * time.Hour

var ErrEmptyToken = errors.New("empty token")

// Store persists the session in the shared client database on behalf of one
// origin host.
type Store struct {
	db           *sql.DB
	host         string
	cookieDomain string
	log          logging.Logger
	now          func() time.Time
	subs         subscribers
}

func NewStore(db *sql.DB, origin string, log logging.Logger) *Store {
	return &Store{
		db:           db,
		host:         origin,
		cookieDomain: storage.CookieDomain(origin),
		log:          log.With("component", "credentials", "origin", origin),
		now:          time.Now,
	}
}

// CookieDomain is the domain attribute used for the token cookie; empty for
// host-only cookies.
func (s *Store) CookieDomain() string {
	return s.cookieDomain
}

func (s *Store) cookies(db dbx.DBTX) *storage.CookieRepository {
	return storage.NewCookieRepository(db)
}

func (s *Store) local(db dbx.DBTX) *storage.LocalRepository {
	return storage.NewLocalRepository(db, s.host)
}

func (s *Store) tokenCookie(token string) storage.Cookie {
	return s.sharedCookie(common.KeyAuthToken, token)
}

func (s *Store) sharedCookie(name, value string) storage.Cookie {
	return storage.Cookie{
		Name:     name,
		Value:    value,
		Domain:   s.cookieDomain,
		Host:     s.host,
		Path:     "/",
		SameSite: storage.SameSiteLax,
		Expires:  s.now().Add(TokenMaxAge),
	}
}

// SaveToken replaces the current token in both stores.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.cookies(tx).Set(ctx, s.tokenCookie(token)); err != nil {
			return err
		}
		local := s.local(tx)
		if err := local.Set(ctx, common.KeyAuthToken, token); err != nil {
			return err
		}
		return local.Set(ctx, common.KeyTokenSavedAt, strconv.FormatInt(s.now().UnixNano(), 10))
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.subs.notify(EventTokenSaved)
	return nil
}

// Token returns the current token, reading the cookie first. A token found
// only in the local store is written back to the cookie, unless the session
// was cleared (by any origin sharing the cookie domain) after that token was
// saved: such a token is stale, so it is dropped and reported as absent.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	cookies := s.cookies(s.db)
	c, err := cookies.Get(ctx, common.KeyAuthToken, s.host)
	if err != nil {
		return "", false, fmt.Errorf("read token cookie: %w", err)
	}
	if c != nil && c.Value != "" {
		return c.Value, true, nil
	}

	local := s.local(s.db)
	token, ok, err := local.Get(ctx, common.KeyAuthToken)
	if err != nil {
		return "", false, fmt.Errorf("read local token: %w", err)
	}
	if !ok || token == "" {
		return "", false, nil
	}

	stale, err := s.clearedSince(ctx)
	if err != nil {
		return "", false, err
	}
	if stale {
		s.log.Info(ctx, "dropping local token cleared by another origin")
		if err := local.Delete(ctx, common.KeyAuthToken); err != nil {
			s.log.Warn(ctx, "stale token cleanup failed", "error", err)
		}
		return "", false, nil
	}

	if err := cookies.Set(ctx, s.tokenCookie(token)); err != nil {
		s.log.Warn(ctx, "token cookie repair failed", "error", err)
	}
	return token, true, nil
}

// clearedSince reports whether the shared clear marker is newer than the
// local token. A token without a save time predates the marker.
func (s *Store) clearedSince(ctx context.Context) (bool, error) {
	marker, err := s.cookies(s.db).Get(ctx, common.KeyAuthClearedAt, s.host)
	if err != nil {
		return false, fmt.Errorf("read clear marker: %w", err)
	}
	if marker == nil {
		return false, nil
	}
	clearedAt, err := strconv.ParseInt(marker.Value, 10, 64)
	if err != nil {
		return false, nil
	}

	raw, ok, err := s.local(s.db).Get(ctx, common.KeyTokenSavedAt)
	if err != nil {
		return false, fmt.Errorf("read token save time: %w", err)
	}
	if !ok {
		return true, nil
	}
	savedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true, nil
	}
	return savedAt <= clearedAt, nil
}

// IsAuthenticated reports whether a token is present. The profile cache is
// deliberately not consulted.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok, err := s.Token(ctx)
	if err != nil {
		s.log.Error(ctx, "token lookup failed", "error", err)
		return false
	}
	return ok
}

// RemoveToken deletes the token from both stores.
func (s *Store) RemoveToken(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.removeToken(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *Store) removeToken(ctx context.Context, tx dbx.DBTX) error {
	cookies := s.cookies(tx)
	if s.cookieDomain != "" {
		if err := cookies.Delete(ctx, common.KeyAuthToken, s.cookieDomain); err != nil {
			return err
		}
	}
	if err := cookies.Delete(ctx, common.KeyAuthToken, s.host); err != nil {
		return err
	}
	marker := s.sharedCookie(common.KeyAuthClearedAt, strconv.FormatInt(s.now().UnixNano(), 10))
	if err := cookies.Set(ctx, marker); err != nil {
		return err
	}
	local := s.local(tx)
	if err := local.Delete(ctx, common.KeyTokenSavedAt); err != nil {
		return err
	}
	return local.Delete(ctx, common.KeyAuthToken)
}

// SaveUserInfo replaces the cached profile.
func (s *Store) SaveUserInfo(ctx context.Context, u *models.UserInfo) error {
	if u == nil {
		return errors.New("save user info: nil profile")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}
	if err := s.local(s.db).Set(ctx, common.KeyUserInfo, string(b)); err != nil {
		return fmt.Errorf("save user info: %w", err)
	}

	s.subs.notify(EventProfileSaved)
	return nil
}

// UserInfo returns the cached profile or nil. A corrupt entry reads as nil.
func (s *Store) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	raw, ok, err := s.local(s.db).Get(ctx, common.KeyUserInfo)
	if err != nil {
		return nil, fmt.Errorf("read user info: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var u models.UserInfo
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn(ctx, "discarding unreadable user info", "error", err)
		return nil, nil
	}
	return &u, nil
}

func (s *Store) RemoveUserInfo(ctx context.Context) error {
	if err := s.local(s.db).Delete(ctx, common.KeyUserInfo); err != nil {
		return fmt.Errorf("remove user info: %w", err)
	}
	return nil
}

// SavePendingCode stores an OAuth authorization code until it is consumed.
func (s *Store) SavePendingCode(ctx context.Context, code string) error {
	if err := s.local(s.db).Set(ctx, common.KeyOAuthCode, code); err != nil {
		return fmt.Errorf("save oauth code: %w", err)
	}
	return nil
}

func (s *Store) PendingCode(ctx context.Context) (string, bool, error) {
	code, ok, err := s.local(s.db).Get(ctx, common.KeyOAuthCode)
	if err != nil {
		return "", false, fmt.Errorf("read oauth code: %w", err)
	}
	return code, ok, nil
}

func (s *Store) RemovePendingCode(ctx context.Context) error {
	if err := s.local(s.db).Delete(ctx, common.KeyOAuthCode); err != nil {
		return fmt.Errorf("remove oauth code: %w", err)
	}
	return nil
}

// ClearAuth removes the token, the profile and the pending OAuth code in one
// transaction.
func (s *Store) ClearAuth(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.removeToken(ctx, tx); err != nil {
			return err
		}
		local := s.local(tx)
		if err := local.Delete(ctx, common.KeyUserInfo); err != nil {
			return err
		}
		return local.Delete(ctx, common.KeyOAuthCode)
	})
	if err != nil {
		return fmt.Errorf("clear auth: %w", err)
	}

	s.log.Debug(ctx, "session cleared")
	s.subs.notify(EventCleared)
	return nil
}

// Subscribe registers fn for change events. Call the returned func to stop.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	return s.subs.add(fn)
}
