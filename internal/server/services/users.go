// Package services contains the auth server's business logic: accounts and
// sessions, mail captchas, Google sign-in and client authorization codes.
package services

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/cryptox"
	"github.com/dmitrijs2005/portalauth/internal/dbx"
	"github.com/dmitrijs2005/portalauth/internal/server/auth"
	"github.com/dmitrijs2005/portalauth/internal/server/config"
	"github.com/dmitrijs2005/portalauth/internal/server/models"
	"github.com/dmitrijs2005/portalauth/internal/server/oauth"
	"github.com/dmitrijs2005/portalauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portalauth/internal/server/repositories/users"
)

const MinPasswordLength = 6

// CaptchaVerifier checks a mailed code; a successful check consumes it.
type CaptchaVerifier interface {
	Verify(email, code string) error
}

// UserService handles registration, password login, password reset and
// session tokens.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	captcha       CaptchaVerifier
	key           *rsa.PrivateKey
	production    bool
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService. db may be nil when the manager
// is memory backed. key decrypts login passwords; without it passwords are
// accepted as plaintext outside production.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, captcha CaptchaVerifier, key *rsa.PrivateKey, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		captcha:       captcha,
		key:           key,
		production:    cfg.IsProduction(),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates an account after checking the mailed captcha.
func (s *UserService) Register(ctx context.Context, email, encPassword, captcha string) (*models.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	password, err := s.newPassword(encPassword)
	if err != nil {
		return nil, err
	}
	if err := s.captcha.Verify(email, captcha); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     usernameFromEmail(email),
		PasswordHash: cryptox.HashPassword(password),
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies email and password and returns a session token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, encPassword string) (string, error) {
	password, err := s.decryptPassword(encPassword)
	if err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if user.PasswordHash == "" {
		return "", common.ErrorUnauthorized
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return s.issueToken(user)
}

// ResetPassword replaces the password of email after checking the captcha.
func (s *UserService) ResetPassword(ctx context.Context, email, encPassword, captcha string) error {
	email, err := validateEmail(email)
	if err != nil {
		return err
	}
	password, err := s.newPassword(encPassword)
	if err != nil {
		return err
	}
	if err := s.captcha.Verify(email, captcha); err != nil {
		return err
	}

	return s.withUsers(ctx, func(ctx context.Context, repo users.Repository) error {
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		return repo.UpdatePassword(ctx, user.ID, cryptox.HashPassword(password))
	})
}

// LoginWithGoogle finds the account linked to the Google profile, links an
// existing account with the same email, or creates a new one.
func (s *UserService) LoginWithGoogle(ctx context.Context, p *oauth.Profile) (string, error) {
	var user *models.User

	err := s.withUsers(ctx, func(ctx context.Context, repo users.Repository) error {
		u, err := repo.GetByGoogleSubject(ctx, p.Subject)
		if err == nil {
			user = u
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if p.Email != "" {
			u, err = repo.GetByEmail(ctx, p.Email)
			switch {
			case err == nil:
				if err := repo.LinkGoogle(ctx, u.ID, p.Subject); err != nil {
					return err
				}
				u.GoogleSubject = p.Subject
				user = u
				return nil
			case !errors.Is(err, common.ErrorNotFound):
				return err
			}
		}

		user, err = repo.Create(ctx, &models.User{
			Email:         p.Email,
			Username:      usernameFromEmail(p.Email),
			Nickname:      p.Name,
			Avatar:        p.Picture,
			GoogleSubject: p.Subject,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("google login: %w", err)
	}

	return s.issueToken(user)
}

// UserInfo returns the public profile of userID.
func (s *UserService) UserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Info(), nil
}

// Authenticate resolves a session token to a user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// --- helpers below ---

func (s *UserService) issueToken(u *models.User) (string, error) {
	token, err := auth.GenerateToken(u.ID, u.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// withUsers runs fn in a transaction when a database is configured.
func (s *UserService) withUsers(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repomanager.Users(nil))
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Users(tx))
	})
}

func (s *UserService) decryptPassword(enc string) (string, error) {
	if s.key != nil {
		pw, err := cryptox.DecryptPassword(s.key, enc)
		if err == nil {
			return pw, nil
		}
		if s.production {
			return "", fmt.Errorf("%w: password must be encrypted", common.ErrorValidation)
		}
	} else if s.production {
		return "", common.ErrorInternal
	}
	return enc, nil
}

func (s *UserService) newPassword(enc string) (string, error) {
	pw, err := s.decryptPassword(enc)
	if err != nil {
		return "", err
	}
	if len(pw) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return pw, nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return email, nil
}

func usernameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
