package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/services"
	"github.com/dmitrijs2005/portalauth/internal/cryptox"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

var ErrRegistrationNotAccepted = errors.New("registration was not accepted")

type SignInForm struct {
	Email    string
	Password string
}

type SignUpForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	Captcha         string
}

// ResetForm carries the new password for a forgotten one.
type ResetForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	Captcha         string
}

// Flows implements the auth modal's three forms. Every form is validated
// before anything is sent, and every password is encrypted first.
type Flows struct {
	auth     services.AuthService
	enc      cryptox.PasswordEncrypter
	store    Store
	clientID string
	log      logging.Logger
}

func NewFlows(auth services.AuthService, enc cryptox.PasswordEncrypter, store Store, clientID string, log logging.Logger) *Flows {
	return &Flows{auth: auth, enc: enc, store: store, clientID: clientID, log: log.With("component", "flows")}
}

// SignIn logs in and caches the profile.
func (f *Flows) SignIn(ctx context.Context, form SignInForm) (*models.UserInfo, error) {
	email := strings.TrimSpace(form.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if form.Password == "" {
		return nil, &api.ValidationError{Field: "password", Reason: "is required"}
	}

	enc, err := f.encrypt(form.Password)
	if err != nil {
		return nil, err
	}
	return f.login(ctx, email, enc)
}

// SignUp registers and then signs in with the same credentials. A failed
// sign-in after a successful registration is returned as is; the account
// stays registered.
func (f *Flows) SignUp(ctx context.Context, form SignUpForm) (*models.UserInfo, error) {
	email := strings.TrimSpace(form.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(form.Password, form.ConfirmPassword); err != nil {
		return nil, err
	}
	if err := validateCaptcha(form.Captcha); err != nil {
		return nil, err
	}

	enc, err := f.encrypt(form.Password)
	if err != nil {
		return nil, err
	}

	done, err := f.auth.Register(ctx, email, enc, strings.TrimSpace(form.Captcha))
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrRegistrationNotAccepted
	}

	return f.login(ctx, email, enc)
}

// ResetPassword sets a new password and signs in with it.
func (f *Flows) ResetPassword(ctx context.Context, form ResetForm) (*models.UserInfo, error) {
	email := strings.TrimSpace(form.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(form.Password, form.ConfirmPassword); err != nil {
		return nil, err
	}
	if err := validateCaptcha(form.Captcha); err != nil {
		return nil, err
	}

	enc, err := f.encrypt(form.Password)
	if err != nil {
		return nil, err
	}

	if err := f.auth.ForgotPassword(ctx, email, enc, strings.TrimSpace(form.Captcha)); err != nil {
		return nil, err
	}
	return f.login(ctx, email, enc)
}

func (f *Flows) encrypt(password string) (string, error) {
	enc, err := f.enc.Encrypt(password)
	if err != nil {
		return "", fmt.Errorf("encrypt password: %w", err)
	}
	return enc, nil
}

func (f *Flows) login(ctx context.Context, email, encPassword string) (*models.UserInfo, error) {
	token, err := f.auth.Login(ctx, f.clientID, email, encPassword)
	if err != nil {
		return nil, err
	}
	return establish(ctx, f.store, f.auth, f.log, token)
}

// establish stores token and then the profile fetched with it. If the
// profile cannot be loaded the token is dropped again, so a session never
// exists without its profile.
func establish(ctx context.Context, store Store, users ProfileFetcher, log logging.Logger, token string) (*models.UserInfo, error) {
	if err := store.SaveToken(ctx, token); err != nil {
		return nil, err
	}

	u, err := users.GetUserInfo(ctx)
	if err == nil {
		err = store.SaveUserInfo(ctx, u)
	}
	if err != nil {
		if !api.IsExpired(err) {
			if cerr := store.ClearAuth(ctx); cerr != nil {
				log.Error(ctx, "dropping half-established session failed", "error", cerr)
			}
		}
		return nil, err
	}

	log.Info(ctx, "signed in", "email", u.Email)
	return u, nil
}
