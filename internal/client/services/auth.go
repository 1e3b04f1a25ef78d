// Package services contains application services for the portal client.
// This file defines the authentication operations exposed by the auth
// service: password and Google sign-in, registration, password reset, mail
// captcha and profile lookup.
package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

// Endpoint paths relative to the auth service base URL.
const (
	PathLogin          = "/auth/login"
	PathRegister       = "/api/register/email"
	PathUserInfo       = "/auth/user/info"
	PathForgotPassword = "/auth/forgot-password"
	PathCaptchaMail    = "/api/captcha/mail"
	PathGoogle         = "/auth/google"
	PathAuthorize      = "/oauth2/authorize"
)

var ErrEmptyToken = errors.New("auth service returned no token")

// Caller performs one API call; *api.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, spec api.RequestSpec) (*api.Envelope, error)
}

// PendingCodeSaver keeps an authorization code issued for another client.
type PendingCodeSaver interface {
	SavePendingCode(ctx context.Context, code string) error
}

// AuthService defines the auth operations.
//
// Passwords must already be encrypted with the auth service public key.
// None of the operations writes a token; persisting the session is the
// caller's job. An expired session has already been cleared from storage
// when an error reaches the caller.
type AuthService interface {
	Login(ctx context.Context, clientID, email, encPassword string) (string, error)
	Register(ctx context.Context, email, encPassword, captcha string) (bool, error)
	GetUserInfo(ctx context.Context) (*models.UserInfo, error)
	ForgotPassword(ctx context.Context, email, encPassword, captcha string) error
	SendCaptcha(ctx context.Context, email string) (bool, error)
	GoogleOAuthURL(ctx context.Context) (string, error)
	LoginWithGoogleCallback(ctx context.Context, clientID, code, state string) (string, error)
	AuthorizeClient(ctx context.Context, clientID string) (string, bool, error)
}

type authService struct {
	api   Caller
	codes PendingCodeSaver
	log   logging.Logger
}

func NewAuthService(c Caller, codes PendingCodeSaver, log logging.Logger) AuthService {
	return &authService{api: c, codes: codes, log: log.With("component", "auth")}
}

type passwordLoginRequest struct {
	ClientID string `json:"clientId"`
	AuthType string `json:"authType"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	ClientID string `json:"clientId"`
	AuthType string `json:"authType"`
	Source   string `json:"source"`
	Code     string `json:"code"`
	State    string `json:"state"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
}

type tokenData struct {
	Token string `json:"token"`
}

type authorizeURLData struct {
	AuthorizeURL string `json:"authorizeUrl"`
}

type authorizeCodeData struct {
	Code string `json:"code"`
}

// call runs one request and decodes a successful payload into T. Failures
// are logged with op and the given context and returned unchanged.
func call[T any](ctx context.Context, s *authService, op string, spec api.RequestSpec, kv ...any) (T, error) {
	var zero T

	env, err := s.api.Call(ctx, spec)
	if err == nil {
		var out T
		out, err = api.Decode[T](env)
		if err == nil {
			return out, nil
		}
	}

	args := append([]any{"op", op, "error", err}, kv...)
	if api.IsExpired(err) {
		s.log.Warn(ctx, "auth operation hit expired session", args...)
	} else {
		s.log.Error(ctx, "auth operation failed", args...)
	}
	return zero, err
}

func (s *authService) Login(ctx context.Context, clientID, email, encPassword string) (string, error) {
	data, err := call[tokenData](ctx, s, "login", api.RequestSpec{
		Method: http.MethodPost,
		Path:   PathLogin,
		Body: passwordLoginRequest{
			ClientID: clientID,
			AuthType: common.AuthTypeEmailPassword,
			Email:    email,
			Password: encPassword,
		},
	}, "email", email)
	if err != nil {
		return "", err
	}
	if data.Token == "" {
		s.log.Error(ctx, "auth operation failed", "op", "login", "email", email, "error", ErrEmptyToken)
		return "", ErrEmptyToken
	}
	return data.Token, nil
}

func (s *authService) Register(ctx context.Context, email, encPassword, captcha string) (bool, error) {
	return call[bool](ctx, s, "register", api.RequestSpec{
		Method: http.MethodPost,
		Path:   PathRegister,
		Body:   credentialsRequest{Email: email, Password: encPassword, Captcha: captcha},
	}, "email", email)
}

func (s *authService) GetUserInfo(ctx context.Context) (*models.UserInfo, error) {
	u, err := call[*models.UserInfo](ctx, s, "get_user_info", api.RequestSpec{
		Method:   http.MethodGet,
		Path:     PathUserInfo,
		NeedAuth: true,
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		err := errors.New("auth service returned no profile")
		s.log.Error(ctx, "auth operation failed", "op", "get_user_info", "error", err)
		return nil, err
	}
	return u, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email, encPassword, captcha string) error {
	_, err := call[any](ctx, s, "forgot_password", api.RequestSpec{
		Method: http.MethodPost,
		Path:   PathForgotPassword,
		Body:   credentialsRequest{Email: email, Password: encPassword, Captcha: captcha},
	}, "email", email)
	return err
}

func (s *authService) SendCaptcha(ctx context.Context, email string) (bool, error) {
	return call[bool](ctx, s, "send_captcha", api.RequestSpec{
		Method: http.MethodGet,
		Path:   PathCaptchaMail,
		Query:  url.Values{"email": {email}},
	}, "email", email)
}

func (s *authService) GoogleOAuthURL(ctx context.Context) (string, error) {
	data, err := call[authorizeURLData](ctx, s, "google_oauth_url", api.RequestSpec{
		Method: http.MethodGet,
		Path:   PathGoogle,
	})
	if err != nil {
		return "", err
	}
	return data.AuthorizeURL, nil
}

func (s *authService) LoginWithGoogleCallback(ctx context.Context, clientID, code, state string) (string, error) {
	data, err := call[tokenData](ctx, s, "login_google_callback", api.RequestSpec{
		Method: http.MethodPost,
		Path:   PathLogin,
		Body: socialLoginRequest{
			ClientID: clientID,
			AuthType: common.AuthTypeSocial,
			Source:   common.SourceGoogle,
			Code:     code,
			State:    state,
		},
	})
	if err != nil {
		return "", err
	}
	if data.Token == "" {
		s.log.Error(ctx, "auth operation failed", "op", "login_google_callback", "error", ErrEmptyToken)
		return "", ErrEmptyToken
	}
	return data.Token, nil
}

// AuthorizeClient asks for an authorization code on behalf of clientID.
// A returned code is kept as the pending OAuth code.
func (s *authService) AuthorizeClient(ctx context.Context, clientID string) (string, bool, error) {
	data, err := call[*authorizeCodeData](ctx, s, "authorize_client", api.RequestSpec{
		Method:   http.MethodGet,
		Path:     PathAuthorize,
		Query:    url.Values{"clientId": {clientID}},
		NeedAuth: true,
	}, "client_id", clientID)
	if err != nil {
		return "", false, err
	}
	if data == nil || data.Code == "" {
		return "", false, nil
	}

	if err := s.codes.SavePendingCode(ctx, data.Code); err != nil {
		s.log.Error(ctx, "auth operation failed", "op", "authorize_client", "client_id", clientID, "error", err)
		return "", false, err
	}
	return data.Code, true, nil
}
