// Package httpapi exposes the auth server over HTTP/JSON. Every response is
// an envelope {code, msg, success, timestamp, data}.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/dmitrijs2005/portalauth/internal/server/models"
)

// Accounts is the account side of the API.
type Accounts interface {
	TokenAuthenticator
	Register(ctx context.Context, email, encPassword, captcha string) (*models.User, error)
	Login(ctx context.Context, email, encPassword string) (string, error)
	ResetPassword(ctx context.Context, email, encPassword, captcha string) error
	UserInfo(ctx context.Context, userID string) (*models.UserInfo, error)
}

type Captchas interface {
	Send(ctx context.Context, email string) error
}

type Social interface {
	AuthorizeURL() (string, error)
	Login(ctx context.Context, code, state string) (string, error)
}

type Authorizer interface {
	Issue(ctx context.Context, userID, clientID string) (string, error)
}

type Handler struct {
	accounts   Accounts
	captchas   Captchas
	social     Social
	authorizer Authorizer
	clients    func(clientID string) bool
	logger     logging.Logger
}

func NewHandler(accounts Accounts, captchas Captchas, social Social, authorizer Authorizer, clients func(string) bool, l logging.Logger) *Handler {
	return &Handler{
		accounts:   accounts,
		captchas:   captchas,
		social:     social,
		authorizer: authorizer,
		clients:    clients,
		logger:     l.With("module", "http_api"),
	}
}

// Routes returns the API with its middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /api/register/email", h.register)
	mux.HandleFunc("GET /auth/user/info", requireAuth(h.accounts, h.userInfo))
	mux.HandleFunc("POST /auth/forgot-password", h.forgotPassword)
	mux.HandleFunc("GET /api/captcha/mail", h.sendCaptcha)
	mux.HandleFunc("GET /auth/google", h.googleURL)
	mux.HandleFunc("GET /oauth2/authorize", requireAuth(h.accounts, h.authorize))

	return chain(mux, recovery(h.logger), correlationID, accessLog(h.logger))
}

type loginRequest struct {
	ClientID string `json:"clientId"`
	AuthType string `json:"authType"`
	Email    string `json:"email"`
	Password string `json:"password"`
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

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

// fail logs unexpected errors and writes the mapped response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if e := toAPIError(err); e.status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "op", op, "error", err)
	}
	writeError(w, err)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}
	if !h.clients(req.ClientID) {
		h.fail(w, r, "login", common.ErrUnknownClient)
		return
	}

	var (
		token string
		err   error
	)
	switch req.AuthType {
	case common.AuthTypeEmailPassword:
		token, err = h.accounts.Login(r.Context(), req.Email, req.Password)
	case common.AuthTypeSocial:
		if req.Source != common.SourceGoogle {
			err = fmt.Errorf("%w: unsupported source %q", common.ErrorValidation, req.Source)
			break
		}
		token, err = h.social.Login(r.Context(), req.Code, req.State)
	default:
		err = fmt.Errorf("%w: unsupported auth type %q", common.ErrorValidation, req.AuthType)
	}
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	writeOK(w, tokenData{Token: token})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}
	if _, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.Captcha); err != nil {
		h.fail(w, r, "register", err)
		return
	}
	writeOK(w, true)
}

func (h *Handler) userInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.accounts.UserInfo(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// the token outlived its account
			writeFail(w, http.StatusUnauthorized, common.CodeExpired, "user not found")
			return
		}
		h.fail(w, r, "user_info", err)
		return
	}
	writeOK(w, info)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}
	if err := h.accounts.ResetPassword(r.Context(), req.Email, req.Password, req.Captcha); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}
	writeOK(w, nil)
}

func (h *Handler) sendCaptcha(w http.ResponseWriter, r *http.Request) {
	if err := h.captchas.Send(r.Context(), r.URL.Query().Get("email")); err != nil {
		h.fail(w, r, "send_captcha", err)
		return
	}
	writeOK(w, true)
}

func (h *Handler) googleURL(w http.ResponseWriter, r *http.Request) {
	u, err := h.social.AuthorizeURL()
	if err != nil {
		h.fail(w, r, "google_url", err)
		return
	}
	writeOK(w, authorizeURLData{AuthorizeURL: u})
}

// authorize issues a code for another client. Clients that may not receive
// codes get data null rather than an error.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	code, err := h.authorizer.Issue(r.Context(), UserIDFromContext(r.Context()), r.URL.Query().Get("clientId"))
	if err != nil {
		if errors.Is(err, common.ErrUnknownClient) {
			writeOK(w, nil)
			return
		}
		h.fail(w, r, "authorize", err)
		return
	}
	writeOK(w, authorizeCodeData{Code: code})
}
