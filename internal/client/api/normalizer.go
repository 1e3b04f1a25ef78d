package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// AuthClearer drops the stored session.
type AuthClearer interface {
	ClearAuth(ctx context.Context) error
}

// Normalizer converts responses into Envelopes and owns session
// invalidation on expiry.
type Normalizer struct {
	clearer AuthClearer
	log     logging.Logger
}

func NewNormalizer(clearer AuthClearer, log logging.Logger) *Normalizer {
	return &Normalizer{clearer: clearer, log: log}
}

// ParseEnvelope decodes the response body. An unreadable body becomes a
// *TransportError carrying the HTTP status. The body is not closed.
func (n *Normalizer) ParseEnvelope(resp *http.Response) (*Envelope, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, newTransportError(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, newTransportError(resp.StatusCode, fmt.Errorf("decode envelope: %w", err))
	}
	return &env, nil
}

// CheckExpiry clears the session and returns true when env carries code 401.
func (n *Normalizer) CheckExpiry(ctx context.Context, env *Envelope) bool {
	if env == nil || env.Code != common.CodeExpired {
		return false
	}
	n.expire(ctx)
	return true
}

func (n *Normalizer) expire(ctx context.Context) {
	if err := n.clearer.ClearAuth(ctx); err != nil {
		n.log.Error(ctx, "clearing expired session failed", "error", err)
		return
	}
	n.log.Info(ctx, "session expired, credentials cleared")
}

// HandleResponse reads and closes resp.Body.
//
// HTTP 401 and body code 401 are equivalent: either clears the session and
// yields a *SessionExpiredError, also in the 2xx range and also when the body
// cannot be parsed. Other non-2xx responses become a *RejectedError, or a
// *TransportError when the body is unreadable. Any other 2xx envelope is
// returned unchanged; callers check Success.
func (n *Normalizer) HandleResponse(ctx context.Context, resp *http.Response) (*Envelope, error) {
	defer resp.Body.Close()

	statusExpired := resp.StatusCode == http.StatusUnauthorized
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	env, err := n.ParseEnvelope(resp)
	if err != nil {
		if statusExpired {
			n.expire(ctx)
			return nil, &SessionExpiredError{}
		}
		return nil, err
	}

	if statusExpired {
		n.expire(ctx)
		return env, &SessionExpiredError{Message: env.Msg}
	}
	if n.CheckExpiry(ctx, env) {
		return env, &SessionExpiredError{Message: env.Msg}
	}

	if !ok {
		msg := env.Msg
		if msg == "" {
			msg = fmt.Sprintf("request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		code := env.Code
		if code == common.CodeOK {
			code = resp.StatusCode
		}
		return env, &RejectedError{Code: code, Msg: msg}
	}

	return env, nil
}
