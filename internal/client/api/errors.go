package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

var (
	ErrTransport       = errors.New("transport error")
	ErrSessionExpired  = errors.New("session expired")
	ErrRequestRejected = errors.New("request rejected")
	ErrValidation      = errors.New("validation failed")
)

// DefaultExpiredMessage is used when the server gives no message of its own.
const DefaultExpiredMessage = "session expired, please sign in again"

// TransportError covers network failures and unreadable responses. It never
// changes the stored session.
type TransportError struct {
	Status     int
	StatusText string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("transport error: %d %s: %v", e.Status, e.StatusText, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("transport error: %d %s", e.Status, e.StatusText)
	case e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	default:
		return "transport error"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func newTransportError(status int, err error) *TransportError {
	return &TransportError{Status: status, StatusText: http.StatusText(status), Err: err}
}

// SessionExpiredError is returned after the stored session has been cleared
// because the server reported it expired.
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	if e.Message == "" {
		return DefaultExpiredMessage
	}
	return e.Message
}

func (e *SessionExpiredError) Is(target error) bool { return target == ErrSessionExpired }

// RejectedError is a request-level failure such as bad credentials or a wrong
// captcha. The session is left untouched.
type RejectedError struct {
	Code int
	Msg  string
}

func (e *RejectedError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request rejected (code %d)", e.Code)
	}
	return e.Msg
}

func (e *RejectedError) Is(target error) bool { return target == ErrRequestRejected }

// ValidationError is raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var expiredPattern = regexp.MustCompile(`(?i)expired|\b401\b`)

// IsExpired reports whether err means the visible session has to be torn
// down. A *SessionExpiredError anywhere in the chain says yes; any other
// error from this package says no, whatever its message. Only errors of
// unknown origin are judged by a message that reads like an expiry.
func IsExpired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	if errors.Is(err, ErrRequestRejected) || errors.Is(err, ErrTransport) || errors.Is(err, ErrValidation) {
		return false
	}
	return expiredPattern.MatchString(err.Error())
}
