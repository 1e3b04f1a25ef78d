package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Captcha / rate limiting.
	ErrInvalidCaptcha    = errors.New("invalid or expired captcha")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrUnknownClient     = errors.New("unknown client")
	ErrInvalidOAuthState = errors.New("invalid oauth state")
)
