// Package common contains constants, sentinel errors and small helpers
// shared by the portalauth client and the reference auth server.
package common

// Persisted state keys. The token lives in both the cookie jar and local
// storage; everything else is local storage only.
const (
	KeyAuthToken  = "AUTH_TOKEN"
	KeyUserInfo   = "USER_INFO"
	KeyOAuthCode  = "OAUTH_CODE"
	KeyLanguage   = "LANGUAGE"
	KeyTheme      = "THEME"
	KeyIPLocation = "IP_LOCATION"

	// KeyTokenSavedAt (local) and KeyAuthClearedAt (cookie) hold unix-nano
	// times used to tell a live fallback token from one a sibling cleared.
	KeyTokenSavedAt  = "AUTH_TOKEN_SAVED_AT"
	KeyAuthClearedAt = "AUTH_CLEARED_AT"
)

// HTTP header names and values used on every API call.
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderCorrelationID  = "X-Correlation-ID"

	BearerPrefix    = "Bearer "
	ContentTypeJSON = "application/json"
)

// Login auth types and social sources accepted by POST /auth/login.
const (
	AuthTypeEmailPassword = "EMAIL_PASSWORD"
	AuthTypeSocial        = "SOCIAL"
	SourceGoogle          = "google"
)

// Application-level response codes carried in the envelope body.
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeExpired         = 401
	CodeForbidden       = 403
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
