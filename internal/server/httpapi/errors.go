package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/server/services"
)

type apiError struct {
	status int
	code   int
	msg    string
}

var errorTable = []struct {
	target error
	apiError
}{
	{common.ErrorValidation, apiError{http.StatusBadRequest, common.CodeBadRequest, ""}},
	{common.ErrorUnauthorized, apiError{http.StatusBadRequest, common.CodeBadRequest, "invalid email or password"}},
	{common.ErrInvalidCaptcha, apiError{http.StatusBadRequest, common.CodeBadRequest, "invalid or expired verification code"}},
	{common.ErrInvalidOAuthState, apiError{http.StatusBadRequest, common.CodeBadRequest, "invalid or expired sign-in request"}},
	{common.ErrorAlreadyExists, apiError{http.StatusConflict, common.CodeConflict, "email is already registered"}},
	{common.ErrorNotFound, apiError{http.StatusNotFound, http.StatusNotFound, "account not found"}},
	{common.ErrUnknownClient, apiError{http.StatusForbidden, common.CodeForbidden, "unknown client"}},
	{common.ErrTooManyRequests, apiError{http.StatusTooManyRequests, common.CodeTooManyRequests, "too many requests, try again later"}},
	{services.ErrGoogleDisabled, apiError{http.StatusNotImplemented, http.StatusNotImplemented, "google sign-in is not configured"}},
}

// toAPIError maps a service error onto status, envelope code and message.
// Bad credentials are deliberately not 401: clients treat 401 as an expired
// session.
func toAPIError(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			out := e.apiError
			if out.msg == "" {
				out.msg = err.Error()
			}
			return out
		}
	}
	return apiError{http.StatusInternalServerError, common.CodeInternal, "internal error"}
}

func writeError(w http.ResponseWriter, err error) {
	e := toAPIError(err)
	writeFail(w, e.status, e.code, e.msg)
}
