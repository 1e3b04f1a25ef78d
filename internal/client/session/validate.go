package session

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
)

// MinPasswordLength is the shortest password accepted by sign-up and reset.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &api.ValidationError{Field: "email", Reason: "is required"}
	}
	if !emailPattern.MatchString(email) {
		return &api.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	if password == "" {
		return &api.ValidationError{Field: "password", Reason: "is required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &api.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	if password != confirm {
		return &api.ValidationError{Field: "confirmPassword", Reason: "does not match"}
	}
	return nil
}

func validateCaptcha(code string) error {
	if strings.TrimSpace(code) == "" {
		return &api.ValidationError{Field: "captcha", Reason: "is required"}
	}
	return nil
}
