package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	lines := capturePrintln(t)
	stubInput(t, []string{"a@example.com"}, []string{"secret1"})
	a := newTestApp()

	require.NoError(t, a.Login(context.Background()))

	require.NotNil(t, a.flows.signIn)
	assert.Equal(t, session.SignInForm{Email: "a@example.com", Password: "secret1"}, *a.flows.signIn)
	assert.Equal(t, []string{"Signed in as alice"}, *lines)
	assert.Equal(t, 1, a.captcha.resets)
}

func TestLogin_ErrorIsReturned(t *testing.T) {
	capturePrintln(t)
	stubInput(t, []string{"a@example.com"}, []string{"bad"})
	a := newTestApp()
	a.flows.err = &api.RejectedError{Code: 400, Msg: "wrong password"}

	err := a.Login(context.Background())
	assert.ErrorIs(t, err, api.ErrRequestRejected)
	assert.Equal(t, 0, a.captcha.resets)
}

func TestRegister_SendsCodeThenSignsUp(t *testing.T) {
	lines := capturePrintln(t)
	stubInput(t, []string{"new@example.com", "123456"}, []string{"secret1", "secret1"})
	a := newTestApp()

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, []string{"new@example.com"}, a.captcha.sent)
	require.NotNil(t, a.flows.signUp)
	assert.Equal(t, session.SignUpForm{
		Email: "new@example.com", Password: "secret1", ConfirmPassword: "secret1", Captcha: "123456",
	}, *a.flows.signUp)
	assert.Contains(t, *lines, "Verification code sent to new@example.com")
	assert.Contains(t, *lines, "Signed in as alice")
}

func TestRegister_CooldownKeepsEarlierCode(t *testing.T) {
	lines := capturePrintln(t)
	stubInput(t, []string{"new@example.com", "123456"}, []string{"secret1", "secret1"})
	a := newTestApp()
	a.captcha.err = &session.CooldownError{Remaining: 42}
	a.captcha.remaining = 42

	require.NoError(t, a.Register(context.Background()))

	require.NotNil(t, a.flows.signUp)
	assert.Contains(t, *lines, "A code was sent recently, resend available in 42s.")
}

func TestRegister_SendFailureStops(t *testing.T) {
	capturePrintln(t)
	stubInput(t, []string{"new@example.com"}, nil)
	a := newTestApp()
	a.captcha.err = errors.New("mail down")

	assert.EqualError(t, a.Register(context.Background()), "mail down")
	assert.Nil(t, a.flows.signUp)
}

func TestForgot_ResetsPassword(t *testing.T) {
	lines := capturePrintln(t)
	stubInput(t, []string{"a@example.com", "654321"}, []string{"newpass", "newpass"})
	a := newTestApp()

	require.NoError(t, a.Forgot(context.Background()))

	require.NotNil(t, a.flows.reset)
	assert.Equal(t, "654321", a.flows.reset.Captcha)
	assert.Equal(t, []string{"Verification code sent to a@example.com", "Password changed.", "Signed in as alice"}, *lines)
}

func TestCaptcha_ArgOrPrompt(t *testing.T) {
	capturePrintln(t)
	stubInput(t, []string{"prompted@example.com"}, nil)
	a := newTestApp()

	require.NoError(t, a.Captcha(context.Background(), []string{"arg@example.com"}))
	require.NoError(t, a.Captcha(context.Background(), nil))

	assert.Equal(t, []string{"arg@example.com", "prompted@example.com"}, a.captcha.sent)
}

func TestLogout(t *testing.T) {
	lines := capturePrintln(t)
	a := newTestApp()
	a.sess.state = session.StateAuthenticated

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, a.sess.signedOut)
	assert.Equal(t, 1, a.captcha.resets)
	assert.Equal(t, []string{"Signed out."}, *lines)
}

func TestWhoAmI(t *testing.T) {
	lines := capturePrintln(t)
	a := newTestApp()

	require.NoError(t, a.WhoAmI(context.Background()))
	a.sess.profile = &models.UserInfo{Nickname: "Al", Email: "a@example.com", Roles: []string{"admin"}}
	require.NoError(t, a.WhoAmI(context.Background()))

	assert.Equal(t, []string{"Not signed in.", "Al <a@example.com> [admin]"}, *lines)
}

func TestPrintErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"expired", &api.SessionExpiredError{Message: api.DefaultExpiredMessage}, "Session expired, please sign in again."},
		{"validation", &api.ValidationError{Field: "email", Reason: "is required"}, "Invalid email: is required"},
		{"cooldown", &session.CooldownError{Remaining: 5}, "Please wait 5s before requesting another code."},
		{"rejected captcha", &api.RejectedError{Code: 400, Msg: "invalid or expired verification code"}, "Error: invalid or expired verification code"},
		{"other", errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := capturePrintln(t)
			printErr(tt.err)
			assert.Equal(t, []string{tt.want}, *lines)
		})
	}
}
