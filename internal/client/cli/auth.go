package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/session"
	"github.com/dmitrijs2005/portalauth/internal/common"
)

var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// printErr renders err the way the sign-in dialog shows it: expiry gets the
// re-login hint, validation names the field, everything else is shown as is.
func printErr(err error) {
	var verr *api.ValidationError
	var cerr *session.CooldownError
	switch {
	case api.IsExpired(err):
		printlnFn("Session expired, please sign in again.")
	case errors.As(err, &verr):
		printlnFn(fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Reason))
	case errors.As(err, &cerr):
		printlnFn(fmt.Sprintf("Please wait %ds before requesting another code.", cerr.Remaining))
	default:
		printlnFn("Error:", err)
	}
}

func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) signedIn(u *models.UserInfo) {
	a.captcha.Reset()
	printlnFn("Signed in as " + u.DisplayName())
}

// Login asks for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	u, err := a.flows.SignIn(ctx, session.SignInForm{Email: email, Password: password})
	if err != nil {
		return err
	}
	a.signedIn(u)
	return nil
}

// requestCode sends a mail captcha unless one was sent within the cooldown,
// in which case the earlier code is still good.
func (a *App) requestCode(ctx context.Context, email string) error {
	err := a.captcha.Send(ctx, email)
	switch {
	case err == nil:
		printlnFn("Verification code sent to " + email)
	case errors.Is(err, session.ErrCooldownActive):
		printlnFn(fmt.Sprintf("A code was sent recently, resend available in %ds.", a.captcha.Remaining()))
	default:
		return err
	}
	return nil
}

// newPasswordForm collects the shared part of the sign-up and reset forms.
func (a *App) newPasswordForm(ctx context.Context) (email, password, confirm, code string, err error) {
	if email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return
	}
	if err = a.requestCode(ctx, email); err != nil {
		return
	}
	if code, err = getSimpleText(a.reader, "Verification code", a.out); err != nil {
		return
	}
	if password, err = a.readSecret("Password"); err != nil {
		return
	}
	confirm, err = a.readSecret("Confirm password")
	return
}

// Register creates an account and signs into it.
func (a *App) Register(ctx context.Context) error {
	email, password, confirm, code, err := a.newPasswordForm(ctx)
	if err != nil {
		return err
	}

	u, err := a.flows.SignUp(ctx, session.SignUpForm{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		Captcha:         code,
	})
	if err != nil {
		return err
	}
	a.signedIn(u)
	return nil
}

// Forgot resets the password and signs in with the new one.
func (a *App) Forgot(ctx context.Context) error {
	email, password, confirm, code, err := a.newPasswordForm(ctx)
	if err != nil {
		return err
	}

	u, err := a.flows.ResetPassword(ctx, session.ResetForm{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		Captcha:         code,
	})
	if err != nil {
		return err
	}
	printlnFn("Password changed.")
	a.signedIn(u)
	return nil
}

func (a *App) Captcha(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	if err := a.captcha.Send(ctx, email); err != nil {
		return err
	}
	printlnFn("Verification code sent to " + email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.captcha.Reset()
	printlnFn("Signed out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.session.Profile(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		printlnFn("Not signed in.")
		return nil
	}
	line := u.DisplayName()
	if u.Email != "" && u.Email != line {
		line += " <" + u.Email + ">"
	}
	if len(u.Roles) > 0 {
		line += " [" + strings.Join(u.Roles, ", ") + "]"
	}
	printlnFn(line)
	return nil
}
