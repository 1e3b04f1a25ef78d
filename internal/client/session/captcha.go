package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/client/services"
)

var (
	ErrCooldownActive = errors.New("captcha cooldown active")
	ErrCaptchaNotSent = errors.New("captcha was not sent")
)

// CooldownError rejects a resend before the countdown is over.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %ds before requesting another code", e.Remaining)
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldownActive }

// CaptchaGate sends mail captchas, at most one per cooldown period.
type CaptchaGate struct {
	auth     services.AuthService
	cooldown *Cooldown
}

func NewCaptchaGate(auth services.AuthService, cooldown *Cooldown) *CaptchaGate {
	return &CaptchaGate{auth: auth, cooldown: cooldown}
}

// Send requests a captcha for email. While the cooldown runs nothing is sent
// and a *CooldownError is returned. Only a successful send starts it.
func (g *CaptchaGate) Send(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if n := g.cooldown.Remaining(); n > 0 {
		return &CooldownError{Remaining: n}
	}

	sent, err := g.auth.SendCaptcha(ctx, email)
	if err != nil {
		return err
	}
	if !sent {
		return ErrCaptchaNotSent
	}

	g.cooldown.Start()
	return nil
}

// Remaining returns the seconds left before the next send is allowed.
func (g *CaptchaGate) Remaining() int {
	return g.cooldown.Remaining()
}

// Countdown streams Remaining once per second until 0.
func (g *CaptchaGate) Countdown(ctx context.Context) <-chan int {
	return g.cooldown.Countdown(ctx)
}

// Reset clears the cooldown, e.g. when the auth dialog is closed.
func (g *CaptchaGate) Reset() {
	g.cooldown.Reset()
}
