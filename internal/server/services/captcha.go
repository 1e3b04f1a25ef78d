package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"golang.org/x/time/rate"
)

const CaptchaLength = 6

// Mailer delivers captcha codes.
type Mailer interface {
	SendCaptcha(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the log instead of sending mail. Development only.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendCaptcha(ctx context.Context, email, code string) error {
	m.log.Info(ctx, "captcha issued", "email", email, "code", code)
	return nil
}

type captchaEntry struct {
	code    string
	expires time.Time
}

// CaptchaService issues and checks mailed verification codes. Each address
// gets at most one code per interval; a code is valid for ttl and can be
// used once.
type CaptchaService struct {
	mu       sync.Mutex
	ttl      time.Duration
	interval time.Duration
	mailer   Mailer
	codes    map[string]captchaEntry
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

func NewCaptchaService(ttl, interval time.Duration, mailer Mailer) *CaptchaService {
	return &CaptchaService{
		ttl:      ttl,
		interval: interval,
		mailer:   mailer,
		codes:    make(map[string]captchaEntry),
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

func (s *CaptchaService) Send(ctx context.Context, email string) error {
	email, err := validateEmail(email)
	if err != nil {
		return err
	}

	code, err := common.MakeRandDigits(CaptchaLength)
	if err != nil {
		return common.ErrorInternal
	}

	s.mu.Lock()
	now := s.now()
	if !s.limiter(email).AllowN(now, 1) {
		s.mu.Unlock()
		return common.ErrTooManyRequests
	}
	s.codes[email] = captchaEntry{code: code, expires: now.Add(s.ttl)}
	s.mu.Unlock()

	if err := s.mailer.SendCaptcha(ctx, email, code); err != nil {
		s.mu.Lock()
		delete(s.codes, email)
		s.mu.Unlock()
		return fmt.Errorf("send captcha: %w", err)
	}
	return nil
}

func (s *CaptchaService) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok || code == "" {
		return common.ErrInvalidCaptcha
	}
	if s.now().After(entry.expires) {
		delete(s.codes, email)
		return common.ErrInvalidCaptcha
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return common.ErrInvalidCaptcha
	}

	delete(s.codes, email)
	return nil
}

// limiter must be called with mu held.
func (s *CaptchaService) limiter(email string) *rate.Limiter {
	l, ok := s.limiters[email]
	if !ok {
		l = rate.NewLimiter(rate.Every(s.interval), 1)
		s.limiters[email] = l
	}
	return l
}
