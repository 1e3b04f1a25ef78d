package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/session"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

type fakeSession struct {
	state      session.State
	profile    *models.UserInfo
	signOutErr error
	signedOut  bool
	boots      int
	subscriber func(session.State)
}

func (f *fakeSession) Bootstrap(context.Context) session.State {
	f.boots++
	return f.state
}
func (f *fakeSession) State(context.Context) session.State { return f.state }
func (f *fakeSession) Profile(context.Context) (*models.UserInfo, error) {
	return f.profile, nil
}
func (f *fakeSession) Subscribe(fn func(session.State)) func() {
	f.subscriber = fn
	return func() { f.subscriber = nil }
}
func (f *fakeSession) SignOut(context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = true
	f.state = session.StateAnonymous
	f.profile = nil
	return nil
}

type fakeFlows struct {
	signIn *session.SignInForm
	signUp *session.SignUpForm
	reset  *session.ResetForm
	user   *models.UserInfo
	err    error
}

func (f *fakeFlows) SignIn(_ context.Context, form session.SignInForm) (*models.UserInfo, error) {
	f.signIn = &form
	return f.user, f.err
}
func (f *fakeFlows) SignUp(_ context.Context, form session.SignUpForm) (*models.UserInfo, error) {
	f.signUp = &form
	return f.user, f.err
}
func (f *fakeFlows) ResetPassword(_ context.Context, form session.ResetForm) (*models.UserInfo, error) {
	f.reset = &form
	return f.user, f.err
}

type fakeCaptcha struct {
	sent      []string
	err       error
	remaining int
	resets    int
}

func (f *fakeCaptcha) Send(_ context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}
func (f *fakeCaptcha) Remaining() int { return f.remaining }
func (f *fakeCaptcha) Reset()         { f.resets++ }

type fakeOAuth struct {
	url     string
	handled []string
	next    string
	err     error
}

func (f *fakeOAuth) BeginGoogle(context.Context) (string, error) { return f.url, f.err }
func (f *fakeOAuth) Handle(_ context.Context, u string) (string, error) {
	f.handled = append(f.handled, u)
	return f.next, f.err
}

type fakeAuthorizer struct {
	code string
	ok   bool
	err  error
	got  string
}

func (f *fakeAuthorizer) AuthorizeClient(_ context.Context, clientID string) (string, bool, error) {
	f.got = clientID
	return f.code, f.ok, f.err
}

type fakePrefs struct {
	lang  string
	theme string
	err   error
}

func (f *fakePrefs) Language(context.Context) (string, error) { return f.lang, nil }
func (f *fakePrefs) SetLanguage(_ context.Context, l string) error {
	f.lang = l
	return nil
}
func (f *fakePrefs) Theme(context.Context) (string, error) {
	if f.theme == "" {
		return "light", nil
	}
	return f.theme, nil
}
func (f *fakePrefs) SetTheme(_ context.Context, t string) error {
	if f.err != nil {
		return f.err
	}
	f.theme = t
	return nil
}

type testApp struct {
	*App
	sess    *fakeSession
	flows   *fakeFlows
	captcha *fakeCaptcha
	oauth   *fakeOAuth
	authz   *fakeAuthorizer
	prefs   *fakePrefs
}

func newTestApp() *testApp {
	ta := &testApp{
		sess:    &fakeSession{state: session.StateAnonymous},
		flows:   &fakeFlows{user: &models.UserInfo{Username: "alice", Email: "a@example.com"}},
		captcha: &fakeCaptcha{},
		oauth:   &fakeOAuth{},
		authz:   &fakeAuthorizer{},
		prefs:   &fakePrefs{},
	}
	ta.App = &App{
		rt:      session.NewRuntime(),
		session: ta.sess,
		flows:   ta.flows,
		captcha: ta.captcha,
		oauth:   ta.oauth,
		auth:    ta.authz,
		prefs:   ta.prefs,
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     &bytes.Buffer{},
		log:     logging.Discard(),
	}
	return ta
}

// capturePrintln replaces printlnFn for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

// stubInput feeds getSimpleText and getPassword from fixed answers.
func stubInput(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", fmt.Errorf("unexpected prompt %q", prompt)
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, prompt string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, fmt.Errorf("unexpected password prompt %q", prompt)
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })
}
