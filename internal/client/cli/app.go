package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/config"
	"github.com/dmitrijs2005/portalauth/internal/client/credentials"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/prefs"
	"github.com/dmitrijs2005/portalauth/internal/client/services"
	"github.com/dmitrijs2005/portalauth/internal/client/session"
	"github.com/dmitrijs2005/portalauth/internal/client/storage"
	"github.com/dmitrijs2005/portalauth/internal/cryptox"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

// maxRequestsPerSecond keeps a scripted REPL from hammering the auth service.
const maxRequestsPerSecond = 5

type sessionManager interface {
	Bootstrap(ctx context.Context) session.State
	State(ctx context.Context) session.State
	Profile(ctx context.Context) (*models.UserInfo, error)
	Subscribe(fn func(session.State)) (cancel func())
	SignOut(ctx context.Context) error
}

type authFlows interface {
	SignIn(ctx context.Context, form session.SignInForm) (*models.UserInfo, error)
	SignUp(ctx context.Context, form session.SignUpForm) (*models.UserInfo, error)
	ResetPassword(ctx context.Context, form session.ResetForm) (*models.UserInfo, error)
}

type captchaSender interface {
	Send(ctx context.Context, email string) error
	Remaining() int
	Reset()
}

type oauthHandler interface {
	BeginGoogle(ctx context.Context) (string, error)
	Handle(ctx context.Context, callbackURL string) (string, error)
}

type clientAuthorizer interface {
	AuthorizeClient(ctx context.Context, clientID string) (string, bool, error)
}

type preferences interface {
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, lang string) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type App struct {
	config  *config.Config
	rt      *session.Runtime
	session sessionManager
	flows   authFlows
	captcha captchaSender
	oauth   oauthHandler
	auth    clientAuthorizer
	prefs   preferences
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
	db      *sql.DB
}

// NewEncrypter loads the auth service public key. In production a missing
// or broken key is fatal; in development plaintext is used only when the
// config explicitly allows it.
func NewEncrypter(c *config.Config, log logging.Logger) (cryptox.PasswordEncrypter, error) {
	pem, err := cryptox.ReadKeyFile(c.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	enc, err := cryptox.NewPasswordEncrypter(cryptox.EncrypterOptions{
		PublicKeyPEM:   pem,
		Production:     c.IsProduction(),
		AllowPlaintext: c.AllowPlaintextPasswords,
	})
	if err != nil {
		return nil, err
	}

	if _, plain := enc.(cryptox.PlaintextEncrypter); plain {
		log.Warn(context.Background(), "no usable public key, passwords will be sent in PLAINTEXT (development only)")
	}
	return enc, nil
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	enc, err := NewEncrypter(c, log)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := credentials.NewStore(db, c.Origin, log)
	pr := prefs.New(db, c.Origin)

	builder, err := api.NewRequestBuilder(c.AuthBaseURL, store, pr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client := api.NewClient(builder, api.NewNormalizer(store, log),
		api.WithTimeout(c.RequestTimeout),
		api.WithRateLimit(maxRequestsPerSecond),
		api.WithLogger(log),
	)

	auth := services.NewAuthService(client, store, log)
	rt := session.NewRuntime()

	return &App{
		config:  c,
		rt:      rt,
		session: session.NewOrchestrator(rt, store, auth, log),
		flows:   session.NewFlows(auth, enc, store, c.ClientID, log),
		captcha: session.NewCaptchaGate(auth, session.NewCooldown(session.SystemClock, session.CaptchaCooldown, session.CooldownTick)),
		oauth:   session.NewOAuthCallback(rt, auth, store, c.ClientID, log),
		auth:    auth,
		prefs:   pr,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		log:     log,
		db:      db,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.session.State(ctx) == session.StateAuthenticated
}
