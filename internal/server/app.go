// Package server initializes and runs the portal auth server.
// It loads the password key, picks the user store, wires the services and
// serves the HTTP API until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/dmitrijs2005/portalauth/internal/netx"
	"github.com/dmitrijs2005/portalauth/internal/server/config"
	"github.com/dmitrijs2005/portalauth/internal/server/httpapi"
	"github.com/dmitrijs2005/portalauth/internal/server/oauth"
	"github.com/dmitrijs2005/portalauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portalauth/internal/server/services"
)

const (
	defaultSecretKey = "secretKey"
	oauthStateTTL    = 10 * time.Minute
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.IsProduction() && (c.SecretKey == "" || c.SecretKey == defaultSecretKey) {
		return nil, errors.New("refusing to start in production with the default secret key")
	}

	key, err := LoadOrCreateKey(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	db, rm, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	captcha := services.NewCaptchaService(c.CaptchaTTL, c.CaptchaInterval, services.NewLogMailer(logger))
	users := services.NewUserService(db, rm, captcha, key, c)

	var provider oauth.Provider
	if c.GoogleClientID != "" {
		provider = oauth.NewGoogleProvider(c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
	} else {
		logger.Warn(ctx, "google sign-in disabled, no client id configured")
	}
	social := services.NewSocialService(provider, oauth.NewStateStore(oauthStateTTL), users)
	authorizer := services.NewAuthorizeService(c.AllowsClient)

	h := httpapi.NewHandler(users, captcha, social, authorizer, c.AllowsClient, logger)

	return &App{config: c, logger: logger, db: db, handler: h.Routes()}, nil
}

// openRepositories returns a Postgres-backed manager when a DSN is set and
// an in-memory one otherwise. db is nil in the latter case.
func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (*sql.DB, repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		if c.IsProduction() {
			return nil, nil, errors.New("refusing to start in production without a database")
		}
		logger.Warn(ctx, "no database configured, users are kept in memory")
		return nil, repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, rm, nil
}

func (app *App) Handler() http.Handler { return app.handler }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.ListenAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: app.config.ListenAddr, Handler: app.handler}
	err := netx.ListenAndServe(ctx, srv)

	app.logger.Info(ctx, "Stopping app...")
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "db close error", "error", cerr)
		}
	}
	return err
}

