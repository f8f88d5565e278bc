// Package server initializes and runs the movie review API: it opens the
// database, applies migrations, wires services to the REST transport and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/moviereviews/internal/logging"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/cache"
	"github.com/dmitrijs2005/moviereviews/internal/server/config"
	hs "github.com/dmitrijs2005/moviereviews/internal/server/http"
	"github.com/dmitrijs2005/moviereviews/internal/server/notify"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/moviereviews/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	cache    *cache.ResponseCache
	notifier *notify.Notifier
	handler  http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	signer := auth.NewJWTSigner([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	tokens := services.NewTokenService(rm.Users(db), signer, hasher, nil)

	webhooks := services.NewWebhookService(db, rm, nil)
	notifier := notify.New(webhooks, &http.Client{}, c.WebhookTimeout, logger.With("component", "notifier"))
	responses := cache.New(cache.WithTTL(c.CacheTTL), cache.WithLogger(logger.With("component", "cache")))

	handler := hs.NewRouter(hs.Config{
		BaseURL:           c.APIBaseURL,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,
	}, hs.Deps{
		Tokens:   tokens,
		Accounts: services.NewAccountService(db, rm, tokens, hasher),
		Movies:   services.NewMovieService(db, rm),
		Reviews:  services.NewReviewService(db, rm),
		Webhooks: webhooks,
		Notifier: notifier,
		Cache:    responses,
		Logger:   logger,
	})

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		cache:    responses,
		notifier: notifier,
		handler:  handler,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.HTTPAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the process is signalled or the server fails, then
// drains pending webhook deliveries and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.cache.Run(ctx, app.config.CacheSweepInterval)
	}()

	wg.Wait()

	app.notifier.Wait()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
