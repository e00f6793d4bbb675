// Package server wires the accounts service together: config, database,
// migrations, object storage, notifier, and the HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkovs/talentdesk/internal/logging"
	"github.com/avolkovs/talentdesk/internal/server/config"
	"github.com/avolkovs/talentdesk/internal/server/federation"
	"github.com/avolkovs/talentdesk/internal/server/httpapi"
	"github.com/avolkovs/talentdesk/internal/server/repositories/repomanager"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"github.com/avolkovs/talentdesk/internal/server/uploads"
	"github.com/sethvargo/go-retry"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(cfg *config.Config) *App {
	level := slog.LevelInfo
	if cfg.DevMode {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &App{
		config: cfg,
		logger: logging.NewSlogLogger(slog.New(handler)),
	}
}

// Run starts the service and blocks until SIGINT/SIGTERM or a fatal error.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := a.openDatabase(ctx)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	notifier := services.NewNotifier(a.logger, 64)
	notifier.Start(ctx)

	verifier := federation.NewJWTVerifier(a.config.FederationProvider, []byte(a.config.FederationSecret))
	files := uploads.NewS3Store(a.config)
	service := services.NewAccountService(db, manager, verifier, files, notifier, a.logger, a.config)

	err = httpapi.NewServer(a.config, service, files, a.logger).Run(ctx)

	stop()
	notifier.Wait()
	return err
}

// NewAdminService opens the database and returns an AccountService for
// administrative tooling like adminctl. Federation, uploads, and
// notifications are not wired; the admin path provisions local-password
// accounts only. The returned func closes the pool.
func NewAdminService(ctx context.Context, cfg *config.Config, logger logging.Logger) (*services.AccountService, func(), error) {
	a := &App{config: cfg, logger: logger}

	db, err := a.openDatabase(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	service := services.NewAccountService(db, manager, nil, nil, nil, logger, cfg)
	return service, func() { db.Close() }, nil
}

// openDatabase opens the pool and pings with a fibonacci backoff, so a
// cold-started database container gets a chance to come up first.
func (a *App) openDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", a.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			a.logger.Warn(ctx, "database not reachable yet, retrying", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
