// Package server wires configuration, storage and the HTTP API of the
// development server and runs it until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/policyinsight/internal/logging"
	"github.com/dmitrijs2005/policyinsight/internal/server/config"
	"github.com/dmitrijs2005/policyinsight/internal/server/httpapi"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/policyinsight/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	csrf        *services.CSRFTokens
}

// NewApp opens storage: PostgreSQL with migrations applied when a DSN is
// configured, memory otherwise.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var db *sql.DB
	var m repomanager.RepositoryManager

	if c.DatabaseDSN == "" {
		logger.Info(ctx, "No database configured, keeping data in memory")
		m = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		m = pm
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, m, c),
		csrf:        services.NewCSRFTokens(c.CSRFTokenTTL),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves the API until ctx is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	s := httpapi.NewServer(app.config.ListenAddr, app.logger, app.userService, app.csrf)
	err := s.Run(ctx)

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "error closing database", "error", cerr)
		}
	}

	return err
}
