package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/policyinsight/internal/client/api"
	"github.com/dmitrijs2005/policyinsight/internal/client/config"
	"github.com/dmitrijs2005/policyinsight/internal/client/guard"
	"github.com/dmitrijs2005/policyinsight/internal/client/session"
	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
)

type App struct {
	config  *config.Config
	session session.Service
	store   *tokenstore.Store
	guards  map[guard.Policy]*guard.Guard
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	// userLogout suppresses the "session ended" notice while the user
	// logs out or deletes the account on purpose.
	userLogout bool
}

// openBackend returns the credential backend selected by cfg.Store together
// with the cookie jar to hand to the HTTP client, if any. Persistent backends
// are sealed when cfg.StoreKey is set.
func openBackend(ctx context.Context, cfg *config.Config) (tokenstore.Backend, http.CookieJar, error) {
	var (
		b   tokenstore.Backend
		err error
	)
	switch cfg.Store {
	case config.StoreMemory:
		return tokenstore.NewMemoryBackend(), nil, nil
	case config.StoreJar, "":
		jb, err := tokenstore.NewJarBackend(cfg.ServerAddr, cfg.Production)
		if err != nil {
			return nil, nil, err
		}
		return jb, jb.Jar(), nil
	case config.StoreSQLite:
		b, err = tokenstore.OpenSQLite(ctx, cfg.StorePath)
	case config.StoreBolt:
		b, err = tokenstore.OpenBolt(cfg.StorePath)
	case config.StoreRedis:
		b, err = tokenstore.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", cfg.Store)
	}
	if err != nil {
		return nil, nil, err
	}
	if cfg.Sealed() {
		b = tokenstore.NewSealedBackend(b, cfg.StoreKey)
	}
	return b, nil, nil
}

func policyFromConfig(cfg *config.Config) tokenstore.Policy {
	return tokenstore.Policy{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		CSRFTTL:    cfg.CSRFTTL,
		Secure:     cfg.Production,
	}
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	backend, jar, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "error opening credential store", "store", cfg.Store, "error", err)
		return nil, err
	}
	store := tokenstore.New(backend, policyFromConfig(cfg), logger)

	state := session.NewState()

	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout, Jar: jar}),
		api.WithLogger(logger),
		api.WithSessionExpiredHook(func(ctx context.Context) {
			logger.Warn(ctx, "session expired")
			state.Clear()
		}),
	}
	if cfg.SingleFlightRefresh {
		opts = append(opts, api.WithSingleFlightRefresh())
	}
	client := api.New(cfg.BaseURL(), store, opts...)

	svc := session.NewService(client, store, state, logger)
	return newApp(cfg, svc, store, logger, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(cfg *config.Config, svc session.Service, store *tokenstore.Store, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	state := svc.State()
	return &App{
		config:  cfg,
		session: svc,
		store:   store,
		guards: map[guard.Policy]*guard.Guard{
			guard.RequireAuthenticated: guard.New(guard.RequireAuthenticated, state, store),
			guard.RequireGuest:         guard.New(guard.RequireGuest, state, store),
		},
		logger: logger,
		reader: reader,
		out:    out,
	}
}

// Start restores a persisted session and opens the guards. It fetches a
// CSRF token if none is stored.
func (a *App) Start(ctx context.Context) {
	a.session.EnsureCSRFToken(ctx)

	if a.store.HasSession(ctx) {
		if res := a.session.RefreshUser(ctx); res.Success {
			printlnFn("Restored session for", res.Data.Email)
		} else {
			a.logger.Info(ctx, "stored session is no longer valid", "error", res.Error)
		}
	}

	for _, g := range a.guards {
		g.MarkReady()
	}
}

// watchSession prints a notice when the session ends without the user
// asking for it, e.g. after a failed token refresh.
func (a *App) watchSession(ctx context.Context) (stop func()) {
	var rendered bool
	return a.guards[guard.RequireAuthenticated].Watch(ctx, func(d guard.Decision) {
		switch d.Outcome {
		case guard.Render:
			rendered = true
		case guard.Redirect:
			if rendered && !a.userLogout {
				printlnFn("Session ended. Use 'login' to sign in again.")
			}
			rendered = false
		}
	})
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Error(ctx, "error closing credential store", "error", err)
		}
	}()

	printlnFn(banner())
	a.Start(ctx)

	stop := a.watchSession(ctx)
	defer stop()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) decide(ctx context.Context, p guard.Policy) guard.Decision {
	return a.guards[p].Evaluate(ctx)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.decide(ctx, guard.RequireAuthenticated).Outcome == guard.Render
}

func (a *App) getStatus() string {
	u, ok := a.session.State().User()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Email)
}
