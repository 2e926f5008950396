// Package httpapi exposes the development server's JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
	"github.com/dmitrijs2005/policyinsight/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	users   *services.UserService
	csrf    *services.CSRFTokens
	logger  logging.Logger
	now     func() time.Time
}

func NewServer(address string, l logging.Logger, us *services.UserService, csrf *services.CSRFTokens) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		csrf:    csrf,
		now:     time.Now,
	}
}

// Router builds the route table under the API base path.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route(common.DefaultAPIBasePath, func(r chi.Router) {
		r.Use(s.requestLogger)
		r.Use(s.csrfProtect)

		r.Get(common.PathCSRFToken, s.CSRFToken)
		r.Post(common.PathLogin, s.Login)
		r.Post(common.PathSignup, s.Signup)
		r.Post(common.PathRefresh, s.Refresh)
		r.Post(common.PathFindID, s.FindID)
		r.Put(common.PathPasswordNoLogin, s.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAccessToken)

			r.Post(common.PathLogout, s.Logout)
			r.Put(common.PathPasswordLogin, s.VerifyPassword)
			r.Get(common.PathUserMe, s.Me)
			r.Put(common.PathUserMe, s.UpdateMe)
			r.Delete(common.PathUserMe, s.DeleteMe)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
