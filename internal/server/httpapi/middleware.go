package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// requestLogger logs one line per request. Tokens are never logged.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"request_id", r.Header.Get(common.RequestIDHeaderName),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// csrfProtect rejects mutating requests whose X-XSRF-TOKEN header does not
// carry a token issued by this server.
func (s *Server) csrfProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if !s.csrf.Valid(r.Header.Get(common.CSRFHeaderName)) {
				s.writeServiceError(w, r, common.ErrInvalidCSRF)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAccessToken authenticates the bearer access token and stores the
// user id in the request context.
func (s *Server) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			s.writeError(w, r, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := s.users.UserIDFromAccessToken(token)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
