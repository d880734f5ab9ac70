package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// TokenCookieName is the cookie carrying the access token of browser sessions
	TokenCookieName = "eventgrid_token"

	streamTokenParam = "access_token"
)

// Middleware provides authentication middleware
type Middleware struct {
	authUC usecase.AuthUseCase
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authUC usecase.AuthUseCase) *Middleware {
	return &Middleware{
		authUC: authUC,
	}
}

// bearerToken returns the access token from the Authorization header or the session cookie
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (m *Middleware) authenticate(r *http.Request, token string) (*http.Request, error) {
	if token == "" {
		return r, goerr.New("Authentication required", goerr.T(model.ErrTagUnauthorized))
	}
	authCtx, err := m.authUC.ValidateToken(r.Context(), token)
	if err != nil {
		return r, err
	}

	ctxlog.From(r.Context()).Debug("Authenticated request",
		"userID", authCtx.UserID,
		"sessionID", authCtx.SessionID,
	)
	return r.WithContext(model.WithAuthContext(r.Context(), authCtx)), nil
}

// RequireAuth rejects requests without a valid access token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, err := m.authenticate(r, bearerToken(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStreamAuth is RequireAuth that also accepts the token as a query
// parameter, since browsers cannot set headers on WebSocket handshakes.
func (m *Middleware) RequireStreamAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get(streamTokenParam)
		}
		r, err := m.authenticate(r, token)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth attaches the caller when the session cookie holds a valid
// token and otherwise serves the request anonymously.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if authed, err := m.authenticate(r, token); err == nil {
				r = authed
			} else {
				ctxlog.From(r.Context()).Debug("Ignoring invalid session", "error", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Embed logger from the initial context into request context
			r = r.WithContext(ctxlog.With(r.Context(), ctxlog.From(ctx)))

			logger := ctxlog.From(r.Context())
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Query strings are not logged: the stream endpoint carries tokens there
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
