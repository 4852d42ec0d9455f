package auth

import (
	"context"
	"encoding/json"
	"net/http"

	applog "financas/internal/log"
)

type contextKey string

const sessionKey contextKey = "auth_session"

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session attached by the middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}

// Middleware verifies the bearer token on every request. The userId query
// parameter is mandatory and must name the authenticated user.
type Middleware struct {
	verifier Verifier
	logger   *applog.Logger
}

func NewMiddleware(verifier Verifier, logger *applog.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		logger:   logger.WithComponent(applog.ComponentAuth),
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			m.reject(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		session, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.logger.WarnContext(r.Context(), "token verification failed",
				applog.FieldError, err.Error(),
				applog.FieldPath, r.URL.Path)
			m.reject(w, r, http.StatusUnauthorized, "invalid authentication token")
			return
		}

		requested := r.URL.Query().Get("userId")
		if requested == "" {
			m.reject(w, r, http.StatusBadRequest, "userId query parameter is required")
			return
		}
		if requested != session.UID {
			m.logger.WarnContext(r.Context(), "user scope mismatch",
				applog.FieldUserID, session.UID,
				applog.FieldPath, r.URL.Path)
			m.reject(w, r, http.StatusForbidden, "cannot access another user's records")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
