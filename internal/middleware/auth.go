package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/auth"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier checks a session token
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the verified identity in the request context
func AuthMiddleware(v TokenVerifier, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r.Header.Get("Authorization"))
			if token == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				log.Warnf("Rejected token on %s: %v", r.URL.Path, err)
				http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// RequestLogger logs method, path, status and duration of every request
func RequestLogger(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("Request handled")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func extractToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
