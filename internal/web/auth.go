package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// OperatorAuth protects the room status API with a static bearer token
type OperatorAuth struct {
	token string
}

// NewOperatorAuth creates the middleware. An empty token disables access.
func NewOperatorAuth(token string) *OperatorAuth {
	return &OperatorAuth{token: token}
}

// RequireAuth is a middleware that validates Bearer tokens
func (auth *OperatorAuth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.token == "" {
			log.Warn().Str("module", "web").Msg("OPERATOR_TOKEN not configured - operator access disabled")
			http.Error(w, "Authentication not configured", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Bearer token required", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			http.Error(w, "Token cannot be empty", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(auth.token)) != 1 {
			log.Warn().Str("module", "web").Str("remote", r.RemoteAddr).Msg("invalid operator token")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
