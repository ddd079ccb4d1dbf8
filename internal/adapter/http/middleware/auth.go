package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/logger"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// SessionContextKey is the context key for the authenticated session
	SessionContextKey ContextKey = "session"

	// SessionCookieName carries the session token for browser clients.
	SessionCookieName = "partledger_session"
)

// Authenticator resolves a session token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// RequireSession rejects requests without a valid session token. The token is
// read from the Authorization bearer header or the session cookie.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if isAuthError(err) {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
					return
				}
				writeJSONError(w, http.StatusServiceUnavailable, "session store unavailable")
				return
			}

			logger.AttachUsername(r.Context(), session.Username)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the Authorization header
// or, failing that, from the session cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// GetSessionFromContext extracts the authenticated session from context
func GetSessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*domain.Session)
	return session, ok
}

func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrExpiredToken)
}
