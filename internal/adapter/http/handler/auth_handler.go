package handler

import (
	"context"
	"net/http"

	"github.com/iho/partledger/internal/adapter/http/dto"
	"github.com/iho/partledger/internal/adapter/http/middleware"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*usecase.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC  AuthService
	metrics *metrics.Metrics
	// secureCookie marks the session cookie Secure.
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC AuthService, m *metrics.Metrics, secureCookie bool) *AuthHandler {
	return &AuthHandler{authUC: authUC, metrics: m, secureCookie: secureCookie}
}

// Login verifies credentials, opens a session and returns its token.
// The token is also set as an HttpOnly cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.authUC.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeDomainError(w, err, "login failed")
		return
	}
	h.metrics.AuthAttempts.WithLabelValues("success").Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		Username:  result.Session.Username,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// Logout ends the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session token")
		return
	}

	if err := h.authUC.Logout(r.Context(), token); err != nil {
		writeDomainError(w, err, "logout failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
