package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/pkg/httpx"
	"github.com/cobrexhq/cobrex/pkg/jwtx"
	"github.com/cobrexhq/cobrex/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Redacted `json:"user"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: u.Redact()})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	User domain.Identity `json:"user"`
}

// HandleVerifyToken checks a token handed in by another service or the
// frontend. Expired and invalid tokens both answer 401; the distinction
// stays in the body so clients can prompt for re-login on expiry.
func (h *AuthHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "token is required")
		return
	}

	id, err := h.AuthService.VerifyToken(req.Token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			httpx.WriteError(w, http.StatusUnauthorized, "token expired")
			return
		}
		httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, verifyTokenResponse{User: id})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.AuthService.Logout(r.Context(), actor)
	w.WriteHeader(http.StatusNoContent)
}
