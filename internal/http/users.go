package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/httpx"
	"github.com/cobrexhq/cobrex/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

type createUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password,omitempty"`
	Role     domain.Role `json:"role"`
}

type createUserResponse struct {
	User domain.Redacted `json:"user"`

	// InitialPassword is the one-time plaintext handed to the operator.
	// It is never retrievable again.
	InitialPassword string `json:"initialPassword"`
}

func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	u, password, err := h.UserService.Create(r.Context(), actor, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createUserResponse{User: u, InitialPassword: password})
}

type updateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Role     *domain.Role `json:"role"`
	IsActive *bool        `json:"isActive"`
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.UserService.Update(r.Context(), actor, r.PathValue("id"), domain.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.UserService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) HandleToggleActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	u, err := h.UserService.ToggleActive(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, u)
}

// writeServiceError maps service and store errors onto status codes. The
// default branch logs and answers 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email already in use")
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteError(w, http.StatusBadRequest, "unknown role")
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, "password too short")
	case errors.Is(err, service.ErrSelfDeletionForbidden):
		httpx.WriteError(w, http.StatusConflict, "cannot delete your own account")
	case errors.Is(err, service.ErrInvalidAmount):
		httpx.WriteError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, service.ErrUnknownCustomer):
		httpx.WriteError(w, http.StatusBadRequest, "unknown customer")
	case errors.Is(err, service.ErrAlreadyPaid):
		httpx.WriteError(w, http.StatusConflict, "billing already paid")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
