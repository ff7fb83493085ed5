package http

import (
	"encoding/json"
	"net/http"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/pkg/httpx"
)

type CustomersHandler struct {
	CustomerService *service.CustomerService
	BillingService  *service.BillingService
}

func (h *CustomersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	customers, err := h.CustomerService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customers)
}

func (h *CustomersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CustomerService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *CustomersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	c, err := h.CustomerService.Create(r.Context(), actor, req.Name, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, c)
}

type updateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *CustomersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.CustomerService.Update(r.Context(), actor, r.PathValue("id"), domain.CustomerUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.CustomerService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleBillings lists the billings issued against one customer.
func (h *CustomersHandler) HandleBillings(w http.ResponseWriter, r *http.Request) {
	billings, err := h.BillingService.ListByCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, billings)
}
