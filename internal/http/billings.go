package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/pkg/httpx"
)

type BillingsHandler struct {
	BillingService *service.BillingService
}

func (h *BillingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	billings, err := h.BillingService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, billings)
}

func (h *BillingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.BillingService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

type createBillingRequest struct {
	CustomerID  string    `json:"customerId"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amountCents"`
	DueDate     time.Time `json:"dueDate"`
}

func (h *BillingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createBillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" || req.DueDate.IsZero() {
		httpx.WriteError(w, http.StatusBadRequest, "customerId and dueDate are required")
		return
	}

	b, err := h.BillingService.Create(r.Context(), actor, req.CustomerID, req.Description, req.AmountCents, req.DueDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BillingsHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	b, err := h.BillingService.Pay(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BillingsHandler) HandleRemind(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.BillingService.Remind(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
