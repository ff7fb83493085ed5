package http

import (
	"net/http"
	"strconv"

	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/pkg/httpx"
)

type AuditHandler struct {
	AuditService *service.AuditService
}

// HandleList serves the trail most-recent-first. Query params: limit,
// offset, and the mutually exclusive filters user_id and resource (the
// latter optionally refined by resource_id).
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 0)
	offset := intParam(q.Get("offset"), 0)

	if userID := q.Get("user_id"); userID != "" {
		entries, err := h.AuditService.ListByUser(r.Context(), userID, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, entries)
		return
	}

	if resource := q.Get("resource"); resource != "" {
		entries, err := h.AuditService.ListByResource(r.Context(), resource, q.Get("resource_id"), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, entries)
		return
	}

	entries, err := h.AuditService.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

func (h *AuditHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.AuditService.Search(r.Context(), q.Get("q"), intParam(q.Get("limit"), 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
