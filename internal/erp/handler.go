package erp

import (
	"net/http"

	"storefront-api/internal/transport"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Sync handles POST /api/erp/sync. The bearer token is checked by the router
// before this runs.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var o Order
	if err := transport.DecodeJSON(r, &o); err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	ack, err := h.svc.Sync(r.Context(), o)
	if err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, ack)
}
