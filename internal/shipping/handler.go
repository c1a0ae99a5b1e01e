package shipping

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

// Calculate handles POST /api/shipping/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.svc.Calculate(r.Context(), req)
	if err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, resp)
}
