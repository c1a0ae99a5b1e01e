package payment

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

// CreateSession handles POST /api/payment/create-session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	sess, err := h.svc.CreateSession(r.Context(), req)
	if err != nil {
		transport.WriteError(r.Context(), w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, sess)
}
