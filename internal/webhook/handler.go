package webhook

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/transport"
)

const (
	defaultDedupeTTL = 72 * time.Hour
	dispatchTimeout  = 10 * time.Second
)

// IdempotencyStore records delivered event ids. MarkProcessed returns false
// when the key was already present.
type IdempotencyStore interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Ack is the body of every accepted delivery. Handled is true only when a
// known branch ran to completion without error.
type Ack struct {
	Received  bool `json:"received"`
	Type      Kind `json:"type"`
	Handled   bool `json:"handled"`
	Duplicate bool `json:"duplicate,omitempty"`
}

type Handler struct {
	source     string
	auth       *Authenticator
	parse      Parser
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	store      IdempotencyStore
	dedupeTTL  time.Duration
}

type Option func(*Handler)

func WithIdempotencyStore(store IdempotencyStore, ttl time.Duration) Option {
	return func(h *Handler) {
		h.store = store
		if ttl > 0 {
			h.dedupeTTL = ttl
		}
	}
}

func NewHandler(source string, auth *Authenticator, parse Parser, d *Dispatcher, m *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		source:     source,
		auth:       auth,
		parse:      parse,
		dispatcher: d,
		metrics:    m,
		dedupeTTL:  defaultDedupeTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP authenticates, parses and dispatches one delivery. Once the event
// is parsed the response is always 200, whatever the branch outcome, so the
// sender does not redeliver.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("webhook", h.source))

	if err := h.auth.Authenticate(r); err != nil {
		log.Warn("webhook rejected: invalid secret", zap.String("remote_addr", r.RemoteAddr))
		h.metrics.WebhookEvent(h.source, "unknown", "unauthorized")
		transport.WriteError(ctx, w, err)
		return
	}

	body, err := transport.ReadBody(r)
	if err != nil {
		transport.WriteError(ctx, w, err)
		return
	}

	ev, err := h.parse(body, r.Header)
	if err != nil {
		log.Warn("webhook rejected: unparseable event", zap.Error(err))
		h.metrics.WebhookEvent(h.source, "unknown", "malformed")
		transport.WriteError(ctx, w, err)
		return
	}

	log = log.With(zap.String("event_type", string(ev.Type)), zap.String("event_id", ev.ID))

	run, known, err := h.dispatcher.Prepare(ev)
	if err != nil {
		log.Warn("webhook rejected: invalid payload", zap.Error(err))
		h.metrics.WebhookEvent(h.source, string(ev.Type), "malformed")
		transport.WriteError(ctx, w, err)
		return
	}

	label := string(ev.Type)
	if !known {
		label = "unknown"
	}

	if h.isDuplicate(ctx, log, ev) {
		log.Info("duplicate webhook delivery acknowledged")
		h.metrics.WebhookEvent(h.source, label, "duplicate")
		transport.WriteJSON(w, http.StatusOK, Ack{Received: true, Type: ev.Type, Duplicate: true})
		return
	}

	if !known {
		log.Info("unhandled webhook event ignored")
		h.metrics.WebhookEvent(h.source, label, "ignored")
		transport.WriteJSON(w, http.StatusOK, Ack{Received: true, Type: ev.Type})
		return
	}

	// The branch must not be cut short by the sender hanging up.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	runErr := run(runCtx)
	if runErr != nil {
		log.Error("webhook handler failed", zap.Error(runErr))
		h.metrics.WebhookEvent(h.source, label, "failed")
	} else {
		log.Info("webhook event handled")
		h.metrics.WebhookEvent(h.source, label, "handled")
	}

	transport.WriteJSON(w, http.StatusOK, Ack{Received: true, Type: ev.Type, Handled: runErr == nil})
}

func (h *Handler) isDuplicate(ctx context.Context, log *zap.Logger, ev Event) bool {
	if h.store == nil || ev.ID == "" {
		return false
	}

	fresh, err := h.store.MarkProcessed(ctx, h.source+":"+ev.ID, h.dedupeTTL)
	if err != nil {
		log.Warn("idempotency store unavailable, dispatching anyway", zap.Error(err))
		return false
	}
	return !fresh
}
