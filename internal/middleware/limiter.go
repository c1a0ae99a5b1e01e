package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront-api/internal/logger"
	"storefront-api/internal/transport"
)

type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

var (
	// Webhook senders.
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}
	// Storefront traffic.
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}
	// Bearer-authenticated back-office callers.
	TierInternal = Tier{Name: "internal", Limit: rate.Limit(100), Burst: 200}
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per identity and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time

	stopChan  chan struct{}
	closeOnce sync.Once
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := resolveTier(r)
		key := identity(r) + ":" + tier.Name

		if !rl.limiter(key, tier).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("tier", tier.Name),
				zap.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			transport.WriteJSONError(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string, t Tier) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.Limit, t.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func resolveTier(r *http.Request) Tier {
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/webhooks/"):
		return TierStrict
	case strings.HasPrefix(r.URL.Path, "/api/erp/") && r.Header.Get("Authorization") != "":
		return TierInternal
	default:
		return TierGeneral
	}
}

// identity prefers a client-supplied device id and falls back to the remote IP.
func identity(r *http.Request) string {
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
