package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
)

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging writes one access log line per request and records HTTP metrics.
// It must wrap the ServeMux directly so the matched pattern is visible.
func Logging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}

			m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())

			logger.FromCtx(r.Context()).Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", rec.statusCode),
				zap.Duration("duration", duration),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
