package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/logger"
	"storefront-api/internal/transport"
)

// RequireBearer admits requests whose bearer token equals token. An empty
// token rejects everything.
func RequireBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.SecretsEqual(auth.ExtractBearerToken(r), token) {
				logger.FromCtx(r.Context()).Warn("bearer authentication failed",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				transport.WriteError(r.Context(), w, apperr.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
