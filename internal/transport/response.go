// Package transport holds the JSON envelope shared by every endpoint.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"storefront-api/internal/apperr"
	"storefront-api/internal/logger"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, ErrorResponse{Error: message})
}

// WriteError maps err onto the status taxonomy. Upstream and unexpected
// failures are logged with their cause; the body never carries it.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: verr.Fields})
	case errors.Is(err, apperr.ErrMalformedBody):
		WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUnauthorized):
		WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrMethodNotAllowed):
		WriteJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	case errors.Is(err, apperr.ErrUpstream):
		logger.FromCtx(ctx).Error("upstream provider failed", zap.Error(err))
		WriteJSONError(w, "upstream provider failure", http.StatusInternalServerError)
	default:
		logger.FromCtx(ctx).Error("request failed", zap.Error(err))
		WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body, err := ReadBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Malformed(err)
	}
	return nil
}

// ReadBody returns the raw request body, capped at 1 MiB.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, apperr.Malformed(io.ErrUnexpectedEOF)
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperr.Malformed(err)
	}
	if len(body) > maxBodyBytes {
		return nil, apperr.Malformed(errors.New("body exceeds 1 MiB"))
	}
	return body, nil
}

// PostOnly rejects every method other than POST with 405. OPTIONS never
// reaches it because the CORS wrapper answers preflights first.
func PostOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			WriteError(r.Context(), w, apperr.ErrMethodNotAllowed)
			return
		}
		next(w, r)
	})
}
