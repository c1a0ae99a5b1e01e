package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"storefront-api/internal/apperr"
)

// Kind tags a webhook event. Kinds without a registered route are
// acknowledged and ignored.
type Kind string

const (
	PaymentSucceeded Kind = "payment.succeeded"
	PaymentFailed    Kind = "payment.failed"
	StockUpdated     Kind = "stock.updated"
)

// Event is the normalized delivery handed to the dispatcher.
type Event struct {
	ID      string          `json:"id,omitempty"`
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"data"`
}

// Parser turns a raw delivery into an Event. Provider-specific parsers may
// verify signatures from the headers.
type Parser func(body []byte, header http.Header) (Event, error)

// ParseJSON decodes the generic {id, type, data} envelope.
func ParseJSON(body []byte, _ http.Header) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, apperr.Malformed(err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(string(e.Type)) == "" {
		fields = append(fields, apperr.FieldError{Field: "type", Message: "is required"})
	}
	if p := bytes.TrimSpace(e.Payload); len(p) == 0 || bytes.Equal(p, []byte("null")) {
		fields = append(fields, apperr.FieldError{Field: "data", Message: "is required"})
	}
	if len(fields) > 0 {
		return apperr.NewValidation(fields...)
	}
	return nil
}
