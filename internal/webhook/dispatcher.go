package webhook

import (
	"context"
	"encoding/json"
	"sort"

	"storefront-api/internal/apperr"
	"storefront-api/internal/validation"
)

type route func(ev Event) (func(ctx context.Context) error, error)

// Dispatcher maps event kinds to typed handlers. Payload decoding happens in
// Prepare so malformed events are rejected before they are acknowledged.
type Dispatcher struct {
	routes map[Kind]route
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{routes: make(map[Kind]route)}
}

// On registers handle for kind. The payload is decoded into T and validated
// with its struct tags.
func On[T any](d *Dispatcher, kind Kind, handle func(ctx context.Context, ev Event, payload T) error) {
	d.routes[kind] = func(ev Event) (func(ctx context.Context) error, error) {
		var payload T
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return nil, apperr.Malformed(err)
		}
		if err := validation.Struct(payload); err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return handle(ctx, ev, payload)
		}, nil
	}
}

// Prepare returns the bound handler for ev. known is false for kinds without
// a route; err is set when a known kind carries an invalid payload.
func (d *Dispatcher) Prepare(ev Event) (run func(ctx context.Context) error, known bool, err error) {
	r, ok := d.routes[ev.Type]
	if !ok {
		return nil, false, nil
	}
	run, err = r(ev)
	if err != nil {
		return nil, true, err
	}
	return run, true, nil
}

func (d *Dispatcher) Kinds() []Kind {
	kinds := make([]Kind, 0, len(d.routes))
	for k := range d.routes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
