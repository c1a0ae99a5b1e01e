package erp

import "context"

type Provider interface {
	Name() string
	SendOrder(ctx context.Context, o Order) (*Receipt, error)
}
