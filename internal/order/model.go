package order

type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
	StatusFailed  OrderStatus = "FAILED"
)
