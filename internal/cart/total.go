package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrAmountOutOfRange = errors.New("amount out of range")

// Total is the server-side sum of unitPrice × quantity. Client-supplied totals
// are never used in its place.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// MinorUnits converts an amount to cents, rounding half away from zero. It
// fails with ErrAmountOutOfRange when the cents do not fit in an int64.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, amount)
	}
	return cents.Int64(), nil
}

func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
