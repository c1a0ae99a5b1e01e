package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are emitted as JSON numbers (25.5) rather than strings ("25.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is used when a request omits the currency code.
const DefaultCurrency = "BRL"

// Item is one cart line as sent by the storefront.
type Item struct {
	ID        string          `json:"id" validate:"required,max=128"`
	Name      string          `json:"name" validate:"max=256"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"money"`
	Quantity  int             `json:"quantity" validate:"gt=0,max=10000"`
}

// DisplayName falls back to the id for unnamed lines.
func (i Item) DisplayName() string {
	if strings.TrimSpace(i.Name) != "" {
		return i.Name
	}
	return i.ID
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NormalizeCurrency upper-cases the code and applies DefaultCurrency.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}
