// Package validation wraps go-playground/validator with the conventions used
// by the API: json field names in error paths, decimal amounts, and the
// 8-digit postal code rule.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storefront-api/internal/apperr"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		// Decimals are validated in their exact string form, never through float64.
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		_ = validate.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
			return IsPostalCode(fl.Field().String())
		})
		_ = validate.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
			d, ok := decimalOf(fl)
			return ok && !d.IsNegative()
		})
		_ = validate.RegisterValidation("maxamount", func(fl validator.FieldLevel) bool {
			d, ok := decimalOf(fl)
			limit, err := decimal.NewFromString(fl.Param())
			return ok && err == nil && d.LessThanOrEqual(limit)
		})
		_ = validate.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
			d, ok := decimalOf(fl)
			return ok && d.Equal(d.Round(2))
		})
		validate.RegisterAlias("money", "nonnegative,maxamount="+MaxAmount+",cents")
	})
	return validate
}

// MaxAmount is the largest monetary value accepted by the "money" rule.
const MaxAmount = "1000000000"

func decimalOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

// IsPostalCode reports whether s is exactly eight ASCII digits.
func IsPostalCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Struct validates s and converts rule violations to *apperr.ValidationError.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return apperr.NewValidation(fields...)
}

// fieldPath drops the root struct name: "Request.items[0].quantity" -> "items[0].quantity".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "iso4217":
		return "must be a valid ISO 4217 currency code"
	case "postalcode":
		return "must be exactly 8 digits"
	case "max", "maxamount":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "nonnegative":
		return "must not be negative"
	case "cents":
		return "must have at most 2 decimal places"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
