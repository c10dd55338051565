package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a reservation is paid.
// The zero value means no method was selected.
type PaymentMethod string

const (
	MethodNone   PaymentMethod = ""
	MethodCard   PaymentMethod = "card"
	MethodPayPal PaymentMethod = "paypal"
)

var methodAliases = map[string]PaymentMethod{
	"card":    MethodCard,
	"tarjeta": MethodCard,
	"paypal":  MethodPayPal,
}

// ParsePaymentMethod maps a user selection to a PaymentMethod.
// An empty selection yields MethodNone without error; the processor rejects it.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return MethodNone, nil
	}
	m, ok := methodAliases[s]
	if !ok {
		return MethodNone, ErrUnknownPaymentMethod
	}
	return m, nil
}

func (m PaymentMethod) String() string {
	if m == MethodNone {
		return "none"
	}
	return string(m)
}

// FormatAmount renders an amount as currency with two decimals, e.g. "$100.00".
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
