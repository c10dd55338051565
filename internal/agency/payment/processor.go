// Package payment executes simulated payments for agency reservations.
//
// No money moves: a payment selects a confirmation template by method and
// renders the amount. Callers validate the amount beforehand.
package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

// Processor pays for reservations. The zero value is ready to use.
type Processor struct{}

// NewProcessor returns a Processor.
func NewProcessor() *Processor { return &Processor{} }

// Pay charges amount with method. It fails only when no method was selected.
func (p *Processor) Pay(method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error) {
	formatted := domain.FormatAmount(amount)

	switch method {
	case domain.MethodCard:
		return succeeded(fmt.Sprintf("Payment of %s made by card.", formatted)), nil
	case domain.MethodPayPal:
		return succeeded(fmt.Sprintf("Payment of %s made with PayPal.", formatted)), nil
	case domain.MethodNone:
		return domain.PaymentResult{Message: domain.ErrNoPaymentMethodSelected.Error()}, domain.ErrNoPaymentMethodSelected
	default:
		err := fmt.Errorf("pay with %q: %w", string(method), domain.ErrUnknownPaymentMethod)
		return domain.PaymentResult{Message: err.Error()}, err
	}
}

func succeeded(msg string) domain.PaymentResult {
	return domain.PaymentResult{Succeeded: true, Message: msg}
}
