package coordinator

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

// CancelledMessage replaces the booking summary when a reservation is
// rolled back.
const CancelledMessage = "Reservation cancelled: payment was not completed."

// Booker books a service. catalog.Catalog satisfies it.
type Booker interface {
	Book(kind domain.ServiceKind, route *domain.RouteInfo) (domain.ReservationResult, error)
}

// Payer charges an amount. Implementations may call a remote service.
type Payer interface {
	Pay(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error)
}

// PayerFunc adapts a function to Payer.
type PayerFunc func(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error)

func (f PayerFunc) Pay(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error) {
	return f(ctx, method, amount)
}

// --- BookStep ---

type BookStep struct {
	booker  Booker
	request domain.ReservationRequest
	result  domain.ReservationResult
}

func NewBookStep(booker Booker, request domain.ReservationRequest) *BookStep {
	return &BookStep{booker: booker, request: request}
}

func (s *BookStep) Name() string { return "book_service" }

func (s *BookStep) Execute(ctx context.Context) error {
	res, err := s.booker.Book(s.request.Service, s.request.Route)
	s.result = res
	if err != nil {
		return fmt.Errorf("book %s: %w", s.request.Service, err)
	}
	return nil
}

// Compensate cancels the booking. The quoted price is kept for display.
func (s *BookStep) Compensate(ctx context.Context) error {
	s.result = domain.ReservationResult{
		Succeeded: false,
		Message:   CancelledMessage,
		Price:     s.result.Price,
	}
	return nil
}

// Result is the booking outcome, or the cancellation after compensation.
func (s *BookStep) Result() domain.ReservationResult { return s.result }

// --- PaymentStep ---

type PaymentStep struct {
	payer  Payer
	method domain.PaymentMethod
	amount decimal.Decimal
	result domain.PaymentResult
}

func NewPaymentStep(payer Payer, method domain.PaymentMethod, amount decimal.Decimal) *PaymentStep {
	return &PaymentStep{payer: payer, method: method, amount: amount}
}

func (s *PaymentStep) Name() string { return "process_payment" }

func (s *PaymentStep) Execute(ctx context.Context) error {
	res, err := s.payer.Pay(ctx, s.method, s.amount)
	s.result = res
	if err != nil {
		return err
	}
	if !res.Succeeded {
		return fmt.Errorf("payment declined: %s", res.Message)
	}
	return nil
}

// Compensate is a no-op: payment is the last step, so it is never
// compensated after succeeding.
func (s *PaymentStep) Compensate(ctx context.Context) error { return nil }

func (s *PaymentStep) Result() domain.PaymentResult { return s.result }
