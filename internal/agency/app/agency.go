// Package app wires the catalog, the validator and a payer into the
// reservation use cases.
package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/travel-agency/internal/agency/catalog"
	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/agency/payment"
	"github.com/jcmexdev/travel-agency/internal/agency/validator"
	"github.com/jcmexdev/travel-agency/internal/coordinator"
	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog"
)

// Config holds the agency's collaborators. Every field is optional.
type Config struct {
	// Prices defaults to catalog.DefaultPriceTable.
	Prices *catalog.PriceTable
	// Payer defaults to the in-process payment.Processor.
	Payer coordinator.Payer
	// Log receives pipeline transitions when set.
	Log pipelinelog.Repository
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Agency is the entry point for presentation layers.
type Agency struct {
	catalog *catalog.Catalog
	payer   coordinator.Payer
	log     pipelinelog.Repository
	tp      trace.TracerProvider
}

// Outcome is the result of a full reservation.
type Outcome struct {
	ReservationID uuid.UUID
	Request       domain.ReservationRequest
	Reservation   domain.ReservationResult
	Payment       domain.PaymentResult
}

// New builds an Agency from cfg.
func New(cfg Config) *Agency {
	payer := cfg.Payer
	if payer == nil {
		payer = LocalPayer(payment.NewProcessor())
	}
	return &Agency{
		catalog: catalog.New(cfg.Prices),
		payer:   payer,
		log:     cfg.Log,
		tp:      cfg.TracerProvider,
	}
}

// LocalPayer adapts an in-process Processor to coordinator.Payer.
func LocalPayer(p *payment.Processor) coordinator.Payer {
	return coordinator.PayerFunc(func(_ context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error) {
		return p.Pay(method, amount)
	})
}

// ValidateRequest checks raw input.
func (a *Agency) ValidateRequest(in validator.Input) (domain.ReservationRequest, error) {
	return validator.Validate(in)
}

// BookService books the service of a validated request.
func (a *Agency) BookService(req domain.ReservationRequest) (domain.ReservationResult, error) {
	return a.catalog.Book(req.Service, req.Route)
}

// ProcessPayment charges amount with method.
func (a *Agency) ProcessPayment(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error) {
	return a.payer.Pay(ctx, method, amount)
}

// Reserve validates in, books the service and pays for it. If payment fails
// the booking is cancelled and the returned Outcome carries both summaries
// together with the error. Validation failures return a zero Outcome.
func (a *Agency) Reserve(ctx context.Context, in validator.Input) (Outcome, error) {
	req, err := a.ValidateRequest(in)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{ReservationID: uuid.New(), Request: req}

	book := coordinator.NewBookStep(a.catalog, req)
	pay := coordinator.NewPaymentStep(a.payer, req.Method, req.Amount)

	opts := []coordinator.Option{coordinator.WithPayload(requestPayload(req))}
	if a.tp != nil {
		opts = append(opts, coordinator.WithTracerProvider(a.tp))
	}
	pipeline := coordinator.NewOrchestrator(
		out.ReservationID.String(),
		[]coordinator.Step{book, pay},
		a.log,
		opts...,
	)
	err = pipeline.Start(ctx)

	out.Reservation = book.Result()
	out.Payment = pay.Result()
	if err != nil {
		slog.InfoContext(ctx, "reservation not completed",
			"reservation_id", out.ReservationID, "service", req.Service, "error", err)
		return out, err
	}

	slog.InfoContext(ctx, "reservation completed",
		"reservation_id", out.ReservationID, "service", req.Service, "method", req.Method)
	return out, nil
}

// Prices exposes the route price table.
func (a *Agency) Prices() *catalog.PriceTable { return a.catalog.Prices() }

// Price looks up the fare for a route.
func (a *Agency) Price(origin, destination string) decimal.Decimal {
	return a.catalog.Prices().Lookup(origin, destination)
}

type payloadJSON struct {
	Service     string `json:"service"`
	Method      string `json:"payment_method"`
	Amount      string `json:"amount"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	DepartsAt   string `json:"departs_at,omitempty"`
}

func requestPayload(req domain.ReservationRequest) string {
	p := payloadJSON{
		Service: req.Service.String(),
		Method:  req.Method.String(),
		Amount:  req.Amount.String(),
	}
	if req.Route != nil {
		p.Origin = req.Route.Origin
		p.Destination = req.Route.Destination
		p.DepartsAt = req.Route.Schedule()
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
