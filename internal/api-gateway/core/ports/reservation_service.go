package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/travel-agency/internal/agency/app"
	"github.com/jcmexdev/travel-agency/internal/agency/catalog"
	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/agency/validator"
)

// ReservationService is what the HTTP layer needs from the agency.
type ReservationService interface {
	ValidateRequest(in validator.Input) (domain.ReservationRequest, error)
	ProcessPayment(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error)
	Reserve(ctx context.Context, in validator.Input) (app.Outcome, error)
	Prices() *catalog.PriceTable
}

var _ ReservationService = (*app.Agency)(nil)
