package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/coordinator"
	"github.com/jcmexdev/travel-agency/internal/pkg/paymentrpc"
)

// GRPCPaymentService pays through the remote payment service.
type GRPCPaymentService struct {
	client *paymentrpc.Client
}

var _ coordinator.Payer = (*GRPCPaymentService)(nil)

func NewGRPCPaymentService(client *paymentrpc.Client) *GRPCPaymentService {
	return &GRPCPaymentService{client: client}
}

// Pay sends the payment to the remote service. Transport failures and
// unreadable replies are reported as domain.ErrProviderUnavailable; domain
// failures are rebuilt from the reply's error kind.
func (s *GRPCPaymentService) Pay(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentResult, error) {
	req := paymentrpc.PayRequest{Method: string(method), Amount: amount.String()}

	out, err := s.client.Pay(ctx, req.Struct())
	if err != nil {
		slog.ErrorContext(ctx, "payment service call failed", "error", err)
		return unavailable(fmt.Errorf("grpc Pay: %v: %w", err, domain.ErrProviderUnavailable))
	}

	res, err := paymentrpc.ParsePayResponse(out)
	if err != nil {
		return unavailable(fmt.Errorf("grpc Pay reply: %v: %w", err, domain.ErrProviderUnavailable))
	}

	result := domain.PaymentResult{Succeeded: res.Succeeded, Message: res.Message}
	if res.Succeeded {
		return result, nil
	}
	if known, ok := domain.ErrorByKind(res.ErrorKind); ok {
		return result, known
	}
	return result, fmt.Errorf("payment declined: %s", res.Message)
}

func unavailable(err error) (domain.PaymentResult, error) {
	return domain.PaymentResult{Message: domain.ErrProviderUnavailable.Error()}, err
}
