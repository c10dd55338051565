package paymentservice

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/agency/payment"
	"github.com/jcmexdev/travel-agency/internal/agency/validator"
	"github.com/jcmexdev/travel-agency/internal/pkg/paymentrpc"
)

// Server exposes a payment.Processor over gRPC.
type Server struct {
	processor *payment.Processor
}

var _ paymentrpc.Server = (*Server)(nil)

func NewServer(p *payment.Processor) *Server {
	return &Server{processor: p}
}

// Pay charges the requested amount. Malformed messages fail with
// InvalidArgument; domain failures are reported in the response body.
func (s *Server) Pay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := paymentrpc.ParsePayRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	slog.InfoContext(ctx, "processing payment", "method", req.Method, "amount", req.Amount)

	amount, err := validator.ParseAmount(req.Amount)
	if err != nil {
		return failure(ctx, err), nil
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return failure(ctx, err), nil
	}

	res, err := s.processor.Pay(method, amount)
	if err != nil {
		return failure(ctx, err), nil
	}

	slog.InfoContext(ctx, "payment succeeded", "method", method, "amount", amount.StringFixed(2))
	return paymentrpc.PayResponse{Succeeded: true, Message: res.Message}.Struct(), nil
}

func failure(ctx context.Context, err error) *structpb.Struct {
	kind, _ := domain.KindOf(err)
	slog.WarnContext(ctx, "payment declined", "error_kind", kind, "error", err)
	return paymentrpc.PayResponse{Message: err.Error(), ErrorKind: kind}.Struct()
}
