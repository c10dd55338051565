package interceptors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors/constants"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/agency.payment.v1.Payment/Pay"}

func TestRequestIDServerInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestID, "req-1",
		constants.HeaderXIdempotencyKey, "idem-1",
	))

	var gotID, gotKey string
	_, err := RequestIDServerInterceptor()(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		gotID = RequestID(ctx)
		gotKey = IdempotencyKey(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", gotID)
	assert.Equal(t, "idem-1", gotKey)
}

func TestRequestIDServerInterceptor_NoMetadata(t *testing.T) {
	_, err := RequestIDServerInterceptor()(context.Background(), nil, info, func(ctx context.Context, _ any) (any, error) {
		assert.Empty(t, RequestID(ctx))
		return nil, nil
	})
	require.NoError(t, err)
}

func TestRequestIDClientInterceptor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-2")

	var md metadata.MD
	err := RequestIDClientInterceptor()(ctx, "/x/Y", nil, nil, nil,
		func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
			md, _ = metadata.FromOutgoingContext(ctx)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"req-2"}, md.Get(constants.HeaderXRequestID))
	assert.Empty(t, md.Get(constants.HeaderXIdempotencyKey))
}

func TestWithOutgoingIDs_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithOutgoingIDs(ctx))
}

func TestLoggingServerInterceptor_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	resp, err := LoggingServerInterceptor()(context.Background(), "in", info, func(_ context.Context, req any) (any, error) {
		return req.(string) + "-out", boom
	})
	assert.Equal(t, "in-out", resp)
	assert.ErrorIs(t, err, boom)
}
