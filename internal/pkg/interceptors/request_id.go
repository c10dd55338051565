// Package interceptors carries request identity across gRPC calls.
package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors/constants"
)

// RequestIDServerInterceptor copies x-request-id and x-idempotency-key from
// incoming metadata into the context.
func RequestIDServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, incoming(ctx, constants.HeaderXRequestID))
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, incoming(ctx, constants.HeaderXIdempotencyKey))
		return handler(ctx, req)
	}
}

// RequestIDClientInterceptor forwards the request ID and idempotency key
// found in the context as outgoing metadata.
func RequestIDClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(WithOutgoingIDs(ctx), method, req, reply, cc, opts...)
	}
}

// WithOutgoingIDs appends the context's request ID and idempotency key to
// the outgoing metadata. Empty values are skipped.
func WithOutgoingIDs(ctx context.Context) context.Context {
	var kv []string
	if id := RequestID(ctx); id != "" {
		kv = append(kv, constants.HeaderXRequestID, id)
	}
	if key := IdempotencyKey(ctx); key != "" {
		kv = append(kv, constants.HeaderXIdempotencyKey, key)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}

// IdempotencyKey returns the idempotency key stored in ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	return key
}

func incoming(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
