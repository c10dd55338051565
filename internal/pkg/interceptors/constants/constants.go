package constants

// contextKey keeps values set here from colliding with other packages.
type contextKey string

const (
	HeaderXRequestID      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	ContextKeyRequestID      contextKey = HeaderXRequestID
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)
