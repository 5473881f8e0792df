package constants

// contextKey is unexported so keys never collide with other packages.
type contextKey string

const (
	HeaderXRequestId      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	ContextKeyRequestID      contextKey = HeaderXRequestId
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)

// ContextKey returns the typed context key for a header name.
func ContextKey(header string) any {
	return contextKey(header)
}
