// Package interceptors propagates request ids and idempotency keys between
// the HTTP gateway and the gRPC services.
package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor copies x-request-id and x-idempotency-key from the
// incoming metadata into the context and logs the call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := firstValue(ctx, constants.HeaderXRequestId)
		idempotencyKey := firstValue(ctx, constants.HeaderXIdempotencyKey)

		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		slog.DebugContext(ctx, "grpc call", "method", info.FullMethod, "request_id", requestID, "idempotency_key", idempotencyKey)

		resp, err := handler(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "grpc call failed", "method", info.FullMethod, "request_id", requestID, "error", err)
		}
		return resp, err
	}
}

// PropagateClientInterceptor forwards the request id and idempotency key
// stored in the context as outgoing metadata.
func PropagateClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(ContextWithPropagatedIDs(ctx), method, req, reply, cc, opts...)
	}
}

// ContextWithPropagatedIDs appends the ids found in ctx to outgoing metadata.
func ContextWithPropagatedIDs(ctx context.Context) context.Context {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(constants.HeaderXRequestId)) > 0 {
		return ctx
	}
	if id := GetMetadataValue(ctx, constants.HeaderXRequestId); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, id)
	}
	if key := GetMetadataValue(ctx, constants.HeaderXIdempotencyKey); key != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXIdempotencyKey, key)
	}
	return ctx
}

// GetMetadataValue looks key up in the context values, then the incoming and
// outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(constants.ContextKey(key)).(string); ok && v != "" {
		return v
	}
	return firstValue(ctx, key)
}

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
