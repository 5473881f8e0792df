package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptorStoresIDs(t *testing.T) {
	md := metadata.Pairs(constants.HeaderXRequestId, "req-1", constants.HeaderXIdempotencyKey, "key-1")
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var seen context.Context
	_, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/catalog.v1.Catalog/Purchase"},
		func(ctx context.Context, req any) (any, error) {
			seen = ctx
			return nil, nil
		})
	require.NoError(t, err)

	assert.Equal(t, "req-1", seen.Value(constants.ContextKeyRequestID))
	assert.Equal(t, "key-1", GetMetadataValue(seen, constants.HeaderXIdempotencyKey))
}

func TestContextWithPropagatedIDs(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-2")
	ctx = ContextWithPropagatedIDs(ctx)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"req-2"}, md.Get(constants.HeaderXRequestId))
	assert.Empty(t, md.Get(constants.HeaderXIdempotencyKey))

	again := ContextWithPropagatedIDs(ctx)
	md, _ = metadata.FromOutgoingContext(again)
	assert.Len(t, md.Get(constants.HeaderXRequestId), 1)
}
