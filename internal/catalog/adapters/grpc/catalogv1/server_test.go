package catalogv1

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/mappers"
	"github.com/jcmexdev/retail-checkout/internal/catalog/app"
	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
	"github.com/jcmexdev/retail-checkout/internal/pkg/interceptors"
)

func startServer(t *testing.T) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()))
	RegisterCatalogServer(srv, NewServer(app.NewCatalog(app.WithClock(clock.Date(2024, 7, 1)))))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func seed(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	views := []domain.View{
		{ID: "D001", Title: "AI Revolution", Year: 2015, Creator: "Nour", Kind: domain.KindDemo},
		{ID: "P001", Title: "OOP Mastery", Year: 2020, Creator: "Mustafa", UnitPrice: decimal.NewFromInt(150), Kind: domain.KindPhysical, Stock: 10},
		{ID: "E001", Title: "Laravel Secrets", Year: 2021, Creator: "Ahmed", UnitPrice: decimal.NewFromInt(100), Kind: domain.KindDigital, FileFormat: "PDF"},
	}
	for _, v := range views {
		_, err := c.AddItem(ctx, v)
		require.NoError(t, err)
	}
}

func TestCatalogServicePurchase(t *testing.T) {
	c := startServer(t)
	seed(t, c)
	ctx := context.Background()

	p, err := c.Purchase(ctx, mappers.PurchaseRequest{ItemID: "P001", Quantity: 2, Email: "test@example.com", Address: "Cairo"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(p.Total))
	assert.Equal(t, domain.FulfillmentShip, p.Fulfillment.Kind)

	item, err := c.GetItem(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, 8, item.Stock)
	assert.True(t, item.Available)
}

func TestCatalogServiceErrorsMapBackToDomain(t *testing.T) {
	c := startServer(t)
	seed(t, c)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      mappers.PurchaseRequest
		wantErr  error
		wantCode codes.Code
	}{
		{"unknown item", mappers.PurchaseRequest{ItemID: "X", Quantity: 1}, domain.ErrNotFound, codes.NotFound},
		{"demo", mappers.PurchaseRequest{ItemID: "D001", Quantity: 1}, domain.ErrUnavailable, codes.FailedPrecondition},
		{"over stock", mappers.PurchaseRequest{ItemID: "P001", Quantity: 11}, domain.ErrOutOfStock, codes.FailedPrecondition},
		{"zero quantity", mappers.PurchaseRequest{ItemID: "E001", Quantity: 0}, domain.ErrInvalidQuantity, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Purchase(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := c.AddItem(ctx, domain.View{ID: "Z1", Kind: "AUDIO"})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestToStatusCodes(t *testing.T) {
	assert.Equal(t, codes.NotFound, status.Code(toStatus(domain.ErrNotFound)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(toStatus(domain.ErrNotForSale)))
	assert.Equal(t, codes.Internal, status.Code(toStatus(assert.AnError)))
}

func TestCatalogServicePruneAndList(t *testing.T) {
	c := startServer(t)
	seed(t, c)
	ctx := context.Background()

	removed, err := c.PruneOutdated(ctx, 4)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "D001", removed[0].ID)

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "P001", items[0].ID)
	assert.Equal(t, "E001", items[1].ID)
	assert.Equal(t, "PDF", items[1].FileFormat)
}

func TestCatalogServicePruneRejectsBadMaxAge(t *testing.T) {
	c := startServer(t)
	seed(t, c)
	ctx := context.Background()

	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, fullMethod(MethodPruneOutdated), &structpb.Struct{}, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.PruneOutdated(ctx, -1)
	assert.ErrorIs(t, err, mappers.ErrInvalidMaxAge)

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestCatalogServiceRejectsFractionalQuantity(t *testing.T) {
	c := startServer(t)
	seed(t, c)
	ctx := context.Background()

	in, err := structpb.NewStruct(map[string]any{"item_id": "P001", "quantity": 2.9, "address": "Cairo"})
	require.NoError(t, err)
	_, err = c.invoke(ctx, MethodPurchase, in)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	item, err := c.GetItem(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Stock)
}
