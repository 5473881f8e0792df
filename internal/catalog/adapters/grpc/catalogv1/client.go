package catalogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/mappers"
	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

// Client calls catalog.v1.Catalog and returns catalog domain errors, so
// callers can keep using errors.Is with the domain sentinels.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, fromStatus(err)
	}
	return out, nil
}

func (c *Client) AddItem(ctx context.Context, view domain.View) (domain.View, error) {
	out, err := c.invoke(ctx, MethodAddItem, mappers.ItemToProto(view))
	if err != nil {
		return domain.View{}, err
	}
	return mappers.ItemFromProto(out)
}

func (c *Client) GetItem(ctx context.Context, id string) (domain.View, error) {
	out, err := c.invoke(ctx, MethodGetItem, mappers.IDToProto(id))
	if err != nil {
		return domain.View{}, err
	}
	return mappers.ItemFromProto(out)
}

func (c *Client) ListItems(ctx context.Context) ([]domain.View, error) {
	out, err := c.invoke(ctx, MethodListItems, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return mappers.ItemsFromProto(out)
}

func (c *Client) Purchase(ctx context.Context, req mappers.PurchaseRequest) (domain.Purchase, error) {
	out, err := c.invoke(ctx, MethodPurchase, mappers.PurchaseRequestToProto(req))
	if err != nil {
		return domain.Purchase{}, err
	}
	return mappers.PurchaseFromProto(out)
}

func (c *Client) PruneOutdated(ctx context.Context, maxAgeYears int) ([]domain.View, error) {
	out, err := c.invoke(ctx, MethodPruneOutdated, mappers.PruneRequestToProto(maxAgeYears))
	if err != nil {
		return nil, err
	}
	return mappers.ItemsFromProto(out)
}
