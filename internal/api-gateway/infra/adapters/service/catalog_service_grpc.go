package service

import (
	"context"

	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/ports"
	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/catalogv1"
	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/mappers"
	catalogdomain "github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

// GRPCCatalogService talks to catalog.v1.Catalog.
type GRPCCatalogService struct {
	client *catalogv1.Client
}

var _ ports.CatalogService = (*GRPCCatalogService)(nil)

func NewGRPCCatalogService(client *catalogv1.Client) ports.CatalogService {
	return &GRPCCatalogService{client: client}
}

func (s *GRPCCatalogService) AddItem(ctx context.Context, item catalogdomain.View) (catalogdomain.View, error) {
	return s.client.AddItem(ctx, item)
}

func (s *GRPCCatalogService) GetItem(ctx context.Context, id string) (catalogdomain.View, error) {
	return s.client.GetItem(ctx, id)
}

func (s *GRPCCatalogService) ListItems(ctx context.Context) ([]catalogdomain.View, error) {
	return s.client.ListItems(ctx)
}

func (s *GRPCCatalogService) Purchase(ctx context.Context, req entity.PurchaseRequest) (catalogdomain.Purchase, error) {
	return s.client.Purchase(ctx, mappers.PurchaseRequest{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Email:    req.Email,
		Address:  req.Address,
	})
}

func (s *GRPCCatalogService) PruneOutdated(ctx context.Context, maxAgeYears int) ([]catalogdomain.View, error) {
	return s.client.PruneOutdated(ctx, maxAgeYears)
}
