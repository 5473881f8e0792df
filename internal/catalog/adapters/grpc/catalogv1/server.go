package catalogv1

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/mappers"
	"github.com/jcmexdev/retail-checkout/internal/catalog/app"
	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

var _ CatalogServer = (*Server)(nil)

// Server serves a Catalog over gRPC.
type Server struct {
	catalog *app.Catalog
}

func NewServer(catalog *app.Catalog) *Server {
	return &Server{catalog: catalog}
}

func (s *Server) AddItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	view, err := mappers.ItemFromProto(in)
	if err != nil {
		return nil, toStatus(fmt.Errorf("%w: %v", domain.ErrInvalidItem, err))
	}
	item, err := domain.Restore(view)
	if err != nil {
		return nil, toStatus(err)
	}
	s.catalog.Add(ctx, item)
	return mappers.ItemToProto(domain.Describe(item)), nil
}

func (s *Server) GetItem(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	view, err := s.catalog.Get(mappers.IDFromProto(in))
	if err != nil {
		return nil, toStatus(err)
	}
	return mappers.ItemToProto(view), nil
}

func (s *Server) ListItems(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return mappers.ItemsToProto(s.catalog.List()), nil
}

func (s *Server) Purchase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := mappers.PurchaseRequestFromProto(in)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.catalog.Purchase(ctx, req.ItemID, req.Quantity, req.Email, req.Address)
	if err != nil {
		return nil, toStatus(err)
	}
	return mappers.PurchaseToProto(p), nil
}

func (s *Server) PruneOutdated(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	maxAge, err := mappers.PruneRequestFromProto(in)
	if err != nil {
		return nil, toStatus(err)
	}
	removed := s.catalog.PruneOlderThan(ctx, maxAge)
	views := make([]domain.View, 0, len(removed))
	for _, item := range removed {
		views = append(views, domain.Describe(item))
	}
	return mappers.ItemsToProto(views), nil
}
