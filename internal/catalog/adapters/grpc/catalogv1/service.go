// Package catalogv1 exposes the catalog over gRPC as catalog.v1.Catalog.
//
// Messages are google.protobuf.Struct values, so the service needs no
// generated code; the mappers package defines their fields.
package catalogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "catalog.v1.Catalog"

const (
	MethodAddItem       = "AddItem"
	MethodGetItem       = "GetItem"
	MethodListItems     = "ListItems"
	MethodPurchase      = "Purchase"
	MethodPruneOutdated = "PruneOutdated"
)

// CatalogServer is the server API of catalog.v1.Catalog.
type CatalogServer interface {
	AddItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListItems(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Purchase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	PruneOutdated(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodAddItem, Handler: unaryHandler(MethodAddItem, CatalogServer.AddItem)},
		{MethodName: MethodGetItem, Handler: unaryHandler(MethodGetItem, CatalogServer.GetItem)},
		{MethodName: MethodListItems, Handler: unaryHandler(MethodListItems, CatalogServer.ListItems)},
		{MethodName: MethodPurchase, Handler: unaryHandler(MethodPurchase, CatalogServer.Purchase)},
		{MethodName: MethodPruneOutdated, Handler: unaryHandler(MethodPruneOutdated, CatalogServer.PruneOutdated)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryMethod func(CatalogServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
