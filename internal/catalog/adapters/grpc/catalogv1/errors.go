package catalogv1

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/retail-checkout/internal/catalog/adapters/grpc/mappers"
	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

const errorDomain = "catalog.v1"

type errorMapping struct {
	err    error
	code   codes.Code
	reason string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, codes.NotFound, "NOT_FOUND"},
	{domain.ErrUnavailable, codes.FailedPrecondition, "UNAVAILABLE"},
	{domain.ErrOutOfStock, codes.FailedPrecondition, "OUT_OF_STOCK"},
	{domain.ErrNotForSale, codes.FailedPrecondition, "NOT_FOR_SALE"},
	{domain.ErrInvalidQuantity, codes.InvalidArgument, "INVALID_QUANTITY"},
	{domain.ErrInvalidItem, codes.InvalidArgument, "INVALID_ITEM"},
	{mappers.ErrMissingMaxAge, codes.InvalidArgument, "MISSING_MAX_AGE"},
	{mappers.ErrInvalidMaxAge, codes.InvalidArgument, "INVALID_MAX_AGE"},
}

// toStatus converts a catalog error into a gRPC status carrying an
// ErrorInfo reason the client can map back.
func toStatus(err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		st, detailErr := status.New(m.code, err.Error()).WithDetails(&errdetails.ErrorInfo{
			Reason: m.reason,
			Domain: errorDomain,
		})
		if detailErr != nil {
			return status.Error(m.code, err.Error())
		}
		return st.Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus recovers the catalog sentinel error from a gRPC status.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != errorDomain {
			continue
		}
		for _, m := range errorMappings {
			if m.reason == info.GetReason() {
				return fmt.Errorf("%w: %s", m.err, st.Message())
			}
		}
	}
	return fmt.Errorf("catalog rpc: %w", err)
}
