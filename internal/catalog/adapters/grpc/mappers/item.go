// Package mappers converts catalog domain values to and from the
// structpb.Struct messages carried by the catalog.v1 gRPC service.
package mappers

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

// 2^53, the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

var (
	ErrMissingMaxAge = errors.New("max_age_years is required")
	ErrInvalidMaxAge = errors.New("max_age_years must be a non-negative whole number")
)

// PurchaseRequest is the decoded body of catalog.v1.Catalog/Purchase.
type PurchaseRequest struct {
	ItemID   string
	Quantity int
	Email    string
	Address  string
}

func ItemToProto(v domain.View) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"id":         structpb.NewStringValue(v.ID),
		"title":      structpb.NewStringValue(v.Title),
		"creator":    structpb.NewStringValue(v.Creator),
		"year":       structpb.NewNumberValue(float64(v.Year)),
		"unit_price": structpb.NewStringValue(v.UnitPrice.String()),
		"kind":       structpb.NewStringValue(string(v.Kind)),
		"available":  structpb.NewBoolValue(v.Available),
	}
	switch v.Kind {
	case domain.KindPhysical:
		fields["stock"] = structpb.NewNumberValue(float64(v.Stock))
	case domain.KindDigital:
		fields["file_format"] = structpb.NewStringValue(v.FileFormat)
	}
	return &structpb.Struct{Fields: fields}
}

func ItemFromProto(s *structpb.Struct) (domain.View, error) {
	price, err := decimalField(s, "unit_price")
	if err != nil {
		return domain.View{}, err
	}
	year, err := intField(s, "year", domain.ErrInvalidItem)
	if err != nil {
		return domain.View{}, err
	}
	stock, err := intField(s, "stock", domain.ErrInvalidItem)
	if err != nil {
		return domain.View{}, err
	}
	return domain.View{
		ID:         stringField(s, "id"),
		Title:      stringField(s, "title"),
		Creator:    stringField(s, "creator"),
		Year:       year,
		UnitPrice:  price,
		Kind:       domain.Kind(stringField(s, "kind")),
		Available:  s.GetFields()["available"].GetBoolValue(),
		Stock:      stock,
		FileFormat: stringField(s, "file_format"),
	}, nil
}

func ItemsToProto(views []domain.View) *structpb.Struct {
	items := make([]*structpb.Value, 0, len(views))
	for _, v := range views {
		items = append(items, structpb.NewStructValue(ItemToProto(v)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"items": structpb.NewListValue(&structpb.ListValue{Values: items}),
	}}
}

func ItemsFromProto(s *structpb.Struct) ([]domain.View, error) {
	values := s.GetFields()["items"].GetListValue().GetValues()
	out := make([]domain.View, 0, len(values))
	for _, v := range values {
		view, err := ItemFromProto(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func PurchaseRequestToProto(r PurchaseRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"item_id":  structpb.NewStringValue(r.ItemID),
		"quantity": structpb.NewNumberValue(float64(r.Quantity)),
		"email":    structpb.NewStringValue(r.Email),
		"address":  structpb.NewStringValue(r.Address),
	}}
}

func PurchaseRequestFromProto(s *structpb.Struct) (PurchaseRequest, error) {
	qty, err := intField(s, "quantity", domain.ErrInvalidQuantity)
	if err != nil {
		return PurchaseRequest{}, err
	}
	return PurchaseRequest{
		ItemID:   stringField(s, "item_id"),
		Quantity: qty,
		Email:    stringField(s, "email"),
		Address:  stringField(s, "address"),
	}, nil
}

func PurchaseToProto(p domain.Purchase) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"item_id":  structpb.NewStringValue(p.ItemID),
		"quantity": structpb.NewNumberValue(float64(p.Quantity)),
		"total":    structpb.NewStringValue(p.Total.String()),
		"fulfillment": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"kind":        structpb.NewStringValue(string(p.Fulfillment.Kind)),
			"destination": structpb.NewStringValue(p.Fulfillment.Destination),
			"item_id":     structpb.NewStringValue(p.Fulfillment.ItemID),
		}}),
	}}
}

func PurchaseFromProto(s *structpb.Struct) (domain.Purchase, error) {
	total, err := decimalField(s, "total")
	if err != nil {
		return domain.Purchase{}, err
	}
	qty, err := intField(s, "quantity", domain.ErrInvalidQuantity)
	if err != nil {
		return domain.Purchase{}, err
	}
	f := s.GetFields()["fulfillment"].GetStructValue()
	return domain.Purchase{
		ItemID:   stringField(s, "item_id"),
		Quantity: qty,
		Total:    total,
		Fulfillment: domain.FulfillmentEvent{
			Kind:        domain.FulfillmentKind(stringField(f, "kind")),
			Destination: stringField(f, "destination"),
			ItemID:      stringField(f, "item_id"),
		},
	}, nil
}

func IDToProto(id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"id": structpb.NewStringValue(id)}}
}

func IDFromProto(s *structpb.Struct) string {
	return stringField(s, "id")
}

func PruneRequestToProto(maxAgeYears int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"max_age_years": structpb.NewNumberValue(float64(maxAgeYears))}}
}

// PruneRequestFromProto requires max_age_years to be present and
// non-negative: a defaulted zero would prune everything not from this year.
func PruneRequestFromProto(s *structpb.Struct) (int, error) {
	if _, ok := s.GetFields()["max_age_years"]; !ok {
		return 0, ErrMissingMaxAge
	}
	maxAge, err := intField(s, "max_age_years", ErrInvalidMaxAge)
	if err != nil {
		return 0, err
	}
	if maxAge < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMaxAge, maxAge)
	}
	return maxAge, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// intField reads a whole number. A missing field is zero; a fractional or
// out-of-range value is rejected with invalid.
func intField(s *structpb.Struct, key string, invalid error) (int, error) {
	n := s.GetFields()[key].GetNumberValue()
	if n != math.Trunc(n) || math.Abs(n) > maxExactInt {
		return 0, fmt.Errorf("%w: field %s is not a whole number: %v", invalid, key, n)
	}
	return int(n), nil
}

func decimalField(s *structpb.Struct, key string) (decimal.Decimal, error) {
	raw := stringField(s, key)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mappers: field %s: %w", key, err)
	}
	return d, nil
}
