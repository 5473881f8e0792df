package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// View is a point-in-time copy of an item, safe to hand out while the item
// itself stays behind the catalog lock.
type View struct {
	ID         string
	Title      string
	Creator    string
	Year       int
	UnitPrice  decimal.Decimal
	Kind       Kind
	Available  bool
	Stock      int
	FileFormat string
}

func Describe(item Item) View {
	v := View{
		ID:        item.ID(),
		Title:     item.Title(),
		Creator:   item.Creator(),
		Year:      item.Year(),
		UnitPrice: item.UnitPrice(),
		Kind:      item.Kind(),
		Available: item.IsAvailable(),
	}
	switch it := item.(type) {
	case *PhysicalCopy:
		v.Stock = it.Stock()
	case *DigitalCopy:
		v.FileFormat = it.FileFormat()
	case *DemoCopy:
	}
	return v
}

// Restore builds the item variant a View describes.
func Restore(v View) (Item, error) {
	d := Details{ID: v.ID, Title: v.Title, Year: v.Year, UnitPrice: v.UnitPrice, Creator: v.Creator}
	switch v.Kind {
	case KindPhysical:
		return NewPhysicalCopy(d, v.Stock)
	case KindDigital:
		return NewDigitalCopy(d, v.FileFormat)
	case KindDemo:
		return NewDemoCopy(d)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, v.Kind)
	}
}
