// Package domain holds the purchasable item variants sold through the catalog.
//
// The variant set is closed: Item is sealed by an unexported method, so the
// only implementations are PhysicalCopy, DigitalCopy and DemoCopy. Code that
// needs variant-specific data switches on the concrete type.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPhysical Kind = "PHYSICAL"
	KindDigital  Kind = "DIGITAL"
	KindDemo     Kind = "DEMO"
)

// Item is something that can be checked for availability and purchased.
type Item interface {
	ID() string
	Title() string
	Creator() string
	Year() int
	UnitPrice() decimal.Decimal
	Kind() Kind
	IsAvailable() bool
	// Purchase assumes qty > 0; the catalog rejects anything else before
	// dispatching here.
	Purchase(qty int, email, address string) (Purchase, error)

	sealed()
}

// Purchase is the outcome of a successful Item.Purchase.
type Purchase struct {
	ItemID      string
	Quantity    int
	Total       decimal.Decimal
	Fulfillment FulfillmentEvent
}

type FulfillmentKind string

const (
	FulfillmentShip    FulfillmentKind = "ship"
	FulfillmentDeliver FulfillmentKind = "deliver"
)

// FulfillmentEvent tells the outside world where a purchased item goes.
type FulfillmentEvent struct {
	Kind        FulfillmentKind `json:"kind"`
	Destination string          `json:"destination"`
	ItemID      string          `json:"item_id"`
}

// Details are the attributes every variant shares.
type Details struct {
	ID        string
	Title     string
	Year      int
	UnitPrice decimal.Decimal
	Creator   string
}

func (d Details) validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if d.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: price of %s is negative", ErrInvalidItem, d.ID)
	}
	return nil
}

type base struct {
	d Details
}

func (b *base) ID() string                 { return b.d.ID }
func (b *base) Title() string              { return b.d.Title }
func (b *base) Creator() string            { return b.d.Creator }
func (b *base) Year() int                  { return b.d.Year }
func (b *base) UnitPrice() decimal.Decimal { return b.d.UnitPrice }
func (b *base) sealed()                    {}

func (b *base) String() string {
	return fmt.Sprintf("%s by %s (%d) - %s", b.d.Title, b.d.Creator, b.d.Year, b.d.ID)
}

func (b *base) priceFor(qty int) decimal.Decimal {
	return b.d.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// PhysicalCopy is stock-limited and shipped to a postal address.
type PhysicalCopy struct {
	base
	stock int
}

func NewPhysicalCopy(d Details, stock int) (*PhysicalCopy, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock of %s is negative", ErrInvalidItem, d.ID)
	}
	return &PhysicalCopy{base: base{d: d}, stock: stock}, nil
}

func (p *PhysicalCopy) Kind() Kind        { return KindPhysical }
func (p *PhysicalCopy) IsAvailable() bool { return p.stock > 0 }
func (p *PhysicalCopy) Stock() int        { return p.stock }

func (p *PhysicalCopy) Purchase(qty int, _, address string) (Purchase, error) {
	if qty > p.stock {
		return Purchase{}, fmt.Errorf("%w: %s has %d, requested %d", ErrOutOfStock, p.d.ID, p.stock, qty)
	}
	p.stock -= qty
	return Purchase{
		ItemID:   p.d.ID,
		Quantity: qty,
		Total:    p.priceFor(qty),
		Fulfillment: FulfillmentEvent{
			Kind:        FulfillmentShip,
			Destination: address,
			ItemID:      p.d.ID,
		},
	}, nil
}

// DigitalCopy is never out of stock and is delivered by email.
type DigitalCopy struct {
	base
	fileFormat string
}

func NewDigitalCopy(d Details, fileFormat string) (*DigitalCopy, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &DigitalCopy{base: base{d: d}, fileFormat: fileFormat}, nil
}

func (e *DigitalCopy) Kind() Kind         { return KindDigital }
func (e *DigitalCopy) IsAvailable() bool  { return true }
func (e *DigitalCopy) FileFormat() string { return e.fileFormat }

func (e *DigitalCopy) Purchase(qty int, email, _ string) (Purchase, error) {
	return Purchase{
		ItemID:   e.d.ID,
		Quantity: qty,
		Total:    e.priceFor(qty),
		Fulfillment: FulfillmentEvent{
			Kind:        FulfillmentDeliver,
			Destination: email,
			ItemID:      e.d.ID,
		},
	}, nil
}

// DemoCopy is a showcase entry and can never be bought.
type DemoCopy struct {
	base
}

func NewDemoCopy(d Details) (*DemoCopy, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &DemoCopy{base: base{d: d}}, nil
}

func (m *DemoCopy) Kind() Kind        { return KindDemo }
func (m *DemoCopy) IsAvailable() bool { return false }

func (m *DemoCopy) Purchase(int, string, string) (Purchase, error) {
	return Purchase{}, fmt.Errorf("%w: %s", ErrNotForSale, m.d.ID)
}
