package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
)

// Cart is an ordered list of lines. It is built by one caller and is not
// safe for concurrent use.
type Cart struct {
	lines    []Line
	clock    clock.Clock
	shipping ShippingPolicy
}

func NewCart(c clock.Clock, shipping ShippingPolicy) *Cart {
	if c == nil {
		c = clock.System{}
	}
	return &Cart{clock: c, shipping: shipping}
}

// AddLine validates stock and expiry once, at add time.
func (c *Cart) AddLine(product *Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if qty > product.QuantityOnHand {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, product.Name, product.QuantityOnHand, qty)
	}
	if product.IsExpired(clock.Today(c.clock)) {
		return fmt.Errorf("%w: %s", ErrProductExpired, product.Name)
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: qty})
	return nil
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ShippingLines returns the lines whose product needs shipping, in cart order.
func (c *Cart) ShippingLines() []Line {
	var out []Line
	for _, l := range c.lines {
		if l.Product.NeedsShipping() {
			out = append(out, l)
		}
	}
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) TotalWeight() int {
	weight := 0
	for _, l := range c.ShippingLines() {
		weight += l.Weight()
	}
	return weight
}

func (c *Cart) ShippingFee() decimal.Decimal {
	return c.shipping.Fee(c.TotalWeight())
}

func (c *Cart) GrandTotal() decimal.Decimal {
	return c.Subtotal().Add(c.ShippingFee())
}
