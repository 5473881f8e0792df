// Package domain models products, cart lines and the cart pricing rules.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable good. A zero WeightGrams means the product does not
// need shipping, not that it weighs nothing.
type Product struct {
	ID             string
	Name           string
	UnitPrice      decimal.Decimal
	QuantityOnHand int
	WeightGrams    int
	ExpiryDate     *time.Time
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s has a negative price", ErrInvalidProduct, p.Name)
	}
	if p.QuantityOnHand < 0 || p.WeightGrams < 0 {
		return fmt.Errorf("%w: %s has a negative quantity or weight", ErrInvalidProduct, p.Name)
	}
	return nil
}

func (p *Product) NeedsShipping() bool {
	return p.WeightGrams > 0
}

// IsExpired reports whether the expiry date falls strictly before today.
// Only calendar dates are compared.
func (p *Product) IsExpired(today time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	e := p.ExpiryDate
	expiry := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return expiry.Before(day)
}

// Line pairs a product with a quantity. The product is referenced, not copied.
type Line struct {
	Product  *Product
	Quantity int
}

func (l Line) Total() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Weight() int {
	return l.Product.WeightGrams * l.Quantity
}
