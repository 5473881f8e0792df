package domain

import "github.com/shopspring/decimal"

const (
	DefaultRatePerKg    = 30
	DefaultGramsPerUnit = 1000
)

// ShippingPolicy charges a flat rate per started weight unit.
type ShippingPolicy struct {
	RatePerKg    decimal.Decimal
	GramsPerUnit int
}

func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		RatePerKg:    decimal.NewFromInt(DefaultRatePerKg),
		GramsPerUnit: DefaultGramsPerUnit,
	}
}

// Fee rounds weightGrams up to whole units: 1g..1000g is one unit,
// 1001g..2000g two, and so on.
func (p ShippingPolicy) Fee(weightGrams int) decimal.Decimal {
	if weightGrams <= 0 {
		return decimal.Zero
	}
	unit := p.GramsPerUnit
	if unit <= 0 {
		unit = DefaultGramsPerUnit
	}
	units := (weightGrams + unit - 1) / unit
	return p.RatePerKg.Mul(decimal.NewFromInt(int64(units)))
}
