package coordinator

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

type ShipmentLine struct {
	Quantity    int    `json:"quantity"`
	Name        string `json:"name"`
	WeightGrams int    `json:"weight_grams"`
}

// ShipmentNotice lists what has to be physically shipped for a checkout.
type ShipmentNotice struct {
	CheckoutID       string         `json:"checkout_id"`
	Lines            []ShipmentLine `json:"lines"`
	TotalWeightGrams int            `json:"total_weight_grams"`
}

// TotalWeightKg renders the aggregate weight in kilograms with three decimals.
func (n ShipmentNotice) TotalWeightKg() string {
	return decimal.New(int64(n.TotalWeightGrams), -3).StringFixed(3)
}

type ReceiptLine struct {
	Quantity int             `json:"quantity"`
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
}

type Receipt struct {
	CheckoutID string          `json:"checkout_id"`
	Customer   string          `json:"customer"`
	Lines      []ReceiptLine   `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
	Balance    decimal.Decimal `json:"balance"`
}

// Reporter is the presentation side of a checkout. Both calls happen after
// the account was debited and must not fail the checkout.
type Reporter interface {
	Shipment(ctx context.Context, notice ShipmentNotice)
	Receipt(ctx context.Context, receipt Receipt)
}

// LogReporter writes notices and receipts to the default slog logger.
type LogReporter struct{}

func (LogReporter) Shipment(ctx context.Context, n ShipmentNotice) {
	for _, l := range n.Lines {
		slog.InfoContext(ctx, "shipment line", "checkout_id", n.CheckoutID, "quantity", l.Quantity, "name", l.Name, "weight_g", l.WeightGrams)
	}
	slog.InfoContext(ctx, "shipment notice", "checkout_id", n.CheckoutID, "total_weight_kg", n.TotalWeightKg())
}

func (LogReporter) Receipt(ctx context.Context, r Receipt) {
	slog.InfoContext(ctx, "checkout receipt",
		"checkout_id", r.CheckoutID,
		"customer", r.Customer,
		"lines", len(r.Lines),
		"subtotal", r.Subtotal.StringFixed(2),
		"shipping", r.Shipping.StringFixed(2),
		"total", r.Total.StringFixed(2),
		"balance", r.Balance.StringFixed(2),
	)
}

// MultiReporter hands every notice and receipt to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Shipment(ctx context.Context, n ShipmentNotice) {
	for _, r := range m {
		r.Shipment(ctx, n)
	}
}

func (m MultiReporter) Receipt(ctx context.Context, rc Receipt) {
	for _, r := range m {
		r.Receipt(ctx, rc)
	}
}
