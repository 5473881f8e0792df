package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientBalance = accountdomain.ErrInsufficientBalance
)

// Stage names the pipeline states, in execution order.
type Stage string

const (
	StageValidating Stage = "VALIDATING"
	StagePricing    Stage = "PRICING"
	StagePaying     Stage = "PAYING"
	StageFulfilling Stage = "FULFILLING"
	StageReceipted  Stage = "RECEIPTED"
)

// Checkout is the state threaded through the steps of one run.
type Checkout struct {
	ID      string
	Cart    *cartdomain.Cart
	Account *accountdomain.Account
	Stage   Stage

	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	Balance  decimal.Decimal

	Shipment *ShipmentNotice
	Receipt  *Receipt
}

// --- ValidateStep ---

type ValidateStep struct{}

func (ValidateStep) Name() Stage { return StageValidating }

func (ValidateStep) Execute(_ context.Context, co *Checkout) error {
	if co.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// --- PriceStep ---

type PriceStep struct{}

func (PriceStep) Name() Stage { return StagePricing }

func (PriceStep) Execute(_ context.Context, co *Checkout) error {
	co.Subtotal = co.Cart.Subtotal()
	co.Shipping = co.Cart.ShippingFee()
	co.Total = co.Subtotal.Add(co.Shipping)
	return nil
}

// --- PaymentStep ---

// PaymentStep is the only step that mutates shared state.
type PaymentStep struct{}

func (PaymentStep) Name() Stage { return StagePaying }

func (PaymentStep) Execute(_ context.Context, co *Checkout) error {
	if !co.Account.CanAfford(co.Total) {
		return fmt.Errorf("%w: %s has %s, total is %s",
			ErrInsufficientBalance, co.Account.Owner, co.Account.Balance().StringFixed(2), co.Total.StringFixed(2))
	}
	balance, err := co.Account.Debit(co.Total)
	if err != nil {
		return err
	}
	co.Balance = balance
	return nil
}

// --- FulfillmentStep ---

type FulfillmentStep struct {
	reporter Reporter
}

func NewFulfillmentStep(r Reporter) *FulfillmentStep {
	return &FulfillmentStep{reporter: r}
}

func (s *FulfillmentStep) Name() Stage { return StageFulfilling }

func (s *FulfillmentStep) Execute(ctx context.Context, co *Checkout) error {
	weight := co.Cart.TotalWeight()
	if weight == 0 {
		return nil
	}

	lines := co.Cart.ShippingLines()
	notice := ShipmentNotice{
		CheckoutID:       co.ID,
		Lines:            make([]ShipmentLine, 0, len(lines)),
		TotalWeightGrams: weight,
	}
	for _, l := range lines {
		notice.Lines = append(notice.Lines, ShipmentLine{
			Quantity:    l.Quantity,
			Name:        l.Product.Name,
			WeightGrams: l.Weight(),
		})
	}

	co.Shipment = &notice
	if s.reporter != nil {
		s.reporter.Shipment(ctx, notice)
	}
	return nil
}

// --- ReceiptStep ---

type ReceiptStep struct {
	reporter Reporter
}

func NewReceiptStep(r Reporter) *ReceiptStep {
	return &ReceiptStep{reporter: r}
}

func (s *ReceiptStep) Name() Stage { return StageReceipted }

func (s *ReceiptStep) Execute(ctx context.Context, co *Checkout) error {
	lines := co.Cart.Lines()
	receipt := Receipt{
		CheckoutID: co.ID,
		Customer:   co.Account.Owner,
		Lines:      make([]ReceiptLine, 0, len(lines)),
		Subtotal:   co.Subtotal,
		Shipping:   co.Shipping,
		Total:      co.Total,
		Balance:    co.Balance,
	}
	for _, l := range lines {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Quantity: l.Quantity,
			Name:     l.Product.Name,
			Total:    l.Total(),
		})
	}

	co.Receipt = &receipt
	if s.reporter != nil {
		s.reporter.Receipt(ctx, receipt)
	}
	return nil
}
