package coordinator

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	accountdomain "github.com/jcmexdev/retail-checkout/internal/account/domain"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog"
)

// Result is what a successful checkout hands back to the caller.
type Result struct {
	CheckoutID string          `json:"checkout_id"`
	Total      decimal.Decimal `json:"total"`
	Shipment   *ShipmentNotice `json:"shipment,omitempty"`
	Receipt    Receipt         `json:"receipt"`
}

// Pipeline runs VALIDATING → PRICING → PAYING → FULFILLING → RECEIPTED.
//
// Cart checkout does not touch Product.QuantityOnHand: stock was validated
// when each line was added and is not re-checked or decremented here.
type Pipeline struct {
	logRepo  checkoutlog.Repository
	reporter Reporter
	newID    func() string
}

type PipelineOption func(*Pipeline)

func WithCheckoutLog(repo checkoutlog.Repository) PipelineOption {
	return func(p *Pipeline) { p.logRepo = repo }
}

func WithReporter(r Reporter) PipelineOption {
	return func(p *Pipeline) { p.reporter = r }
}

func WithIDGenerator(fn func() string) PipelineOption {
	return func(p *Pipeline) { p.newID = fn }
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Checkout charges acc for everything in c. On failure the account is left
// untouched.
func (p *Pipeline) Checkout(ctx context.Context, acc *accountdomain.Account, c *cartdomain.Cart) (*Result, error) {
	co := &Checkout{
		ID:      p.newID(),
		Cart:    c,
		Account: acc,
	}

	steps := []Step{
		ValidateStep{},
		PriceStep{},
		PaymentStep{},
		NewFulfillmentStep(p.reporter),
		NewReceiptStep(p.reporter),
	}

	orchestrator := NewOrchestrator(co.ID, steps, p.logRepo)
	if err := orchestrator.Start(ctx, co, requestPayload(acc, c)); err != nil {
		return nil, err
	}

	return &Result{
		CheckoutID: co.ID,
		Total:      co.Total,
		Shipment:   co.Shipment,
		Receipt:    *co.Receipt,
	}, nil
}

type payloadLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type payload struct {
	AccountID string        `json:"account_id"`
	Lines     []payloadLine `json:"lines"`
}

func requestPayload(acc *accountdomain.Account, c *cartdomain.Cart) string {
	lines := c.Lines()
	pl := payload{AccountID: acc.ID, Lines: make([]payloadLine, 0, len(lines))}
	for _, l := range lines {
		name := l.Product.ID
		if name == "" {
			name = l.Product.Name
		}
		pl.Lines = append(pl.Lines, payloadLine{Product: name, Quantity: l.Quantity})
	}
	b, err := json.Marshal(pl)
	if err != nil {
		return ""
	}
	return string(b)
}
