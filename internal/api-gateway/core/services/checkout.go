package services

import (
	"context"
	"fmt"

	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/retail-checkout/internal/api-gateway/core/ports"
	cartdomain "github.com/jcmexdev/retail-checkout/internal/cart/domain"
	"github.com/jcmexdev/retail-checkout/internal/coordinator"
	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
)

// CheckoutService turns a checkout request into a cart and runs the pipeline.
type CheckoutService struct {
	products ports.ProductRepository
	accounts ports.AccountRepository
	pipeline *coordinator.Pipeline
	clock    clock.Clock
	shipping cartdomain.ShippingPolicy
}

func NewCheckoutService(
	products ports.ProductRepository,
	accounts ports.AccountRepository,
	pipeline *coordinator.Pipeline,
	clk clock.Clock,
	shipping cartdomain.ShippingPolicy,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		accounts: accounts,
		pipeline: pipeline,
		clock:    clk,
		shipping: shipping,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req entity.CheckoutRequest) (*coordinator.Result, error) {
	acc, err := s.accounts.Get(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	cart := cartdomain.NewCart(s.clock, s.shipping)
	for i, line := range req.Lines {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if err := cart.AddLine(product, line.Quantity); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return s.pipeline.Checkout(ctx, acc, cart)
}
