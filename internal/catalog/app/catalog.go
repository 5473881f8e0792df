// Package app implements the catalog of purchasable items.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/pkg/clock"
)

// Catalog owns its items. Every operation runs under one mutex because
// purchase and prune are check-then-act sequences on shared stock.
// Notifications are sent after the mutex is released.
type Catalog struct {
	mu       sync.Mutex
	items    map[string]domain.Item
	order    []string
	clock    clock.Clock
	notifier Notifier
}

type Option func(*Catalog)

func WithClock(c clock.Clock) Option {
	return func(cat *Catalog) { cat.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(cat *Catalog) { cat.notifier = n }
}

func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		items:    make(map[string]domain.Item),
		clock:    clock.System{},
		notifier: LogNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add inserts item, replacing any entry with the same id in place.
func (c *Catalog) Add(ctx context.Context, item domain.Item) {
	c.mu.Lock()
	if _, exists := c.items[item.ID()]; !exists {
		c.order = append(c.order, item.ID())
	}
	c.items[item.ID()] = item
	added := domain.Describe(item)
	c.mu.Unlock()

	c.notifier.ItemAdded(ctx, added)
}

// Get returns a snapshot of the item stored under id.
func (c *Catalog) Get(id string) (domain.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return domain.View{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return domain.Describe(item), nil
}

// List returns snapshots of every item in insertion order.
func (c *Catalog) List() []domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.View, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, domain.Describe(c.items[id]))
	}
	return out
}

// PruneOlderThan removes every item published more than maxAgeYears before
// the current year and returns them in scan order.
func (c *Catalog) PruneOlderThan(ctx context.Context, maxAgeYears int) []domain.Item {
	currentYear := c.clock.Now().Year()

	c.mu.Lock()
	var (
		removed []domain.Item
		views   []domain.View
	)
	kept := c.order[:0]
	for _, id := range c.order {
		item := c.items[id]
		if currentYear-item.Year() > maxAgeYears {
			delete(c.items, id)
			removed = append(removed, item)
			views = append(views, domain.Describe(item))
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	c.mu.Unlock()

	for _, v := range views {
		c.notifier.ItemRemoved(ctx, v)
	}
	if len(removed) > 0 {
		slog.DebugContext(ctx, "catalog pruned", "removed", len(removed), "current_year", currentYear, "max_age_years", maxAgeYears)
	}
	return removed
}

// Purchase dispatches a purchase to the item stored under id.
func (c *Catalog) Purchase(ctx context.Context, id string, qty int, email, address string) (domain.Purchase, error) {
	if qty <= 0 {
		return domain.Purchase{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, qty)
	}

	p, err := c.purchase(id, qty, email, address)
	if err != nil {
		return domain.Purchase{}, err
	}

	c.notifier.Fulfilled(ctx, p.Fulfillment)
	return p, nil
}

func (c *Catalog) purchase(id string, qty int, email, address string) (domain.Purchase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return domain.Purchase{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if !item.IsAvailable() {
		return domain.Purchase{}, fmt.Errorf("%w: %s", domain.ErrUnavailable, id)
	}
	return item.Purchase(qty, email, address)
}
