package app

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
)

// Notifier receives the informational events a Catalog emits. Calls happen
// after the catalog lock is released, so events from concurrent operations
// may arrive in any order.
type Notifier interface {
	ItemAdded(ctx context.Context, item domain.View)
	ItemRemoved(ctx context.Context, item domain.View)
	Fulfilled(ctx context.Context, event domain.FulfillmentEvent)
}

// LogNotifier writes catalog events to the default slog logger.
type LogNotifier struct{}

func (LogNotifier) ItemAdded(ctx context.Context, item domain.View) {
	slog.InfoContext(ctx, "catalog item added", "item_id", item.ID, "kind", item.Kind, "title", item.Title)
}

func (LogNotifier) ItemRemoved(ctx context.Context, item domain.View) {
	slog.InfoContext(ctx, "catalog item removed", "item_id", item.ID, "year", item.Year)
}

func (LogNotifier) Fulfilled(ctx context.Context, event domain.FulfillmentEvent) {
	switch event.Kind {
	case domain.FulfillmentShip:
		slog.InfoContext(ctx, "shipping item", "item_id", event.ItemID, "address", event.Destination)
	case domain.FulfillmentDeliver:
		slog.InfoContext(ctx, "delivering item", "item_id", event.ItemID, "email", event.Destination)
	}
}

// MultiNotifier fans every event out to each notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) ItemAdded(ctx context.Context, item domain.View) {
	for _, n := range m {
		n.ItemAdded(ctx, item)
	}
}

func (m MultiNotifier) ItemRemoved(ctx context.Context, item domain.View) {
	for _, n := range m {
		n.ItemRemoved(ctx, item)
	}
}

func (m MultiNotifier) Fulfilled(ctx context.Context, event domain.FulfillmentEvent) {
	for _, n := range m {
		n.Fulfilled(ctx, event)
	}
}
