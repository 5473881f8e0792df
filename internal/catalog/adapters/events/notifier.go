// Package events publishes catalog notifications to the message broker.
package events

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/retail-checkout/internal/catalog/app"
	"github.com/jcmexdev/retail-checkout/internal/catalog/domain"
	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging"
)

var _ app.Notifier = (*Notifier)(nil)

type ItemEvent struct {
	Type      string          `json:"type"`
	ItemID    string          `json:"item_id"`
	Kind      domain.Kind     `json:"kind"`
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

const (
	EventItemAdded   = "item_added"
	EventItemRemoved = "item_removed"
)

// Notifier publishes catalog events. Publish failures are logged and
// swallowed: notifications are informational and must not fail an operation.
type Notifier struct {
	publisher messaging.Publisher
}

func NewNotifier(p messaging.Publisher) *Notifier {
	return &Notifier{publisher: p}
}

func (n *Notifier) ItemAdded(ctx context.Context, item domain.View) {
	n.publish(ctx, messaging.TopicCatalogItems, item.ID, itemEvent(EventItemAdded, item))
}

func (n *Notifier) ItemRemoved(ctx context.Context, item domain.View) {
	n.publish(ctx, messaging.TopicCatalogItems, item.ID, itemEvent(EventItemRemoved, item))
}

func (n *Notifier) Fulfilled(ctx context.Context, event domain.FulfillmentEvent) {
	n.publish(ctx, messaging.TopicFulfillments, event.ItemID, event)
}

func (n *Notifier) publish(ctx context.Context, topic, key string, event any) {
	if err := n.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish catalog event", "topic", topic, "key", key, "error", err)
	}
}

func itemEvent(typ string, item domain.View) ItemEvent {
	return ItemEvent{
		Type:      typ,
		ItemID:    item.ID,
		Kind:      item.Kind,
		Title:     item.Title,
		Year:      item.Year,
		UnitPrice: item.UnitPrice,
	}
}
