// Package events publishes checkout notices and receipts to the broker.
package events

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/retail-checkout/internal/coordinator"
	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging"
)

var _ coordinator.Reporter = (*Reporter)(nil)

type Reporter struct {
	publisher messaging.Publisher
}

func NewReporter(p messaging.Publisher) *Reporter {
	return &Reporter{publisher: p}
}

func (r *Reporter) Shipment(ctx context.Context, n coordinator.ShipmentNotice) {
	r.publish(ctx, messaging.TopicShipments, n.CheckoutID, n)
}

func (r *Reporter) Receipt(ctx context.Context, rc coordinator.Receipt) {
	r.publish(ctx, messaging.TopicReceipts, rc.CheckoutID, rc)
}

// publish only logs failures: the account is already debited at this point.
func (r *Reporter) publish(ctx context.Context, topic, key string, event any) {
	if err := r.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish checkout event", "topic", topic, "checkout_id", key, "error", err)
	}
}
