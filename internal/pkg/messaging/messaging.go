// Package messaging publishes domain events to a message broker.
package messaging

import (
	"context"
	"sync"
)

const (
	TopicCatalogItems = "catalog.items"
	TopicFulfillments = "catalog.fulfillments"
	TopicShipments    = "checkout.shipments"
	TopicReceipts     = "checkout.receipts"
)

// Publisher sends event to topic, keyed for partitioning.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Message is one event captured by a MemoryPublisher.
type Message struct {
	Topic string
	Key   string
	Event any
}

// MemoryPublisher keeps published events in memory. Used when no broker is
// configured and in tests.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
}

func (m *MemoryPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (m *MemoryPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}
