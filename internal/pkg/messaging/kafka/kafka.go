// Package kafka implements messaging.Publisher on top of segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/jcmexdev/retail-checkout/internal/pkg/messaging"
)

var _ messaging.Publisher = (*Publisher)(nil)

// Publisher writes JSON events. One writer serves every topic; the topic is
// set per message.
type Publisher struct {
	writer *kafkaGo.Writer
}

// NewPublisher accepts a comma separated broker list, e.g. "kafka:9092".
func NewPublisher(brokers string) *Publisher {
	return &Publisher{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(splitBrokers(brokers)...),
			Balancer:               &kafkaGo.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event for %s: %w", topic, err)
	}

	err = p.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
