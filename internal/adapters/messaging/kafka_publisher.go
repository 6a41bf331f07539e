// Package messaging delivers outbox events to the notification collaborator.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventType = "event-type"
	headerEventID   = "event-id"
)

// KafkaPublisher writes events to one topic, keyed by aggregate id so that the
// events of one order or alert stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ gateways.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, events ...domain.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	return k.writer.WriteMessages(ctx, toMessages(events)...)
}

func (k *KafkaPublisher) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func toMessages(events []domain.OutboxEvent) []kafka.Message {
	messages := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		messages = append(messages, kafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Time:  e.CreatedAt,
			Headers: []kafka.Header{
				{Key: headerEventType, Value: []byte(e.EventType)},
				{Key: headerEventID, Value: []byte(e.EventID)},
			},
		})
	}
	return messages
}
