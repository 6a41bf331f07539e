package messaging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
)

// LogPublisher writes events to the structured log. It stands in for the
// broker when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ gateways.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...domain.OutboxEvent) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, "Domain event",
			slog.String("event_id", e.EventID),
			slog.String("event_type", e.EventType),
			slog.String("aggregate_id", e.AggregateID),
			slog.String("payload", string(e.Payload)))
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
