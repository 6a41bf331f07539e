package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
)

// OutboxRelay delivers stored domain events to the event sink, at least once.
type OutboxRelay struct {
	BaseService
	outboxRepo portsrepo.OutboxRepository
	publisher  gateways.EventPublisher
	batchSize  int
}

// NewOutboxRelay creates a relay publishing up to batchSize events per pass.
func NewOutboxRelay(outboxRepo portsrepo.OutboxRepository, publisher gateways.EventPublisher, batchSize int, opts ...Option) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		BaseService: newBaseService(opts),
		outboxRepo:  outboxRepo,
		publisher:   publisher,
		batchSize:   batchSize,
	}
}

// RelayOnce publishes one batch and marks it published. A publish failure
// leaves the whole batch pending for the next pass.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.outboxRepo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err := r.publisher.Publish(ctx, events...); err != nil {
		r.Metrics().ObserveOutbox("error", len(events))
		return 0, fmt.Errorf("failed to publish %d outbox events: %w", len(events), err)
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}
	if err := r.outboxRepo.MarkPublished(ctx, ids, r.Now()); err != nil {
		// The events will be published again; consumers deduplicate by event id.
		return 0, fmt.Errorf("failed to mark %d outbox events published: %w", len(ids), err)
	}

	r.Metrics().ObserveOutbox("published", len(events))
	r.LogDebug(ctx, "Outbox events relayed", slog.Int("count", len(events)))
	return len(events), nil
}
