package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// OutboxRepository gives the relay access to events awaiting delivery.
type OutboxRepository interface {
	// FetchUnpublished returns up to limit unpublished events, oldest first.
	FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error)

	// MarkPublished stamps the given events as delivered.
	MarkPublished(ctx context.Context, eventIDs []string, at time.Time) error
}
