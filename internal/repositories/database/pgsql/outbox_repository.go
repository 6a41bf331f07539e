package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(pool *pgxpool.Pool) *PgxOutboxRepository {
	return &PgxOutboxRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OutboxRepository = (*PgxOutboxRepository)(nil)

const insertOutboxEventQuery = `
	INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, created_at)
	VALUES ($1, $2, $3, $4, $5);
`

// insertOutboxEvent stores event within tx, next to the state change that produced it.
func insertOutboxEvent(ctx context.Context, tx pgx.Tx, event domain.OutboxEvent) error {
	m := mapping.ToModelOutboxEvent(event)
	_, err := tx.Exec(ctx, insertOutboxEventQuery, m.EventID, m.EventType, m.AggregateID, m.Payload, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event %s: %w", m.EventType, err)
	}
	return nil
}

// FetchUnpublished returns up to limit unpublished events, oldest first.
func (r *PgxOutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `
		SELECT event_id, event_type, aggregate_id, payload, created_at, published_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unpublished events: %w", err)
	}
	defer rows.Close()

	events := []domain.OutboxEvent{}
	for rows.Next() {
		var m models.OutboxEvent
		if err := rows.Scan(&m.EventID, &m.EventType, &m.AggregateID, &m.Payload, &m.CreatedAt, &m.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event row: %w", err)
		}
		events = append(events, mapping.ToDomainOutboxEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox event rows: %w", err)
	}
	return events, nil
}

// MarkPublished stamps the given events as delivered.
func (r *PgxOutboxRepository) MarkPublished(ctx context.Context, eventIDs []string, at time.Time) error {
	if len(eventIDs) == 0 {
		return nil
	}
	query := `
		UPDATE outbox_events
		SET published_at = $2
		WHERE event_id = ANY($1::uuid[]) AND published_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, eventIDs, at); err != nil {
		return fmt.Errorf("failed to mark %d events published: %w", len(eventIDs), err)
	}
	return nil
}
