package memory

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.OutboxEvent
	for _, e := range s.outbox {
		if e.PublishedAt != nil {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkPublished(ctx context.Context, eventIDs []string, at time.Time) error {
	ids := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		ids[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if _, ok := ids[s.outbox[i].EventID]; ok && s.outbox[i].PublishedAt == nil {
			published := at
			s.outbox[i].PublishedAt = &published
		}
	}
	return nil
}
