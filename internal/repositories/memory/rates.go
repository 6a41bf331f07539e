package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// SaveRateRecords appends records; older observations are kept.
func (s *Store) SaveRateRecords(ctx context.Context, records []domain.RateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		pair := r.Pair()
		list := append(s.rates[pair], r)
		sort.SliceStable(list, func(i, j int) bool { return list[i].ObservedAt.Before(list[j].ObservedAt) })
		s.rates[pair] = list
	}
	return nil
}

func (s *Store) FindLatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.rates[pair]
	if len(list) == 0 {
		return nil, apperrors.ErrNotFound
	}
	latest := list[len(list)-1]
	return &latest, nil
}

func (s *Store) ListRateRecords(ctx context.Context, pair domain.CurrencyPair, since, until time.Time) ([]domain.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RateRecord
	for _, r := range s.rates[pair] {
		if !r.ObservedAt.Before(since) && !r.ObservedAt.After(until) {
			out = append(out, r)
		}
	}
	return out, nil
}
