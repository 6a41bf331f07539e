package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

func (s *Store) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}
