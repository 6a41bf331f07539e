package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

func (s *Store) SaveQuote(ctx context.Context, quote domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.quotes[quote.QuoteID]; exists {
		return fmt.Errorf("%w: quote %s", apperrors.ErrDuplicate, quote.QuoteID)
	}
	quote.Breakdown = nil
	s.quotes[quote.QuoteID] = quote
	return nil
}

func (s *Store) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[quoteID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &q, nil
}

func (s *Store) DeleteExpiredQuotes(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, q := range s.quotes {
		if !q.IsConsumed() && q.ExpiresAt.Before(cutoff) {
			delete(s.quotes, id)
			removed++
		}
	}
	return removed, nil
}

// consumeQuote marks quoteID as used by orderID. Callers hold s.mu.
func (s *Store) consumeQuote(quoteID, orderID string, at time.Time) error {
	q, ok := s.quotes[quoteID]
	if !ok {
		return fmt.Errorf("%w: quote %s", apperrors.ErrNotFound, quoteID)
	}
	if q.IsConsumed() {
		return fmt.Errorf("%w: quote %s backs order %s", apperrors.ErrQuoteConsumed, quoteID, q.ConsumedByOrderID)
	}
	consumedAt := at
	q.ConsumedByOrderID = orderID
	q.ConsumedAt = &consumedAt
	s.quotes[quoteID] = q
	return nil
}

// releaseQuote undoes consumeQuote when the settlement it belonged to fails. Callers hold s.mu.
func (s *Store) releaseQuote(quoteID string) {
	q := s.quotes[quoteID]
	q.ConsumedByOrderID = ""
	q.ConsumedAt = nil
	s.quotes[quoteID] = q
}
