package memory

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

func (s *Store) FindAccountByRef(ctx context.Context, accountRef string) (*domain.AccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountRef]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}
