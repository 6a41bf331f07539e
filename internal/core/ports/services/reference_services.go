package services

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// ReferenceDataSvc exposes static reference data and external balance views.
type ReferenceDataSvc interface {
	ListPopularPairs() []domain.CurrencyPair
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	GetAccountBalance(ctx context.Context, userID, accountRef string) (*domain.AccountBalance, error)
}
