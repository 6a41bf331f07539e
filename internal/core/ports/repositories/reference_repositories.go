package repositories

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// CurrencyReader reads the currency reference table seeded by migrations.
type CurrencyReader interface {
	// FindCurrencyByCode returns the currency or apperrors.ErrNotFound.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyRepositoryFacade is read-only: currencies change through migrations.
type CurrencyRepositoryFacade interface {
	CurrencyReader
}

// AccountReader reads externally owned account balances.
type AccountReader interface {
	// FindAccountByRef returns the account or apperrors.ErrNotFound.
	FindAccountByRef(ctx context.Context, accountRef string) (*domain.AccountBalance, error)
}

// AccountRepositoryFacade is the account surface the engine depends on.
// Balance mutation only happens inside ExchangeRepositoryFacade.SettleExchange.
type AccountRepositoryFacade interface {
	AccountReader
}
