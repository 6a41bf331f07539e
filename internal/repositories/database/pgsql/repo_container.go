package pgsql

import (
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	outboxRepo := newPgxOutboxRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RateRepo:     newPgxRateRepository(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		ExchangeRepo: newPgxExchangeRepository(dbPool),
		AlertRepo:    newPgxRateAlertRepository(dbPool),
		OutboxRepo:   outboxRepo,
		CurrencyRepo: newPgxCurrencyRepository(dbPool),
		QuoteRepo:    newPgxQuoteRepository(dbPool),
	}
}
