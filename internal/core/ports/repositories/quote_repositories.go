package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// QuoteReader defines read operations for issued quotes.
type QuoteReader interface {
	// FindQuoteByID returns the quote with its consumption state or apperrors.ErrNotFound.
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)
}

// QuoteWriter defines write operations for issued quotes. Consumption happens
// inside ExchangeOrderWriter.SettleExchange.
type QuoteWriter interface {
	SaveQuote(ctx context.Context, quote domain.Quote) error

	// DeleteExpiredQuotes removes unconsumed quotes that expired before cutoff and
	// returns how many were removed. Consumed quotes stay as the audit trail of their order.
	DeleteExpiredQuotes(ctx context.Context, cutoff time.Time) (int, error)
}

// QuoteRepositoryFacade combines all quote repository interfaces.
type QuoteRepositoryFacade interface {
	QuoteReader
	QuoteWriter
}
