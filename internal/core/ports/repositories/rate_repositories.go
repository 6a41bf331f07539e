package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// RateRecordReader defines read operations over stored rate observations.
type RateRecordReader interface {
	// FindLatestRate returns the newest observation for pair, or apperrors.ErrNotFound.
	FindLatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.RateRecord, error)

	// ListRateRecords returns observations for pair with since <= observedAt <= until, oldest first.
	ListRateRecords(ctx context.Context, pair domain.CurrencyPair, since, until time.Time) ([]domain.RateRecord, error)
}

// RateRecordWriter appends rate observations. Older observations are retained.
type RateRecordWriter interface {
	SaveRateRecords(ctx context.Context, records []domain.RateRecord) error
}

// RateRepositoryFacade combines all rate record repository interfaces.
type RateRepositoryFacade interface {
	RateRecordReader
	RateRecordWriter
}
