package services

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// RateReaderSvc serves current rates, from cache when fresh.
type RateReaderSvc interface {
	// GetRates returns one record per target, in the order requested. provider may be empty.
	GetRates(ctx context.Context, base string, targets []string, provider string) ([]domain.RateRecord, error)
}

// RateHistorySvc aggregates stored observations for charting.
type RateHistorySvc interface {
	// GetRateHistory buckets observations of from/to over period ("24h", "7d", "1m", ...).
	GetRateHistory(ctx context.Context, from, to, period string) ([]domain.RateHistoryBucket, error)
}
