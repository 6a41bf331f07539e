// Package gateways declares the outbound contracts of the engine: rate providers,
// the rate cache store, the event sink and the settlement counterparty.
package gateways

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// RateProvider is one external rate source. Every implementation normalizes its
// responses into RateRecords with Source set to Name().
type RateProvider interface {
	Name() string
	FetchRates(ctx context.Context, base string, quotes []string) ([]domain.RateRecord, error)
}

// RateCacheStore keeps the newest RateRecord per pair.
type RateCacheStore interface {
	// Get returns the stored records for the pairs it knows; missing pairs are omitted.
	Get(ctx context.Context, pairs []domain.CurrencyPair) (map[domain.CurrencyPair]domain.RateRecord, error)

	// Put upserts records by pair, never replacing a newer observation with an older one.
	Put(ctx context.Context, records []domain.RateRecord) error
}

// RateObserver is notified of freshly fetched market rates.
type RateObserver interface {
	ObserveRates(ctx context.Context, records []domain.RateRecord)
}

// EventPublisher delivers outbox events to the notification collaborator.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.OutboxEvent) error
	Close() error
}

// SettlementConfirmer confirms a processing order with the settlement counterparty.
// Returning apperrors.ErrSettlementRejected fails the order; any other error is retried.
type SettlementConfirmer interface {
	Confirm(ctx context.Context, order domain.ExchangeOrder) error
}
