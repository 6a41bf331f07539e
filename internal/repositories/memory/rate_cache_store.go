package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
)

// RateCacheStore keeps the newest record per pair in process.
type RateCacheStore struct {
	mu      sync.RWMutex
	records map[domain.CurrencyPair]domain.RateRecord
}

// NewRateCacheStore creates an empty in-process rate cache store.
func NewRateCacheStore() *RateCacheStore {
	return &RateCacheStore{records: make(map[domain.CurrencyPair]domain.RateRecord)}
}

var _ gateways.RateCacheStore = (*RateCacheStore)(nil)

func (c *RateCacheStore) Get(ctx context.Context, pairs []domain.CurrencyPair) (map[domain.CurrencyPair]domain.RateRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[domain.CurrencyPair]domain.RateRecord, len(pairs))
	for _, p := range pairs {
		if r, ok := c.records[p]; ok {
			out[p] = r
		}
	}
	return out, nil
}

// Put keeps a record only if it is at least as new as the stored one.
func (c *RateCacheStore) Put(ctx context.Context, records []domain.RateRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		if current, ok := c.records[r.Pair()]; ok && current.ObservedAt.After(r.ObservedAt) {
			continue
		}
		c.records[r.Pair()] = r
	}
	return nil
}
