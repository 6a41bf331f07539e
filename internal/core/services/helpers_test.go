package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Clock ---
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Stub rate provider ---
var errProviderDown = errors.New("provider down")

// stubProvider answers from a fixed table of "BASE/QUOTE" rates and counts calls.
type stubProvider struct {
	name  string
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
	delay time.Duration
	calls atomic.Int32
}

func newStubProvider(name string, rates map[string]string) *stubProvider {
	p := &stubProvider{name: name, rates: make(map[string]decimal.Decimal)}
	for pair, r := range rates {
		p.rates[pair] = decimal.RequireFromString(r)
	}
	return p
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) SetRate(pair, rate string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[pair] = decimal.RequireFromString(rate)
}

func (p *stubProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *stubProvider) FetchRates(ctx context.Context, base string, quotes []string) ([]domain.RateRecord, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	var out []domain.RateRecord
	for _, q := range quotes {
		rate, ok := p.rates[base+"/"+q]
		if !ok {
			continue
		}
		out = append(out, domain.RateRecord{
			ID:            base + q + "-" + p.name,
			BaseCurrency:  base,
			QuoteCurrency: q,
			Rate:          rate,
			ObservedAt:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Source:        p.name,
		})
	}
	return out, nil
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...domain.OutboxEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Mock SettlementConfirmer ---
type MockSettlementConfirmer struct {
	mock.Mock
}

func (m *MockSettlementConfirmer) Confirm(ctx context.Context, order domain.ExchangeOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
