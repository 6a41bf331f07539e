package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// RateCacheService serves the newest rate per pair while it is fresh and
// refills stale or missing pairs through the rate source adapter.
type RateCacheService struct {
	BaseService
	store     gateways.RateCacheStore
	fetcher   RateFetcher
	rateRepo  portsrepo.RateRepositoryFacade
	freshness time.Duration
	refills   singleflight.Group

	mu        sync.RWMutex
	observers []gateways.RateObserver
}

// NewRateCacheService creates the cache. rateRepo may be nil, in which case
// fetched records are not kept for history.
func NewRateCacheService(store gateways.RateCacheStore, fetcher RateFetcher, rateRepo portsrepo.RateRepositoryFacade, freshness time.Duration, opts ...Option) *RateCacheService {
	if freshness <= 0 {
		freshness = 10 * time.Minute
	}
	return &RateCacheService{
		BaseService: newBaseService(opts),
		store:       store,
		fetcher:     fetcher,
		rateRepo:    rateRepo,
		freshness:   freshness,
	}
}

var _ portssvc.RateReaderSvc = (*RateCacheService)(nil)

// AddObserver registers o to be told about every real rate the cache fetches.
func (s *RateCacheService) AddObserver(o gateways.RateObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// GetRates returns one record per target in request order. Fresh cached records
// are returned as-is; the rest are fetched in a single adapter call.
func (s *RateCacheService) GetRates(ctx context.Context, base string, targets []string, provider string) ([]domain.RateRecord, error) {
	base = domain.NormalizeCode(base)
	if !domain.IsValidCode(base) {
		return nil, fmt.Errorf("%w: invalid base currency '%s'", apperrors.ErrValidation, base)
	}
	quotes, err := normalizeTargets(targets)
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.CurrencyPair, len(quotes))
	for i, q := range quotes {
		pairs[i] = domain.CurrencyPair{Base: base, Quote: q}
	}

	cached, err := s.store.Get(ctx, pairs)
	if err != nil {
		s.LogWarn(ctx, err, "Rate cache read failed, refetching", slog.String("base", base))
		cached = nil
	}

	now := s.Now()
	result := make(map[string]domain.RateRecord, len(quotes))
	var stale []string
	for _, q := range quotes {
		rec, ok := cached[domain.CurrencyPair{Base: base, Quote: q}]
		if ok && rec.IsFresh(now, s.freshness) {
			result[q] = rec
			continue
		}
		stale = append(stale, q)
	}
	s.Metrics().ObserveCacheLookups(len(quotes)-len(stale), len(stale))

	if len(stale) > 0 {
		fetched, err := s.refill(ctx, base, stale, provider, cached)
		if err != nil {
			return nil, err
		}
		for _, r := range fetched {
			result[r.QuoteCurrency] = r
		}
	}

	out := make([]domain.RateRecord, 0, len(quotes))
	for _, q := range quotes {
		rec, ok := result[q]
		if !ok {
			return nil, fmt.Errorf("%w: no rate for %s/%s", apperrors.ErrRateUnavailable, base, q)
		}
		out = append(out, rec)
	}
	return out, nil
}

// refill collapses concurrent fetches of the same pairs into one adapter call.
// The shared fetch is detached from the caller that started it; each caller
// stops waiting when its own ctx is done.
func (s *RateCacheService) refill(ctx context.Context, base string, quotes []string, provider string, cached map[domain.CurrencyPair]domain.RateRecord) ([]domain.RateRecord, error) {
	key := base + ":" + strings.Join(sortedCopy(quotes), ",") + "@" + provider
	ch := s.refills.DoChan(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		lastKnown := s.lastKnownRates(fetchCtx, base, quotes, cached)
		records, err := s.fetcher.FetchRates(fetchCtx, FetchRequest{
			Base:      base,
			Quotes:    quotes,
			Provider:  provider,
			LastKnown: lastKnown,
		})
		if err != nil {
			return nil, err
		}
		s.remember(fetchCtx, records)
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, apperrors.ErrRateUnavailable) {
				return nil, res.Err
			}
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, res.Err)
		}
		return res.Val.([]domain.RateRecord), nil
	}
}

// lastKnownRates anchors the synthetic fallback on the newest real observation,
// so that repeated fallbacks never drift away from the market.
func (s *RateCacheService) lastKnownRates(ctx context.Context, base string, quotes []string, cached map[domain.CurrencyPair]domain.RateRecord) map[string]decimal.Decimal {
	known := make(map[string]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		pair := domain.CurrencyPair{Base: base, Quote: q}
		if rec, ok := cached[pair]; ok && !rec.IsSynthetic() {
			known[q] = rec.Rate
			continue
		}
		if s.rateRepo == nil {
			continue
		}
		latest, err := s.rateRepo.FindLatestRate(ctx, pair)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogWarn(ctx, err, "Failed to read last known rate", slog.String("pair", pair.String()))
			}
			continue
		}
		known[q] = latest.Rate
	}
	return known
}

// remember stores fetched records in the cache, appends real ones to the history
// and tells observers about them. Failures here never fail the read.
func (s *RateCacheService) remember(ctx context.Context, records []domain.RateRecord) {
	if err := s.store.Put(ctx, records); err != nil {
		s.LogWarn(ctx, err, "Failed to store rates in cache")
	}

	market := make([]domain.RateRecord, 0, len(records))
	for _, r := range records {
		if r.IsSynthetic() || r.BaseCurrency == r.QuoteCurrency {
			continue
		}
		market = append(market, r)
	}
	if len(market) == 0 {
		return
	}

	if s.rateRepo != nil {
		if err := s.rateRepo.SaveRateRecords(ctx, market); err != nil {
			s.LogWarn(ctx, err, "Failed to append rates to history")
		}
	}

	s.mu.RLock()
	observers := append([]gateways.RateObserver(nil), s.observers...)
	s.mu.RUnlock()
	for _, o := range observers {
		o.ObserveRates(ctx, market)
	}
}

func normalizeTargets(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target currency is required", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(targets))
	quotes := make([]string, 0, len(targets))
	for _, t := range targets {
		q := domain.NormalizeCode(t)
		if !domain.IsValidCode(q) {
			return nil, fmt.Errorf("%w: invalid target currency '%s'", apperrors.ErrValidation, t)
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
