package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// identitySource marks the trivial rate of a currency against itself.
const identitySource = "identity"

// FetchRequest asks the adapter for base/quote rates.
type FetchRequest struct {
	Base     string
	Quotes   []string
	Provider string // optional, tried first when configured
	// LastKnown maps a quote currency to its most recent real rate and anchors
	// the synthetic fallback.
	LastKnown map[string]decimal.Decimal
}

// RateFetcher is the contract the rate cache refills through.
type RateFetcher interface {
	FetchRates(ctx context.Context, req FetchRequest) ([]domain.RateRecord, error)
}

// RateSourceConfig carries the injected provider selection.
type RateSourceConfig struct {
	DefaultProvider string
	Timeout         time.Duration
}

// RateSourceAdapter normalizes rates from the configured providers and falls
// back to synthetic rates when none of them answers. It keeps no state between
// calls.
type RateSourceAdapter struct {
	BaseService
	providers       map[string]gateways.RateProvider
	order           []string
	defaultProvider string
	timeout         time.Duration
	synthetic       *SyntheticRateGenerator
}

// NewRateSourceAdapter registers providers in fallback order.
func NewRateSourceAdapter(providers []gateways.RateProvider, synthetic *SyntheticRateGenerator, cfg RateSourceConfig, opts ...Option) *RateSourceAdapter {
	a := &RateSourceAdapter{
		BaseService:     newBaseService(opts),
		providers:       make(map[string]gateways.RateProvider, len(providers)),
		defaultProvider: cfg.DefaultProvider,
		timeout:         cfg.Timeout,
		synthetic:       synthetic,
	}
	if a.timeout <= 0 {
		a.timeout = 3 * time.Second
	}
	for _, p := range providers {
		if _, dup := a.providers[p.Name()]; dup {
			continue
		}
		a.providers[p.Name()] = p
		a.order = append(a.order, p.Name())
	}
	return a
}

var _ RateFetcher = (*RateSourceAdapter)(nil)

// FetchRates returns one record per requested quote, in request order.
// ErrProviderUnavailable never escapes: pairs no provider returned are filled
// synthetically, and only an unanchored synthetic pair fails with ErrRateUnavailable.
// A done ctx returns its error instead of synthetic records.
func (a *RateSourceAdapter) FetchRates(ctx context.Context, req FetchRequest) ([]domain.RateRecord, error) {
	base := domain.NormalizeCode(req.Base)
	now := a.Now()

	found := make(map[string]domain.RateRecord, len(req.Quotes))
	var missing []string
	for _, q := range req.Quotes {
		q = domain.NormalizeCode(q)
		if q == base {
			found[q] = identityRecord(base, now)
			continue
		}
		missing = append(missing, q)
	}

	var providerErrs []error
	for _, name := range a.attemptOrder(req.Provider) {
		if len(missing) == 0 || ctx.Err() != nil {
			break
		}
		records, err := a.callProvider(ctx, a.providers[name], base, missing)
		if err != nil {
			providerErrs = append(providerErrs, err)
			a.LogWarn(ctx, err, "Rate provider failed", slog.String("provider", name), slog.String("base", base))
			continue
		}
		for _, r := range records {
			found[r.QuoteCurrency] = r
		}
		missing = remaining(missing, found)
	}

	// Synthetic rates stand in for failed providers, never for an abandoned request.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rate fetch for %s abandoned: %w", base, err)
	}

	if len(missing) > 0 {
		err := fmt.Errorf("%w: %d providers tried", apperrors.ErrProviderUnavailable, len(providerErrs))
		if len(providerErrs) > 0 {
			err = fmt.Errorf("%w: %w", err, errors.Join(providerErrs...))
		}
		a.LogWarn(ctx, err, "Falling back to synthetic rates",
			slog.String("base", base), slog.Any("quotes", missing))

		if a.synthetic == nil {
			return nil, fmt.Errorf("%w: %s/%v", apperrors.ErrRateUnavailable, base, missing)
		}
		synthetic, synthErr := a.synthetic.Generate(base, missing, req.LastKnown, now)
		if synthErr != nil {
			return nil, synthErr
		}
		a.Metrics().IncSyntheticFallback(base, len(synthetic))
		for _, r := range synthetic {
			found[r.QuoteCurrency] = r
		}
	}

	out := make([]domain.RateRecord, 0, len(req.Quotes))
	for _, q := range req.Quotes {
		out = append(out, found[domain.NormalizeCode(q)])
	}
	return out, nil
}

// attemptOrder lists providers to try: the requested one, the default, then the rest.
func (a *RateSourceAdapter) attemptOrder(requested string) []string {
	order := make([]string, 0, len(a.order))
	seen := make(map[string]struct{}, len(a.order))
	add := func(name string) {
		if _, ok := a.providers[name]; !ok {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	add(requested)
	add(a.defaultProvider)
	for _, name := range a.order {
		add(name)
	}
	return order
}

// callProvider bounds a single provider call by the configured timeout and keeps
// only valid records for the requested quotes.
func (a *RateSourceAdapter) callProvider(ctx context.Context, p gateways.RateProvider, base string, quotes []string) ([]domain.RateRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	records, err := p.FetchRates(callCtx, base, quotes)
	if err != nil {
		a.Metrics().ObserveProviderRequest(p.Name(), "error", time.Since(start))
		return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
	}
	a.Metrics().ObserveProviderRequest(p.Name(), "ok", time.Since(start))

	wanted := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		wanted[q] = struct{}{}
	}
	now := a.Now()
	valid := make([]domain.RateRecord, 0, len(records))
	for _, r := range records {
		r.BaseCurrency = domain.NormalizeCode(r.BaseCurrency)
		r.QuoteCurrency = domain.NormalizeCode(r.QuoteCurrency)
		if _, ok := wanted[r.QuoteCurrency]; !ok || r.BaseCurrency != base || !r.Rate.IsPositive() {
			continue
		}
		// Providers publish on their own schedule; freshness is measured from retrieval.
		r.ObservedAt = now
		if r.Source == "" {
			r.Source = p.Name()
		}
		pricing := PriceFor(base, r.QuoteCurrency)
		r.SpreadPct = pricing.SpreadPct
		r.FeePct = pricing.FeePct
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("provider %s returned no usable rates for %s", p.Name(), base)
	}
	return valid, nil
}

func remaining(quotes []string, found map[string]domain.RateRecord) []string {
	var out []string
	for _, q := range quotes {
		if _, ok := found[q]; !ok {
			out = append(out, q)
		}
	}
	return out
}

func identityRecord(code string, at time.Time) domain.RateRecord {
	return domain.RateRecord{
		ID:            "identity-" + code,
		BaseCurrency:  code,
		QuoteCurrency: code,
		Rate:          decimal.NewFromInt(1),
		SpreadPct:     decimal.Zero,
		FeePct:        decimal.Zero,
		ObservedAt:    at,
		Source:        identitySource,
	}
}
