package services

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// syntheticRatePrecision is the number of decimal places kept on generated rates.
const syntheticRatePrecision = 8

// unitsPerUSD anchors synthetic rates when no real observation is known.
// XOF and XAF follow the fixed EUR peg of 655.957.
var unitsPerUSD = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"XOF": decimal.RequireFromString("603.48"),
	"XAF": decimal.RequireFromString("603.48"),
	"NGN": decimal.RequireFromString("1550"),
	"GHS": decimal.RequireFromString("15.5"),
	"KES": decimal.RequireFromString("129"),
	"MAD": decimal.RequireFromString("9.9"),
	"ZAR": decimal.RequireFromString("18.5"),
	"CAD": decimal.RequireFromString("1.36"),
	"CHF": decimal.RequireFromString("0.88"),
	"JPY": decimal.RequireFromString("150"),
	"CNY": decimal.RequireFromString("7.2"),
}

// SyntheticRateGenerator produces fallback rates around an anchor with bounded
// jitter. It is deterministic for a given seed and call sequence.
type SyntheticRateGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	jitter decimal.Decimal
}

// NewSyntheticRateGenerator creates a generator whose rates stay within
// anchor * (1 ± jitterPct).
func NewSyntheticRateGenerator(seed uint64, jitterPct decimal.Decimal) *SyntheticRateGenerator {
	return &SyntheticRateGenerator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		jitter: jitterPct.Abs(),
	}
}

// Generate returns one synthetic record per quote. lastKnown maps a quote
// currency to the most recent real rate for base/quote and takes precedence
// over the static anchor table.
func (g *SyntheticRateGenerator) Generate(base string, quotes []string, lastKnown map[string]decimal.Decimal, at time.Time) ([]domain.RateRecord, error) {
	records := make([]domain.RateRecord, 0, len(quotes))
	for _, quote := range quotes {
		anchor, err := anchorRate(base, quote, lastKnown)
		if err != nil {
			return nil, err
		}
		pricing := PriceFor(base, quote)
		records = append(records, domain.RateRecord{
			ID:            uuid.NewString(),
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Rate:          anchor.Mul(g.factor()).Round(syntheticRatePrecision),
			SpreadPct:     pricing.SpreadPct,
			FeePct:        pricing.FeePct,
			ObservedAt:    at,
			Source:        domain.SyntheticSource,
		})
	}
	return records, nil
}

// factor draws a multiplier uniformly from [1 - jitter, 1 + jitter).
func (g *SyntheticRateGenerator) factor() decimal.Decimal {
	g.mu.Lock()
	u := g.rng.Float64()
	g.mu.Unlock()
	offset := decimal.NewFromFloat(2*u - 1).Mul(g.jitter)
	return decimal.NewFromInt(1).Add(offset)
}

func anchorRate(base, quote string, lastKnown map[string]decimal.Decimal) (decimal.Decimal, error) {
	if known, ok := lastKnown[quote]; ok && known.IsPositive() {
		return known, nil
	}
	basePerUSD, okBase := unitsPerUSD[base]
	quotePerUSD, okQuote := unitsPerUSD[quote]
	if !okBase || !okQuote {
		return decimal.Zero, fmt.Errorf("%w: no synthetic anchor for %s/%s", apperrors.ErrRateUnavailable, base, quote)
	}
	return quotePerUSD.DivRound(basePerUSD, syntheticRatePrecision), nil
}
