package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyntheticSource marks rate records produced by the fallback generator.
const SyntheticSource = "synthetic"

// RateRecord is a single normalized rate observation for a currency pair.
// Records are superseded by newer observations, never mutated.
type RateRecord struct {
	ID            string          `json:"id"`
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`      // units of quote per one unit of base, always > 0
	SpreadPct     decimal.Decimal `json:"spreadPct"` // fraction, 0.005 == 0.5%
	FeePct        decimal.Decimal `json:"feePct"`
	ObservedAt    time.Time       `json:"observedAt"`
	Source        string          `json:"source"`
}

// Pair returns the record's currency pair.
func (r RateRecord) Pair() CurrencyPair {
	return CurrencyPair{Base: r.BaseCurrency, Quote: r.QuoteCurrency}
}

// IsSynthetic reports whether the record came from the fallback generator.
func (r RateRecord) IsSynthetic() bool {
	return r.Source == SyntheticSource
}

// IsFresh reports whether the record is younger than window at now.
func (r RateRecord) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(r.ObservedAt) < window
}

// Pricing holds the spread and fee fractions applied on top of the market rate.
type Pricing struct {
	SpreadPct decimal.Decimal `json:"spreadPct"`
	FeePct    decimal.Decimal `json:"feePct"`
}

// Markup is the combined spread and fee fraction.
func (p Pricing) Markup() decimal.Decimal {
	return p.SpreadPct.Add(p.FeePct)
}
