package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a bindable conversion offer. It is immutable once issued.
type Quote struct {
	QuoteID        string          `json:"quoteID"`
	FromCurrency   string          `json:"fromCurrency"`
	ToCurrency     string          `json:"toCurrency"`
	FromAmount     decimal.Decimal `json:"fromAmount"`
	ToAmount       decimal.Decimal `json:"toAmount"`
	BaseRate       decimal.Decimal `json:"baseRate"`
	SpreadPct      decimal.Decimal `json:"spreadPct"`
	FeePct         decimal.Decimal `json:"feePct"`
	FeeTotal       decimal.Decimal `json:"feeTotal"` // in FromCurrency
	RateSource     string          `json:"rateSource"`
	RateObservedAt time.Time       `json:"rateObservedAt"`
	IssuedAt       time.Time       `json:"issuedAt"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	Breakdown      *FeeBreakdown   `json:"breakdown,omitempty"`

	// ConsumedByOrderID is set once an order settles against the quote.
	ConsumedByOrderID string     `json:"-"`
	ConsumedAt        *time.Time `json:"-"`
}

// FeeBreakdown splits FeeTotal into its spread and fee parts, both in FromCurrency.
type FeeBreakdown struct {
	SpreadAmount decimal.Decimal `json:"spreadAmount"`
	FeeAmount    decimal.Decimal `json:"feeAmount"`
}

// EffectiveRate is the all-in rate the customer receives, derived from BaseRate and
// never stored on its own: BaseRate * (1 - spread - fee).
func (q Quote) EffectiveRate() decimal.Decimal {
	return q.BaseRate.Mul(decimal.NewFromInt(1).Sub(q.SpreadPct).Sub(q.FeePct))
}

// IsConsumed reports whether an order already settled against the quote.
func (q Quote) IsConsumed() bool {
	return q.ConsumedByOrderID != ""
}

// IsExpired reports whether the quote's validity window has passed at now.
func (q Quote) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
