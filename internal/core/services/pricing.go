package services

import (
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func tier(spread, fee string) domain.Pricing {
	return domain.Pricing{SpreadPct: decimal.RequireFromString(spread), FeePct: decimal.RequireFromString(fee)}
}

// corridorPricing lists the pairs the product targets. Both directions of a
// corridor share a tier.
var corridorPricing = map[domain.CurrencyPair]domain.Pricing{
	{Base: "EUR", Quote: "XOF"}: tier("0.005", "0.010"),
	{Base: "USD", Quote: "XOF"}: tier("0.008", "0.010"),
	{Base: "GBP", Quote: "XOF"}: tier("0.008", "0.012"),
}

var defaultPricing = tier("0.005", "0.020")

// PriceFor returns the spread and fee applied to base/quote. It is a pure
// table lookup: corridor pairs in either direction, a default tier for
// everything else and zero markup for a same-currency pair.
func PriceFor(base, quote string) domain.Pricing {
	pair := domain.NewCurrencyPair(base, quote)
	if pair.Base == pair.Quote {
		return domain.Pricing{SpreadPct: decimal.Zero, FeePct: decimal.Zero}
	}
	if p, ok := corridorPricing[pair]; ok {
		return p
	}
	if p, ok := corridorPricing[pair.Inverse()]; ok {
		return p
	}
	return defaultPricing
}
