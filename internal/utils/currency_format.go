package utils

import (
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is used for currencies missing from the reference table.
const DefaultPrecision = 2

// RoundToCurrency rounds amount half-up to the minor units of currency.
// Example: 6462.782 XOF (precision 0) returns 6463
func RoundToCurrency(amount decimal.Decimal, currency domain.Currency) decimal.Decimal {
	return amount.Round(int32(currency.Precision))
}

// RoundDownToCurrency truncates amount to the minor units of currency.
// Example: 6462.782 XOF (precision 0) returns 6462
func RoundDownToCurrency(amount decimal.Decimal, currency domain.Currency) decimal.Decimal {
	return amount.RoundDown(int32(currency.Precision))
}

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 12.3456 with XOF (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(int32(currency.Precision))
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
