package domain

import (
	"strings"
	"time"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string    `json:"currencyCode"` // ISO-4217 style, e.g. "XOF"
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Precision    int       `json:"precision"` // number of minor-unit digits, 0 for XOF
	CreatedAt    time.Time `json:"createdAt"`
}

// CurrencyPair is an ordered (base, quote) pair.
type CurrencyPair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// NewCurrencyPair normalizes both codes to upper case.
func NewCurrencyPair(base, quote string) CurrencyPair {
	return CurrencyPair{Base: NormalizeCode(base), Quote: NormalizeCode(quote)}
}

// String renders the pair as "BASE/QUOTE".
func (p CurrencyPair) String() string {
	return p.Base + "/" + p.Quote
}

// Inverse returns the pair with base and quote swapped.
func (p CurrencyPair) Inverse() CurrencyPair {
	return CurrencyPair{Base: p.Quote, Quote: p.Base}
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCode reports whether code looks like a three letter currency code.
func IsValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
