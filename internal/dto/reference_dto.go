package dto

import (
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = CurrencyResponse{
			CurrencyCode: curr.CurrencyCode,
			Symbol:       curr.Symbol,
			Name:         curr.Name,
			Precision:    curr.Precision,
		}
	}
	return res
}

// PairResponse is a reference currency pair.
type PairResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Symbol string `json:"symbol"`
}

// ToListPairResponse converts reference pairs.
func ToListPairResponse(pairs []domain.CurrencyPair) []PairResponse {
	res := make([]PairResponse, len(pairs))
	for i, p := range pairs {
		res[i] = PairResponse{From: p.Base, To: p.Quote, Symbol: p.String()}
	}
	return res
}

// AccountBalanceResponse is a read-only view of an external balance.
type AccountBalanceResponse struct {
	AccountRef   string          `json:"accountRef"`
	Kind         string          `json:"kind"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance.
func ToAccountBalanceResponse(a *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountRef:   a.AccountRef,
		Kind:         string(a.Kind),
		CurrencyCode: a.CurrencyCode,
		Balance:      a.Balance,
		UpdatedAt:    a.UpdatedAt,
	}
}
