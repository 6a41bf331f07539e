package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind tells where the balance is held.
type AccountKind string

const (
	MobileMoney AccountKind = "MOBILE_MONEY"
	Bank        AccountKind = "BANK"
	Wallet      AccountKind = "WALLET"
)

// AccountBalance is an externally owned balance the engine may debit or credit
// inside a settlement. The engine never creates or closes accounts.
type AccountBalance struct {
	AccountRef   string          `json:"accountRef"`
	UserID       string          `json:"userID"`
	Kind         AccountKind     `json:"kind"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Covers reports whether the balance can fund amount.
func (a AccountBalance) Covers(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
