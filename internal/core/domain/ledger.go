package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger line is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// LedgerEntry is one balance movement written in the same unit as its ExchangeOrder.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	OrderID      string          `json:"orderID"`
	AccountRef   string          `json:"accountRef"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"` // always positive
	EntryType    EntryType       `json:"entryType"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount as a balance delta: debits reduce, credits increase.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}
