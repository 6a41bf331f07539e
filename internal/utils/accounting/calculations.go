package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementEntries builds the two ledger lines of an exchange: a debit of the
// source account in the from-currency and a credit of the destination account
// in the to-currency.
func SettlementEntries(order domain.ExchangeOrder, at time.Time) []domain.LedgerEntry {
	return []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			OrderID:      order.OrderID,
			AccountRef:   order.SourceAccountRef,
			CurrencyCode: order.FromCurrency,
			Amount:       order.FromAmount,
			EntryType:    domain.Debit,
			CreatedAt:    at,
		},
		{
			EntryID:      uuid.NewString(),
			OrderID:      order.OrderID,
			AccountRef:   order.DestAccountRef,
			CurrencyCode: order.ToCurrency,
			Amount:       order.ToAmount,
			EntryType:    domain.Credit,
			CreatedAt:    at,
		},
	}
}

// ReversalEntries mirrors entries with the opposite entry type so that applying
// both sets leaves every balance unchanged.
func ReversalEntries(entries []domain.LedgerEntry, at time.Time) []domain.LedgerEntry {
	reversed := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		r := e
		r.EntryID = uuid.NewString()
		r.CreatedAt = at
		if e.EntryType == domain.Debit {
			r.EntryType = domain.Credit
		} else {
			r.EntryType = domain.Debit
		}
		reversed[i] = r
	}
	return reversed
}

// BalanceDeltas sums the signed amount of entries per account.
func BalanceDeltas(entries []domain.LedgerEntry) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		deltas[e.AccountRef] = deltas[e.AccountRef].Add(e.SignedAmount())
	}
	return deltas
}

// ValidateEntries checks that every entry is positive and that each account is
// touched in a single currency.
func ValidateEntries(entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no ledger entries")
	}
	currencies := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return fmt.Errorf("ledger entry %s for account %s has non-positive amount %s", e.EntryID, e.AccountRef, e.Amount)
		}
		if e.EntryType != domain.Debit && e.EntryType != domain.Credit {
			return fmt.Errorf("ledger entry %s has unknown type %q", e.EntryID, e.EntryType)
		}
		if code, ok := currencies[e.AccountRef]; ok && code != e.CurrencyCode {
			return fmt.Errorf("account %s touched in both %s and %s", e.AccountRef, code, e.CurrencyCode)
		}
		currencies[e.AccountRef] = e.CurrencyCode
	}
	return nil
}
