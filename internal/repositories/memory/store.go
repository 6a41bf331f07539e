// Package memory implements every repository port in process. It backs the
// STORAGE_DRIVER=memory mode and the service tests. All state sits behind one
// RWMutex, so every write, settlements included, runs one at a time.
package memory

import (
	"sync"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds all engine state in memory.
type Store struct {
	mu         sync.RWMutex
	currencies map[string]domain.Currency
	accounts   map[string]domain.AccountBalance
	rates      map[domain.CurrencyPair][]domain.RateRecord
	orders     map[string]domain.ExchangeOrder
	ledger     map[string][]domain.LedgerEntry // by order id
	alerts     map[string]domain.RateAlert
	quotes     map[string]domain.Quote
	outbox     []domain.OutboxEvent
}

// NewStore creates an empty store seeded with the default currencies.
func NewStore() *Store {
	s := &Store{
		currencies: make(map[string]domain.Currency),
		accounts:   make(map[string]domain.AccountBalance),
		rates:      make(map[domain.CurrencyPair][]domain.RateRecord),
		orders:     make(map[string]domain.ExchangeOrder),
		ledger:     make(map[string][]domain.LedgerEntry),
		alerts:     make(map[string]domain.RateAlert),
		quotes:     make(map[string]domain.Quote),
	}
	for _, c := range DefaultCurrencies() {
		s.currencies[c.CurrencyCode] = c
	}
	return s
}

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:     s,
		AccountRepo:  s,
		ExchangeRepo: s,
		QuoteRepo:    s,
		AlertRepo:    s,
		OutboxRepo:   s,
		CurrencyRepo: s,
	}
}

// DefaultCurrencies mirrors the currencies seeded by the SQL migration.
func DefaultCurrencies() []domain.Currency {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Currency{
		{CurrencyCode: "CAD", Symbol: "$", Name: "Canadian Dollar", Precision: 2, CreatedAt: created},
		{CurrencyCode: "CHF", Symbol: "CHF", Name: "Swiss Franc", Precision: 2, CreatedAt: created},
		{CurrencyCode: "CNY", Symbol: "¥", Name: "Chinese Yuan", Precision: 2, CreatedAt: created},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2, CreatedAt: created},
		{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound", Precision: 2, CreatedAt: created},
		{CurrencyCode: "GHS", Symbol: "GH₵", Name: "Ghanaian Cedi", Precision: 2, CreatedAt: created},
		{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0, CreatedAt: created},
		{CurrencyCode: "KES", Symbol: "KSh", Name: "Kenyan Shilling", Precision: 2, CreatedAt: created},
		{CurrencyCode: "MAD", Symbol: "DH", Name: "Moroccan Dirham", Precision: 2, CreatedAt: created},
		{CurrencyCode: "NGN", Symbol: "₦", Name: "Nigerian Naira", Precision: 2, CreatedAt: created},
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2, CreatedAt: created},
		{CurrencyCode: "XAF", Symbol: "FCFA", Name: "Central African CFA Franc", Precision: 0, CreatedAt: created},
		{CurrencyCode: "XOF", Symbol: "CFA", Name: "West African CFA Franc", Precision: 0, CreatedAt: created},
		{CurrencyCode: "ZAR", Symbol: "R", Name: "South African Rand", Precision: 2, CreatedAt: created},
	}
}

// PutAccount inserts or replaces an externally owned account. Accounts are
// provisioned by the account collaborator; this is how that data enters the store.
func (s *Store) PutAccount(a domain.AccountBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.AccountRef] = a
}

// LedgerEntries returns the ledger lines written for orderID.
func (s *Store) LedgerEntries(orderID string) []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LedgerEntry(nil), s.ledger[orderID]...)
}

// OutboxEvents returns every stored event, published or not.
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OutboxEvent(nil), s.outbox...)
}

// applyDeltas adds deltas to account balances. It checks every account first
// and applies nothing when one would go negative. Callers hold s.mu.
func (s *Store) applyDeltas(deltas map[string]decimal.Decimal, at time.Time) (string, bool) {
	for ref, delta := range deltas {
		acc, ok := s.accounts[ref]
		if !ok || acc.Balance.Add(delta).IsNegative() {
			return ref, false
		}
	}
	for ref, delta := range deltas {
		acc := s.accounts[ref]
		acc.Balance = acc.Balance.Add(delta)
		acc.UpdatedAt = at
		s.accounts[ref] = acc
	}
	return "", true
}
