// Package models holds the row shapes of the PostgreSQL schema. Nullable
// columns are pointers; conversion to domain types lives in utils/mapping.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a row of currencies.
type Currency struct {
	CurrencyCode string    `db:"currency_code"`
	Symbol       string    `db:"symbol"`
	Name         string    `db:"name"`
	Precision    int16     `db:"precision"`
	CreatedAt    time.Time `db:"created_at"`
}

// Account is a row of accounts, the engine's view of an externally owned balance.
type Account struct {
	AccountRef   string          `db:"account_ref"`
	UserID       string          `db:"user_id"`
	Kind         string          `db:"kind"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// RateRecord is a row of rate_records.
type RateRecord struct {
	RateRecordID  string          `db:"rate_record_id"`
	BaseCurrency  string          `db:"base_currency"`
	QuoteCurrency string          `db:"quote_currency"`
	Rate          decimal.Decimal `db:"rate"`
	SpreadPct     decimal.Decimal `db:"spread_pct"`
	FeePct        decimal.Decimal `db:"fee_pct"`
	ObservedAt    time.Time       `db:"observed_at"`
	Source        string          `db:"source"`
}

// ExchangeOrder is a row of exchange_orders.
type ExchangeOrder struct {
	OrderID          string          `db:"order_id"`
	UserID           string          `db:"user_id"`
	QuoteID          *string         `db:"quote_id"`
	SourceAccountRef string          `db:"source_account_ref"`
	DestAccountRef   string          `db:"dest_account_ref"`
	FromCurrency     string          `db:"from_currency"`
	ToCurrency       string          `db:"to_currency"`
	FromAmount       decimal.Decimal `db:"from_amount"`
	ToAmount         decimal.Decimal `db:"to_amount"`
	AcceptedRate     decimal.Decimal `db:"accepted_rate"`
	ExecutedRate     decimal.Decimal `db:"executed_rate"`
	FeeTotal         decimal.Decimal `db:"fee_total"`
	Status           string          `db:"status"`
	Reference        string          `db:"reference"`
	FailureReason    *string         `db:"failure_reason"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	CompletedAt      *time.Time      `db:"completed_at"`
}

// LedgerEntry is a row of ledger_entries.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	OrderID      string          `db:"order_id"`
	AccountRef   string          `db:"account_ref"`
	CurrencyCode string          `db:"currency_code"`
	Amount       decimal.Decimal `db:"amount"`
	EntryType    string          `db:"entry_type"`
	CreatedAt    time.Time       `db:"created_at"`
}

// Quote is a row of quotes.
type Quote struct {
	QuoteID           string          `db:"quote_id"`
	FromCurrency      string          `db:"from_currency"`
	ToCurrency        string          `db:"to_currency"`
	FromAmount        decimal.Decimal `db:"from_amount"`
	ToAmount          decimal.Decimal `db:"to_amount"`
	BaseRate          decimal.Decimal `db:"base_rate"`
	SpreadPct         decimal.Decimal `db:"spread_pct"`
	FeePct            decimal.Decimal `db:"fee_pct"`
	FeeTotal          decimal.Decimal `db:"fee_total"`
	RateSource        string          `db:"rate_source"`
	RateObservedAt    time.Time       `db:"rate_observed_at"`
	IssuedAt          time.Time       `db:"issued_at"`
	ExpiresAt         time.Time       `db:"expires_at"`
	ConsumedByOrderID *string         `db:"consumed_by_order_id"`
	ConsumedAt        *time.Time      `db:"consumed_at"`
}

// RateAlert is a row of rate_alerts.
type RateAlert struct {
	AlertID       string           `db:"alert_id"`
	UserID        string           `db:"user_id"`
	FromCurrency  string           `db:"from_currency"`
	ToCurrency    string           `db:"to_currency"`
	TargetRate    decimal.Decimal  `db:"target_rate"`
	Direction     string           `db:"direction"`
	Active        bool             `db:"active"`
	CreatedAt     time.Time        `db:"created_at"`
	TriggeredAt   *time.Time       `db:"triggered_at"`
	TriggeredRate *decimal.Decimal `db:"triggered_rate"`
}

// OutboxEvent is a row of outbox_events.
type OutboxEvent struct {
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
	PublishedAt *time.Time `db:"published_at"`
}
