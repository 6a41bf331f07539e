package mapping

import (
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
)

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Precision:    int(m.Precision),
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainAccountBalance converts a model Account to a domain AccountBalance
func ToDomainAccountBalance(m models.Account) domain.AccountBalance {
	return domain.AccountBalance{
		AccountRef:   m.AccountRef,
		UserID:       m.UserID,
		Kind:         domain.AccountKind(m.Kind),
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToModelRateRecord converts a domain RateRecord to a model RateRecord
func ToModelRateRecord(d domain.RateRecord) models.RateRecord {
	return models.RateRecord{
		RateRecordID:  d.ID,
		BaseCurrency:  d.BaseCurrency,
		QuoteCurrency: d.QuoteCurrency,
		Rate:          d.Rate,
		SpreadPct:     d.SpreadPct,
		FeePct:        d.FeePct,
		ObservedAt:    d.ObservedAt,
		Source:        d.Source,
	}
}

// ToDomainRateRecord converts a model RateRecord to a domain RateRecord
func ToDomainRateRecord(m models.RateRecord) domain.RateRecord {
	return domain.RateRecord{
		ID:            m.RateRecordID,
		BaseCurrency:  m.BaseCurrency,
		QuoteCurrency: m.QuoteCurrency,
		Rate:          m.Rate,
		SpreadPct:     m.SpreadPct,
		FeePct:        m.FeePct,
		ObservedAt:    m.ObservedAt,
		Source:        m.Source,
	}
}

// ToModelExchangeOrder converts a domain ExchangeOrder to a model ExchangeOrder
func ToModelExchangeOrder(d domain.ExchangeOrder) models.ExchangeOrder {
	m := models.ExchangeOrder{
		OrderID:          d.OrderID,
		UserID:           d.UserID,
		SourceAccountRef: d.SourceAccountRef,
		DestAccountRef:   d.DestAccountRef,
		FromCurrency:     d.FromCurrency,
		ToCurrency:       d.ToCurrency,
		FromAmount:       d.FromAmount,
		ToAmount:         d.ToAmount,
		AcceptedRate:     d.AcceptedRate,
		ExecutedRate:     d.ExecutedRate,
		FeeTotal:         d.FeeTotal,
		Status:           string(d.Status),
		Reference:        d.Reference,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		CompletedAt:      d.CompletedAt,
	}
	if d.FailureReason != "" {
		reason := d.FailureReason
		m.FailureReason = &reason
	}
	if d.QuoteID != "" {
		quoteID := d.QuoteID
		m.QuoteID = &quoteID
	}
	return m
}

// ToDomainExchangeOrder converts a model ExchangeOrder to a domain ExchangeOrder
func ToDomainExchangeOrder(m models.ExchangeOrder) domain.ExchangeOrder {
	d := domain.ExchangeOrder{
		OrderID:          m.OrderID,
		UserID:           m.UserID,
		SourceAccountRef: m.SourceAccountRef,
		DestAccountRef:   m.DestAccountRef,
		FromCurrency:     m.FromCurrency,
		ToCurrency:       m.ToCurrency,
		FromAmount:       m.FromAmount,
		ToAmount:         m.ToAmount,
		AcceptedRate:     m.AcceptedRate,
		ExecutedRate:     m.ExecutedRate,
		FeeTotal:         m.FeeTotal,
		Status:           domain.ExchangeStatus(m.Status),
		Reference:        m.Reference,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      m.CompletedAt,
	}
	if m.FailureReason != nil {
		d.FailureReason = *m.FailureReason
	}
	if m.QuoteID != nil {
		d.QuoteID = *m.QuoteID
	}
	return d
}

// ToModelQuote converts a domain Quote to a model Quote
func ToModelQuote(d domain.Quote) models.Quote {
	m := models.Quote{
		QuoteID:        d.QuoteID,
		FromCurrency:   d.FromCurrency,
		ToCurrency:     d.ToCurrency,
		FromAmount:     d.FromAmount,
		ToAmount:       d.ToAmount,
		BaseRate:       d.BaseRate,
		SpreadPct:      d.SpreadPct,
		FeePct:         d.FeePct,
		FeeTotal:       d.FeeTotal,
		RateSource:     d.RateSource,
		RateObservedAt: d.RateObservedAt,
		IssuedAt:       d.IssuedAt,
		ExpiresAt:      d.ExpiresAt,
		ConsumedAt:     d.ConsumedAt,
	}
	if d.ConsumedByOrderID != "" {
		orderID := d.ConsumedByOrderID
		m.ConsumedByOrderID = &orderID
	}
	return m
}

// ToDomainQuote converts a model Quote to a domain Quote
func ToDomainQuote(m models.Quote) domain.Quote {
	d := domain.Quote{
		QuoteID:        m.QuoteID,
		FromCurrency:   m.FromCurrency,
		ToCurrency:     m.ToCurrency,
		FromAmount:     m.FromAmount,
		ToAmount:       m.ToAmount,
		BaseRate:       m.BaseRate,
		SpreadPct:      m.SpreadPct,
		FeePct:         m.FeePct,
		FeeTotal:       m.FeeTotal,
		RateSource:     m.RateSource,
		RateObservedAt: m.RateObservedAt,
		IssuedAt:       m.IssuedAt,
		ExpiresAt:      m.ExpiresAt,
		ConsumedAt:     m.ConsumedAt,
	}
	if m.ConsumedByOrderID != nil {
		d.ConsumedByOrderID = *m.ConsumedByOrderID
	}
	return d
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		OrderID:      d.OrderID,
		AccountRef:   d.AccountRef,
		CurrencyCode: d.CurrencyCode,
		Amount:       d.Amount,
		EntryType:    string(d.EntryType),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		OrderID:      m.OrderID,
		AccountRef:   m.AccountRef,
		CurrencyCode: m.CurrencyCode,
		Amount:       m.Amount,
		EntryType:    domain.EntryType(m.EntryType),
		CreatedAt:    m.CreatedAt,
	}
}

// ToModelRateAlert converts a domain RateAlert to a model RateAlert
func ToModelRateAlert(d domain.RateAlert) models.RateAlert {
	return models.RateAlert{
		AlertID:       d.AlertID,
		UserID:        d.UserID,
		FromCurrency:  d.FromCurrency,
		ToCurrency:    d.ToCurrency,
		TargetRate:    d.TargetRate,
		Direction:     string(d.Direction),
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
		TriggeredAt:   d.TriggeredAt,
		TriggeredRate: d.TriggeredRate,
	}
}

// ToDomainRateAlert converts a model RateAlert to a domain RateAlert
func ToDomainRateAlert(m models.RateAlert) domain.RateAlert {
	return domain.RateAlert{
		AlertID:       m.AlertID,
		UserID:        m.UserID,
		FromCurrency:  m.FromCurrency,
		ToCurrency:    m.ToCurrency,
		TargetRate:    m.TargetRate,
		Direction:     domain.AlertDirection(m.Direction),
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
		TriggeredAt:   m.TriggeredAt,
		TriggeredRate: m.TriggeredRate,
	}
}

// ToModelOutboxEvent converts a domain OutboxEvent to a model OutboxEvent
func ToModelOutboxEvent(d domain.OutboxEvent) models.OutboxEvent {
	return models.OutboxEvent(d)
}

// ToDomainOutboxEvent converts a model OutboxEvent to a domain OutboxEvent
func ToDomainOutboxEvent(m models.OutboxEvent) domain.OutboxEvent {
	return domain.OutboxEvent(m)
}
