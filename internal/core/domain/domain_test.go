package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeOrder_TransitionTo(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    domain.ExchangeStatus
		to      domain.ExchangeStatus
		wantErr bool
	}{
		{name: "pending to processing", from: domain.StatusPending, to: domain.StatusProcessing},
		{name: "pending to rejected slippage", from: domain.StatusPending, to: domain.StatusRejectedSlippage},
		{name: "pending to rejected funds", from: domain.StatusPending, to: domain.StatusRejectedInsufficientFunds},
		{name: "processing to completed", from: domain.StatusProcessing, to: domain.StatusCompleted},
		{name: "processing to failed", from: domain.StatusProcessing, to: domain.StatusFailed},
		{name: "rejection never enters processing", from: domain.StatusRejectedSlippage, to: domain.StatusProcessing, wantErr: true},
		{name: "completed is terminal", from: domain.StatusCompleted, to: domain.StatusFailed, wantErr: true},
		{name: "processing cannot be rejected", from: domain.StatusProcessing, to: domain.StatusRejectedSlippage, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.ExchangeOrder{OrderID: "o-1", Status: tt.from}
			err := order.TransitionTo(tt.to, now)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, order.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			assert.Equal(t, now, order.UpdatedAt)
			if tt.to == domain.StatusCompleted {
				require.NotNil(t, order.CompletedAt)
				assert.Equal(t, now, *order.CompletedAt)
			} else {
				assert.Nil(t, order.CompletedAt)
			}
		})
	}
}

func TestExchangeStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusProcessing.IsTerminal())
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusFailed.IsTerminal())
	assert.True(t, domain.StatusRejectedSlippage.IsTerminal())
	assert.True(t, domain.StatusRejectedInsufficientFunds.IsTerminal())
}

func TestQuote_EffectiveRateNeverBeatsBaseRate(t *testing.T) {
	q := domain.Quote{
		BaseRate:  decimal.RequireFromString("656"),
		SpreadPct: decimal.RequireFromString("0.005"),
		FeePct:    decimal.RequireFromString("0.01"),
	}
	assert.True(t, q.EffectiveRate().Equal(decimal.RequireFromString("646.16")))
	assert.True(t, q.EffectiveRate().LessThanOrEqual(q.BaseRate))
}

func TestQuote_IsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	q := domain.Quote{IssuedAt: issued, ExpiresAt: issued.Add(2 * time.Minute)}

	assert.False(t, q.IsExpired(issued.Add(time.Minute)))
	assert.True(t, q.IsExpired(issued.Add(2*time.Minute)))
}

func TestRateAlert_IsTriggeredBy(t *testing.T) {
	target := decimal.RequireFromString("660")
	above := domain.RateAlert{TargetRate: target, Direction: domain.AlertAbove}
	below := domain.RateAlert{TargetRate: target, Direction: domain.AlertBelow}

	assert.True(t, above.IsTriggeredBy(decimal.RequireFromString("660")))
	assert.True(t, above.IsTriggeredBy(decimal.RequireFromString("661.5")))
	assert.False(t, above.IsTriggeredBy(decimal.RequireFromString("659.99")))

	assert.True(t, below.IsTriggeredBy(decimal.RequireFromString("660")))
	assert.True(t, below.IsTriggeredBy(decimal.RequireFromString("650")))
	assert.False(t, below.IsTriggeredBy(decimal.RequireFromString("660.01")))
}

func TestGranularityFor(t *testing.T) {
	assert.Equal(t, domain.Hourly, domain.GranularityFor(6*time.Hour))
	assert.Equal(t, domain.Hourly, domain.GranularityFor(24*time.Hour))
	assert.Equal(t, domain.Daily, domain.GranularityFor(25*time.Hour))
	assert.Equal(t, domain.Daily, domain.GranularityFor(30*24*time.Hour))
}

func TestCurrencyCodes(t *testing.T) {
	assert.Equal(t, "XOF", domain.NormalizeCode(" xof "))
	assert.True(t, domain.IsValidCode("EUR"))
	assert.False(t, domain.IsValidCode("EU"))
	assert.False(t, domain.IsValidCode("eur"))
	assert.Equal(t, "EUR/XOF", domain.NewCurrencyPair("eur", "xof").String())
	assert.Equal(t, domain.CurrencyPair{Base: "XOF", Quote: "EUR"}, domain.NewCurrencyPair("EUR", "XOF").Inverse())
}

func TestSlippageError(t *testing.T) {
	accepted := decimal.RequireFromString("656")
	fresh := decimal.RequireFromString("670")
	dev := domain.RateDeviation(accepted, fresh)
	assert.True(t, dev.GreaterThan(decimal.RequireFromString("0.021")))
	assert.True(t, dev.LessThan(decimal.RequireFromString("0.0214")))

	var err error = &domain.SlippageError{AcceptedRate: accepted, FreshRate: fresh, Deviation: dev, Tolerance: decimal.RequireFromString("0.01")}
	assert.True(t, errors.Is(err, apperrors.ErrSlippageExceeded))
	assert.False(t, errors.Is(err, apperrors.ErrInsufficientFunds))

	var se *domain.SlippageError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.FreshRate.Equal(fresh))
}
