package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeOrderFailureReasonIsNullable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := domain.ExchangeOrder{OrderID: "o1", Status: domain.StatusProcessing, FromAmount: decimal.NewFromInt(10), CreatedAt: now}

	m := ToModelExchangeOrder(order)
	assert.Nil(t, m.FailureReason)
	assert.Equal(t, "processing", m.Status)

	order.FailureReason = "counterparty refused"
	m = ToModelExchangeOrder(order)
	require.NotNil(t, m.FailureReason)
	assert.Equal(t, "counterparty refused", *m.FailureReason)

	back := ToDomainExchangeOrder(m)
	assert.Equal(t, domain.StatusProcessing, back.Status)
	assert.Equal(t, "counterparty refused", back.FailureReason)
}

func TestCurrencyPrecision(t *testing.T) {
	c := ToDomainCurrency(models.Currency{CurrencyCode: "XOF", Precision: 0})
	assert.Equal(t, 0, c.Precision)
	assert.Equal(t, "XOF", c.CurrencyCode)
}
