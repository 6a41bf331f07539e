package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticRateGenerator_StaysWithinJitterOfLastKnown(t *testing.T) {
	jitter := decimal.RequireFromString("0.005")
	gen := services.NewSyntheticRateGenerator(7, jitter)
	last := decimal.RequireFromString("656.12")
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		records, err := gen.Generate("EUR", []string{"XOF"}, map[string]decimal.Decimal{"XOF": last}, at)
		require.NoError(t, err)
		require.Len(t, records, 1)

		r := records[0]
		assert.True(t, r.Rate.IsPositive())
		assert.True(t, r.IsSynthetic())
		assert.Equal(t, at, r.ObservedAt)
		assert.True(t, domain.RateDeviation(last, r.Rate).LessThanOrEqual(jitter), "rate %s drifted too far", r.Rate)
	}
}

func TestSyntheticRateGenerator_IsDeterministicPerSeed(t *testing.T) {
	at := time.Now()
	a := services.NewSyntheticRateGenerator(99, decimal.RequireFromString("0.005"))
	b := services.NewSyntheticRateGenerator(99, decimal.RequireFromString("0.005"))

	ra, err := a.Generate("USD", []string{"XOF", "EUR"}, nil, at)
	require.NoError(t, err)
	rb, err := b.Generate("USD", []string{"XOF", "EUR"}, nil, at)
	require.NoError(t, err)

	for i := range ra {
		assert.True(t, ra[i].Rate.Equal(rb[i].Rate))
	}
}

func TestSyntheticRateGenerator_UsesAnchorTable(t *testing.T) {
	gen := services.NewSyntheticRateGenerator(1, decimal.Zero)

	records, err := gen.Generate("EUR", []string{"XOF"}, nil, time.Now())
	require.NoError(t, err)
	// 603.48 / 0.92 follows the EUR peg.
	assert.Equal(t, "655.95652174", records[0].Rate.String())
	assert.Equal(t, "0.005", records[0].SpreadPct.String())
}

func TestSyntheticRateGenerator_UnknownCurrency(t *testing.T) {
	gen := services.NewSyntheticRateGenerator(1, decimal.RequireFromString("0.005"))

	_, err := gen.Generate("EUR", []string{"ZZZ"}, nil, time.Now())
	assert.True(t, errors.Is(err, apperrors.ErrRateUnavailable))
}
