package services_test

import (
	"testing"

	"github.com/SscSPs/fx_exchange_engine/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		quote      string
		wantSpread string
		wantFee    string
	}{
		{name: "EUR to XOF corridor", base: "EUR", quote: "XOF", wantSpread: "0.005", wantFee: "0.01"},
		{name: "XOF to EUR shares the corridor", base: "XOF", quote: "EUR", wantSpread: "0.005", wantFee: "0.01"},
		{name: "USD to XOF corridor", base: "USD", quote: "XOF", wantSpread: "0.008", wantFee: "0.01"},
		{name: "GBP corridor lower case", base: "gbp", quote: "xof", wantSpread: "0.008", wantFee: "0.012"},
		{name: "default tier", base: "EUR", quote: "USD", wantSpread: "0.005", wantFee: "0.02"},
		{name: "same currency", base: "XOF", quote: "XOF", wantSpread: "0", wantFee: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := services.PriceFor(tt.base, tt.quote)
			assert.Equal(t, tt.wantSpread, p.SpreadPct.String())
			assert.Equal(t, tt.wantFee, p.FeePct.String())
		})
	}
}

func TestPriceFor_IsDeterministic(t *testing.T) {
	first := services.PriceFor("EUR", "XOF")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, services.PriceFor("EUR", "XOF"))
	}
	assert.Equal(t, "0.015", first.Markup().String())
}
