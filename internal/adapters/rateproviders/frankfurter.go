package rateproviders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FrankfurterName is the registry name of the Frankfurter (ECB reference rates) client.
const FrankfurterName = "frankfurter"

type frankfurterResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Frankfurter serves ECB reference rates. It does not quote XOF, so it only
// ever answers part of a West African request.
type Frankfurter struct {
	httpProvider
}

func NewFrankfurter(baseURL string, opts Options, logger *slog.Logger) *Frankfurter {
	return &Frankfurter{httpProvider: newHTTPProvider(FrankfurterName, baseURL, opts, logger)}
}

func (p *Frankfurter) FetchRates(ctx context.Context, base string, quotes []string) ([]domain.RateRecord, error) {
	var body frankfurterResponse
	query := map[string]string{"from": base, "to": strings.Join(quotes, ",")}
	if err := p.get(ctx, "/latest", nil, query, &body); err != nil {
		return nil, err
	}
	if body.Base != base {
		return nil, fmt.Errorf("%s: asked for %s, got %s", p.name, base, body.Base)
	}
	observedAt, err := time.Parse(time.DateOnly, body.Date)
	if err != nil {
		observedAt = time.Now().UTC()
	}
	return p.toRecords(base, quotes, body.Rates, observedAt), nil
}
