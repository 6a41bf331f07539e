package rateproviders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateAPIName is the registry name of the keyed exchangerate-api.com client.
const ExchangeRateAPIName = "exchangerate_api"

type exchangeRateAPIResponse struct {
	Result             string                     `json:"result"`
	ErrorType          string                     `json:"error-type"`
	BaseCode           string                     `json:"base_code"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	ConversionRates    map[string]decimal.Decimal `json:"conversion_rates"`
}

type ExchangeRateAPI struct {
	httpProvider
	apiKey string
}

func NewExchangeRateAPI(baseURL, apiKey string, opts Options, logger *slog.Logger) (*ExchangeRateAPI, error) {
	if apiKey == "" {
		return nil, errors.New("exchangerate_api requires an API key")
	}
	return &ExchangeRateAPI{
		httpProvider: newHTTPProvider(ExchangeRateAPIName, baseURL, opts, logger),
		apiKey:       apiKey,
	}, nil
}

func (p *ExchangeRateAPI) FetchRates(ctx context.Context, base string, quotes []string) ([]domain.RateRecord, error) {
	var body exchangeRateAPIResponse
	params := map[string]string{"key": p.apiKey, "base": base}
	if err := p.get(ctx, "/v6/{key}/latest/{base}", params, nil, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%s: result %q (%s)", p.name, body.Result, body.ErrorType)
	}
	return p.toRecords(base, quotes, body.ConversionRates, time.Unix(body.TimeLastUpdateUnix, 0).UTC()), nil
}
