package rateproviders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenERAPIName is the registry name of the open.er-api.com client.
const OpenERAPIName = "open_er_api"

type openERAPIResponse struct {
	Result             string                     `json:"result"`
	ErrorType          string                     `json:"error-type"`
	BaseCode           string                     `json:"base_code"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	Rates              map[string]decimal.Decimal `json:"rates"`
}

// OpenERAPI reads the keyless open access endpoint, which covers XOF and XAF.
type OpenERAPI struct {
	httpProvider
}

func NewOpenERAPI(baseURL string, opts Options, logger *slog.Logger) *OpenERAPI {
	return &OpenERAPI{httpProvider: newHTTPProvider(OpenERAPIName, baseURL, opts, logger)}
}

func (p *OpenERAPI) FetchRates(ctx context.Context, base string, quotes []string) ([]domain.RateRecord, error) {
	var body openERAPIResponse
	if err := p.get(ctx, "/v6/latest/{base}", map[string]string{"base": base}, nil, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%s: result %q (%s)", p.name, body.Result, body.ErrorType)
	}
	if body.BaseCode != base {
		return nil, fmt.Errorf("%s: asked for %s, got %s", p.name, base, body.BaseCode)
	}
	return p.toRecords(base, quotes, body.Rates, time.Unix(body.TimeLastUpdateUnix, 0).UTC()), nil
}
