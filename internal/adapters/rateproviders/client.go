// Package rateproviders holds the HTTP clients of the external rate sources.
// Every client normalizes its payload into domain.RateRecord and is guarded by
// a circuit breaker so a failing source is skipped quickly.
package rateproviders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while a provider's breaker refuses calls.
var ErrCircuitOpen = errors.New("provider circuit open")

// Options tunes the transport shared by every provider.
type Options struct {
	Timeout          time.Duration
	FailureThreshold uint32        // consecutive failures that open the breaker
	OpenFor          time.Duration // how long the breaker stays open
	UserAgent        string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 3
	}
	if o.OpenFor <= 0 {
		o.OpenFor = 30 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "fx-exchange-engine"
	}
	return o
}

// httpProvider is the transport every provider client embeds.
type httpProvider struct {
	name    string
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func newHTTPProvider(name, baseURL string, opts Options, logger *slog.Logger) httpProvider {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("provider", name))

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// A caller that gave up says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Rate provider circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return httpProvider{name: name, client: client, breaker: breaker, logger: logger}
}

func (p *httpProvider) Name() string {
	return p.name
}

// get issues a GET through the breaker and decodes the JSON body into result.
func (p *httpProvider) get(ctx context.Context, path string, pathParams, query map[string]string, result any) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		req := p.client.R().SetContext(ctx).SetResult(result)
		if len(pathParams) > 0 {
			req.SetPathParams(pathParams)
		}
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		resp, err := req.Get(path)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", p.name, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%s returned status %d", p.name, resp.StatusCode())
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, p.name)
	}
	return err
}

// toRecords picks the requested quotes out of a provider's rate table.
func (p *httpProvider) toRecords(base string, quotes []string, rates map[string]decimal.Decimal, observedAt time.Time) []domain.RateRecord {
	records := make([]domain.RateRecord, 0, len(quotes))
	for _, q := range quotes {
		rate, ok := rates[q]
		if !ok {
			continue
		}
		records = append(records, domain.RateRecord{
			ID:            uuid.NewString(),
			BaseCurrency:  base,
			QuoteCurrency: q,
			Rate:          rate,
			ObservedAt:    observedAt,
			Source:        p.name,
		})
	}
	return records
}
