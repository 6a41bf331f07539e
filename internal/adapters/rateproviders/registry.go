package rateproviders

import (
	"log/slog"

	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/config"
)

// FromConfig builds the enabled providers in the configured fallback order.
// Unknown or misconfigured providers are skipped with a warning; with none left
// every rate is synthetic.
func FromConfig(cfg *config.Config, logger *slog.Logger) []gateways.RateProvider {
	opts := Options{Timeout: cfg.RateProviderTimeout}
	var providers []gateways.RateProvider
	for _, name := range cfg.RateProviders {
		switch name {
		case OpenERAPIName:
			providers = append(providers, NewOpenERAPI(cfg.OpenERAPIURL, opts, logger))
		case FrankfurterName:
			providers = append(providers, NewFrankfurter(cfg.FrankfurterURL, opts, logger))
		case ExchangeRateAPIName:
			p, err := NewExchangeRateAPI(cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, opts, logger)
			if err != nil {
				logger.Warn("Skipping rate provider", slog.String("provider", name), slog.String("error", err.Error()))
				continue
			}
			providers = append(providers, p)
		default:
			logger.Warn("Unknown rate provider in RATE_PROVIDERS, skipping", slog.String("provider", name))
		}
	}
	if len(providers) == 0 {
		logger.Warn("No usable rate provider configured, serving synthetic rates only",
			slog.Any("rate_providers", cfg.RateProviders))
	}
	return providers
}
