package services

import (
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/config"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/metrics"
)

// Dependencies are the outbound adapters the services are wired to.
type Dependencies struct {
	Providers  []gateways.RateProvider
	CacheStore gateways.RateCacheStore
	Confirmer  gateways.SettlementConfirmer
	Metrics    *metrics.Metrics
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies, opts ...Option) *portssvc.ServiceContainer {
	opts = append([]Option{WithMetrics(deps.Metrics)}, opts...)
	container := &portssvc.ServiceContainer{}

	synthetic := NewSyntheticRateGenerator(cfg.SyntheticSeed, cfg.SyntheticJitterPct)
	adapter := NewRateSourceAdapter(deps.Providers, synthetic, RateSourceConfig{
		DefaultProvider: cfg.RateProvider,
		Timeout:         cfg.RateProviderTimeout,
	}, opts...)

	rateCache := NewRateCacheService(deps.CacheStore, adapter, repos.RateRepo, cfg.RateFreshnessWindow, opts...)
	alerts := NewAlertService(repos.AlertRepo, opts...)
	// The alert registry watches every real rate the cache fetches.
	rateCache.AddObserver(alerts)

	quotes := NewQuoteService(rateCache, repos.CurrencyRepo, repos.QuoteRepo, cfg.QuoteValidityWindow, opts...)

	container.Rates = rateCache
	container.History = NewHistoryService(repos.RateRepo, opts...)
	container.Quotes = quotes
	container.Exchange = NewExchangeService(quotes, repos.QuoteRepo, repos.AccountRepo, repos.ExchangeRepo, ExchangeConfig{
		SlippageTolerance:    cfg.SlippageTolerance,
		MaxSlippageTolerance: cfg.MaxSlippageTolerance,
	}, opts...)
	container.Completion = NewCompletionService(repos.ExchangeRepo, deps.Confirmer, CompletionConfig{
		MinAge:    cfg.CompletionMinAge,
		BatchSize: cfg.CompletionBatchSize,
	}, opts...)
	container.Alerts = alerts
	container.Reference = NewReferenceService(repos.CurrencyRepo, repos.AccountRepo, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExchangeSvcFacade    = (*exchangeService)(nil)
	_ portssvc.CompletionSvc        = (*completionService)(nil)
	_ portssvc.RateHistorySvc       = (*historyService)(nil)
	_ portssvc.ReferenceDataSvc     = (*referenceService)(nil)
	_ portssvc.QuoteSvc             = (*QuoteService)(nil)
	_ portssvc.QuoteHousekeepingSvc = (*QuoteService)(nil)
	_ portssvc.RateAlertSvcFacade   = (*AlertService)(nil)
)
