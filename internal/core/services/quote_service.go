package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/SscSPs/fx_exchange_engine/internal/utils"
	"github.com/google/uuid"
)

// QuoteService turns a cached rate and the pricing table into a bindable quote.
type QuoteService struct {
	BaseService
	rates      portssvc.RateReaderSvc
	currencies portsrepo.CurrencyReader
	quoteRepo  portsrepo.QuoteRepositoryFacade
	validity   time.Duration
}

// NewQuoteService creates the quote calculator. validity is how long a quote stays
// bindable; every issued quote is saved to quoteRepo so the executor can consume it.
func NewQuoteService(rates portssvc.RateReaderSvc, currencies portsrepo.CurrencyReader, quoteRepo portsrepo.QuoteRepositoryFacade, validity time.Duration, opts ...Option) *QuoteService {
	if validity <= 0 {
		validity = 2 * time.Minute
	}
	return &QuoteService{
		BaseService: newBaseService(opts),
		rates:       rates,
		currencies:  currencies,
		quoteRepo:   quoteRepo,
		validity:    validity,
	}
}

// CalculateExchange quotes req.Amount of FromCurrency into ToCurrency.
// The customer receives baseRate * (1 - spread - fee), truncated to the
// to-currency's minor unit; feeTotal is charged in the from-currency, so the
// quote never pays out more than the market rate.
func (s *QuoteService) CalculateExchange(ctx context.Context, req dto.CalculateExchangeRequest) (*domain.Quote, error) {
	from := domain.NormalizeCode(req.FromCurrency)
	to := domain.NormalizeCode(req.ToCurrency)
	if !domain.IsValidCode(from) || !domain.IsValidCode(to) {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	fromCurrency, err := s.lookupCurrency(ctx, from, "from")
	if err != nil {
		return nil, err
	}
	toCurrency, err := s.lookupCurrency(ctx, to, "to")
	if err != nil {
		return nil, err
	}

	records, err := s.rates.GetRates(ctx, from, []string{to}, "")
	if err != nil {
		s.LogError(ctx, err, "No rate available for quote", slog.String("pair", from+"/"+to))
		if errors.Is(err, apperrors.ErrRateUnavailable) || errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateUnavailable, err)
	}
	record := records[0]

	pricing := PriceFor(from, to)
	amount := utils.RoundToCurrency(req.Amount, fromCurrency)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount is below the smallest unit of %s", apperrors.ErrValidation, from)
	}
	issuedAt := s.Now()

	quote := &domain.Quote{
		QuoteID:        uuid.NewString(),
		FromCurrency:   from,
		ToCurrency:     to,
		FromAmount:     amount,
		BaseRate:       record.Rate,
		SpreadPct:      pricing.SpreadPct,
		FeePct:         pricing.FeePct,
		FeeTotal:       utils.RoundToCurrency(amount.Mul(pricing.Markup()), fromCurrency),
		RateSource:     record.Source,
		RateObservedAt: record.ObservedAt,
		IssuedAt:       issuedAt,
		ExpiresAt:      issuedAt.Add(s.validity),
	}
	quote.ToAmount = utils.RoundDownToCurrency(amount.Mul(quote.EffectiveRate()), toCurrency)

	if req.IncludeFeeBreakdown {
		spread := utils.RoundToCurrency(amount.Mul(pricing.SpreadPct), fromCurrency)
		quote.Breakdown = &domain.FeeBreakdown{
			SpreadAmount: spread,
			FeeAmount:    quote.FeeTotal.Sub(spread),
		}
	}

	if err := s.quoteRepo.SaveQuote(ctx, *quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.Metrics().IncQuoteIssued(from + "/" + to)
	s.LogDebug(ctx, "Quote issued",
		slog.String("quote_id", quote.QuoteID),
		slog.String("pair", from+"/"+to),
		slog.String("base_rate", quote.BaseRate.String()),
		slog.String("source", quote.RateSource))
	return quote, nil
}

// PurgeExpiredQuotes removes unconsumed quotes whose validity ended a full
// window ago.
func (s *QuoteService) PurgeExpiredQuotes(ctx context.Context) (int, error) {
	n, err := s.quoteRepo.DeleteExpiredQuotes(ctx, s.Now().Add(-s.validity))
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired quotes: %w", err)
	}
	return n, nil
}

// lookupCurrency resolves precision. Without a currency repository every valid
// code is accepted with the default precision.
func (s *QuoteService) lookupCurrency(ctx context.Context, code, side string) (domain.Currency, error) {
	if s.currencies == nil {
		return domain.Currency{CurrencyCode: code, Precision: utils.DefaultPrecision}, nil
	}
	currency, err := s.currencies.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Currency{}, fmt.Errorf("%w: '%s' currency code '%s' is not supported", apperrors.ErrValidation, side, code)
		}
		return domain.Currency{}, fmt.Errorf("failed to validate '%s' currency '%s': %w", side, code, err)
	}
	return *currency, nil
}
