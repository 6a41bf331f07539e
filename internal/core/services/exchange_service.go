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
	"github.com/SscSPs/fx_exchange_engine/internal/utils/accounting"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// ExchangeConfig carries the slippage policy.
type ExchangeConfig struct {
	SlippageTolerance    decimal.Decimal
	MaxSlippageTolerance decimal.Decimal
}

// exchangeService executes exchanges and reads orders. Quoting is delegated to
// the quote calculator it also uses for the fresh re-quote.
type exchangeService struct {
	BaseService
	quotes       portssvc.QuoteSvc
	quoteRepo    portsrepo.QuoteReader
	accountRepo  portsrepo.AccountReader
	exchangeRepo portsrepo.ExchangeRepositoryFacade
	cfg          ExchangeConfig
}

// NewExchangeService creates the exchange executor.
func NewExchangeService(quotes portssvc.QuoteSvc, quoteRepo portsrepo.QuoteReader, accountRepo portsrepo.AccountReader, exchangeRepo portsrepo.ExchangeRepositoryFacade, cfg ExchangeConfig, opts ...Option) portssvc.ExchangeSvcFacade {
	if !cfg.MaxSlippageTolerance.IsPositive() {
		cfg.MaxSlippageTolerance = decimal.RequireFromString("0.05")
	}
	if cfg.SlippageTolerance.IsNegative() || cfg.SlippageTolerance.IsZero() {
		cfg.SlippageTolerance = decimal.RequireFromString("0.01")
	}
	return &exchangeService{
		BaseService:  newBaseService(opts),
		quotes:       quotes,
		quoteRepo:    quoteRepo,
		accountRepo:  accountRepo,
		exchangeRepo: exchangeRepo,
		cfg:          cfg,
	}
}

// CalculateExchange delegates to the quote calculator.
func (s *exchangeService) CalculateExchange(ctx context.Context, req dto.CalculateExchangeRequest) (*domain.Quote, error) {
	return s.quotes.CalculateExchange(ctx, req)
}

// ExecuteExchange binds the accepted quote, then runs the executor's gates in
// order: balance check, fresh re-quote with slippage check, atomic settlement
// that also consumes the quote. The returned order is in processing on success;
// completion happens asynchronously.
func (s *exchangeService) ExecuteExchange(ctx context.Context, userID string, req dto.ExecuteExchangeRequest) (*domain.ExchangeOrder, error) {
	from := domain.NormalizeCode(req.FromCurrency)
	to := domain.NormalizeCode(req.ToCurrency)
	if err := validateExecuteRequest(userID, from, to, req); err != nil {
		return nil, err
	}
	tolerance, err := s.toleranceFor(req.SlippageTolerance)
	if err != nil {
		return nil, err
	}
	accepted, err := s.bindQuote(ctx, from, to, req)
	if err != nil {
		return nil, err
	}
	acceptedRate := accepted.BaseRate

	source, dest, err := s.loadAccounts(ctx, userID, from, to, req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	reference, err := utils.GenerateOrderReference(now)
	if err != nil {
		return nil, err
	}
	order := domain.ExchangeOrder{
		OrderID:          uuid.NewString(),
		UserID:           userID,
		QuoteID:          accepted.QuoteID,
		SourceAccountRef: source.AccountRef,
		DestAccountRef:   dest.AccountRef,
		FromCurrency:     from,
		ToCurrency:       to,
		FromAmount:       req.Amount,
		ToAmount:         decimal.Zero,
		AcceptedRate:     acceptedRate,
		FeeTotal:         decimal.Zero,
		Status:           domain.StatusPending,
		Reference:        reference,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	logger := s.GetLogger(ctx).With(
		slog.String("order_id", order.OrderID),
		slog.String("reference", order.Reference),
		slog.String("quote_id", order.QuoteID),
		slog.String("pair", from+"/"+to))

	// 1. Balance check.
	if !source.Covers(req.Amount) {
		logger.Info("Exchange rejected: insufficient funds",
			slog.String("balance", source.Balance.String()),
			slog.String("amount", req.Amount.String()))
		return s.reject(ctx, order, domain.StatusRejectedInsufficientFunds, "source balance does not cover the amount",
			fmt.Errorf("%w: account %s holds %s %s", apperrors.ErrInsufficientFunds, source.AccountRef, source.Balance, from))
	}

	// 2. Re-quote and slippage check.
	fresh, err := s.quotes.CalculateExchange(ctx, dto.CalculateExchangeRequest{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       req.Amount,
	})
	if err != nil {
		s.LogError(ctx, err, "Re-quote failed during execution", slog.String("order_id", order.OrderID))
		return nil, err
	}
	deviation := domain.RateDeviation(acceptedRate, fresh.BaseRate)
	if deviation.GreaterThan(tolerance) {
		logger.Info("Exchange rejected: slippage",
			slog.String("accepted_rate", acceptedRate.String()),
			slog.String("fresh_rate", fresh.BaseRate.String()),
			slog.String("deviation", deviation.String()))
		order.ExecutedRate = fresh.BaseRate
		return s.reject(ctx, order, domain.StatusRejectedSlippage, "rate moved beyond tolerance", &domain.SlippageError{
			AcceptedRate: acceptedRate,
			FreshRate:    fresh.BaseRate,
			Deviation:    deviation,
			Tolerance:    tolerance,
			FreshQuote:   fresh,
		})
	}

	// 3. Atomic settlement at the fresh quote.
	order.FromAmount = fresh.FromAmount
	order.ToAmount = fresh.ToAmount
	order.ExecutedRate = fresh.BaseRate
	order.FeeTotal = fresh.FeeTotal
	if !order.ToAmount.IsPositive() {
		return nil, fmt.Errorf("%w: amount converts to zero %s", apperrors.ErrValidation, to)
	}
	settled := order
	if err := settled.TransitionTo(domain.StatusProcessing, s.Now()); err != nil {
		return nil, err
	}
	entries := accounting.SettlementEntries(settled, settled.UpdatedAt)

	if err := s.exchangeRepo.SettleExchange(ctx, settled, entries); err != nil {
		if errors.Is(err, apperrors.ErrQuoteConsumed) {
			logger.Info("Exchange refused: quote consumed by a concurrent execution")
			return nil, err
		}
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Info("Exchange rejected: insufficient funds at settlement")
			return s.reject(ctx, order, domain.StatusRejectedInsufficientFunds, "source balance no longer covers the amount", err)
		}
		logger.Error("Settlement failed and was rolled back; manual reconciliation may be required",
			slog.String("error", err.Error()))
		return s.reject(ctx, order, domain.StatusFailed, "settlement failed: "+err.Error(),
			fmt.Errorf("%w: %v", apperrors.ErrSettlementFailure, err))
	}

	s.Metrics().ObserveExchange(string(settled.Status), from, settled.FromAmount.InexactFloat64())
	logger.Info("Exchange settled",
		slog.String("from_amount", settled.FromAmount.String()),
		slog.String("to_amount", settled.ToAmount.String()),
		slog.String("executed_rate", settled.ExecutedRate.String()))
	return &settled, nil
}

// bindQuote loads the quote the caller accepted and checks that it can still
// back this execution.
func (s *exchangeService) bindQuote(ctx context.Context, from, to string, req dto.ExecuteExchangeRequest) (*domain.Quote, error) {
	quote, err := s.quoteRepo.FindQuoteByID(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: quote '%s' not found", apperrors.ErrNotFound, req.QuoteID)
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	switch {
	case quote.IsConsumed():
		return nil, fmt.Errorf("%w: quote %s backs order %s", apperrors.ErrQuoteConsumed, quote.QuoteID, quote.ConsumedByOrderID)
	case quote.IsExpired(s.Now()):
		return nil, fmt.Errorf("%w: quote %s expired at %s", apperrors.ErrQuoteExpired, quote.QuoteID, quote.ExpiresAt.Format(time.RFC3339))
	case quote.FromCurrency != from || quote.ToCurrency != to:
		return nil, fmt.Errorf("%w: quote %s is for %s/%s, not %s/%s", apperrors.ErrValidation,
			quote.QuoteID, quote.FromCurrency, quote.ToCurrency, from, to)
	case !quote.FromAmount.Equal(req.Amount):
		return nil, fmt.Errorf("%w: amount %s differs from the quoted %s", apperrors.ErrValidation, req.Amount, quote.FromAmount)
	case !req.AcceptedRate.IsZero() && !req.AcceptedRate.Equal(quote.BaseRate):
		return nil, fmt.Errorf("%w: accepted rate %s does not match the quoted rate %s", apperrors.ErrValidation, req.AcceptedRate, quote.BaseRate)
	}
	return quote, nil
}

// reject records a terminal order that moved no money and returns it with cause.
// Persisting the record is best effort: cause is what the caller must see.
func (s *exchangeService) reject(ctx context.Context, order domain.ExchangeOrder, status domain.ExchangeStatus, reason string, cause error) (*domain.ExchangeOrder, error) {
	if err := order.TransitionTo(status, s.Now()); err != nil {
		return nil, err
	}
	order.FailureReason = reason

	eventType := domain.EventExchangeRejected
	if status == domain.StatusFailed {
		eventType = domain.EventExchangeFailed
	}
	event, err := newExchangeEvent(eventType, order, order.UpdatedAt)
	if err == nil {
		err = s.exchangeRepo.SaveTerminalOrder(ctx, order, event)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to record terminal exchange order",
			slog.String("order_id", order.OrderID),
			slog.String("status", string(status)))
	}

	s.Metrics().ObserveExchange(string(status), order.FromCurrency, 0)
	return &order, cause
}

func (s *exchangeService) toleranceFor(requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested == nil {
		return s.cfg.SlippageTolerance, nil
	}
	if requested.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: slippage tolerance cannot be negative", apperrors.ErrValidation)
	}
	if requested.GreaterThan(s.cfg.MaxSlippageTolerance) {
		return decimal.Zero, fmt.Errorf("%w: slippage tolerance %s exceeds the maximum of %s",
			apperrors.ErrValidation, requested, s.cfg.MaxSlippageTolerance)
	}
	return *requested, nil
}

// loadAccounts checks that both accounts exist, that the source belongs to
// userID and that the account currencies match the pair.
func (s *exchangeService) loadAccounts(ctx context.Context, userID, from, to string, req dto.ExecuteExchangeRequest) (*domain.AccountBalance, *domain.AccountBalance, error) {
	source, err := s.accountRepo.FindAccountByRef(ctx, req.SourceAccountRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: source account '%s' not found", apperrors.ErrNotFound, req.SourceAccountRef)
		}
		return nil, nil, fmt.Errorf("failed to load source account: %w", err)
	}
	if source.UserID != userID {
		s.LogInfo(ctx, "Exchange attempted from an account the user does not own",
			slog.String("user_id", userID), slog.String("account_ref", source.AccountRef))
		return nil, nil, fmt.Errorf("%w: source account does not belong to the user", apperrors.ErrForbidden)
	}
	if source.CurrencyCode != from {
		return nil, nil, fmt.Errorf("%w: source account holds %s, not %s", apperrors.ErrValidation, source.CurrencyCode, from)
	}

	dest, err := s.accountRepo.FindAccountByRef(ctx, req.DestAccountRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: destination account '%s' not found", apperrors.ErrNotFound, req.DestAccountRef)
		}
		return nil, nil, fmt.Errorf("failed to load destination account: %w", err)
	}
	if dest.CurrencyCode != to {
		return nil, nil, fmt.Errorf("%w: destination account holds %s, not %s", apperrors.ErrValidation, dest.CurrencyCode, to)
	}
	return source, dest, nil
}

func validateExecuteRequest(userID, from, to string, req dto.ExecuteExchangeRequest) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	case !domain.IsValidCode(from) || !domain.IsValidCode(to):
		return fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	case from == to:
		return fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	case !req.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	case req.QuoteID == "":
		return fmt.Errorf("%w: quote id is required", apperrors.ErrValidation)
	case req.AcceptedRate.IsNegative():
		return fmt.Errorf("%w: accepted rate cannot be negative", apperrors.ErrValidation)
	case req.SourceAccountRef == "" || req.DestAccountRef == "":
		return fmt.Errorf("%w: source and destination accounts are required", apperrors.ErrValidation)
	case req.SourceAccountRef == req.DestAccountRef:
		return fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	return nil
}

// GetOrder returns one of userID's orders. Orders of other users are reported as not found.
func (s *exchangeService) GetOrder(ctx context.Context, userID, orderID string) (*domain.ExchangeOrder, error) {
	order, err := s.exchangeRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange order: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NewNotFoundError("exchange order " + orderID + " not found")
	}
	return order, nil
}

// ListOrders pages through userID's orders, newest first.
func (s *exchangeService) ListOrders(ctx context.Context, userID string, params dto.ListExchangeOrdersParams) (*dto.ListExchangeOrdersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultOrderPageSize
	}
	if limit > maxOrderPageSize {
		limit = maxOrderPageSize
	}

	var after *portsrepo.OrderCursor
	if params.NextToken != "" {
		createdAt, orderID, err := pagination.DecodeOrderToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &portsrepo.OrderCursor{CreatedAt: createdAt, OrderID: orderID}
	}

	// One extra row tells whether another page exists.
	orders, err := s.exchangeRepo.ListOrdersByUser(ctx, userID, limit+1, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange orders: %w", err)
	}

	resp := &dto.ListExchangeOrdersResponse{Orders: make([]dto.ExchangeOrderResponse, 0, limit)}
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[len(orders)-1]
		token := pagination.EncodeOrderToken(last.CreatedAt, last.OrderID)
		resp.NextToken = &token
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, dto.ToExchangeOrderResponse(&orders[i]))
	}
	return resp, nil
}
