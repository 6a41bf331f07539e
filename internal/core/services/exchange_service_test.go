package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/core/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/config"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUser = "user-1"

type ExchangeServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *testClock
	store     *memory.Store
	provider  *stubProvider
	confirmer *MockSettlementConfirmer
	container *portssvc.ServiceContainer
}

func testConfig() *config.Config {
	return &config.Config{
		RateProvider:         "stub",
		RateProviderTimeout:  time.Second,
		RateFreshnessWindow:  30 * time.Second,
		QuoteValidityWindow:  2 * time.Minute,
		SlippageTolerance:    decimal.RequireFromString("0.01"),
		MaxSlippageTolerance: decimal.RequireFromString("0.05"),
		SyntheticJitterPct:   decimal.RequireFromString("0.02"),
		SyntheticSeed:        42,
		CompletionMinAge:     0,
		CompletionBatchSize:  10,
	}
}

func (s *ExchangeServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = newTestClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	s.store = memory.NewStore()
	s.store.PutAccount(domain.AccountBalance{AccountRef: "bank-eur", UserID: testUser, Kind: domain.Bank, CurrencyCode: "EUR", Balance: dec("100")})
	s.store.PutAccount(domain.AccountBalance{AccountRef: "mm-xof", UserID: testUser, Kind: domain.MobileMoney, CurrencyCode: "XOF", Balance: dec("10000")})
	s.store.PutAccount(domain.AccountBalance{AccountRef: "other-eur", UserID: "user-2", Kind: domain.Bank, CurrencyCode: "EUR", Balance: dec("500")})

	s.provider = newStubProvider("stub", map[string]string{
		"EUR/XOF": "656.12",
		"XOF/EUR": "0.00152449",
	})
	s.confirmer = new(MockSettlementConfirmer)
	s.build(nil)
}

func (s *ExchangeServiceTestSuite) build(confirmer gateways.SettlementConfirmer) {
	s.container = services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(s.store), services.Dependencies{
		Providers:  []gateways.RateProvider{s.provider},
		CacheStore: memory.NewRateCacheStore(),
		Confirmer:  confirmer,
	}, services.WithClock(s.clock.Now))
}

func (s *ExchangeServiceTestSuite) balance(ref string) decimal.Decimal {
	acc, err := s.store.FindAccountByRef(s.ctx, ref)
	s.Require().NoError(err)
	return acc.Balance
}

// quoted issues a quote and returns an execute request bound to it.
func (s *ExchangeServiceTestSuite) quoted(source, dest, from, to, amount string) dto.ExecuteExchangeRequest {
	quote, err := s.container.Exchange.CalculateExchange(s.ctx, dto.CalculateExchangeRequest{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       dec(amount),
	})
	s.Require().NoError(err)
	return dto.ExecuteExchangeRequest{
		QuoteID:          quote.QuoteID,
		SourceAccountRef: source,
		DestAccountRef:   dest,
		FromCurrency:     from,
		ToCurrency:       to,
		Amount:           dec(amount),
		AcceptedRate:     quote.BaseRate,
	}
}

func (s *ExchangeServiceTestSuite) eurToXOF(amount string) dto.ExecuteExchangeRequest {
	return s.quoted("bank-eur", "mm-xof", "EUR", "XOF", amount)
}

// moveRate lets the cached rate go stale and changes what the provider answers.
func (s *ExchangeServiceTestSuite) moveRate(pair, rate string) {
	s.clock.Advance(time.Minute)
	s.provider.SetRate(pair, rate)
}

func (s *ExchangeServiceTestSuite) quoteConsumed(quoteID string) bool {
	q, err := s.store.FindQuoteByID(s.ctx, quoteID)
	s.Require().NoError(err)
	return q.IsConsumed()
}

func (s *ExchangeServiceTestSuite) TestCalculateExchange_EURToXOF() {
	quote, err := s.container.Exchange.CalculateExchange(s.ctx, dto.CalculateExchangeRequest{
		FromCurrency:        "eur",
		ToCurrency:          "XOF",
		Amount:              dec("10"),
		IncludeFeeBreakdown: true,
	})

	s.Require().NoError(err)
	s.Equal("656.12", quote.BaseRate.String())
	s.Equal("646.2782", quote.EffectiveRate().String())
	s.Equal("6462", quote.ToAmount.String())
	s.Equal("0.15", quote.FeeTotal.String())
	s.True(quote.EffectiveRate().LessThanOrEqual(quote.BaseRate))
	s.Equal(s.clock.Now().Add(2*time.Minute), quote.ExpiresAt)
	s.Require().NotNil(quote.Breakdown)
	s.Equal("0.05", quote.Breakdown.SpreadAmount.String())
	s.Equal("0.1", quote.Breakdown.FeeAmount.String())
	s.True(quote.Breakdown.SpreadAmount.Add(quote.Breakdown.FeeAmount).Equal(quote.FeeTotal))

	stored, err := s.store.FindQuoteByID(s.ctx, quote.QuoteID)
	s.Require().NoError(err)
	s.False(stored.IsConsumed())
	s.Equal("6462", stored.ToAmount.String())
}

func (s *ExchangeServiceTestSuite) TestCalculateExchange_NeverPaysOutAboveTheEffectiveRate() {
	quote, err := s.container.Exchange.CalculateExchange(s.ctx, dto.CalculateExchangeRequest{
		FromCurrency: "XOF",
		ToCurrency:   "EUR",
		Amount:       dec("6000"),
	})
	s.Require().NoError(err)
	// 6000 * 0.00152449 * 0.985 = 9.0097359
	s.Equal("9", quote.ToAmount.String())
	s.True(quote.ToAmount.LessThanOrEqual(quote.FromAmount.Mul(quote.EffectiveRate())))
}

func (s *ExchangeServiceTestSuite) TestCalculateExchange_Validation() {
	tests := []struct {
		name string
		req  dto.CalculateExchangeRequest
	}{
		{name: "same currency", req: dto.CalculateExchangeRequest{FromCurrency: "EUR", ToCurrency: "EUR", Amount: dec("10")}},
		{name: "zero amount", req: dto.CalculateExchangeRequest{FromCurrency: "EUR", ToCurrency: "XOF", Amount: decimal.Zero}},
		{name: "unsupported currency", req: dto.CalculateExchangeRequest{FromCurrency: "EUR", ToCurrency: "ABC", Amount: dec("10")}},
		{name: "bad code", req: dto.CalculateExchangeRequest{FromCurrency: "EU", ToCurrency: "XOF", Amount: dec("10")}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.container.Exchange.CalculateExchange(s.ctx, tt.req)
			s.True(errors.Is(err, apperrors.ErrValidation), "got %v", err)
		})
	}
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_SettlesAndCompletes() {
	req := s.eurToXOF("10")
	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)

	s.Require().NoError(err)
	s.Equal(domain.StatusProcessing, order.Status)
	s.Equal(req.QuoteID, order.QuoteID)
	s.True(s.quoteConsumed(req.QuoteID))
	s.Equal("6462", order.ToAmount.String())
	s.Equal("656.12", order.ExecutedRate.String())
	s.Equal("0.15", order.FeeTotal.String())
	s.Regexp(`^FX-20260301-[A-Z0-9]{8}$`, order.Reference)
	s.True(s.balance("bank-eur").Equal(dec("90")))
	s.True(s.balance("mm-xof").Equal(dec("16462")))
	s.Len(s.store.LedgerEntries(order.OrderID), 2)

	s.clock.Advance(time.Minute)
	completed, err := s.container.Completion.CompleteOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, completed.Status)
	s.Require().NotNil(completed.CompletedAt)
	firstCompletedAt := *completed.CompletedAt

	s.clock.Advance(time.Minute)
	again, err := s.container.Completion.CompleteOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, again.Status)
	s.Equal(firstCompletedAt, *again.CompletedAt)
	s.True(s.balance("mm-xof").Equal(dec("16462")))

	events := s.store.OutboxEvents()
	s.Require().Len(events, 1)
	s.Equal(domain.EventExchangeCompleted, events[0].EventType)
	s.Equal(order.OrderID, events[0].AggregateID)
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_SlippageRejected() {
	req := s.eurToXOF("10")
	s.moveRate("EUR/XOF", "670")

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrSlippageExceeded))
	var slip *domain.SlippageError
	s.Require().True(errors.As(err, &slip))
	s.Equal("656.12", slip.AcceptedRate.String())
	s.Equal("670", slip.FreshRate.String())
	s.Equal("0.01", slip.Tolerance.String())
	s.True(slip.Deviation.GreaterThan(slip.Tolerance))
	s.Require().NotNil(slip.FreshQuote)
	s.Equal("670", slip.FreshQuote.BaseRate.String())

	s.Require().NotNil(order)
	s.Equal(domain.StatusRejectedSlippage, order.Status)
	s.True(s.balance("bank-eur").Equal(dec("100")))
	s.True(s.balance("mm-xof").Equal(dec("10000")))
	s.Empty(s.store.LedgerEntries(order.OrderID))

	stored, err := s.container.Exchange.GetOrder(s.ctx, testUser, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusRejectedSlippage, stored.Status)
	events := s.store.OutboxEvents()
	s.Require().Len(events, 1)
	s.Equal(domain.EventExchangeRejected, events[0].EventType)
	s.False(s.quoteConsumed(req.QuoteID))

	// The fresh quote carried by the rejection can be executed as is.
	retry := req
	retry.QuoteID = slip.FreshQuote.QuoteID
	retry.AcceptedRate = slip.FreshQuote.BaseRate
	settled, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, retry)
	s.Require().NoError(err)
	s.Equal("670", settled.ExecutedRate.String())
	s.Equal("6599", settled.ToAmount.String())
	s.True(s.balance("bank-eur").Equal(dec("90")))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_WithinToleranceUsesFreshRate() {
	req := s.eurToXOF("10")
	s.moveRate("EUR/XOF", "660")

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)

	s.Require().NoError(err)
	s.Equal("656.12", order.AcceptedRate.String())
	s.Equal("660", order.ExecutedRate.String())
	s.Equal("6501", order.ToAmount.String())
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_ToleranceOverride() {
	req := s.eurToXOF("10")
	s.moveRate("EUR/XOF", "670")
	wide := dec("0.03")
	req.SlippageTolerance = &wide

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusProcessing, order.Status)

	tooWide := dec("0.2")
	req.SlippageTolerance = &tooWide
	_, err = s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_InsufficientFunds() {
	req := s.eurToXOF("150")
	calls := s.provider.calls.Load()
	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)

	s.True(errors.Is(err, apperrors.ErrInsufficientFunds))
	s.Require().NotNil(order)
	s.Equal(domain.StatusRejectedInsufficientFunds, order.Status)
	s.True(s.balance("bank-eur").Equal(dec("100")))
	s.Equal(calls, s.provider.calls.Load())
	s.False(s.quoteConsumed(req.QuoteID))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_QuoteIsSingleUse() {
	req := s.eurToXOF("10")
	_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
	s.Require().NoError(err)

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
	s.Nil(order)
	s.True(errors.Is(err, apperrors.ErrQuoteConsumed))
	s.True(errors.Is(err, apperrors.ErrDuplicate))
	s.True(s.balance("bank-eur").Equal(dec("90")))
	s.True(s.balance("mm-xof").Equal(dec("16462")))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_ExpiredQuoteRejected() {
	req := s.eurToXOF("10")
	s.clock.Advance(2*time.Minute + time.Second)

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
	s.Nil(order)
	s.True(errors.Is(err, apperrors.ErrQuoteExpired))
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.True(s.balance("bank-eur").Equal(dec("100")))
	s.False(s.quoteConsumed(req.QuoteID))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_RequestMustMatchQuote() {
	tests := []struct {
		name    string
		mutate  func(req *dto.ExecuteExchangeRequest)
		wantErr error
	}{
		{name: "missing quote id", mutate: func(req *dto.ExecuteExchangeRequest) { req.QuoteID = "" }, wantErr: apperrors.ErrValidation},
		{name: "unknown quote", mutate: func(req *dto.ExecuteExchangeRequest) { req.QuoteID = "no-such-quote" }, wantErr: apperrors.ErrNotFound},
		{name: "different amount", mutate: func(req *dto.ExecuteExchangeRequest) { req.Amount = dec("11") }, wantErr: apperrors.ErrValidation},
		{name: "different accepted rate", mutate: func(req *dto.ExecuteExchangeRequest) { req.AcceptedRate = dec("650") }, wantErr: apperrors.ErrValidation},
		{name: "negative accepted rate", mutate: func(req *dto.ExecuteExchangeRequest) { req.AcceptedRate = dec("-1") }, wantErr: apperrors.ErrValidation},
		{name: "different pair", mutate: func(req *dto.ExecuteExchangeRequest) {
			req.FromCurrency, req.ToCurrency = "XOF", "EUR"
			req.SourceAccountRef, req.DestAccountRef = "mm-xof", "bank-eur"
		}, wantErr: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.eurToXOF("10")
			tt.mutate(&req)
			_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
			s.True(errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	s.Run("accepted rate may be omitted", func() {
		req := s.eurToXOF("10")
		req.AcceptedRate = decimal.Zero
		order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
		s.Require().NoError(err)
		s.Equal("656.12", order.AcceptedRate.String())
	})
	s.True(s.balance("bank-eur").Equal(dec("90")))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_ConcurrentReuseOfOneQuoteSettlesOnce() {
	req := s.eurToXOF("10")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, apperrors.ErrQuoteConsumed), "got %v", err)
	}
	s.Equal(1, succeeded)
	s.True(s.balance("bank-eur").Equal(dec("90")))
	s.True(s.balance("mm-xof").Equal(dec("16462")))
}

func (s *ExchangeServiceTestSuite) TestPurgeExpiredQuotes_KeepsConsumed() {
	unused := s.eurToXOF("5")
	used := s.eurToXOF("10")
	_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, used)
	s.Require().NoError(err)

	n, err := s.container.Quotes.PurgeExpiredQuotes(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)

	s.clock.Advance(5 * time.Minute)
	n, err = s.container.Quotes.PurgeExpiredQuotes(s.ctx)
	s.Require().NoError(err)
	// The unused quote and the re-quote taken while executing.
	s.Equal(2, n)

	_, err = s.store.FindQuoteByID(s.ctx, unused.QuoteID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
	s.True(s.quoteConsumed(used.QuoteID))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_ConcurrentDebitsOnlyOneSettles() {
	reqs := []dto.ExecuteExchangeRequest{
		s.quoted("mm-xof", "bank-eur", "XOF", "EUR", "6000"),
		s.quoted("mm-xof", "bank-eur", "XOF", "EUR", "6000"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reqs))
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.container.Exchange.ExecuteExchange(s.ctx, testUser, reqs[i])
		}(i)
	}
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			insufficient++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, insufficient)
	s.True(s.balance("mm-xof").Equal(dec("4000")))
	s.True(s.balance("bank-eur").Equal(dec("109")))
}

func (s *ExchangeServiceTestSuite) TestExecuteExchange_AccountChecks() {
	s.Run("source owned by another user", func() {
		req := s.eurToXOF("10")
		req.SourceAccountRef = "other-eur"
		_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
		s.True(errors.Is(err, apperrors.ErrForbidden))
	})
	s.Run("unknown source", func() {
		req := s.eurToXOF("10")
		req.SourceAccountRef = "missing"
		_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
		s.True(errors.Is(err, apperrors.ErrNotFound))
	})
	s.Run("destination currency mismatch", func() {
		req := s.eurToXOF("10")
		req.DestAccountRef = "other-eur"
		_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, req)
		s.True(errors.Is(err, apperrors.ErrValidation))
	})
	s.True(s.balance("bank-eur").Equal(dec("100")))
}

func (s *ExchangeServiceTestSuite) TestCompleteOrder_ConfirmerRejectsReverses() {
	s.build(s.confirmer)
	s.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(apperrors.ErrSettlementRejected).Once()

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, s.eurToXOF("10"))
	s.Require().NoError(err)

	failed, err := s.container.Completion.CompleteOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, failed.Status)
	s.NotEmpty(failed.FailureReason)
	s.True(s.balance("bank-eur").Equal(dec("100")))
	s.True(s.balance("mm-xof").Equal(dec("10000")))
	s.confirmer.AssertExpectations(s.T())
}

func (s *ExchangeServiceTestSuite) TestCompleteOrder_UnreversibleFailureFlagsReconciliation() {
	s.build(s.confirmer)
	s.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(apperrors.ErrSettlementRejected).Once()

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, s.eurToXOF("10"))
	s.Require().NoError(err)
	// The credited XOF has already left the destination account.
	s.store.PutAccount(domain.AccountBalance{AccountRef: "mm-xof", UserID: testUser, Kind: domain.MobileMoney, CurrencyCode: "XOF", Balance: dec("100")})

	failed, err := s.container.Completion.CompleteOrder(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, failed.Status)
	s.Contains(failed.FailureReason, "reconciliation")
	s.True(s.balance("bank-eur").Equal(dec("90")))
	s.True(s.balance("mm-xof").Equal(dec("100")))
	s.Len(s.store.LedgerEntries(order.OrderID), 2)

	events := s.store.OutboxEvents()
	s.Require().NotEmpty(events)
	s.Equal(domain.EventExchangeReconciliationRequired, events[len(events)-1].EventType)

	moved, err := s.container.Completion.CompleteDueOrders(s.ctx)
	s.Require().NoError(err)
	s.Zero(moved)
	s.confirmer.AssertExpectations(s.T())
}

func (s *ExchangeServiceTestSuite) TestCompleteDueOrders_RetriesTransientFailures() {
	s.build(s.confirmer)
	s.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(errors.New("counterparty timeout")).Once()
	s.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, s.eurToXOF("10"))
	s.Require().NoError(err)
	s.clock.Advance(time.Second)

	moved, err := s.container.Completion.CompleteDueOrders(s.ctx)
	s.Error(err)
	s.Zero(moved)

	moved, err = s.container.Completion.CompleteDueOrders(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, moved)

	stored, err := s.container.Exchange.GetOrder(s.ctx, testUser, order.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, stored.Status)
	s.confirmer.AssertExpectations(s.T())
}

func (s *ExchangeServiceTestSuite) TestGetOrder_OtherUserIsNotFound() {
	order, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, s.eurToXOF("10"))
	s.Require().NoError(err)

	_, err = s.container.Exchange.GetOrder(s.ctx, "user-2", order.OrderID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *ExchangeServiceTestSuite) TestListOrders_Pages() {
	for i := 0; i < 3; i++ {
		_, err := s.container.Exchange.ExecuteExchange(s.ctx, testUser, s.eurToXOF("1"))
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	page, err := s.container.Exchange.ListOrders(s.ctx, testUser, dto.ListExchangeOrdersParams{Limit: 2})
	s.Require().NoError(err)
	s.Len(page.Orders, 2)
	s.Require().NotNil(page.NextToken)

	next, err := s.container.Exchange.ListOrders(s.ctx, testUser, dto.ListExchangeOrdersParams{Limit: 2, NextToken: *page.NextToken})
	s.Require().NoError(err)
	s.Len(next.Orders, 1)
	s.Nil(next.NextToken)
	s.True(next.Orders[0].CreatedAt.Before(page.Orders[1].CreatedAt))

	_, err = s.container.Exchange.ListOrders(s.ctx, testUser, dto.ListExchangeOrdersParams{NextToken: "%%%"})
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
