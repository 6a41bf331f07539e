package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/memory"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	now   time.Time
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.store.PutAccount(domain.AccountBalance{AccountRef: "mm-xof", UserID: "user-1", Kind: domain.MobileMoney, CurrencyCode: "XOF", Balance: decimal.NewFromInt(10000)})
	s.store.PutAccount(domain.AccountBalance{AccountRef: "bank-eur", UserID: "user-1", Kind: domain.Bank, CurrencyCode: "EUR", Balance: decimal.Zero})
}

func (s *StoreTestSuite) order(amount int64, createdAt time.Time) domain.ExchangeOrder {
	return domain.ExchangeOrder{
		OrderID:          uuid.NewString(),
		UserID:           "user-1",
		SourceAccountRef: "mm-xof",
		DestAccountRef:   "bank-eur",
		FromCurrency:     "XOF",
		ToCurrency:       "EUR",
		FromAmount:       decimal.NewFromInt(amount),
		ToAmount:         decimal.NewFromInt(amount).Div(decimal.NewFromInt(660)).Round(2),
		Status:           domain.StatusProcessing,
		Reference:        "FX-" + uuid.NewString()[:8],
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

func (s *StoreTestSuite) balance(ref string) decimal.Decimal {
	acc, err := s.store.FindAccountByRef(s.ctx, ref)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *StoreTestSuite) TestSettleExchange_AppliesEverything() {
	o := s.order(6000, s.now)
	err := s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))
	s.Require().NoError(err)

	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(4000)))
	s.True(s.balance("bank-eur").Equal(o.ToAmount))
	s.Len(s.store.LedgerEntries(o.OrderID), 2)

	stored, err := s.store.FindOrderByID(s.ctx, o.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusProcessing, stored.Status)
}

func (s *StoreTestSuite) TestSettleExchange_InsufficientFundsAppliesNothing() {
	o := s.order(12000, s.now)
	err := s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))

	s.True(errors.Is(err, apperrors.ErrInsufficientFunds))
	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(10000)))
	s.True(s.balance("bank-eur").IsZero())
	s.Empty(s.store.LedgerEntries(o.OrderID))
	_, err = s.store.FindOrderByID(s.ctx, o.OrderID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *StoreTestSuite) TestSettleExchange_ConcurrentDebitsNeverOverdraw() {
	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := s.order(3000, s.now)
			results <- s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, apperrors.ErrInsufficientFunds))
	}
	s.Equal(3, succeeded)
	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(1000)))
}

func (s *StoreTestSuite) TestCompleteOrder_IsConditional() {
	o := s.order(1000, s.now)
	s.Require().NoError(s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))

	completedAt := s.now.Add(time.Minute)
	moved, err := s.store.CompleteOrder(s.ctx, o.OrderID, completedAt, domain.OutboxEvent{EventID: "e1"})
	s.Require().NoError(err)
	s.True(moved)

	moved, err = s.store.CompleteOrder(s.ctx, o.OrderID, completedAt.Add(time.Hour), domain.OutboxEvent{EventID: "e2"})
	s.Require().NoError(err)
	s.False(moved)

	stored, _ := s.store.FindOrderByID(s.ctx, o.OrderID)
	s.Equal(domain.StatusCompleted, stored.Status)
	s.Equal(completedAt, *stored.CompletedAt)
	s.Len(s.store.OutboxEvents(), 1)
}

func (s *StoreTestSuite) TestFailOrder_ReversesBalances() {
	o := s.order(6000, s.now)
	s.Require().NoError(s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))

	moved, err := s.store.FailOrder(s.ctx, o.OrderID, "counterparty refused", s.now.Add(time.Minute), domain.OutboxEvent{EventID: "e1"})
	s.Require().NoError(err)
	s.True(moved)

	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(10000)))
	s.True(s.balance("bank-eur").IsZero())
	s.Len(s.store.LedgerEntries(o.OrderID), 4)

	stored, _ := s.store.FindOrderByID(s.ctx, o.OrderID)
	s.Equal(domain.StatusFailed, stored.Status)
	s.Equal("counterparty refused", stored.FailureReason)
}

func (s *StoreTestSuite) TestFailOrder_BlockedReversalChangesNothing() {
	o := s.order(6000, s.now)
	s.Require().NoError(s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))
	s.store.PutAccount(domain.AccountBalance{AccountRef: "bank-eur", UserID: "user-1", Kind: domain.Bank, CurrencyCode: "EUR", Balance: decimal.NewFromInt(1)})

	moved, err := s.store.FailOrder(s.ctx, o.OrderID, "counterparty refused", s.now.Add(time.Minute), domain.OutboxEvent{EventID: "e1"})
	s.True(errors.Is(err, apperrors.ErrReversalBlocked))
	s.False(moved)
	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(4000)))
	s.Len(s.store.LedgerEntries(o.OrderID), 2)
	s.Empty(s.store.OutboxEvents())

	moved, err = s.store.FailOrderUnreversed(s.ctx, o.OrderID, "counterparty refused; reversal blocked", s.now.Add(time.Minute), domain.OutboxEvent{EventID: "e2"})
	s.Require().NoError(err)
	s.True(moved)
	moved, err = s.store.FailOrderUnreversed(s.ctx, o.OrderID, "again", s.now.Add(time.Hour), domain.OutboxEvent{EventID: "e3"})
	s.Require().NoError(err)
	s.False(moved)

	stored, _ := s.store.FindOrderByID(s.ctx, o.OrderID)
	s.Equal(domain.StatusFailed, stored.Status)
	s.True(s.balance("bank-eur").Equal(decimal.NewFromInt(1)))
	s.Len(s.store.OutboxEvents(), 1)
}

func (s *StoreTestSuite) quote(amount int64) domain.Quote {
	q := domain.Quote{
		QuoteID:      uuid.NewString(),
		FromCurrency: "XOF",
		ToCurrency:   "EUR",
		FromAmount:   decimal.NewFromInt(amount),
		IssuedAt:     s.now,
		ExpiresAt:    s.now.Add(2 * time.Minute),
	}
	s.Require().NoError(s.store.SaveQuote(s.ctx, q))
	return q
}

func (s *StoreTestSuite) TestSettleExchange_ConsumesQuoteOnce() {
	q := s.quote(3000)
	s.True(errors.Is(s.store.SaveQuote(s.ctx, q), apperrors.ErrDuplicate))

	first := s.order(3000, s.now)
	first.QuoteID = q.QuoteID
	s.Require().NoError(s.store.SettleExchange(s.ctx, first, accounting.SettlementEntries(first, s.now)))

	stored, err := s.store.FindQuoteByID(s.ctx, q.QuoteID)
	s.Require().NoError(err)
	s.True(stored.IsConsumed())
	s.Equal(first.OrderID, stored.ConsumedByOrderID)

	second := s.order(3000, s.now)
	second.QuoteID = q.QuoteID
	err = s.store.SettleExchange(s.ctx, second, accounting.SettlementEntries(second, s.now))
	s.True(errors.Is(err, apperrors.ErrQuoteConsumed))
	s.True(s.balance("mm-xof").Equal(decimal.NewFromInt(7000)))
	_, err = s.store.FindOrderByID(s.ctx, second.OrderID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *StoreTestSuite) TestSettleExchange_RejectedSettlementLeavesQuoteUnused() {
	q := s.quote(12000)
	o := s.order(12000, s.now)
	o.QuoteID = q.QuoteID
	err := s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))
	s.True(errors.Is(err, apperrors.ErrInsufficientFunds))

	stored, err := s.store.FindQuoteByID(s.ctx, q.QuoteID)
	s.Require().NoError(err)
	s.False(stored.IsConsumed())
}

func (s *StoreTestSuite) TestDeleteExpiredQuotes_KeepsConsumed() {
	stale := s.quote(1000)
	used := s.quote(1000)
	o := s.order(1000, s.now)
	o.QuoteID = used.QuoteID
	s.Require().NoError(s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))

	n, err := s.store.DeleteExpiredQuotes(s.ctx, s.now)
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.store.DeleteExpiredQuotes(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)
	_, err = s.store.FindQuoteByID(s.ctx, stale.QuoteID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
	_, err = s.store.FindQuoteByID(s.ctx, used.QuoteID)
	s.NoError(err)
}

func (s *StoreTestSuite) TestSettleExchange_DisjointAccountsConserveBalances() {
	const pairs = 8
	for i := 0; i < pairs; i++ {
		s.store.PutAccount(domain.AccountBalance{AccountRef: fmt.Sprintf("xof-%d", i), UserID: "user-1", Kind: domain.MobileMoney, CurrencyCode: "XOF", Balance: decimal.NewFromInt(1000)})
		s.store.PutAccount(domain.AccountBalance{AccountRef: fmt.Sprintf("eur-%d", i), UserID: "user-1", Kind: domain.Bank, CurrencyCode: "EUR", Balance: decimal.Zero})
	}

	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		for j := 0; j < 5; j++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				o := s.order(100, s.now)
				o.SourceAccountRef = fmt.Sprintf("xof-%d", i)
				o.DestAccountRef = fmt.Sprintf("eur-%d", i)
				o.ToAmount = decimal.NewFromInt(1)
				s.NoError(s.store.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))
			}(i)
		}
	}
	wg.Wait()

	for i := 0; i < pairs; i++ {
		s.True(s.balance(fmt.Sprintf("xof-%d", i)).Equal(decimal.NewFromInt(500)))
		s.True(s.balance(fmt.Sprintf("eur-%d", i)).Equal(decimal.NewFromInt(5)))
	}
}

func (s *StoreTestSuite) TestListOrdersByUser_PagesNewestFirst() {
	var ids []string
	for i := 0; i < 5; i++ {
		o := s.order(100, s.now.Add(time.Duration(i)*time.Minute))
		o.Status = domain.StatusRejectedSlippage
		s.Require().NoError(s.store.SaveTerminalOrder(s.ctx, o, domain.OutboxEvent{EventID: uuid.NewString()}))
		ids = append(ids, o.OrderID)
	}

	page, err := s.store.ListOrdersByUser(s.ctx, "user-1", 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(ids[4], page[0].OrderID)
	s.Equal(ids[3], page[1].OrderID)

	last := page[1]
	page, err = s.store.ListOrdersByUser(s.ctx, "user-1", 10, &portsrepo.OrderCursor{CreatedAt: last.CreatedAt, OrderID: last.OrderID})
	s.Require().NoError(err)
	s.Require().Len(page, 3)
	s.Equal(ids[2], page[0].OrderID)
	s.Equal(ids[0], page[2].OrderID)
}

func (s *StoreTestSuite) TestOutbox_FetchAndMarkPublished() {
	o := s.order(100, s.now)
	o.Status = domain.StatusRejectedInsufficientFunds
	s.Require().NoError(s.store.SaveTerminalOrder(s.ctx, o, domain.OutboxEvent{EventID: "e1", EventType: domain.EventExchangeRejected}))

	events, err := s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	s.Require().NoError(s.store.MarkPublished(s.ctx, []string{"e1"}, s.now))
	events, err = s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *StoreTestSuite) TestAlerts_TriggerOnce() {
	alert := domain.RateAlert{AlertID: "a1", UserID: "user-1", FromCurrency: "EUR", ToCurrency: "XOF", TargetRate: decimal.NewFromInt(660), Direction: domain.AlertAbove, Active: true, CreatedAt: s.now}
	s.Require().NoError(s.store.SaveAlert(s.ctx, alert))

	active, err := s.store.ListActiveAlertsByPair(s.ctx, domain.NewCurrencyPair("EUR", "XOF"))
	s.Require().NoError(err)
	s.Len(active, 1)

	fired, err := s.store.MarkAlertTriggered(s.ctx, "a1", decimal.NewFromInt(661), s.now, domain.OutboxEvent{EventID: "e1"})
	s.Require().NoError(err)
	s.True(fired)
	fired, err = s.store.MarkAlertTriggered(s.ctx, "a1", decimal.NewFromInt(662), s.now, domain.OutboxEvent{EventID: "e2"})
	s.Require().NoError(err)
	s.False(fired)

	stored, _ := s.store.FindAlertByID(s.ctx, "a1")
	s.False(stored.Active)
	s.True(stored.TriggeredRate.Equal(decimal.NewFromInt(661)))
	s.Len(s.store.OutboxEvents(), 1)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestRateCacheStore_NewestWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRateCacheStore()
	pair := domain.NewCurrencyPair("EUR", "XOF")
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	newer := domain.RateRecord{BaseCurrency: "EUR", QuoteCurrency: "XOF", Rate: decimal.NewFromInt(657), ObservedAt: t0.Add(time.Minute)}
	older := domain.RateRecord{BaseCurrency: "EUR", QuoteCurrency: "XOF", Rate: decimal.NewFromInt(650), ObservedAt: t0}

	require.NoError(t, store.Put(ctx, []domain.RateRecord{newer}))
	require.NoError(t, store.Put(ctx, []domain.RateRecord{older}))

	got, err := store.Get(ctx, []domain.CurrencyPair{pair, domain.NewCurrencyPair("USD", "XOF")})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, got[pair].Rate.Equal(decimal.NewFromInt(657)))
}

func TestRates_HistoryWindow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pair := domain.NewCurrencyPair("EUR", "XOF")
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var records []domain.RateRecord
	for i := 0; i < 5; i++ {
		records = append(records, domain.RateRecord{BaseCurrency: "EUR", QuoteCurrency: "XOF", Rate: decimal.NewFromInt(int64(650 + i)), ObservedAt: t0.Add(time.Duration(i) * time.Hour)})
	}
	require.NoError(t, store.SaveRateRecords(ctx, records))

	latest, err := store.FindLatestRate(ctx, pair)
	require.NoError(t, err)
	assert.True(t, latest.Rate.Equal(decimal.NewFromInt(654)))

	window, err := store.ListRateRecords(ctx, pair, t0.Add(time.Hour), t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, window, 3)

	_, err = store.FindLatestRate(ctx, domain.NewCurrencyPair("GBP", "XOF"))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
