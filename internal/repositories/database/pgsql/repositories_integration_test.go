package pgsql_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/accounting"
	"github.com/SscSPs/fx_exchange_engine/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// RepositoriesTestSuite runs against a real PostgreSQL when PGSQL_TEST_URL is set.
type RepositoriesTestSuite struct {
	suite.Suite
	ctx   context.Context
	pool  *pgxpool.Pool
	repos portsrepo.RepositoryProvider
	now   time.Time
	src   string
	dst   string
}

func TestRepositoriesTestSuite(t *testing.T) {
	url := os.Getenv("PGSQL_TEST_URL")
	if url == "" {
		t.Skip("PGSQL_TEST_URL not set")
	}
	suite.Run(t, &RepositoriesTestSuite{})
}

func (s *RepositoriesTestSuite) SetupSuite() {
	s.ctx = context.Background()
	url := os.Getenv("PGSQL_TEST_URL")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(database.RunMigrations(url, "file://../../../../migrations", logger))

	pool, err := database.NewPgxPool(s.ctx, url, true)
	s.Require().NoError(err)
	s.pool = pool
	s.repos = pgsql.NewRepositoryProvider(pool)
}

func (s *RepositoriesTestSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
}

func (s *RepositoriesTestSuite) SetupTest() {
	s.now = time.Now().UTC().Truncate(time.Microsecond)
	s.src = "it-xof-" + uuid.NewString()[:8]
	s.dst = "it-eur-" + uuid.NewString()[:8]
	_, err := s.pool.Exec(s.ctx, `
		INSERT INTO accounts (account_ref, user_id, kind, currency_code, balance)
		VALUES ($1, 'it-user', 'MOBILE_MONEY', 'XOF', 10000), ($2, 'it-user', 'BANK', 'EUR', 0);
	`, s.src, s.dst)
	s.Require().NoError(err)
}

func (s *RepositoriesTestSuite) order(amount int64) domain.ExchangeOrder {
	return domain.ExchangeOrder{
		OrderID:          uuid.NewString(),
		UserID:           "it-user",
		SourceAccountRef: s.src,
		DestAccountRef:   s.dst,
		FromCurrency:     "XOF",
		ToCurrency:       "EUR",
		FromAmount:       decimal.NewFromInt(amount),
		ToAmount:         decimal.RequireFromString("9.15"),
		AcceptedRate:     decimal.RequireFromString("0.00152449"),
		ExecutedRate:     decimal.RequireFromString("0.00152449"),
		FeeTotal:         decimal.NewFromInt(90),
		Status:           domain.StatusProcessing,
		Reference:        "FX-IT-" + uuid.NewString()[:8],
		CreatedAt:        s.now,
		UpdatedAt:        s.now,
	}
}

func (s *RepositoriesTestSuite) balance(ref string) decimal.Decimal {
	acc, err := s.repos.AccountRepo.FindAccountByRef(s.ctx, ref)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *RepositoriesTestSuite) event(aggregateID string) domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   domain.EventExchangeCompleted,
		AggregateID: aggregateID,
		Payload:     []byte(`{"ok":true}`),
		CreatedAt:   s.now,
	}
}

func (s *RepositoriesTestSuite) TestSettleCompleteAndFail() {
	o := s.order(6000)
	s.Require().NoError(s.repos.ExchangeRepo.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))
	s.True(s.balance(s.src).Equal(decimal.NewFromInt(4000)))
	s.True(s.balance(s.dst).Equal(decimal.RequireFromString("9.15")))

	ok, err := s.repos.ExchangeRepo.CompleteOrder(s.ctx, o.OrderID, s.now, s.event(o.OrderID))
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.repos.ExchangeRepo.CompleteOrder(s.ctx, o.OrderID, s.now, s.event(o.OrderID))
	s.Require().NoError(err)
	s.False(ok)

	second := s.order(3000)
	s.Require().NoError(s.repos.ExchangeRepo.SettleExchange(s.ctx, second, accounting.SettlementEntries(second, s.now)))
	ok, err = s.repos.ExchangeRepo.FailOrder(s.ctx, second.OrderID, "confirmation refused", s.now, s.event(second.OrderID))
	s.Require().NoError(err)
	s.True(ok)
	s.True(s.balance(s.src).Equal(decimal.NewFromInt(4000)))

	stored, err := s.repos.ExchangeRepo.FindOrderByID(s.ctx, second.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, stored.Status)
	s.Equal("confirmation refused", stored.FailureReason)
}

func (s *RepositoriesTestSuite) TestSettleInsufficientFundsAppliesNothing() {
	o := s.order(20000)
	err := s.repos.ExchangeRepo.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))
	s.True(errors.Is(err, apperrors.ErrInsufficientFunds))
	s.True(s.balance(s.src).Equal(decimal.NewFromInt(10000)))

	_, err = s.repos.ExchangeRepo.FindOrderByID(s.ctx, o.OrderID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *RepositoriesTestSuite) quote(amount int64) domain.Quote {
	q := domain.Quote{
		QuoteID:        uuid.NewString(),
		FromCurrency:   "XOF",
		ToCurrency:     "EUR",
		FromAmount:     decimal.NewFromInt(amount),
		ToAmount:       decimal.RequireFromString("9.15"),
		BaseRate:       decimal.RequireFromString("0.00152449"),
		SpreadPct:      decimal.RequireFromString("0.01"),
		FeePct:         decimal.RequireFromString("0.005"),
		FeeTotal:       decimal.NewFromInt(90),
		RateSource:     "it",
		RateObservedAt: s.now,
		IssuedAt:       s.now,
		ExpiresAt:      s.now.Add(2 * time.Minute),
	}
	s.Require().NoError(s.repos.QuoteRepo.SaveQuote(s.ctx, q))
	return q
}

func (s *RepositoriesTestSuite) TestSettleConsumesQuoteOnce() {
	q := s.quote(3000)
	first := s.order(3000)
	first.QuoteID = q.QuoteID
	s.Require().NoError(s.repos.ExchangeRepo.SettleExchange(s.ctx, first, accounting.SettlementEntries(first, s.now)))

	stored, err := s.repos.QuoteRepo.FindQuoteByID(s.ctx, q.QuoteID)
	s.Require().NoError(err)
	s.True(stored.IsConsumed())
	s.Equal(first.OrderID, stored.ConsumedByOrderID)

	order, err := s.repos.ExchangeRepo.FindOrderByID(s.ctx, first.OrderID)
	s.Require().NoError(err)
	s.Equal(q.QuoteID, order.QuoteID)

	second := s.order(3000)
	second.QuoteID = q.QuoteID
	err = s.repos.ExchangeRepo.SettleExchange(s.ctx, second, accounting.SettlementEntries(second, s.now))
	s.True(errors.Is(err, apperrors.ErrQuoteConsumed))
	s.True(s.balance(s.src).Equal(decimal.NewFromInt(7000)))
}

func (s *RepositoriesTestSuite) TestRolledBackSettlementLeavesQuoteUsable() {
	q := s.quote(20000)
	o := s.order(20000)
	o.QuoteID = q.QuoteID
	err := s.repos.ExchangeRepo.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now))
	s.True(errors.Is(err, apperrors.ErrInsufficientFunds))

	stored, err := s.repos.QuoteRepo.FindQuoteByID(s.ctx, q.QuoteID)
	s.Require().NoError(err)
	s.False(stored.IsConsumed())
}

func (s *RepositoriesTestSuite) TestDeleteExpiredQuotesKeepsConsumed() {
	stale := s.quote(1000)
	used := s.quote(1000)
	o := s.order(1000)
	o.QuoteID = used.QuoteID
	s.Require().NoError(s.repos.ExchangeRepo.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))

	n, err := s.repos.QuoteRepo.DeleteExpiredQuotes(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.GreaterOrEqual(n, 1)

	_, err = s.repos.QuoteRepo.FindQuoteByID(s.ctx, stale.QuoteID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
	_, err = s.repos.QuoteRepo.FindQuoteByID(s.ctx, used.QuoteID)
	s.NoError(err)
}

func (s *RepositoriesTestSuite) TestFailOrderBlockedReversalChangesNothing() {
	o := s.order(6000)
	s.Require().NoError(s.repos.ExchangeRepo.SettleExchange(s.ctx, o, accounting.SettlementEntries(o, s.now)))
	_, err := s.pool.Exec(s.ctx, `UPDATE accounts SET balance = 1 WHERE account_ref = $1;`, s.dst)
	s.Require().NoError(err)

	ok, err := s.repos.ExchangeRepo.FailOrder(s.ctx, o.OrderID, "confirmation refused", s.now, s.event(o.OrderID))
	s.True(errors.Is(err, apperrors.ErrReversalBlocked))
	s.False(ok)
	s.True(s.balance(s.src).Equal(decimal.NewFromInt(4000)))

	ok, err = s.repos.ExchangeRepo.FailOrderUnreversed(s.ctx, o.OrderID, "confirmation refused; reversal blocked", s.now, s.event(o.OrderID))
	s.Require().NoError(err)
	s.True(ok)
	stored, err := s.repos.ExchangeRepo.FindOrderByID(s.ctx, o.OrderID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, stored.Status)
	s.True(s.balance(s.dst).Equal(decimal.NewFromInt(1)))
}

func (s *RepositoriesTestSuite) TestRatesHistoryWindow() {
	pair := domain.NewCurrencyPair("EUR", "XOF")
	var records []domain.RateRecord
	for i := 0; i < 3; i++ {
		records = append(records, domain.RateRecord{
			ID:            uuid.NewString(),
			BaseCurrency:  pair.Base,
			QuoteCurrency: pair.Quote,
			Rate:          decimal.NewFromInt(int64(650 + i)),
			ObservedAt:    s.now.Add(time.Duration(i-3) * time.Hour),
			Source:        "it",
		})
	}
	s.Require().NoError(s.repos.RateRepo.SaveRateRecords(s.ctx, records))

	got, err := s.repos.RateRepo.ListRateRecords(s.ctx, pair, records[0].ObservedAt, records[1].ObservedAt)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(got), 2)

	latest, err := s.repos.RateRepo.FindLatestRate(s.ctx, pair)
	s.Require().NoError(err)
	s.False(latest.ObservedAt.Before(records[2].ObservedAt))
}

func (s *RepositoriesTestSuite) TestAlertTriggersOnceAndOutboxDrains() {
	alert := domain.RateAlert{
		AlertID:      uuid.NewString(),
		UserID:       "it-user",
		FromCurrency: "EUR",
		ToCurrency:   "XOF",
		TargetRate:   decimal.NewFromInt(660),
		Direction:    domain.AlertAbove,
		Active:       true,
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.repos.AlertRepo.SaveAlert(s.ctx, alert))

	evt := s.event(alert.AlertID)
	ok, err := s.repos.AlertRepo.MarkAlertTriggered(s.ctx, alert.AlertID, decimal.NewFromInt(661), s.now, evt)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.repos.AlertRepo.MarkAlertTriggered(s.ctx, alert.AlertID, decimal.NewFromInt(662), s.now, s.event(alert.AlertID))
	s.Require().NoError(err)
	s.False(ok)

	pending, err := s.repos.OutboxRepo.FetchUnpublished(s.ctx, 1000)
	s.Require().NoError(err)
	ids := make([]string, 0, len(pending))
	for _, e := range pending {
		ids = append(ids, e.EventID)
	}
	s.Contains(ids, evt.EventID)
	s.Require().NoError(s.repos.OutboxRepo.MarkPublished(s.ctx, ids, s.now))

	pending, err = s.repos.OutboxRepo.FetchUnpublished(s.ctx, 1000)
	s.Require().NoError(err)
	for _, e := range pending {
		s.NotEqual(evt.EventID, e.EventID)
	}
}
