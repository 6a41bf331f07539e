package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	day           = 24 * time.Hour
	maxPeriod     = 5 * 365 * day
	avgRateDigits = 8
)

var calendarPeriod = regexp.MustCompile(`^(\d+)([dwmy])$`)

// ParsePeriod accepts Go durations ("6h", "24h") and calendar forms
// ("7d", "1w", "1m", "1y"), where a month is 30 days and a year 365.
func ParsePeriod(period string) (time.Duration, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		return 0, fmt.Errorf("%w: period is required", apperrors.ErrValidation)
	}

	var d time.Duration
	if m := calendarPeriod.FindStringSubmatch(p); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w: invalid period '%s'", apperrors.ErrValidation, period)
		}
		unit := map[string]time.Duration{"d": day, "w": 7 * day, "m": 30 * day, "y": 365 * day}[m[2]]
		if n > int(maxPeriod/unit) {
			return 0, fmt.Errorf("%w: period '%s' is longer than five years", apperrors.ErrValidation, period)
		}
		d = time.Duration(n) * unit
	} else {
		parsed, err := time.ParseDuration(p)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid period '%s'", apperrors.ErrValidation, period)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", apperrors.ErrValidation)
	}
	if d > maxPeriod {
		return 0, fmt.Errorf("%w: period '%s' is longer than five years", apperrors.ErrValidation, period)
	}
	return d, nil
}

// historyService aggregates stored rate observations. It never writes.
type historyService struct {
	BaseService
	rateRepo portsrepo.RateRecordReader
}

// NewHistoryService creates the rate history aggregator.
func NewHistoryService(rateRepo portsrepo.RateRecordReader, opts ...Option) portssvc.RateHistorySvc {
	return &historyService{
		BaseService: newBaseService(opts),
		rateRepo:    rateRepo,
	}
}

// GetRateHistory buckets observations of from/to over the trailing period,
// hourly up to a day and daily beyond, ascending by bucket start. Buckets with
// no observation are omitted.
func (s *historyService) GetRateHistory(ctx context.Context, from, to, period string) ([]domain.RateHistoryBucket, error) {
	pair := domain.NewCurrencyPair(from, to)
	if !domain.IsValidCode(pair.Base) || !domain.IsValidCode(pair.Quote) {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if pair.Base == pair.Quote {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	span, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	until := s.Now()
	since := until.Add(-span)
	records, err := s.rateRepo.ListRateRecords(ctx, pair, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate history: %w", err)
	}

	return aggregateRates(pair, records, domain.GranularityFor(span)), nil
}

type bucketAccumulator struct {
	sum   decimal.Decimal
	min   decimal.Decimal
	max   decimal.Decimal
	count int
}

func aggregateRates(pair domain.CurrencyPair, records []domain.RateRecord, granularity domain.BucketGranularity) []domain.RateHistoryBucket {
	acc := make(map[time.Time]*bucketAccumulator)
	for _, r := range records {
		start := bucketStart(r.ObservedAt, granularity)
		b, ok := acc[start]
		if !ok {
			acc[start] = &bucketAccumulator{sum: r.Rate, min: r.Rate, max: r.Rate, count: 1}
			continue
		}
		b.sum = b.sum.Add(r.Rate)
		b.min = decimal.Min(b.min, r.Rate)
		b.max = decimal.Max(b.max, r.Rate)
		b.count++
	}

	buckets := make([]domain.RateHistoryBucket, 0, len(acc))
	for start, b := range acc {
		buckets = append(buckets, domain.RateHistoryBucket{
			FromCurrency:      pair.Base,
			ToCurrency:        pair.Quote,
			BucketStart:       start,
			BucketGranularity: granularity,
			AvgRate:           b.sum.DivRound(decimal.NewFromInt(int64(b.count)), avgRateDigits),
			MinRate:           b.min,
			MaxRate:           b.max,
			SampleCount:       b.count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].BucketStart.Before(buckets[j].BucketStart)
	})
	return buckets
}

// bucketStart truncates t to the start of its UTC hour or day.
func bucketStart(t time.Time, granularity domain.BucketGranularity) time.Time {
	t = t.UTC()
	if granularity == domain.Daily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Truncate(time.Hour)
}
