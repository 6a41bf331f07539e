package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BucketGranularity is the width of a history bucket.
type BucketGranularity string

const (
	Hourly BucketGranularity = "hour"
	Daily  BucketGranularity = "day"
)

// Duration returns the bucket width.
func (g BucketGranularity) Duration() time.Duration {
	if g == Daily {
		return 24 * time.Hour
	}
	return time.Hour
}

// GranularityFor picks hourly buckets for periods up to a day and daily buckets beyond.
func GranularityFor(period time.Duration) BucketGranularity {
	if period <= 24*time.Hour {
		return Hourly
	}
	return Daily
}

// RateHistoryBucket is a derived, read-only aggregate of rate observations.
type RateHistoryBucket struct {
	FromCurrency      string            `json:"fromCurrency"`
	ToCurrency        string            `json:"toCurrency"`
	BucketStart       time.Time         `json:"bucketStart"`
	BucketGranularity BucketGranularity `json:"bucketGranularity"`
	AvgRate           decimal.Decimal   `json:"avgRate"`
	MinRate           decimal.Decimal   `json:"minRate"`
	MaxRate           decimal.Decimal   `json:"maxRate"`
	SampleCount       int               `json:"sampleCount"`
}
