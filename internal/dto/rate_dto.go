package dto

import (
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResponse defines the structure for API responses containing a rate observation.
type RateResponse struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	SpreadPct     decimal.Decimal `json:"spreadPct"`
	FeePct        decimal.Decimal `json:"feePct"`
	ObservedAt    time.Time       `json:"observedAt"`
	Source        string          `json:"source"`
}

// GetRatesResponse wraps the rates for one base currency.
type GetRatesResponse struct {
	Base  string         `json:"base"`
	Rates []RateResponse `json:"rates"`
}

// ToRateResponse converts a domain.RateRecord to RateResponse DTO
func ToRateResponse(r domain.RateRecord) RateResponse {
	return RateResponse{
		BaseCurrency:  r.BaseCurrency,
		QuoteCurrency: r.QuoteCurrency,
		Rate:          r.Rate,
		SpreadPct:     r.SpreadPct,
		FeePct:        r.FeePct,
		ObservedAt:    r.ObservedAt,
		Source:        r.Source,
	}
}

// ToGetRatesResponse converts a slice of records sharing base into a GetRatesResponse.
func ToGetRatesResponse(base string, records []domain.RateRecord) GetRatesResponse {
	rates := make([]RateResponse, len(records))
	for i, r := range records {
		rates[i] = ToRateResponse(r)
	}
	return GetRatesResponse{Base: base, Rates: rates}
}

// RateHistoryBucketResponse is one charting bucket.
type RateHistoryBucketResponse struct {
	BucketStart time.Time       `json:"bucketStart"`
	AvgRate     decimal.Decimal `json:"avgRate"`
	MinRate     decimal.Decimal `json:"minRate"`
	MaxRate     decimal.Decimal `json:"maxRate"`
	SampleCount int             `json:"sampleCount"`
}

// RateHistoryResponse wraps the buckets for a pair.
type RateHistoryResponse struct {
	FromCurrency string                      `json:"fromCurrency"`
	ToCurrency   string                      `json:"toCurrency"`
	Period       string                      `json:"period"`
	Granularity  string                      `json:"granularity,omitempty"`
	Buckets      []RateHistoryBucketResponse `json:"buckets"`
}

// ToRateHistoryResponse converts aggregated buckets into the API shape.
func ToRateHistoryResponse(from, to, period string, buckets []domain.RateHistoryBucket) RateHistoryResponse {
	resp := RateHistoryResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Period:       period,
		Buckets:      make([]RateHistoryBucketResponse, len(buckets)),
	}
	for i, b := range buckets {
		resp.Granularity = string(b.BucketGranularity)
		resp.Buckets[i] = RateHistoryBucketResponse{
			BucketStart: b.BucketStart,
			AvgRate:     b.AvgRate,
			MinRate:     b.MinRate,
			MaxRate:     b.MaxRate,
			SampleCount: b.SampleCount,
		}
	}
	return resp
}
