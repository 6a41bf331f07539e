package dto

import (
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateExchangeRequest defines the structure for requesting a quote.
type CalculateExchangeRequest struct {
	FromCurrency        string          `json:"fromCurrency" binding:"required,len=3"`
	ToCurrency          string          `json:"toCurrency" binding:"required,len=3"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	IncludeFeeBreakdown bool            `json:"includeFeeBreakdown"`
}

// QuoteResponse defines the structure for API responses containing a quote.
type QuoteResponse struct {
	QuoteID       string               `json:"quoteID"`
	FromCurrency  string               `json:"fromCurrency"`
	ToCurrency    string               `json:"toCurrency"`
	FromAmount    decimal.Decimal      `json:"fromAmount"`
	ToAmount      decimal.Decimal      `json:"toAmount"`
	BaseRate      decimal.Decimal      `json:"baseRate"`
	EffectiveRate decimal.Decimal      `json:"effectiveRate"`
	FeeTotal      decimal.Decimal      `json:"feeTotal"`
	RateSource    string               `json:"rateSource"`
	IssuedAt      time.Time            `json:"issuedAt"`
	ExpiresAt     time.Time            `json:"expiresAt"`
	Breakdown     *domain.FeeBreakdown `json:"breakdown,omitempty"`
}

// ToQuoteResponse converts a domain.Quote to QuoteResponse DTO
func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		QuoteID:       q.QuoteID,
		FromCurrency:  q.FromCurrency,
		ToCurrency:    q.ToCurrency,
		FromAmount:    q.FromAmount,
		ToAmount:      q.ToAmount,
		BaseRate:      q.BaseRate,
		EffectiveRate: q.EffectiveRate(),
		FeeTotal:      q.FeeTotal,
		RateSource:    q.RateSource,
		IssuedAt:      q.IssuedAt,
		ExpiresAt:     q.ExpiresAt,
		Breakdown:     q.Breakdown,
	}
}

// ExecuteExchangeRequest defines the structure for executing an exchange against an issued quote.
// AcceptedRate defaults to the quote's base rate and must match it when given.
type ExecuteExchangeRequest struct {
	QuoteID           string           `json:"quoteID" binding:"required"`
	SourceAccountRef  string           `json:"sourceAccountRef" binding:"required"`
	DestAccountRef    string           `json:"destAccountRef" binding:"required"`
	FromCurrency      string           `json:"fromCurrency" binding:"required,len=3"`
	ToCurrency        string           `json:"toCurrency" binding:"required,len=3"`
	Amount            decimal.Decimal  `json:"amount" binding:"required"`
	AcceptedRate      decimal.Decimal  `json:"acceptedRate"`
	SlippageTolerance *decimal.Decimal `json:"slippageTolerance,omitempty"`
}

// ExchangeOrderResponse defines the structure for API responses containing an order.
type ExchangeOrderResponse struct {
	OrderID          string          `json:"orderID"`
	QuoteID          string          `json:"quoteID,omitempty"`
	Reference        string          `json:"reference"`
	Status           string          `json:"status"`
	SourceAccountRef string          `json:"sourceAccountRef"`
	DestAccountRef   string          `json:"destAccountRef"`
	FromCurrency     string          `json:"fromCurrency"`
	ToCurrency       string          `json:"toCurrency"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	AcceptedRate     decimal.Decimal `json:"acceptedRate"`
	ExecutedRate     decimal.Decimal `json:"executedRate"`
	FeeTotal         decimal.Decimal `json:"feeTotal"`
	FailureReason    string          `json:"failureReason,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
}

// ToExchangeOrderResponse converts a domain.ExchangeOrder to ExchangeOrderResponse DTO
func ToExchangeOrderResponse(o *domain.ExchangeOrder) ExchangeOrderResponse {
	return ExchangeOrderResponse{
		OrderID:          o.OrderID,
		QuoteID:          o.QuoteID,
		Reference:        o.Reference,
		Status:           string(o.Status),
		SourceAccountRef: o.SourceAccountRef,
		DestAccountRef:   o.DestAccountRef,
		FromCurrency:     o.FromCurrency,
		ToCurrency:       o.ToCurrency,
		FromAmount:       o.FromAmount,
		ToAmount:         o.ToAmount,
		AcceptedRate:     o.AcceptedRate,
		ExecutedRate:     o.ExecutedRate,
		FeeTotal:         o.FeeTotal,
		FailureReason:    o.FailureReason,
		CreatedAt:        o.CreatedAt,
		CompletedAt:      o.CompletedAt,
	}
}

// SlippageRejectionResponse is returned when the rate moved beyond tolerance.
// FreshQuote is informational; the caller must submit a new execution to accept it.
type SlippageRejectionResponse struct {
	Error        string                `json:"error"`
	Order        ExchangeOrderResponse `json:"order"`
	AcceptedRate decimal.Decimal       `json:"acceptedRate"`
	FreshRate    decimal.Decimal       `json:"freshRate"`
	Deviation    decimal.Decimal       `json:"deviation"`
	Tolerance    decimal.Decimal       `json:"tolerance"`
	FreshQuote   *QuoteResponse        `json:"freshQuote,omitempty"`
}

// ListExchangeOrdersParams defines query parameters for listing orders.
type ListExchangeOrdersParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// ListExchangeOrdersResponse is a page of orders.
type ListExchangeOrdersResponse struct {
	Orders    []ExchangeOrderResponse `json:"orders"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
