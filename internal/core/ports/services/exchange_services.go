package services

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
)

// QuoteSvc produces bindable quotes.
type QuoteSvc interface {
	CalculateExchange(ctx context.Context, req dto.CalculateExchangeRequest) (*domain.Quote, error)
}

// QuoteHousekeepingSvc drops quotes nobody can execute anymore.
type QuoteHousekeepingSvc interface {
	PurgeExpiredQuotes(ctx context.Context) (int, error)
}

// ExchangeExecutorSvc executes exchanges against previously accepted rates.
type ExchangeExecutorSvc interface {
	// ExecuteExchange settles req.QuoteID at most once and only before it expires. Rejections
	// return the rejected order together with an error matching apperrors.ErrSlippageExceeded
	// or apperrors.ErrInsufficientFunds.
	ExecuteExchange(ctx context.Context, userID string, req dto.ExecuteExchangeRequest) (*domain.ExchangeOrder, error)
}

// ExchangeOrderReaderSvc reads a user's orders.
type ExchangeOrderReaderSvc interface {
	GetOrder(ctx context.Context, userID, orderID string) (*domain.ExchangeOrder, error)
	ListOrders(ctx context.Context, userID string, params dto.ListExchangeOrdersParams) (*dto.ListExchangeOrdersResponse, error)
}

// ExchangeSvcFacade combines all exchange-related service interfaces
type ExchangeSvcFacade interface {
	QuoteSvc
	ExchangeExecutorSvc
	ExchangeOrderReaderSvc
}

// CompletionSvc drives processing orders to a terminal state.
type CompletionSvc interface {
	// CompleteOrder is idempotent: completing an order that is already terminal is a no-op.
	CompleteOrder(ctx context.Context, orderID string) (*domain.ExchangeOrder, error)

	// CompleteDueOrders completes a batch of processing orders and returns how many moved.
	CompleteDueOrders(ctx context.Context) (int, error)
}
