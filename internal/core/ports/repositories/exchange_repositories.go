package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
)

// ExchangeOrderReader defines read operations for exchange orders.
type ExchangeOrderReader interface {
	// FindOrderByID returns the order or apperrors.ErrNotFound.
	FindOrderByID(ctx context.Context, orderID string) (*domain.ExchangeOrder, error)

	// ListOrdersByUser returns up to limit orders of userID, newest first, strictly after cursor when given.
	ListOrdersByUser(ctx context.Context, userID string, limit int, after *OrderCursor) ([]domain.ExchangeOrder, error)

	// ListProcessingOrders returns processing orders created before olderThan, oldest first.
	ListProcessingOrders(ctx context.Context, olderThan time.Time, limit int) ([]domain.ExchangeOrder, error)
}

// ExchangeOrderWriter defines the write side of the executor's state machine.
type ExchangeOrderWriter interface {
	// SettleExchange runs the atomic settlement unit: it locks the source and destination
	// accounts, re-verifies that the source covers the debit, applies every ledger entry and
	// inserts the order. When order.QuoteID is set the quote is marked consumed by the order in
	// the same unit; a quote that is already consumed yields apperrors.ErrQuoteConsumed. It returns
	// apperrors.ErrInsufficientFunds without applying anything when the re-verification fails.
	// Either all mutations apply or none do.
	SettleExchange(ctx context.Context, order domain.ExchangeOrder, entries []domain.LedgerEntry) error

	// SaveTerminalOrder records a rejected or failed order that never moved money,
	// together with its outbox event.
	SaveTerminalOrder(ctx context.Context, order domain.ExchangeOrder, event domain.OutboxEvent) error

	// CompleteOrder moves a processing order to completed and stores event in the same unit.
	// It returns false without changing anything if the order is no longer processing.
	CompleteOrder(ctx context.Context, orderID string, completedAt time.Time, event domain.OutboxEvent) (bool, error)

	// FailOrder moves a processing order to failed, reversing its ledger entries and storing
	// event in the same unit. It returns false without changing anything if the order is no
	// longer processing, and apperrors.ErrReversalBlocked without changing anything if an
	// account can no longer give back what the settlement moved.
	FailOrder(ctx context.Context, orderID string, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error)

	// FailOrderUnreversed moves a processing order to failed without touching balances and
	// stores event in the same unit. It is used once a reversal is blocked, leaving the
	// balances to manual reconciliation. It returns false if the order is no longer processing.
	FailOrderUnreversed(ctx context.Context, orderID string, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error)
}

// ExchangeRepositoryFacade combines all exchange order repository interfaces.
type ExchangeRepositoryFacade interface {
	ExchangeOrderReader
	ExchangeOrderWriter
}
