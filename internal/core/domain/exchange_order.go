package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeStatus is the lifecycle state of an ExchangeOrder.
type ExchangeStatus string

const (
	StatusPending                   ExchangeStatus = "pending"
	StatusProcessing                ExchangeStatus = "processing"
	StatusCompleted                 ExchangeStatus = "completed"
	StatusFailed                    ExchangeStatus = "failed"
	StatusRejectedSlippage          ExchangeStatus = "rejected_slippage"
	StatusRejectedInsufficientFunds ExchangeStatus = "rejected_insufficient_funds"
)

// IsTerminal reports whether no further transition is possible from s.
func (s ExchangeStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRejectedSlippage, StatusRejectedInsufficientFunds:
		return true
	}
	return false
}

// IsRejection reports whether s is one of the early rejection states.
func (s ExchangeStatus) IsRejection() bool {
	return s == StatusRejectedSlippage || s == StatusRejectedInsufficientFunds
}

var allowedTransitions = map[ExchangeStatus][]ExchangeStatus{
	StatusPending:    {StatusProcessing, StatusFailed, StatusRejectedSlippage, StatusRejectedInsufficientFunds},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// CanTransition reports whether the executor state machine allows from -> to.
func CanTransition(from, to ExchangeStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ExchangeOrder is owned by the exchange executor and mutated only through its state machine.
type ExchangeOrder struct {
	OrderID          string          `json:"orderID"`
	UserID           string          `json:"userID"`
	QuoteID          string          `json:"quoteID,omitempty"`
	SourceAccountRef string          `json:"sourceAccountRef"`
	DestAccountRef   string          `json:"destAccountRef"`
	FromCurrency     string          `json:"fromCurrency"`
	ToCurrency       string          `json:"toCurrency"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	AcceptedRate     decimal.Decimal `json:"acceptedRate"`
	ExecutedRate     decimal.Decimal `json:"executedRate"`
	FeeTotal         decimal.Decimal `json:"feeTotal"`
	Status           ExchangeStatus  `json:"status"`
	Reference        string          `json:"reference"`
	FailureReason    string          `json:"failureReason,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
}

// TransitionTo moves the order to next, stamping UpdatedAt (and CompletedAt when completing).
func (o *ExchangeOrder) TransitionTo(next ExchangeStatus, at time.Time) error {
	if !CanTransition(o.Status, next) {
		return fmt.Errorf("illegal exchange order transition %s -> %s for order %s", o.Status, next, o.OrderID)
	}
	o.Status = next
	o.UpdatedAt = at
	if next == StatusCompleted {
		completedAt := at
		o.CompletedAt = &completedAt
	}
	return nil
}
