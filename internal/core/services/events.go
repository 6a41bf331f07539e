package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeEventPayload is the body of exchange.* events.
type exchangeEventPayload struct {
	OrderID          string          `json:"orderID"`
	Reference        string          `json:"reference"`
	UserID           string          `json:"userID"`
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
	Reason           string          `json:"reason,omitempty"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// rateAlertEventPayload is the body of rate_alert.triggered events.
type rateAlertEventPayload struct {
	AlertID       string          `json:"alertID"`
	UserID        string          `json:"userID"`
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	TargetRate    decimal.Decimal `json:"targetRate"`
	Direction     string          `json:"direction"`
	TriggeredRate decimal.Decimal `json:"triggeredRate"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func newOutboxEvent(eventType, aggregateID string, payload any, at time.Time) (domain.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.OutboxEvent{}, fmt.Errorf("failed to encode %s event for %s: %w", eventType, aggregateID, err)
	}
	return domain.OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     body,
		CreatedAt:   at,
	}, nil
}

func newExchangeEvent(eventType string, order domain.ExchangeOrder, at time.Time) (domain.OutboxEvent, error) {
	return newOutboxEvent(eventType, order.OrderID, exchangeEventPayload{
		OrderID:          order.OrderID,
		Reference:        order.Reference,
		UserID:           order.UserID,
		Status:           string(order.Status),
		SourceAccountRef: order.SourceAccountRef,
		DestAccountRef:   order.DestAccountRef,
		FromCurrency:     order.FromCurrency,
		ToCurrency:       order.ToCurrency,
		FromAmount:       order.FromAmount,
		ToAmount:         order.ToAmount,
		AcceptedRate:     order.AcceptedRate,
		ExecutedRate:     order.ExecutedRate,
		FeeTotal:         order.FeeTotal,
		Reason:           order.FailureReason,
		OccurredAt:       at,
	}, at)
}

func newRateAlertEvent(alert domain.RateAlert, rate decimal.Decimal, at time.Time) (domain.OutboxEvent, error) {
	return newOutboxEvent(domain.EventRateAlertTriggered, alert.AlertID, rateAlertEventPayload{
		AlertID:       alert.AlertID,
		UserID:        alert.UserID,
		FromCurrency:  alert.FromCurrency,
		ToCurrency:    alert.ToCurrency,
		TargetRate:    alert.TargetRate,
		Direction:     string(alert.Direction),
		TriggeredRate: rate,
		OccurredAt:    at,
	}, at)
}
