package domain

import "time"

// Event types written to the outbox and consumed by the notification collaborator.
const (
	EventExchangeCompleted = "exchange.completed"
	EventExchangeRejected  = "exchange.rejected"
	EventExchangeFailed    = "exchange.failed"
	// EventExchangeReconciliationRequired marks a failed order whose balances
	// could not be reversed.
	EventExchangeReconciliationRequired = "exchange.reconciliation_required"
	EventRateAlertTriggered             = "rate_alert.triggered"
)

// OutboxEvent is a domain event persisted in the same unit of work as the state change
// that produced it, then relayed to the event sink.
type OutboxEvent struct {
	EventID     string     `json:"eventID"`
	EventType   string     `json:"eventType"`
	AggregateID string     `json:"aggregateID"`
	Payload     []byte     `json:"payload"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
