package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateAlertReader defines read operations for rate alerts.
type RateAlertReader interface {
	FindAlertByID(ctx context.Context, alertID string) (*domain.RateAlert, error)
	ListAlertsByUser(ctx context.Context, userID string) ([]domain.RateAlert, error)
	ListActiveAlertsByPair(ctx context.Context, pair domain.CurrencyPair) ([]domain.RateAlert, error)
}

// RateAlertWriter defines write operations for rate alerts.
type RateAlertWriter interface {
	SaveAlert(ctx context.Context, alert domain.RateAlert) error

	// DeactivateAlert marks an active alert inactive. It returns false if it was already inactive.
	DeactivateAlert(ctx context.Context, alertID string, at time.Time) (bool, error)

	// MarkAlertTriggered deactivates an active alert and stores event in the same unit.
	// It returns false, storing nothing, when the alert already fired or was cancelled.
	MarkAlertTriggered(ctx context.Context, alertID string, rate decimal.Decimal, at time.Time, event domain.OutboxEvent) (bool, error)
}

// RateAlertRepositoryFacade combines all rate alert repository interfaces.
type RateAlertRepositoryFacade interface {
	RateAlertReader
	RateAlertWriter
}
