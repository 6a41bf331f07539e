package services

import (
	"context"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
)

// RateAlertSvcFacade is the rate alert registry.
type RateAlertSvcFacade interface {
	SetRateAlert(ctx context.Context, userID string, req dto.CreateRateAlertRequest) (*domain.RateAlert, error)
	ListRateAlerts(ctx context.Context, userID string) ([]domain.RateAlert, error)
	CancelRateAlert(ctx context.Context, userID, alertID string) error

	// EvaluateRate deactivates every active alert on record's pair that the rate crosses,
	// each exactly once, and returns the alerts that fired.
	EvaluateRate(ctx context.Context, record domain.RateRecord) ([]domain.RateAlert, error)
}
