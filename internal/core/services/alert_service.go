package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
	"github.com/SscSPs/fx_exchange_engine/internal/dto"
	"github.com/google/uuid"
)

// AlertService is the rate alert registry. It also watches freshly fetched
// rates and fires the alerts they cross.
type AlertService struct {
	BaseService
	alertRepo portsrepo.RateAlertRepositoryFacade
}

// NewAlertService creates the rate alert registry.
func NewAlertService(alertRepo portsrepo.RateAlertRepositoryFacade, opts ...Option) *AlertService {
	return &AlertService{
		BaseService: newBaseService(opts),
		alertRepo:   alertRepo,
	}
}

var (
	_ portssvc.RateAlertSvcFacade = (*AlertService)(nil)
	_ gateways.RateObserver       = (*AlertService)(nil)
)

func (s *AlertService) SetRateAlert(ctx context.Context, userID string, req dto.CreateRateAlertRequest) (*domain.RateAlert, error) {
	pair := domain.NewCurrencyPair(req.FromCurrency, req.ToCurrency)
	direction := domain.AlertDirection(req.Direction)
	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	case !domain.IsValidCode(pair.Base) || !domain.IsValidCode(pair.Quote):
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	case pair.Base == pair.Quote:
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	case !req.TargetRate.IsPositive():
		return nil, fmt.Errorf("%w: target rate must be positive", apperrors.ErrValidation)
	case !direction.IsValid():
		return nil, fmt.Errorf("%w: direction must be 'above' or 'below'", apperrors.ErrValidation)
	}

	alert := domain.RateAlert{
		AlertID:      uuid.NewString(),
		UserID:       userID,
		FromCurrency: pair.Base,
		ToCurrency:   pair.Quote,
		TargetRate:   req.TargetRate,
		Direction:    direction,
		Active:       true,
		CreatedAt:    s.Now(),
	}
	if err := s.alertRepo.SaveAlert(ctx, alert); err != nil {
		s.LogError(ctx, err, "Failed to save rate alert", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create rate alert: %w", err)
	}

	s.LogInfo(ctx, "Rate alert created",
		slog.String("alert_id", alert.AlertID),
		slog.String("pair", pair.String()),
		slog.String("direction", string(direction)),
		slog.String("target_rate", alert.TargetRate.String()))
	return &alert, nil
}

func (s *AlertService) ListRateAlerts(ctx context.Context, userID string) ([]domain.RateAlert, error) {
	alerts, err := s.alertRepo.ListAlertsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate alerts: %w", err)
	}
	return alerts, nil
}

// CancelRateAlert deactivates one of userID's alerts. Cancelling an alert that
// already fired or was cancelled is a no-op.
func (s *AlertService) CancelRateAlert(ctx context.Context, userID, alertID string) error {
	alert, err := s.alertRepo.FindAlertByID(ctx, alertID)
	if err != nil {
		return fmt.Errorf("failed to get rate alert: %w", err)
	}
	if alert.UserID != userID {
		return apperrors.NewNotFoundError("rate alert " + alertID + " not found")
	}
	if _, err := s.alertRepo.DeactivateAlert(ctx, alertID, s.Now()); err != nil {
		return fmt.Errorf("failed to cancel rate alert: %w", err)
	}
	return nil
}

// EvaluateRate fires the active alerts on record's pair that its rate crosses.
// An alert fires at most once even when evaluations race.
func (s *AlertService) EvaluateRate(ctx context.Context, record domain.RateRecord) ([]domain.RateAlert, error) {
	active, err := s.alertRepo.ListActiveAlertsByPair(ctx, record.Pair())
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts for %s: %w", record.Pair(), err)
	}

	var fired []domain.RateAlert
	for _, alert := range active {
		if !alert.IsTriggeredBy(record.Rate) {
			continue
		}
		now := s.Now()
		event, err := newRateAlertEvent(alert, record.Rate, now)
		if err != nil {
			return fired, err
		}
		ok, err := s.alertRepo.MarkAlertTriggered(ctx, alert.AlertID, record.Rate, now, event)
		if err != nil {
			return fired, fmt.Errorf("failed to mark alert %s triggered: %w", alert.AlertID, err)
		}
		if !ok {
			continue
		}
		rate := record.Rate
		alert.Active = false
		alert.TriggeredAt = &now
		alert.TriggeredRate = &rate
		fired = append(fired, alert)
	}

	if len(fired) > 0 {
		s.Metrics().IncAlertsTriggered(len(fired))
		s.LogInfo(ctx, "Rate alerts triggered",
			slog.String("pair", record.Pair().String()),
			slog.String("rate", record.Rate.String()),
			slog.Int("count", len(fired)))
	}
	return fired, nil
}

// ObserveRates evaluates every record. Failures are logged; the rate read that
// produced the records must not fail because of alerts.
func (s *AlertService) ObserveRates(ctx context.Context, records []domain.RateRecord) {
	for _, r := range records {
		if _, err := s.EvaluateRate(ctx, r); err != nil {
			s.LogError(ctx, err, "Rate alert evaluation failed", slog.String("pair", r.Pair().String()))
		}
	}
}
