package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxRateAlertRepository struct {
	BaseRepository
}

func newPgxRateAlertRepository(pool *pgxpool.Pool) *PgxRateAlertRepository {
	return &PgxRateAlertRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RateAlertRepositoryFacade = (*PgxRateAlertRepository)(nil)

const selectAlertColumns = `alert_id, user_id, from_currency, to_currency, target_rate, direction, active,
	created_at, triggered_at, triggered_rate`

func scanAlert(row pgx.Row) (models.RateAlert, error) {
	var m models.RateAlert
	err := row.Scan(
		&m.AlertID,
		&m.UserID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.TargetRate,
		&m.Direction,
		&m.Active,
		&m.CreatedAt,
		&m.TriggeredAt,
		&m.TriggeredRate,
	)
	return m, err
}

func (r *PgxRateAlertRepository) queryAlerts(ctx context.Context, query string, args ...any) ([]domain.RateAlert, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.RateAlert{}
	for rows.Next() {
		m, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate alert row: %w", err)
		}
		alerts = append(alerts, mapping.ToDomainRateAlert(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate alert rows: %w", err)
	}
	return alerts, nil
}

func (r *PgxRateAlertRepository) FindAlertByID(ctx context.Context, alertID string) (*domain.RateAlert, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + selectAlertColumns + ` FROM rate_alerts WHERE alert_id = $1;`
	m, err := scanAlert(r.Pool.QueryRow(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate alert %s: %w", alertID, err)
	}
	a := mapping.ToDomainRateAlert(m)
	return &a, nil
}

func (r *PgxRateAlertRepository) ListAlertsByUser(ctx context.Context, userID string) ([]domain.RateAlert, error) {
	query := `
		SELECT ` + selectAlertColumns + `
		FROM rate_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	return r.queryAlerts(ctx, query, userID)
}

func (r *PgxRateAlertRepository) ListActiveAlertsByPair(ctx context.Context, pair domain.CurrencyPair) ([]domain.RateAlert, error) {
	query := `
		SELECT ` + selectAlertColumns + `
		FROM rate_alerts
		WHERE from_currency = $1 AND to_currency = $2 AND active
		ORDER BY created_at ASC;
	`
	return r.queryAlerts(ctx, query, pair.Base, pair.Quote)
}

func (r *PgxRateAlertRepository) SaveAlert(ctx context.Context, alert domain.RateAlert) error {
	m := mapping.ToModelRateAlert(alert)
	query := `
		INSERT INTO rate_alerts (` + selectAlertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AlertID,
		m.UserID,
		m.FromCurrency,
		m.ToCurrency,
		m.TargetRate,
		m.Direction,
		m.Active,
		m.CreatedAt,
		m.TriggeredAt,
		m.TriggeredRate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: rate alert %s", apperrors.ErrDuplicate, m.AlertID)
		}
		return fmt.Errorf("failed to save rate alert %s: %w", m.AlertID, err)
	}
	return nil
}

// DeactivateAlert returns false when the alert was already inactive.
func (r *PgxRateAlertRepository) DeactivateAlert(ctx context.Context, alertID string, at time.Time) (bool, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return false, apperrors.ErrNotFound
	}
	ct, err := r.Pool.Exec(ctx, `UPDATE rate_alerts SET active = FALSE WHERE alert_id = $1 AND active;`, alertID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate rate alert %s: %w", alertID, err)
	}
	if ct.RowsAffected() > 0 {
		return true, nil
	}
	if _, err := r.FindAlertByID(ctx, alertID); err != nil {
		return false, err
	}
	return false, nil
}

// MarkAlertTriggered deactivates an active alert and stores its event in one transaction.
func (r *PgxRateAlertRepository) MarkAlertTriggered(ctx context.Context, alertID string, rate decimal.Decimal, at time.Time, event domain.OutboxEvent) (bool, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return false, apperrors.ErrNotFound
	}
	triggered := false
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE rate_alerts
			SET active = FALSE, triggered_at = $2, triggered_rate = $3
			WHERE alert_id = $1 AND active;
		`
		ct, err := tx.Exec(ctx, query, alertID, at, rate)
		if err != nil {
			return fmt.Errorf("failed to mark rate alert %s triggered: %w", alertID, err)
		}
		if ct.RowsAffected() == 0 {
			return nil
		}
		triggered = true
		return insertOutboxEvent(ctx, tx, event)
	})
	if err != nil {
		return false, err
	}
	return triggered, nil
}
