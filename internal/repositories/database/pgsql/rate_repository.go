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
)

// PgxRateRepository implements portsrepo.RateRepositoryFacade using pgx.
type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for rate observations.
func newPgxRateRepository(pool *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

const selectRateColumns = `rate_record_id, base_currency, quote_currency, rate, spread_pct, fee_pct, observed_at, source`

func scanRateRecord(row pgx.Row) (models.RateRecord, error) {
	var m models.RateRecord
	err := row.Scan(
		&m.RateRecordID,
		&m.BaseCurrency,
		&m.QuoteCurrency,
		&m.Rate,
		&m.SpreadPct,
		&m.FeePct,
		&m.ObservedAt,
		&m.Source,
	)
	return m, err
}

// SaveRateRecords appends every record in one batch.
func (r *PgxRateRepository) SaveRateRecords(ctx context.Context, records []domain.RateRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO rate_records (` + selectRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelRateRecord(rec)
		if m.RateRecordID == "" {
			m.RateRecordID = uuid.NewString()
		}
		batch.Queue(query,
			m.RateRecordID,
			m.BaseCurrency,
			m.QuoteCurrency,
			m.Rate,
			m.SpreadPct,
			m.FeePct,
			m.ObservedAt,
			m.Source,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: rate record %s", apperrors.ErrDuplicate, records[i].ID)
			}
			return fmt.Errorf("failed to insert rate record %d: %w", i, err)
		}
	}
	return nil
}

// FindLatestRate retrieves the newest observation for pair.
func (r *PgxRateRepository) FindLatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.RateRecord, error) {
	query := `
		SELECT ` + selectRateColumns + `
		FROM rate_records
		WHERE base_currency = $1 AND quote_currency = $2
		ORDER BY observed_at DESC
		LIMIT 1;
	`
	m, err := scanRateRecord(r.Pool.QueryRow(ctx, query, pair.Base, pair.Quote))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest rate for %s: %w", pair, err)
	}
	rec := mapping.ToDomainRateRecord(m)
	return &rec, nil
}

// ListRateRecords retrieves observations in [since, until], oldest first.
func (r *PgxRateRepository) ListRateRecords(ctx context.Context, pair domain.CurrencyPair, since, until time.Time) ([]domain.RateRecord, error) {
	query := `
		SELECT ` + selectRateColumns + `
		FROM rate_records
		WHERE base_currency = $1 AND quote_currency = $2
		  AND observed_at >= $3 AND observed_at <= $4
		ORDER BY observed_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, pair.Base, pair.Quote, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate records for %s: %w", pair, err)
	}
	defer rows.Close()

	records := []domain.RateRecord{}
	for rows.Next() {
		m, err := scanRateRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate record row: %w", err)
		}
		records = append(records, mapping.ToDomainRateRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate record rows: %w", err)
	}
	return records, nil
}
