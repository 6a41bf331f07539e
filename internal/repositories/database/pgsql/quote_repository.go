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

type PgxQuoteRepository struct {
	BaseRepository
}

func newPgxQuoteRepository(pool *pgxpool.Pool) *PgxQuoteRepository {
	return &PgxQuoteRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.QuoteRepositoryFacade = (*PgxQuoteRepository)(nil)

const selectQuoteColumns = `quote_id, from_currency, to_currency, from_amount, to_amount, base_rate,
	spread_pct, fee_pct, fee_total, rate_source, rate_observed_at, issued_at, expires_at,
	consumed_by_order_id, consumed_at`

func scanQuote(row pgx.Row) (models.Quote, error) {
	var m models.Quote
	err := row.Scan(
		&m.QuoteID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.FromAmount,
		&m.ToAmount,
		&m.BaseRate,
		&m.SpreadPct,
		&m.FeePct,
		&m.FeeTotal,
		&m.RateSource,
		&m.RateObservedAt,
		&m.IssuedAt,
		&m.ExpiresAt,
		&m.ConsumedByOrderID,
		&m.ConsumedAt,
	)
	return m, err
}

func (r *PgxQuoteRepository) SaveQuote(ctx context.Context, quote domain.Quote) error {
	m := mapping.ToModelQuote(quote)
	query := `
		INSERT INTO quotes (` + selectQuoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.QuoteID,
		m.FromCurrency,
		m.ToCurrency,
		m.FromAmount,
		m.ToAmount,
		m.BaseRate,
		m.SpreadPct,
		m.FeePct,
		m.FeeTotal,
		m.RateSource,
		m.RateObservedAt,
		m.IssuedAt,
		m.ExpiresAt,
		m.ConsumedByOrderID,
		m.ConsumedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: quote %s", apperrors.ErrDuplicate, quote.QuoteID)
		}
		return fmt.Errorf("failed to save quote %s: %w", quote.QuoteID, err)
	}
	return nil
}

func (r *PgxQuoteRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	if _, err := uuid.Parse(quoteID); err != nil {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + selectQuoteColumns + ` FROM quotes WHERE quote_id = $1;`
	m, err := scanQuote(r.Pool.QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quote %s: %w", quoteID, err)
	}
	q := mapping.ToDomainQuote(m)
	return &q, nil
}

// DeleteExpiredQuotes drops unconsumed quotes that expired before cutoff.
// Consumed quotes stay as the record of what an order was priced against.
func (r *PgxQuoteRepository) DeleteExpiredQuotes(ctx context.Context, cutoff time.Time) (int, error) {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM quotes WHERE consumed_by_order_id IS NULL AND expires_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired quotes: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// consumeQuote binds quoteID to orderID inside tx. A quote already bound to
// another order yields ErrQuoteConsumed.
func consumeQuote(ctx context.Context, tx pgx.Tx, quoteID, orderID string, at time.Time) error {
	if _, err := uuid.Parse(quoteID); err != nil {
		return fmt.Errorf("%w: quote %s", apperrors.ErrNotFound, quoteID)
	}
	query := `
		UPDATE quotes
		SET consumed_by_order_id = $2, consumed_at = $3
		WHERE quote_id = $1 AND consumed_by_order_id IS NULL;
	`
	ct, err := tx.Exec(ctx, query, quoteID, orderID, at)
	if err != nil {
		return fmt.Errorf("failed to consume quote %s: %w", quoteID, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE quote_id = $1);`, quoteID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check quote %s: %w", quoteID, err)
	}
	if !exists {
		return fmt.Errorf("%w: quote %s", apperrors.ErrNotFound, quoteID)
	}
	return fmt.Errorf("%w: quote %s", apperrors.ErrQuoteConsumed, quoteID)
}
