package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision, created_at
		FROM currencies
		WHERE currency_code = $1;
	`
	var m models.Currency
	err := r.Pool.QueryRow(ctx, query, currencyCode).Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.Precision,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision, created_at
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		var m models.Currency
		if err := rows.Scan(&m.CurrencyCode, &m.Symbol, &m.Name, &m.Precision, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, mapping.ToDomainCurrency(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return currencies, nil
}
