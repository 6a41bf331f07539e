package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/models"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const selectAccountColumns = `account_ref, user_id, kind, currency_code, balance, updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountRef, &m.UserID, &m.Kind, &m.CurrencyCode, &m.Balance, &m.UpdatedAt)
	return m, err
}

// FindAccountByRef retrieves one account balance.
func (r *PgxAccountRepository) FindAccountByRef(ctx context.Context, accountRef string) (*domain.AccountBalance, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE account_ref = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountRef, err)
	}
	a := mapping.ToDomainAccountBalance(m)
	return &a, nil
}

// lockAccounts locks the given accounts in ascending ref order and returns them
// by ref. Must be called within a transaction.
func lockAccounts(ctx context.Context, tx pgx.Tx, refs []string) (map[string]domain.AccountBalance, error) {
	refs = sortedUnique(refs)
	if len(refs) == 0 {
		return map[string]domain.AccountBalance{}, nil
	}
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE account_ref = ANY($1)
		ORDER BY account_ref
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.AccountBalance, len(refs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked[m.AccountRef] = mapping.ToDomainAccountBalance(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(locked) != len(refs) {
		var missing []string
		for _, ref := range refs {
			if _, ok := locked[ref]; !ok {
				missing = append(missing, ref)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: accounts %v", apperrors.ErrNotFound, missing)
	}
	return locked, nil
}

// applyBalanceDeltas adds each delta to its locked account. It refuses, without
// writing anything, a delta that would take a balance below zero and returns
// the offending ref with apperrors.ErrInsufficientFunds.
func applyBalanceDeltas(ctx context.Context, tx pgx.Tx, locked map[string]domain.AccountBalance, deltas map[string]decimal.Decimal, at time.Time) error {
	for ref, delta := range deltas {
		if locked[ref].Balance.Add(delta).IsNegative() {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, ref)
		}
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE account_ref = $1;
	`
	batch := &pgx.Batch{}
	for _, ref := range sortedUnique(keys(deltas)) {
		if deltas[ref].IsZero() {
			continue
		}
		batch.Queue(query, ref, deltas[ref], at)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := execBatch(ctx, tx, batch, true); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func keys(m map[string]decimal.Decimal) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
