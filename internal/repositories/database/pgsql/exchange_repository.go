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
	"github.com/SscSPs/fx_exchange_engine/internal/utils/accounting"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRepository implements portsrepo.ExchangeRepositoryFacade using pgx.
// Every write that touches balances locks the account rows in ascending ref
// order before reading them.
type PgxExchangeRepository struct {
	BaseRepository
}

func newPgxExchangeRepository(pool *pgxpool.Pool) *PgxExchangeRepository {
	return &PgxExchangeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRepositoryFacade = (*PgxExchangeRepository)(nil)

const selectOrderColumns = `order_id, user_id, source_account_ref, dest_account_ref, from_currency, to_currency,
	from_amount, to_amount, accepted_rate, executed_rate, fee_total, status, reference, failure_reason,
	created_at, updated_at, completed_at, quote_id`

func scanOrder(row pgx.Row) (models.ExchangeOrder, error) {
	var m models.ExchangeOrder
	err := row.Scan(
		&m.OrderID,
		&m.UserID,
		&m.SourceAccountRef,
		&m.DestAccountRef,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.FromAmount,
		&m.ToAmount,
		&m.AcceptedRate,
		&m.ExecutedRate,
		&m.FeeTotal,
		&m.Status,
		&m.Reference,
		&m.FailureReason,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.CompletedAt,
		&m.QuoteID,
	)
	return m, err
}

func collectOrders(rows pgx.Rows) ([]domain.ExchangeOrder, error) {
	defer rows.Close()
	orders := []domain.ExchangeOrder{}
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange order row: %w", err)
		}
		orders = append(orders, mapping.ToDomainExchangeOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange order rows: %w", err)
	}
	return orders, nil
}

func (r *PgxExchangeRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.ExchangeOrder, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + selectOrderColumns + ` FROM exchange_orders WHERE order_id = $1;`
	m, err := scanOrder(r.Pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange order %s: %w", orderID, err)
	}
	o := mapping.ToDomainExchangeOrder(m)
	return &o, nil
}

// ListOrdersByUser pages newest first using a keyset on (created_at, order_id).
func (r *PgxExchangeRepository) ListOrdersByUser(ctx context.Context, userID string, limit int, after *portsrepo.OrderCursor) ([]domain.ExchangeOrder, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `
			SELECT ` + selectOrderColumns + `
			FROM exchange_orders
			WHERE user_id = $1
			ORDER BY created_at DESC, order_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, userID, limit)
	} else {
		query := `
			SELECT ` + selectOrderColumns + `
			FROM exchange_orders
			WHERE user_id = $1 AND (created_at, order_id) < ($2, $3::uuid)
			ORDER BY created_at DESC, order_id DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, userID, after.CreatedAt, after.OrderID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange orders for user %s: %w", userID, err)
	}
	return collectOrders(rows)
}

func (r *PgxExchangeRepository) ListProcessingOrders(ctx context.Context, olderThan time.Time, limit int) ([]domain.ExchangeOrder, error) {
	query := `
		SELECT ` + selectOrderColumns + `
		FROM exchange_orders
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.StatusProcessing), olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing exchange orders: %w", err)
	}
	return collectOrders(rows)
}

const insertOrderQuery = `
	INSERT INTO exchange_orders (` + selectOrderColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

func queueOrderInsert(batch *pgx.Batch, order domain.ExchangeOrder) {
	m := mapping.ToModelExchangeOrder(order)
	batch.Queue(insertOrderQuery,
		m.OrderID,
		m.UserID,
		m.SourceAccountRef,
		m.DestAccountRef,
		m.FromCurrency,
		m.ToCurrency,
		m.FromAmount,
		m.ToAmount,
		m.AcceptedRate,
		m.ExecutedRate,
		m.FeeTotal,
		m.Status,
		m.Reference,
		m.FailureReason,
		m.CreatedAt,
		m.UpdatedAt,
		m.CompletedAt,
		m.QuoteID,
	)
}

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (entry_id, order_id, account_ref, currency_code, amount, entry_type, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func queueLedgerInserts(batch *pgx.Batch, entries []domain.LedgerEntry) {
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(insertLedgerEntryQuery, m.EntryID, m.OrderID, m.AccountRef, m.CurrencyCode, m.Amount, m.EntryType, m.CreatedAt)
	}
}

// SettleExchange consumes the order's quote, locks both accounts, re-verifies
// funds, moves the balances and inserts the order with its ledger entries in a
// single transaction. A rollback leaves the quote unconsumed.
func (r *PgxExchangeRepository) SettleExchange(ctx context.Context, order domain.ExchangeOrder, entries []domain.LedgerEntry) error {
	if err := accounting.ValidateEntries(entries); err != nil {
		return err
	}
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.AccountRef)
	}

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if order.QuoteID != "" {
			if err := consumeQuote(ctx, tx, order.QuoteID, order.OrderID, order.UpdatedAt); err != nil {
				return err
			}
		}
		locked, err := lockAccounts(ctx, tx, refs)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if locked[e.AccountRef].CurrencyCode != e.CurrencyCode {
				return fmt.Errorf("account %s holds %s, ledger entry is in %s", e.AccountRef, locked[e.AccountRef].CurrencyCode, e.CurrencyCode)
			}
		}
		if err := applyBalanceDeltas(ctx, tx, locked, accounting.BalanceDeltas(entries), order.UpdatedAt); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		queueOrderInsert(batch, order)
		queueLedgerInserts(batch, entries)
		return execBatch(ctx, tx, batch, false)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrQuoteConsumed) {
			return err
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order %s", apperrors.ErrDuplicate, order.OrderID)
		}
		return err
	}
	return nil
}

// SaveTerminalOrder records an order that never moved money with its event.
func (r *PgxExchangeRepository) SaveTerminalOrder(ctx context.Context, order domain.ExchangeOrder, event domain.OutboxEvent) error {
	if !order.Status.IsTerminal() {
		return fmt.Errorf("order %s is %s, not terminal", order.OrderID, order.Status)
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queueOrderInsert(batch, order)
		if err := execBatch(ctx, tx, batch, false); err != nil {
			return err
		}
		return insertOutboxEvent(ctx, tx, event)
	})
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: order %s", apperrors.ErrDuplicate, order.OrderID)
	}
	return err
}

// CompleteOrder flips a processing order to completed with a conditional update.
func (r *PgxExchangeRepository) CompleteOrder(ctx context.Context, orderID string, completedAt time.Time, event domain.OutboxEvent) (bool, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return false, apperrors.ErrNotFound
	}
	completed := false
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE exchange_orders
			SET status = $2, updated_at = $3, completed_at = $3
			WHERE order_id = $1 AND status = $4;
		`
		ct, err := tx.Exec(ctx, query, orderID, string(domain.StatusCompleted), completedAt, string(domain.StatusProcessing))
		if err != nil {
			return fmt.Errorf("failed to complete exchange order %s: %w", orderID, err)
		}
		if ct.RowsAffected() == 0 {
			return orderExists(ctx, tx, orderID)
		}
		completed = true
		return insertOutboxEvent(ctx, tx, event)
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// FailOrder reverses the ledger entries of a processing order and marks it failed.
// When an account no longer holds what the order credited it, the transaction
// rolls back and ErrReversalBlocked is returned.
func (r *PgxExchangeRepository) FailOrder(ctx context.Context, orderID, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return false, apperrors.ErrNotFound
	}
	failed := false
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM exchange_orders WHERE order_id = $1 FOR UPDATE;`, orderID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock exchange order %s: %w", orderID, err)
		}
		if domain.ExchangeStatus(status) != domain.StatusProcessing {
			return nil
		}

		entries, err := ledgerEntriesForOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		refs := make([]string, 0, len(entries))
		for _, e := range entries {
			refs = append(refs, e.AccountRef)
		}
		locked, err := lockAccounts(ctx, tx, refs)
		if err != nil {
			return err
		}
		reversal := accounting.ReversalEntries(entries, failedAt)
		if err := applyBalanceDeltas(ctx, tx, locked, accounting.BalanceDeltas(reversal), failedAt); err != nil {
			if errors.Is(err, apperrors.ErrInsufficientFunds) {
				return fmt.Errorf("%w: order %s: %v", apperrors.ErrReversalBlocked, orderID, err)
			}
			return err
		}

		batch := &pgx.Batch{}
		queueLedgerInserts(batch, reversal)
		batch.Queue(`
			UPDATE exchange_orders
			SET status = $2, failure_reason = $3, updated_at = $4
			WHERE order_id = $1;
		`, orderID, string(domain.StatusFailed), reason, failedAt)
		if err := execBatch(ctx, tx, batch, true); err != nil {
			return err
		}
		if err := insertOutboxEvent(ctx, tx, event); err != nil {
			return err
		}
		failed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return failed, nil
}

// FailOrderUnreversed marks a processing order failed without touching balances.
func (r *PgxExchangeRepository) FailOrderUnreversed(ctx context.Context, orderID, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return false, apperrors.ErrNotFound
	}
	failed := false
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE exchange_orders
			SET status = $2, failure_reason = $3, updated_at = $4
			WHERE order_id = $1 AND status = $5;
		`
		ct, err := tx.Exec(ctx, query, orderID, string(domain.StatusFailed), reason, failedAt, string(domain.StatusProcessing))
		if err != nil {
			return fmt.Errorf("failed to mark exchange order %s failed: %w", orderID, err)
		}
		if ct.RowsAffected() == 0 {
			return orderExists(ctx, tx, orderID)
		}
		failed = true
		return insertOutboxEvent(ctx, tx, event)
	})
	if err != nil {
		return false, err
	}
	return failed, nil
}

func orderExists(ctx context.Context, tx pgx.Tx, orderID string) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM exchange_orders WHERE order_id = $1);`, orderID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check exchange order %s: %w", orderID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return nil
}

func ledgerEntriesForOrder(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, order_id, account_ref, currency_code, amount, entry_type, created_at
		FROM ledger_entries
		WHERE order_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries of order %s: %w", orderID, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.OrderID, &m.AccountRef, &m.CurrencyCode, &m.Amount, &m.EntryType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}
