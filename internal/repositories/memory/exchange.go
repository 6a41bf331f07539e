package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/utils/accounting"
)

func (s *Store) FindOrderByID(ctx context.Context, orderID string) (*domain.ExchangeOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string, limit int, after *portsrepo.OrderCursor) ([]domain.ExchangeOrder, error) {
	s.mu.RLock()
	var orders []domain.ExchangeOrder
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool { return newerThan(orders[i], orders[j].CreatedAt, orders[j].OrderID) })

	out := make([]domain.ExchangeOrder, 0, limit)
	for _, o := range orders {
		if after != nil && !newerThan(domain.ExchangeOrder{CreatedAt: after.CreatedAt, OrderID: after.OrderID}, o.CreatedAt, o.OrderID) {
			continue
		}
		out = append(out, o)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// newerThan orders by creation time descending, then by id descending.
func newerThan(o domain.ExchangeOrder, createdAt time.Time, orderID string) bool {
	if !o.CreatedAt.Equal(createdAt) {
		return o.CreatedAt.After(createdAt)
	}
	return o.OrderID > orderID
}

func (s *Store) ListProcessingOrders(ctx context.Context, olderThan time.Time, limit int) ([]domain.ExchangeOrder, error) {
	s.mu.RLock()
	var due []domain.ExchangeOrder
	for _, o := range s.orders {
		if o.Status == domain.StatusProcessing && o.CreatedAt.Before(olderThan) {
			due = append(due, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// SettleExchange consumes the order's quote, applies the ledger entries and
// inserts the order as one step under the store lock.
func (s *Store) SettleExchange(ctx context.Context, order domain.ExchangeOrder, entries []domain.LedgerEntry) error {
	if err := accounting.ValidateEntries(entries); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return fmt.Errorf("%w: order %s", apperrors.ErrDuplicate, order.OrderID)
	}
	for _, o := range s.orders {
		if o.Reference == order.Reference {
			return fmt.Errorf("%w: order reference %s", apperrors.ErrDuplicate, order.Reference)
		}
	}
	for _, e := range entries {
		acc, ok := s.accounts[e.AccountRef]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.AccountRef)
		}
		if acc.CurrencyCode != e.CurrencyCode {
			return fmt.Errorf("account %s holds %s, ledger entry is in %s", e.AccountRef, acc.CurrencyCode, e.CurrencyCode)
		}
	}
	if order.QuoteID != "" {
		if err := s.consumeQuote(order.QuoteID, order.OrderID, order.UpdatedAt); err != nil {
			return err
		}
	}

	if ref, ok := s.applyDeltas(accounting.BalanceDeltas(entries), order.UpdatedAt); !ok {
		if order.QuoteID != "" {
			s.releaseQuote(order.QuoteID)
		}
		return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, ref)
	}
	s.orders[order.OrderID] = order
	s.ledger[order.OrderID] = append([]domain.LedgerEntry(nil), entries...)
	return nil
}

func (s *Store) SaveTerminalOrder(ctx context.Context, order domain.ExchangeOrder, event domain.OutboxEvent) error {
	if !order.Status.IsTerminal() {
		return fmt.Errorf("order %s is %s, not terminal", order.OrderID, order.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.OrderID]; exists {
		return fmt.Errorf("%w: order %s", apperrors.ErrDuplicate, order.OrderID)
	}
	s.orders[order.OrderID] = order
	s.outbox = append(s.outbox, event)
	return nil
}

func (s *Store) CompleteOrder(ctx context.Context, orderID string, completedAt time.Time, event domain.OutboxEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if o.Status != domain.StatusProcessing {
		return false, nil
	}
	if err := o.TransitionTo(domain.StatusCompleted, completedAt); err != nil {
		return false, err
	}
	s.orders[orderID] = o
	s.outbox = append(s.outbox, event)
	return true, nil
}

// FailOrder reverses the order's ledger entries and marks it failed.
func (s *Store) FailOrder(ctx context.Context, orderID, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if o.Status != domain.StatusProcessing {
		return false, nil
	}

	reversal := accounting.ReversalEntries(s.ledger[orderID], failedAt)
	if ref, ok := s.applyDeltas(accounting.BalanceDeltas(reversal), failedAt); !ok {
		return false, fmt.Errorf("%w: order %s: account %s no longer holds the credited funds", apperrors.ErrReversalBlocked, orderID, ref)
	}
	if err := o.TransitionTo(domain.StatusFailed, failedAt); err != nil {
		return false, err
	}
	o.FailureReason = reason
	s.orders[orderID] = o
	s.ledger[orderID] = append(s.ledger[orderID], reversal...)
	s.outbox = append(s.outbox, event)
	return true, nil
}

// FailOrderUnreversed marks a processing order failed and leaves balances as they are.
func (s *Store) FailOrderUnreversed(ctx context.Context, orderID, reason string, failedAt time.Time, event domain.OutboxEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if o.Status != domain.StatusProcessing {
		return false, nil
	}
	if err := o.TransitionTo(domain.StatusFailed, failedAt); err != nil {
		return false, err
	}
	o.FailureReason = reason
	s.orders[orderID] = o
	s.outbox = append(s.outbox, event)
	return true, nil
}
