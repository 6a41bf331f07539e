package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fx_exchange_engine/internal/core/ports/services"
)

// CompletionConfig controls which processing orders a completion pass picks up.
type CompletionConfig struct {
	MinAge    time.Duration
	BatchSize int
}

// completionService drives processing orders to completed or failed. Every step
// is a conditional state change, so a pass can be retried or run concurrently
// with another without applying anything twice.
type completionService struct {
	BaseService
	exchangeRepo portsrepo.ExchangeRepositoryFacade
	confirmer    gateways.SettlementConfirmer
	cfg          CompletionConfig
}

// NewCompletionService creates the completion step. confirmer may be nil, in
// which case every processing order is completed.
func NewCompletionService(exchangeRepo portsrepo.ExchangeRepositoryFacade, confirmer gateways.SettlementConfirmer, cfg CompletionConfig, opts ...Option) portssvc.CompletionSvc {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &completionService{
		BaseService:  newBaseService(opts),
		exchangeRepo: exchangeRepo,
		confirmer:    confirmer,
		cfg:          cfg,
	}
}

// CompleteOrder confirms and completes one processing order. Terminal orders
// are returned unchanged.
func (s *completionService) CompleteOrder(ctx context.Context, orderID string) (*domain.ExchangeOrder, error) {
	order, err := s.exchangeRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order for completion: %w", err)
	}
	if order.Status.IsTerminal() {
		return order, nil
	}
	if order.Status != domain.StatusProcessing {
		return nil, fmt.Errorf("%w: order %s is %s and cannot be completed", apperrors.ErrValidation, orderID, order.Status)
	}

	if s.confirmer != nil {
		if err := s.confirmer.Confirm(ctx, *order); err != nil {
			if errors.Is(err, apperrors.ErrSettlementRejected) {
				return s.fail(ctx, *order, err.Error())
			}
			// Transient: the order stays in processing for the next pass.
			return nil, fmt.Errorf("settlement confirmation for order %s: %w", orderID, err)
		}
	}

	now := s.Now()
	completed := *order
	if err := completed.TransitionTo(domain.StatusCompleted, now); err != nil {
		return nil, err
	}
	event, err := newExchangeEvent(domain.EventExchangeCompleted, completed, now)
	if err != nil {
		return nil, err
	}
	moved, err := s.exchangeRepo.CompleteOrder(ctx, orderID, now, event)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}
	if moved {
		s.Metrics().IncOrderCompletion(string(domain.StatusCompleted))
		s.LogInfo(ctx, "Exchange order completed",
			slog.String("order_id", orderID), slog.String("reference", order.Reference))
	}
	return s.reload(ctx, orderID)
}

func (s *completionService) fail(ctx context.Context, order domain.ExchangeOrder, reason string) (*domain.ExchangeOrder, error) {
	now := s.Now()
	failed := order
	if err := failed.TransitionTo(domain.StatusFailed, now); err != nil {
		return nil, err
	}
	failed.FailureReason = reason
	event, err := newExchangeEvent(domain.EventExchangeFailed, failed, now)
	if err != nil {
		return nil, err
	}
	moved, err := s.exchangeRepo.FailOrder(ctx, order.OrderID, reason, now, event)
	if errors.Is(err, apperrors.ErrReversalBlocked) {
		return s.failUnreversed(ctx, failed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fail order %s: %w", order.OrderID, err)
	}
	if moved {
		s.Metrics().IncOrderCompletion(string(domain.StatusFailed))
		s.GetLogger(ctx).Warn("Exchange order failed at settlement, balances reversed",
			slog.String("order_id", order.OrderID),
			slog.String("reference", order.Reference),
			slog.String("reason", reason))
	}
	return s.reload(ctx, order.OrderID)
}

// failUnreversed settles an order whose reversal cannot be applied: it is marked
// failed with its balances left as they are and flagged for reconciliation.
func (s *completionService) failUnreversed(ctx context.Context, failed domain.ExchangeOrder, cause error) (*domain.ExchangeOrder, error) {
	reason := failed.FailureReason + "; reversal blocked, manual reconciliation required"
	failed.FailureReason = reason
	event, err := newExchangeEvent(domain.EventExchangeReconciliationRequired, failed, failed.UpdatedAt)
	if err != nil {
		return nil, err
	}
	moved, err := s.exchangeRepo.FailOrderUnreversed(ctx, failed.OrderID, reason, failed.UpdatedAt, event)
	if err != nil {
		return nil, fmt.Errorf("failed to flag order %s for reconciliation: %w", failed.OrderID, err)
	}
	if moved {
		s.Metrics().IncOrderCompletion("reconciliation_required")
		s.LogError(ctx, cause, "Exchange order failed but could not be reversed",
			slog.String("order_id", failed.OrderID),
			slog.String("reference", failed.Reference))
	}
	return s.reload(ctx, failed.OrderID)
}

func (s *completionService) reload(ctx context.Context, orderID string) (*domain.ExchangeOrder, error) {
	order, err := s.exchangeRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %s: %w", orderID, err)
	}
	return order, nil
}

// CompleteDueOrders runs one pass over processing orders older than MinAge.
// Per-order errors are collected; the remaining orders are still attempted.
func (s *completionService) CompleteDueOrders(ctx context.Context) (int, error) {
	due, err := s.exchangeRepo.ListProcessingOrders(ctx, s.Now().Add(-s.cfg.MinAge), s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list processing orders: %w", err)
	}

	moved := 0
	var errs []error
	for _, o := range due {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := s.CompleteOrder(ctx, o.OrderID)
		if err != nil {
			s.LogError(ctx, err, "Completion attempt failed, will retry", slog.String("order_id", o.OrderID))
			errs = append(errs, err)
			continue
		}
		if result.Status.IsTerminal() {
			moved++
		}
	}
	return moved, errors.Join(errs...)
}
