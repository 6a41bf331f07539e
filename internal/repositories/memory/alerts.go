package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveAlert(ctx context.Context, alert domain.RateAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.AlertID] = alert
	return nil
}

func (s *Store) FindAlertByID(ctx context.Context, alertID string) (*domain.RateAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[alertID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListAlertsByUser(ctx context.Context, userID string) ([]domain.RateAlert, error) {
	return s.filterAlerts(func(a domain.RateAlert) bool { return a.UserID == userID }), nil
}

func (s *Store) ListActiveAlertsByPair(ctx context.Context, pair domain.CurrencyPair) ([]domain.RateAlert, error) {
	return s.filterAlerts(func(a domain.RateAlert) bool {
		return a.Active && a.FromCurrency == pair.Base && a.ToCurrency == pair.Quote
	}), nil
}

func (s *Store) filterAlerts(keep func(domain.RateAlert) bool) []domain.RateAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RateAlert
	for _, a := range s.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].AlertID < out[j].AlertID
	})
	return out
}

func (s *Store) DeactivateAlert(ctx context.Context, alertID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[alertID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if !a.Active {
		return false, nil
	}
	a.Active = false
	s.alerts[alertID] = a
	return true, nil
}

func (s *Store) MarkAlertTriggered(ctx context.Context, alertID string, rate decimal.Decimal, at time.Time, event domain.OutboxEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[alertID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if !a.Active {
		return false, nil
	}
	a.Active = false
	a.TriggeredAt = &at
	a.TriggeredRate = &rate
	s.alerts[alertID] = a
	s.outbox = append(s.outbox, event)
	return true, nil
}
