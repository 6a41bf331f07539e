package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/services"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedOutbox(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		order := domain.ExchangeOrder{
			OrderID:   "order-" + string(rune('a'+i)),
			UserID:    testUser,
			Status:    domain.StatusRejectedSlippage,
			Reference: "FX-REF-" + string(rune('a'+i)),
			CreatedAt: at,
			UpdatedAt: at,
		}
		event := domain.OutboxEvent{
			EventID:     "event-" + string(rune('a'+i)),
			EventType:   domain.EventExchangeRejected,
			AggregateID: order.OrderID,
			Payload:     []byte(`{}`),
			CreatedAt:   at,
		}
		require.NoError(t, store.SaveTerminalOrder(context.Background(), order, event))
	}
}

func TestOutboxRelay_PublishesAndMarks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedOutbox(t, store, 3)

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []domain.OutboxEvent) bool {
		return len(events) == 2
	})).Return(nil).Once()
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []domain.OutboxEvent) bool {
		return len(events) == 1
	})).Return(nil).Once()

	relay := services.NewOutboxRelay(store, publisher, 2)

	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	publisher.AssertExpectations(t)
}

func TestOutboxRelay_PublishFailureKeepsEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedOutbox(t, store, 1)

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker unreachable")).Once()

	relay := services.NewOutboxRelay(store, publisher, 10)
	_, err := relay.RelayOnce(ctx)
	require.Error(t, err)

	pending, err := store.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	publisher.AssertExpectations(t)
}
