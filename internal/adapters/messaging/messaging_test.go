package messaging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:     "evt-1",
		EventType:   domain.EventExchangeCompleted,
		AggregateID: "order-1",
		Payload:     []byte(`{"orderID":"order-1"}`),
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestToMessages(t *testing.T) {
	messages := toMessages([]domain.OutboxEvent{sampleEvent()})

	require.Len(t, messages, 1)
	m := messages[0]
	assert.Equal(t, "order-1", string(m.Key))
	assert.JSONEq(t, `{"orderID":"order-1"}`, string(m.Value))
	require.Len(t, m.Headers, 2)
	assert.Equal(t, headerEventType, m.Headers[0].Key)
	assert.Equal(t, domain.EventExchangeCompleted, string(m.Headers[0].Value))
	assert.Equal(t, "evt-1", string(m.Headers[1].Value))
}

func TestKafkaPublisher_EmptyBatchIsNoop(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:0"}, "fx.events")
	assert.NoError(t, p.Publish(context.Background()))
	assert.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Contains(t, buf.String(), `"event_type":"exchange.completed"`)
	assert.Contains(t, buf.String(), `"aggregate_id":"order-1"`)
	assert.NoError(t, p.Close())
}
