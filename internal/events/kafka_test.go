package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_WriterPerTopic(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"})
	writers := map[string]*recordingWriter{}
	p.newWriter = func(topic string) messageWriter {
		w := &recordingWriter{}
		writers[topic] = w
		return w
	}

	total := 1000.0
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, TopicOrders, Event{Type: TypeOrderCreated, ID: 42, UserID: 7, Status: "pending", TotalAmount: &total, OccurredAt: at}))
	require.NoError(t, p.Publish(ctx, TopicOrders, Event{Type: TypeOrderStatusChanged, ID: 42, UserID: 7, Status: "shipped", OccurredAt: at}))
	require.NoError(t, p.Publish(ctx, TopicPrescriptions, Event{Type: TypePrescriptionVerified, ID: 3, UserID: 7, Status: "verified", OccurredAt: at}))

	require.Len(t, writers, 2)
	orders := writers[TopicOrders]
	require.Len(t, orders.msgs, 2)
	assert.Equal(t, "42", string(orders.msgs[0].Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(orders.msgs[0].Value, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.EqualValues(t, 1000, decoded["total_amount"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(orders.msgs[1].Value, &second))
	_, hasTotal := second["total_amount"]
	assert.False(t, hasTotal)

	require.NoError(t, p.Close())
	assert.True(t, orders.closed)
	assert.True(t, writers[TopicPrescriptions].closed)
}
