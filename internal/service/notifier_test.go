package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

type recordingSink struct {
	mu     sync.Mutex
	name   string
	err    error
	orders []string
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order.OrderCode)
	return s.err
}

func (s *recordingSink) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.orders...)
}

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type stubWebhook struct {
	enabled  bool
	payloads []any
}

func (w *stubWebhook) Enabled() bool { return w.enabled }

func (w *stubWebhook) PostJSON(_ context.Context, payload any, _ int) error {
	w.payloads = append(w.payloads, payload)
	return nil
}

func sampleOrder(code string) *model.Order {
	return &model.Order{
		ID:            "order-" + code,
		OrderCode:     code,
		CustomerName:  "Ayesha Malik",
		PhoneNumber:   "0321-7654321",
		Address:       "House 12, Street 4, Clifton, Karachi",
		City:          "Karachi",
		TotalAmount:   decimal.NewFromInt(4400),
		OrderType:     model.OrderTypeAuto,
		PaymentMethod: model.PaymentMethodCOD,
		CreatedAt:     time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductName: "Cotton Kurta", Quantity: 2, UnitPrice: decimal.NewFromInt(2200)},
		},
	}
}

func TestSyncNotifier_SyncNow(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	broken := &recordingSink{name: "broken", err: errors.New("503")}
	n := NewSyncNotifier([]SyncSink{broken, ok}, 4, time.Second, zerolog.Nop())

	err := n.SyncNow(context.Background(), sampleOrder("CHR-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncFailure)

	// a failing sink does not stop the others
	assert.Equal(t, []string{"CHR-1"}, ok.sent())
}

func TestSyncNotifier_Enqueue(t *testing.T) {
	t.Run("drops when the queue is full", func(t *testing.T) {
		sink := &recordingSink{name: "rec"}
		n := NewSyncNotifier([]SyncSink{sink}, 1, time.Second, zerolog.Nop())

		assert.True(t, n.Enqueue(sampleOrder("CHR-1")))
		assert.False(t, n.Enqueue(sampleOrder("CHR-2")))
	})

	t.Run("no sinks accepts everything", func(t *testing.T) {
		n := NewSyncNotifier(nil, 1, time.Second, zerolog.Nop())
		assert.True(t, n.Enqueue(sampleOrder("CHR-1")))
		assert.True(t, n.Enqueue(sampleOrder("CHR-2")))
	})

	t.Run("run delivers queued orders and drains on shutdown", func(t *testing.T) {
		sink := &recordingSink{name: "rec"}
		n := NewSyncNotifier([]SyncSink{sink}, 8, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			n.Run(ctx)
			close(done)
		}()

		require.True(t, n.Enqueue(sampleOrder("CHR-1")))
		require.Eventually(t, func() bool { return len(sink.sent()) == 1 }, time.Second, 10*time.Millisecond)

		require.True(t, n.Enqueue(sampleOrder("CHR-2")))
		cancel()
		<-done

		assert.Equal(t, []string{"CHR-1", "CHR-2"}, sink.sent())
	})
}

func TestKafkaSink(t *testing.T) {
	w := &captureWriter{}
	sink := NewKafkaSink(w, 2, time.UTC)

	require.NoError(t, sink.Send(context.Background(), sampleOrder("CHR-20260101-0001")))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "CHR-20260101-0001", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "2", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "CHR-20260101-0001", body["order_id"])
	assert.Equal(t, "AUTO", body["type"])
}

func TestWebhookSink(t *testing.T) {
	t.Run("disabled webhook is skipped", func(t *testing.T) {
		hook := &stubWebhook{}
		require.NoError(t, NewWebhookSink(hook, 2, time.UTC).Send(context.Background(), sampleOrder("CHR-1")))
		assert.Empty(t, hook.payloads)
	})

	t.Run("posts the versioned record", func(t *testing.T) {
		hook := &stubWebhook{enabled: true}
		require.NoError(t, NewWebhookSink(hook, 1, time.UTC).Send(context.Background(), sampleOrder("CHR-1")))
		require.Len(t, hook.payloads, 1)
		assert.IsType(t, &model.SyncRecordV1{}, hook.payloads[0])
	})
}
