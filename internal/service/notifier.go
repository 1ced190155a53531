package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/abdulrafay1716/shopflow-automation/internal/client"
	"github.com/abdulrafay1716/shopflow-automation/internal/model"
)

// SyncSink delivers one order to an external system.
type SyncSink interface {
	Name() string
	Send(ctx context.Context, order *model.Order) error
}

type webhookSink struct {
	client  client.WebhookClient
	version int
	loc     *time.Location
}

// NewWebhookSink posts orders to the spreadsheet webhook.
func NewWebhookSink(webhookClient client.WebhookClient, version int, loc *time.Location) SyncSink {
	return &webhookSink{
		client:  webhookClient,
		version: version,
		loc:     loc,
	}
}

func (s *webhookSink) Name() string { return "webhook" }

func (s *webhookSink) Send(ctx context.Context, order *model.Order) error {
	if !s.client.Enabled() {
		return nil
	}

	record, err := model.NewSyncRecord(order, s.version, s.loc)
	if err != nil {
		return err
	}

	return s.client.PostJSON(ctx, record, s.version)
}

// MessageWriter is the part of *kafka.Writer the kafka sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaSink struct {
	writer  MessageWriter
	version int
	loc     *time.Location
}

// NewKafkaSink publishes orders keyed by order code.
func NewKafkaSink(writer MessageWriter, version int, loc *time.Location) SyncSink {
	return &kafkaSink{
		writer:  writer,
		version: version,
		loc:     loc,
	}
}

func (s *kafkaSink) Name() string { return "kafka" }

func (s *kafkaSink) Send(ctx context.Context, order *model.Order) error {
	record, err := model.NewSyncRecord(order, s.version, s.loc)
	if err != nil {
		return err
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderCode),
		Value: value,
		Headers: []kafka.Header{
			{Key: "payload-version", Value: []byte(fmt.Sprint(s.version))},
		},
	})
}

// SyncNotifier fans created orders out to every sink. Delivery is
// at-most-once and best-effort: a full queue drops the order and sink errors
// are logged, never returned to the order creator.
type SyncNotifier interface {
	// Enqueue never blocks; it reports false when the order was dropped.
	Enqueue(order *model.Order) bool
	// SyncNow delivers synchronously and returns the joined sink errors.
	SyncNow(ctx context.Context, order *model.Order) error
	// Run drains the queue until ctx is done.
	Run(ctx context.Context)
}

type syncNotifierImpl struct {
	sinks   []SyncSink
	queue   chan *model.Order
	timeout time.Duration
	log     zerolog.Logger
}

func NewSyncNotifier(sinks []SyncSink, queueSize int, timeout time.Duration, log zerolog.Logger) SyncNotifier {
	if queueSize < 1 {
		queueSize = 1
	}
	return &syncNotifierImpl{
		sinks:   sinks,
		queue:   make(chan *model.Order, queueSize),
		timeout: timeout,
		log:     log.With().Str("component", "sync_notifier").Logger(),
	}
}

func (n *syncNotifierImpl) Enqueue(order *model.Order) bool {
	if len(n.sinks) == 0 {
		return true
	}

	select {
	case n.queue <- order:
		return true
	default:
		n.log.Warn().Str("order_code", order.OrderCode).Msg("sync queue full, order not synced")
		return false
	}
}

func (n *syncNotifierImpl) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.drain()
			return
		case order := <-n.queue:
			_ = n.deliver(context.Background(), order)
		}
	}
}

// drain flushes what was queued before shutdown.
func (n *syncNotifierImpl) drain() {
	for {
		select {
		case order := <-n.queue:
			_ = n.deliver(context.Background(), order)
		default:
			return
		}
	}
}

func (n *syncNotifierImpl) SyncNow(ctx context.Context, order *model.Order) error {
	return n.deliver(ctx, order)
}

func (n *syncNotifierImpl) deliver(ctx context.Context, order *model.Order) error {
	var errs []error
	for _, sink := range n.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
		err := sink.Send(sendCtx, order)
		cancel()

		if err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrSyncFailure, sink.Name(), err)
			n.log.Error().Err(err).Str("order_code", order.OrderCode).Str("sink", sink.Name()).Msg("order sync failed")
			errs = append(errs, err)
			continue
		}

		n.log.Debug().Str("order_code", order.OrderCode).Str("sink", sink.Name()).Msg("order synced")
	}

	return errors.Join(errs...)
}
