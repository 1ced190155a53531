package client

import (
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/abdulrafay1716/shopflow-automation/internal/config"
)

// NewKafkaWriter returns nil when no brokers are configured.
func NewKafkaWriter(cfg config.Kafka) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		return nil
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{}, // keyed by order code
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireOne,
	}
}
