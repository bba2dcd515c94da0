package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const retryBackoff = 2 * time.Second

// MessageReader is the part of kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPaymentConsumer reads payment events from a Kafka topic. Offsets are
// committed only after the handler succeeds.
type KafkaPaymentConsumer struct {
	reader  MessageReader
	handler PaymentEventHandler
	logger  *zap.Logger
	backoff time.Duration
}

func NewKafkaPaymentConsumer(brokers []string, topic, groupID string, handler PaymentEventHandler, logger *zap.Logger) *KafkaPaymentConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	logger.Info("Kafka payment consumer initialized",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", brokers),
	)
	return newKafkaPaymentConsumer(r, handler, logger)
}

func newKafkaPaymentConsumer(reader MessageReader, handler PaymentEventHandler, logger *zap.Logger) *KafkaPaymentConsumer {
	return &KafkaPaymentConsumer{reader: reader, handler: handler, logger: logger, backoff: retryBackoff}
}

// Start blocks until ctx is cancelled. A failed message is retried before
// anything after it in the partition.
func (c *KafkaPaymentConsumer) Start(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			c.logger.Warn("Kafka fetch failed", zap.Error(err))
			if !c.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		for {
			err := handleBody(ctx, c.handler, m.Value, c.logger)
			if err == nil {
				break
			}
			c.logger.Warn("Payment event failed, retrying", zap.Int64("offset", m.Offset), zap.Error(err))
			if !c.sleep(ctx) {
				return ctx.Err()
			}
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Warn("Kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func (c *KafkaPaymentConsumer) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.backoff):
		return true
	}
}

func (c *KafkaPaymentConsumer) Close() error {
	return c.reader.Close()
}
