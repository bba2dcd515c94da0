package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order events to Kafka. The topic is chosen per message
// so one writer serves every topic.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers))
	return &Producer{writer: w, logger: logger}
}

// Publish writes message to topic. Messages are keyed by order_id when the
// payload carries one so that events of one order stay in one partition.
func (p *Producer) Publish(ctx context.Context, topic string, message []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   orderKey(message),
		Value: message,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s failed: %w", topic, err)
	}
	p.logger.Debug("Kafka message sent", zap.String("topic", topic), zap.Int("size", len(message)))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func orderKey(message []byte) []byte {
	var probe struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(message, &probe); err != nil || probe.OrderID == "" {
		return nil
	}
	return []byte(probe.OrderID)
}
