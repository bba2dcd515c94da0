package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"go.uber.org/zap"
)

// EventPublisher publishes domain events to a topic. Both the SNS client and
// the Kafka producer satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, message []byte) error
}

// MetricsRecorder records business counters.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// Business metric names.
const (
	MetricOrdersCreated    = "OrdersCreated"
	MetricOrdersDelivered  = "OrdersDelivered"
	MetricOrdersCancelled  = "OrdersCancelled"
	MetricPaymentSucceeded = "PaymentSucceeded"
	MetricPaymentFailed    = "PaymentFailed"
)

type orderEvents struct {
	publisher EventPublisher
	topic     string
	metrics   MetricsRecorder
	logger    *zap.Logger
}

func (e orderEvents) publish(ctx context.Context, eventType string, order *models.Order) {
	if e.publisher == nil || e.topic == "" {
		e.logger.Debug("event publisher not configured, skipping", zap.String("event_type", eventType))
		return
	}

	event := models.OrderEvent{
		EventType:     eventType,
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID.String(),
		Status:        order.Status,
		PaymentMode:   order.PaymentMode,
		PaymentStatus: order.PaymentStatus,
		PayableAmount: order.PayableAmount,
		Timestamp:     time.Now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}

	if err := e.publisher.Publish(ctx, e.topic, eventBytes); err != nil {
		e.logger.Error("Failed to publish order event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	e.logger.Info("Published order event",
		zap.String("event_type", eventType),
		zap.String("order_number", order.OrderNumber),
	)
}

func (e orderEvents) count(ctx context.Context, metric string, dims map[string]string) {
	if e.metrics == nil {
		return
	}
	if err := e.metrics.RecordCount(ctx, metric, dims); err != nil {
		e.logger.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
