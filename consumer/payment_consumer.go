package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"go.uber.org/zap"
)

// PaymentEventHandler applies one payment event. A non-nil error asks the
// transport to redeliver.
type PaymentEventHandler interface {
	HandlePaymentEvent(ctx context.Context, event models.PaymentEvent) error
}

// decodePaymentEvent turns a queue body into a PaymentEvent. Malformed
// bodies report ok=false; they are acknowledged and dropped because
// redelivery cannot fix them.
func decodePaymentEvent(body []byte, logger *zap.Logger) (models.PaymentEvent, bool) {
	var evt models.PaymentEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		logger.Warn("Invalid payment event JSON", zap.Error(err), zap.ByteString("payload", body))
		return evt, false
	}
	if evt.OrderID == "" || evt.EventType == "" {
		logger.Warn("Payment event missing fields",
			zap.String("order_id", evt.OrderID),
			zap.String("event_type", evt.EventType),
		)
		return evt, false
	}
	return evt, true
}

func handleBody(ctx context.Context, handler PaymentEventHandler, body []byte, logger *zap.Logger) error {
	evt, ok := decodePaymentEvent(body, logger)
	if !ok {
		return nil
	}
	logger.Info("Payment event received",
		zap.String("order_id", evt.OrderID),
		zap.String("event_type", evt.EventType),
	)
	if err := handler.HandlePaymentEvent(ctx, evt); err != nil {
		return fmt.Errorf("payment event for order %s: %w", evt.OrderID, err)
	}
	return nil
}
