package consumer

import (
	"context"

	awspkg "github.com/puneetkushwaha/Mom-sKitchen-Backend/pkg/aws"
	"go.uber.org/zap"
)

// Poller is the queue side of SQSPaymentConsumer.
type Poller interface {
	StartPolling(ctx context.Context, handler awspkg.MessageHandler) error
}

// SQSPaymentConsumer feeds payment events from an SQS queue into the order
// lifecycle.
type SQSPaymentConsumer struct {
	poller  Poller
	handler PaymentEventHandler
	logger  *zap.Logger
}

func NewSQSPaymentConsumer(poller Poller, handler PaymentEventHandler, logger *zap.Logger) *SQSPaymentConsumer {
	return &SQSPaymentConsumer{poller: poller, handler: handler, logger: logger}
}

// Start blocks until ctx is cancelled.
func (c *SQSPaymentConsumer) Start(ctx context.Context) error {
	return c.poller.StartPolling(ctx, c.handle)
}

func (c *SQSPaymentConsumer) handle(ctx context.Context, body string) error {
	return handleBody(ctx, c.handler, []byte(body), c.logger)
}
