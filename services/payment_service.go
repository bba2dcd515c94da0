package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentCurrency = "inr"

// PaymentService records payments and reports their outcome to the order
// lifecycle through ConfirmPayment.
type PaymentService interface {
	CreateIntent(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.CreateIntentResponse, *ServiceError)
	HandleWebhook(ctx context.Context, payload []byte, signature string) *ServiceError
	SubmitManualPayment(ctx context.Context, actor models.Actor, req *models.ManualPaymentRequest) (*models.Order, *ServiceError)
	HandlePaymentEvent(ctx context.Context, event models.PaymentEvent) error
}

type paymentService struct {
	payments repository.PaymentRepository
	orders   OrderService
	gateway  PaymentGateway
	logger   *zap.Logger
}

// NewPaymentService wires the payment flows. gateway may be nil when online
// payments are not configured; manual UPI still works.
func NewPaymentService(payments repository.PaymentRepository, orders OrderService, gateway PaymentGateway, logger *zap.Logger) PaymentService {
	return &paymentService{payments: payments, orders: orders, gateway: gateway, logger: logger}
}

func (s *paymentService) CreateIntent(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.CreateIntentResponse, *ServiceError) {
	if s.gateway == nil {
		return nil, upstreamError("Online payments are not configured")
	}

	order, svcErr := s.payableOrder(ctx, actor, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	intent, err := s.gateway.CreateIntent(ctx, toMinorUnits(order.PayableAmount), paymentCurrency, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      order.UserID.String(),
	})
	if err != nil {
		s.logger.Error("Failed to create payment intent", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, upstreamError("Failed to create payment")
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		UserID:         order.UserID,
		GatewayOrderID: intent.ID,
		Amount:         order.PayableAmount,
		Currency:       "INR",
		Status:         models.PaymentRecordCreated,
		Method:         models.PaymentMethodStripe,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to save payment", zap.String("payment_intent_id", intent.ID), zap.Error(err))
		return nil, internalError("Failed to save payment")
	}

	s.logger.Info("Payment intent created",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_intent_id", intent.ID),
	)

	return &models.CreateIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          order.PayableAmount,
		Currency:        payment.Currency,
	}, nil
}

// HandleWebhook verifies a gateway callback and applies it. Replayed events
// for a payment already in a terminal state are acknowledged and skipped.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) *ServiceError {
	if s.gateway == nil {
		return upstreamError("Online payments are not configured")
	}

	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return validationError("invalid webhook")
	}

	s.logger.Info("Processing payment webhook",
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID),
	)

	if event.Outcome == "" {
		return nil
	}

	payment, err := s.payments.FindByGatewayOrderID(ctx, event.PaymentIntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Payment not found for webhook", zap.String("payment_intent_id", event.PaymentIntentID))
			return nil
		}
		s.logger.Error("Failed to load payment", zap.Error(err))
		return internalError("Failed to load payment")
	}

	if isTerminalPayment(payment.Status) {
		s.logger.Info("Skipping duplicate payment webhook",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", payment.Status),
		)
		return nil
	}

	switch event.Outcome {
	case GatewayPaymentSucceeded:
		if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentRecordCaptured, event.ChargeID); err != nil {
			s.logger.Error("Failed to capture payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			return internalError("Failed to update payment")
		}
		payment.Status = models.PaymentRecordCaptured
		payment.GatewayPaymentID = event.ChargeID
		_, svcErr := s.orders.ConfirmPayment(ctx, payment.OrderID, models.PaymentVerification{Verified: true, Payment: payment})
		return svcErr

	case GatewayPaymentFailed:
		if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentRecordFailed, event.ChargeID); err != nil {
			s.logger.Error("Failed to mark payment failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			return internalError("Failed to update payment")
		}
		_, svcErr := s.orders.RecordPaymentFailure(ctx, payment.OrderID)
		return svcErr
	}
	return nil
}

// SubmitManualPayment stores a customer-supplied UPI reference and moves the
// order to verifying for admin review.
func (s *paymentService) SubmitManualPayment(ctx context.Context, actor models.Actor, req *models.ManualPaymentRequest) (*models.Order, *ServiceError) {
	order, svcErr := s.payableOrder(ctx, actor, req.OrderID)
	if svcErr != nil {
		return nil, svcErr
	}

	payment := &models.Payment{
		OrderID:       order.ID,
		UserID:        order.UserID,
		TransactionID: req.TransactionID,
		Amount:        order.PayableAmount,
		Currency:      "INR",
		Status:        models.PaymentRecordSuccess,
		Method:        models.PaymentMethodUPIManual,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to save manual payment", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, internalError("Failed to save payment")
	}

	return s.orders.ConfirmPayment(ctx, order.ID, models.PaymentVerification{Verified: false, Payment: payment})
}

// HandlePaymentEvent applies a queued payment event. A returned error leaves
// the message on the queue for redelivery.
func (s *paymentService) HandlePaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		s.logger.Warn("Invalid order_id in payment event", zap.String("order_id", event.OrderID))
		return nil
	}

	var svcErr *ServiceError
	switch event.EventType {
	case models.EventPaymentSucceeded:
		_, svcErr = s.orders.ConfirmPayment(ctx, orderID, models.PaymentVerification{Verified: true})
	case models.EventPaymentFailed:
		_, svcErr = s.orders.RecordPaymentFailure(ctx, orderID)
	default:
		s.logger.Info("Ignoring payment event", zap.String("event_type", event.EventType))
		return nil
	}

	if svcErr != nil {
		if svcErr.Kind == KindNotFound {
			s.logger.Warn("Payment event for unknown order", zap.String("order_id", event.OrderID))
			return nil
		}
		return svcErr
	}
	return nil
}

// payableOrder loads an order the actor may pay for.
func (s *paymentService) payableOrder(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.orders.GetOrder(ctx, actor, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.PaymentMode == models.PaymentModeCOD {
		return nil, validationError("Cash on delivery orders are paid to the courier")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, conflictError("Order is already paid")
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, validationError("Order is cancelled")
	}
	return order, nil
}

func isTerminalPayment(status string) bool {
	switch status {
	case models.PaymentRecordCaptured, models.PaymentRecordFailed, models.PaymentRecordRefunded:
		return true
	}
	return false
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
