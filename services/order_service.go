package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns checkout and the order status lifecycle.
type OrderService interface {
	CreateOrder(ctx context.Context, actor models.Actor, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, *ServiceError)
	ListMyOrders(ctx context.Context, actor models.Actor, page, limit int) ([]models.Order, int64, *ServiceError)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, *ServiceError)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus, actor models.Actor) (*models.Order, *ServiceError)
	CanTransition(order *models.Order, status models.OrderStatus, actor models.Actor) *ServiceError
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, verification models.PaymentVerification) (*models.Order, *ServiceError)
	RecordPaymentFailure(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError)
}

// StatusBroadcaster pushes order snapshots to realtime subscribers.
type StatusBroadcaster interface {
	BroadcastOrder(order *models.Order, includeAdmin bool)
}

// OrderServiceDeps groups the collaborators of the order service. Events,
// Metrics and RunAsync are optional.
type OrderServiceDeps struct {
	Orders      repository.OrderRepository
	Users       repository.UserRepository
	Settings    SettingsService
	Prices      *PriceResolver
	Coupons     CouponService
	Customers   *CustomerTracker
	Notifier    NotificationService
	Broadcaster StatusBroadcaster
	Policy      TransitionPolicy
	Events      EventPublisher
	EventsTopic string
	Metrics     MetricsRecorder
	// AdminPhone is used when the settings row has no admin phone.
	AdminPhone string
	// RunAsync runs fire-and-forget side effects. Defaults to a new goroutine.
	RunAsync func(func())
	Now      func() time.Time
	Logger   *zap.Logger
}

type orderService struct {
	deps   OrderServiceDeps
	events orderEvents
	logger *zap.Logger
}

const orderNumberAttempts = 3

func NewOrderService(deps OrderServiceDeps) OrderService {
	if deps.RunAsync == nil {
		deps.RunAsync = func(f func()) { go f() }
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &orderService{
		deps: deps,
		events: orderEvents{
			publisher: deps.Events,
			topic:     deps.EventsTopic,
			metrics:   deps.Metrics,
			logger:    deps.Logger,
		},
		logger: deps.Logger,
	}
}

// CreateOrder validates availability, snapshots prices and persists the order,
// then applies the checkout side effects. Only COD orders notify here; other
// payment modes notify from ConfirmPayment.
func (s *orderService) CreateOrder(ctx context.Context, actor models.Actor, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, validationError("No order items")
	}
	if req.TotalAmount < 0 || req.DeliveryCharge < 0 || req.TaxAmount < 0 || req.DiscountAmount < 0 || req.PayableAmount < 0 {
		return nil, validationError("Amounts must not be negative")
	}
	if !req.IsSelfPickup && (req.DeliveryAddress == nil || strings.TrimSpace(req.DeliveryAddress.AddressLine) == "") {
		return nil, validationError("Delivery address is required unless the order is a self pickup")
	}

	settings := s.loadSettings(ctx)
	if !IsStoreOpen(settings, s.deps.Now()) {
		return nil, kitchenClosedError(settings)
	}

	items, svcErr := s.deps.Prices.Resolve(ctx, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		UserID:         actor.UserID,
		Items:          items,
		TotalAmount:    req.TotalAmount,
		DeliveryCharge: req.DeliveryCharge,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PayableAmount:  req.PayableAmount,
		PaymentMode:    req.PaymentMode,
		PaymentStatus:  models.PaymentStatusPending,
		Status:         models.OrderStatusPending,
		IsSelfPickup:   req.IsSelfPickup,
		DeliveryNotes:  req.DeliveryNotes,
		ScheduledTime:  req.ScheduledTime,
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = *req.DeliveryAddress
	}
	if code := normalizeCouponCode(req.CouponCode); code != "" {
		order.CouponCode = &code
	}

	if err := s.persistWithNumber(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.String("user_id", actor.UserID.String()), zap.Error(err))
		return nil, internalError("Failed to create order")
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_mode", string(order.PaymentMode)),
		zap.Float64("payable_amount", order.PayableAmount),
	)

	if order.CouponCode != nil && s.deps.Coupons != nil {
		s.bestEffort("coupon_usage", order, func() error {
			return s.deps.Coupons.RecordUsage(ctx, *order.CouponCode)
		})
	}
	if s.deps.Customers != nil {
		s.bestEffort("customer_aggregate", order, func() error {
			return s.deps.Customers.RecordOrder(ctx, order.UserID, order.PayableAmount)
		})
	}

	s.events.publish(ctx, models.EventOrderCreated, order)
	s.events.count(ctx, MetricOrdersCreated, map[string]string{"PaymentMode": string(order.PaymentMode)})

	if order.PaymentMode == models.PaymentModeCOD {
		s.notifyPlaced(ctx, order, settings)
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.findOrder(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, unauthorizedError("Not authorized to view this order")
	}
	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, actor models.Actor, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.deps.Orders.FindByUser(ctx, actor.UserID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list user orders", zap.String("user_id", actor.UserID.String()), zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

// ListOrders is the admin board: online and UPI orders only appear once
// their payment is verifying or paid.
func (s *orderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, *ServiceError) {
	filter.HideUnsettledOnline = true
	orders, total, err := s.deps.Orders.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus, actor models.Actor) (*models.Order, *ServiceError) {
	if !status.Valid() {
		return nil, validationError(fmt.Sprintf("Unknown order status %q", status))
	}

	order, svcErr := s.findOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if svcErr := s.CanTransition(order, status, actor); svcErr != nil {
		return nil, svcErr
	}

	if !actor.IsAdmin() {
		return s.customerUpdate(ctx, order, status)
	}

	if svcErr := s.setStatus(ctx, order, status); svcErr != nil {
		return nil, svcErr
	}
	s.deps.Broadcaster.BroadcastOrder(order, false)

	if event, ok := models.NotificationEventForStatus(status); ok {
		snapshot := *order
		bg := context.WithoutCancel(ctx)
		s.deps.RunAsync(func() {
			customer := s.loadCustomer(bg, snapshot.UserID)
			s.deps.Notifier.NotifyOrderStatus(bg, &snapshot, customer, event)
		})
	}

	return order, nil
}

// CanTransition reports whether actor may move order to status without
// touching the store. Customers may only cancel a pending order they own.
func (s *orderService) CanTransition(order *models.Order, status models.OrderStatus, actor models.Actor) *ServiceError {
	if actor.IsAdmin() {
		if !s.deps.Policy.Allows(models.RoleAdmin, order.Status, status) {
			return invalidTransitionError(fmt.Sprintf("Cannot move order from %s to %s", order.Status.Label(), status.Label()))
		}
		return nil
	}
	if order.UserID != actor.UserID {
		return unauthorizedError("Not authorized to update this order")
	}
	if status != models.OrderStatusCancelled {
		return unauthorizedError("Customers can only cancel orders")
	}
	if !s.deps.Policy.Allows(models.RoleCustomer, order.Status, status) {
		return invalidTransitionError(fmt.Sprintf("Cannot cancel order. Current status is %s", order.Status.Label()))
	}
	return nil
}

// customerUpdate applies an already authorized customer cancellation.
func (s *orderService) customerUpdate(ctx context.Context, order *models.Order, status models.OrderStatus) (*models.Order, *ServiceError) {
	if svcErr := s.setStatus(ctx, order, status); svcErr != nil {
		return nil, svcErr
	}
	s.deps.Broadcaster.BroadcastOrder(order, true)
	return order, nil
}

// ConfirmPayment records the payment outcome and sends the Placed
// notifications that non-COD orders skipped at checkout. A cancelled order
// keeps the payment record but sends nothing.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, verification models.PaymentVerification) (*models.Order, *ServiceError) {
	order, svcErr := s.findOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	paymentStatus := models.PaymentStatusVerifying
	if verification.Verified {
		paymentStatus = models.PaymentStatusPaid
	}

	if err := s.deps.Orders.UpdatePaymentStatus(ctx, order.ID, paymentStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to update payment status", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, internalError("Failed to update payment status")
	}
	order.PaymentStatus = paymentStatus

	s.logger.Info("Payment confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_status", string(paymentStatus)),
	)

	s.deps.Broadcaster.BroadcastOrder(order, true)
	s.events.publish(ctx, models.EventOrderPaid, order)
	s.events.count(ctx, MetricPaymentSucceeded, map[string]string{"PaymentMode": string(order.PaymentMode)})

	if order.Status == models.OrderStatusCancelled {
		s.logger.Warn("Payment received for cancelled order, skipping notifications",
			zap.String("order_number", order.OrderNumber),
			zap.String("payment_status", string(paymentStatus)),
		)
		return order, nil
	}

	snapshot := *order
	bg := context.WithoutCancel(ctx)
	s.deps.RunAsync(func() {
		s.notifyPlaced(bg, &snapshot, s.loadSettings(bg))
	})

	return order, nil
}

func (s *orderService) RecordPaymentFailure(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.findOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		// a late failure event must not undo a capture
		return order, nil
	}
	if err := s.deps.Orders.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusFailed); err != nil {
		s.logger.Error("Failed to mark payment failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, internalError("Failed to update payment status")
	}
	order.PaymentStatus = models.PaymentStatusFailed
	s.deps.Broadcaster.BroadcastOrder(order, false)
	s.events.count(ctx, MetricPaymentFailed, map[string]string{"PaymentMode": string(order.PaymentMode)})
	return order, nil
}

// notifyPlaced is shared by the COD checkout path and the payment path.
func (s *orderService) notifyPlaced(ctx context.Context, order *models.Order, settings *models.BusinessSettings) {
	customer := s.loadCustomer(ctx, order.UserID)
	s.deps.Notifier.NotifyOrderStatus(ctx, order, customer, models.NotifyPlaced)

	adminPhone := s.deps.AdminPhone
	if settings != nil && settings.AdminPhone != "" {
		adminPhone = settings.AdminPhone
	}
	s.deps.Notifier.NotifyAdminNewOrder(ctx, order, customer, adminPhone)
}

func (s *orderService) setStatus(ctx context.Context, order *models.Order, status models.OrderStatus) *ServiceError {
	if err := s.deps.Orders.UpdateStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Order not found")
		}
		s.logger.Error("Failed to update order status", zap.String("order_id", order.ID.String()), zap.Error(err))
		return internalError("Failed to update order status")
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = s.deps.Now()

	s.logger.Info("Order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	s.events.publish(ctx, models.EventOrderStatusChanged, order)
	switch status {
	case models.OrderStatusDelivered:
		s.events.count(ctx, MetricOrdersDelivered, nil)
	case models.OrderStatusCancelled:
		s.events.count(ctx, MetricOrdersCancelled, nil)
	}
	return nil
}

func (s *orderService) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.deps.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to load order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to load order")
	}
	return order, nil
}

// persistWithNumber assigns a random display number and inserts the order,
// drawing a new number if the unique index rejects it.
func (s *orderService) persistWithNumber(ctx context.Context, order *models.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber()
		if err = s.deps.Orders.Create(ctx, order); err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		s.logger.Warn("Order number collision, retrying", zap.String("order_number", order.OrderNumber))
	}
	return err
}

func (s *orderService) loadSettings(ctx context.Context) *models.BusinessSettings {
	if s.deps.Settings == nil {
		return nil
	}
	settings, svcErr := s.deps.Settings.Get(ctx)
	if svcErr != nil {
		s.logger.Warn("Business settings unavailable, treating kitchen as open", zap.String("error", svcErr.Message))
		return nil
	}
	return settings
}

func (s *orderService) loadCustomer(ctx context.Context, userID uuid.UUID) *models.User {
	user, err := s.deps.Users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Customer not found for notification", zap.String("user_id", userID.String()), zap.Error(err))
		return nil
	}
	return user
}

// bestEffort runs a checkout side effect whose failure must not fail checkout.
func (s *orderService) bestEffort(name string, order *models.Order, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Error("Checkout side effect failed",
			zap.String("side_effect", name),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
}

func kitchenClosedError(settings *models.BusinessSettings) *ServiceError {
	err := validationError("Kitchen is currently closed. Please order during business hours.")
	err.Reason = ReasonKitchenClosed
	err.Details = map[string]interface{}{"open_time": "", "close_time": ""}
	if settings != nil {
		err.Details["open_time"] = settings.OpenTime
		err.Details["close_time"] = settings.CloseTime
		err.Details["is_holiday"] = settings.IsHoliday
	}
	return err
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", 100000+rand.Intn(900000))
}
