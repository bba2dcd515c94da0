package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NotificationService tells customers and the kitchen about order milestones.
// Delivery failures are logged and recorded, never returned.
type NotificationService interface {
	NotifyOrderStatus(ctx context.Context, order *models.Order, customer *models.User, event models.NotificationEvent)
	NotifyAdminNewOrder(ctx context.Context, order *models.Order, customer *models.User, adminPhone string)
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type eventConfig struct {
	subject string
	message string
	// html, when set, renders the email body instead of the plain message.
	html *template.Template
}

var placedEmailTemplate = template.Must(template.New("placed").Parse(`<div style="font-family: sans-serif; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <h2 style="color: #ef4444;">Order Confirmed!</h2>
  <p>Hi {{.Name}}, your order <b>#{{.OrderNumber}}</b> has been received. We are starting to prepare your meal!</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr style="background: #f9f9f9;"><th style="text-align: left; padding: 10px;">Items</th><th style="text-align: right; padding: 10px;">Total</th></tr>
    <tr><td style="padding: 10px;">{{.ItemCount}} items from {{.KitchenName}}</td><td style="text-align: right; padding: 10px;">₹{{.Amount}}</td></tr>
  </table>
  <p style="margin-top: 20px;"><b>Payment Mode:</b> {{.PaymentMode}}</p>
  <p>Track your order here: <a href="{{.TrackURL}}" style="color: #ef4444;">Order Tracking</a></p>
</div>`))

// Placeholders {name}, {order} and {amount} are filled per order.
var eventConfigs = map[models.NotificationEvent]eventConfig{
	models.NotifyPlaced: {
		subject: "Order Confirmed! #{order}",
		message: "Hi {name}, your order #{order} has been placed. Total: ₹{amount}.",
		html:    placedEmailTemplate,
	},
	models.NotifyPacked: {
		subject: "Your Order is Packed! #{order}",
		message: "Hi {name}, great news! Your order #{order} is packed and ready for dispatch.",
	},
	models.NotifyDispatched: {
		subject: "Order Out for Delivery! #{order}",
		message: "Hi {name}, your order #{order} is on the way! Our delivery partner will reach you shortly.",
	},
	models.NotifyDelivered: {
		subject: "Delivered! Enjoy your meal",
		message: "Hi {name}, your order #{order} has been delivered. We hope you love the flavors!",
	},
}

// NotificationOptions tunes delivery. Zero values select the defaults.
type NotificationOptions struct {
	// Timeout bounds each provider call.
	Timeout time.Duration
	// MaxAttempts per channel, including the first.
	MaxAttempts int
	RetryDelay  time.Duration
	KitchenName string
	FrontendURL string
}

type notificationService struct {
	repo    repository.NotificationRepository
	marker  repository.NotificationMarker
	senders sender.Senders
	opts    NotificationOptions
	logger  *zap.Logger
}

// NewNotificationService wires the senders. repo and marker may be nil.
func NewNotificationService(
	repo repository.NotificationRepository,
	marker repository.NotificationMarker,
	senders sender.Senders,
	opts NotificationOptions,
	logger *zap.Logger,
) NotificationService {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 2
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.KitchenName == "" {
		opts.KitchenName = "Cloud Kitchen"
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:5173"
	}
	return &notificationService{
		repo:    repo,
		marker:  marker,
		senders: senders,
		opts:    opts,
		logger:  logger,
	}
}

// delivery is one message on one channel.
type delivery struct {
	channel string
	to      string
	subject string
	body    string
}

func (s *notificationService) NotifyOrderStatus(ctx context.Context, order *models.Order, customer *models.User, event models.NotificationEvent) {
	cfg, ok := eventConfigs[event]
	if !ok || order == nil || customer == nil {
		return
	}
	if !s.firstTime(ctx, order.ID, event) {
		return
	}

	amount := formatAmount(order.PayableAmount)
	fill := strings.NewReplacer("{name}", customer.Name, "{order}", order.OrderNumber, "{amount}", amount)
	subject := fill.Replace(cfg.subject)
	message := fill.Replace(cfg.message)

	var deliveries []delivery

	if event == models.NotifyPlaced && order.PaymentMode == models.PaymentModeCOD && customer.Phone != "" {
		deliveries = append(deliveries, delivery{
			channel: models.ChannelSMS,
			to:      customer.Phone,
			body:    fmt.Sprintf("Order #%s for ₹%s is confirmed via Cash on Delivery. Keep cash ready!", order.OrderNumber, amount),
		})
	}

	if customer.Email != nil && strings.TrimSpace(*customer.Email) != "" {
		body := "<p>" + template.HTMLEscapeString(message) + "</p>"
		if cfg.html != nil {
			if rendered, err := s.renderEmail(cfg.html, order, customer); err == nil {
				body = rendered
			} else {
				s.logger.Warn("email template render failed, sending plain message", zap.Error(err))
			}
		}
		deliveries = append(deliveries, delivery{
			channel: models.ChannelEmail,
			to:      strings.TrimSpace(*customer.Email),
			subject: subject,
			body:    body,
		})
	}

	if customer.Phone != "" {
		deliveries = append(deliveries, delivery{channel: models.ChannelWhatsApp, to: customer.Phone, body: message})
	}

	if !s.deliverAll(ctx, order, &customer.ID, string(event), deliveries) {
		s.release(ctx, order.ID, event)
	}
}

func (s *notificationService) NotifyAdminNewOrder(ctx context.Context, order *models.Order, customer *models.User, adminPhone string) {
	if order == nil || strings.TrimSpace(adminPhone) == "" {
		return
	}
	if !s.firstTime(ctx, order.ID, models.NotifyAdminNewOrder) {
		return
	}

	name := "Guest"
	if customer != nil && customer.Name != "" {
		name = customer.Name
	}
	message := fmt.Sprintf("New Order Received!\nOrder ID: #%s\nCustomer: %s\nAmount: ₹%s\nPayment: %s\nItems: %d\nCheck dashboard for details.",
		order.OrderNumber, name, formatAmount(order.PayableAmount), displayPaymentMode(order.PaymentMode), len(order.Items))

	delivered := s.deliverAll(ctx, order, nil, string(models.NotifyAdminNewOrder), []delivery{
		{channel: models.ChannelWhatsApp, to: adminPhone, body: message},
	})
	if !delivered {
		s.release(ctx, order.ID, models.NotifyAdminNewOrder)
	}
}

func (s *notificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	if s.repo == nil {
		return nil, 0, nil
	}
	return s.repo.GetLogs(ctx, filter)
}

// firstTime claims the (order, event) marker. Marker failures let the send go ahead.
// The claim covers admin re-sends too: setting an order back to packed does not
// send a second Packed message while the marker lives.
func (s *notificationService) firstTime(ctx context.Context, orderID uuid.UUID, event models.NotificationEvent) bool {
	if s.marker == nil {
		return true
	}
	first, err := s.marker.MarkOnce(ctx, orderID.String(), string(event))
	if err != nil {
		s.logger.Warn("notification marker unavailable, sending anyway",
			zap.String("order_id", orderID.String()),
			zap.String("event", string(event)),
			zap.Error(err),
		)
		return true
	}
	if !first {
		s.logger.Info("notification already sent, skipping",
			zap.String("order_id", orderID.String()),
			zap.String("event", string(event)),
		)
	}
	return first
}

// release drops a claimed marker after every delivery failed, so a later
// trigger can retry the notification.
func (s *notificationService) release(ctx context.Context, orderID uuid.UUID, event models.NotificationEvent) {
	if s.marker == nil {
		return
	}
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
	defer cancel()
	if err := s.marker.Release(releaseCtx, orderID.String(), string(event)); err != nil {
		s.logger.Warn("failed to release notification marker",
			zap.String("order_id", orderID.String()),
			zap.String("event", string(event)),
			zap.Error(err),
		)
	}
}

// deliverAll sends every delivery concurrently and waits for all of them. It
// reports whether at least one delivery went out.
func (s *notificationService) deliverAll(ctx context.Context, order *models.Order, userID *uuid.UUID, event string, deliveries []delivery) bool {
	var g errgroup.Group
	var delivered atomic.Bool
	for _, d := range deliveries {
		d := d
		g.Go(func() error {
			if s.sendWithRetry(ctx, order, userID, event, d) {
				delivered.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()
	return delivered.Load()
}

func (s *notificationService) sendWithRetry(ctx context.Context, order *models.Order, userID *uuid.UUID, event string, d delivery) bool {
	var lastErr error
	var result sender.SendResult

	for attempt := 0; attempt < s.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(attempt) * s.opts.RetryDelay):
			}
			if ctx.Err() != nil {
				lastErr = ctx.Err()
				break
			}
		}

		result, lastErr = s.sendOnce(ctx, d)
		if lastErr == nil {
			break
		}

		s.logger.Warn("send attempt failed",
			zap.String("channel", d.channel),
			zap.String("event", event),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	status := models.StatusSent
	errMsg := ""
	switch {
	case lastErr != nil:
		status = models.StatusFailed
		errMsg = lastErr.Error()
	case result.Provider == sender.ProviderLog:
		status = models.StatusLogged
	}

	s.logger.Info("notification processed",
		zap.String("order_number", order.OrderNumber),
		zap.String("event", event),
		zap.String("channel", d.channel),
		zap.String("status", status),
		zap.String("message_id", result.MessageID),
	)

	if s.repo == nil {
		return lastErr == nil
	}
	logEntry := &models.NotificationLog{
		UserID:    userID,
		OrderID:   order.ID,
		Recipient: d.to,
		Event:     event,
		Channel:   d.channel,
		Status:    status,
		Error:     errMsg,
	}
	// the log write must not be cut short by an expiring request context
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
	defer cancel()
	if err := s.repo.SaveLog(saveCtx, logEntry); err != nil {
		s.logger.Error("failed to save notification log", zap.Error(err))
	}
	return lastErr == nil
}

func (s *notificationService) sendOnce(ctx context.Context, d delivery) (sender.SendResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	switch d.channel {
	case models.ChannelEmail:
		return s.senders.Email.SendEmail(callCtx, d.to, d.subject, d.body)
	case models.ChannelSMS:
		return s.senders.SMS.SendSMS(callCtx, d.to, d.body)
	case models.ChannelWhatsApp:
		return s.senders.Chat.SendChat(callCtx, d.to, d.body)
	}
	return sender.SendResult{}, fmt.Errorf("unsupported channel: %s", d.channel)
}

func (s *notificationService) renderEmail(tmpl *template.Template, order *models.Order, customer *models.User) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]interface{}{
		"Name":        customer.Name,
		"OrderNumber": order.OrderNumber,
		"ItemCount":   len(order.Items),
		"KitchenName": s.opts.KitchenName,
		"Amount":      formatAmount(order.PayableAmount),
		"PaymentMode": displayPaymentMode(order.PaymentMode),
		"TrackURL":    strings.TrimSuffix(s.opts.FrontendURL, "/") + "/track/" + order.ID.String(),
	})
	if err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}

func displayPaymentMode(m models.PaymentMode) string {
	switch m {
	case models.PaymentModeCOD:
		return "COD"
	case models.PaymentModeUPI:
		return "UPI"
	case models.PaymentModeOnline:
		return "Online"
	}
	return string(m)
}
