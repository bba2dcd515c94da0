package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNotifier(s *recordingSender, marker *fakeMarker) (NotificationService, *fakeNotificationRepo) {
	repo := &fakeNotificationRepo{}
	var m repository.NotificationMarker
	if marker != nil {
		m = marker
	}
	svc := NewNotificationService(repo, m, s.senders(), NotificationOptions{
		Timeout:     time.Second,
		RetryDelay:  time.Millisecond,
		KitchenName: "Test Kitchen",
		FrontendURL: "https://kitchen.test/",
	}, zap.NewNop())
	return svc, repo
}

func testOrder(mode models.PaymentMode) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-482913",
		PayableAmount: 565.5,
		PaymentMode:   mode,
		Items:         []models.OrderItem{{Name: "Thali", Quantity: 2}},
	}
}

func testCustomer(email string) *models.User {
	u := &models.User{ID: uuid.New(), Name: "Asha", Phone: "9876543210"}
	if email != "" {
		u.Email = &email
	}
	return u
}

func channels(msgs []sentMessage) []string {
	var out []string
	for _, m := range msgs {
		out = append(out, m.channel)
	}
	return out
}

func TestNotifyOrderStatus_PlacedCOD(t *testing.T) {
	rec := &recordingSender{}
	svc, repo := newTestNotifier(rec, nil)

	svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeCOD), testCustomer("asha@example.com"), models.NotifyPlaced)

	msgs := rec.messages()
	assert.ElementsMatch(t, []string{models.ChannelSMS, models.ChannelEmail, models.ChannelWhatsApp}, channels(msgs))
	for _, m := range msgs {
		switch m.channel {
		case models.ChannelSMS:
			assert.Equal(t, "Order #ORD-482913 for ₹565.5 is confirmed via Cash on Delivery. Keep cash ready!", m.body)
		case models.ChannelEmail:
			assert.Equal(t, "asha@example.com", m.to)
			assert.Equal(t, "Order Confirmed! #ORD-482913", m.subject)
			assert.Contains(t, m.body, "Test Kitchen")
			assert.Contains(t, m.body, "https://kitchen.test/track/")
			assert.Contains(t, m.body, "COD")
		case models.ChannelWhatsApp:
			assert.Equal(t, "Hi Asha, your order #ORD-482913 has been placed. Total: ₹565.5.", m.body)
		}
	}

	statuses := repo.statuses()
	assert.Equal(t, models.StatusSent, statuses[models.ChannelEmail])
	assert.Equal(t, models.StatusSent, statuses[models.ChannelWhatsApp])
	assert.Equal(t, models.StatusSent, statuses[models.ChannelSMS])
}

func TestNotifyOrderStatus_ChannelSelection(t *testing.T) {
	t.Run("Online order has no COD text", func(t *testing.T) {
		rec := &recordingSender{}
		svc, _ := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeOnline), testCustomer("asha@example.com"), models.NotifyPlaced)
		assert.ElementsMatch(t, []string{models.ChannelEmail, models.ChannelWhatsApp}, channels(rec.messages()))
	})

	t.Run("No email skips email", func(t *testing.T) {
		rec := &recordingSender{}
		svc, _ := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeCOD), testCustomer(""), models.NotifyPacked)
		assert.Equal(t, []string{models.ChannelWhatsApp}, channels(rec.messages()))
		assert.Equal(t, "Hi Asha, great news! Your order #ORD-482913 is packed and ready for dispatch.", rec.messages()[0].body)
	})

	t.Run("Delivered subject has no placeholders", func(t *testing.T) {
		rec := &recordingSender{}
		svc, _ := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeCOD), testCustomer("asha@example.com"), models.NotifyDelivered)
		for _, m := range rec.messages() {
			if m.channel == models.ChannelEmail {
				assert.Equal(t, "Delivered! Enjoy your meal", m.subject)
			}
		}
	})

	t.Run("Unknown customer or event is a no-op", func(t *testing.T) {
		rec := &recordingSender{}
		svc, _ := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeCOD), nil, models.NotifyPlaced)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeCOD), testCustomer(""), models.NotificationEvent("Refunded"))
		assert.Empty(t, rec.messages())
	})
}

func TestNotifyOrderStatus_Deduplicates(t *testing.T) {
	rec := &recordingSender{}
	svc, _ := newTestNotifier(rec, &fakeMarker{})
	order := testOrder(models.PaymentModeOnline)
	customer := testCustomer("")

	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPlaced)
	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPlaced)
	assert.Len(t, rec.messages(), 1)

	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPacked)
	assert.Len(t, rec.messages(), 2)
}

func TestNotifyOrderStatus_FailedDeliveryCanBeRetried(t *testing.T) {
	rec := &recordingSender{failures: map[string]int{models.ChannelWhatsApp: 2}}
	svc, _ := newTestNotifier(rec, &fakeMarker{})
	order := testOrder(models.PaymentModeOnline)
	customer := testCustomer("")

	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPacked)
	assert.Empty(t, rec.messages())

	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPacked)
	assert.Len(t, rec.messages(), 1)

	svc.NotifyOrderStatus(context.Background(), order, customer, models.NotifyPacked)
	assert.Len(t, rec.messages(), 1)
}

func TestNotifyAdminNewOrder_FailedDeliveryCanBeRetried(t *testing.T) {
	rec := &recordingSender{failures: map[string]int{models.ChannelWhatsApp: 2}}
	svc, _ := newTestNotifier(rec, &fakeMarker{})
	order := testOrder(models.PaymentModeCOD)

	svc.NotifyAdminNewOrder(context.Background(), order, testCustomer(""), "9000000000")
	assert.Empty(t, rec.messages())

	svc.NotifyAdminNewOrder(context.Background(), order, testCustomer(""), "9000000000")
	assert.Len(t, rec.messages(), 1)
}

func TestNotifyOrderStatus_MarkerFailureSendsAnyway(t *testing.T) {
	rec := &recordingSender{}
	svc, _ := newTestNotifier(rec, &fakeMarker{err: errors.New("redis down")})

	svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeOnline), testCustomer(""), models.NotifyPlaced)
	assert.Len(t, rec.messages(), 1)
}

func TestNotifyOrderStatus_RetryAndFailure(t *testing.T) {
	t.Run("Recovers on second attempt", func(t *testing.T) {
		rec := &recordingSender{failures: map[string]int{models.ChannelWhatsApp: 1}}
		svc, repo := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeOnline), testCustomer(""), models.NotifyDispatched)
		assert.Len(t, rec.messages(), 1)
		assert.Equal(t, models.StatusSent, repo.statuses()[models.ChannelWhatsApp])
	})

	t.Run("Gives up and records failure", func(t *testing.T) {
		rec := &recordingSender{failures: map[string]int{models.ChannelWhatsApp: 5}}
		svc, repo := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeOnline), testCustomer(""), models.NotifyDispatched)
		assert.Empty(t, rec.messages())

		logs, _, err := repo.GetLogs(context.Background(), models.NotificationFilter{})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, models.StatusFailed, logs[0].Status)
		assert.Equal(t, "whatsapp provider down", logs[0].Error)
		assert.Equal(t, string(models.NotifyDispatched), logs[0].Event)
	})

	t.Run("Log provider is recorded as logged", func(t *testing.T) {
		rec := &recordingSender{provider: sender.ProviderLog}
		svc, repo := newTestNotifier(rec, nil)
		svc.NotifyOrderStatus(context.Background(), testOrder(models.PaymentModeOnline), testCustomer(""), models.NotifyDispatched)
		assert.Equal(t, models.StatusLogged, repo.statuses()[models.ChannelWhatsApp])
	})
}

func TestNotifyAdminNewOrder(t *testing.T) {
	rec := &recordingSender{}
	svc, repo := newTestNotifier(rec, nil)
	order := testOrder(models.PaymentModeUPI)

	svc.NotifyAdminNewOrder(context.Background(), order, nil, "9000000000")

	msgs := rec.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.ChannelWhatsApp, msgs[0].channel)
	assert.Equal(t, "9000000000", msgs[0].to)
	assert.Equal(t, "New Order Received!\nOrder ID: #ORD-482913\nCustomer: Guest\nAmount: ₹565.5\nPayment: UPI\nItems: 1\nCheck dashboard for details.", msgs[0].body)

	logs, _, _ := repo.GetLogs(context.Background(), models.NotificationFilter{})
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].UserID)

	svc.NotifyAdminNewOrder(context.Background(), testOrder(models.PaymentModeCOD), testCustomer(""), " ")
	assert.Len(t, rec.messages(), 1)
}
