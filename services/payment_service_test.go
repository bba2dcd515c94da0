package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakePaymentRepo struct {
	payments map[uuid.UUID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*models.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	p.ID = uuid.New()
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByGatewayOrderID(_ context.Context, id string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.GatewayOrderID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status, gatewayPaymentID string) error {
	p, ok := r.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	p.GatewayPaymentID = gatewayPaymentID
	return nil
}

func (r *fakePaymentRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeGateway struct {
	amounts []int64
	event   *GatewayEvent
	err     error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, _ string, metadata map[string]string) (*Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amounts = append(g.amounts, amountMinor)
	return &Intent{ID: "pi_" + metadata["order_number"], ClientSecret: "secret"}, nil
}

func (g *fakeGateway) ParseEvent(_ []byte, signature string) (*GatewayEvent, error) {
	if signature != "valid" {
		return nil, errors.New("signature mismatch")
	}
	return g.event, nil
}

func newPaymentEnv(t *testing.T) (*orderEnv, *fakePaymentRepo, *fakeGateway, PaymentService) {
	env := newOrderEnv(t)
	payments := newFakePaymentRepo()
	gateway := &fakeGateway{}
	return env, payments, gateway, NewPaymentService(payments, env.svc, gateway, zap.NewNop())
}

func TestCreateIntent(t *testing.T) {
	env, payments, gateway, svc := newPaymentEnv(t)
	ctx := context.Background()

	order := env.seed(models.OrderStatusPending, models.PaymentModeOnline, models.PaymentStatusPending)
	res, err := svc.CreateIntent(ctx, env.actor(), order.ID)
	require.Nil(t, err)
	assert.Equal(t, "pi_ORD-123456", res.PaymentIntentID)
	assert.Equal(t, []int64{30000}, gateway.amounts)

	stored, _ := payments.FindByGatewayOrderID(ctx, "pi_ORD-123456")
	require.NotNil(t, stored)
	assert.Equal(t, models.PaymentRecordCreated, stored.Status)
	assert.Equal(t, models.PaymentMethodStripe, stored.Method)

	cod := env.seed(models.OrderStatusPending, models.PaymentModeCOD, models.PaymentStatusPending)
	_, err = svc.CreateIntent(ctx, env.actor(), cod.ID)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)

	gateway.err = errors.New("stripe unavailable")
	_, err = svc.CreateIntent(ctx, env.actor(), order.ID)
	require.NotNil(t, err)
	assert.Equal(t, KindUpstream, err.Kind)
}

func TestCreateIntent_NoGateway(t *testing.T) {
	env := newOrderEnv(t)
	svc := NewPaymentService(newFakePaymentRepo(), env.svc, nil, zap.NewNop())
	_, err := svc.CreateIntent(context.Background(), env.actor(), uuid.New())
	require.NotNil(t, err)
	assert.Equal(t, KindUpstream, err.Kind)
}

func TestHandleWebhook(t *testing.T) {
	env, payments, gateway, svc := newPaymentEnv(t)
	ctx := context.Background()

	order := env.seed(models.OrderStatusPending, models.PaymentModeOnline, models.PaymentStatusPending)
	_, err := svc.CreateIntent(ctx, env.actor(), order.ID)
	require.Nil(t, err)

	t.Run("Bad signature", func(t *testing.T) {
		err := svc.HandleWebhook(ctx, []byte("{}"), "forged")
		require.NotNil(t, err)
		assert.Equal(t, KindValidation, err.Kind)
	})

	t.Run("Success captures and confirms", func(t *testing.T) {
		gateway.event = &GatewayEvent{Outcome: GatewayPaymentSucceeded, PaymentIntentID: "pi_ORD-123456", ChargeID: "ch_1"}
		require.Nil(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))

		stored, _ := payments.FindByGatewayOrderID(ctx, "pi_ORD-123456")
		assert.Equal(t, models.PaymentRecordCaptured, stored.Status)
		assert.Equal(t, "ch_1", stored.GatewayPaymentID)
		assert.Equal(t, models.PaymentStatusPaid, env.orders.orders[order.ID].PaymentStatus)
		assert.Equal(t, []models.NotificationEvent{models.NotifyPlaced, models.NotifyAdminNewOrder}, env.notifier.events())
	})

	t.Run("Replay is skipped", func(t *testing.T) {
		require.Nil(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))
		assert.Len(t, env.notifier.events(), 2)
	})

	t.Run("Unhandled event type", func(t *testing.T) {
		gateway.event = &GatewayEvent{Type: "charge.refunded"}
		assert.Nil(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))
	})
}

func TestHandleWebhook_Failure(t *testing.T) {
	env, payments, gateway, svc := newPaymentEnv(t)
	ctx := context.Background()

	order := env.seed(models.OrderStatusPending, models.PaymentModeOnline, models.PaymentStatusPending)
	_, err := svc.CreateIntent(ctx, env.actor(), order.ID)
	require.Nil(t, err)

	gateway.event = &GatewayEvent{Outcome: GatewayPaymentFailed, PaymentIntentID: "pi_ORD-123456"}
	require.Nil(t, svc.HandleWebhook(ctx, []byte("{}"), "valid"))

	stored, _ := payments.FindByGatewayOrderID(ctx, "pi_ORD-123456")
	assert.Equal(t, models.PaymentRecordFailed, stored.Status)
	assert.Equal(t, models.PaymentStatusFailed, env.orders.orders[order.ID].PaymentStatus)
	assert.Empty(t, env.notifier.events())
}

func TestSubmitManualPayment(t *testing.T) {
	env, payments, _, svc := newPaymentEnv(t)
	ctx := context.Background()

	order := env.seed(models.OrderStatusPending, models.PaymentModeUPI, models.PaymentStatusPending)
	updated, err := svc.SubmitManualPayment(ctx, env.actor(), &models.ManualPaymentRequest{OrderID: order.ID, TransactionID: "UPI123456789"})
	require.Nil(t, err)
	assert.Equal(t, models.PaymentStatusVerifying, updated.PaymentStatus)

	recs, _ := payments.FindByOrder(ctx, order.ID)
	require.Len(t, recs, 1)
	assert.Equal(t, models.PaymentMethodUPIManual, recs[0].Method)
	assert.Equal(t, models.PaymentRecordSuccess, recs[0].Status)
	assert.Equal(t, "UPI123456789", recs[0].TransactionID)

	stranger := models.Actor{UserID: uuid.New(), Role: models.RoleCustomer}
	_, err = svc.SubmitManualPayment(ctx, stranger, &models.ManualPaymentRequest{OrderID: order.ID, TransactionID: "UPI123456789"})
	require.NotNil(t, err)
	assert.Equal(t, KindUnauthorized, err.Kind)
}

func TestHandlePaymentEvent(t *testing.T) {
	env, _, _, svc := newPaymentEnv(t)
	ctx := context.Background()

	order := env.seed(models.OrderStatusPending, models.PaymentModeOnline, models.PaymentStatusPending)
	require.NoError(t, svc.HandlePaymentEvent(ctx, models.PaymentEvent{EventType: models.EventPaymentSucceeded, OrderID: order.ID.String()}))
	assert.Equal(t, models.PaymentStatusPaid, env.orders.orders[order.ID].PaymentStatus)

	failed := env.seed(models.OrderStatusPending, models.PaymentModeOnline, models.PaymentStatusPending)
	require.NoError(t, svc.HandlePaymentEvent(ctx, models.PaymentEvent{EventType: models.EventPaymentFailed, OrderID: failed.ID.String()}))
	assert.Equal(t, models.PaymentStatusFailed, env.orders.orders[failed.ID].PaymentStatus)

	assert.NoError(t, svc.HandlePaymentEvent(ctx, models.PaymentEvent{EventType: models.EventPaymentSucceeded, OrderID: uuid.NewString()}))
	assert.NoError(t, svc.HandlePaymentEvent(ctx, models.PaymentEvent{EventType: models.EventPaymentSucceeded, OrderID: "not-a-uuid"}))
}
