package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeDispatchRepo struct {
	records map[uuid.UUID]*models.DispatchRecord
}

func (r *fakeDispatchRepo) Create(_ context.Context, d *models.DispatchRecord) error {
	d.ID = uuid.New()
	cp := *d
	r.records[d.ID] = &cp
	return nil
}

func (r *fakeDispatchRepo) FindByID(_ context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	d, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDispatchRepo) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) error {
	d, ok := r.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.CompletionTime = &at
	return nil
}

func (r *fakeDispatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.records, id)
	return nil
}

func (r *fakeDispatchRepo) FindAll(_ context.Context, _, _ int) ([]models.DispatchRecord, int64, error) {
	var out []models.DispatchRecord
	for _, d := range r.records {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func TestDispatchLifecycle(t *testing.T) {
	env := newOrderEnv(t)
	repo := &fakeDispatchRepo{records: map[uuid.UUID]*models.DispatchRecord{}}
	svc := NewDispatchService(repo, env.svc, zap.NewNop())
	ctx := context.Background()

	order := env.seed(models.OrderStatusPacked, models.PaymentModeCOD, models.PaymentStatusPending)

	record, err := svc.CreateDispatch(ctx, env.admin, &models.CreateDispatchRequest{OrderID: order.ID, RiderName: "Ravi"})
	require.Nil(t, err)
	assert.Equal(t, models.DefaultCourierService, record.ServiceName)
	assert.Equal(t, models.OrderStatusHandedToCourier, env.orders.orders[order.ID].Status)

	done, err := svc.CompleteDispatch(ctx, env.admin, record.ID)
	require.Nil(t, err)
	assert.NotNil(t, done.CompletionTime)
	assert.Equal(t, models.OrderStatusDelivered, env.orders.orders[order.ID].Status)
	assert.Equal(t, []models.NotificationEvent{models.NotifyDispatched, models.NotifyDelivered}, env.notifier.events())

	_, err = svc.CompleteDispatch(ctx, env.admin, record.ID)
	require.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)

	_, err = svc.CompleteDispatch(ctx, env.admin, uuid.New())
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestDispatch_SelfPickupRejected(t *testing.T) {
	env := newOrderEnv(t)
	svc := NewDispatchService(&fakeDispatchRepo{records: map[uuid.UUID]*models.DispatchRecord{}}, env.svc, zap.NewNop())

	order := env.seed(models.OrderStatusPacked, models.PaymentModeCOD, models.PaymentStatusPending)
	env.orders.orders[order.ID].IsSelfPickup = true

	_, err := svc.CreateDispatch(context.Background(), env.admin, &models.CreateDispatchRequest{OrderID: order.ID})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestDispatch_StrictPolicyLeavesNoRecord(t *testing.T) {
	env := newOrderEnv(t, func(d *OrderServiceDeps) {
		d.Policy.Admin = ForwardOnlyAdminTransitions()
	})
	repo := &fakeDispatchRepo{records: map[uuid.UUID]*models.DispatchRecord{}}
	svc := NewDispatchService(repo, env.svc, zap.NewNop())

	order := env.seed(models.OrderStatusPreparing, models.PaymentModeCOD, models.PaymentStatusPending)

	_, err := svc.CreateDispatch(context.Background(), env.admin, &models.CreateDispatchRequest{OrderID: order.ID})
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Empty(t, repo.records)
	assert.Equal(t, models.OrderStatusPreparing, env.orders.orders[order.ID].Status)
}

func TestDispatch_StatusWriteFailureRemovesRecord(t *testing.T) {
	env := newOrderEnv(t)
	repo := &fakeDispatchRepo{records: map[uuid.UUID]*models.DispatchRecord{}}
	svc := NewDispatchService(repo, env.svc, zap.NewNop())

	order := env.seed(models.OrderStatusPacked, models.PaymentModeCOD, models.PaymentStatusPending)
	env.orders.updateErr = errors.New("connection reset")

	_, err := svc.CreateDispatch(context.Background(), env.admin, &models.CreateDispatchRequest{OrderID: order.ID})
	require.NotNil(t, err)
	assert.Equal(t, KindInternal, err.Kind)
	assert.Empty(t, repo.records)
}

func TestDispatch_CompleteRejectedByStrictPolicy(t *testing.T) {
	env := newOrderEnv(t, func(d *OrderServiceDeps) {
		d.Policy.Admin = ForwardOnlyAdminTransitions()
	})
	repo := &fakeDispatchRepo{records: map[uuid.UUID]*models.DispatchRecord{}}
	svc := NewDispatchService(repo, env.svc, zap.NewNop())

	order := env.seed(models.OrderStatusCancelled, models.PaymentModeCOD, models.PaymentStatusPending)
	id := uuid.New()
	repo.records[id] = &models.DispatchRecord{ID: id, OrderID: order.ID}

	_, err := svc.CompleteDispatch(context.Background(), env.admin, id)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Nil(t, repo.records[id].CompletionTime)
}
