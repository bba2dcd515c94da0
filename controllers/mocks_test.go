package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/controllers"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/middleware"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := controllers.RegisterValidators(); err != nil {
		panic(err)
	}
}

// --- Mock services ---

type mockOrderService struct {
	createFn     func(ctx context.Context, actor models.Actor, req *models.CreateOrderRequest) (*models.Order, *services.ServiceError)
	getFn        func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, *services.ServiceError)
	listMineFn   func(ctx context.Context, actor models.Actor, page, limit int) ([]models.Order, int64, *services.ServiceError)
	listFn       func(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, *services.ServiceError)
	updateFn     func(ctx context.Context, id uuid.UUID, status models.OrderStatus, actor models.Actor) (*models.Order, *services.ServiceError)
	confirmFn    func(ctx context.Context, id uuid.UUID, v models.PaymentVerification) (*models.Order, *services.ServiceError)
	payFailureFn func(ctx context.Context, id uuid.UUID) (*models.Order, *services.ServiceError)
	canMoveFn    func(order *models.Order, status models.OrderStatus, actor models.Actor) *services.ServiceError
}

func (m *mockOrderService) CreateOrder(ctx context.Context, actor models.Actor, req *models.CreateOrderRequest) (*models.Order, *services.ServiceError) {
	return m.createFn(ctx, actor, req)
}
func (m *mockOrderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.getFn(ctx, actor, id)
}
func (m *mockOrderService) ListMyOrders(ctx context.Context, actor models.Actor, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.listMineFn(ctx, actor, page, limit)
}
func (m *mockOrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, *services.ServiceError) {
	return m.listFn(ctx, filter)
}
func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, actor models.Actor) (*models.Order, *services.ServiceError) {
	return m.updateFn(ctx, id, status, actor)
}
func (m *mockOrderService) ConfirmPayment(ctx context.Context, id uuid.UUID, v models.PaymentVerification) (*models.Order, *services.ServiceError) {
	return m.confirmFn(ctx, id, v)
}
func (m *mockOrderService) RecordPaymentFailure(ctx context.Context, id uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.payFailureFn(ctx, id)
}
func (m *mockOrderService) CanTransition(order *models.Order, status models.OrderStatus, actor models.Actor) *services.ServiceError {
	if m.canMoveFn == nil {
		return nil
	}
	return m.canMoveFn(order, status, actor)
}

type mockCouponService struct {
	createFn     func(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError)
	applyFn      func(ctx context.Context, code string, amount float64) (*models.CouponResult, *services.ServiceError)
	listActiveFn func(ctx context.Context, asOf time.Time) ([]models.Coupon, *services.ServiceError)
	listFn       func(ctx context.Context, page, limit int) ([]models.Coupon, int64, *services.ServiceError)
}

func (m *mockCouponService) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockCouponService) ApplyCoupon(ctx context.Context, code string, amount float64) (*models.CouponResult, *services.ServiceError) {
	return m.applyFn(ctx, code, amount)
}
func (m *mockCouponService) RecordUsage(ctx context.Context, code string) error { return nil }
func (m *mockCouponService) ListActive(ctx context.Context, asOf time.Time) ([]models.Coupon, *services.ServiceError) {
	return m.listActiveFn(ctx, asOf)
}
func (m *mockCouponService) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *services.ServiceError) {
	return m.listFn(ctx, page, limit)
}

type mockSettingsService struct {
	getFn    func(ctx context.Context) (*models.BusinessSettings, *services.ServiceError)
	updateFn func(ctx context.Context, req *models.UpdateSettingsRequest) (*models.BusinessSettings, *services.ServiceError)
	publicFn func(ctx context.Context, now time.Time) (*models.PublicSettings, *services.ServiceError)
}

func (m *mockSettingsService) Get(ctx context.Context) (*models.BusinessSettings, *services.ServiceError) {
	return m.getFn(ctx)
}
func (m *mockSettingsService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.BusinessSettings, *services.ServiceError) {
	return m.updateFn(ctx, req)
}
func (m *mockSettingsService) Public(ctx context.Context, now time.Time) (*models.PublicSettings, *services.ServiceError) {
	return m.publicFn(ctx, now)
}

type mockPaymentService struct {
	intentFn  func(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.CreateIntentResponse, *services.ServiceError)
	webhookFn func(ctx context.Context, payload []byte, signature string) *services.ServiceError
	manualFn  func(ctx context.Context, actor models.Actor, req *models.ManualPaymentRequest) (*models.Order, *services.ServiceError)
}

func (m *mockPaymentService) CreateIntent(ctx context.Context, actor models.Actor, orderID uuid.UUID) (*models.CreateIntentResponse, *services.ServiceError) {
	return m.intentFn(ctx, actor, orderID)
}
func (m *mockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) *services.ServiceError {
	return m.webhookFn(ctx, payload, signature)
}
func (m *mockPaymentService) SubmitManualPayment(ctx context.Context, actor models.Actor, req *models.ManualPaymentRequest) (*models.Order, *services.ServiceError) {
	return m.manualFn(ctx, actor, req)
}
func (m *mockPaymentService) HandlePaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	return nil
}

type mockNotificationService struct {
	logsFn func(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

func (m *mockNotificationService) NotifyOrderStatus(context.Context, *models.Order, *models.User, models.NotificationEvent) {
}
func (m *mockNotificationService) NotifyAdminNewOrder(context.Context, *models.Order, *models.User, string) {
}
func (m *mockNotificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return m.logsFn(ctx, filter)
}

// --- Helpers ---

// withActor stands in for the JWT middleware.
func withActor(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, actor.UserID.String())
		c.Set(middleware.RoleContextKey, string(actor.Role))
		c.Next()
	}
}

func doJSON(r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}
