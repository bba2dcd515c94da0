package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"gorm.io/gorm"
)

// --- Repositories ---

type fakeOrderRepo struct {
	orders     map[uuid.UUID]*models.Order
	createErrs []error
	updateErr  error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	stored := *o
	r.orders[o.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if filter.HideUnsettledOnline && o.PaymentMode != models.PaymentModeCOD &&
			o.PaymentStatus != models.PaymentStatusVerifying && o.PaymentStatus != models.PaymentStatusPaid {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = status
	return nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	statsErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SaveOTP(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.OTPHash = hash
	u.OTPExpiresAt = &expiresAt
	u.OTPAttempts = 0
	return nil
}

func (r *fakeUserRepo) ClearOTP(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.OTPHash = ""
		u.OTPExpiresAt = nil
		u.OTPAttempts = 0
	}
	return nil
}

func (r *fakeUserRepo) RecordOTPFailure(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	u.OTPAttempts++
	return u.OTPAttempts, nil
}

func (r *fakeUserRepo) IncrementOrderStats(_ context.Context, id uuid.UUID, amount float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statsErr != nil {
		return r.statsErr
	}
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TotalOrders++
	u.LifetimeValue += amount
	u.LastOrderDate = &at
	return nil
}

func (r *fakeUserRepo) AddAddress(_ context.Context, addr *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[addr.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	addr.ID = uuid.New()
	u.Addresses = append(u.Addresses, *addr)
	return nil
}

func (r *fakeUserRepo) ListAddresses(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return u.Addresses, nil
	}
	return nil, nil
}

type fakeMenuRepo struct {
	items map[uuid.UUID]*models.MenuItem
}

func newFakeMenuRepo(items ...*models.MenuItem) *fakeMenuRepo {
	r := &fakeMenuRepo{items: map[uuid.UUID]*models.MenuItem{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeMenuRepo) FindByID(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeMenuRepo) FindAll(_ context.Context, _ models.MenuFilter) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, nil
}

func (r *fakeMenuRepo) Create(_ context.Context, it *models.MenuItem) error {
	it.ID = uuid.New()
	r.items[it.ID] = it
	return nil
}

func (r *fakeMenuRepo) Update(_ context.Context, it *models.MenuItem) error {
	r.items[it.ID] = it
	return nil
}

type fakeCouponRepo struct {
	coupons      map[string]*models.Coupon
	incrementErr error
	increments   []string
}

func newFakeCouponRepo(coupons ...*models.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: map[string]*models.Coupon{}}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *fakeCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	if _, ok := r.coupons[c.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.coupons[c.Code] = c
	return nil
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := r.coupons[normalizeCouponCode(code)]
	if !ok || !c.Active {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCouponRepo) IncrementUsageCount(_ context.Context, code string) error {
	r.increments = append(r.increments, code)
	if r.incrementErr != nil {
		return r.incrementErr
	}
	if c, ok := r.coupons[code]; ok {
		c.UsageCount++
	}
	return nil
}

func (r *fakeCouponRepo) FindActive(_ context.Context, dayStart time.Time) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range r.coupons {
		if c.Active && (c.ExpiryDate == nil || !c.ExpiryDate.Before(dayStart)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCouponRepo) FindAll(_ context.Context, _, _ int) ([]models.Coupon, int64, error) {
	var out []models.Coupon
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeSettingsRepo struct {
	settings *models.BusinessSettings
	err      error
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*models.BusinessSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.settings == nil {
		r.settings = models.DefaultBusinessSettings()
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *models.BusinessSettings) error {
	cp := *s
	r.settings = &cp
	return nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	logs []models.NotificationLog
}

func (r *fakeNotificationRepo) SaveLog(_ context.Context, l *models.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeNotificationRepo) GetLogs(_ context.Context, _ models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs, int64(len(r.logs)), nil
}

func (r *fakeNotificationRepo) statuses() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]string{}
	for _, l := range r.logs {
		out[l.Channel] = l.Status
	}
	return out
}

type fakeMarker struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (m *fakeMarker) MarkOnce(_ context.Context, orderID, event string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	key := orderID + ":" + event
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *fakeMarker) Release(_ context.Context, orderID, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, orderID+":"+event)
	return nil
}

// --- Collaborators ---

type sentMessage struct {
	channel string
	to      string
	subject string
	body    string
}

// recordingSender implements every sender interface.
type recordingSender struct {
	mu       sync.Mutex
	sent     []sentMessage
	failures map[string]int
	provider string
}

func (s *recordingSender) record(channel, to, subject, body string) (sender.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[channel] > 0 {
		s.failures[channel]--
		return sender.SendResult{}, errors.New(channel + " provider down")
	}
	s.sent = append(s.sent, sentMessage{channel: channel, to: to, subject: subject, body: body})
	provider := s.provider
	if provider == "" {
		provider = "test"
	}
	return sender.SendResult{MessageID: "msg-1", Provider: provider, SentAt: time.Now()}, nil
}

func (s *recordingSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	return s.record(models.ChannelEmail, to, subject, body)
}

func (s *recordingSender) SendSMS(_ context.Context, to, msg string) (sender.SendResult, error) {
	return s.record(models.ChannelSMS, to, "", msg)
}

func (s *recordingSender) SendChat(_ context.Context, to, msg string) (sender.SendResult, error) {
	return s.record(models.ChannelWhatsApp, to, "", msg)
}

func (s *recordingSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func (s *recordingSender) senders() sender.Senders {
	return sender.Senders{Email: s, SMS: s, Chat: s}
}

type notifyCall struct {
	orderID    uuid.UUID
	event      models.NotificationEvent
	adminPhone string
	customer   string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) NotifyOrderStatus(_ context.Context, order *models.Order, customer *models.User, event models.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	name := ""
	if customer != nil {
		name = customer.Name
	}
	n.calls = append(n.calls, notifyCall{orderID: order.ID, event: event, customer: name})
}

func (n *recordingNotifier) NotifyAdminNewOrder(_ context.Context, order *models.Order, _ *models.User, adminPhone string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{orderID: order.ID, event: models.NotifyAdminNewOrder, adminPhone: adminPhone})
}

func (n *recordingNotifier) GetLogs(context.Context, models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return nil, 0, nil
}

func (n *recordingNotifier) events() []models.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.NotificationEvent, 0, len(n.calls))
	for _, c := range n.calls {
		out = append(out, c.event)
	}
	return out
}

type broadcastCall struct {
	orderID      uuid.UUID
	status       models.OrderStatus
	includeAdmin bool
}

type recordingBroadcaster struct {
	calls []broadcastCall
}

func (b *recordingBroadcaster) BroadcastOrder(order *models.Order, includeAdmin bool) {
	b.calls = append(b.calls, broadcastCall{orderID: order.ID, status: order.Status, includeAdmin: includeAdmin})
}

type recordingPublisher struct {
	topics   []string
	messages [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, message []byte) error {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, message)
	return nil
}

type recordingMetrics struct {
	names []string
}

func (m *recordingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.names = append(m.names, name)
	return nil
}
