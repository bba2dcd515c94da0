package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	awspkg "github.com/puneetkushwaha/Mom-sKitchen-Backend/pkg/aws"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []models.PaymentEvent
	fail   int
}

func (h *recordingHandler) HandlePaymentEvent(_ context.Context, evt models.PaymentEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	if h.fail > 0 {
		h.fail--
		return errors.New("db unavailable")
	}
	return nil
}

type stubPoller struct {
	bodies  []string
	results []error
}

func (p *stubPoller) StartPolling(ctx context.Context, handler awspkg.MessageHandler) error {
	for _, b := range p.bodies {
		p.results = append(p.results, handler(ctx, b))
	}
	return nil
}

func TestSQSPaymentConsumer(t *testing.T) {
	h := &recordingHandler{fail: 1}
	p := &stubPoller{bodies: []string{
		`{"event_type":"payment_succeeded","order_id":"a"}`,
		`{"event_type":"payment_failed","order_id":"b"}`,
		`garbage`,
		`{"event_type":"payment_failed"}`,
	}}

	c := NewSQSPaymentConsumer(p, h, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))

	require.Len(t, p.results, 4)
	assert.Error(t, p.results[0], "handler failure leaves the message on the queue")
	assert.NoError(t, p.results[1])
	assert.NoError(t, p.results[2], "malformed bodies are dropped")
	assert.NoError(t, p.results[3])

	require.Len(t, h.events, 2)
	assert.Equal(t, models.EventPaymentSucceeded, h.events[0].EventType)
	assert.Equal(t, "b", h.events[1].OrderID)
}

type stubReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *stubReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *stubReader) Close() error { return nil }

func TestKafkaPaymentConsumer_RetriesThenCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Offset: 1, Value: []byte(`{"event_type":"payment_succeeded","order_id":"a"}`)},
			{Offset: 2, Value: []byte(`{}`)},
		},
	}
	h := &recordingHandler{fail: 2}
	c := newKafkaPaymentConsumer(reader, h, zap.NewNop())
	c.backoff = time.Millisecond

	err := c.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, h.events, 3, "two failures then success")
	assert.Equal(t, []int64{1, 2}, reader.committed)
}
