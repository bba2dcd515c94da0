package realtime

import (
	"encoding/json"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"go.uber.org/zap"
)

// EventOrderUpdate is the event name carried by every order push.
const EventOrderUpdate = "order_update"

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Transport delivers a serialized message to the subscribers of a channel.
type Transport interface {
	Publish(channel string, payload []byte) error
}

// Broadcaster pushes order snapshots to the order's own channel and,
// optionally, to the admin channel.
type Broadcaster struct {
	transport Transport
	logger    *zap.Logger
}

func NewBroadcaster(transport Transport, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{transport: transport, logger: logger}
}

// BroadcastOrder never fails the caller; transport errors are logged.
func (b *Broadcaster) BroadcastOrder(order *models.Order, includeAdmin bool) {
	if b == nil || b.transport == nil || order == nil {
		return
	}

	payload, err := json.Marshal(Message{Event: EventOrderUpdate, Data: order})
	if err != nil {
		b.logger.Error("failed to marshal order update", zap.Error(err))
		return
	}

	channels := []string{order.ID.String()}
	if includeAdmin {
		channels = append(channels, AdminChannel)
	}

	for _, ch := range channels {
		if err := b.transport.Publish(ch, payload); err != nil {
			b.logger.Warn("realtime publish failed",
				zap.String("channel", ch),
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}
}
