package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	StatusSent   = "sent"
	StatusFailed = "failed"
	// StatusLogged means no provider was configured and the message was only logged.
	StatusLogged = "logged"
)

// NotificationEvent is a customer-facing order milestone.
type NotificationEvent string

const (
	NotifyPlaced     NotificationEvent = "Placed"
	NotifyPacked     NotificationEvent = "Packed"
	NotifyDispatched NotificationEvent = "Dispatched"
	NotifyDelivered  NotificationEvent = "Delivered"

	// NotifyAdminNewOrder is only used to label admin alerts in the log.
	NotifyAdminNewOrder NotificationEvent = "AdminNewOrder"
)

// NotificationEventForStatus maps an order status to the milestone announced for it.
func NotificationEventForStatus(s OrderStatus) (NotificationEvent, bool) {
	switch s {
	case OrderStatusPacked:
		return NotifyPacked, true
	case OrderStatusHandedToCourier:
		return NotifyDispatched, true
	case OrderStatusDelivered:
		return NotifyDelivered, true
	}
	return "", false
}

// NotificationLog records one delivery attempt on one channel.
type NotificationLog struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	OrderID   uuid.UUID  `json:"order_id" gorm:"type:uuid;index"`
	Recipient string     `json:"recipient"`
	Event     string     `json:"event"`
	Channel   string     `json:"channel"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

type NotificationFilter struct {
	OrderID  *uuid.UUID
	Status   string
	Channel  string
	Page     int
	PageSize int
}
