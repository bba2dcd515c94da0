package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment record statuses.
const (
	PaymentRecordCreated    = "created"
	PaymentRecordAuthorized = "authorized"
	PaymentRecordCaptured   = "captured"
	PaymentRecordRefunded   = "refunded"
	PaymentRecordFailed     = "failed"
	PaymentRecordSuccess    = "success"
)

// Payment methods recorded on the audit row.
const (
	PaymentMethodStripe    = "stripe"
	PaymentMethodUPIManual = "upi-manual"
)

// Payment is an audit record of one payment attempt against an order.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	GatewayOrderID   string    `gorm:"type:varchar(128);index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `gorm:"type:varchar(128)" json:"gateway_payment_id,omitempty"`
	Signature        string    `json:"-"`
	TransactionID    string    `gorm:"type:varchar(128)" json:"transaction_id,omitempty"`
	Amount           float64   `gorm:"not null" json:"amount"`
	Currency         string    `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	Status           string    `gorm:"type:varchar(20);not null" json:"status"`
	Method           string    `gorm:"type:varchar(32)" json:"method"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PaymentVerification is the outcome a payment collaborator reports for an order.
type PaymentVerification struct {
	// Verified is true when the gateway confirmed capture; false means the
	// payment was submitted manually and awaits admin review.
	Verified bool
	Payment  *Payment
}

// CreateIntentRequest starts an online payment for an order.
type CreateIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// CreateIntentResponse carries the gateway reference the client completes payment with.
type CreateIntentResponse struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	ClientSecret    string  `json:"client_secret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// ManualPaymentRequest submits a UPI transaction reference for review.
type ManualPaymentRequest struct {
	OrderID       uuid.UUID `json:"order_id" binding:"required"`
	TransactionID string    `json:"transaction_id" binding:"required,min=6,max=64"`
}

// PaymentEvent is the message a payment processor publishes to the payment queue.
type PaymentEvent struct {
	EventType        string    `json:"event_type"` // payment_succeeded | payment_failed
	OrderID          string    `json:"order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	Amount           float64   `json:"amount"`
	Timestamp        time.Time `json:"timestamp"`
}

const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
)
