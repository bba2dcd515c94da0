package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusConfirmed       OrderStatus = "confirmed"
	OrderStatusPreparing       OrderStatus = "preparing"
	OrderStatusPacked          OrderStatus = "packed"
	OrderStatusHandedToCourier OrderStatus = "handed_to_courier"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusPacked,
		OrderStatusHandedToCourier, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Label is the human-readable status shown to customers.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusHandedToCourier:
		return "Handed To Courier"
	case "":
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// PaymentMode is how the customer pays for an order.
type PaymentMode string

const (
	PaymentModeCOD    PaymentMode = "cod"
	PaymentModeOnline PaymentMode = "online"
	PaymentModeUPI    PaymentMode = "upi"
)

// PaymentStatus tracks payment collection for an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusVerifying PaymentStatus = "verifying"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// DeliveryAddress is stored inline on the order row.
type DeliveryAddress struct {
	AddressLine string  `json:"address_line"`
	Landmark    string  `json:"landmark,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Order is a placed customer order with the prices that were charged.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"order_number"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64         `gorm:"not null;default:0" json:"total_amount"`
	DeliveryCharge  float64         `gorm:"not null;default:0" json:"delivery_charge"`
	TaxAmount       float64         `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount  float64         `gorm:"not null;default:0" json:"discount_amount"`
	PayableAmount   float64         `gorm:"not null;default:0" json:"payable_amount"`
	PaymentMode     PaymentMode     `gorm:"type:varchar(16);not null" json:"payment_mode"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	Status          OrderStatus     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	DeliveryAddress DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	IsSelfPickup    bool            `gorm:"not null;default:false" json:"is_self_pickup"`
	DeliveryNotes   string          `json:"delivery_notes,omitempty"`
	ScheduledTime   *time.Time      `json:"scheduled_time,omitempty"`
	CouponCode      *string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// OrderItem is one line of an order with the price snapshot taken at checkout.
type OrderItem struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	MenuItemID       uuid.UUID `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name             string    `json:"name"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	Customizations   []string  `gorm:"serializer:json" json:"customizations,omitempty"`
	PriceAtSelection float64   `gorm:"not null" json:"price_at_selection"`
}

// OrderItemRequest is a cart line submitted at checkout. Any client price is ignored.
type OrderItemRequest struct {
	MenuItemID     uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,min=1"`
	Customizations []string  `json:"customizations"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"dive"`
	TotalAmount     float64            `json:"total_amount" binding:"gte=0"`
	DeliveryCharge  float64            `json:"delivery_charge" binding:"gte=0"`
	TaxAmount       float64            `json:"tax_amount" binding:"gte=0"`
	DiscountAmount  float64            `json:"discount_amount" binding:"gte=0"`
	PayableAmount   float64            `json:"payable_amount" binding:"gte=0"`
	PaymentMode     PaymentMode        `json:"payment_mode" binding:"required,oneof=cod online upi"`
	DeliveryAddress *DeliveryAddress   `json:"delivery_address"`
	IsSelfPickup    bool               `json:"is_self_pickup"`
	DeliveryNotes   string             `json:"delivery_notes"`
	ScheduledTime   *time.Time         `json:"scheduled_time"`
	CouponCode      string             `json:"coupon_code"`
}

// UpdateStatusRequest is the payload for an admin status change.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Date     *time.Time
	UserID   *uuid.UUID
	Page     int
	PageSize int
	// HideUnsettledOnline drops non-COD orders whose payment has not reached verifying or paid.
	HideUnsettledOnline bool
}

// Role distinguishes customers from kitchen staff.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
