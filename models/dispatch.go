package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCourierService is used when a dispatch does not name a courier.
const DefaultCourierService = "Porter"

// DispatchRecord tracks a courier booking for an order.
type DispatchRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"order_id"`
	ServiceName    string     `gorm:"type:varchar(64);not null" json:"service_name"`
	BookingID      string     `gorm:"type:varchar(128)" json:"booking_id,omitempty"`
	DeliveryCharge float64    `gorm:"not null;default:0" json:"delivery_charge"`
	DispatchTime   time.Time  `gorm:"not null" json:"dispatch_time"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`
	RiderName      string     `json:"rider_name,omitempty"`
	RiderPhone     string     `json:"rider_phone,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// CreateDispatchRequest books a courier for an order.
type CreateDispatchRequest struct {
	OrderID        uuid.UUID `json:"order_id" binding:"required"`
	ServiceName    string    `json:"service_name"`
	BookingID      string    `json:"booking_id"`
	DeliveryCharge float64   `json:"delivery_charge" binding:"gte=0"`
	RiderName      string    `json:"rider_name"`
	RiderPhone     string    `json:"rider_phone"`
	Notes          string    `json:"notes"`
}
