package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a customer or admin account identified by phone number.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Phone         string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Email         *string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	Role          Role           `gorm:"type:varchar(16);not null;default:'customer'" json:"role"`
	Addresses     []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	TotalOrders   int            `gorm:"not null;default:0" json:"total_orders"`
	LifetimeValue float64        `gorm:"not null;default:0" json:"lifetime_value"`
	LastOrderDate *time.Time     `json:"last_order_date,omitempty"`
	OTPHash       string         `json:"-"`
	OTPExpiresAt  *time.Time     `json:"-"`
	OTPAttempts   int            `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Address is a saved delivery address. At most one per user is the default.
type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Label       string    `gorm:"type:varchar(32);default:'Home'" json:"label"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	Landmark    string    `json:"landmark,omitempty"`
	ZipCode     string    `gorm:"type:varchar(12)" json:"zip_code,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AddAddressRequest is the payload for saving a delivery address.
type AddAddressRequest struct {
	Label       string  `json:"label"`
	AddressLine string  `json:"address_line" binding:"required"`
	Landmark    string  `json:"landmark"`
	ZipCode     string  `json:"zip_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	IsDefault   bool    `json:"is_default"`
}

// SendOTPRequest starts a phone login. Name is required only on first signup.
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15"`
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// VerifyOTPRequest completes a phone login.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
