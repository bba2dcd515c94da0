package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountType is the kind of discount a coupon grants.
type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFlat         DiscountType = "flat"
	DiscountTypeFreeDelivery DiscountType = "free_delivery"
)

// Coupon is a discount code stored in Postgres.
type Coupon struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Active        bool         `gorm:"not null;default:true" json:"active"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`
	// MaxDiscount caps percentage discounts.
	MaxDiscount    *float64 `json:"max_discount,omitempty"`
	MinOrderAmount float64  `gorm:"not null;default:0" json:"min_order_amount"`
	// ExpiryDate is inclusive of the whole day.
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	UsageCount int        `gorm:"not null;default:0" json:"usage_count"`
	// UsageLimit nil or 0 means unlimited.
	UsageLimit *int           `json:"usage_limit,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateCouponRequest is the payload for creating a new coupon.
type CreateCouponRequest struct {
	Code           string       `json:"code" binding:"required,min=3,max=64"`
	DiscountType   DiscountType `json:"discount_type" binding:"required,oneof=percentage flat free_delivery"`
	DiscountValue  float64      `json:"discount_value" binding:"gte=0"`
	MaxDiscount    *float64     `json:"max_discount" binding:"omitempty,gte=0"`
	MinOrderAmount float64      `json:"min_order_amount" binding:"gte=0"`
	ExpiryDate     *time.Time   `json:"expiry_date"`
	UsageLimit     *int         `json:"usage_limit" binding:"omitempty,gte=0"`
}

// ApplyCouponRequest asks for the discount a coupon gives on an order amount.
type ApplyCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"gte=0"`
}

// CouponResult is the discount a coupon grants for a given order amount.
type CouponResult struct {
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discount_type"`
	DiscountAmount float64      `json:"discount_amount"`
	IsFreeDelivery bool         `json:"is_free_delivery"`
}
