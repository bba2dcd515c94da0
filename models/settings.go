package models

import "time"

// BusinessSettings is the single row of kitchen-wide configuration.
type BusinessSettings struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	KitchenName        string    `gorm:"not null" json:"kitchen_name"`
	OpenTime           string    `gorm:"type:varchar(16)" json:"open_time"`
	CloseTime          string    `gorm:"type:varchar(16)" json:"close_time"`
	IsHoliday          bool      `gorm:"not null;default:false" json:"is_holiday"`
	DeliveryRadius     float64   `gorm:"not null;default:5" json:"delivery_radius"`
	BaseDeliveryCharge float64   `gorm:"not null;default:40" json:"base_delivery_charge"`
	FreeDeliveryAbove  float64   `gorm:"not null;default:500" json:"free_delivery_above"`
	TaxPercentage      float64   `gorm:"not null;default:5" json:"tax_percentage"`
	ContactPhone       string    `json:"contact_phone"`
	AdminPhone         string    `json:"admin_phone"`
	Address            string    `json:"address"`
	UPIID              string    `gorm:"column:upi_id" json:"upi_id"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultBusinessSettings returns the row created on first read.
func DefaultBusinessSettings() *BusinessSettings {
	return &BusinessSettings{
		ID:                 1,
		KitchenName:        "My Cloud Kitchen",
		OpenTime:           "10:00 AM",
		CloseTime:          "10:00 PM",
		DeliveryRadius:     5,
		BaseDeliveryCharge: 40,
		FreeDeliveryAbove:  500,
		TaxPercentage:      5,
	}
}

// UpdateSettingsRequest is a partial update of the kitchen settings.
type UpdateSettingsRequest struct {
	KitchenName        *string  `json:"kitchen_name"`
	OpenTime           *string  `json:"open_time" binding:"omitempty,clock"`
	CloseTime          *string  `json:"close_time" binding:"omitempty,clock"`
	IsHoliday          *bool    `json:"is_holiday"`
	DeliveryRadius     *float64 `json:"delivery_radius" binding:"omitempty,gte=0"`
	BaseDeliveryCharge *float64 `json:"base_delivery_charge" binding:"omitempty,gte=0"`
	FreeDeliveryAbove  *float64 `json:"free_delivery_above" binding:"omitempty,gte=0"`
	TaxPercentage      *float64 `json:"tax_percentage" binding:"omitempty,gte=0,lte=100"`
	ContactPhone       *string  `json:"contact_phone"`
	AdminPhone         *string  `json:"admin_phone"`
	Address            *string  `json:"address"`
	UPIID              *string  `json:"upi_id"`
}

// PublicSettings is what unauthenticated clients see.
type PublicSettings struct {
	KitchenName        string  `json:"kitchen_name"`
	OpenTime           string  `json:"open_time"`
	CloseTime          string  `json:"close_time"`
	IsOpen             bool    `json:"is_open"`
	BaseDeliveryCharge float64 `json:"base_delivery_charge"`
	FreeDeliveryAbove  float64 `json:"free_delivery_above"`
	TaxPercentage      float64 `json:"tax_percentage"`
	ContactPhone       string  `json:"contact_phone"`
	UPIID              string  `json:"upi_id"`
}
