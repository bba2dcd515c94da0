package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is a catalog dish.
type MenuItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description"`
	Price        float64        `gorm:"not null" json:"price"`
	Category     string         `gorm:"type:varchar(64);index;not null" json:"category"`
	IsVeg        bool           `gorm:"not null;default:true" json:"is_veg"`
	IsOutOfStock bool           `gorm:"not null;default:false" json:"is_out_of_stock"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// MenuItemRequest creates or replaces a catalog dish.
type MenuItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Category     string  `json:"category" binding:"required"`
	IsVeg        bool    `json:"is_veg"`
	IsOutOfStock bool    `json:"is_out_of_stock"`
}

// MenuFilter narrows catalog listings.
type MenuFilter struct {
	Category    string
	VegOnly     bool
	InStockOnly bool
}
