package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PriceResolver snapshots catalog prices onto order lines. Prices sent by the
// client are never used.
type PriceResolver struct {
	menu   repository.MenuRepository
	logger *zap.Logger
}

func NewPriceResolver(menu repository.MenuRepository, logger *zap.Logger) *PriceResolver {
	return &PriceResolver{menu: menu, logger: logger}
}

// Resolve returns one order line per request line. Any unknown item fails the
// whole batch.
func (r *PriceResolver) Resolve(ctx context.Context, items []models.OrderItemRequest) ([]models.OrderItem, *ServiceError) {
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, validationError("Item quantity must be at least 1")
		}

		menuItem, err := r.menu.FindByID(ctx, it.MenuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundError(fmt.Sprintf("Menu item %s not found", it.MenuItemID))
			}
			r.logger.Error("Failed to load menu item", zap.String("menu_item_id", it.MenuItemID.String()), zap.Error(err))
			return nil, internalError("Failed to load menu items")
		}

		lines = append(lines, models.OrderItem{
			MenuItemID:       menuItem.ID,
			Name:             menuItem.Name,
			Quantity:         it.Quantity,
			Customizations:   it.Customizations,
			PriceAtSelection: menuItem.Price,
		})
	}
	return lines, nil
}
