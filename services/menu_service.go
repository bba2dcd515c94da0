package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MenuService interface {
	ListItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, *ServiceError)
	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, *ServiceError)
	CreateItem(ctx context.Context, req *models.MenuItemRequest) (*models.MenuItem, *ServiceError)
	UpdateItem(ctx context.Context, id uuid.UUID, req *models.MenuItemRequest) (*models.MenuItem, *ServiceError)
}

type menuService struct {
	repo   repository.MenuRepository
	logger *zap.Logger
}

func NewMenuService(repo repository.MenuRepository, logger *zap.Logger) MenuService {
	return &menuService{repo: repo, logger: logger}
}

func (s *menuService) ListItems(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, *ServiceError) {
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list menu", zap.Error(err))
		return nil, internalError("Failed to list menu")
	}
	return items, nil
}

func (s *menuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, *ServiceError) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Menu item not found")
		}
		s.logger.Error("Failed to load menu item", zap.String("menu_item_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to load menu item")
	}
	return item, nil
}

func (s *menuService) CreateItem(ctx context.Context, req *models.MenuItemRequest) (*models.MenuItem, *ServiceError) {
	item := &models.MenuItem{}
	applyMenuRequest(item, req)
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create menu item", zap.Error(err))
		return nil, internalError("Failed to create menu item")
	}
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, id uuid.UUID, req *models.MenuItemRequest) (*models.MenuItem, *ServiceError) {
	item, svcErr := s.GetItem(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	applyMenuRequest(item, req)
	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error("Failed to update menu item", zap.String("menu_item_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to update menu item")
	}
	return item, nil
}

func applyMenuRequest(item *models.MenuItem, req *models.MenuItemRequest) {
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.IsVeg = req.IsVeg
	item.IsOutOfStock = req.IsOutOfStock
}
