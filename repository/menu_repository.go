package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"gorm.io/gorm"
)

// MenuRepository is the catalog lookup used at checkout and by the menu API.
type MenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
}

type GormMenuRepository struct {
	db *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) MenuRepository {
	return &GormMenuRepository{db: db}
}

func (r *GormMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormMenuRepository) FindAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	var items []models.MenuItem
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.VegOnly {
		query = query.Where("is_veg = ?", true)
	}
	if filter.InStockOnly {
		query = query.Where("is_out_of_stock = ?", false)
	}
	err := query.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *GormMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
