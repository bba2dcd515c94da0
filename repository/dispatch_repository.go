package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"gorm.io/gorm"
)

type DispatchRepository interface {
	Create(ctx context.Context, record *models.DispatchRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, page, limit int) ([]models.DispatchRecord, int64, error)
}

type GormDispatchRepository struct {
	db *gorm.DB
}

func NewGormDispatchRepository(db *gorm.DB) DispatchRepository {
	return &GormDispatchRepository{db: db}
}

func (r *GormDispatchRepository) Create(ctx context.Context, record *models.DispatchRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *GormDispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	var record models.DispatchRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormDispatchRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.DispatchRecord{}).
		Where("id = ?", id).
		Update("completion_time", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormDispatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DispatchRecord{}, "id = ?", id).Error
}

func (r *GormDispatchRepository) FindAll(ctx context.Context, page, limit int) ([]models.DispatchRecord, int64, error) {
	var records []models.DispatchRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DispatchRecord{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("dispatch_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}
