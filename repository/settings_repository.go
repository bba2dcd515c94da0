package repository

import (
	"context"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"gorm.io/gorm"
)

// SettingsRepository reads and writes the singleton BusinessSettings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.BusinessSettings, error)
	Save(ctx context.Context, settings *models.BusinessSettings) error
}

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row, inserting the defaults the first time.
func (r *GormSettingsRepository) Get(ctx context.Context) (*models.BusinessSettings, error) {
	settings := models.DefaultBusinessSettings()
	if err := r.db.WithContext(ctx).
		Where(models.BusinessSettings{ID: settings.ID}).
		FirstOrCreate(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *GormSettingsRepository) Save(ctx context.Context, settings *models.BusinessSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
