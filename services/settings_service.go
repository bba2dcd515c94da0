package services

import (
	"context"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
)

// SettingsService exposes the kitchen-wide configuration.
type SettingsService interface {
	Get(ctx context.Context) (*models.BusinessSettings, *ServiceError)
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.BusinessSettings, *ServiceError)
	Public(ctx context.Context, now time.Time) (*models.PublicSettings, *ServiceError)
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*models.BusinessSettings, *ServiceError) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load business settings", zap.Error(err))
		return nil, internalError("Failed to load settings")
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.BusinessSettings, *ServiceError) {
	for _, clock := range []*string{req.OpenTime, req.CloseTime} {
		if clock != nil && *clock != "" && !ValidClock(*clock) {
			return nil, validationError("Times must look like 10:00 AM or 22:00")
		}
	}

	settings, svcErr := s.Get(ctx)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.KitchenName != nil {
		settings.KitchenName = *req.KitchenName
	}
	if req.OpenTime != nil {
		settings.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		settings.CloseTime = *req.CloseTime
	}
	if req.IsHoliday != nil {
		settings.IsHoliday = *req.IsHoliday
	}
	if req.DeliveryRadius != nil {
		settings.DeliveryRadius = *req.DeliveryRadius
	}
	if req.BaseDeliveryCharge != nil {
		settings.BaseDeliveryCharge = *req.BaseDeliveryCharge
	}
	if req.FreeDeliveryAbove != nil {
		settings.FreeDeliveryAbove = *req.FreeDeliveryAbove
	}
	if req.TaxPercentage != nil {
		settings.TaxPercentage = *req.TaxPercentage
	}
	if req.ContactPhone != nil {
		settings.ContactPhone = *req.ContactPhone
	}
	if req.AdminPhone != nil {
		settings.AdminPhone = *req.AdminPhone
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.UPIID != nil {
		settings.UPIID = *req.UPIID
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error("Failed to save business settings", zap.Error(err))
		return nil, internalError("Failed to save settings")
	}

	s.logger.Info("Business settings updated",
		zap.String("open_time", settings.OpenTime),
		zap.String("close_time", settings.CloseTime),
		zap.Bool("is_holiday", settings.IsHoliday),
	)
	return settings, nil
}

func (s *settingsService) Public(ctx context.Context, now time.Time) (*models.PublicSettings, *ServiceError) {
	settings, svcErr := s.Get(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	return &models.PublicSettings{
		KitchenName:        settings.KitchenName,
		OpenTime:           settings.OpenTime,
		CloseTime:          settings.CloseTime,
		IsOpen:             IsStoreOpen(settings, now),
		BaseDeliveryCharge: settings.BaseDeliveryCharge,
		FreeDeliveryAbove:  settings.FreeDeliveryAbove,
		TaxPercentage:      settings.TaxPercentage,
		ContactPhone:       settings.ContactPhone,
		UPIID:              settings.UPIID,
	}, nil
}
