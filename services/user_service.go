package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError)
	AddAddress(ctx context.Context, userID uuid.UUID, req *models.AddAddressRequest) (*models.Address, *ServiceError)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, internalError("Failed to load profile")
	}
	return user, nil
}

func (s *userService) AddAddress(ctx context.Context, userID uuid.UUID, req *models.AddAddressRequest) (*models.Address, *ServiceError) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = "Home"
	}
	addr := &models.Address{
		UserID:      userID,
		Label:       label,
		AddressLine: strings.TrimSpace(req.AddressLine),
		Landmark:    req.Landmark,
		ZipCode:     req.ZipCode,
		Lat:         req.Lat,
		Lng:         req.Lng,
		IsDefault:   req.IsDefault,
	}
	if addr.AddressLine == "" {
		return nil, validationError("Address line is required")
	}
	if err := s.repo.AddAddress(ctx, addr); err != nil {
		s.logger.Error("Failed to save address", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internalError("Failed to save address")
	}
	return addr, nil
}

func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError) {
	addrs, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list addresses", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internalError("Failed to list addresses")
	}
	return addrs, nil
}
