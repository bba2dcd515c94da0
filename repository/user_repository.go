package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	SaveOTP(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, id uuid.UUID) error
	// RecordOTPFailure counts a wrong code and returns the new count.
	RecordOTPFailure(ctx context.Context, id uuid.UUID) (int, error)
	IncrementOrderStats(ctx context.Context, id uuid.UUID, amount float64, at time.Time) error
	AddAddress(ctx context.Context, addr *models.Address) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) SaveOTP(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"otp_hash": hash, "otp_expires_at": expiresAt, "otp_attempts": 0}).
		Error
}

func (r *GormUserRepository) ClearOTP(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"otp_hash": "", "otp_expires_at": nil, "otp_attempts": 0}).
		Error
}

func (r *GormUserRepository) RecordOTPFailure(ctx context.Context, id uuid.UUID) (int, error) {
	user := models.User{ID: id}
	result := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "otp_attempts"}}}).
		UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return user.OTPAttempts, nil
}

// IncrementOrderStats applies the order count and lifetime value deltas in one
// UPDATE. It is not idempotent: each call adds again.
func (r *GormUserRepository) IncrementOrderStats(ctx context.Context, id uuid.UUID, amount float64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_orders":    gorm.Expr("total_orders + ?", 1),
			"lifetime_value":  gorm.Expr("lifetime_value + ?", amount),
			"last_order_date": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddAddress saves an address. A default address, or the user's first one,
// clears the default flag on all others.
func (r *GormUserRepository) AddAddress(ctx context.Context, addr *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", addr.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", addr.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(addr).Error
	})
}

func (r *GormUserRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addrs []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addrs).Error
	return addrs, err
}
