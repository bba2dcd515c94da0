package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CouponService defines the interface for coupon business logic.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	ApplyCoupon(ctx context.Context, code string, orderAmount float64) (*models.CouponResult, *ServiceError)
	RecordUsage(ctx context.Context, code string) error
	ListActive(ctx context.Context, asOf time.Time) ([]models.Coupon, *ServiceError)
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError)
}

type couponServiceImpl struct {
	repo   repository.CouponRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateCoupon creates a new coupon.
func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if req.ExpiryDate != nil && endOfDay(*req.ExpiryDate).Before(s.now()) {
		return nil, validationError("Expiry date must not be in the past")
	}
	if req.DiscountType == models.DiscountTypePercentage && req.DiscountValue > 100 {
		return nil, validationError("Percentage discount cannot exceed 100")
	}

	coupon := &models.Coupon{
		Code:           normalizeCouponCode(req.Code),
		Active:         true,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		ExpiryDate:     req.ExpiryDate,
		UsageLimit:     req.UsageLimit,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("Coupon code already exists")
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, internalError("Failed to create coupon")
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.DiscountType)))
	return coupon, nil
}

// ApplyCoupon computes the discount for orderAmount without consuming the coupon.
// Checks run in order: existence, expiry, minimum amount, usage limit.
func (s *couponServiceImpl) ApplyCoupon(ctx context.Context, code string, orderAmount float64) (*models.CouponResult, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eligibilityError(ReasonCouponNotFound, "Invalid or inactive coupon")
		}
		s.logger.Error("Failed to load coupon", zap.String("code", code), zap.Error(err))
		return nil, internalError("Failed to apply coupon")
	}

	if coupon.ExpiryDate != nil && s.now().After(endOfDay(*coupon.ExpiryDate)) {
		return nil, eligibilityError(ReasonCouponExpired, "Coupon expired")
	}

	if orderAmount < coupon.MinOrderAmount {
		return nil, eligibilityError(ReasonBelowMinimum,
			fmt.Sprintf("Minimum order amount for this coupon is %s", formatAmount(coupon.MinOrderAmount)))
	}

	if coupon.UsageLimit != nil && *coupon.UsageLimit > 0 && coupon.UsageCount >= *coupon.UsageLimit {
		return nil, eligibilityError(ReasonLimitReached, "Coupon usage limit reached")
	}

	result := &models.CouponResult{Code: coupon.Code, DiscountType: coupon.DiscountType}
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount := orderAmount * coupon.DiscountValue / 100
		if coupon.MaxDiscount != nil && *coupon.MaxDiscount > 0 && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
		result.DiscountAmount = discount
	case models.DiscountTypeFlat:
		// not capped at the order amount
		result.DiscountAmount = coupon.DiscountValue
	case models.DiscountTypeFreeDelivery:
		result.IsFreeDelivery = true
	default:
		return nil, internalError("Unknown coupon type")
	}

	return result, nil
}

// RecordUsage increments the usage counter. Eligibility is not re-checked.
func (s *couponServiceImpl) RecordUsage(ctx context.Context, code string) error {
	if err := s.repo.IncrementUsageCount(ctx, code); err != nil {
		return fmt.Errorf("increment coupon usage %s: %w", code, err)
	}
	return nil
}

// ListActive returns active coupons that have not expired before asOf's day.
func (s *couponServiceImpl) ListActive(ctx context.Context, asOf time.Time) ([]models.Coupon, *ServiceError) {
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	coupons, err := s.repo.FindActive(ctx, dayStart)
	if err != nil {
		s.logger.Error("Failed to list active coupons", zap.Error(err))
		return nil, internalError("Failed to list coupons")
	}
	return coupons, nil
}

// ListCoupons returns paginated coupons.
func (s *couponServiceImpl) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, internalError("Failed to list coupons")
	}
	return coupons, total, nil
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// endOfDay returns the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// formatAmount renders a rupee amount without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
