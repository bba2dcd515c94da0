package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DispatchService records courier bookings and moves the order along with
// them: booking hands the order to the courier, completion delivers it.
type DispatchService interface {
	CreateDispatch(ctx context.Context, actor models.Actor, req *models.CreateDispatchRequest) (*models.DispatchRecord, *ServiceError)
	CompleteDispatch(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DispatchRecord, *ServiceError)
	ListDispatches(ctx context.Context, page, limit int) ([]models.DispatchRecord, int64, *ServiceError)
}

type dispatchService struct {
	repo   repository.DispatchRepository
	orders OrderService
	now    func() time.Time
	logger *zap.Logger
}

func NewDispatchService(repo repository.DispatchRepository, orders OrderService, logger *zap.Logger) DispatchService {
	return &dispatchService{repo: repo, orders: orders, now: time.Now, logger: logger}
}

func (s *dispatchService) CreateDispatch(ctx context.Context, actor models.Actor, req *models.CreateDispatchRequest) (*models.DispatchRecord, *ServiceError) {
	order, svcErr := s.orders.GetOrder(ctx, actor, req.OrderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.IsSelfPickup {
		return nil, validationError("Self pickup orders are not dispatched")
	}

	if svcErr := s.orders.CanTransition(order, models.OrderStatusHandedToCourier, actor); svcErr != nil {
		return nil, svcErr
	}

	serviceName := strings.TrimSpace(req.ServiceName)
	if serviceName == "" {
		serviceName = models.DefaultCourierService
	}
	record := &models.DispatchRecord{
		OrderID:        order.ID,
		ServiceName:    serviceName,
		BookingID:      req.BookingID,
		DeliveryCharge: req.DeliveryCharge,
		DispatchTime:   s.now(),
		RiderName:      req.RiderName,
		RiderPhone:     req.RiderPhone,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create dispatch", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, internalError("Failed to create dispatch")
	}

	if _, svcErr := s.orders.UpdateStatus(ctx, order.ID, models.OrderStatusHandedToCourier, actor); svcErr != nil {
		// the order was not handed over, so the booking must not survive
		if err := s.repo.Delete(ctx, record.ID); err != nil {
			s.logger.Error("Failed to remove dispatch after status update failure",
				zap.String("dispatch_id", record.ID.String()), zap.Error(err))
		}
		return nil, svcErr
	}
	return record, nil
}

func (s *dispatchService) CompleteDispatch(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DispatchRecord, *ServiceError) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Dispatch not found")
		}
		s.logger.Error("Failed to load dispatch", zap.String("dispatch_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to load dispatch")
	}
	if record.CompletionTime != nil {
		return nil, conflictError("Dispatch already completed")
	}
	order, svcErr := s.orders.GetOrder(ctx, actor, record.OrderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.orders.CanTransition(order, models.OrderStatusDelivered, actor); svcErr != nil {
		return nil, svcErr
	}

	completedAt := s.now()
	if err := s.repo.MarkCompleted(ctx, id, completedAt); err != nil {
		s.logger.Error("Failed to complete dispatch", zap.String("dispatch_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to complete dispatch")
	}
	record.CompletionTime = &completedAt

	if _, svcErr := s.orders.UpdateStatus(ctx, record.OrderID, models.OrderStatusDelivered, actor); svcErr != nil {
		return nil, svcErr
	}
	return record, nil
}

func (s *dispatchService) ListDispatches(ctx context.Context, page, limit int) ([]models.DispatchRecord, int64, *ServiceError) {
	records, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list dispatches", zap.Error(err))
		return nil, 0, internalError("Failed to list dispatches")
	}
	return records, total, nil
}
