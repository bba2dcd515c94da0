package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationService
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

// GetLogs handles GET /api/admin/notifications?status=&channel=&order_id=.
func (nc *NotificationController) GetLogs(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter := models.NotificationFilter{
		Status:   ctx.Query("status"),
		Channel:  ctx.Query("channel"),
		Page:     page,
		PageSize: limit,
	}
	if raw := ctx.Query("order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
			return
		}
		filter.OrderID = &id
	}

	logs, total, err := nc.notificationService.GetLogs(ctx.Request.Context(), filter)
	if err != nil {
		nc.logger.Error("Failed to load notification logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notification logs"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"logs": logs, "meta": paginationMeta(page, limit, total)})
}
