package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/realtime"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
	"go.uber.org/zap"
)

// Subscriber upgrades a request into a channel subscription.
type Subscriber interface {
	ServeWS(w http.ResponseWriter, r *http.Request, channel string) error
}

// RealtimeController serves the order status websockets.
type RealtimeController struct {
	hub          Subscriber
	orderService services.OrderService
	logger       *zap.Logger
}

func NewRealtimeController(hub Subscriber, orderService services.OrderService, logger *zap.Logger) *RealtimeController {
	return &RealtimeController{hub: hub, orderService: orderService, logger: logger}
}

// OrderUpdates handles GET /ws/orders/:id. Only the owner or an admin may
// subscribe.
func (rc *RealtimeController) OrderUpdates(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if _, svcErr := rc.orderService.GetOrder(ctx.Request.Context(), actor, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	rc.serve(ctx, id.String())
}

// AdminUpdates handles GET /ws/admin.
func (rc *RealtimeController) AdminUpdates(ctx *gin.Context) {
	rc.serve(ctx, realtime.AdminChannel)
}

func (rc *RealtimeController) serve(ctx *gin.Context, channel string) {
	// The upgrader has already written an error response on failure.
	if err := rc.hub.ServeWS(ctx.Writer, ctx.Request, channel); err != nil {
		rc.logger.Debug("websocket upgrade failed", zap.String("channel", channel), zap.Error(err))
	}
}
