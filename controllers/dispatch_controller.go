package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

// DispatchController handles courier bookings (admin only).
type DispatchController struct {
	dispatchService services.DispatchService
}

func NewDispatchController(dispatchService services.DispatchService) *DispatchController {
	return &DispatchController{dispatchService: dispatchService}
}

// CreateDispatch handles POST /api/dispatch.
func (dc *DispatchController) CreateDispatch(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	var req models.CreateDispatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	record, svcErr := dc.dispatchService.CreateDispatch(ctx.Request.Context(), actor, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// CompleteDispatch handles PUT /api/dispatch/:id/complete.
func (dc *DispatchController) CompleteDispatch(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	record, svcErr := dc.dispatchService.CompleteDispatch(ctx.Request.Context(), actor, id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// ListDispatches handles GET /api/dispatch.
func (dc *DispatchController) ListDispatches(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	records, total, svcErr := dc.dispatchService.ListDispatches(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"dispatches": records, "meta": paginationMeta(page, limit, total)})
}
