package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

type SettingsController struct {
	settingsService services.SettingsService
	now             func() time.Time
}

func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService, now: time.Now}
}

// GetPublic handles GET /api/settings/public.
func (sc *SettingsController) GetPublic(ctx *gin.Context) {
	settings, svcErr := sc.settingsService.Public(ctx.Request.Context(), sc.now())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

// GetSettings handles GET /api/admin/settings.
func (sc *SettingsController) GetSettings(ctx *gin.Context) {
	settings, svcErr := sc.settingsService.Get(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/admin/settings.
func (sc *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	settings, svcErr := sc.settingsService.Update(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, settings)
}
