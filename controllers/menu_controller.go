package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

type MenuController struct {
	menuService services.MenuService
}

func NewMenuController(menuService services.MenuService) *MenuController {
	return &MenuController{menuService: menuService}
}

// ListItems handles GET /api/menu?category=&veg=true&in_stock=true.
func (mc *MenuController) ListItems(ctx *gin.Context) {
	filter := models.MenuFilter{
		Category:    ctx.Query("category"),
		VegOnly:     ctx.Query("veg") == "true",
		InStockOnly: ctx.Query("in_stock") == "true",
	}

	items, svcErr := mc.menuService.ListItems(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem handles GET /api/menu/:id.
func (mc *MenuController) GetItem(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	item, svcErr := mc.menuService.GetItem(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// CreateItem handles POST /api/menu (admin).
func (mc *MenuController) CreateItem(ctx *gin.Context) {
	var req models.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	item, svcErr := mc.menuService.CreateItem(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/menu/:id (admin).
func (mc *MenuController) UpdateItem(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	item, svcErr := mc.menuService.UpdateItem(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, item)
}
