package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile handles GET /api/users/me.
func (uc *UserController) GetProfile(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	user, svcErr := uc.userService.GetProfile(ctx.Request.Context(), actor.UserID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// ListAddresses handles GET /api/users/me/addresses.
func (uc *UserController) ListAddresses(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	addresses, svcErr := uc.userService.ListAddresses(ctx.Request.Context(), actor.UserID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// AddAddress handles POST /api/users/me/addresses.
func (uc *UserController) AddAddress(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	var req models.AddAddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	address, svcErr := uc.userService.AddAddress(ctx.Request.Context(), actor.UserID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, address)
}
