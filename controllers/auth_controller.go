package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

// AuthController handles phone OTP login.
type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// SendOTP handles POST /api/auth/send-otp.
func (ac *AuthController) SendOTP(ctx *gin.Context) {
	var req models.SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	result, svcErr := ac.authService.SendOTP(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (ac *AuthController) VerifyOTP(ctx *gin.Context) {
	var req models.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, svcErr := ac.authService.VerifyOTP(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
