package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

// CouponController handles HTTP requests for coupon operations.
type CouponController struct {
	couponService services.CouponService
	now           func() time.Time
}

func NewCouponController(couponService services.CouponService) *CouponController {
	return &CouponController{couponService: couponService, now: time.Now}
}

// CreateCoupon handles POST /api/coupons (admin only).
func (cc *CouponController) CreateCoupon(ctx *gin.Context) {
	var req models.CreateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	coupon, svcErr := cc.couponService.CreateCoupon(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// ApplyCoupon handles POST /api/coupons/apply.
func (cc *CouponController) ApplyCoupon(ctx *gin.Context) {
	var req models.ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, svcErr := cc.couponService.ApplyCoupon(ctx.Request.Context(), req.Code, req.OrderAmount)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListActive handles GET /api/coupons/active.
func (cc *CouponController) ListActive(ctx *gin.Context) {
	coupons, svcErr := cc.couponService.ListActive(ctx.Request.Context(), cc.now())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// ListCoupons handles GET /api/coupons (admin only).
func (cc *CouponController) ListCoupons(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	coupons, total, svcErr := cc.couponService.ListCoupons(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"coupons": coupons, "meta": paginationMeta(page, limit, total)})
}
