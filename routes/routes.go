package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/controllers"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/middleware"
)

// Controllers bundles every HTTP handler the API exposes.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Menu         *controllers.MenuController
	Order        *controllers.OrderController
	Coupon       *controllers.CouponController
	Settings     *controllers.SettingsController
	Payment      *controllers.PaymentController
	Dispatch     *controllers.DispatchController
	Notification *controllers.NotificationController
	Realtime     *controllers.RealtimeController
}

// RegisterRoutes mounts the API under /api and the websockets under /ws.
func RegisterRoutes(r *gin.Engine, c Controllers, tokens middleware.TokenParser) {
	auth := middleware.AuthMiddleware(tokens)
	admin := middleware.AdminOnly()

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/send-otp", c.Auth.SendOTP)
	authRoutes.POST("/verify-otp", c.Auth.VerifyOTP)

	userRoutes := api.Group("/users/me", auth)
	userRoutes.GET("", c.User.GetProfile)
	userRoutes.GET("/addresses", c.User.ListAddresses)
	userRoutes.POST("/addresses", c.User.AddAddress)

	menuRoutes := api.Group("/menu")
	menuRoutes.GET("", c.Menu.ListItems)
	menuRoutes.GET("/:id", c.Menu.GetItem)
	menuRoutes.POST("", auth, admin, c.Menu.CreateItem)
	menuRoutes.PUT("/:id", auth, admin, c.Menu.UpdateItem)

	orderRoutes := api.Group("/orders", auth)
	orderRoutes.POST("", c.Order.CreateOrder)
	orderRoutes.GET("/myorders", c.Order.GetMyOrders)
	orderRoutes.GET("/:id", c.Order.GetOrder)
	orderRoutes.PUT("/:id/cancel", c.Order.CancelOrder)
	orderRoutes.GET("", admin, c.Order.ListOrders)
	orderRoutes.PUT("/:id/status", admin, c.Order.UpdateOrderStatus)

	couponRoutes := api.Group("/coupons")
	couponRoutes.POST("/apply", auth, c.Coupon.ApplyCoupon)
	couponRoutes.GET("/active", c.Coupon.ListActive)
	couponRoutes.GET("", auth, admin, c.Coupon.ListCoupons)
	couponRoutes.POST("", auth, admin, c.Coupon.CreateCoupon)

	api.GET("/settings/public", c.Settings.GetPublic)

	adminRoutes := api.Group("/admin", auth, admin)
	adminRoutes.GET("/settings", c.Settings.GetSettings)
	adminRoutes.PUT("/settings", c.Settings.UpdateSettings)
	adminRoutes.GET("/notifications", c.Notification.GetLogs)

	paymentRoutes := api.Group("/payments")
	// Stripe calls the webhook directly; the signature is the authentication.
	paymentRoutes.POST("/webhook", c.Payment.StripeWebhook)
	paymentRoutes.POST("/create-intent", auth, c.Payment.CreateIntent)
	paymentRoutes.POST("/verify-manual", auth, c.Payment.VerifyManual)

	dispatchRoutes := api.Group("/dispatch", auth, admin)
	dispatchRoutes.POST("", c.Dispatch.CreateDispatch)
	dispatchRoutes.GET("", c.Dispatch.ListDispatches)
	dispatchRoutes.PUT("/:id/complete", c.Dispatch.CompleteDispatch)

	ws := r.Group("/ws", auth)
	ws.GET("/orders/:id", c.Realtime.OrderUpdates)
	ws.GET("/admin", admin, c.Realtime.AdminUpdates)
}
