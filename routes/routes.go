package routes

import (
	"net/http"
	"time"

	"ceygo/handlers"
	"ceygo/middleware"
	"ceygo/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers login and the session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.Auth.LoginHandler)

		protected := api.Group("")
		protected.Use(middleware.AdminAuthMiddleware(hb.AuthService))
		protected.POST("/logout", hb.Auth.LogoutHandler)
		protected.GET("/session", hb.Auth.SessionHandler)
	}
}

// RegisterUserRoutes registers account management endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	users := api.Group("/users")
	{
		users.GET("", hb.Users.ListUsersHandler)
		users.GET("/:id", hb.Users.GetUserHandler)
		users.POST("/:id/toggle-status", hb.Users.ToggleStatusHandler)
	}
}

// RegisterDriverRoutes registers driver moderation and subscription endpoints.
func RegisterDriverRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	drivers := api.Group("/drivers")
	{
		drivers.GET("", hb.Drivers.ListDriversHandler)
		drivers.GET("/:id", hb.Drivers.GetDriverHandler)
		drivers.POST("/:id/status", hb.Drivers.SetStatusHandler)
		drivers.POST("/:id/verify", hb.Drivers.VerifyHandler)
		drivers.GET("/:id/subscriptions", hb.Drivers.ListSubscriptionsHandler)
		drivers.POST("/:id/subscriptions", hb.Drivers.GrantSubscriptionHandler)
		drivers.POST("/:id/add-subscription", hb.Drivers.GrantSubscriptionHandler)
		drivers.DELETE("/:id/subscriptions/:subId", hb.Drivers.RevokeSubscriptionHandler)
	}
}

func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.Bookings.ListBookingsHandler)
		bookings.GET("/:id", hb.Bookings.GetBookingHandler)
	}
}

// RegisterTransferRoutes registers the bank-transfer review endpoints.
func RegisterTransferRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	transfers := api.Group("/bank-transfers")
	{
		transfers.GET("", hb.Transfers.ListTransfersHandler)
		transfers.POST("", hb.Transfers.CreateTransferHandler)
		transfers.GET("/:id", hb.Transfers.GetTransferHandler)
		transfers.GET("/:id/proof", hb.Transfers.ProofHandler)
		transfers.POST("/:id/approve", hb.Transfers.ApproveHandler)
	}
}

// RegisterPlanRoutes registers the subscription plan catalog.
func RegisterPlanRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	plans := api.Group("/subscriptions")
	{
		plans.GET("", hb.Plans.ListPlansHandler)
		plans.POST("", hb.Plans.CreatePlanHandler)
		plans.PUT("/:id", hb.Plans.UpdatePlanHandler)
		plans.DELETE("/:id", hb.Plans.DeletePlanHandler)
	}
}

func RegisterSettingsRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/payment-settings", hb.Settings.GetPaymentSettingsHandler)
	api.POST("/payment-settings", hb.Settings.UpdatePaymentSettingsHandler)
}

func RegisterDashboardRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/stats", hb.Dashboard.StatsHandler)
		dashboard.GET("/recent-activity", hb.Dashboard.RecentActivityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": "ok", "message": "CeyGo admin API", "health": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)

	api := r.Group("/api")
	api.Use(middleware.AdminAuthMiddleware(hb.AuthService))
	RegisterUserRoutes(api, hb)
	RegisterDriverRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterTransferRoutes(api, hb)
	RegisterPlanRoutes(api, hb)
	RegisterSettingsRoutes(api, hb)
	RegisterDashboardRoutes(api, hb)
}
