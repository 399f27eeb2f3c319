package routes

import (
	"localmart-api/handlers"
	"localmart-api/middleware"
	"localmart-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/password-reset", handlers.RequestPasswordReset)
		public.POST("/auth/password-reset/confirm", handlers.ResetPassword)

		// Businesses & products (no auth needed)
		public.GET("/businesses", handlers.ListBusinesses)
		public.GET("/businesses/:id", handlers.GetBusiness)
		public.GET("/businesses/:id/products", handlers.ListApprovedProducts)

		// Announcements
		public.GET("/announcements", handlers.ListAnnouncements)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)

		// Realtime order updates (token via ?token=)
		public.GET("/ws/orders/:id", handlers.WatchOrder)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)
		auth.GET("/favorites", handlers.ListFavorites)
		auth.POST("/favorites/:id", handlers.AddFavorite)
		auth.DELETE("/favorites/:id", handlers.RemoveFavorite)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.POST("/support-chat", handlers.SupportChat)
	}

	// ── Business owner routes ──────────────────────────────────────
	business := r.Group("/api/business")
	business.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleBusiness))
	{
		// Listing management
		business.POST("/", handlers.CreateBusiness)
		business.GET("/", handlers.GetMyBusiness)
		business.PUT("/", handlers.UpdateBusiness)

		// Product management
		business.POST("/products", handlers.AddProduct)
		business.PUT("/products/:productId", handlers.UpdateProduct)
		business.DELETE("/products/:productId", handlers.DeleteProduct)

		// Orders against my shop
		business.GET("/orders", handlers.GetBusinessOrders)

		// AI assists
		business.POST("/assist/description", handlers.GenerateProductDescription)
		business.POST("/assist/audio-intro", handlers.GenerateShopAudioIntro)

		// Premium subscription
		business.POST("/premium/subscribe", handlers.SubscribePremium)
		business.POST("/premium/verify/:gatewayOrderId", handlers.VerifyPremium)
	}

	// ── Delivery rider routes ──────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.GET("/orders/available", handlers.GetAvailableOrders)
		delivery.GET("/orders/my-deliveries", handlers.GetMyDeliveries)
		delivery.PUT("/orders/:id/claim", handlers.ClaimOrder)
		delivery.PUT("/orders/:id/pickup", handlers.PickupOrder)
		delivery.PUT("/orders/:id/out-for-delivery", handlers.StartDelivery)
		delivery.PUT("/orders/:id/deliver", handlers.DeliverOrder)
		delivery.GET("/orders/:id/voice-brief", handlers.GetOrderVoiceBrief)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/cancel", handlers.AdminCancelOrder)
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.GET("/businesses", handlers.AdminGetAllBusinesses)
		admin.PUT("/businesses/:id/verify", handlers.AdminVerifyBusiness)
		admin.PUT("/businesses/:id/premium", handlers.AdminSetPremium)
		admin.POST("/announcements", handlers.AdminCreateAnnouncement)
		admin.PUT("/announcements/:id", handlers.AdminUpdateAnnouncement)
		admin.DELETE("/announcements/:id", handlers.AdminDeleteAnnouncement)
	}

	// ── Moderation routes (admin or moderator) ─────────────────────
	moderation := r.Group("/api/moderation")
	moderation.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin, models.RoleModerator))
	{
		moderation.GET("/products", handlers.GetModerationQueue)
		moderation.PUT("/products/:id", handlers.ModerateProduct)
	}
}
