// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/events"
	"github.com/luxe-clothing/storefront/internal/handlers"
	"github.com/luxe-clothing/storefront/internal/middleware"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

// Dependencies are the external collaborators the HTTP layer is built on.
// Notifications may be nil, in which case one is built from the config.
type Dependencies struct {
	Repo          *repository.Repository
	Publisher     events.Publisher
	Intents       services.IntentClient
	Storage       *services.StorageService
	Notifications *services.NotificationService
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	notificationService := deps.Notifications
	if notificationService == nil {
		notificationService = services.NewNotificationService(cfg)
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	// Initialize services
	authService := services.NewAuthService(deps.Repo.Users, notificationService, cfg)
	userService := services.NewUserService(deps.Repo.Users)
	productService := services.NewProductService(deps.Repo.Products)
	adminService := services.NewAdminService(deps.Repo)
	paymentService := services.NewPaymentService(deps.Intents, cfg)

	var verifier services.PaymentVerifier
	if cfg.Payment.VerifyIntent {
		verifier = paymentService
	}
	orderService := services.NewOrderService(deps.Repo, publisher, notificationService, verifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService, productService)
	uploadHandler := handlers.NewUploadHandler(deps.Storage, cfg.Upload.MaxFiles)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "LUXE Clothing API is running!",
		})
	})

	// Locally stored product images
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.AuthRateLimit(), authHandler.Register)
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := api.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/change-password", userHandler.ChangePassword)

			addresses := users.Group("/addresses")
			{
				addresses.GET("", userHandler.ListAddresses)
				addresses.POST("", userHandler.AddAddress)
				addresses.PUT("/:addressId", userHandler.UpdateAddress)
				addresses.DELETE("/:addressId", userHandler.DeleteAddress)
				addresses.PUT("/:addressId/default", userHandler.SetDefaultAddress)
			}
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/search", productHandler.SearchProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		api.GET("/categories", getCategoriesHandler)

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/webhook", paymentHandler.Webhook)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired(), middleware.PaymentRateLimit())
			{
				protected.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
				protected.GET("/payment-intent/:id", paymentHandler.GetPaymentIntent)
			}
		}

		// Order routes
		orders := api.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
			orders.POST("/:id/simulate-progress", orderHandler.SimulateProgress)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(
			middleware.AuthRequired(),
			middleware.AdminRequired(),
			middleware.AuditLogMiddleware(deps.Repo.AuditLogs),
		)
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", adminHandler.ListProducts)
				adminProducts.POST("", adminHandler.CreateProduct)
				adminProducts.PUT("/bulk", adminHandler.BulkUpdateProducts)
				adminProducts.DELETE("/bulk", adminHandler.BulkDeleteProducts)
				adminProducts.PUT("/:id", adminHandler.UpdateProduct)
				adminProducts.DELETE("/:id", adminHandler.DeleteProduct)
			}

			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/inventory/low-stock", adminHandler.GetLowStock)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)

			upload := admin.Group("/upload")
			upload.Use(middleware.UploadRateLimit())
			{
				upload.POST("/image", uploadHandler.UploadImage)
				upload.POST("/images", uploadHandler.UploadImages)
				upload.DELETE("/image/:filename", uploadHandler.DeleteImage)
			}
		}
	}

	return r
}

func getCategoriesHandler(c *gin.Context) {
	categories := []map[string]interface{}{
		{"id": models.ProductCategoryMen, "name": "Men"},
		{"id": models.ProductCategoryWomen, "name": "Women"},
		{"id": models.ProductCategoryAccessories, "name": "Accessories"},
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}
