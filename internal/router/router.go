package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storify/storify-backend/config"
	"github.com/storify/storify-backend/internal/app/controller"
	"github.com/storify/storify-backend/internal/middleware"
)

type Router struct {
	productController      *controller.ProductController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:      productController,
		cartController:         cartController,
		orderController:        orderController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storify API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Catalog browsing is public
		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAllProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/:source/:id", r.productController.GetProductByID)
		}

		// The cart itself is identity-agnostic; requiring a session here is
		// presentation-layer gating, same as the storefront UI does.
		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:source/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:source/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.GET("/notification", r.cartController.GetNotification)
			cart.GET("/notifications/ws", r.notificationController.Subscribe)
		}

		checkout := v1.Group("/checkout", r.authMiddleware.Authenticate())
		{
			checkout.GET("/totals", r.orderController.GetTotals)
			checkout.POST("", r.orderController.Checkout)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/export", r.orderController.ExportOrders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
