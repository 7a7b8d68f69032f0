package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/storify/storify-backend/config"
	"github.com/storify/storify-backend/internal/app/controller"
	"github.com/storify/storify-backend/internal/app/service"
	"github.com/storify/storify-backend/internal/db"
	"github.com/storify/storify-backend/internal/kv"
	"github.com/storify/storify-backend/internal/middleware"
	"github.com/storify/storify-backend/internal/router"
	"github.com/storify/storify-backend/internal/scheduler"
	"github.com/storify/storify-backend/internal/websocket"
	"github.com/storify/storify-backend/pkg/catalog"
	"github.com/storify/storify-backend/pkg/logger"
	"github.com/storify/storify-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Storify Backend Server", map[string]interface{}{
		"environment":    cfg.Server.Environment,
		"port":           cfg.Server.Port,
		"storage_driver": cfg.Storage.Driver,
		"log_level":      logLevel,
	})

	// Initialize the storage backing the cart and order slots
	var slot kv.Store
	switch cfg.Storage.Driver {
	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		slot = kv.NewRedisStore(redis.GetClient())
	default:
		if err := db.Initialize(&cfg.Storage); err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}()
		slot, err = kv.NewGormStore(db.GetDB())
		if err != nil {
			logger.Fatal("Failed to initialize key-value storage", err)
		}
	}

	// Optional Redis cache for the catalog listing. When the slot store
	// already runs on Redis the same client is reused.
	cacheClient := redis.GetClient()
	if cacheClient == nil && cfg.Catalog.CacheEnabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Catalog cache disabled, Redis unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cacheClient = redis.GetClient()
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize the catalog reader over both upstream sources
	reader := catalog.NewReader(
		catalog.NewDummyJSONClient(cfg.Catalog.DummyJSONBaseURL),
		catalog.NewFakeStoreClient(cfg.Catalog.FakeStoreBaseURL),
	)

	// Notification hub fans cart events out to connected storefront sessions
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	cartService := service.NewCartService(slot, hub)
	productService := service.NewProductService(reader, cacheClient, cfg.Catalog.CacheTTL)
	orderService := service.NewOrderService(
		cartService,
		slot,
		cfg.Checkout.ShippingFlatRate,
		cfg.Checkout.TaxRate,
	)

	// Initialize controllers
	cartController := controller.NewCartController(cartService)
	productController := controller.NewProductController(productService)
	orderController := controller.NewOrderController(orderService)
	notificationController := controller.NewNotificationController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the listing cache refresh scheduler
	catalogScheduler := scheduler.NewCatalogScheduler(productService, cfg.Catalog.RefreshSpec)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		notificationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
