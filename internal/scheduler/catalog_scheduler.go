package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/storify/storify-backend/internal/app/service"
	"github.com/storify/storify-backend/pkg/logger"
)

// CatalogScheduler keeps the cached catalog listing warm so browsing does
// not pay for two upstream fetches on every cold request.
type CatalogScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
	spec           string
}

func NewCatalogScheduler(productService service.ProductService, spec string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:           cron.New(),
		productService: productService,
		spec:           spec,
	}
}

// Start registers the refresh job and runs one refresh immediately.
func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled catalog refresh", nil)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.productService.RefreshCache(ctx); err != nil {
			logger.Error("Failed to refresh catalog cache from scheduler", err)
			return
		}

		logger.Info("Successfully refreshed catalog cache from scheduler", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for catalog refresh", err)
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.productService.RefreshCache(ctx); err != nil {
			logger.Warn("Initial catalog warm-up failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.cron.Start()
	logger.Info("Catalog scheduler started successfully", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

// Stop halts the scheduler.
func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...", nil)
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped", nil)
}
