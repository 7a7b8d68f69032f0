package db

import (
	"fmt"

	"github.com/storify/storify-backend/config"
	appLogger "github.com/storify/storify-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the slot database. The sqlite driver gives a durable
// local file (the default); postgres is used when configured.
func Initialize(cfg *config.StorageConfig) error {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // we log through our own logger
	}

	var err error
	switch cfg.Driver {
	case "postgres":
		appLogger.Info("Connecting to postgres", map[string]interface{}{
			"host":     cfg.Postgres.Host,
			"port":     cfg.Postgres.Port,
			"database": cfg.Postgres.DBName,
		})
		DB, err = gorm.Open(postgres.Open(cfg.Postgres.DSN()), gormCfg)
	default:
		appLogger.Info("Opening sqlite database", map[string]interface{}{
			"path": cfg.SQLitePath,
		})
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
