package kv

import (
	"context"
	"errors"
	"time"

	"github.com/storify/storify-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is one persisted key-value row.
type Slot struct {
	Key       string    `gorm:"primarykey;size:255" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slot) TableName() string {
	return "kv_slots"
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by a relational table. Works with the
// sqlite driver for local durable storage and with postgres for shared
// deployments.
func NewGormStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var slot Slot
	err := s.db.WithContext(ctx).First(&slot, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		logger.Error("Failed to read slot", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return slot.Value, nil
}

func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	slot := Slot{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		logger.Error("Failed to write slot", err, map[string]interface{}{
			"key":  key,
			"size": len(value),
		})
		return err
	}

	logger.Debug("Slot written", map[string]interface{}{
		"key":  key,
		"size": len(value),
	})
	return nil
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Slot{}, "key = ?", key).Error; err != nil {
		logger.Error("Failed to delete slot", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
