package persistence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// GormRecipeCacheRepository implements RecipeCacheRepository using GORM
type GormRecipeCacheRepository struct {
	db *gorm.DB
}

// NewGormRecipeCacheRepository creates a new GORM recipe cache repository
func NewGormRecipeCacheRepository(db *gorm.DB) goods.RecipeCacheRepository {
	return &GormRecipeCacheRepository{db: db}
}

// Load retrieves the cached entries of a registry; an unknown fingerprint is an empty cache
func (r *GormRecipeCacheRepository) Load(ctx context.Context, fingerprint string) (map[goods.ItemType]string, error) {
	var models []RecipeCacheModel
	result := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load recipe cache: %w", result.Error)
	}

	entries := make(map[goods.ItemType]string, len(models))
	for _, model := range models {
		entries[goods.ItemType(model.Item)] = model.RecipeName
	}
	return entries, nil
}

// Save replaces the cached entries of a registry.
// Entries of other fingerprints are dropped: only the current registry's cache is worth keeping.
func (r *GormRecipeCacheRepository) Save(ctx context.Context, fingerprint string, entries map[goods.ItemType]string) error {
	models := r.entriesToModels(fingerprint, entries)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&RecipeCacheModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, 200).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe cache: %w", err)
	}

	return nil
}

func (r *GormRecipeCacheRepository) entriesToModels(fingerprint string, entries map[goods.ItemType]string) []RecipeCacheModel {
	items := make([]string, 0, len(entries))
	for item := range entries {
		items = append(items, string(item))
	}
	sort.Strings(items)

	now := time.Now()
	models := make([]RecipeCacheModel, 0, len(items))
	for _, item := range items {
		models = append(models, RecipeCacheModel{
			Fingerprint: fingerprint,
			Item:        item,
			RecipeName:  entries[goods.ItemType(item)],
			CreatedAt:   now,
		})
	}
	return models
}
