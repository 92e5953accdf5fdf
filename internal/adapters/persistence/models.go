package persistence

import (
	"time"
)

// RecipeCacheModel represents the recipe_cache table.
// One row per resolved item of a registry; an empty recipe name is a cached miss.
type RecipeCacheModel struct {
	Fingerprint string    `gorm:"column:fingerprint;primaryKey;not null"`
	Item        string    `gorm:"column:item;primaryKey;not null"`
	RecipeName  string    `gorm:"column:recipe_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (RecipeCacheModel) TableName() string {
	return "recipe_cache"
}

// GoalStateModel represents the goal_state table
type GoalStateModel struct {
	Instance     string    `gorm:"column:instance;primaryKey;not null"`
	ActivePreset string    `gorm:"column:active_preset;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (GoalStateModel) TableName() string {
	return "goal_state"
}
