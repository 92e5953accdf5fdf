package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/persistence"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/database"
)

// TrackerStores bundles the two tracker repositories over one private database
type TrackerStores struct {
	DB          *gorm.DB
	RecipeCache goods.RecipeCacheRepository
	GoalState   goal.StateRepository
}

// NewTestDB opens a migrated in-memory database that lives until the test ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "open tracker test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewTrackerStores wires both repositories to a fresh test database
func NewTrackerStores(t *testing.T) *TrackerStores {
	t.Helper()

	db := NewTestDB(t)
	return &TrackerStores{
		DB:          db,
		RecipeCache: persistence.NewGormRecipeCacheRepository(db),
		GoalState:   persistence.NewGormGoalStateRepository(db),
	}
}

// RecipeCacheRows counts persisted recipe cache rows across all fingerprints
func (s *TrackerStores) RecipeCacheRows(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, s.DB.Model(&persistence.RecipeCacheModel{}).Count(&count).Error)
	return count
}
