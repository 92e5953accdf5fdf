package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
)

// GormGoalStateRepository implements goal.StateRepository using GORM
type GormGoalStateRepository struct {
	db *gorm.DB
}

// NewGormGoalStateRepository creates a new GORM goal state repository
func NewGormGoalStateRepository(db *gorm.DB) goal.StateRepository {
	return &GormGoalStateRepository{db: db}
}

// Load retrieves the saved state of an instance, nil if none was saved
func (r *GormGoalStateRepository) Load(ctx context.Context, instance string) (*goal.State, error) {
	var model GoalStateModel
	result := r.db.WithContext(ctx).Where("instance = ?", instance).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load goal state: %w", result.Error)
	}

	return r.modelToState(&model), nil
}

// Save persists the state of an instance (upsert)
func (r *GormGoalStateRepository) Save(ctx context.Context, state *goal.State) error {
	if state == nil || state.Instance == "" {
		return fmt.Errorf("goal state requires an instance")
	}

	model := r.stateToModel(state)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance"}},
			DoUpdates: clause.AssignmentColumns([]string{"active_preset", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save goal state: %w", err)
	}

	return nil
}

func (r *GormGoalStateRepository) modelToState(model *GoalStateModel) *goal.State {
	return &goal.State{
		Instance:     model.Instance,
		ActivePreset: model.ActivePreset,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (r *GormGoalStateRepository) stateToModel(state *goal.State) *GoalStateModel {
	return &GoalStateModel{
		Instance:     state.Instance,
		ActivePreset: state.ActivePreset,
		UpdatedAt:    state.UpdatedAt,
	}
}
