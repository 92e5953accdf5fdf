package goal

import (
	"context"
	"time"
)

// State is the persisted selection of a tracker instance
type State struct {
	Instance     string
	ActivePreset string
	UpdatedAt    time.Time
}

// StateRepository persists the active preset across restarts.
// Load returns nil without error when nothing was saved yet.
type StateRepository interface {
	Load(ctx context.Context, instance string) (*State, error)
	Save(ctx context.Context, state *State) error
}
