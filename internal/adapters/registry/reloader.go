package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/filewatch"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
)

// Reloader loads the registry file into a new recipe session whenever it changes
type Reloader struct {
	path     string
	debounce time.Duration
	mediator mediator.Mediator
}

// NewReloader creates a reloader for path
func NewReloader(path string, debounce time.Duration, m mediator.Mediator) *Reloader {
	return &Reloader{path: path, debounce: debounce, mediator: m}
}

// Reload loads the file and dispatches ReloadRegistryCommand.
// A file that fails to load leaves the current session untouched.
func (r *Reloader) Reload(ctx context.Context) (*commands.ReloadRegistryResponse, error) {
	reg, err := LoadFile(r.path)
	if err != nil {
		metrics.RecordRegistryReload(false)
		return nil, err
	}

	resp, err := r.mediator.Send(ctx, &commands.ReloadRegistryCommand{Registry: reg})
	if err != nil {
		return nil, fmt.Errorf("failed to reload registry: %w", err)
	}
	return resp.(*commands.ReloadRegistryResponse), nil
}

// Watch reloads on every change until ctx is cancelled
func (r *Reloader) Watch(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)

	watcher, err := filewatch.NewWatcher(r.debounce, r.path)
	if err != nil {
		return fmt.Errorf("failed to create registry watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return fmt.Errorf("failed to watch registry %s: %w", r.path, err)
	}
	defer watcher.Stop()

	logger.Log(common.LevelInfo, "Watching registry", map[string]interface{}{"path": r.path})

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			if _, err := r.Reload(ctx); err != nil {
				logger.Log(common.LevelError, "Registry reload failed, keeping current session", map[string]interface{}{
					"path":  r.path,
					"error": err.Error(),
				})
			}
		}
	}
}
