package world

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/filewatch"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"gopkg.in/yaml.v3"
)

// SnapshotFile is the on-disk world snapshot layout
type SnapshotFile struct {
	Resources          map[string]int  `yaml:"resources"`
	Things             []ThingEntry    `yaml:"things"`
	Colonists          []ColonistEntry `yaml:"colonists"`
	ColonistsElsewhere int             `yaml:"colonists_elsewhere"`
}

// ThingEntry is one stack; a minified wrapper sets Inner
type ThingEntry struct {
	Def      string      `yaml:"def"`
	Stack    int         `yaml:"stack"`
	Building bool        `yaml:"building,omitempty"`
	Inner    *ThingEntry `yaml:"inner,omitempty"`
}

// ColonistEntry is one free colonist on the map
type ColonistEntry struct {
	Name      string       `yaml:"name"`
	Carried   *ThingEntry  `yaml:"carried,omitempty"`
	Equipment []ThingEntry `yaml:"equipment,omitempty"`
	Apparel   []ThingEntry `yaml:"apparel,omitempty"`
	Inventory []ThingEntry `yaml:"inventory,omitempty"`
}

// ParseSnapshot decodes world snapshot YAML
func ParseSnapshot(data []byte) (*inventory.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return inventory.EmptySnapshot(), nil
	}

	var file SnapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode world snapshot: %w", err)
	}
	if file.ColonistsElsewhere < 0 {
		return nil, fmt.Errorf("colonists_elsewhere must not be negative")
	}

	snapshot := inventory.EmptySnapshot()
	for item, count := range file.Resources {
		snapshot.ResourceCounts[goods.ItemType(item)] = count
	}

	var err error
	if snapshot.Things, err = toThings(file.Things); err != nil {
		return nil, err
	}

	for _, entry := range file.Colonists {
		colonist := inventory.Colonist{Name: entry.Name}
		if entry.Carried != nil {
			carried, err := toThing(*entry.Carried)
			if err != nil {
				return nil, fmt.Errorf("colonist %s: %w", entry.Name, err)
			}
			colonist.Carried = &carried
		}
		if colonist.Equipment, err = toThings(entry.Equipment); err != nil {
			return nil, fmt.Errorf("colonist %s: %w", entry.Name, err)
		}
		if colonist.Apparel, err = toThings(entry.Apparel); err != nil {
			return nil, fmt.Errorf("colonist %s: %w", entry.Name, err)
		}
		if colonist.Inventory, err = toThings(entry.Inventory); err != nil {
			return nil, fmt.Errorf("colonist %s: %w", entry.Name, err)
		}
		snapshot.Colonists = append(snapshot.Colonists, colonist)
	}
	snapshot.ColonistsElsewhere = file.ColonistsElsewhere

	return snapshot, nil
}

func toThings(entries []ThingEntry) ([]inventory.Thing, error) {
	things := make([]inventory.Thing, 0, len(entries))
	for _, e := range entries {
		thing, err := toThing(e)
		if err != nil {
			return nil, err
		}
		things = append(things, thing)
	}
	return things, nil
}

// toThing defaults a missing stack to one
func toThing(e ThingEntry) (inventory.Thing, error) {
	if e.Def == "" && e.Inner == nil {
		return inventory.Thing{}, fmt.Errorf("thing without def")
	}
	if e.Stack < 0 {
		return inventory.Thing{}, fmt.Errorf("negative stack for %s", e.Def)
	}
	stack := e.Stack
	if stack == 0 {
		stack = 1
	}

	thing := inventory.Thing{Def: goods.ItemType(e.Def), Stack: stack, IsBuilding: e.Building}
	if e.Inner != nil {
		inner, err := toThing(*e.Inner)
		if err != nil {
			return inventory.Thing{}, fmt.Errorf("minified %s: %w", e.Def, err)
		}
		thing.Inner = &inner
	}
	return thing, nil
}

// FileSource serves the world from a YAML snapshot file.
// It implements inventory.WorldSource; a failed reload keeps the last good snapshot.
type FileSource struct {
	path     string
	registry func() goods.ItemRegistry
	snapshot atomic.Pointer[inventory.Snapshot]
}

// NewFileSource creates a source for path. registry supplies the current
// item registry, which decides which items are bulk resources.
func NewFileSource(path string, registry func() goods.ItemRegistry) *FileSource {
	s := &FileSource{path: path, registry: registry}
	s.snapshot.Store(inventory.EmptySnapshot())
	return s
}

// Path returns the snapshot file path
func (s *FileSource) Path() string {
	return s.path
}

// Reload re-reads the snapshot file
func (s *FileSource) Reload(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.Log(common.LevelWarn, "World snapshot unreadable, keeping last good snapshot", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to read world snapshot %s: %w", s.path, err)
	}

	snapshot, err := ParseSnapshot(data)
	if err != nil {
		logger.Log(common.LevelWarn, "World snapshot invalid, keeping last good snapshot", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to parse world snapshot %s: %w", s.path, err)
	}

	s.snapshot.Store(snapshot)
	logger.Log(common.LevelDebug, "World snapshot loaded", map[string]interface{}{
		"path":      s.path,
		"things":    len(snapshot.Things),
		"colonists": len(snapshot.Colonists),
	})
	return nil
}

// Watch reloads the snapshot on every change and calls onChange after each
// successful reload, until ctx is cancelled
func (s *FileSource) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	logger := common.LoggerFromContext(ctx)

	watcher, err := filewatch.NewWatcher(debounce, s.path)
	if err != nil {
		return fmt.Errorf("failed to create world watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return fmt.Errorf("failed to watch world snapshot %s: %w", s.path, err)
	}
	defer watcher.Stop()

	logger.Log(common.LevelInfo, "Watching world snapshot", map[string]interface{}{"path": s.path})

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Changes:
			if !ok {
				return nil
			}
			if err := s.Reload(ctx); err != nil {
				continue
			}
			if onChange != nil {
				onChange()
			}
		}
	}
}

// Current implements inventory.WorldSource
func (s *FileSource) Current() inventory.WorldView {
	var registry goods.ItemRegistry
	if s.registry != nil {
		registry = s.registry()
	}
	return inventory.NewSnapshotCounter(s.snapshot.Load(), registry)
}

var _ inventory.WorldSource = (*FileSource)(nil)
