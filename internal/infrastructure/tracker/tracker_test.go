package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryYAML = `
items:
  - def: Steel
    resource: true
  - def: ComponentIndustrial
    resource: true
  - def: Ship_Reactor
    label: ship reactor
    cost:
      - {item: Steel, count: 350}
      - {item: ComponentIndustrial, count: 8}
recipes:
  - name: Make_ComponentIndustrial
    products:
      - {item: ComponentIndustrial, count: 1}
    ingredients:
      - - {item: Steel, count: 12}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Registry.Path = writeFile(t, dir, "registry.yaml", registryYAML)
	cfg.Tracker.WorldPath = writeFile(t, dir, "world.yaml", "resources:\n  Steel: 120\n")
	return cfg
}

func TestBuild_WiresTrackerFromFiles(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig(t)

	// Act
	tr, err := Build(ctx, cfg, Options{})
	require.NoError(t, err)
	tr.Goals.Tick(ctx)

	// Assert
	assert.Equal(t, goal.PresetReactor, tr.Goals.Active().ID())

	resp, err := tr.Mediator.Send(ctx, &queries.GetDeficitQuery{})
	require.NoError(t, err)
	deficit := resp.(*queries.GetDeficitResponse)
	missing := map[string]int{}
	for _, item := range deficit.Items {
		missing[item.Item] = item.Missing
	}
	// 350 direct + 8 components * 12 steel, less 120 in stock
	assert.Equal(t, map[string]int{"Steel": 326, "ComponentIndustrial": 8}, missing)
}

func TestBuild_MissingWorldStartsEmpty(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Tracker.WorldPath = filepath.Join(t.TempDir(), "absent.yaml")

	// Act
	tr, err := Build(ctx, cfg, Options{})
	require.NoError(t, err)
	deficit := tr.Goals.Tick(ctx)

	// Assert
	assert.Equal(t, 446, deficit.Get("Steel"))
}

func TestBuild_SelectsConfiguredDefaultPreset(t *testing.T) {
	// Arrange
	cfg := testConfig(t)
	cfg.Presets.Default = goal.PresetShip

	// Act
	tr, err := Build(context.Background(), cfg, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, goal.PresetShip, tr.Goals.Active().ID())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{
			name:   "missing registry",
			mutate: func(cfg *config.Config) { cfg.Registry.Path = filepath.Join(os.TempDir(), "no-such-registry.yaml") },
		},
		{
			name:   "unknown default preset",
			mutate: func(cfg *config.Config) { cfg.Presets.Default = "rocket" },
		},
		{
			name:   "missing presets file",
			mutate: func(cfg *config.Config) { cfg.Presets.File = filepath.Join(os.TempDir(), "no-such-goals.toml") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := testConfig(t)
			tt.mutate(cfg)

			// Act
			_, err := Build(context.Background(), cfg, Options{})

			// Assert
			assert.Error(t, err)
		})
	}
}
