package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customPresets = `
[[preset]]
id = "defense"
label = "defense line"
label_item = "Turret_MiniTurret"

  [[preset.part]]
  item = "Turret_MiniTurret"
  count = 4

[[preset]]
id = "ship"
label = "ship with spare engine"

  [[preset.part]]
  item = "Ship_Engine"
  count = 4

  [[preset.part]]
  item = "Ship_Reactor"
  count = 1
`

func TestParse(t *testing.T) {
	defs, err := Parse([]byte(customPresets))

	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "defense", defs[0].ID)
	assert.Equal(t, goods.ItemType("Turret_MiniTurret"), defs[0].LabelItem)
	assert.Equal(t, []goods.ThingCount{{Item: "Turret_MiniTurret", Count: 4}}, defs[0].Parts)
}

func TestLoad_BuiltInsFromConfig(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig().Presets

	// Act
	goals, err := Load(cfg)

	// Assert
	require.NoError(t, err)
	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.ID())
	}
	assert.Equal(t, []string{goal.PresetReactor, goal.PresetShip, goal.PresetShipMap, goal.PresetShipAll}, ids)
	assert.Equal(t, 1, goals[0].Target("Ship_Reactor"))
	assert.Equal(t, 3, goals[1].Target("Ship_Engine"))
}

func TestLoad_CustomFileReplacesAndAppends(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "goals.toml")
	require.NoError(t, os.WriteFile(path, []byte(customPresets), 0644))
	cfg := config.DefaultConfig().Presets
	cfg.File = path

	// Act
	goals, err := Load(cfg)

	// Assert
	require.NoError(t, err)
	require.Len(t, goals, 5)
	assert.Equal(t, goal.PresetShip, goals[1].ID())
	assert.Equal(t, "ship with spare engine", goals[1].Label())
	assert.Equal(t, 4, goals[1].Target("Ship_Engine"))
	assert.Equal(t, "defense", goals[4].ID())
}

func TestLoad_InvalidCustomPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[preset]]\nid = \"empty\"\n"), 0644))
	cfg := config.DefaultConfig().Presets
	cfg.File = path

	_, err := Load(cfg)

	var invalid *goal.ErrInvalidPreset
	assert.ErrorAs(t, err, &invalid)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := config.DefaultConfig().Presets
	cfg.File = filepath.Join(t.TempDir(), "missing.toml")

	_, err := Load(cfg)

	assert.Error(t, err)
}
