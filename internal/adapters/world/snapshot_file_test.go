package world

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorld = `
resources:
  Steel: 120
things:
  - {def: Ship_Reactor, stack: 1, building: true}
  - def: MinifiedThing
    inner: {def: Ship_CryptosleepCasket}
colonists:
  - name: Ada
    carried: {def: Steel, stack: 30}
    apparel:
      - {def: Apparel_Parka}
  - name: Bo
colonists_elsewhere: 3
`

func testRegistry() goods.ItemRegistry {
	return goods.NewStaticRegistry([]*goods.ItemDef{
		{Type: "Steel", CountAsResource: true},
		{Type: "Ship_Reactor"},
		{Type: "Ship_CryptosleepCasket"},
	}, nil, "test")
}

func writeWorld(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParseSnapshot(t *testing.T) {
	// Act
	snapshot, err := ParseSnapshot([]byte(sampleWorld))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 120, snapshot.ResourceCounts["Steel"])
	require.Len(t, snapshot.Things, 2)
	assert.True(t, snapshot.Things[0].IsBuilding)
	require.True(t, snapshot.Things[1].IsMinified())
	assert.Equal(t, 1, snapshot.Things[1].Inner.Stack)
	require.Len(t, snapshot.Colonists, 2)
	assert.Equal(t, 30, snapshot.Colonists[0].Carried.Stack)

	state := snapshot.WorldState()
	assert.Equal(t, 2, state.ColonistsOnMap)
	assert.Equal(t, 5, state.ColonistsTotal)
}

func TestParseSnapshot_RejectsInvalid(t *testing.T) {
	for _, body := range []string{
		"things: [\n",
		"things:\n  - {stack: 2}\n",
		"things:\n  - {def: Steel, stack: -1}\n",
		"colonists_elsewhere: -1\n",
	} {
		_, err := ParseSnapshot([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestFileSource_CountsThroughCurrentRegistry(t *testing.T) {
	// Arrange
	source := NewFileSource(writeWorld(t, sampleWorld), testRegistry)
	require.NoError(t, source.Reload(context.Background()))

	// Act
	counts := source.Current().CountAll([]goods.ItemType{"Steel", "Ship_Reactor", "Ship_CryptosleepCasket"}, false, false)

	// Assert
	assert.Equal(t, 150, counts["Steel"])
	assert.Equal(t, 0, counts["Ship_Reactor"])
	assert.Equal(t, 1, counts["Ship_CryptosleepCasket"])
}

func TestFileSource_KeepsLastGoodSnapshot(t *testing.T) {
	// Arrange
	path := writeWorld(t, sampleWorld)
	source := NewFileSource(path, testRegistry)
	require.NoError(t, source.Reload(context.Background()))

	// Act
	require.NoError(t, os.WriteFile(path, []byte("things: [\n"), 0644))
	err := source.Reload(context.Background())

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 2, source.Current().WorldState().ColonistsOnMap)
}

func TestFileSource_EmptyBeforeFirstLoad(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	assert.Error(t, source.Reload(context.Background()))
	assert.Equal(t, 0, source.Current().CountAll([]goods.ItemType{"Steel"}, true, true)["Steel"])
}

func TestFileSource_WatchReloadsOnChange(t *testing.T) {
	// Arrange
	path := writeWorld(t, "resources:\n  Steel: 1\n")
	source := NewFileSource(path, testRegistry)
	require.NoError(t, source.Reload(context.Background()))

	changed := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- source.Watch(ctx, 10*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Act: rewrite until the watcher, which starts asynchronously, reports it
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("resources:\n  Steel: 75\n"), 0644)
		select {
		case <-changed:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	// Assert
	assert.Equal(t, 75, source.Current().CountAll([]goods.ItemType{"Steel"}, false, false)["Steel"])
	cancel()
	assert.NoError(t, <-done)
}
