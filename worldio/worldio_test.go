package worldio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
	"github.com/lostwing/lwedit/worldio"
)

func buildTwoSectorWorld() *world.World {
	w := world.New()

	a := world.Sector{
		Walls: []world.Wall{
			{Start: geom.Vec2{0, 0}, Next: 1, Prev: 3, PortalSector: world.NoSector, PortalWall: world.NoWall},
			{Start: geom.Vec2{10, 0}, Next: 2, Prev: 0, PortalSector: world.NoSector, PortalWall: world.NoWall},
			{Start: geom.Vec2{10, 10}, Next: 3, Prev: 1, PortalSector: world.NoSector, PortalWall: world.NoWall},
			{Start: geom.Vec2{0, 10}, Next: 0, Prev: 2, PortalSector: world.NoSector, PortalWall: world.NoWall},
		},
		SubSectors: []world.SubSector{{Floor: 0, Ceiling: 3}},
	}
	b := world.Sector{
		Walls: []world.Wall{
			{Start: geom.Vec2{10, 0}, Next: 1, Prev: 3},
			{Start: geom.Vec2{20, 0}, Next: 2, Prev: 0},
			{Start: geom.Vec2{20, 10}, Next: 3, Prev: 1},
			{Start: geom.Vec2{10, 10}, Next: 0, Prev: 2},
		},
		SubSectors: []world.SubSector{{Floor: 0, Ceiling: 3}},
	}

	idA := w.AddSector(a)
	idB := w.AddSector(b)

	world.LinkPortal(w, idA, 1, idB, 3)
	return w
}

func TestSaveLoadRoundTrip(t *testing.T) {
	w := buildTwoSectorWorld()
	path := filepath.Join(t.TempDir(), "level.lwbb")

	require.NoError(t, worldio.Save(w, path))

	loaded, err := worldio.Load(path)
	require.NoError(t, err)
	require.Equal(t, w.NumSectors(), loaded.NumSectors())

	order := w.Order()
	loadedOrder := loaded.Order()
	for i := range order {
		orig, _ := w.Sector(order[i])
		got, _ := loaded.Sector(loadedOrder[i])
		assert.Equal(t, len(orig.Walls), len(got.Walls))
		assert.Equal(t, len(orig.SubSectors), len(got.SubSectors))
		for j := range orig.Walls {
			assert.Equal(t, orig.Walls[j].Start, got.Walls[j].Start)
			assert.Equal(t, orig.Walls[j].Next, got.Walls[j].Next)
			assert.Equal(t, orig.Walls[j].HasPortal(), got.Walls[j].HasPortal())
		}
	}
}

func TestSaveThenSaveAgainIsStable(t *testing.T) {
	w := buildTwoSectorWorld()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.lwbb")
	p2 := filepath.Join(dir, "b.lwbb")

	require.NoError(t, worldio.Save(w, p1))
	loaded, err := worldio.Load(p1)
	require.NoError(t, err)
	require.NoError(t, worldio.Save(loaded, p2))

	loaded2, err := worldio.Load(p2)
	require.NoError(t, err)
	assert.Equal(t, loaded.NumSectors(), loaded2.NumSectors())

	// save -> load -> save must reproduce the first file byte for byte.
	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lwbb")
	require.NoError(t, writeFile(path, []byte("not a level file at all")))

	_, err := worldio.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := worldio.Load(filepath.Join(t.TempDir(), "missing.lwbb"))
	assert.Error(t, err)
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
