package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostwing/lwedit/editor"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

func newEd(t *testing.T) *editor.Editor {
	t.Helper()
	return editor.New(world.New(), 640, 480, nil)
}

func TestCreateSectorRoundTrip(t *testing.T) {
	e := newEd(t)

	e.BeginCreateSector(geom.Vec2{0, 0})
	require.Equal(t, editor.StateCreateSector, e.State)

	e.AddCreateSectorPoint(geom.Vec2{10, 0})
	e.AddCreateSectorPoint(geom.Vec2{10, 10})
	e.AddCreateSectorPoint(geom.Vec2{0, 10})
	// closing click back near the first point
	e.AddCreateSectorPoint(geom.Vec2{0, 0})

	assert.Equal(t, editor.StateIdle, e.State)
	require.Equal(t, 1, e.World.NumSectors())

	ids := e.World.Order()
	sec, ok := e.World.Sector(ids[0])
	require.True(t, ok)
	assert.Equal(t, 4, sec.NumWalls())
	assert.LessOrEqual(t, sec.SignedAreaSum(), float32(0))
}

func square(side float32) world.Sector {
	pts := []geom.Vec2{{0, 0}, {side, 0}, {side, side}, {0, side}}
	sec := world.Sector{
		Walls:      make([]world.Wall, 4),
		SubSectors: []world.SubSector{{Floor: 0, Ceiling: 3}},
	}
	for i, p := range pts {
		sec.Walls[i] = world.Wall{
			Start:        p,
			Next:         world.WallID((i + 1) % 4),
			Prev:         world.WallID((i + 3) % 4),
			PortalSector: world.NoSector,
			PortalWall:   world.NoWall,
		}
	}
	for i := range sec.Walls {
		world.RecalcWallPlane(&sec, world.WallID(i))
	}
	return sec
}

func TestDeletePointsRemovesSectorWhenTooFewWallsRemain(t *testing.T) {
	e := newEd(t)
	id := e.World.AddSector(square(10))
	sec, _ := e.World.Sector(id)
	for i := range sec.Walls {
		sec.Walls[i].Sector = id
	}

	// Deleting 2 of 4 walls leaves 2, below the 3-wall minimum, so the
	// whole sector is removed rather than left as a degenerate polygon.
	e.Selection = editor.Selection{{Sector: id, Wall: 0}, {Sector: id, Wall: 1}}
	e.DeleteSelected()

	assert.Equal(t, 0, e.World.NumSectors())
}

func TestDeletePointsSplicesWallWhenEnoughRemain(t *testing.T) {
	e := newEd(t)
	id := e.World.AddSector(square(10))
	sec, _ := e.World.Sector(id)
	for i := range sec.Walls {
		sec.Walls[i].Sector = id
	}

	e.Selection = editor.Selection{{Sector: id, Wall: 0}}
	e.DeleteSelected()

	require.Equal(t, 1, e.World.NumSectors())
	sec, ok := e.World.Sector(id)
	require.True(t, ok)
	assert.Equal(t, 3, sec.NumWalls())

	// the cycle must still be a single closed loop over all 3 walls.
	seen := map[world.WallID]bool{}
	cur := world.WallID(0)
	for i := 0; i < 3; i++ {
		require.False(t, seen[cur], "cycle revisited a wall early")
		seen[cur] = true
		cur = sec.Wall(cur).Next
	}
	assert.Equal(t, world.WallID(0), cur)
}

func TestAutoPortalLinksCoincidentWalls(t *testing.T) {
	e := newEd(t)
	a := e.World.AddSector(square(10))
	secA, _ := e.World.Sector(a)
	for i := range secA.Walls {
		secA.Walls[i].Sector = a
	}

	b := square(10)
	// translate so b's left edge touches a's right edge, reversed winding
	// order on that shared edge, as CoincidesForPortal requires.
	for i := range b.Walls {
		b.Walls[i].Start = geom.Vec2{b.Walls[i].Start.X() + 10, b.Walls[i].Start.Y()}
	}
	bID := e.World.AddSector(b)
	secB, _ := e.World.Sector(bID)
	for i := range secB.Walls {
		secB.Walls[i].Sector = bID
	}

	linked := world.CoincidesForPortal(e.World, a, 1, bID, 3)
	require.True(t, linked, "fixture walls should coincide for a portal pair")

	// click the midpoint (10,5) of the shared edge; with the default view
	// it is the nearest point of a's wall 1, the first wall found there.
	click := e.View.ToScreenMat.Mul4x1([4]float32{10, 5, 0, 1})
	e.AutoPortal(geom.Vec2{click[0], click[1]})
	wa := secA.Wall(1)
	assert.True(t, wa.HasPortal())
	assert.Equal(t, bID, wa.PortalSector)

	world.TearDownPortal(e.World, a, 1)
	assert.False(t, secA.Wall(1).HasPortal())
	assert.False(t, secB.Wall(3).HasPortal())
}

func TestMovePointsCancelRevertsPosition(t *testing.T) {
	e := newEd(t)
	id := e.World.AddSector(square(10))
	sec, _ := e.World.Sector(id)
	for i := range sec.Walls {
		sec.Walls[i].Sector = id
	}

	ref := world.Ref{Sector: id, Wall: 0}
	e.Selection = editor.Selection{ref}
	e.BeginMovePoint(0)
	require.Equal(t, editor.StateMovePoints, e.State)

	original := sec.Wall(0).Start
	// simulate a drag having moved the point, as a frame of Update2D would.
	sec.Wall(0).Start = geom.Vec2{original.X() + 50, original.Y() - 50}

	e.CancelMove()

	assert.Equal(t, editor.StateIdle, e.State)
	assert.Equal(t, original, sec.Wall(0).Start)
}

func TestSelectionBoxCollectsPointsInside(t *testing.T) {
	e := newEd(t)
	id := e.World.AddSector(square(10))
	sec, _ := e.World.Sector(id)
	for i := range sec.Walls {
		sec.Walls[i].Sector = id
	}

	e.BeginSelectionBox(geom.Vec2{0, 0})
	// expand the box across the whole view by dragging to its far corner.
	e.View.Width, e.View.Height = 640, 480
	e.Box.Low = geom.Vec2{-1000, -1000}
	e.Box.High = geom.Vec2{1000, 1000}
	e.FinishSelectionBox()

	assert.Equal(t, editor.StateIdle, e.State)
	assert.Len(t, e.Selection, 4)
}
