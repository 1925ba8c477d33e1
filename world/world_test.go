package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

func square(side float32) world.Sector {
	pts := []geom.Vec2{
		{0, 0},
		{side, 0},
		{side, side},
		{0, side},
	}
	sec := world.Sector{
		Walls:      make([]world.Wall, len(pts)),
		SubSectors: []world.SubSector{{Floor: 0, Ceiling: 3}},
	}
	n := len(pts)
	for i, p := range pts {
		sec.Walls[i] = world.Wall{
			Start:        p,
			Next:         world.WallID((i + 1) % n),
			Prev:         world.WallID((i - 1 + n) % n),
			PortalSector: world.NoSector,
			PortalWall:   world.NoWall,
		}
	}
	for i := range sec.Walls {
		world.RecalcWallPlane(&sec, world.WallID(i))
	}
	return sec
}

func TestPointInSector(t *testing.T) {
	w := world.New()
	id := w.AddSector(square(10))
	sec, ok := w.Sector(id)
	require.True(t, ok)

	cases := []struct {
		name   string
		point  geom.Vec2
		inside bool
	}{
		{"center", geom.Vec2{5, 5}, true},
		{"outside", geom.Vec2{20, 20}, false},
		{"outside-left", geom.Vec2{-1, 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inside, world.PointInSector(sec, tc.point, 0))
		})
	}
}

func TestGetSector(t *testing.T) {
	w := world.New()
	a := w.AddSector(square(10))
	_ = a

	id, ok := world.GetSector(w, geom.Vec2{5, 5})
	require.True(t, ok)
	assert.Equal(t, a, id)

	_, ok = world.GetSector(w, geom.Vec2{500, 500})
	assert.False(t, ok)
}

func TestSectorIDStableAcrossUnrelatedRemoval(t *testing.T) {
	w := world.New()
	a := w.AddSector(square(10))
	b := w.AddSector(square(20))
	c := w.AddSector(square(30))

	w.RemoveSector(b)

	// a and c must still resolve to their original sectors; removing b must
	// not relabel either of them.
	_, ok := w.Sector(a)
	assert.True(t, ok)
	secC, ok := w.Sector(c)
	assert.True(t, ok)
	assert.Len(t, secC.Walls, 4)

	_, ok = w.Sector(b)
	assert.False(t, ok)
}

func TestSignedAreaSumCCW(t *testing.T) {
	sec := square(10)
	assert.LessOrEqual(t, sec.SignedAreaSum(), float32(0))
}

func TestFixupWallMoveRetargetsPortalBackref(t *testing.T) {
	w := world.New()
	a := w.AddSector(square(10))
	b := w.AddSector(square(10))

	world.LinkPortal(w, a, 1, b, 3)

	world.FixupWallMove(w, b, 3, 0)

	secA, _ := w.Sector(a)
	assert.Equal(t, world.WallID(0), secA.Walls[1].PortalWall)
}

func TestLinkAndTearDownPortalSymmetric(t *testing.T) {
	w := world.New()
	a := w.AddSector(square(10))
	b := w.AddSector(square(10))

	world.LinkPortal(w, a, 0, b, 2)
	secA, _ := w.Sector(a)
	secB, _ := w.Sector(b)
	assert.True(t, secA.Walls[0].HasPortal())
	assert.True(t, secB.Walls[2].HasPortal())

	world.TearDownPortal(w, a, 0)
	assert.False(t, secA.Walls[0].HasPortal())
	assert.False(t, secB.Walls[2].HasPortal())
}

func TestGetSubSector(t *testing.T) {
	sec := &world.Sector{
		SubSectors: []world.SubSector{
			{Floor: 0, Ceiling: 2},
			{Floor: 2, Ceiling: 4},
			{Floor: 4, Ceiling: 6},
		},
	}
	assert.Equal(t, 0, world.GetSubSector(sec, -1))
	assert.Equal(t, 1, world.GetSubSector(sec, 3))
	assert.Equal(t, 2, world.GetSubSector(sec, 5))
}
