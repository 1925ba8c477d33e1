package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostwing/lwedit/camera"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/render"
	"github.com/lostwing/lwedit/world"
)

type captureSurface struct {
	w, h  int
	polys [][]geom.Vec2
}

func (s *captureSurface) Size() (int, int) { return s.w, s.h }
func (s *captureSurface) DrawPolygon(points []geom.Vec2) {
	cp := make([]geom.Vec2, len(points))
	copy(cp, points)
	s.polys = append(s.polys, cp)
}

func box(x0, y0, x1, y1 float32) world.Sector {
	pts := []geom.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
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

func TestFloodSingleSectorDrawsWalls(t *testing.T) {
	w := world.New()
	id := w.AddSector(box(-5, -5, 5, 5))

	cam := camera.New(geom.Vec3{0, 0, 1.5}, 0, 0, 1.2, 16.0/9.0, 0.1, 100)
	cam.Sector = id
	cam.SubSector = 0

	surf := &captureSurface{w: 320, h: 240}
	render.Flood(surf, w, cam, id, nil)

	assert.NotEmpty(t, surf.polys)
}

func TestFloodEmptyWorldDrawsNothing(t *testing.T) {
	w := world.New()
	cam := camera.New(geom.Vec3{0, 0, 1.5}, 0, 0, 1.2, 16.0/9.0, 0.1, 100)

	surf := &captureSurface{w: 320, h: 240}
	render.Flood(surf, w, cam, world.NoSector, nil)

	assert.Empty(t, surf.polys)
}

func TestFloodCrossesPortalIntoSecondSector(t *testing.T) {
	w := world.New()
	a := w.AddSector(box(-5, -5, 5, 5))
	b := w.AddSector(box(5, -5, 15, 5))

	secA, _ := w.Sector(a)
	secB, _ := w.Sector(b)
	require.Equal(t, 4, secA.NumWalls())
	require.Equal(t, 4, secB.NumWalls())

	// wall 1 of a runs (5,-5)->(5,5); wall 3 of b runs (5,5)->(5,-5): the
	// matching reversed edge that makes a valid portal pair.
	world.LinkPortal(w, a, 1, b, 3)

	cam := camera.New(geom.Vec3{0, 0, 1.5}, 0, 0, 1.4, 16.0/9.0, 0.1, 200)
	cam.Sector = a
	cam.SubSector = 0

	var overflowed []world.SectorID
	surf := &captureSurface{w: 320, h: 240}
	render.Flood(surf, w, cam, a, func(s world.SectorID) {
		overflowed = append(overflowed, s)
	})

	assert.NotEmpty(t, surf.polys)
	assert.Empty(t, overflowed)
}
