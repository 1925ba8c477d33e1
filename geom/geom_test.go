package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lostwing/lwedit/geom"
)

func square() []geom.Vec2 {
	return []geom.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func TestPointInPolygon(t *testing.T) {
	verts := square()

	assert.True(t, geom.PointInPolygon(verts, geom.Vec2{5, 5}))
	assert.False(t, geom.PointInPolygon(verts, geom.Vec2{20, 20}))

	// a diamond whose leftmost vertex (0,5) sits exactly on the -x ray cast
	// from (2,5): the ray passes through the two edges meeting at that
	// vertex, and the even-odd rule must count the crossing once, not
	// zero or twice.
	diamond := []geom.Vec2{{5, 0}, {10, 5}, {5, 10}, {0, 5}}
	assert.True(t, geom.PointInPolygon(diamond, geom.Vec2{2, 5}))
}

func TestPointInConvexPolygon(t *testing.T) {
	// the function accepts only clockwise winding in y-up coordinates, so
	// walk square()'s corners in reverse order and confirm interior/exterior.
	verts := []geom.Vec2{{0, 0}, {0, 10}, {10, 10}, {10, 0}}

	assert.True(t, geom.PointInConvexPolygon(verts, geom.Vec2{5, 5}))
	assert.False(t, geom.PointInConvexPolygon(verts, geom.Vec2{-5, 5}))
}

func TestIntersectSegmentSegment(t *testing.T) {
	a := [2]geom.Vec2{{0, 0}, {10, 10}}
	b := [2]geom.Vec2{{0, 10}, {10, 0}}

	tt, ok := geom.IntersectSegmentSegment(a, b)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-5)

	// parallel segments never intersect; denom == 0 must report ok=false.
	c := [2]geom.Vec2{{0, 1}, {10, 11}}
	_, ok = geom.IntersectSegmentSegment(a, c)
	assert.False(t, ok)

	// segments that only intersect along their infinite extension, not
	// within either's bounded range.
	d := [2]geom.Vec2{{20, 20}, {30, 10}}
	_, ok = geom.IntersectSegmentSegment(a, d)
	assert.False(t, ok)
}

func TestIntersectSegmentLine(t *testing.T) {
	seg := [2]geom.Vec2{{0, 0}, {10, 10}}
	line := [2]geom.Vec2{{0, 10}, {10, 0}}

	tt, ok := geom.IntersectSegmentLine(seg, line)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-5)

	// a line parallel to the segment never crosses it.
	parallel := [2]geom.Vec2{{0, 1}, {10, 11}}
	_, ok = geom.IntersectSegmentLine(seg, parallel)
	assert.False(t, ok)

	// the infinite line crosses outside the segment's own [0,1] range.
	beyond := [2]geom.Vec2{{20, 0}, {20, 10}}
	_, ok = geom.IntersectSegmentLine(seg, beyond)
	assert.False(t, ok)
}

func TestIntersectSegmentRay(t *testing.T) {
	line := [2]geom.Vec2{{-5, 5}, {5, 5}}
	ray := [2]geom.Vec2{{0, 0}, {0, 1}}

	tt, u, ok := geom.IntersectSegmentRay(line, ray)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-5)
	assert.InDelta(t, 5, u, 1e-5)

	// the ray points away from the segment, so u would be negative.
	behindRay := [2]geom.Vec2{{0, 0}, {0, -1}}
	_, _, ok = geom.IntersectSegmentRay(line, behindRay)
	assert.False(t, ok)
}

func TestIntersectSegmentPlane(t *testing.T) {
	plane := geom.Plane{0, 0, 1, 5} // z == 5
	line := [2]geom.Vec3{{0, 0, 0}, {0, 0, 10}}

	tt, ok := geom.IntersectSegmentPlane(line, plane)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-5)

	// a segment lying in a plane parallel to the target plane never
	// crosses it; denom == 0 must report ok=false.
	parallelLine := [2]geom.Vec3{{0, 0, 1}, {10, 10, 1}}
	_, ok = geom.IntersectSegmentPlane(parallelLine, plane)
	assert.False(t, ok)

	// segment entirely on one side of the plane, out of the [0,1] range.
	shortLine := [2]geom.Vec3{{0, 0, 0}, {0, 0, 2}}
	_, ok = geom.IntersectSegmentPlane(shortLine, plane)
	assert.False(t, ok)
}

func TestPlaneFromPoints(t *testing.T) {
	p := geom.PlaneFromPoints(geom.Vec3{0, 0, 0}, geom.Vec3{1, 0, 0}, geom.Vec3{0, 1, 0})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 1, abs(p[2]), 1e-5)
	assert.InDelta(t, 0, p[3], 1e-5)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestClosestPointOnSegment(t *testing.T) {
	seg := [2]geom.Vec2{{0, 0}, {10, 0}}

	assert.Equal(t, geom.Vec2{5, 0}, geom.ClosestPointOnSegment(seg, geom.Vec2{5, 5}))
	assert.Equal(t, geom.Vec2{0, 0}, geom.ClosestPointOnSegment(seg, geom.Vec2{-5, 0}))
	assert.Equal(t, geom.Vec2{10, 0}, geom.ClosestPointOnSegment(seg, geom.Vec2{20, 0}))

	// a degenerate zero-length segment collapses to its single point.
	degenerate := [2]geom.Vec2{{3, 3}, {3, 3}}
	assert.Equal(t, geom.Vec2{3, 3}, geom.ClosestPointOnSegment(degenerate, geom.Vec2{9, 9}))
}
