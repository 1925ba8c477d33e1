// Package geom implements the 2D/3D geometric predicates the portal-world
// editor and renderer are built on: point-in-polygon tests, segment/line/
// ray/plane intersections, and plane construction. All comparisons use
// floats directly; AUTO_PORTAL_EPSILON-style tolerances are the caller's
// concern, not this package's.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Vec2 is a 2D point or direction.
type Vec2 = mgl32.Vec2

// Vec3 is a 3D point or direction.
type Vec3 = mgl32.Vec3

// Plane is (nx, ny, nz, d): points p on the plane satisfy n·p == d.
type Plane = mgl32.Vec4

func signum(f float32) float32 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// PointInPolygon runs an even-odd ray cast in the -x direction from point
// against the closed polygon described by the ordered vertices verts (edge i
// runs from verts[i] to verts[(i+1)%len(verts)]). The polygon may be concave
// or self-intersecting; verts must have at least 3 entries.
func PointInPolygon(verts []Vec2, point Vec2) bool {
	ray := [2]Vec2{point, {point.X() - 1, point.Y()}}
	count := 0

	n := len(verts)
	for i := 0; i < n; i++ {
		line := [2]Vec2{verts[i], verts[(i+1)%n]}
		t, ok := IntersectSegmentRayT(line, ray)
		if !ok {
			continue
		}
		switch {
		case t != 0 && t != 1:
			count++
		case t == 1 && line[0].Y() > ray[0].Y():
			count++
		case line[1].Y() > ray[0].Y():
			count++
		}
	}

	return count%2 == 1
}

// PointInConvexPolygon walks the boundary of a convex polygon and fails as
// soon as any edge's cross product with the test vector goes positive.
// Interior points pass only for clockwise winding in y-up coordinates (the
// reverse of a well-formed sector's CCW wall order); for CCW input every
// interior point fails.
func PointInConvexPolygon(verts []Vec2, point Vec2) bool {
	n := len(verts)
	a := verts[0]
	for i := 1; i < n; i++ {
		b := verts[i]
		m := b.Sub(a)
		v := point.Sub(a)
		if cross2D(m, v) > 0 {
			return false
		}
		a = b
	}

	b := verts[0]
	m := b.Sub(a)
	v := point.Sub(a)
	return cross2D(m, v) <= 0
}

func cross2D(a, b Vec2) float32 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// IntersectSegmentSegment tests segment seg0 against segment seg1 and
// returns seg0's parametric t when both range tests pass.
func IntersectSegmentSegment(seg0, seg1 [2]Vec2) (t float32, ok bool) {
	x1, y1 := seg0[0].X(), seg0[0].Y()
	x2, y2 := seg0[1].X(), seg0[1].Y()
	x3, y3 := seg1[0].X(), seg1[0].Y()
	x4, y4 := seg1[1].X(), seg1[1].Y()

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return 0, false
	}
	s := signum(denom)

	tn := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	un := (x1-x3)*(y1-y2) - (y1-y3)*(x1-x2)
	tn *= s
	un *= s
	denom *= s

	if tn < 0 || tn > denom || un < 0 || un > denom {
		return 0, false
	}
	return tn / denom, true
}

// IntersectSegmentLine tests segment seg against the infinite line through
// the two points in line, returning seg's parametric t.
func IntersectSegmentLine(seg, line [2]Vec2) (t float32, ok bool) {
	x1, y1 := seg[0].X(), seg[0].Y()
	x2, y2 := seg[1].X(), seg[1].Y()
	x3, y3 := line[0].X(), line[0].Y()
	x4, y4 := line[1].X(), line[1].Y()

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return 0, false
	}
	s := signum(denom)

	tn := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	tn *= s
	denom *= s

	if tn < 0 || tn > denom {
		return 0, false
	}
	return tn / denom, true
}

// IntersectSegmentRay tests segment line against ray, returning both line's
// parametric t and ray's parametric u. Range tests require 0<=t<=1 on the
// segment and 0<=u on the ray (the ray is unbounded past its origin).
func IntersectSegmentRay(line, ray [2]Vec2) (t, u float32, ok bool) {
	x1, y1 := line[0].X(), line[0].Y()
	x2, y2 := line[1].X(), line[1].Y()
	x3, y3 := ray[0].X(), ray[0].Y()
	x4, y4 := ray[1].X(), ray[1].Y()

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return 0, 0, false
	}
	s := signum(denom)

	tn := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	un := (x1-x3)*(y1-y2) - (y1-y3)*(x1-x2)
	tn *= s
	un *= s
	denom *= s

	if tn < 0 || tn > denom || un < 0 {
		return 0, 0, false
	}
	return tn / denom, un / denom, true
}

// IntersectSegmentRayT is IntersectSegmentRay without the ray parameter,
// used by PointInPolygon which only needs the segment's t.
func IntersectSegmentRayT(line, ray [2]Vec2) (t float32, ok bool) {
	t, _, ok = IntersectSegmentRay(line, ray)
	return t, ok
}

// IntersectSegmentPlane tests the 3D segment line against plane, projecting
// onto the plane normal and sign-correcting so the result is independent of
// winding. Returns false when the segment is parallel to the plane.
func IntersectSegmentPlane(line [2]Vec3, plane Plane) (t float32, ok bool) {
	normal := Vec3{plane[0], plane[1], plane[2]}
	p0 := normal.Mul(plane[3])

	l := line[1].Sub(line[0])
	denom := dot3(l, normal)
	if denom == 0 {
		return 0, false
	}
	s := signum(denom)

	num := p0.Sub(line[0])
	d := dot3(num, normal) * s
	denom *= s

	if d < 0 || d > denom {
		return 0, false
	}
	return d / denom, true
}

func dot3(a, b Vec3) float32 {
	return a.X()*b.X() + a.Y()*b.Y() + a.Z()*b.Z()
}

// PlaneFromPoints builds the plane through p0, p1, p2 with normal
// (p1-p0)×(p2-p0), normalized, and d = n·p0.
func PlaneFromPoints(p0, p1, p2 Vec3) Plane {
	n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	d := dot3(n, p0)
	return Plane{n.X(), n.Y(), n.Z(), d}
}

// ClosestPointOnSegment returns the point on segment seg nearest to p.
func ClosestPointOnSegment(seg [2]Vec2, p Vec2) Vec2 {
	ab := seg[1].Sub(seg[0])
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return seg[0]
	}
	t := p.Sub(seg[0]).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return seg[0].Add(ab.Mul(t))
}
