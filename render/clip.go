package render

import (
	"github.com/lostwing/lwedit/camera"
	"github.com/lostwing/lwedit/geom"
)

// ClipPolygon clips the convex polygon in, given in a fixed scratch buffer
// of capacity ClipBufferSize, against every plane of frustum in order
// (skipping plane 0, the near plane, when ignoreNear is set), using scratch
// as the ping-pong buffer. It returns a slice of one of the two buffers;
// callers must not assume which.
//
// Grounded on lightware/portal.c's _clipPolygon (Sutherland-Hodgman): a
// point survives a plane when dot(normal, p) - d >= 0.
func ClipPolygon(frustum camera.Frustum, ignoreNear bool, in, scratch []geom.Vec3) []geom.Vec3 {
	cur := in
	next := scratch[:0]

	start := 0
	if ignoreNear {
		start = 1
	}

	for planeIdx := start; planeIdx < len(frustum); planeIdx++ {
		plane := frustum[planeIdx]
		normal := geom.Vec3{plane[0], plane[1], plane[2]}
		d := plane[3]

		next = next[:0]
		n := len(cur)
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			prev := (i - 1 + n) % n
			curPt := cur[i]
			prevPt := cur[prev]

			inCur := normal.Dot(curPt)-d >= 0
			inPrev := normal.Dot(prevPt)-d >= 0

			t, intersects := geom.IntersectSegmentPlane([2]geom.Vec3{prevPt, curPt}, plane)
			inter := lerpVec3(prevPt, curPt, t)

			switch {
			case inCur:
				if intersects && !inPrev {
					next = append(next, inter)
				}
				next = append(next, curPt)
			case intersects && inPrev:
				next = append(next, inter)
			}
		}

		cur, next = next, cur
		if len(cur) == 0 {
			return cur
		}
	}

	return cur
}

func lerpVec3(a, b geom.Vec3, t float32) geom.Vec3 {
	return geom.Vec3{
		a.X() + (b.X()-a.X())*t,
		a.Y() + (b.Y()-a.Y())*t,
		a.Z() + (b.Z()-a.Z())*t,
	}
}
