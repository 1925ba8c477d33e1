// Package camera implements the 3D view: pose, projection, the view-volume
// frustum and the per-portal frustum derived by re-projecting a clipped
// portal polygon. Grounded on lightware/portal.c's lw_calcCameraFrustum,
// lw_calcCameraProjection and lw_calcFrustumFromPoly, expressed with
// mgl32 in place of the original's hand-rolled mat4/vec3 routines.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

// PortalPlaneBias is subtracted from d of every plane of a per-portal
// frustum. With the inside test dot(normal, p) - d >= 0 this moves each
// plane slightly outward, so points shared between a wall and the portal
// opening it looks through are not clipped away.
const PortalPlaneBias = 0.003

// Frustum is an ordered list of inward-facing planes; a point is inside the
// volume when dot(normal, p) - d >= 0 holds for every plane.
type Frustum []geom.Plane

// Camera is the 3D preview pose plus cached matrices, recomputed by Recalc
// whenever pose or projection parameters change.
type Camera struct {
	Pos   geom.Vec3
	Yaw   float32 // radians, rotation about +Z
	Pitch float32 // radians, rotation about the camera's local +X

	FOV, Aspect, Near, Far float32

	// Sector/SubSector locate the camera for the portal-flood traversal's
	// starting point.
	Sector    world.SectorID
	SubSector int

	RotMat  mgl32.Mat4
	ViewMat mgl32.Mat4
	ProjMat mgl32.Mat4
	VPMat   mgl32.Mat4

	ViewFrustum Frustum
}

// New returns a camera with the given pose and projection parameters,
// fully recalculated.
func New(pos geom.Vec3, yaw, pitch, fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Pos: pos, Yaw: yaw, Pitch: pitch,
		FOV: fov, Aspect: aspect, Near: near, Far: far,
		Sector: world.NoSector,
	}
	c.Recalc()
	return c
}

// Basis returns the camera's right, front and up unit vectors in world
// space.
func (c *Camera) Basis() (right, front, up geom.Vec3) {
	rv := c.RotMat.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	fv := c.RotMat.Mul4x1(mgl32.Vec4{0, 1, 0, 0})
	uv := c.RotMat.Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	right = geom.Vec3{rv.X(), rv.Y(), rv.Z()}
	front = geom.Vec3{fv.X(), fv.Y(), fv.Z()}
	up = geom.Vec3{uv.X(), uv.Y(), uv.Z()}
	return
}

// Recalc rebuilds RotMat, ViewMat, ProjMat, VPMat and ViewFrustum from the
// camera's current pose.
func (c *Camera) Recalc() {
	c.RotMat = mgl32.HomogRotate3DZ(c.Yaw).Mul4(mgl32.HomogRotate3DX(c.Pitch))

	_, front, up := c.Basis()
	c.ViewMat = mgl32.LookAtV(c.Pos, c.Pos.Add(front), up)

	c.ProjMat = mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
	c.VPMat = c.ProjMat.Mul4(c.ViewMat)

	c.ViewFrustum = FromCamera(c)
}

// FromCamera builds the 6-plane view volume: near, far, left, right, bottom,
// top, in that order, matching lw_calcCameraFrustum's layout.
func FromCamera(c *Camera) Frustum {
	halfV := c.Far * float32(math.Tan(float64(c.FOV)*0.5))
	halfH := halfV * c.Aspect

	right, front, up := c.Basis()
	frontFar := front.Mul(c.Far)

	planes := make([]geom.Vec3, 6)
	planes[0] = front
	planes[1] = front.Mul(-1)

	tmp0 := right.Mul(halfH)
	tmp1 := frontFar.Sub(tmp0)
	planes[2] = tmp1.Cross(up)

	tmp0 = right.Mul(halfH)
	tmp1 = frontFar.Add(tmp0)
	planes[3] = up.Cross(tmp1)

	tmp0 = up.Mul(halfV)
	tmp1 = frontFar.Sub(tmp0)
	planes[4] = right.Cross(tmp1)

	tmp0 = up.Mul(halfV)
	tmp1 = frontFar.Add(tmp0)
	planes[5] = tmp1.Cross(right)

	out := make(Frustum, 6)
	for i, n := range planes {
		n = n.Normalize()
		d := n.Dot(c.Pos)
		out[i] = geom.Plane{n.X(), n.Y(), n.Z(), d}
	}
	out[0][3] += c.Near
	out[1][3] += -c.Far
	return out
}

// FromPolygon builds an (n+1)-plane frustum from a clipped portal polygon
// as seen from viewPoint: one side plane per polygon edge (through
// viewPoint), plus a near plane from the polygon itself, each loosened by
// PortalPlaneBias (d is lowered, so the volume grows slightly).
func FromPolygon(polygon []geom.Vec3, viewPoint geom.Vec3) Frustum {
	n := len(polygon)
	out := make(Frustum, n+1)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		p := geom.PlaneFromPoints(viewPoint, polygon[j], polygon[i])
		p[3] -= PortalPlaneBias
		out[i+1] = p
	}

	near := geom.PlaneFromPoints(polygon[0], polygon[2], polygon[1])
	near[3] -= PortalPlaneBias
	out[0] = near

	return out
}
