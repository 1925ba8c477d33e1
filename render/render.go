// Package render implements the portal-flood traversal: starting from the
// camera's sector, it walks outward through portals, clipping each wall's
// quad (or portal step-quads) against an accumulated frustum with
// Sutherland-Hodgman before projecting to screen space. Grounded on
// lightware/portal.c's _renderSector/_clipPolygon, kept CPU-side and
// line/polygon-oriented per spec (no GPU rasterization).
package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lostwing/lwedit/camera"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

// ClipBufferSize bounds the Sutherland-Hodgman ping-pong buffers; a wall
// quad clipped against a deep portal chain is never expected to grow past
// this many vertices.
const ClipBufferSize = 32

// SectorQueueSize bounds the BFS ring buffer of sectors still to visit in a
// single frame; once full, newly discovered portals are dropped rather than
// queued (spec's queue-overflow error kind: log and continue).
const SectorQueueSize = 128

// Surface receives the screen-space polygons the traversal produces. Width
// and Height describe the destination in pixels.
type Surface interface {
	Size() (width, height int)
	DrawPolygon(points []geom.Vec2)
}

// OverflowFunc, if non-nil, is called each time the sector queue is full
// and a discovered portal had to be dropped.
type OverflowFunc func(sector world.SectorID)

// Flood renders w starting from the camera's current sector (or
// defaultSector if the camera isn't located in any sector) into surface.
func Flood(surface Surface, w *world.World, cam *camera.Camera, defaultSector world.SectorID, onOverflow OverflowFunc) {
	if w.NumSectors() == 0 {
		return
	}

	start := cam.Sector
	startSub := cam.SubSector
	if _, ok := w.Sector(start); !ok {
		start = defaultSector
		startSub = 0
	}
	if _, ok := w.Sector(start); !ok {
		return
	}

	type queueEntry struct {
		sector    world.SectorID
		subsector int
		frustum   camera.Frustum
	}

	queue := make([]queueEntry, SectorQueueSize)
	qStart, qEnd := 0, 0
	push := func(e queueEntry) {
		next := (qEnd + 1) % SectorQueueSize
		if next == qStart {
			if onOverflow != nil {
				onOverflow(e.sector)
			}
			return
		}
		queue[qEnd] = e
		qEnd = next
	}

	push(queueEntry{sector: start, subsector: startSub, frustum: cam.ViewFrustum})

	first := true
	var bufA, bufB [ClipBufferSize]geom.Vec3

	emit := func(quad [4]geom.Vec3, frustum camera.Frustum, ignoreNear bool) {
		buf := bufA[:4]
		copy(buf, quad[:])
		clipped := ClipPolygon(frustum, ignoreNear, buf, bufB[:])
		if len(clipped) < 3 {
			return
		}
		projectAndDraw(surface, cam, clipped)
	}

	for qStart != qEnd {
		e := queue[qStart]
		qStart = (qStart + 1) % SectorQueueSize

		sec, ok := w.Sector(e.sector)
		if !ok || e.subsector < 0 || e.subsector >= len(sec.SubSectors) {
			continue
		}
		def := sec.SubSectors[e.subsector]

		for idx := range sec.Walls {
			wall := &sec.Walls[idx]
			next := sec.Wall(wall.Next)
			if next == nil {
				continue
			}
			p0, p1 := wall.Start, next.Start

			backFaceTest := geom.Vec3{wall.Plane[0], wall.Plane[1], wall.Plane[2]}.Dot(cam.Pos)
			if backFaceTest < wall.Plane[3] {
				continue
			}

			if !wall.HasPortal() {
				emit([4]geom.Vec3{
					{p0.X(), p0.Y(), def.Floor},
					{p0.X(), p0.Y(), def.Ceiling},
					{p1.X(), p1.Y(), def.Ceiling},
					{p1.X(), p1.Y(), def.Floor},
				}, e.frustum, false)
				continue
			}

			portalSec, ok := w.Sector(wall.PortalSector)
			if !ok {
				continue
			}

			maxCeiling := def.Floor
			stepBottom := def.Floor

			for ssid, nextDef := range portalSec.SubSectors {
				if nextDef.Ceiling <= def.Floor || nextDef.Floor >= def.Ceiling {
					continue
				}
				if nextDef.Ceiling > maxCeiling {
					maxCeiling = nextDef.Ceiling
				}

				if stepBottom < nextDef.Floor {
					emit([4]geom.Vec3{
						{p0.X(), p0.Y(), stepBottom},
						{p0.X(), p0.Y(), nextDef.Floor},
						{p1.X(), p1.Y(), nextDef.Floor},
						{p1.X(), p1.Y(), stepBottom},
					}, e.frustum, false)
				}
				stepBottom = nextDef.Ceiling

				openBottom := maxf(def.Floor, nextDef.Floor)
				openTop := minf(def.Ceiling, nextDef.Ceiling)
				quad := [4]geom.Vec3{
					{p0.X(), p0.Y(), openBottom},
					{p0.X(), p0.Y(), openTop},
					{p1.X(), p1.Y(), openTop},
					{p1.X(), p1.Y(), openBottom},
				}

				buf := bufA[:4]
				copy(buf, quad[:])
				clipped := ClipPolygon(e.frustum, first, buf, bufB[:])
				if len(clipped) > 2 {
					nextFrustum := camera.FromPolygon(clipped, cam.Pos)
					push(queueEntry{sector: wall.PortalSector, subsector: ssid, frustum: nextFrustum})
				}
			}

			if def.Ceiling > maxCeiling {
				emit([4]geom.Vec3{
					{p0.X(), p0.Y(), def.Ceiling},
					{p0.X(), p0.Y(), maxCeiling},
					{p1.X(), p1.Y(), maxCeiling},
					{p1.X(), p1.Y(), def.Ceiling},
				}, e.frustum, false)
			}
		}

		first = false
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func projectAndDraw(surface Surface, cam *camera.Camera, points []geom.Vec3) {
	width, height := surface.Size()
	screen := make([]geom.Vec2, len(points))

	for i, p := range points {
		clip := cam.VPMat.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
		invW := float32(0)
		if clip.W() > 0 {
			invW = 1 / clip.W()
		}
		ndcX := clip.X() * invW
		ndcY := clip.Y() * invW
		screen[i] = geom.Vec2{
			(ndcX*0.5 + 0.5) * float32(width-1),
			(-ndcY*0.5 + 0.5) * float32(height-1),
		}
	}

	surface.DrawPolygon(screen)
}
