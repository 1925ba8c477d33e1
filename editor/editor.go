// Package editor implements the 2D map-editing state machine: a view
// transform (pan/zoom/cardinal rotation), a flat point selection, and a
// tagged-variant state (Idle/CreateSector/MovePoints/SelectionBox) that
// drives the mutating operations the host shell calls per frame. Grounded
// on original_source/editor/editor2d.c, translated from its single giant
// switch into small per-state methods.
package editor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/lostwing/lwedit/camera"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/logx"
	"github.com/lostwing/lwedit/world"
)

// Numeric constants carried from editor2d.c.
const (
	LineSelectionRadius = 8.0
	PointRenderRadius   = 4.0
	MinZoom             = 0.001
	MaxZoom             = 1.0
	MinGrid             = 1.0 / 32.0
	MaxGrid             = 256.0
	Camera3DHeight      = 1.5
)

// StateKind discriminates the editor's tagged-union state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateCreateSector
	StateMovePoints
	StateSelectionBox
)

func (s StateKind) String() string {
	switch s {
	case StateIdle:
		return "Map view"
	case StateCreateSector:
		return "Add sector"
	case StateMovePoints:
		return "Move points"
	case StateSelectionBox:
		return "Box select"
	default:
		return "UNDEFINED STATE"
	}
}

// View holds the 2D camera: pan position, cardinal rotation index (0-3, 90
// degree steps), logarithmic zoom, grid settings, and the screen<->world
// matrices _recalcViewMatrices rebuilds every frame.
type View struct {
	Width, Height int

	CamPos geom.Vec2
	CamRot int // 0..3, 90 degrees per step

	Zoom, ZoomT float32

	GridActive    bool
	GridSize      float32
	SpecterSelect bool

	ToScreenMat mgl32.Mat4
	ToWorldMat  mgl32.Mat4

	MouseWorldPos    geom.Vec2
	MouseSnappedPos  geom.Vec2
}

// NewView returns a view centered at the origin with a 1x zoom and a 1-unit
// grid active.
func NewView(width, height int) View {
	v := View{
		Width: width, Height: height,
		Zoom:       1,
		ZoomT:      invLogerp(MinZoom, MaxZoom, 1),
		GridActive: true,
		GridSize:   1,
	}
	return v
}

// Selection is the flat list of selected wall references, mirroring
// editor2d.c's selected_points array of LW_LineDef pointers.
type Selection []world.Ref

// Contains reports whether ref is already in the selection.
func (s Selection) Contains(ref world.Ref) bool {
	for _, r := range s {
		if r == ref {
			return true
		}
	}
	return false
}

// SelectionBox is the screen-space drag rectangle used by StateSelectionBox.
type SelectionBox struct {
	Low, High geom.Vec2
	Pivot     geom.Vec2
}

// Session tags one editing session with a stable identity for log
// correlation, grounded on the teacher's uuid-stamped asset identity
// pattern.
type Session struct {
	ID uuid.UUID
}

// NewSession mints a fresh session identity.
func NewSession() Session { return Session{ID: uuid.New()} }

// Editor is the complete C4 state: the world being edited, the 2D view, the
// selection, the tagged state, and the in-progress payload for whichever
// state is active.
type Editor struct {
	World   *world.World
	Session Session
	Log     logx.Logger

	View      View
	Selection Selection
	State     StateKind

	// CreateSector payload.
	NewSector world.Sector

	// MovePoints payload.
	SelectPointIndex int
	MoveOrigin       geom.Vec2

	// SelectionBox payload.
	Box SelectionBox

	// View3D is set once the user swaps to the 3D preview (spec.md's
	// "swap views" action); the shell reads it to decide which renderer to
	// drive this frame.
	View3D bool
	Camera *camera.Camera
}

// New returns an idle editor over world w.
func New(w *world.World, width, height int, log logx.Logger) *Editor {
	if log == nil {
		log = logx.NewNop()
	}
	e := &Editor{
		World:   w,
		Session: NewSession(),
		Log:     log,
		View:    NewView(width, height),
		State:   StateIdle,
	}
	e.recalcViewMatrices()
	return e
}

func degToRad(d float32) float32 { return d * math.Pi / 180 }

// logerp/invLogerp implement the zoom curve from editor2d.c: a logarithmic
// interpolation between MinZoom and MaxZoom driven by a linear [0,1] knob
// (ZoomT), so scroll-wheel input feels uniform across zoom levels.
func logerp(a, b, t float32) float32 {
	return float32(math.Exp(float64(lerp(log32(a), log32(b), t))))
}

func invLogerp(a, b, r float32) float32 {
	return (log32(r) - log32(a)) / (log32(b) - log32(a))
}

func log32(v float32) float32 { return float32(math.Log(float64(v))) }

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// recalcViewMatrices rebuilds ToScreenMat/ToWorldMat from the current pan,
// zoom and rotation, matching _recalcViewMatrices.
func (e *Editor) recalcViewMatrices() {
	v := &e.View
	invZoom := 1 / v.Zoom
	camRot := float32(v.CamRot) * degToRad(90)

	screenProj := mgl32.Translate3D(float32(v.Width)*0.5, float32(v.Height)*0.5, 0).
		Mul4(mgl32.Scale3D(1, -1, 1))

	view := mgl32.Scale3D(invZoom, invZoom, invZoom).
		Mul4(mgl32.HomogRotate3DZ(camRot)).
		Mul4(mgl32.Translate3D(-v.CamPos.X(), -v.CamPos.Y(), 0))

	v.ToScreenMat = screenProj.Mul4(view)

	worldProj := mgl32.Scale3D(1, -1, 1).
		Mul4(mgl32.Translate3D(-float32(v.Width)*0.5, -float32(v.Height)*0.5, 0))

	invView := mgl32.Translate3D(v.CamPos.X(), v.CamPos.Y(), 0).
		Mul4(mgl32.HomogRotate3DZ(-camRot)).
		Mul4(mgl32.Scale3D(v.Zoom, v.Zoom, v.Zoom))

	v.ToWorldMat = invView.Mul4(worldProj)
}

func toScreen(m mgl32.Mat4, p geom.Vec2) geom.Vec2 {
	r := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	return geom.Vec2{r.X(), r.Y()}
}

func toWorld(m mgl32.Mat4, p geom.Vec2) geom.Vec2 {
	r := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	return geom.Vec2{r.X(), r.Y()}
}

// wallStart resolves a selection ref to its wall's current start point.
func (e *Editor) wallStart(ref world.Ref) (geom.Vec2, bool) {
	sec, ok := e.World.Sector(ref.Sector)
	if !ok {
		return geom.Vec2{}, false
	}
	w := sec.Wall(ref.Wall)
	if w == nil {
		return geom.Vec2{}, false
	}
	return w.Start, true
}

func (e *Editor) setWallStart(ref world.Ref, p geom.Vec2) {
	sec, ok := e.World.Sector(ref.Sector)
	if !ok {
		return
	}
	w := sec.Wall(ref.Wall)
	if w == nil {
		return
	}
	w.Start = p
}

// validPortalOverlap reports whether the walls at a and b coincide closely
// enough (within AutoPortalEpsilon) to remain linked as a portal pair.
func (e *Editor) validPortalOverlap(a, b world.Ref) bool {
	return world.CoincidesForPortal(e.World, a.Sector, a.Wall, b.Sector, b.Wall)
}
