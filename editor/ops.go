package editor

import (
	"sort"

	"github.com/lostwing/lwedit/camera"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/input"
	"github.com/lostwing/lwedit/world"
)

// Update2D is the per-frame entry point: it applies pan/zoom/rotate/grid
// input, rebuilds the view matrices, resolves the mouse's world position,
// and dispatches to whichever state is active. Grounded on
// editor2dUpdate.
func (e *Editor) Update2D(dt float32, in *input.State, mouseScreenPos geom.Vec2) {
	e.applyViewInput(dt, in)
	e.recalcViewMatrices()

	e.View.MouseWorldPos = toWorld(e.View.ToWorldMat, mouseScreenPos)
	if e.View.GridActive {
		gs := e.View.GridSize
		e.View.MouseSnappedPos = geom.Vec2{
			roundf(e.View.MouseWorldPos.X()/gs) * gs,
			roundf(e.View.MouseWorldPos.Y()/gs) * gs,
		}
	} else {
		e.View.MouseSnappedPos = e.View.MouseWorldPos
	}

	if input.Down(in, input.ActionToggleView) {
		e.swapTo3D()
		return
	}

	switch e.State {
	case StateIdle:
		e.updateIdle(in, mouseScreenPos)
	case StateMovePoints:
		e.updateMovePoints(in)
	case StateSelectionBox:
		e.updateSelectionBox(in, mouseScreenPos)
	case StateCreateSector:
		e.updateCreateSector(in, mouseScreenPos)
	}
}

func roundf(v float32) float32 {
	if v >= 0 {
		return float32(int(v + 0.5))
	}
	return float32(int(v - 0.5))
}

// applyViewInput handles grid/specter toggles, cardinal rotation, WASD pan
// remapped by the current rotation, and scroll-wheel zoom.
func (e *Editor) applyViewInput(dt float32, in *input.State) {
	v := &e.View

	if input.Down(in, input.ActionToggleGrid) {
		v.GridActive = !v.GridActive
	}
	if input.Down(in, input.ActionToggleSpecter) {
		v.SpecterSelect = !v.SpecterSelect
	}

	if input.Down(in, input.ActionIncreaseGrid) {
		v.GridSize = clamp(v.GridSize*2, MinGrid, MaxGrid)
	}
	if input.Down(in, input.ActionDecreaseGrid) {
		v.GridSize = clamp(v.GridSize/2, MinGrid, MaxGrid)
	}

	if input.Down(in, input.ActionRotateCW) {
		v.CamRot = (v.CamRot + 1) % 4
	}
	if input.Down(in, input.ActionRotateCCW) {
		v.CamRot = (v.CamRot + 3) % 4
	}

	var move geom.Vec2
	if input.Held(in, input.ActionMoveRight) {
		move[0]++
	}
	if input.Held(in, input.ActionMoveLeft) {
		move[0]--
	}
	if input.Held(in, input.ActionMoveForward) {
		move[1]++
	}
	if input.Held(in, input.ActionMoveBack) {
		move[1]--
	}
	if l := move.Len(); l > 0 {
		move = move.Mul(1 / l)
	}

	var rotated geom.Vec2
	switch v.CamRot {
	case 0:
		rotated = move
	case 1:
		rotated = geom.Vec2{-move.Y(), -move.X()}
	case 2:
		rotated = geom.Vec2{-move.X(), -move.Y()}
	case 3:
		rotated = geom.Vec2{move.Y(), move.X()}
	}

	v.CamPos = v.CamPos.Add(rotated.Mul(dt * v.Zoom * 100 * 3))

	if in.ScrollY != 0 {
		v.ZoomT = clamp(v.ZoomT+float32(in.ScrollY)*2*dt, 0, 1)
		v.Zoom = logerp(MinZoom, MaxZoom, v.ZoomT)
	}
}

// swapTo3D hands control to the 3D preview camera, placing it at the mouse
// world position, facing the direction implied by the current cardinal
// rotation, and located in whichever sector contains that point.
func (e *Editor) swapTo3D() {
	var yaw float32
	switch e.View.CamRot {
	case 0:
		yaw = 0
	case 1:
		yaw = mathPi * 0.5
	case 2:
		yaw = mathPi
	case 3:
		yaw = -mathPi * 0.5
	}

	pos := geom.Vec3{e.View.MouseWorldPos.X(), e.View.MouseWorldPos.Y(), 0}
	cam := camera.New(pos, yaw, 0, degToRad(70), float32(e.View.Width)/float32(e.View.Height), 0.05, 200)
	cam.Sector = world.NoSector

	if id, ok := world.GetSector(e.World, e.View.MouseWorldPos); ok {
		cam.Sector = id
		if sec, ok := e.World.Sector(id); ok && len(sec.SubSectors) > 0 {
			cam.Pos = geom.Vec3{pos.X(), pos.Y(), sec.SubSectors[0].Floor + Camera3DHeight}
			cam.Recalc()
		}
	}

	e.Camera = cam
	e.View3D = true
}

const mathPi = 3.14159265358979323846

// ---- Idle state ----------------------------------------------------------

func (e *Editor) updateIdle(in *input.State, mouseScreenPos geom.Vec2) {
	switch {
	case input.Down(in, input.ActionDelete):
		e.deletePoints()
	default:
		// new-sector / split-line / auto-portal / selection-box / select /
		// multi-select exist only as named methods (BeginCreateSector,
		// SplitLine, AutoPortal, BeginSelectionBox, SelectPoint,
		// MultiSelect, ...). input.Action has no mouse-button actions, and
		// shell.Host does not call these methods.
	}
}

// BeginCreateSector starts a new sector at pos (already grid-snapped by the
// caller), clearing the current selection.
func (e *Editor) BeginCreateSector(pos geom.Vec2) {
	e.Selection = nil
	e.NewSector = world.Sector{
		SubSectors: []world.SubSector{{Floor: 0, Ceiling: 3}},
		Walls: []world.Wall{{
			Start: pos,
			Next:  world.NoWall,
			Prev:  world.NoWall,
			PortalSector: world.NoSector,
			PortalWall:   world.NoWall,
		}},
	}
	e.State = StateCreateSector
}

func (e *Editor) updateCreateSector(in *input.State, mouseScreenPos geom.Vec2) {
	if input.Down(in, input.ActionCancel) {
		e.State = StateIdle
		return
	}
}

// AddCreateSectorPoint handles a click while in StateCreateSector: if the
// snapped point is within range of the first
// vertex it closes the sector (when it has more than 2 walls so far);
// otherwise, if it isn't a no-op repeat of the last vertex, it appends a new
// wall.
func (e *Editor) AddCreateSectorPoint(snappedWorldPos geom.Vec2) {
	snappedScreen := toScreen(e.View.ToScreenMat, snappedWorldPos)
	closeRadius := float32(PointRenderRadius * 2)

	first := e.NewSector.Walls[0].Start
	firstScreen := toScreen(e.View.ToScreenMat, first)
	if dist(snappedScreen, firstScreen) < closeRadius {
		if len(e.NewSector.Walls) > 2 {
			e.closeSector()
		}
		return
	}

	last := e.NewSector.Walls[len(e.NewSector.Walls)-1].Start
	lastScreen := toScreen(e.View.ToScreenMat, last)
	if dist(snappedScreen, lastScreen) < closeRadius {
		return
	}

	idx := world.WallID(len(e.NewSector.Walls))
	e.NewSector.Walls[idx-1].Next = idx
	e.NewSector.Walls = append(e.NewSector.Walls, world.Wall{
		Start:        snappedWorldPos,
		Next:         world.NoWall,
		Prev:         idx - 1,
		PortalSector: world.NoSector,
		PortalWall:   world.NoWall,
	})
}

func dist(a, b geom.Vec2) float32 {
	return a.Sub(b).Len()
}

// closeSector finishes the in-progress polygon: links the last wall back to
// the first, corrects winding to CCW if needed, and adds the sector to the
// world. The winding-sum accumulator is explicitly zero-initialized, unlike
// the original's uninitialized stack variable.
func (e *Editor) closeSector() {
	sec := e.NewSector
	n := world.WallID(len(sec.Walls))
	sec.Walls[n-1].Next = 0
	sec.Walls[0].Prev = n - 1

	var sum float32
	for i := range sec.Walls {
		next := sec.Walls[sec.Walls[i].Next]
		sum += (next.Start.X() - sec.Walls[i].Start.X()) * (next.Start.Y() + sec.Walls[i].Start.Y())
	}

	if sum > 1 {
		for i := range sec.Walls {
			sec.Walls[i].Next, sec.Walls[i].Prev = sec.Walls[i].Prev, sec.Walls[i].Next
		}
	}

	id := e.World.AddSector(sec)
	newSec, _ := e.World.Sector(id)
	for i := range newSec.Walls {
		newSec.Walls[i].Sector = id
		world.RecalcWallPlane(newSec, world.WallID(i))
	}

	e.State = StateIdle
}

// ---- Move points state ----------------------------------------------------

// BeginMovePoint starts dragging the selection by its entry at index
// (SelectPoint calls it when the cursor lands on a selected point): it
// switches to StateMovePoints, dragging the whole selection from that
// point's current position.
func (e *Editor) BeginMovePoint(index int) {
	if index < 0 || index >= len(e.Selection) {
		return
	}
	start, ok := e.wallStart(e.Selection[index])
	if !ok {
		return
	}
	e.SelectPointIndex = index
	e.MoveOrigin = start
	e.State = StateMovePoints
}

func (e *Editor) updateMovePoints(in *input.State) {
	if input.Down(in, input.ActionCancel) {
		e.CancelMove()
		return
	}

	anchor, ok := e.wallStart(e.Selection[e.SelectPointIndex])
	if !ok {
		e.State = StateIdle
		return
	}
	delta := e.View.MouseSnappedPos.Sub(anchor)
	e.translateSelection(delta)
}

// CancelMove aborts the in-progress move, snapping the dragged selection
// back to MoveOrigin before returning to StateIdle.
func (e *Editor) CancelMove() {
	anchor, ok := e.wallStart(e.Selection[e.SelectPointIndex])
	if ok {
		delta := e.MoveOrigin.Sub(anchor)
		e.translateSelection(delta)
	}
	e.State = StateIdle
}

// FinishMovePoints ends a drag: it revalidates every moved point's portal links and
// recalculates wall planes before returning to StateIdle.
func (e *Editor) FinishMovePoints() {
	for _, ref := range e.Selection {
		e.revalidateAndRecalc(ref)

		sec, ok := e.World.Sector(ref.Sector)
		if !ok {
			continue
		}
		w := sec.Wall(ref.Wall)
		if w == nil {
			continue
		}
		prevRef := world.Ref{Sector: ref.Sector, Wall: w.Prev}
		e.revalidateAndRecalc(prevRef)
	}
	e.State = StateIdle
}

func (e *Editor) revalidateAndRecalc(ref world.Ref) {
	sec, ok := e.World.Sector(ref.Sector)
	if !ok {
		return
	}
	w := sec.Wall(ref.Wall)
	if w == nil {
		return
	}
	if w.HasPortal() {
		far := world.Ref{Sector: w.PortalSector, Wall: w.PortalWall}
		if !e.validPortalOverlap(far, ref) {
			world.TearDownPortal(e.World, ref.Sector, ref.Wall)
		}
	}
	world.RecalcWallPlane(sec, ref.Wall)
}

func (e *Editor) translateSelection(delta geom.Vec2) {
	for _, ref := range e.Selection {
		p, ok := e.wallStart(ref)
		if !ok {
			continue
		}
		e.setWallStart(ref, p.Add(delta))
	}
}

// ---- Selection box state --------------------------------------------------

// BeginSelectionBox starts a drag-select box anchored at screenPos.
func (e *Editor) BeginSelectionBox(screenPos geom.Vec2) {
	e.Box = SelectionBox{Low: screenPos, High: screenPos, Pivot: screenPos}
	e.State = StateSelectionBox
}

func (e *Editor) updateSelectionBox(in *input.State, mouseScreenPos geom.Vec2) {
	if input.Down(in, input.ActionCancel) {
		e.State = StateIdle
		return
	}

	low, high := e.Box.Low, e.Box.High
	for i := 0; i < 2; i++ {
		v := mouseScreenPos[i]
		if v < e.Box.Pivot[i] {
			low[i] = v
		} else if v > e.Box.Pivot[i] {
			high[i] = v
		}
	}
	e.Box.Low, e.Box.High = low, high
}

// FinishSelectionBox ends a box selection: it adds
// every not-already-selected wall start point inside the (radius-padded)
// box to the selection and returns to StateIdle.
func (e *Editor) FinishSelectionBox() {
	lo := geom.Vec2{e.Box.Low.X() - PointRenderRadius, e.Box.Low.Y() - PointRenderRadius}
	hi := geom.Vec2{e.Box.High.X() + PointRenderRadius, e.Box.High.Y() + PointRenderRadius}

	for _, id := range e.World.Order() {
		sec, _ := e.World.Sector(id)
		for i := range sec.Walls {
			ref := world.Ref{Sector: id, Wall: world.WallID(i)}
			if e.Selection.Contains(ref) {
				continue
			}
			screen := toScreen(e.View.ToScreenMat, sec.Walls[i].Start)
			if screen.X() >= lo.X() && screen.X() <= hi.X() && screen.Y() >= lo.Y() && screen.Y() <= hi.Y() {
				e.Selection = append(e.Selection, ref)
			}
		}
	}
	e.State = StateIdle
}

// ---- Named point/sector operations ---------------------------------------

// SelectPoint is the select-point operation: clicking an already-selected
// point starts a move; otherwise it replaces the selection with whatever
// point (if any) is under the cursor, in screen space, and immediately
// enters StateMovePoints if something was hit.
func (e *Editor) SelectPoint(mouseScreenPos geom.Vec2) {
	for i, ref := range e.Selection {
		start, ok := e.wallStart(ref)
		if !ok {
			continue
		}
		screen := toScreen(e.View.ToScreenMat, start)
		if dist(screen, mouseScreenPos) <= PointRenderRadius {
			e.BeginMovePoint(i)
			return
		}
	}

	e.Selection = e.Selection[:0]
	for _, id := range e.World.Order() {
		sec, _ := e.World.Sector(id)
		hit := false
		for i := range sec.Walls {
			screen := toScreen(e.View.ToScreenMat, sec.Walls[i].Start)
			if dist(screen, mouseScreenPos) <= PointRenderRadius {
				e.Selection = append(e.Selection, world.Ref{Sector: id, Wall: world.WallID(i)})
				hit = true
				break
			}
		}
		if hit && !e.View.SpecterSelect {
			break
		}
	}

	if len(e.Selection) > 0 {
		e.BeginMovePoint(0)
	}
}

// MultiSelect toggles membership of whatever point is under the cursor:
// deselecting it if already selected, else adding it.
func (e *Editor) MultiSelect(mouseScreenPos geom.Vec2) {
	kept := e.Selection[:0]
	removed := false
	for _, ref := range e.Selection {
		if !removed || e.View.SpecterSelect {
			start, ok := e.wallStart(ref)
			if ok && dist(toScreen(e.View.ToScreenMat, start), mouseScreenPos) <= PointRenderRadius {
				removed = true
				continue
			}
		}
		kept = append(kept, ref)
	}
	e.Selection = kept
	if removed {
		return
	}

	for _, id := range e.World.Order() {
		sec, _ := e.World.Sector(id)
		hit := false
		for i := range sec.Walls {
			screen := toScreen(e.View.ToScreenMat, sec.Walls[i].Start)
			if dist(screen, mouseScreenPos) <= PointRenderRadius {
				e.Selection = append(e.Selection, world.Ref{Sector: id, Wall: world.WallID(i)})
				hit = true
				break
			}
		}
		if hit && !e.View.SpecterSelect {
			return
		}
	}
}

// SelectSector replaces the selection with every wall in the sector under
// worldPos.
func (e *Editor) SelectSector(worldPos geom.Vec2) {
	id, ok := world.GetSector(e.World, worldPos)
	if !ok {
		return
	}
	sec, _ := e.World.Sector(id)
	e.Selection = make(Selection, len(sec.Walls))
	for i := range sec.Walls {
		e.Selection[i] = world.Ref{Sector: id, Wall: world.WallID(i)}
	}
}

// MultiSelectSector appends every wall in the sector under worldPos to the
// current selection.
func (e *Editor) MultiSelectSector(worldPos geom.Vec2) {
	id, ok := world.GetSector(e.World, worldPos)
	if !ok {
		return
	}
	sec, _ := e.World.Sector(id)
	for i := range sec.Walls {
		e.Selection = append(e.Selection, world.Ref{Sector: id, Wall: world.WallID(i)})
	}
}

// DeleteSelected removes every currently selected wall. Exposed so the
// shell (and tests) can trigger the operation without routing through
// input.State's action edge detection.
func (e *Editor) DeleteSelected() {
	e.deletePoints()
}

// deletePoints removes every selected wall: a sector that would be left with
// fewer than 3 walls is deleted outright (after tearing down its portals),
// otherwise the wall is spliced out of its polygon's cycle (swap-remove,
// with portal and cycle-pointer fixups).
func (e *Editor) deletePoints() {
	bySector := map[world.SectorID][]world.WallID{}
	for _, ref := range e.Selection {
		bySector[ref.Sector] = append(bySector[ref.Sector], ref.Wall)
	}

	for secID, wallIDs := range bySector {
		sec, ok := e.World.Sector(secID)
		if !ok {
			continue
		}
		ids := uniqueWallIDs(wallIDs)
		if sec.NumWalls()-len(ids) <= 2 {
			for i := range sec.Walls {
				world.TearDownPortal(e.World, secID, world.WallID(i))
			}
			e.World.RemoveSector(secID)
			continue
		}
		// Highest index first, so a swap-remove never moves a wall that is
		// still waiting to be removed.
		sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
		for _, wid := range ids {
			e.spliceOutWall(secID, wid)
		}
	}

	e.Selection = nil
}

func uniqueWallIDs(ids []world.WallID) []world.WallID {
	seen := map[world.WallID]bool{}
	out := make([]world.WallID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// spliceOutWall removes wall wid from sector secID's cycle via swap-remove,
// tearing down any portal it or its predecessor held and fixing up the
// cycle's next/prev links plus any back-reference pointed at the moved
// slot.
func (e *Editor) spliceOutWall(secID world.SectorID, wid world.WallID) {
	sec, ok := e.World.Sector(secID)
	if !ok || int(wid) >= len(sec.Walls) {
		return
	}
	line := sec.Wall(wid)
	if line == nil {
		return
	}

	prev := sec.Wall(line.Prev)
	next := sec.Wall(line.Next)
	if prev == nil || next == nil {
		return
	}
	prev.Next = line.Next
	next.Prev = line.Prev
	world.RecalcWallPlane(sec, line.Prev)

	if line.HasPortal() {
		world.TearDownPortal(e.World, secID, wid)
	}
	if prev.HasPortal() {
		world.TearDownPortal(e.World, secID, line.Prev)
	}

	last := world.WallID(len(sec.Walls) - 1)
	if last != wid {
		sec.Walls[wid] = sec.Walls[last]
		sec.Walls[sec.Walls[wid].Prev].Next = wid
		sec.Walls[sec.Walls[wid].Next].Prev = wid
		world.FixupWallMove(e.World, secID, last, wid)
	}
	sec.Walls = sec.Walls[:last]
}

// SplitLine inserts a new point on the first wall (across every sector)
// that lies within LineSelectionRadius of mouseScreenPos, at the point of
// that wall nearest the cursor, mapped back to world space; worldPos is not
// used. With specter select on, the first wall in range in every sector is
// split instead of just the first one overall.
func (e *Editor) SplitLine(mouseScreenPos, worldPos geom.Vec2) {
	for _, id := range e.World.Order() {
		sec, _ := e.World.Sector(id)
		for i := 0; i < len(sec.Walls); i++ {
			a := sec.Walls[i].Start
			b := sec.Wall(sec.Walls[i].Next).Start
			seg := [2]geom.Vec2{toScreen(e.View.ToScreenMat, a), toScreen(e.View.ToScreenMat, b)}
			closest := geom.ClosestPointOnSegment(seg, mouseScreenPos)

			if dist(closest, mouseScreenPos) >= LineSelectionRadius {
				continue
			}

			if sec.Walls[i].HasPortal() {
				world.TearDownPortal(e.World, id, world.WallID(i))
			}

			newWorldPos := toWorld(e.View.ToWorldMat, closest)
			newIdx := world.WallID(len(sec.Walls))
			newWall := world.Wall{
				Start:        newWorldPos,
				Plane:        sec.Walls[i].Plane,
				PortalSector: world.NoSector,
				PortalWall:   world.NoWall,
				Sector:       id,
				Next:         sec.Walls[i].Next,
				Prev:         world.WallID(i),
			}
			sec.Walls = append(sec.Walls, newWall)
			sec.Walls[sec.Walls[newIdx].Next].Prev = newIdx
			sec.Walls[i].Next = newIdx

			if !e.View.SpecterSelect {
				return
			}
			break
		}
	}
}

// AutoPortal links (or unlinks) a portal at whichever wall lies closest to
// mouseScreenPos: if that wall is solid, it searches every other sector for
// a wall whose endpoints coincide (CoincidesForPortal) and links the pair;
// if it already has a portal, the portal is torn down instead.
func (e *Editor) AutoPortal(mouseScreenPos geom.Vec2) {
	var closestRef world.Ref
	found := false
	minDist := float32(LineSelectionRadius * LineSelectionRadius)

	for _, id := range e.World.Order() {
		sec, _ := e.World.Sector(id)
		for i := range sec.Walls {
			a := sec.Walls[i].Start
			b := sec.Wall(sec.Walls[i].Next).Start
			seg := [2]geom.Vec2{toScreen(e.View.ToScreenMat, a), toScreen(e.View.ToScreenMat, b)}
			closest := geom.ClosestPointOnSegment(seg, mouseScreenPos)
			d := closest.Sub(mouseScreenPos).Dot(closest.Sub(mouseScreenPos))
			if d < minDist {
				minDist = d
				closestRef = world.Ref{Sector: id, Wall: world.WallID(i)}
				found = true
			}
		}
	}

	if !found {
		return
	}

	sec, _ := e.World.Sector(closestRef.Sector)
	closest := sec.Wall(closestRef.Wall)

	if closest.HasPortal() {
		world.TearDownPortal(e.World, closestRef.Sector, closestRef.Wall)
		return
	}

	for _, id := range e.World.Order() {
		if id == closestRef.Sector {
			continue
		}
		other, _ := e.World.Sector(id)
		for i := range other.Walls {
			candidate := world.Ref{Sector: id, Wall: world.WallID(i)}
			if e.validPortalOverlap(closestRef, candidate) {
				world.LinkPortal(e.World, closestRef.Sector, closestRef.Wall, id, world.WallID(i))
				return
			}
		}
	}
}
