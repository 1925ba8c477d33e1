package editor

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/world"
)

// Canvas is the 2D drawing surface the host shell provides; Render2D issues
// immediate-mode calls against it every frame. Grounded on editor2d.c's
// editor2dRender, which draws directly into a software framebuffer through a
// small set of primitive calls rather than building a retained scene graph.
type Canvas interface {
	Size() (width, height int)
	Clear(c color.RGBA)
	Line(a, b geom.Vec2, c color.RGBA)
	Circle(center geom.Vec2, radius float32, c color.RGBA)
	Rect(low, high geom.Vec2, c color.RGBA)
	Text(pos geom.Vec2, s string, c color.RGBA)
}

// Palette holds the fixed colors editor2d.c's renderer used for each kind of
// element.
var Palette = struct {
	Background, Grid, Origin       color.RGBA
	Wall, Portal                   color.RGBA
	Vertex, SelectedVertex         color.RGBA
	SelectionBox, CreatePreview    color.RGBA
	HUDText                        color.RGBA
}{
	Background:     color.RGBA{20, 20, 24, 255},
	Grid:           color.RGBA{50, 50, 56, 255},
	Origin:         color.RGBA{120, 120, 130, 255},
	Wall:           color.RGBA{220, 220, 220, 255},
	Portal:         color.RGBA{90, 170, 240, 255},
	Vertex:         color.RGBA{220, 220, 220, 255},
	SelectedVertex: color.RGBA{250, 200, 60, 255},
	SelectionBox:   color.RGBA{90, 200, 120, 255},
	CreatePreview:  color.RGBA{250, 140, 60, 255},
	HUDText:        color.RGBA{230, 230, 230, 255},
}

var hudFace = basicfont.Face7x13

// Render2D draws the full 2D editor view: background, grid, origin marker,
// every sector's walls (color-coded solid/portal) with a tick along each
// wall's plane normal, vertex markers (highlighted when selected), the in-progress
// create-sector preview, the selection box, and the HUD overlay.
func (e *Editor) Render2D(c Canvas) {
	w, h := c.Size()
	e.View.Width, e.View.Height = w, h

	c.Clear(Palette.Background)
	e.drawGrid(c)
	e.drawOrigin(c)
	e.drawSectors(c)

	if e.State == StateCreateSector {
		e.drawCreateSectorPreview(c)
	}
	if e.State == StateSelectionBox {
		c.Rect(e.Box.Low, e.Box.High, Palette.SelectionBox)
	}

	e.drawHUD(c)
}

// drawGrid sweeps vertical and horizontal grid lines across the visible
// viewport, doubling the pitch when grid lines would otherwise fall less
// than half a screen pixel apart (GridSize/Zoom < 0.5), matching
// _drawGrid's ratio gate. Only every third line of each sweep is drawn.
func (e *Editor) drawGrid(c Canvas) {
	if !e.View.GridActive {
		return
	}
	v := &e.View

	ratio := v.GridSize / v.Zoom
	if ratio <= 0 {
		return
	}
	pitch := v.GridSize
	if ratio < 0.5 {
		pitch *= 2
	}

	topLeft := toWorld(v.ToWorldMat, geom.Vec2{0, 0})
	bottomRight := toWorld(v.ToWorldMat, geom.Vec2{float32(v.Width), float32(v.Height)})

	minX, maxX := topLeft.X(), bottomRight.X()
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := topLeft.Y(), bottomRight.Y()
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	startX := ceilTo(minX, pitch)
	startY := ceilTo(minY, pitch)

	i := 0
	for x := startX; x <= maxX; x += pitch {
		if i%3 == 0 {
			a := toScreen(v.ToScreenMat, geom.Vec2{x, minY})
			b := toScreen(v.ToScreenMat, geom.Vec2{x, maxY})
			c.Line(a, b, Palette.Grid)
		}
		i++
	}

	i = 0
	for y := startY; y <= maxY; y += pitch {
		if i%3 == 0 {
			a := toScreen(v.ToScreenMat, geom.Vec2{minX, y})
			b := toScreen(v.ToScreenMat, geom.Vec2{maxX, y})
			c.Line(a, b, Palette.Grid)
		}
		i++
	}
}

func ceilTo(v, step float32) float32 {
	n := float32(int(v/step)) * step
	if n < v {
		n += step
	}
	return n
}

func (e *Editor) drawOrigin(c Canvas) {
	center := toScreen(e.View.ToScreenMat, geom.Vec2{0, 0})
	const s = 10
	c.Line(geom.Vec2{center.X() - s, center.Y()}, geom.Vec2{center.X() + s, center.Y()}, Palette.Origin)
	c.Line(geom.Vec2{center.X(), center.Y() - s}, geom.Vec2{center.X(), center.Y() + s}, Palette.Origin)
}

// drawSectors draws every sector's wall cycle plus a short tick along the
// wall's plane normal (into the sector for CCW winding) at each edge
// midpoint, colored by whether the wall is solid or a
// portal, and a vertex marker at every wall's start point (highlighted if
// selected).
func (e *Editor) drawSectors(c Canvas) {
	for _, id := range e.World.Order() {
		sec, ok := e.World.Sector(id)
		if !ok {
			continue
		}
		for i := range sec.Walls {
			wall := &sec.Walls[i]
			next := sec.Wall(wall.Next)
			if next == nil {
				continue
			}

			a := toScreen(e.View.ToScreenMat, wall.Start)
			b := toScreen(e.View.ToScreenMat, next.Start)

			col := Palette.Wall
			if wall.HasPortal() {
				col = Palette.Portal
			}
			c.Line(a, b, col)

			mid := a.Add(b).Mul(0.5)
			tickEnd := geom.Vec2{mid.X() + wall.Plane[0]*8, mid.Y() - wall.Plane[1]*8}
			c.Line(mid, tickEnd, col)

			ref := world.Ref{Sector: id, Wall: world.WallID(i)}
			vc := Palette.Vertex
			if e.Selection.Contains(ref) {
				vc = Palette.SelectedVertex
			}
			c.Circle(a, PointRenderRadius, vc)
		}
	}
}

// drawCreateSectorPreview draws the in-progress polygon and a solid line
// from its last vertex to the current mouse position.
func (e *Editor) drawCreateSectorPreview(c Canvas) {
	walls := e.NewSector.Walls
	for i, w := range walls {
		if w.Next == world.NoWall {
			continue
		}
		a := toScreen(e.View.ToScreenMat, w.Start)
		b := toScreen(e.View.ToScreenMat, walls[w.Next].Start)
		c.Line(a, b, Palette.CreatePreview)
		col := Palette.Vertex
		if i == 0 {
			col = Palette.SelectedVertex
		}
		c.Circle(a, PointRenderRadius, col)
	}

	if len(walls) > 0 {
		last := toScreen(e.View.ToScreenMat, walls[len(walls)-1].Start)
		mouse := toScreen(e.View.ToScreenMat, e.View.MouseSnappedPos)
		c.Line(last, mouse, Palette.CreatePreview)
	}
}

// drawHUD renders the top-left state/counts block and the top-right
// view-settings block, matching editor2dRender's two text groups.
func (e *Editor) drawHUD(c Canvas) {
	lines := []string{
		e.State.String(),
		fmt.Sprintf("sectors: %d", e.World.NumSectors()),
		fmt.Sprintf("selected: %d", len(e.Selection)),
	}
	for i, s := range lines {
		c.Text(geom.Vec2{8, float32(8 + i*hudFace.Height)}, s, Palette.HUDText)
	}

	gridLabel := "grid: off"
	if e.View.GridActive {
		gridLabel = fmt.Sprintf("grid: %.3f", e.View.GridSize)
	}
	specterLabel := "specter: off"
	if e.View.SpecterSelect {
		specterLabel = "specter: on"
	}
	right := []string{
		fmt.Sprintf("rot: %d deg", e.View.CamRot*90),
		fmt.Sprintf("zoom: %.0f%%", e.View.Zoom*100),
		gridLabel,
		specterLabel,
	}

	width := measureMaxWidth(right)
	for i, s := range right {
		x := float32(e.View.Width - width - 8)
		c.Text(geom.Vec2{x, float32(8 + i*hudFace.Height)}, s, Palette.HUDText)
	}
}

func measureMaxWidth(lines []string) (maxWidth int) {
	d := font.Drawer{Face: hudFace}
	for _, s := range lines {
		w := d.MeasureString(s).Ceil()
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
