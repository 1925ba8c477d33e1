// Package shell is the C7 host: a GLFW window, input polling, and the
// software framebuffer the 2D editor view and the 3D portal renderer both
// draw into, blitted to the screen each frame with a single glDrawPixels
// call.
// Grounded on the teacher's mod_platform_window.go/gpu_operations.go window
// bring-up and mod_input.go polling; the GPU surface itself is reduced to a
// blit target since this renderer rasterizes on the CPU rather than issuing
// draw calls (see DESIGN.md for why cogentcore/webgpu didn't carry over).
package shell

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lostwing/lwedit/geom"
)

func loadFace() font.Face { return basicfont.Face7x13 }

// Framebuffer is a CPU-side RGBA target implementing both render.Surface (3D
// flood-fill polygons) and editor.Canvas (2D lines/circles/text).
type Framebuffer struct {
	Img *image.RGBA
}

// NewFramebuffer allocates a width x height buffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size implements render.Surface and editor.Canvas.
func (f *Framebuffer) Size() (int, int) {
	b := f.Img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the buffer if its dimensions changed.
func (f *Framebuffer) Resize(width, height int) {
	w, h := f.Size()
	if w == width && h == height {
		return
	}
	f.Img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clear implements editor.Canvas.
func (f *Framebuffer) Clear(c color.RGBA) {
	draw.Draw(f.Img, f.Img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (f *Framebuffer) setPixel(x, y int, c color.RGBA) {
	b := f.Img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	f.Img.SetRGBA(x, y, c)
}

// Line draws a with Bresenham's algorithm. Implements editor.Canvas.
func (f *Framebuffer) Line(a, b geom.Vec2, c color.RGBA) {
	x0, y0 := int(a.X()), int(a.Y())
	x1, y1 := int(b.X()), int(b.Y())

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		f.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Circle draws an unfilled circle outline via the midpoint algorithm.
// Implements editor.Canvas.
func (f *Framebuffer) Circle(center geom.Vec2, radius float32, c color.RGBA) {
	cx, cy := int(center.X()), int(center.Y())
	r := int(radius)
	x, y, d := r, 0, 1-r

	plot := func(x, y int) {
		f.setPixel(cx+x, cy+y, c)
		f.setPixel(cx-x, cy+y, c)
		f.setPixel(cx+x, cy-y, c)
		f.setPixel(cx-x, cy-y, c)
		f.setPixel(cx+y, cy+x, c)
		f.setPixel(cx-y, cy+x, c)
		f.setPixel(cx+y, cy-x, c)
		f.setPixel(cx-y, cy-x, c)
	}

	for y <= x {
		plot(x, y)
		y++
		if d <= 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// Rect draws an unfilled rectangle outline between low and high.
// Implements editor.Canvas.
func (f *Framebuffer) Rect(low, high geom.Vec2, c color.RGBA) {
	f.Line(geom.Vec2{low.X(), low.Y()}, geom.Vec2{high.X(), low.Y()}, c)
	f.Line(geom.Vec2{high.X(), low.Y()}, geom.Vec2{high.X(), high.Y()}, c)
	f.Line(geom.Vec2{high.X(), high.Y()}, geom.Vec2{low.X(), high.Y()}, c)
	f.Line(geom.Vec2{low.X(), high.Y()}, geom.Vec2{low.X(), low.Y()}, c)
}

var textFace = loadFace()

// Text draws s with a fixed 7x13 bitmap font. Implements editor.Canvas.
func (f *Framebuffer) Text(pos geom.Vec2, s string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  f.Img,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.Point26_6{X: fixed.I(int(pos.X())), Y: fixed.I(int(pos.Y()) + 10)},
	}
	d.DrawString(s)
}

// DrawPolygon scanline-fills a convex screen-space polygon. Implements
// render.Surface; the portal-flood renderer emits one call per wall/step
// quad, each already planar-convex.
func (f *Framebuffer) DrawPolygon(points []geom.Vec2) {
	if len(points) < 3 {
		return
	}
	b := f.Img.Bounds()

	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points[1:] {
		minY = float32(math.Min(float64(minY), float64(p.Y())))
		maxY = float32(math.Max(float64(maxY), float64(p.Y())))
	}
	y0 := int(math.Max(float64(b.Min.Y), math.Floor(float64(minY))))
	y1 := int(math.Min(float64(b.Max.Y-1), math.Ceil(float64(maxY))))

	const fillAlpha = 160
	fill := color.RGBA{200, 200, 200, fillAlpha}

	n := len(points)
	for y := y0; y <= y1; y++ {
		fy := float32(y) + 0.5
		var xs []float32
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			p0, p1 := points[i], points[j]
			if (p0.Y() <= fy && p1.Y() > fy) || (p1.Y() <= fy && p0.Y() > fy) {
				t := (fy - p0.Y()) / (p1.Y() - p0.Y())
				xs = append(xs, p0.X()+t*(p1.X()-p0.X()))
			}
		}
		for i := 0; i+1 < len(xs); i += 2 {
			xa, xb := xs[i], xs[i+1]
			if xa > xb {
				xa, xb = xb, xa
			}
			for x := int(math.Max(float64(b.Min.X), math.Floor(float64(xa)))); x <= int(math.Min(float64(b.Max.X-1), math.Ceil(float64(xb)))); x++ {
				f.setPixel(x, y, fill)
			}
		}
	}

	for i := 0; i < n; i++ {
		f.Line(points[i], points[(i+1)%n], color.RGBA{255, 255, 255, 255})
	}
}
