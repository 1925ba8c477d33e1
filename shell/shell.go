package shell

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lostwing/lwedit/editor"
	"github.com/lostwing/lwedit/geom"
	"github.com/lostwing/lwedit/input"
	"github.com/lostwing/lwedit/logx"
	"github.com/lostwing/lwedit/render"
	"github.com/lostwing/lwedit/world"
)

func init() {
	// GLFW and the GL context it creates must live on one OS thread for the
	// life of the program.
	runtime.LockOSThread()
}

// Host owns the GLFW window, the CPU framebuffer blitted to it each frame,
// and the input state the editor reads. Grounded on the teacher's
// createWindowState/mod_input.go bring-up, with the wgpu surface it used
// replaced by a plain GL blit of a software-rendered buffer (see DESIGN.md).
type Host struct {
	win *glfw.Window
	fb  *Framebuffer

	bindings input.Bindings
	inState  input.State

	log  logx.Logger
	path string // last save/load path, reused by ActionSave/ActionLoad
}

// NewHost creates the window and GL context. Per spec.md's resource-
// unavailable error kind, a creation failure is returned rather than
// panicking, so main can log it and exit non-zero before entering the loop.
func NewHost(width, height int, title string, log logx.Logger) (*Host, error) {
	if log == nil {
		log = logx.NewNop()
	}
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, err
	}
	gl.PixelZoom(1, -1)

	h := &Host{
		win:      win,
		fb:       NewFramebuffer(width, height),
		bindings: input.DefaultBindings,
		log:      log,
	}

	// GLFW scroll is callback-driven, not polled like keys; accumulate it
	// into inState.ScrollY for applyViewInput to consume; Run resets it
	// after each 2D update.
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		h.inState.ScrollY += yoff
	})

	return h, nil
}

// Close tears down the window and terminates GLFW.
func (h *Host) Close() {
	h.win.Destroy()
	glfw.Terminate()
}

// SetSavePath sets the path ActionSave/ActionLoad operate on.
func (h *Host) SetSavePath(path string) { h.path = path }

// Run drives the frame loop until the window is closed: poll input, advance
// the editor (2D map-edit state machine, or the 3D preview camera once the
// user swaps views), render into the framebuffer, and blit it to the
// window.
func (h *Host) Run(e *editor.Editor, save, load func(path string) error) {
	last := glfw.GetTime()
	for !h.win.ShouldClose() {
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		glfw.PollEvents()
		input.Poll(h.win, h.bindings, &h.inState)

		w, hgt := h.win.GetSize()
		h.fb.Resize(w, hgt)

		mx, my := h.win.GetCursorPos()
		mouseScreen := geom.Vec2{float32(mx), float32(my)}

		if input.Down(&h.inState, input.ActionSave) && save != nil {
			if err := save(h.path); err != nil {
				h.log.Errorf("save %s: %v", h.path, err)
			}
		}
		if input.Down(&h.inState, input.ActionLoad) && load != nil {
			if err := load(h.path); err != nil {
				h.log.Errorf("load %s: %v", h.path, err)
			}
		}

		if e.View3D {
			h.runFlyCamera(e, dt)
			var overflowed []world.SectorID
			render.Flood(h.fb, e.World, e.Camera, e.Camera.Sector, func(s world.SectorID) {
				overflowed = append(overflowed, s)
			})
			for _, s := range overflowed {
				h.log.Warnf("sector queue overflow at sector %d, dropped", s)
			}
		} else {
			e.Update2D(dt, &h.inState, mouseScreen)
			h.inState.ScrollY = 0
			e.Render2D(h.fb)
		}

		h.blit()
		h.win.SwapBuffers()

		if dt < targetFrameTime {
			time.Sleep(time.Duration((targetFrameTime - dt) * float32(time.Second)))
		}
	}
}

const targetFrameTime = 1.0 / 120.0

// runFlyCamera applies WASD+mouse-look to the 3D preview camera, grounded on
// the teacher's flying-camera controller, adapted to this world's Z-up
// convention and portal-sector tracking: crossing into a new sub-sector or
// sector re-resolves Camera.Sector via world.GetSector.
func (h *Host) runFlyCamera(e *editor.Editor, dt float32) {
	cam := e.Camera
	if cam == nil {
		return
	}

	const mouseSensitivity = 0.0025
	cam.Yaw -= float32(h.inState.MouseDX) * mouseSensitivity
	cam.Pitch -= float32(h.inState.MouseDY) * mouseSensitivity
	const maxPitch = 1.5
	if cam.Pitch > maxPitch {
		cam.Pitch = maxPitch
	}
	if cam.Pitch < -maxPitch {
		cam.Pitch = -maxPitch
	}

	right, front, up := cam.Basis()
	var move geom.Vec3
	if input.Held(&h.inState, input.ActionMoveForward) {
		move = move.Add(front)
	}
	if input.Held(&h.inState, input.ActionMoveBack) {
		move = move.Sub(front)
	}
	if input.Held(&h.inState, input.ActionMoveRight) {
		move = move.Add(right)
	}
	if input.Held(&h.inState, input.ActionMoveLeft) {
		move = move.Sub(right)
	}
	if input.Held(&h.inState, input.ActionMoveUp) {
		move = move.Add(up)
	}
	if input.Held(&h.inState, input.ActionMoveDown) {
		move = move.Sub(up)
	}
	if l := move.Len(); l > 0 {
		move = move.Mul(1 / l)
	}

	const speed = 6.0
	cam.Pos = cam.Pos.Add(move.Mul(speed * dt))
	cam.Recalc()

	if id, ok := world.GetSector(e.World, geom.Vec2{cam.Pos.X(), cam.Pos.Y()}); ok {
		cam.Sector = id
		if sec, ok := e.World.Sector(id); ok {
			cam.SubSector = world.GetSubSector(sec, cam.Pos.Z())
		}
	}

	if input.Down(&h.inState, input.ActionToggleView) {
		e.View3D = false
	}
}

// blit uploads the CPU framebuffer to the screen via a single DrawPixels
// call; PixelZoom(1,-1) at init compensates for image.RGBA's top-down row
// order versus GL's bottom-up raster convention.
func (h *Host) blit() {
	w, hgt := h.fb.Size()
	gl.Viewport(0, 0, int32(w), int32(hgt))
	gl.RasterPos2d(-1, 1)
	gl.DrawPixels(int32(w), int32(hgt), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&h.fb.Img.Pix[0]))
}
