// Package input maps a small set of editor/shell actions onto physical keys
// and mouse state, and edge-detects press/release transitions. Grounded on
// the teacher's mod_input.go key-to-glfw table and frame-over-frame edge
// arrays, generalized from the teacher's fixed key set to the action enum
// this editor needs.
package input

import "github.com/go-gl/glfw/v3.3/glfw"

// Action names a logical input the editor or shell reacts to, independent
// of which physical key drives it.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionToggleGrid
	ActionIncreaseGrid
	ActionDecreaseGrid
	ActionToggleSpecter
	ActionRotateCW
	ActionRotateCCW
	ActionSave
	ActionLoad
	ActionToggleView
	ActionDelete
	ActionCancel
	actionCount
)

// Bindings is the action-to-key configuration surface; the shell loads
// DefaultBindings at startup and a future settings file could override it.
type Bindings map[Action]glfw.Key

// DefaultBindings mirrors the original editor's WASD-plus-rotation layout.
var DefaultBindings = Bindings{
	ActionMoveForward:   glfw.KeyW,
	ActionMoveBack:      glfw.KeyS,
	ActionMoveLeft:      glfw.KeyA,
	ActionMoveRight:     glfw.KeyD,
	ActionMoveUp:        glfw.KeySpace,
	ActionMoveDown:      glfw.KeyLeftShift,
	ActionToggleGrid:    glfw.KeyG,
	ActionIncreaseGrid:  glfw.KeyRightBracket,
	ActionDecreaseGrid:  glfw.KeyLeftBracket,
	ActionToggleSpecter: glfw.KeyH,
	ActionRotateCW:      glfw.KeyE,
	ActionRotateCCW:     glfw.KeyQ,
	ActionSave:          glfw.KeyS,
	ActionLoad:          glfw.KeyO,
	ActionToggleView:    glfw.KeyTab,
	ActionDelete:        glfw.KeyDelete,
	ActionCancel:        glfw.KeyEscape,
}

// State tracks, per action, whether it's currently held and whether this
// frame is the edge into or out of that state, plus raw mouse motion and
// scroll accumulated since the last Poll.
type State struct {
	held         [actionCount]bool
	justPressed  [actionCount]bool
	justReleased [actionCount]bool

	MouseDX, MouseDY float64
	ScrollY          float64

	lastMouseX, lastMouseY float64
	haveLastMouse          bool
}

// Poll reads win's current key/mouse state and updates s's edge arrays.
// Ctrl must be held for ActionSave/ActionLoad (Ctrl+S / Ctrl+O), since S
// otherwise doubles as the move-back key.
func Poll(win *glfw.Window, bindings Bindings, s *State) {
	ctrl := win.GetKey(glfw.KeyLeftControl) == glfw.Press || win.GetKey(glfw.KeyRightControl) == glfw.Press

	for a := Action(0); a < actionCount; a++ {
		key, bound := bindings[a]
		wasHeld := s.held[a]
		nowHeld := false
		if bound {
			nowHeld = win.GetKey(key) == glfw.Press
			if (a == ActionSave || a == ActionLoad) && !ctrl {
				nowHeld = false
			}
		}

		s.held[a] = nowHeld
		s.justPressed[a] = nowHeld && !wasHeld
		s.justReleased[a] = wasHeld && !nowHeld
	}

	x, y := win.GetCursorPos()
	if s.haveLastMouse {
		s.MouseDX = x - s.lastMouseX
		s.MouseDY = y - s.lastMouseY
	} else {
		s.MouseDX, s.MouseDY = 0, 0
		s.haveLastMouse = true
	}
	s.lastMouseX, s.lastMouseY = x, y
}

// Held reports whether a is currently down.
func Held(s *State, a Action) bool { return s.held[a] }

// Down reports whether this frame is the edge into a being pressed.
func Down(s *State, a Action) bool { return s.justPressed[a] }

// Up reports whether this frame is the edge into a being released.
func Up(s *State, a Action) bool { return s.justReleased[a] }
