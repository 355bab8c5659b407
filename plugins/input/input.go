// Package input provides the built-in input-source plugin: the host
// writes key/button/mouse/scroll state into an InputManager resource
// once per frame; application systems read it during stages at or
// after pre_update. The package itself is host-agnostic (no ebiten
// import) — cmd/breakout's main loop is the thing that actually polls
// ebiten/inpututil and writes each frame's state through BeginFrame
// and the Set* methods.
package input

import "github.com/brokenbricks/voidecs"

// InputManager is the per-frame input snapshot application systems read.
type InputManager struct {
	keysDown     map[string]bool
	keysPressed  map[string]bool
	keysReleased map[string]bool
	mouseX       float64
	mouseY       float64
	scrollX      float64
	scrollY      float64
}

// NewInputManager returns an empty snapshot.
func NewInputManager() *InputManager {
	return &InputManager{
		keysDown:     make(map[string]bool),
		keysPressed:  make(map[string]bool),
		keysReleased: make(map[string]bool),
	}
}

// BeginFrame clears the edge-triggered (pressed/released) sets; call
// once per frame before the host reports this frame's raw state.
func (m *InputManager) BeginFrame() {
	clear(m.keysPressed)
	clear(m.keysReleased)
}

// SetKeyDown records key as currently held.
func (m *InputManager) SetKeyDown(key string) {
	if !m.keysDown[key] {
		m.keysPressed[key] = true
	}
	m.keysDown[key] = true
}

// SetKeyUp records key as released this frame.
func (m *InputManager) SetKeyUp(key string) {
	if m.keysDown[key] {
		m.keysReleased[key] = true
	}
	delete(m.keysDown, key)
}

// SetMousePosition records the latest cursor position.
func (m *InputManager) SetMousePosition(x, y float64) {
	m.mouseX, m.mouseY = x, y
}

// SetScroll records this frame's scroll delta.
func (m *InputManager) SetScroll(dx, dy float64) {
	m.scrollX, m.scrollY = dx, dy
}

// IsKeyDown reports whether key is currently held.
func (m *InputManager) IsKeyDown(key string) bool { return m.keysDown[key] }

// WasKeyPressed reports whether key transitioned down this frame.
func (m *InputManager) WasKeyPressed(key string) bool { return m.keysPressed[key] }

// WasKeyReleased reports whether key transitioned up this frame.
func (m *InputManager) WasKeyReleased(key string) bool { return m.keysReleased[key] }

// MousePosition returns the latest cursor position.
func (m *InputManager) MousePosition() (x, y float64) { return m.mouseX, m.mouseY }

// Scroll returns this frame's scroll delta.
func (m *InputManager) Scroll() (dx, dy float64) { return m.scrollX, m.scrollY }

// Plugin inserts an empty InputManager resource at build time.
type Plugin struct{}

// Name identifies this plugin for PluginManager bookkeeping.
func (Plugin) Name() string { return "input" }

// Build inserts the InputManager resource.
func (Plugin) Build(app *voidecs.App) {
	voidecs.InsertResource(app.World.Resources(), *NewInputManager())
}
