package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/brokenbricks/voidecs"
	"github.com/brokenbricks/voidecs/plugins/input"
	"github.com/brokenbricks/voidecs/plugins/timeplugin"
)

var trackedKeys = []ebiten.Key{
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
	ebiten.KeySpace,
	ebiten.KeyEscape,
}

func keyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeyArrowLeft:
		return "ArrowLeft"
	case ebiten.KeyArrowRight:
		return "ArrowRight"
	case ebiten.KeySpace:
		return "Space"
	case ebiten.KeyEscape:
		return "Escape"
	default:
		return k.String()
	}
}

// Game wraps a *voidecs.App as an ebiten.Game: Update polls raw input
// into the input plugin's InputManager and drives pre_update/update/
// post_update/cleanup; Draw drives the render stage and rasterizes the
// resulting RenderQueue. Splitting stages across the two callbacks
// instead of one UpdateAll keeps Render aligned with ebiten's own
// decoupled TPS/FPS model: Update can run zero or more than once per
// Draw depending on frame pacing, but Draw should still draw exactly
// once per call.
type Game struct {
	App        *voidecs.App
	clock      timeplugin.HostDriver
	lastDt     float64
	pressedBuf []ebiten.Key
}

// NewGame wires a fresh App: built-in plugins, this example's
// components and level, and its systems across the update,
// post_update, and render stages.
func NewGame(engine AudioEngine) *Game {
	app := voidecs.NewApp()

	mustPlugin := func(err error) {
		if err != nil {
			panic(fmt.Errorf("breakout: %w", err))
		}
	}
	mustPlugin(app.Plugins.Add(timeplugin.Plugin{}))
	mustPlugin(app.Plugins.Add(input.Plugin{}))
	mustPlugin(app.Plugins.Build(app))

	ids := RegisterComponents(app.World)
	SpawnLevel(app.World)

	mustSystem := func(err error) {
		if err != nil {
			panic(fmt.Errorf("breakout: %w", err))
		}
	}
	mustSystem(app.Scheduler.AddTo(app, NewPaddleInputSystem(ids), voidecs.Update))
	mustSystem(app.Scheduler.AddTo(app, NewMovementSystem(ids), voidecs.Update))
	mustSystem(app.Scheduler.AddTo(app, NewCollisionSystem(ids), voidecs.Update))
	mustSystem(app.Scheduler.AddTo(app, NewBrickAudioSystem(engine), voidecs.PostUpdate))
	mustSystem(app.Scheduler.AddTo(app, NewRenderSystem(ids), voidecs.Render))

	return &Game{App: app, clock: timeplugin.HostDriver{App: app}}
}

func (g *Game) pollInput() {
	in, ok := voidecs.GetResource[input.InputManager](g.App.World.Resources())
	if !ok {
		return
	}
	in.BeginFrame()

	g.pressedBuf = inpututil.AppendPressedKeys(g.pressedBuf[:0])
	down := make(map[ebiten.Key]bool, len(g.pressedBuf))
	for _, k := range g.pressedBuf {
		down[k] = true
		in.SetKeyDown(keyName(k))
	}
	for _, k := range trackedKeys {
		if !down[k] {
			in.SetKeyUp(keyName(k))
		}
	}

	x, y := ebiten.CursorPosition()
	in.SetMousePosition(float64(x), float64(y))
}

// Update advances frame timing, polls input, and runs every stage up
// to (but not including) render.
func (g *Game) Update() error {
	g.pollInput()
	dt := 1.0 / float64(ebiten.TPS())
	g.lastDt = dt
	g.clock.Tick(dt, 0)

	for _, stage := range []voidecs.Stage{voidecs.PreUpdate, voidecs.Update, voidecs.PostUpdate, voidecs.Cleanup} {
		if err := g.App.Scheduler.UpdateStage(g.App, stage, dt); err != nil {
			return fmt.Errorf("breakout: stage %s: %w", stage, err)
		}
	}
	return nil
}

// Draw runs the render stage and rasterizes the resulting RenderQueue.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{12, 12, 18, 255})

	if err := g.App.Scheduler.UpdateStage(g.App, voidecs.Render, g.lastDt); err != nil {
		ebitenutil.DebugPrint(screen, err.Error())
		return
	}

	queue, ok := voidecs.GetResource[RenderQueue](g.App.World.Resources())
	if ok {
		for _, cmd := range queue.Commands {
			vector.DrawFilledRect(screen, float32(cmd.X), float32(cmd.Y), float32(cmd.W), float32(cmd.H), cmd.Color, false)
		}
	}

	if score, ok := voidecs.GetResource[ScoreValue](g.App.World.Resources()); ok {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("score: %d", score.Value))
	}
}

// Layout fixes the logical screen size regardless of window resizing.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
