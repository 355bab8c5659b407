package main

import "github.com/brokenbricks/voidecs"

// Screen and level layout constants. Kept as untyped constants rather
// than a config struct: this is a fixed example level, not something a
// host is expected to reconfigure.
const (
	ScreenWidth  = 640
	ScreenHeight = 480

	paddleWidth  = 80.0
	paddleHeight = 12.0
	paddleSpeed  = 360.0

	ballRadius = 6.0
	ballSpeed  = 240.0

	brickRows   = 5
	brickCols   = 10
	brickWidth  = 56.0
	brickHeight = 18.0
	brickGap    = 4.0
	brickTop    = 40.0
)

// Position and Velocity are plain two-field components, the same shape
// the engine's own test fixtures use.
type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }

// Paddle marks the player-controlled entity and carries its extent and
// movement speed.
type Paddle struct {
	Width, Height float64
	Speed         float64
}

// Ball marks the bouncing entity and carries its collision radius.
type Ball struct {
	Radius float64
}

// Brick marks a destructible entity and carries its extent. Bricks have
// no Velocity: they never move, only despawn on impact.
type Brick struct {
	Width, Height float64
}

// Bounds is the by-value resource describing the playfield, read by
// every system that needs to clamp or bounce against an edge.
type Bounds struct{ Width, Height float64 }

// ScoreValue is the by-value resource tracking the player's running
// score across brick breaks.
type ScoreValue struct{ Value int }

// BrickBreakEvents is a minimal single-frame event queue: the collision
// system increments Count for every brick destroyed this frame, and the
// audio system consumes (and resets) it after playing one tone per
// break. A dedicated event-component stream would be overkill for a
// single producer and a single consumer.
type BrickBreakEvents struct{ Count int }

// ComponentIDs collects the component ids this example registers, so
// every system can be constructed with the ids it needs instead of
// re-resolving them via voidecs.TypeID at call time.
type ComponentIDs struct {
	Position voidecs.ComponentID
	Velocity voidecs.ComponentID
	Paddle   voidecs.ComponentID
	Ball     voidecs.ComponentID
	Brick    voidecs.ComponentID
}

// RegisterComponents registers every component type this example uses,
// in a fixed order, and returns their ids.
func RegisterComponents(w *voidecs.World) ComponentIDs {
	return ComponentIDs{
		Position: voidecs.Register[Position](w),
		Velocity: voidecs.Register[Velocity](w),
		Paddle:   voidecs.Register[Paddle](w),
		Ball:     voidecs.Register[Ball](w),
		Brick:    voidecs.Register[Brick](w),
	}
}

// SpawnLevel inserts the level's resources and spawns the paddle, ball,
// and brick grid into w.
func SpawnLevel(w *voidecs.World) {
	voidecs.InsertResource(w.Resources(), Bounds{Width: ScreenWidth, Height: ScreenHeight})
	voidecs.InsertResource(w.Resources(), ScoreValue{})
	voidecs.InsertResource(w.Resources(), BrickBreakEvents{})
	voidecs.InsertResource(w.Resources(), RenderQueue{})

	_, _ = w.CreateWithComponents(
		voidecs.Component(w, Position{X: ScreenWidth/2 - paddleWidth/2, Y: ScreenHeight - 30}),
		voidecs.Component(w, Paddle{Width: paddleWidth, Height: paddleHeight, Speed: paddleSpeed}),
	)

	_, _ = w.CreateWithComponents(
		voidecs.Component(w, Position{X: ScreenWidth / 2, Y: ScreenHeight - 60}),
		voidecs.Component(w, Velocity{X: ballSpeed * 0.6, Y: -ballSpeed}),
		voidecs.Component(w, Ball{Radius: ballRadius}),
	)

	for row := 0; row < brickRows; row++ {
		for col := 0; col < brickCols; col++ {
			x := brickGap + float64(col)*(brickWidth+brickGap)
			y := brickTop + float64(row)*(brickHeight+brickGap)
			_, _ = w.CreateWithComponents(
				voidecs.Component(w, Position{X: x, Y: y}),
				voidecs.Component(w, Brick{Width: brickWidth, Height: brickHeight}),
			)
		}
	}
}
