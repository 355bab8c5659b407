package main

import (
	"image/color"
	"math"

	"github.com/brokenbricks/voidecs"
	"github.com/brokenbricks/voidecs/plugins/input"
)

// PaddleInputSystem moves the paddle from held-key state and clamps it
// to the playfield. It owns the paddle's horizontal movement outright:
// the paddle carries no Velocity component, so MovementSystem never
// touches it.
type PaddleInputSystem struct {
	ids   ComponentIDs
	query *voidecs.QuerySystem
}

func NewPaddleInputSystem(ids ComponentIDs) *PaddleInputSystem {
	return &PaddleInputSystem{
		ids:   ids,
		query: voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Paddle}),
	}
}

func (s *PaddleInputSystem) Name() string { return "paddle_input" }

func (s *PaddleInputSystem) Update(app *voidecs.App, dt float64) error {
	in, ok := voidecs.GetResource[input.InputManager](app.World.Resources())
	if !ok {
		return nil
	}
	bounds, _ := voidecs.GetResource[Bounds](app.World.Resources())

	for _, row := range s.query.Query(app.World) {
		posCell := row.Components[s.ids.Position]
		paddle := readComponent[Paddle](row.Components[s.ids.Paddle])
		pos := readComponent[Position](posCell)

		if in.IsKeyDown("ArrowLeft") {
			pos.X -= paddle.Speed * dt
		}
		if in.IsKeyDown("ArrowRight") {
			pos.X += paddle.Speed * dt
		}
		if bounds != nil {
			pos.X = math.Max(0, math.Min(bounds.Width-paddle.Width, pos.X))
		}
		writeComponent(posCell, pos)
	}
	return nil
}

// MovementSystem integrates Position by Velocity*dt for every entity
// carrying both — the ball, in this example.
type MovementSystem struct {
	ids   ComponentIDs
	query *voidecs.QuerySystem
}

func NewMovementSystem(ids ComponentIDs) *MovementSystem {
	return &MovementSystem{
		ids:   ids,
		query: voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Velocity}),
	}
}

func (s *MovementSystem) Name() string         { return "movement" }
func (s *MovementSystem) DependsOn() []string  { return []string{"paddle_input"} }
func (s *MovementSystem) CanRunParallel() bool { return true }

func (s *MovementSystem) Update(app *voidecs.App, dt float64) error {
	for _, row := range s.query.Query(app.World) {
		posCell := row.Components[s.ids.Position]
		vel := readComponent[Velocity](row.Components[s.ids.Velocity])
		pos := readComponent[Position](posCell)
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		writeComponent(posCell, pos)
	}
	return nil
}

// CollisionSystem bounces the ball off walls and the paddle, destroys
// bricks it touches, and resets the ball when it falls past the bottom
// edge. It assumes a single ball entity: despawning a brick mutates the
// brick archetype mid-update, which would invalidate an already-cached
// brick row if a second ball iteration tried to read it afterward.
type CollisionSystem struct {
	ids         ComponentIDs
	ballQuery   *voidecs.QuerySystem
	paddleQuery *voidecs.QuerySystem
	brickQuery  *voidecs.QuerySystem
}

func NewCollisionSystem(ids ComponentIDs) *CollisionSystem {
	return &CollisionSystem{
		ids:         ids,
		ballQuery:   voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Velocity, ids.Ball}),
		paddleQuery: voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Paddle}),
		brickQuery:  voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Brick}),
	}
}

func (s *CollisionSystem) Name() string        { return "collision" }
func (s *CollisionSystem) DependsOn() []string { return []string{"movement"} }

func (s *CollisionSystem) Update(app *voidecs.App, dt float64) error {
	bounds, _ := voidecs.GetResource[Bounds](app.World.Resources())
	score, _ := voidecs.GetResource[ScoreValue](app.World.Resources())
	events, _ := voidecs.GetResource[BrickBreakEvents](app.World.Resources())

	paddles := s.paddleQuery.Query(app.World)
	bricks := s.brickQuery.Query(app.World)

	for _, row := range s.ballQuery.Query(app.World) {
		posCell := row.Components[s.ids.Position]
		velCell := row.Components[s.ids.Velocity]
		ball := readComponent[Ball](row.Components[s.ids.Ball])
		pos := readComponent[Position](posCell)
		vel := readComponent[Velocity](velCell)

		if bounds != nil {
			switch {
			case pos.X-ball.Radius < 0:
				pos.X = ball.Radius
				vel.X = -vel.X
			case pos.X+ball.Radius > bounds.Width:
				pos.X = bounds.Width - ball.Radius
				vel.X = -vel.X
			}
			if pos.Y-ball.Radius < 0 {
				pos.Y = ball.Radius
				vel.Y = -vel.Y
			}
		}

		for _, p := range paddles {
			paddle := readComponent[Paddle](p.Components[s.ids.Paddle])
			ppos := readComponent[Position](p.Components[s.ids.Position])
			if vel.Y > 0 && circleRectOverlap(pos, ball.Radius, ppos, paddle.Width, paddle.Height) {
				vel.Y = -vel.Y
				offset := (pos.X - (ppos.X + paddle.Width/2)) / (paddle.Width / 2)
				vel.X = offset * math.Abs(vel.Y)
			}
		}

		for _, b := range bricks {
			brick := readComponent[Brick](b.Components[s.ids.Brick])
			bpos := readComponent[Position](b.Components[s.ids.Position])
			if !circleRectOverlap(pos, ball.Radius, bpos, brick.Width, brick.Height) {
				continue
			}
			app.World.Despawn(b.Entity)
			vel.Y = -vel.Y
			if score != nil {
				score.Value += 10
			}
			if events != nil {
				events.Count++
			}
			break
		}

		if bounds != nil && pos.Y-ball.Radius > bounds.Height {
			pos = Position{X: bounds.Width / 2, Y: bounds.Height - 60}
			vel = Velocity{X: ballSpeed * 0.6, Y: -ballSpeed}
		}

		writeComponent(posCell, pos)
		writeComponent(velCell, vel)
	}
	return nil
}

// circleRectOverlap reports whether a circle at center with radius r
// overlaps the axis-aligned rectangle whose top-left corner is rectPos
// and whose extent is w by h.
func circleRectOverlap(center Position, r float64, rectPos Position, w, h float64) bool {
	closestX := math.Max(rectPos.X, math.Min(center.X, rectPos.X+w))
	closestY := math.Max(rectPos.Y, math.Min(center.Y, rectPos.Y+h))
	dx := center.X - closestX
	dy := center.Y - closestY
	return dx*dx+dy*dy <= r*r
}

// RenderSystem rebuilds the RenderQueue resource from current component
// state; it never touches ebiten directly.
type RenderSystem struct {
	ids         ComponentIDs
	paddleQuery *voidecs.QuerySystem
	ballQuery   *voidecs.QuerySystem
	brickQuery  *voidecs.QuerySystem
}

func NewRenderSystem(ids ComponentIDs) *RenderSystem {
	return &RenderSystem{
		ids:         ids,
		paddleQuery: voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Paddle}),
		ballQuery:   voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Ball}),
		brickQuery:  voidecs.NewQuerySystem([]voidecs.ComponentID{ids.Position, ids.Brick}),
	}
}

func (s *RenderSystem) Name() string { return "render" }

var (
	paddleColor = color.RGBA{220, 220, 240, 255}
	ballColor   = color.RGBA{255, 200, 60, 255}
	brickColor  = color.RGBA{90, 180, 90, 255}
)

func (s *RenderSystem) Update(app *voidecs.App, dt float64) error {
	queue, ok := voidecs.GetResource[RenderQueue](app.World.Resources())
	if !ok {
		return nil
	}
	queue.Reset()

	for _, row := range s.paddleQuery.Query(app.World) {
		pos := readComponent[Position](row.Components[s.ids.Position])
		paddle := readComponent[Paddle](row.Components[s.ids.Paddle])
		queue.Push(DrawCommand{X: pos.X, Y: pos.Y, W: paddle.Width, H: paddle.Height, Color: paddleColor})
	}
	for _, row := range s.ballQuery.Query(app.World) {
		pos := readComponent[Position](row.Components[s.ids.Position])
		ball := readComponent[Ball](row.Components[s.ids.Ball])
		d := ball.Radius * 2
		queue.Push(DrawCommand{X: pos.X - ball.Radius, Y: pos.Y - ball.Radius, W: d, H: d, Color: ballColor})
	}
	for _, row := range s.brickQuery.Query(app.World) {
		pos := readComponent[Position](row.Components[s.ids.Position])
		brick := readComponent[Brick](row.Components[s.ids.Brick])
		queue.Push(DrawCommand{X: pos.X, Y: pos.Y, W: brick.Width, H: brick.Height, Color: brickColor})
	}
	return nil
}
