package main

import "image/color"

// DrawCommand is one filled rectangle the host draws this frame. The
// render system builds these from component state; Draw consumes them
// against a real ebiten.Image. Keeping the two separate means the
// render system itself never touches ebiten, matching the input
// plugin's host-agnostic split.
type DrawCommand struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// RenderQueue is the by-value resource the render system fills once per
// render stage and the host drains once per Draw call.
type RenderQueue struct {
	Commands []DrawCommand
}

// Reset empties the queue for reuse, keeping its backing array.
func (q *RenderQueue) Reset() { q.Commands = q.Commands[:0] }

// Push appends a draw command.
func (q *RenderQueue) Push(cmd DrawCommand) { q.Commands = append(q.Commands, cmd) }
