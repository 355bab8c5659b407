// Package timeplugin provides the built-in frame-timing plugin: it
// writes a Time resource every frame from a host-supplied delta, the
// way vamplite's systems read a similarly-shaped resource rather than
// calling a wall-clock source directly.
package timeplugin

import "github.com/brokenbricks/voidecs"

// Time is the resource application systems read for frame timing. The
// host (or HostDriver below) is responsible for advancing it once per
// frame before the scheduler's pre_update stage runs.
type Time struct {
	DeltaSeconds   float64
	ElapsedSeconds float64
	FrameNumber    uint64
	LastUpdateUnix int64
}

// Advance adds dt seconds to the running totals and bumps the frame
// counter. Called by HostDriver.Tick (or directly by an embedding
// host driving its own loop).
func (t *Time) Advance(dt float64, nowUnix int64) {
	t.DeltaSeconds = dt
	t.ElapsedSeconds += dt
	t.FrameNumber++
	t.LastUpdateUnix = nowUnix
}

// Plugin inserts a zeroed Time resource at build time. Hosts advance it
// every frame via HostDriver or by calling voidecs.GetResource[Time]
// directly and mutating it in place (by-value resources are a
// canonical mutable instance, not a snapshot).
type Plugin struct{}

// Name identifies this plugin for PluginManager bookkeeping.
func (Plugin) Name() string { return "time" }

// Build inserts the Time resource.
func (Plugin) Build(app *voidecs.App) {
	voidecs.InsertResource(app.World.Resources(), Time{})
}

// HostDriver is a small helper a frame driver can use to advance Time
// once per tick without reaching into the resource store directly.
type HostDriver struct {
	App *voidecs.App
}

// Tick advances the Time resource by dt seconds. No-op if the Time
// plugin was never built into App.
func (d HostDriver) Tick(dt float64, nowUnix int64) {
	t, ok := voidecs.GetResource[Time](d.App.World.Resources())
	if !ok {
		return
	}
	t.Advance(dt, nowUnix)
}
