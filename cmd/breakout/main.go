// Command breakout is a minimal playable host for the engine: a paddle,
// a ball, and a grid of bricks, driven by ebiten's frame loop instead
// of by unit tests. It exists to exercise the scheduler, the built-in
// plugins, the resource store, and the query engine against a real
// frame driver; it is not part of the engine's public API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/felixge/fgprof"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
)

// startProfiling wraps the process in the named profiler using
// pkg/profile's Start/Stop pattern. "fgprof" is handled separately since it
// is not one of pkg/profile's modes: it samples both running and
// blocked goroutines, which a CPU profile alone misses.
func startProfiling(mode string) func() {
	switch mode {
	case "":
		return func() {}
	case "cpu":
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		return p.Stop
	case "mem":
		p := profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		return p.Stop
	case "goroutine":
		p := profile.Start(profile.GoroutineProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		return p.Stop
	case "fgprof":
		f, err := os.Create("fgprof.pprof")
		if err != nil {
			log.Fatalf("breakout: creating fgprof output: %v", err)
		}
		stop := fgprof.Start(f, fgprof.FormatPprof)
		return func() {
			if err := stop(); err != nil {
				log.Printf("breakout: stopping fgprof: %v", err)
			}
			f.Close()
		}
	default:
		log.Fatalf("breakout: unknown -profile mode %q (want cpu, mem, goroutine, or fgprof)", mode)
		return func() {}
	}
}

func main() {
	mode := flag.String("profile", "", "profiling mode: cpu, mem, goroutine, fgprof")
	flag.Parse()

	stop := startProfiling(*mode)
	defer stop()

	game := NewGame(newEbitenAudioEngine())

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("breakout")
	if err := ebiten.RunGame(game); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
