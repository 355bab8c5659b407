package main

import (
	"io"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/brokenbricks/voidecs"
)

const audioSampleRate = 44100

// AudioEngine abstracts sound playback behind the minimal surface a
// game system needs, the way vamplite's systems.AudioEngine interface
// decouples its AudioSystem from a concrete backend.
type AudioEngine interface {
	PlayTone(freqHz, durationSeconds float64) error
}

// ebitenAudioEngine backs AudioEngine with ebiten/audio, synthesizing a
// square-wave tone per call instead of loading a sound asset — there is
// no bundled audio file for this example, and a generated waveform
// exercises the same player/context API a loaded one would.
type ebitenAudioEngine struct {
	ctx *audio.Context
}

func newEbitenAudioEngine() *ebitenAudioEngine {
	return &ebitenAudioEngine{ctx: audio.NewContext(audioSampleRate)}
}

func (e *ebitenAudioEngine) PlayTone(freqHz, durationSeconds float64) error {
	player, err := e.ctx.NewPlayer(newToneStream(freqHz, durationSeconds))
	if err != nil {
		return err
	}
	player.Play()
	return nil
}

// toneStream is an io.Reader yielding a fixed-length 16-bit stereo
// square wave at freqHz, the PCM format ebiten/audio's NewPlayer reads.
type toneStream struct {
	freqHz     float64
	totalBytes int64
	posBytes   int64
}

const bytesPerFrame = 4 // 16-bit, 2 channels

func newToneStream(freqHz, durationSeconds float64) *toneStream {
	frames := int64(float64(audioSampleRate) * durationSeconds)
	return &toneStream{freqHz: freqHz, totalBytes: frames * bytesPerFrame}
}

func (s *toneStream) Read(p []byte) (int, error) {
	if s.posBytes >= s.totalBytes {
		return 0, io.EOF
	}
	n := int64(len(p))
	if remaining := s.totalBytes - s.posBytes; n > remaining {
		n = remaining
	}
	n -= n % bytesPerFrame

	for i := int64(0); i < n; i += bytesPerFrame {
		frame := (s.posBytes + i) / bytesPerFrame
		t := float64(frame) / float64(audioSampleRate)
		sample := int16(0.2 * math.MaxInt16 * squareWave(s.freqHz, t))
		lo, hi := byte(sample), byte(sample>>8)
		p[i], p[i+1] = lo, hi
		p[i+2], p[i+3] = lo, hi
	}
	s.posBytes += n
	return int(n), nil
}

func squareWave(freqHz, t float64) float64 {
	if math.Mod(t*freqHz, 1) < 0.5 {
		return 1
	}
	return -1
}

// BrickAudioSystem plays one tone per brick destroyed this frame,
// draining BrickBreakEvents after consuming it.
type BrickAudioSystem struct {
	engine AudioEngine
}

func NewBrickAudioSystem(engine AudioEngine) *BrickAudioSystem {
	return &BrickAudioSystem{engine: engine}
}

func (s *BrickAudioSystem) Name() string { return "brick_audio" }

func (s *BrickAudioSystem) Update(app *voidecs.App, dt float64) error {
	events, ok := voidecs.GetResource[BrickBreakEvents](app.World.Resources())
	if !ok || events.Count == 0 {
		return nil
	}
	for i := 0; i < events.Count; i++ {
		if err := s.engine.PlayTone(440, 0.05); err != nil {
			return err
		}
	}
	events.Count = 0
	return nil
}
