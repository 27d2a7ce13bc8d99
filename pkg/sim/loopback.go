package sim

import (
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// LoopbackSource names the side reported by Loopback frames.
const LoopbackSource = "loop"

// Loopback wires an engine's TX back into its own RX through a Wiring
// transform, the canonical round-trip harness.
type Loopback struct {
	FrameCaster

	eng    *uart.Engine
	wiring Wiring
	tick   uint64
	frames []uart.Frame
}

// NewLoopback creates a loopback over a fresh engine with Direct
// wiring.
func NewLoopback(cfg uart.Config) (*Loopback, error) {
	eng, err := uart.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Loopback{eng: eng, wiring: Direct()}, nil
}

// Engine exposes the wrapped engine for send requests and phase
// inspection.
func (l *Loopback) Engine() *uart.Engine {
	return l.eng
}

// SetWiring replaces the line transform. Ticks already elapsed keep
// their effect.
func (l *Loopback) SetWiring(w Wiring) {
	l.wiring = w
}

// Ticks returns the number of ticks stepped so far. The first Step
// executes tick 1.
func (l *Loopback) Ticks() uint64 {
	return l.tick
}

// Step advances the engine one tick, sampling its own transformed TX.
func (l *Loopback) Step() uart.TickResult {
	l.tick++
	l.eng.SetRX(l.wiring.Level(l.tick, l.eng.TX()))
	tr := l.eng.Tick()
	if tr.Frame != nil {
		l.frames = append(l.frames, *tr.Frame)
		l.FrameCaster.FrameReceived(LoopbackSource, l.tick, *tr.Frame)
	}
	return tr
}

// Run advances n ticks.
func (l *Loopback) Run(n uint64) {
	for i := uint64(0); i < n; i++ {
		l.Step()
	}
}

// RunUntilFrame steps until a frame completes, up to limit ticks. The
// second result is false when the limit is hit first.
func (l *Loopback) RunUntilFrame(limit uint64) (uart.Frame, bool) {
	for i := uint64(0); i < limit; i++ {
		if tr := l.Step(); tr.Frame != nil {
			return *tr.Frame, true
		}
	}
	return uart.Frame{}, false
}

// Frames returns all frames completed since construction.
func (l *Loopback) Frames() []uart.Frame {
	return l.frames
}
