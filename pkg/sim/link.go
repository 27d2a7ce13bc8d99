package sim

import (
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// Sides reported by Link frames.
const (
	LinkSourceA = "a"
	LinkSourceB = "b"
)

// Link cross-wires two engines as a null modem: A's TX feeds B's RX
// and B's TX feeds A's RX, each direction through its own Wiring.
// Both engines advance on the same tick, so the link is full duplex.
type Link struct {
	FrameCaster

	a, b   *uart.Engine
	wireAB Wiring
	wireBA Wiring
	tick   uint64

	framesA []uart.Frame
	framesB []uart.Frame
}

// NewLink creates a link between two fresh engines. The framing
// configuration may differ per side; mismatched framing is a valid
// way to study error behavior.
func NewLink(cfgA, cfgB uart.Config) (*Link, error) {
	a, err := uart.New(cfgA)
	if err != nil {
		return nil, err
	}
	b, err := uart.New(cfgB)
	if err != nil {
		return nil, err
	}
	return &Link{a: a, b: b, wireAB: Direct(), wireBA: Direct()}, nil
}

// A returns the first engine.
func (l *Link) A() *uart.Engine {
	return l.a
}

// B returns the second engine.
func (l *Link) B() *uart.Engine {
	return l.b
}

// SetWiring replaces both direction transforms. ab carries A's TX to
// B's RX, ba the reverse.
func (l *Link) SetWiring(ab, ba Wiring) {
	l.wireAB, l.wireBA = ab, ba
}

// Ticks returns the number of ticks stepped so far.
func (l *Link) Ticks() uint64 {
	return l.tick
}

// Step advances both engines one tick. Line levels are sampled before
// either side advances, so the two directions see a consistent wire.
func (l *Link) Step() (a, b uart.TickResult) {
	l.tick++
	txA, txB := l.a.TX(), l.b.TX()
	l.a.SetRX(l.wireBA.Level(l.tick, txB))
	l.b.SetRX(l.wireAB.Level(l.tick, txA))
	a = l.a.Tick()
	b = l.b.Tick()
	if a.Frame != nil {
		l.framesA = append(l.framesA, *a.Frame)
		l.FrameCaster.FrameReceived(LinkSourceA, l.tick, *a.Frame)
	}
	if b.Frame != nil {
		l.framesB = append(l.framesB, *b.Frame)
		l.FrameCaster.FrameReceived(LinkSourceB, l.tick, *b.Frame)
	}
	return
}

// Run advances n ticks.
func (l *Link) Run(n uint64) {
	for i := uint64(0); i < n; i++ {
		l.Step()
	}
}

// FramesA returns frames received by A since construction.
func (l *Link) FramesA() []uart.Frame {
	return l.framesA
}

// FramesB returns frames received by B since construction.
func (l *Link) FramesB() []uart.Frame {
	return l.framesB
}
