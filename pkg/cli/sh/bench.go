package sh

import (
	"fmt"

	"github.com/Jean-StephaneCote/UART/pkg/mon"
	"github.com/Jean-StephaneCote/UART/pkg/sim"
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// Bench is the simulated wire under test: a single engine looped back
// onto itself, or two engines linked in full duplex.
type Bench struct {
	Cfg    uart.Config
	Duplex bool

	Loop *sim.Loopback
	Link *sim.Link

	// Events is the log of observed frames, oldest first.
	Events []mon.Event

	wiring sim.Wiring
}

// NewBench creates a bench. With duplex, words sent from the a side
// arrive at the b side.
func NewBench(cfg uart.Config, duplex bool) (*Bench, error) {
	b := &Bench{Duplex: duplex, wiring: sim.Direct()}
	if duplex {
		link, err := sim.NewLink(cfg, cfg)
		if err != nil {
			return nil, err
		}
		b.Link, b.Cfg = link, link.A().Config()
	} else {
		loop, err := sim.NewLoopback(cfg)
		if err != nil {
			return nil, err
		}
		b.Loop, b.Cfg = loop, loop.Engine().Config()
	}
	desc := b.Cfg.String()
	b.subscriber().SubscribeFrames(sim.FrameListenerFunc(
		func(source string, tick uint64, frame uart.Frame) {
			b.Events = append(b.Events, mon.Event{
				Source: source,
				Tick:   tick,
				Data:   frame.Data,
				Err:    frame.Err,
				Config: desc,
			})
		}))
	return b, nil
}

// Mode names the bench topology.
func (b *Bench) Mode() string {
	if b.Duplex {
		return "link"
	}
	return "loop"
}

func (b *Bench) subscriber() sim.FrameSubscriber {
	if b.Duplex {
		return b.Link
	}
	return b.Loop
}

// Ticks reports the simulation time.
func (b *Bench) Ticks() uint64 {
	if b.Duplex {
		return b.Link.Ticks()
	}
	return b.Loop.Ticks()
}

// Step advances the simulation n ticks.
func (b *Bench) Step(n uint64) {
	if b.Duplex {
		b.Link.Run(n)
		return
	}
	b.Loop.Run(n)
}

// SetWiring installs a line transform. On a duplex bench it affects
// the a to b direction.
func (b *Bench) SetWiring(w sim.Wiring) {
	b.wiring = w
	b.install(w)
}

func (b *Bench) install(w sim.Wiring) {
	if b.Duplex {
		b.Link.SetWiring(w, sim.Direct())
		return
	}
	b.Loop.SetWiring(w)
}

// sender is the engine send requests go to.
func (b *Bench) sender() *uart.Engine {
	if b.Duplex {
		return b.Link.A()
	}
	return b.Loop.Engine()
}

// receiver is the engine frames arrive at.
func (b *Bench) receiver() *uart.Engine {
	if b.Duplex {
		return b.Link.B()
	}
	return b.Loop.Engine()
}

// frameTicks is the tick length of one frame on the wire.
func (b *Bench) frameTicks() uint64 {
	bits := uint64(1 + b.Cfg.DataBits + b.Cfg.StopBits)
	if b.Cfg.Parity != uart.ParityNone {
		bits++
	}
	return bits * uint64(b.Cfg.TicksPerBit)
}

// Send transmits one word and advances the simulation until the frame
// arrives, returning the observed event.
func (b *Bench) Send(word uint16) (mon.Event, error) {
	if err := b.sender().RequestSend(word); err != nil {
		return mon.Event{}, err
	}
	before := len(b.Events)
	window := 4*b.frameTicks() + uint64(b.Cfg.SyncGuard)
	for limit := b.Ticks() + window; b.Ticks() < limit; {
		b.Step(1)
		if len(b.Events) > before {
			return b.Events[len(b.Events)-1], nil
		}
	}
	return mon.Event{}, fmt.Errorf("no frame within %d ticks", window)
}

// Trace sends one word while recording line transitions.
func (b *Bench) Trace(word uint16) ([]sim.Transition, mon.Event, error) {
	rec := &sim.Recorder{}
	b.install(rec.Wire(b.wiring))
	defer b.install(b.wiring)
	ev, err := b.Send(word)
	return rec.Transitions(), ev, err
}

// Status is a point in time summary of the bench.
type Status struct {
	Config  string `json:"config"`
	Mode    string `json:"mode"`
	Ticks   uint64 `json:"ticks"`
	TxPhase string `json:"tx_phase"`
	TxLine  bool   `json:"tx_line"`
	RxPhase string `json:"rx_phase"`
	Events  int    `json:"events"`
}

// Status summarizes the bench.
func (b *Bench) Status() Status {
	return Status{
		Config:  b.Cfg.String(),
		Mode:    b.Mode(),
		Ticks:   b.Ticks(),
		TxPhase: b.sender().TxPhase().String(),
		TxLine:  b.sender().TX(),
		RxPhase: b.receiver().RxPhase().String(),
		Events:  len(b.Events),
	}
}

// Reset resets the engines. The event log is kept.
func (b *Bench) Reset() {
	if b.Duplex {
		b.Link.A().Reset()
		b.Link.B().Reset()
		return
	}
	b.Loop.Engine().Reset()
}
