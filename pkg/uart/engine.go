package uart

import "fmt"

// Phase identifies the framing symbol a direction is currently
// handling.
type Phase uint8

const (
	// PhaseIdle means the line is at rest between frames.
	PhaseIdle Phase = iota
	// PhaseStart is the leading low symbol of a frame.
	PhaseStart
	// PhaseData covers the data word symbols.
	PhaseData
	// PhaseParity is the optional parity symbol.
	PhaseParity
	// PhaseStop covers the trailing high symbols.
	PhaseStop
)

// String names the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStart:
		return "start"
	case PhaseData:
		return "data"
	case PhaseParity:
		return "parity"
	case PhaseStop:
		return "stop"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// TickResult reports the observable outputs of one clock tick.
type TickResult struct {
	// TX is the transmit line level after this tick.
	TX bool
	// Frame is non-nil only on the tick the receiver completes a frame
	// and re-enters Idle.
	Frame *Frame
}

// Engine is the composition root: both state machines plus one baud
// generator per direction, advanced in lockstep by Tick. The two
// directions share no state besides the configuration; full duplex
// comes for free.
type Engine struct {
	cfg Config

	txGen tickGen
	rxGen tickGen
	tx    *transmitter
	rx    *receiver

	rxIn      bool
	lastFrame Frame
	hasFrame  bool
}

// New creates an engine in the idle state on both directions.
// Out-of-range configuration fails with a *ConfigError.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:  cfg,
		tx:   newTransmitter(cfg),
		rx:   newReceiver(cfg),
		rxIn: true,
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetRX supplies the RX line sample for subsequent ticks. The level
// holds until changed; the engine never writes it.
func (e *Engine) SetRX(level bool) {
	e.rxIn = level
}

// TX returns the current TX line level.
func (e *Engine) TX() bool {
	return e.tx.txOut
}

// TxPhase returns the transmit framing phase.
func (e *Engine) TxPhase() Phase {
	return e.tx.phase
}

// RxPhase returns the receive framing phase.
func (e *Engine) RxPhase() Phase {
	return e.rx.phase
}

// RequestSend schedules one word for transmission. It fails with
// ErrBusy while a previous send is pending or on the wire; nothing is
// queued. Bits above DataBits are discarded.
func (e *Engine) RequestSend(word uint16) error {
	return e.tx.requestSend(word)
}

// Tick advances both directions by one clock tick, transmit first.
// Each direction is a pure function of its state and this tick's
// inputs; identical tick and RX sequences produce identical results.
func (e *Engine) Tick() TickResult {
	txEdge := e.txGen.advance(e.cfg.TicksPerBit, e.tx.active())
	txOut := e.tx.tick(txEdge)

	rxEdge := e.rxGen.advance(e.rx.div(), e.rx.active(e.rxIn))
	frame := e.rx.tick(rxEdge, e.rxIn)
	if frame != nil {
		e.lastFrame, e.hasFrame = *frame, true
	}
	return TickResult{TX: txOut, Frame: frame}
}

// LastReceived returns the most recently completed frame. The second
// result is false until a frame completes; the value holds until the
// next frame overwrites it or Reset clears it.
func (e *Engine) LastReceived() (Frame, bool) {
	return e.lastFrame, e.hasFrame
}

// Reset forces both directions to Idle with TX high and every counter
// cleared. It takes effect within the same tick it is applied, ahead
// of any baud-edge transition. A send in flight is silently abandoned
// and the aborted frame is never published.
func (e *Engine) Reset() {
	e.tx.reset()
	e.rx.reset()
	e.txGen.reset()
	e.rxGen.reset()
	e.lastFrame, e.hasFrame = Frame{}, false
}
