package sim

// Transition is one recorded line level change.
type Transition struct {
	Tick  uint64
	Level bool
}

// Recorder captures line transitions so tests can assert symbol
// placement and width in ticks.
type Recorder struct {
	transitions []Transition
	last        bool
	primed      bool
}

// Sample records the line level at a tick. Only changes are kept; the
// very first sample is always recorded.
func (r *Recorder) Sample(tick uint64, level bool) {
	if r.primed && level == r.last {
		return
	}
	r.transitions = append(r.transitions, Transition{Tick: tick, Level: level})
	r.last, r.primed = level, true
}

// Wire records every level leaving next, then passes it through. Put
// the recorder innermost to capture the raw driven line, outermost to
// capture what the receiver samples.
func (r *Recorder) Wire(next Wiring) Wiring {
	return WiringFunc(func(tick uint64, driven bool) bool {
		level := next.Level(tick, driven)
		r.Sample(tick, level)
		return level
	})
}

// Transitions returns the recorded level changes in tick order.
func (r *Recorder) Transitions() []Transition {
	return r.transitions
}

// Widths returns the tick distances between consecutive transitions,
// one entry fewer than Transitions.
func (r *Recorder) Widths() []uint64 {
	if len(r.transitions) < 2 {
		return nil
	}
	w := make([]uint64, len(r.transitions)-1)
	for i := 1; i < len(r.transitions); i++ {
		w[i-1] = r.transitions[i].Tick - r.transitions[i-1].Tick
	}
	return w
}
