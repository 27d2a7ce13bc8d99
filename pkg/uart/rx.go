package uart

// Frame is one completed receive frame.
type Frame struct {
	// Data is the received word, DataBits wide, LSB first off the wire.
	Data uint16
	// Err reports a parity or framing fault anywhere in the frame. The
	// two causes are collapsed; neither aborts reception.
	Err bool
}

// receiver detects start conditions, resynchronizes to bit centers and
// deserializes the RX line.
//
// Reception has no external enable, so synchronization runs in two
// stages: the sync guard must see RX stay low for SyncGuard
// consecutive ticks before Idle commits to Start, and the baud
// generator counts from the first low tick at half the bit period so
// the Start validation lands at the center of the start bit. All
// later samples follow at full-period spacing from that point.
type receiver struct {
	cfg Config

	phase         Phase
	bitIndex      uint8
	stopCount     uint8
	received      uint16
	runningParity bool
	errLatch      bool

	guard       uint32
	halfPending bool
}

func newReceiver(cfg Config) *receiver {
	return &receiver{cfg: cfg, halfPending: true}
}

// active reports whether the baud generator should count: always
// outside Idle, and during a candidate start condition inside it.
func (r *receiver) active(rxIn bool) bool {
	return r.phase != PhaseIdle || !rxIn
}

// div is the generator divisor for the current tick. The half period
// applies from the first low tick until the edge it produces has been
// consumed.
func (r *receiver) div() uint32 {
	if r.halfPending {
		return r.cfg.halfPeriod()
	}
	return r.cfg.TicksPerBit
}

// tick consumes one clock tick. It returns a Frame only on the tick
// the machine re-enters Idle, nil otherwise.
func (r *receiver) tick(edge, rxIn bool) *Frame {
	if r.phase == PhaseIdle {
		r.bitIndex, r.stopCount = 0, 0
		r.received = 0
		r.runningParity = false
		r.errLatch = false
		if rxIn {
			r.guard = 0
			r.halfPending = true
			return nil
		}
		r.guard++
		if r.guard >= r.cfg.SyncGuard {
			r.guard = 0
			r.phase = PhaseStart
		}
		return nil
	}
	if !edge {
		return nil
	}
	switch r.phase {
	case PhaseStart:
		r.halfPending = false
		if rxIn {
			// Line released before the start-bit center. The frame
			// continues; the fault surfaces in the published Err.
			r.errLatch = true
		}
		r.phase = PhaseData
	case PhaseData:
		if rxIn {
			r.received |= 1 << r.bitIndex
		}
		r.runningParity = r.runningParity != rxIn
		r.bitIndex++
		if r.bitIndex == r.cfg.DataBits {
			if r.cfg.Parity.enabled() {
				r.phase = PhaseParity
			} else {
				r.phase = PhaseStop
			}
		}
	case PhaseParity:
		mismatch := rxIn != r.runningParity
		if r.cfg.Parity == ParityEven {
			mismatch = !mismatch
		}
		if mismatch {
			r.errLatch = true
		}
		r.phase = PhaseStop
	case PhaseStop:
		if !rxIn {
			r.errLatch = true
		}
		r.stopCount++
		if r.stopCount == r.cfg.StopBits {
			f := &Frame{Data: r.received, Err: r.errLatch}
			r.phase = PhaseIdle
			r.halfPending = true
			return f
		}
	}
	return nil
}

// reset forces idle immediately, discarding any frame in flight.
func (r *receiver) reset() {
	r.phase = PhaseIdle
	r.bitIndex, r.stopCount = 0, 0
	r.received = 0
	r.runningParity = false
	r.errLatch = false
	r.guard = 0
	r.halfPending = true
}
