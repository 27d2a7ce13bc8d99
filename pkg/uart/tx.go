package uart

// transmitter frames and serializes outgoing words onto the TX line,
// LSB first: Start(0) Data[0..DataBits) [Parity] Stop(1)xStopBits.
type transmitter struct {
	cfg Config

	phase         Phase
	bitIndex      uint8
	stopCount     uint8
	shift         uint16
	runningParity bool

	pending     uint16
	sendPending bool

	txOut bool
}

func newTransmitter(cfg Config) *transmitter {
	return &transmitter{cfg: cfg, txOut: true}
}

// active reports whether the baud generator should count.
func (t *transmitter) active() bool {
	return t.phase != PhaseIdle
}

// requestSend flags one word for transmission. Bits above DataBits are
// discarded. The word is latched into the shift register at the
// Start-phase edge, one full bit period later.
func (t *transmitter) requestSend(word uint16) error {
	if t.sendPending || t.phase != PhaseIdle {
		return ErrBusy
	}
	t.pending = word & t.cfg.dataMask()
	t.sendPending = true
	return nil
}

// tick consumes one clock tick and returns the TX level. The idle exit
// is evaluated every tick so a request never waits on a free-running
// edge; all other phase actions run on baud edges only.
func (t *transmitter) tick(edge bool) bool {
	if t.phase == PhaseIdle {
		t.txOut = true
		t.bitIndex, t.stopCount = 0, 0
		t.runningParity = false
		if t.sendPending {
			t.phase = PhaseStart
		}
		return t.txOut
	}
	if !edge {
		return t.txOut
	}
	switch t.phase {
	case PhaseStart:
		t.txOut = false
		t.shift = t.pending
		t.sendPending = false
		t.phase = PhaseData
	case PhaseData:
		bit := t.shift>>t.bitIndex&1 != 0
		t.txOut = bit
		t.runningParity = t.runningParity != bit
		t.bitIndex++
		if t.bitIndex == t.cfg.DataBits {
			if t.cfg.Parity.enabled() {
				t.phase = PhaseParity
			} else {
				t.phase = PhaseStop
			}
		}
	case PhaseParity:
		if t.cfg.Parity == ParityOdd {
			t.txOut = t.runningParity
		} else {
			t.txOut = !t.runningParity
		}
		t.phase = PhaseStop
	case PhaseStop:
		t.txOut = true
		t.stopCount++
		if t.stopCount == t.cfg.StopBits {
			t.phase = PhaseIdle
		}
	}
	return t.txOut
}

// reset forces idle immediately, abandoning any pending or latched
// word without error.
func (t *transmitter) reset() {
	t.phase = PhaseIdle
	t.txOut = true
	t.bitIndex, t.stopCount = 0, 0
	t.runningParity = false
	t.shift, t.pending = 0, 0
	t.sendPending = false
}
