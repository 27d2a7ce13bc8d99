package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// loopTick advances the engine one tick with RX wired back to TX.
func loopTick(e *Engine) TickResult {
	e.SetRX(e.TX())
	return e.Tick()
}

// loopUntilFrame runs the loopback until the receiver completes a
// frame, failing the test after limit ticks.
func loopUntilFrame(t *testing.T, e *Engine, limit int) Frame {
	t.Helper()
	for i := 0; i < limit; i++ {
		if tr := loopTick(e); tr.Frame != nil {
			return *tr.Frame
		}
	}
	require.FailNow(t, "no frame completed", "after %d ticks", limit)
	return Frame{}
}

// frameTicks is the tick count of one whole frame on the wire.
func frameTicks(cfg Config) int {
	bits := 1 + int(cfg.DataBits) + int(cfg.StopBits)
	if cfg.Parity.enabled() {
		bits++
	}
	return bits * int(cfg.TicksPerBit)
}

func TestEngineLoopback8N1(t *testing.T) {
	e, err := New(Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100})
	require.NoError(t, err)
	require.NoError(t, e.RequestSend(0x55))

	f := loopUntilFrame(t, e, 2*frameTicks(e.Config()))
	require.Equal(t, uint16(0x55), f.Data)
	require.False(t, f.Err)

	last, ok := e.LastReceived()
	require.True(t, ok)
	require.Equal(t, f, last)
}

func TestEngineIdleIdempotent(t *testing.T) {
	e, err := New(Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100})
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		tr := e.Tick()
		require.Truef(t, tr.TX, "tick %d", i)
		require.Nil(t, tr.Frame)
	}
	require.Equal(t, PhaseIdle, e.TxPhase())
	require.Equal(t, PhaseIdle, e.RxPhase())
	_, ok := e.LastReceived()
	require.False(t, ok)
}

func TestEngineRequestSendBusy(t *testing.T) {
	e, err := New(Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100})
	require.NoError(t, err)
	require.NoError(t, e.RequestSend(0x41))
	require.Equal(t, ErrBusy, e.RequestSend(0x42))

	// still busy halfway through the frame
	for i := 0; i < 500; i++ {
		loopTick(e)
	}
	require.Equal(t, ErrBusy, e.RequestSend(0x42))

	loopUntilFrame(t, e, 2*frameTicks(e.Config()))
	require.NoError(t, e.RequestSend(0x42))
	f := loopUntilFrame(t, e, 2*frameTicks(e.Config()))
	require.Equal(t, uint16(0x42), f.Data)
}

// TestEngineWireFraming pins the exact bit pattern and symbol widths
// on the TX line: Start(0), data LSB first, parity, Stop(1) per stop
// bit, each held for exactly TicksPerBit ticks.
func TestEngineWireFraming(t *testing.T) {
	cfg := Config{DataBits: 8, Parity: ParityOdd, StopBits: 2, TicksPerBit: 100}
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.RequestSend(0x5A))

	trace := make([]bool, 0, 1400)
	for i := 0; i < 1400; i++ {
		trace = append(trace, e.Tick().TX)
	}

	// start, then 0x5A LSB first, then parity, then two stop bits.
	// 0x5A carries four ones, so the odd-parity accumulator ends low.
	symbols := []bool{
		false,
		false, true, false, true, true, false, true, false,
		false,
		true, true,
	}
	tpb := int(cfg.TicksPerBit)
	// one tick to pick the request up, one full bit period to the
	// start edge
	lead := tpb
	for i := 0; i < lead; i++ {
		require.Truef(t, trace[i], "lead-in tick %d", i)
	}
	for k, level := range symbols {
		for i := 0; i < tpb; i++ {
			require.Equalf(t, level, trace[lead+k*tpb+i], "symbol %d tick %d", k, i)
		}
	}
	for i := lead + len(symbols)*tpb; i < len(trace); i++ {
		require.Truef(t, trace[i], "idle tick %d", i)
	}
}

// TestEngineParityFault inverts the line for the parity symbol window
// only. The frame must complete with Err set and the data intact.
func TestEngineParityFault(t *testing.T) {
	for _, parity := range []Parity{ParityOdd, ParityEven} {
		t.Run(parity.String(), func(t *testing.T) {
			cfg := Config{DataBits: 8, Parity: parity, StopBits: 1, TicksPerBit: 100}
			e, err := New(cfg)
			require.NoError(t, err)
			require.NoError(t, e.RequestSend(0x55))

			var frame *Frame
			for i := 1; i <= 2*frameTicks(cfg) && frame == nil; i++ {
				level := e.TX()
				if i >= 1000 && i < 1100 { // parity symbol on the wire
					level = !level
				}
				e.SetRX(level)
				if tr := e.Tick(); tr.Frame != nil {
					frame = tr.Frame
				}
			}
			require.NotNil(t, frame)
			require.True(t, frame.Err)
			require.Equal(t, uint16(0x55), frame.Data)
		})
	}
}

// TestEngineFramingFault holds the line low through the stop symbol.
func TestEngineFramingFault(t *testing.T) {
	cfg := Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100}
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.RequestSend(0xFF))

	var frame *Frame
	for i := 1; i <= 2*frameTicks(cfg) && frame == nil; i++ {
		level := e.TX()
		if i >= 1000 && i < 1100 { // stop symbol on the wire
			level = false
		}
		e.SetRX(level)
		if tr := e.Tick(); tr.Frame != nil {
			frame = tr.Frame
		}
	}
	require.NotNil(t, frame)
	require.True(t, frame.Err)
	require.Equal(t, uint16(0xFF), frame.Data)
}

// TestEngineGlitchRejected holds RX low for less than the sync guard.
// The receiver must never leave Idle.
func TestEngineGlitchRejected(t *testing.T) {
	e, err := New(Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100})
	require.NoError(t, err)

	e.SetRX(false)
	for i := 0; i < 2; i++ {
		tr := e.Tick()
		require.Nil(t, tr.Frame)
		require.Equal(t, PhaseIdle, e.RxPhase())
	}
	e.SetRX(true)
	for i := 0; i < 5000; i++ {
		tr := e.Tick()
		require.Nil(t, tr.Frame)
		require.Equal(t, PhaseIdle, e.RxPhase())
	}
}

// TestEngineResetMidFrame asserts reset 40% through a frame. The
// transmitter must idle high on the next tick and the aborted byte
// must never surface as a completed frame.
func TestEngineResetMidFrame(t *testing.T) {
	cfg := Config{DataBits: 8, Parity: ParityNone, StopBits: 1, TicksPerBit: 100}
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.RequestSend(0xA7))

	for i := 0; i < 4*frameTicks(cfg)/10; i++ {
		loopTick(e)
	}
	require.Equal(t, PhaseData, e.TxPhase())

	e.Reset()
	require.Equal(t, PhaseIdle, e.TxPhase())
	require.Equal(t, PhaseIdle, e.RxPhase())

	tr := loopTick(e)
	require.True(t, tr.TX)
	require.Nil(t, tr.Frame)
	for i := 0; i < 4*frameTicks(cfg); i++ {
		tr = loopTick(e)
		require.Nil(t, tr.Frame)
	}
	_, ok := e.LastReceived()
	require.False(t, ok)

	// the engine stays usable after a reset
	require.NoError(t, e.RequestSend(0x3C))
	f := loopUntilFrame(t, e, 2*frameTicks(cfg))
	require.Equal(t, uint16(0x3C), f.Data)
	require.False(t, f.Err)
}

// TestEngineRoundTrip drives every representable word through a
// loopback for every width, parity and stop-bit combination.
func TestEngineRoundTrip(t *testing.T) {
	for _, parity := range []Parity{ParityNone, ParityOdd, ParityEven} {
		for _, stopBits := range []uint8{1, 2} {
			for dataBits := uint8(MinDataBits); dataBits <= MaxDataBits; dataBits++ {
				cfg := Config{
					DataBits:    dataBits,
					Parity:      parity,
					StopBits:    stopBits,
					TicksPerBit: 16,
					SyncGuard:   4,
				}
				t.Run(cfg.String(), func(t *testing.T) {
					e, err := New(cfg)
					require.NoError(t, err)
					limit := 3 * frameTicks(cfg)
					for word := uint16(0); word < 1<<dataBits; word++ {
						require.NoError(t, e.RequestSend(word))
						f := loopUntilFrame(t, e, limit)
						require.Equalf(t, word, f.Data, "word %#x", word)
						require.Falsef(t, f.Err, "word %#x error flagged", word)
					}
				})
			}
		}
	}
}

// TestEngineBackToBack checks the receiver re-arms its start-bit
// centering between consecutive frames.
func TestEngineBackToBack(t *testing.T) {
	cfg := Config{DataBits: 8, Parity: ParityEven, StopBits: 1, TicksPerBit: 100}
	e, err := New(cfg)
	require.NoError(t, err)

	words := []uint16{0x00, 0xFF, 0x81, 0x7E, 0x55, 0xAA}
	for _, w := range words {
		require.NoError(t, e.RequestSend(w))
		f := loopUntilFrame(t, e, 2*frameTicks(cfg))
		require.Equalf(t, w, f.Data, "word %#x", w)
		require.False(t, f.Err)
	}
}

// TestEngineNineBitWords exercises the widest configuration with
// values beyond one byte.
func TestEngineNineBitWords(t *testing.T) {
	cfg := Config{DataBits: 9, Parity: ParityOdd, StopBits: 2, TicksPerBit: 64}
	e, err := New(cfg)
	require.NoError(t, err)

	for _, w := range []uint16{0x100, 0x1AB, 0x0FF, 0x155} {
		require.NoError(t, e.RequestSend(w))
		f := loopUntilFrame(t, e, 2*frameTicks(cfg))
		require.Equalf(t, w, f.Data, "word %#x", w)
		require.False(t, f.Err)
	}

	// bits above DataBits are discarded at the latch
	require.NoError(t, e.RequestSend(0xFFFF))
	f := loopUntilFrame(t, e, 2*frameTicks(cfg))
	require.Equal(t, uint16(0x1FF), f.Data)
}
