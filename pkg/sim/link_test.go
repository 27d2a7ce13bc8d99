package sim

import (
	"testing"

	"github.com/Jean-StephaneCote/UART/pkg/uart"
	"github.com/stretchr/testify/require"
)

func linkConfig() uart.Config {
	return uart.Config{DataBits: 8, Parity: uart.ParityOdd, StopBits: 1, TicksPerBit: 64}
}

func TestLinkFullDuplex(t *testing.T) {
	l, err := NewLink(linkConfig(), linkConfig())
	require.NoError(t, err)

	// both directions carry a different byte over the same ticks
	require.NoError(t, l.A().RequestSend(0x3C))
	require.NoError(t, l.B().RequestSend(0xC3))
	l.Run(4000)

	require.Equal(t, []uart.Frame{{Data: 0xC3}}, l.FramesA())
	require.Equal(t, []uart.Frame{{Data: 0x3C}}, l.FramesB())
}

func TestLinkSources(t *testing.T) {
	l, err := NewLink(linkConfig(), linkConfig())
	require.NoError(t, err)

	received := map[string][]uint16{}
	l.SubscribeFrames(FrameListenerFunc(func(source string, _ uint64, frame uart.Frame) {
		received[source] = append(received[source], frame.Data)
	}))

	require.NoError(t, l.A().RequestSend(0x10))
	require.NoError(t, l.B().RequestSend(0x20))
	l.Run(4000)

	require.Equal(t, map[string][]uint16{
		LinkSourceA: {0x20},
		LinkSourceB: {0x10},
	}, received)
}

func TestLinkFaultIsolation(t *testing.T) {
	l, err := NewLink(linkConfig(), linkConfig())
	require.NoError(t, err)

	// corrupt only the A-to-B direction across a whole frame
	l.SetWiring(Invert(Direct(), 1, 4000), Direct())
	require.NoError(t, l.A().RequestSend(0x77))
	require.NoError(t, l.B().RequestSend(0x88))
	l.Run(4000)

	require.Equal(t, []uart.Frame{{Data: 0x88}}, l.FramesA())
	for i, f := range l.FramesB() {
		require.Truef(t, f.Err, "frame %d clean through inverted wire", i)
	}
}

func TestLinkSequence(t *testing.T) {
	l, err := NewLink(linkConfig(), linkConfig())
	require.NoError(t, err)

	words := []uint16{0x01, 0x80, 0x55, 0xAA, 0xFF}
	sent := 0
	for tick := 0; tick < 20000 && len(l.FramesB()) < len(words); tick++ {
		if sent < len(words) {
			if err := l.A().RequestSend(words[sent]); err == nil {
				sent++
			}
		}
		l.Step()
	}

	require.Len(t, l.FramesB(), len(words))
	for i, f := range l.FramesB() {
		require.Equalf(t, words[i], f.Data, "frame %d", i)
		require.Falsef(t, f.Err, "frame %d", i)
	}
}
