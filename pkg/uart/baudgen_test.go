package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickGenCadence(t *testing.T) {
	var g tickGen
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 9; i++ {
			require.Falsef(t, g.advance(10, true), "cycle %d tick %d", cycle, i)
		}
		require.Truef(t, g.advance(10, true), "cycle %d edge", cycle)
	}
}

func TestTickGenInactiveHolds(t *testing.T) {
	var g tickGen
	for i := 0; i < 5; i++ {
		g.advance(10, true)
	}
	require.False(t, g.advance(10, false))
	// counting restarts from zero after the inactive tick
	for i := 0; i < 9; i++ {
		require.Falsef(t, g.advance(10, true), "tick %d", i)
	}
	require.True(t, g.advance(10, true))
}

func TestTickGenUnitDivisor(t *testing.T) {
	var g tickGen
	for i := 0; i < 4; i++ {
		require.True(t, g.advance(1, true))
	}
}

func TestTickGenDivisorSwitch(t *testing.T) {
	// half-period first edge, full period afterwards
	var g tickGen
	for i := 0; i < 4; i++ {
		require.False(t, g.advance(5, true))
	}
	require.True(t, g.advance(5, true))
	for i := 0; i < 9; i++ {
		require.False(t, g.advance(10, true))
	}
	require.True(t, g.advance(10, true))
}
