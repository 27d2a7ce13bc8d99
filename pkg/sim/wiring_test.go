package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWiringTransforms(t *testing.T) {
	testCases := []struct {
		name   string
		wiring Wiring
		tick   uint64
		driven bool
		level  bool
	}{
		{name: "direct high", wiring: Direct(), tick: 5, driven: true, level: true},
		{name: "direct low", wiring: Direct(), tick: 5, driven: false, level: false},
		{name: "force low inside", wiring: ForceLow(Direct(), 10, 20), tick: 10, driven: true, level: false},
		{name: "force low before", wiring: ForceLow(Direct(), 10, 20), tick: 9, driven: true, level: true},
		{name: "force low after", wiring: ForceLow(Direct(), 10, 20), tick: 20, driven: true, level: true},
		{name: "stuck high inside", wiring: StuckHigh(Direct(), 10, 20), tick: 15, driven: false, level: true},
		{name: "stuck high outside", wiring: StuckHigh(Direct(), 10, 20), tick: 25, driven: false, level: false},
		{name: "invert inside", wiring: Invert(Direct(), 10, 20), tick: 12, driven: true, level: false},
		{name: "invert outside", wiring: Invert(Direct(), 10, 20), tick: 22, driven: true, level: true},
		{name: "invert over force low", wiring: Invert(ForceLow(Direct(), 10, 20), 10, 20), tick: 15, driven: false, level: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.level, tc.wiring.Level(tc.tick, tc.driven))
		})
	}
}

func TestRecorderTransitions(t *testing.T) {
	var r Recorder
	r.Sample(1, true)
	r.Sample(2, true)
	r.Sample(3, false)
	r.Sample(4, false)
	r.Sample(9, true)

	require.Equal(t, []Transition{
		{Tick: 1, Level: true},
		{Tick: 3, Level: false},
		{Tick: 9, Level: true},
	}, r.Transitions())
	require.Equal(t, []uint64{2, 6}, r.Widths())
}

func TestRecorderEmpty(t *testing.T) {
	var r Recorder
	require.Empty(t, r.Transitions())
	require.Nil(t, r.Widths())
}
