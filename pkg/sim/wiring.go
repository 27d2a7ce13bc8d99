package sim

// Wiring transforms the level a transmitter drives into the level the
// receiver samples on a given tick.
type Wiring interface {
	Level(tick uint64, driven bool) bool
}

// WiringFunc adapts a function to Wiring.
type WiringFunc func(tick uint64, driven bool) bool

// Level implements Wiring.
func (f WiringFunc) Level(tick uint64, driven bool) bool {
	return f(tick, driven)
}

// Direct passes the driven level through unchanged.
func Direct() Wiring {
	return WiringFunc(func(_ uint64, driven bool) bool {
		return driven
	})
}

// ForceLow pins the line low for ticks in [from, to), passing next
// through elsewhere. A short window models a glitch, a long one a
// break condition.
func ForceLow(next Wiring, from, to uint64) Wiring {
	return WiringFunc(func(tick uint64, driven bool) bool {
		level := next.Level(tick, driven)
		if tick >= from && tick < to {
			return false
		}
		return level
	})
}

// StuckHigh pins the line high for ticks in [from, to), hiding
// whatever the transmitter drives.
func StuckHigh(next Wiring, from, to uint64) Wiring {
	return WiringFunc(func(tick uint64, driven bool) bool {
		level := next.Level(tick, driven)
		if tick >= from && tick < to {
			return true
		}
		return level
	})
}

// Invert flips the line for ticks in [from, to). Covering a single
// symbol window corrupts exactly that symbol.
func Invert(next Wiring, from, to uint64) Wiring {
	return WiringFunc(func(tick uint64, driven bool) bool {
		level := next.Level(tick, driven)
		if tick >= from && tick < to {
			return !level
		}
		return level
	})
}
