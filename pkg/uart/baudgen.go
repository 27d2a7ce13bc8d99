package uart

// tickGen divides the engine clock into baud-rate edges. The counter
// holds at zero while inactive, so the first edge after activation
// arrives exactly div ticks later.
type tickGen struct {
	counter uint32
}

// advance consumes one clock tick and reports whether it is a baud
// edge for the given divisor. The divisor is explicit because the
// receiver shortens it to half a period for its first edge.
func (g *tickGen) advance(div uint32, active bool) bool {
	if !active {
		g.counter = 0
		return false
	}
	if g.counter >= div-1 {
		g.counter = 0
		return true
	}
	g.counter++
	return false
}

func (g *tickGen) reset() {
	g.counter = 0
}
