// Package uart implements a full-duplex, non-oversampling UART engine.
package uart

// The engine contains the protocol logic only: two tick-driven state
// machines (transmit and receive) and one baud-rate generator per
// direction, advancing in lockstep with an external discrete clock.
// Every call to Tick consumes exactly one clock tick; a baud-rate edge
// occurs every TicksPerBit ticks and each wire symbol is held for one
// full bit period.
//
// The serial line is an abstract boolean pair: TX is driven by the
// engine (high when idle), RX is supplied by the caller via SetRX
// before each Tick. Nothing here touches hardware, goroutines or the
// wall clock; given identical tick and RX sequences the engine
// produces identical output, which the simulation harnesses in
// pkg/sim rely on.
//
// Producer: a clock loop (simulated or bit-bang timer)
// Consumer: pkg/port for byte streams, pkg/sim for wiring
