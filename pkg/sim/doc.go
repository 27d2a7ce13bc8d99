// Package sim provides deterministic serial line simulation.
package sim

// The harnesses here step uart engines tick by tick with their lines
// wired through configurable transforms, so protocol behavior can be
// exercised and observed without hardware: a Loopback feeds an
// engine's TX back into its own RX, a Link cross-wires two engines as
// a null modem, a Recorder captures line transitions for timing
// assertions, and Wiring transforms inject line faults at chosen tick
// windows.
//
// Everything is single threaded and replayable: the same wiring and
// the same send sequence produce the same frames on every run.
