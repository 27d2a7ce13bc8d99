// Package port layers a non-blocking byte stream on a uart engine.
package port

// A Port owns one engine plus a receive and a transmit ring buffer.
// The caller pumps the clock through Tick; queued bytes transmit
// whenever the line frees up and completed frames land in the read
// buffer. Reads and writes never block, matching the engine's
// tick-driven model: waiting is the pump loop's job, not the port's.
