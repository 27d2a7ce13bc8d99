// Package mon publishes frames observed in a simulation onto an MQTT
// broker and consumes them elsewhere, so long running experiments can
// be watched from other processes or from a browser.
//
// Every frame becomes an Event, serialized as JSON, published under
// frames/<origin>/<source>. The origin identifies the publishing host,
// the source names the wire end inside the simulation.
package mon
