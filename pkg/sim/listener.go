package sim

import (
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// FrameListener listens for frames completed by a harness.
type FrameListener interface {
	FrameReceived(source string, tick uint64, frame uart.Frame)
}

// FrameListenerFunc adapts a function to FrameListener.
type FrameListenerFunc func(source string, tick uint64, frame uart.Frame)

// FrameReceived implements FrameListener.
func (f FrameListenerFunc) FrameReceived(source string, tick uint64, frame uart.Frame) {
	f(source, tick, frame)
}

// FrameSubscriber subscribes frame notifications.
type FrameSubscriber interface {
	SubscribeFrames(FrameListener)
}

// FrameCaster provides a subscriber and implements listener to cast
// notifications.
type FrameCaster struct {
	listeners []FrameListener
}

// SubscribeFrames implements FrameSubscriber.
func (c *FrameCaster) SubscribeFrames(ln FrameListener) {
	c.listeners = append(c.listeners, ln)
}

// FrameReceived implements FrameListener.
func (c *FrameCaster) FrameReceived(source string, tick uint64, frame uart.Frame) {
	for _, ln := range c.listeners {
		ln.FrameReceived(source, tick, frame)
	}
}
