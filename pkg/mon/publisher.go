package mon

import (
	"github.com/golang/glog"

	"github.com/Jean-StephaneCote/UART/pkg/sim"
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// Publisher forwards frames from a simulation onto a Queue. It plugs
// into anything accepting a sim.FrameListener.
type Publisher struct {
	Queue *Queue
	// Origin identifies this publisher in topics, usually Identity().
	Origin string
	// Config annotates events with the line discipline, optional.
	Config string
}

// NewPublisher creates a Publisher.
func NewPublisher(q *Queue, origin string) *Publisher {
	return &Publisher{Queue: q, Origin: origin}
}

// Announce publishes a retained meta message describing this origin.
func (p *Publisher) Announce(desc string) error {
	token := p.Queue.PubWith("frames/"+p.Origin+"/meta", []byte(desc), 0, true)
	token.Wait()
	return token.Error()
}

// FrameReceived implements sim.FrameListener.
func (p *Publisher) FrameReceived(source string, tick uint64, frame uart.Frame) {
	ev := &Event{
		Source: source,
		Tick:   tick,
		Data:   frame.Data,
		Err:    frame.Err,
		Config: p.Config,
	}
	payload, err := ev.Encode()
	if err != nil {
		glog.Warningf("encode event: %v", err)
		return
	}
	p.Queue.Pub("frames/"+p.Origin+"/"+source, payload)
}

var _ sim.FrameListener = (*Publisher)(nil)
