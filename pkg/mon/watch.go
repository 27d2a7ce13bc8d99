package mon

import (
	"strings"

	"github.com/golang/glog"
)

// EventHandler consumes decoded events.
type EventHandler interface {
	HandleEvent(topic string, ev *Event)
}

// EventHandlerFunc is func type of EventHandler.
type EventHandlerFunc func(topic string, ev *Event)

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(topic string, ev *Event) {
	f(topic, ev)
}

// Watcher subscribes to all frame events under a Queue prefix.
type Watcher struct {
	Queue   *Queue
	Handler EventHandler
	// Meta is called for retained meta messages, optional.
	Meta func(topic string, payload []byte)

	sub *Subscription
}

// Watch subscribes q to all frame topics and dispatches to handler.
func Watch(q *Queue, handler EventHandler) *Watcher {
	w := &Watcher{Queue: q, Handler: handler}
	w.sub = q.Sub("frames/#", w.dispatch)
	return w
}

// Close ends the subscription.
func (w *Watcher) Close() error {
	return w.sub.Close()
}

func (w *Watcher) dispatch(topic string, payload []byte) {
	if strings.HasSuffix(topic, "/meta") {
		if w.Meta != nil {
			w.Meta(topic, payload)
		}
		return
	}
	ev, err := DecodeEvent(payload)
	if err != nil {
		glog.Warningf("%s: bad event: %v", topic, err)
		return
	}
	w.Handler.HandleEvent(topic, ev)
}
