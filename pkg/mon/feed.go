package mon

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Feed broadcasts events to websocket clients as JSON text messages.
// It implements EventHandler so it can sit behind a Watcher.
type Feed struct {
	lock    sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewFeed creates a Feed.
func NewFeed() *Feed {
	return &Feed{clients: make(map[*websocket.Conn]struct{})}
}

// Handler returns the http.Handler accepting websocket clients.
func (f *Feed) Handler() http.Handler {
	return websocket.Handler(f.serve)
}

// Clients reports the number of connected clients.
func (f *Feed) Clients() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.clients)
}

// HandleEvent implements EventHandler.
func (f *Feed) HandleEvent(topic string, ev *Event) {
	payload, err := ev.Encode()
	if err != nil {
		glog.Warningf("encode event: %v", err)
		return
	}
	f.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for conn := range f.clients {
		conns = append(conns, conn)
	}
	f.lock.Unlock()
	for _, conn := range conns {
		if err := websocket.Message.Send(conn, string(payload)); err != nil {
			glog.V(2).Infof("feed client dropped: %v", err)
			f.drop(conn)
		}
	}
}

// serve holds the connection open until the client goes away. Input
// from clients is discarded.
func (f *Feed) serve(conn *websocket.Conn) {
	f.lock.Lock()
	f.clients[conn] = struct{}{}
	count := len(f.clients)
	f.lock.Unlock()
	glog.V(1).Infof("feed client connected (%d)", count)
	var discard string
	for websocket.Message.Receive(conn, &discard) == nil {
	}
	f.drop(conn)
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.lock.Lock()
	delete(f.clients, conn)
	f.lock.Unlock()
	conn.Close()
}

var _ EventHandler = (*Feed)(nil)
