package dgram

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoReply indicates no reply was received for a request.
	// This happens when a reply arrives for a later request, and all
	// earlier requests fail with this error.
	ErrNoReply = errors.New("no reply")
)

// RequestError carries the fault code of a failed reply.
type RequestError struct {
	Code byte
}

// Error implements error.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with code %d", e.Code)
}

// EventAddr is the address of unsolicited datagrams from the peer.
const EventAddr byte = 0

// ReplyFault flags a reply whose request could not be served cleanly.
const ReplyFault byte = 0x80

// Reply is the outcome of a request.
type Reply struct {
	Err  error
	Code byte
	Data []byte
}

// Request is a pending request waiting for its reply.
type Request struct {
	addr    byte
	replyCh chan Reply
	next    *Request
}

// Addr returns the address byte correlating the reply.
func (r *Request) Addr() byte {
	return r.addr
}

// ReplyChan returns the chan delivering the reply.
func (r *Request) ReplyChan() <-chan Reply {
	return r.replyCh
}

// Requester provides request/reply and event consumption over an
// Exchange. Requests are stamped with a rolling address byte and
// replies are correlated by it. Datagrams addressed EventAddr are
// surfaced on EventChan instead.
type Requester struct {
	x        *Exchange
	eventCh  chan *Datagram
	seq      byte
	pendHead *Request
	pendTail *Request
	pendLock sync.Mutex
}

// NewRequester creates a requester and installs itself as the
// exchange handler.
func NewRequester(x *Exchange) *Requester {
	r := &Requester{x: x, eventCh: make(chan *Datagram, 1)}
	x.Handler = r
	return r
}

// Exchange gets the wrapped exchange.
func (r *Requester) Exchange() *Exchange {
	return r.x
}

// EventChan retrieves the event reporting chan.
func (r *Requester) EventChan() <-chan *Datagram {
	return r.eventCh
}

// DoWith sends a request and expects the reply in the provided chan.
func (r *Requester) DoWith(code byte, data []byte, ch chan Reply) *Request {
	req := &Request{replyCh: ch}

	r.pendLock.Lock()
	defer r.pendLock.Unlock()
	r.seq++
	if r.seq == EventAddr {
		r.seq = 1
	}
	req.addr = r.seq
	if err := r.x.Send(&Datagram{Addr: req.addr, Code: code, Data: data}); err != nil {
		req.replyCh <- Reply{Err: err}
		return req
	}
	if r.pendHead == nil {
		r.pendHead = req
	} else {
		r.pendTail.next = req
	}
	r.pendTail = req
	return req
}

// Do sends a request and returns a Request for the reply.
func (r *Requester) Do(code byte, data []byte) *Request {
	return r.DoWith(code, data, make(chan Reply, 1))
}

// HandleDatagram implements Handler. A reply resolves its request;
// earlier requests skipped over fail with ErrNoReply.
func (r *Requester) HandleDatagram(ctx context.Context, dg *Datagram) {
	if dg.Addr == EventAddr {
		r.eventCh <- dg
		return
	}
	r.pendLock.Lock()
	head := r.pendHead
	curr := r.pendHead
	for ; curr != nil; curr = curr.next {
		if curr.addr == dg.Addr {
			if r.pendHead = curr.next; r.pendHead == nil {
				r.pendTail = nil
			}
			curr.next = nil
			break
		}
	}
	r.pendLock.Unlock()
	if curr == nil {
		return
	}
	for ; head != curr; head = head.next {
		head.replyCh <- Reply{Err: ErrNoReply}
	}
	if dg.Code&ReplyFault != 0 {
		curr.replyCh <- Reply{Err: &RequestError{Code: dg.Code &^ ReplyFault}}
	} else {
		curr.replyCh <- Reply{Code: dg.Code, Data: dg.Data}
	}
}

// Run wraps Exchange.Run to implement Runnable.
func (r *Requester) Run(ctx context.Context) error {
	return r.x.Run(ctx)
}
