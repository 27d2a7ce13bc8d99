package dgram

import (
	"context"
	"io"
	"sync"
)

// Handler is called when a datagram is received.
type Handler interface {
	HandleDatagram(context.Context, *Datagram)
}

// HandlerFunc is func type of Handler.
type HandlerFunc func(context.Context, *Datagram)

// HandleDatagram implements Handler.
func (f HandlerFunc) HandleDatagram(ctx context.Context, dg *Datagram) {
	f(ctx, dg)
}

// ErrorHandler is called when the decoder rejects input.
type ErrorHandler interface {
	HandleDecodeError(context.Context, error)
}

// ErrorHandlerFunc is func type of ErrorHandler.
type ErrorHandlerFunc func(context.Context, error)

// HandleDecodeError implements ErrorHandler.
func (f ErrorHandlerFunc) HandleDecodeError(ctx context.Context, err error) {
	f(ctx, err)
}

// Exchange sends and receives datagrams over a byte stream, such as a
// host serial device or a pumped Port.
type Exchange struct {
	ReadWriter io.ReadWriter
	Handler    Handler
	Errors     ErrorHandler

	lock    sync.Mutex
	decoder Decoder
}

// NewExchange creates an Exchange over rw.
func NewExchange(rw io.ReadWriter) *Exchange {
	return &Exchange{ReadWriter: rw}
}

// Send encodes and writes one datagram. Concurrent senders are
// serialized so datagrams never interleave on the wire.
func (x *Exchange) Send(dg *Datagram) error {
	x.lock.Lock()
	defer x.lock.Unlock()
	_, err := dg.WriteTo(x.ReadWriter)
	return err
}

// Run reads the stream byte-wise until ctx ends or the stream fails,
// dispatching datagrams to Handler and violations to Errors.
func (x *Exchange) Run(ctx context.Context) error {
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := x.ReadWriter.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		x.apply(ctx, x.decoder.Feed(buf[0]))
	}
}

func (x *Exchange) apply(ctx context.Context, res Result) {
	if res.Err != nil {
		if h := x.Errors; h != nil {
			h.HandleDecodeError(ctx, res.Err)
		}
	}
	if res.Datagram != nil {
		if h := x.Handler; h != nil {
			h.HandleDatagram(ctx, res.Datagram)
		}
	}
}
