package port

import (
	"errors"

	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

var (
	// ErrBufferEmpty indicates no byte is available to read.
	ErrBufferEmpty = errors.New("receive buffer empty")
	// ErrBufferFull indicates the transmit buffer rejected a byte.
	ErrBufferFull = errors.New("transmit buffer full")
)

// Port is a byte stream over one uart engine.
type Port struct {
	eng *uart.Engine
	rx  *Ring
	tx  *Ring

	drops    uint64
	rxErrors uint64
}

// NewPort wraps a fresh engine. A byte transport carries at most 8
// data bits, so wider configurations are rejected with a
// *uart.ConfigError.
func NewPort(cfg uart.Config) (*Port, error) {
	if cfg.DataBits > 8 {
		return nil, &uart.ConfigError{Field: "DataBits", Reason: "byte transport carries at most 8"}
	}
	eng, err := uart.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Port{
		eng: eng,
		rx:  NewRing(DefaultRingSize),
		tx:  NewRing(DefaultRingSize),
	}, nil
}

// Engine exposes the underlying engine.
func (p *Port) Engine() *uart.Engine {
	return p.eng
}

// Tick pumps one clock tick: the RX line sample goes in, the TX level
// comes out. A queued byte starts transmitting whenever the engine
// accepts it.
func (p *Port) Tick(rx bool) bool {
	p.eng.SetRX(rx)
	tr := p.eng.Tick()
	if tr.Frame != nil {
		p.accept(*tr.Frame)
	}
	if b, ok := p.tx.Peek(); ok {
		if p.eng.RequestSend(uint16(b)) == nil {
			p.tx.Get()
		}
	}
	return tr.TX
}

// accept delivers one completed frame into the read buffer. Frames
// with the error flag set are counted and discarded; on overflow the
// oldest byte is dropped so recent traffic survives.
func (p *Port) accept(f uart.Frame) {
	if f.Err {
		p.rxErrors++
		return
	}
	if !p.rx.Put(byte(f.Data)) {
		p.rx.Get()
		p.rx.Put(byte(f.Data))
		p.drops++
	}
}

// Write queues bytes for transmission without blocking. When the
// transmit buffer fills it returns the count queued and
// ErrBufferFull.
func (p *Port) Write(b []byte) (int, error) {
	for i, c := range b {
		if !p.tx.Put(c) {
			return i, ErrBufferFull
		}
	}
	return len(b), nil
}

// TryWrite queues one byte, reporting false when the transmit buffer
// is full.
func (p *Port) TryWrite(b byte) bool {
	return p.tx.Put(b)
}

// Read drains buffered bytes into b without blocking. It returns
// (0, nil) when nothing is buffered.
func (p *Port) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		c, ok := p.rx.Get()
		if !ok {
			break
		}
		b[n] = c
		n++
	}
	return n, nil
}

// ReadByte returns the oldest buffered byte, or ErrBufferEmpty.
func (p *Port) ReadByte() (byte, error) {
	b, ok := p.rx.Get()
	if !ok {
		return 0, ErrBufferEmpty
	}
	return b, nil
}

// Buffered returns the number of received bytes waiting to be read.
func (p *Port) Buffered() int {
	return p.rx.Used()
}

// TxPending returns the number of bytes still queued for
// transmission, not counting one the engine may have in flight.
func (p *Port) TxPending() int {
	return p.tx.Used()
}

// Drops returns how many received bytes were discarded to overflow.
func (p *Port) Drops() uint64 {
	return p.drops
}

// RxErrors returns how many frames arrived with the error flag set.
func (p *Port) RxErrors() uint64 {
	return p.rxErrors
}

// Reset clears both buffers and forces the engine back to idle.
func (p *Port) Reset() {
	p.rx.Clear()
	p.tx.Clear()
	p.eng.Reset()
}
