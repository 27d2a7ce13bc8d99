package dgram

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptStream plays a canned byte sequence on Read and captures Write.
type scriptStream struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func (s *scriptStream) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *scriptStream) Write(p []byte) (int, error) { return s.out.Write(p) }

func TestExchangeRun(t *testing.T) {
	var script []byte
	script = append(script, 0x00, 0xFF)
	script = append(script, corrupt(encode(0x01, 0x01, 1))...)
	script = append(script, encode(0x02, 0x02, 2, 3)...)
	script = append(script, encode(0x03, 0x03)...)

	stream := &scriptStream{in: bytes.NewReader(script)}
	x := NewExchange(stream)
	var received []*Datagram
	var failures []error
	x.Handler = HandlerFunc(func(_ context.Context, dg *Datagram) {
		received = append(received, dg)
	})
	x.Errors = ErrorHandlerFunc(func(_ context.Context, err error) {
		failures = append(failures, err)
	})

	err := x.Run(context.Background())
	require.Equal(t, io.EOF, err)

	require.Len(t, received, 2)
	require.Equal(t, &Datagram{Addr: 0x02, Code: 0x02, Data: []byte{2, 3}}, received[0])
	require.Equal(t, &Datagram{Addr: 0x03, Code: 0x03}, received[1])
	require.Equal(t, []error{ErrChecksum}, failures)
}

func TestExchangeRunNilHandlers(t *testing.T) {
	var script []byte
	script = append(script, corrupt(encode(0x01, 0x01, 1))...)
	script = append(script, encode(0x02, 0x02)...)
	x := NewExchange(&scriptStream{in: bytes.NewReader(script)})
	require.Equal(t, io.EOF, x.Run(context.Background()))
}

func TestExchangeRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := NewExchange(&scriptStream{in: bytes.NewReader(encode(0x01, 0x01))})
	require.Equal(t, context.Canceled, x.Run(ctx))
}

func TestExchangeSend(t *testing.T) {
	stream := &scriptStream{in: bytes.NewReader(nil)}
	x := NewExchange(stream)
	dg := &Datagram{Addr: 0x21, Code: 0x07, Data: []byte{0xDE, 0xAD}}
	require.NoError(t, x.Send(dg))
	require.Equal(t, dg.Bytes(), stream.out.Bytes())

	require.Equal(t, ErrLength, x.Send(&Datagram{Data: make([]byte, MaxPayload+1)}))
	require.Equal(t, dg.Bytes(), stream.out.Bytes())
}
