package dgram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeSequence feeds bytes into a Decoder and pins the Result of the
// last byte. Bytes before the last one must decode to nothing. An empty
// input resets the decoder instead.
type decodeSequence struct {
	in    []byte
	final Result
}

type decodeSequenceBuilder struct {
	seq []decodeSequence
}

func decodeSequences() *decodeSequenceBuilder {
	return &decodeSequenceBuilder{}
}

func (b *decodeSequenceBuilder) feed(in ...byte) *decodeSequenceBuilder {
	b.seq = append(b.seq, decodeSequence{in: in})
	return b
}

func (b *decodeSequenceBuilder) reset() *decodeSequenceBuilder {
	b.seq = append(b.seq, decodeSequence{})
	return b
}

func (b *decodeSequenceBuilder) datagram(addr, code byte, data ...byte) *decodeSequenceBuilder {
	b.seq[len(b.seq)-1].final = Result{Datagram: &Datagram{Addr: addr, Code: code, Data: data}}
	return b
}

func (b *decodeSequenceBuilder) fails(err error) *decodeSequenceBuilder {
	b.seq[len(b.seq)-1].final = Result{Err: err}
	return b
}

func (b *decodeSequenceBuilder) build() []decodeSequence {
	return b.seq
}

func encode(addr, code byte, data ...byte) []byte {
	return (&Datagram{Addr: addr, Code: code, Data: data}).Bytes()
}

func corrupt(b []byte) []byte {
	out := append([]byte(nil), b...)
	out[len(out)-1] ^= 0xFF
	return out
}

func TestDecoderSequences(t *testing.T) {
	cases := []struct {
		name string
		seq  []decodeSequence
	}{
		{
			name: "single datagram",
			seq: decodeSequences().
				feed(encode(0x10, 0x01, 1, 2, 3)...).datagram(0x10, 0x01, 1, 2, 3).
				build(),
		},
		{
			name: "empty payload",
			seq: decodeSequences().
				feed(encode(0x10, 0x02)...).datagram(0x10, 0x02).
				build(),
		},
		{
			name: "noise before sync",
			seq: decodeSequences().
				feed(0x00, 0xFF, 0x42).
				feed(encode(0x11, 0x01, 0xAA)...).datagram(0x11, 0x01, 0xAA).
				build(),
		},
		{
			name: "sync byte inside payload",
			seq: decodeSequences().
				feed(encode(0x12, 0x01, SyncByte, SyncByte)...).datagram(0x12, 0x01, SyncByte, SyncByte).
				build(),
		},
		{
			name: "back to back datagrams",
			seq: decodeSequences().
				feed(encode(0x01, 0x01, 5)...).datagram(0x01, 0x01, 5).
				feed(encode(0x02, 0x02, 6)...).datagram(0x02, 0x02, 6).
				build(),
		},
		{
			name: "checksum mismatch then recovery",
			seq: decodeSequences().
				feed(corrupt(encode(0x13, 0x01, 7, 8))...).fails(ErrChecksum).
				feed(encode(0x13, 0x01, 7, 8)...).datagram(0x13, 0x01, 7, 8).
				build(),
		},
		{
			name: "length over maximum",
			seq: decodeSequences().
				feed(SyncByte, 0x01, 0x02, MaxPayload+1).fails(ErrLength).
				feed(encode(0x14, 0x03)...).datagram(0x14, 0x03).
				build(),
		},
		{
			name: "reset drops partial datagram",
			seq: decodeSequences().
				feed(SyncByte, 0x01, 0x02).
				reset().
				feed(encode(0x15, 0x04, 9)...).datagram(0x15, 0x04, 9).
				build(),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var d Decoder
			for i, s := range c.seq {
				if len(s.in) == 0 {
					d.Reset()
					continue
				}
				for j, b := range s.in[:len(s.in)-1] {
					require.Equalf(t, Result{}, d.Feed(b),
						"sequence %d byte %d decoded early", i, j)
				}
				res := d.Feed(s.in[len(s.in)-1])
				require.Equalf(t, s.final, res, "sequence %d final result", i)
			}
		})
	}
}

func TestDecoderMaxPayload(t *testing.T) {
	data := make([]byte, MaxPayload)
	for i := range data {
		data[i] = byte(i)
	}
	var d Decoder
	var res Result
	for _, b := range encode(0x20, 0x05, data...) {
		res = d.Feed(b)
	}
	require.NoError(t, res.Err)
	require.NotNil(t, res.Datagram)
	require.Equal(t, data, res.Datagram.Data)
}
