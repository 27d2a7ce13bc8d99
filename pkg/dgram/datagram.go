package dgram

import (
	"errors"
	"io"

	"github.com/sigurn/crc8"
)

const (
	// SyncByte marks the start of every datagram on the wire.
	SyncByte byte = 0xA5
	// MaxPayload bounds the payload length a datagram may carry.
	MaxPayload = 64
)

var (
	// ErrChecksum indicates a datagram failed CRC verification.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrLength indicates a length byte beyond MaxPayload.
	ErrLength = errors.New("invalid data length")
)

var frameCRC8 = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xF4, Name: "CRC-8"})

// Checksum computes the datagram CRC over addr, code, length and
// payload bytes.
func Checksum(b []byte) byte {
	return crc8.Checksum(b, frameCRC8)
}

// Datagram is one addressed message.
type Datagram struct {
	Addr byte
	Code byte
	Data []byte
}

// Bytes returns encoded bytes for sending. Data must not exceed
// MaxPayload; WriteTo enforces it.
func (d *Datagram) Bytes() []byte {
	b := make([]byte, 0, len(d.Data)+5)
	b = append(b, SyncByte, d.Addr, d.Code, byte(len(d.Data)))
	b = append(b, d.Data...)
	return append(b, Checksum(b[1:]))
}

// WriteTo writes encoded bytes.
func (d *Datagram) WriteTo(w io.Writer) (n int, err error) {
	if len(d.Data) > MaxPayload {
		return 0, ErrLength
	}
	return w.Write(d.Bytes())
}
