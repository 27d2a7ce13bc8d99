package dgram

import (
	"github.com/sigurn/crc8"
)

// Result indicates the outcome of feeding one byte.
type Result struct {
	// Datagram is non-nil when this byte completed a datagram.
	Datagram *Datagram
	// Err reports a violation consumed by this byte (ErrChecksum or
	// ErrLength). The decoder has already resynchronized.
	Err error
}

type decodeState int

const (
	stateSync decodeState = iota // hunting for the sync byte
	stateAddr                    // waiting for the address
	stateCode                    // waiting for the message code
	stateLen                     // waiting for the payload length
	stateData                    // collecting payload bytes
	stateCRC                     // waiting for the checksum
)

// Decoder assembles datagrams from a byte stream, one byte at a time.
// Bytes outside a datagram are skipped silently; anything rejected
// mid-datagram surfaces once through Result.Err and the decoder hunts
// for the next sync byte.
type Decoder struct {
	state   decodeState
	dg      *Datagram
	recvLen byte
	crc     uint8
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) (res Result) {
	switch d.state {
	case stateSync:
		if b == SyncByte {
			d.dg = &Datagram{}
			d.crc = crc8.Init(frameCRC8)
			d.state = stateAddr
		}
	case stateAddr:
		d.dg.Addr = b
		d.updateCRC(b)
		d.state = stateCode
	case stateCode:
		d.dg.Code = b
		d.updateCRC(b)
		d.state = stateLen
	case stateLen:
		if b > MaxPayload {
			res.Err = ErrLength
			d.resync()
			return
		}
		d.updateCRC(b)
		if b == 0 {
			d.state = stateCRC
			return
		}
		d.dg.Data, d.recvLen = make([]byte, b), 0
		d.state = stateData
	case stateData:
		d.dg.Data[d.recvLen] = b
		d.updateCRC(b)
		d.recvLen++
		if d.recvLen >= byte(len(d.dg.Data)) {
			d.state = stateCRC
		}
	case stateCRC:
		if b != crc8.Complete(d.crc, frameCRC8) {
			res.Err = ErrChecksum
			d.resync()
			return
		}
		res.Datagram = d.dg
		d.resync()
	}
	return
}

// Reset drops any partial datagram and hunts for the next sync byte.
func (d *Decoder) Reset() {
	d.resync()
}

func (d *Decoder) updateCRC(b byte) {
	d.crc = crc8.Update(d.crc, []byte{b}, frameCRC8)
}

func (d *Decoder) resync() {
	d.state = stateSync
	d.dg = nil
}
