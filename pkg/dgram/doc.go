// Package dgram frames datagrams over a raw serial byte stream.
package dgram

// Wire form, checksummed but unacknowledged:
//
//	sync(0xA5) · addr · code · len · payload[len] · crc8
//
// The CRC-8 covers addr through the last payload byte, so a datagram
// survives line noise detection-wise: a corrupted byte fails the
// checksum and the decoder hunts for the next sync byte. There is no
// retransmission; callers needing delivery guarantees layer their own
// acknowledgement codes on top.
//
// The parity and framing detection of the uart layer below stays
// useful: an errored frame never enters the byte stream, which the
// decoder sees as a missing byte and recovers from at the next sync.
