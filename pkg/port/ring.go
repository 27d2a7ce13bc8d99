package port

// DefaultRingSize is the per-direction buffer capacity of a Port.
const DefaultRingSize = 128

// Ring is a fixed-capacity byte ring buffer. Capacity is always a
// power of two so the index math stays a mask.
type Ring struct {
	buf  []byte
	head uint32
	tail uint32
}

// NewRing creates a ring holding at least size bytes.
func NewRing(size int) *Ring {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Ring{buf: make([]byte, n)}
}

// Size returns the total capacity in bytes.
func (r *Ring) Size() int {
	return len(r.buf)
}

// Used returns how many bytes are buffered.
func (r *Ring) Used() int {
	return int(r.head - r.tail)
}

// Free returns how many more bytes fit.
func (r *Ring) Free() int {
	return len(r.buf) - r.Used()
}

// Put stores one byte. It reports false when the ring is full.
func (r *Ring) Put(b byte) bool {
	if r.Used() == len(r.buf) {
		return false
	}
	r.buf[int(r.head)&(len(r.buf)-1)] = b
	r.head++
	return true
}

// Get removes the oldest byte. It reports false when the ring is
// empty.
func (r *Ring) Get() (byte, bool) {
	if r.Used() == 0 {
		return 0, false
	}
	b := r.buf[int(r.tail)&(len(r.buf)-1)]
	r.tail++
	return b, true
}

// Peek returns the oldest byte without removing it.
func (r *Ring) Peek() (byte, bool) {
	if r.Used() == 0 {
		return 0, false
	}
	return r.buf[int(r.tail)&(len(r.buf)-1)], true
}

// Clear discards all buffered bytes.
func (r *Ring) Clear() {
	r.head, r.tail = 0, 0
}
