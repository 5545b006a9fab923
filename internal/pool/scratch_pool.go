// Package pool provides pooled scratch buffers for the fixed-size reads and
// writes the allocator performs against the medium: boundary tags and
// free-list pointers.
package pool

import "sync"

// ScratchSize is the capacity of each scratch buffer. It holds a whole free
// block prologue (start tag plus the two list pointers), more than the
// 16-byte pointer pair that is the largest single read or write.
const ScratchSize = 24

// ByteBuffer is a reusable byte slice wrapper.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

var scratchPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, ScratchSize)}
	},
}

// GetScratch obtains an empty ByteBuffer with at least ScratchSize capacity.
func GetScratch() *ByteBuffer {
	bb, _ := scratchPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutScratch returns a ByteBuffer to the pool.
func PutScratch(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	scratchPool.Put(bb)
}
