package medium

import (
	"fmt"
	"io"
)

// Mem is a Medium held entirely in memory. Content does not survive the
// process; it exists for tests and for ephemeral pools.
type Mem struct {
	name string
	buf  []byte
}

var _ Medium = (*Mem)(nil)

// NewMem creates an empty in-memory medium.
func NewMem(name string) *Mem {
	return &Mem{name: name}
}

// NewMemSize creates an in-memory medium of the given length, zero filled.
func NewMemSize(name string, size int64) *Mem {
	return &Mem{name: name, buf: make([]byte, size)}
}

// ReadAt implements Medium.
func (m *Mem) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mem %q: negative read offset %d", m.name, off)
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(b, m.buf[off:])
	if n < len(b) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt implements Medium. Writing past the current end extends the
// medium with zero bytes.
func (m *Mem) WriteAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mem %q: negative write offset %d", m.name, off)
	}

	if end := off + int64(len(b)); end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	return copy(m.buf[off:], b), nil
}

// Size implements Medium.
func (m *Mem) Size() (int64, error) {
	return int64(len(m.buf)), nil
}

// Truncate implements Medium.
func (m *Mem) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("mem %q: negative truncate size %d", m.name, size)
	}

	switch {
	case size <= int64(len(m.buf)):
		m.buf = m.buf[:size]
	default:
		grown := make([]byte, size)
		copy(grown, m.buf)
		m.buf = grown
	}

	return nil
}

// Sync implements Medium. Memory needs no flushing.
func (m *Mem) Sync() error {
	return nil
}

// Close implements Medium.
func (m *Mem) Close() error {
	return nil
}

// Name implements Medium.
func (m *Mem) Name() string {
	return m.name
}

// Bytes exposes the backing slice for inspection. The slice aliases the
// medium's storage; it is invalidated by the next write or truncate.
func (m *Mem) Bytes() []byte {
	return m.buf
}
