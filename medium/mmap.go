package medium

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arloliu/palloc/internal/options"
)

// Mmap is a Medium that accesses a file through a memory mapping. Reads and
// writes are plain memory copies; growing the medium remaps the file.
type Mmap struct {
	f    *os.File
	m    mmap.MMap
	path string
}

var _ Medium = (*Mmap)(nil)

// OpenMmap opens path read-write as a memory-mapped medium, creating the
// file if it does not exist. An empty file stays unmapped until the first
// write or truncate grows it.
func OpenMmap(path string, opts ...FileOption) (*Mmap, error) {
	cfg := &fileConfig{mode: 0o644}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	canon, err := CanonicalPath(path)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %q: %w", path, err)
	}

	f, err := os.OpenFile(canon, os.O_RDWR|os.O_CREATE, cfg.mode)
	if err != nil {
		return nil, err
	}

	mm := &Mmap{f: f, path: canon}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() > 0 {
		if err := mm.remap(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return mm, nil
}

// remap re-establishes the mapping over the file's current length.
// The file must be non-empty.
func (m *Mmap) remap() error {
	if m.m != nil {
		if err := m.m.Unmap(); err != nil {
			return err
		}
		m.m = nil
	}

	mapped, err := mmap.Map(m.f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("mmap %q: %w", m.path, err)
	}
	m.m = mapped

	return nil
}

// grow extends the file to size and remaps.
func (m *Mmap) grow(size int64) error {
	if m.m != nil {
		if err := m.m.Unmap(); err != nil {
			return err
		}
		m.m = nil
	}
	if err := m.f.Truncate(size); err != nil {
		return err
	}

	return m.remap()
}

// ReadAt implements Medium.
func (m *Mmap) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mmap %q: negative read offset %d", m.path, off)
	}
	if off >= int64(len(m.m)) {
		return 0, io.EOF
	}

	n := copy(b, m.m[off:])
	if n < len(b) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt implements Medium. Writing past the mapped region grows the file
// and remaps, matching the extend-on-write behavior of a plain file.
func (m *Mmap) WriteAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mmap %q: negative write offset %d", m.path, off)
	}

	if end := off + int64(len(b)); end > int64(len(m.m)) {
		if err := m.grow(end); err != nil {
			return 0, err
		}
	}

	return copy(m.m[off:], b), nil
}

// Size implements Medium.
func (m *Mmap) Size() (int64, error) {
	return int64(len(m.m)), nil
}

// Truncate implements Medium.
func (m *Mmap) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("mmap %q: negative truncate size %d", m.path, size)
	}

	if m.m != nil {
		if err := m.m.Unmap(); err != nil {
			return err
		}
		m.m = nil
	}
	if err := m.f.Truncate(size); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	return m.remap()
}

// Sync implements Medium. It flushes the mapping back to the file.
func (m *Mmap) Sync() error {
	if m.m == nil {
		return nil
	}

	return m.m.Flush()
}

// Close implements Medium.
func (m *Mmap) Close() error {
	if m.m != nil {
		if err := m.m.Unmap(); err != nil {
			m.f.Close()
			return err
		}
		m.m = nil
	}

	return m.f.Close()
}

// Name implements Medium.
func (m *Mmap) Name() string {
	return m.path
}
