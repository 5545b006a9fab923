package palloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/palloc/endian"
	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/format"
	"github.com/arloliu/palloc/medium"
)

var engine = endian.GetBigEndianEngine()

// Pool is the handle to one open medium. It caches the medium's structure —
// persisted flags, header size, the offset of the first free block, and the
// current medium size — so that allocation does not re-read the header or
// re-scan the block chain on every call. The cache is recomputable from the
// medium at any time; it holds no state the medium does not.
type Pool struct {
	mu     sync.Mutex
	m      medium.Medium
	closed bool

	flags      Flags
	headerSize uint64
	firstFree  uint64
	mediumSize uint64
}

// Open opens or creates the file at path and returns a pool over it. Of the
// given flags only Sync is consulted here; it requests data-sync-on-write
// from the OS. The flags governing medium behavior are the persisted ones,
// established by Init and read back from the header.
//
// Open fails if the path cannot be canonicalized, the file cannot be
// opened, or the medium carries an unsupported extended header.
func Open(path string, flags Flags) (*Pool, error) {
	var opts []medium.FileOption
	if flags.IsSync() {
		opts = append(opts, medium.WithSyncWrites())
	}

	m, err := medium.OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}

	pool, err := New(m)
	if err != nil {
		m.Close()
		return nil, err
	}

	return pool, nil
}

// New returns a pool over an already-open medium. The medium's structure is
// precached: the header is read if present, and the block chain is scanned
// for the lowest free block.
func New(m medium.Medium) (*Pool, error) {
	p := &Pool{m: m, headerSize: format.HeaderSize}
	if err := p.precache(); err != nil {
		return nil, err
	}

	return p, nil
}

// precache populates the cached medium structure. An uninitialized medium
// (shorter than the header, or without the magic) is left with zero flags
// and an empty free list; Init establishes the structure later.
func (p *Pool) precache() error {
	size, err := p.m.Size()
	if err != nil {
		return fmt.Errorf("stat medium: %w", err)
	}
	p.mediumSize = uint64(size)

	if p.mediumSize < format.HeaderSize {
		return nil
	}

	buf := make([]byte, format.HeaderSize)
	if _, err := p.m.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	var hdr format.Header
	err = hdr.Parse(buf)
	switch {
	case err == nil:
		p.flags = hdr.Flags
	case errors.Is(err, errs.ErrInvalidMagic):
		// Not initialized yet; nothing to cache.
		return nil
	default:
		return err
	}

	first, err := p.scanFirstFree()
	if err != nil {
		return err
	}
	p.firstFree = first

	return nil
}

// scanFirstFree walks the block chain from the end of the header and
// returns the offset of the lowest free block, or 0 if none exists.
func (p *Pool) scanFirstFree() (uint64, error) {
	off := p.headerSize
	for off < p.mediumSize {
		tag, err := p.readTag(off)
		if err != nil {
			return 0, err
		}
		if tag.IsFree() {
			return off, nil
		}
		off += format.BlockOverhead + tag.Size()
	}

	return 0, nil
}

// Init establishes the medium structure, or validates it if the medium is
// already initialized.
//
// If the magic is present the medium is left untouched and the supplied
// flags are ignored; the persisted flags win. Otherwise the header is
// written with the supplied flags (minus Sync) and, when the medium is at
// least MinMediumSize long, a single free block spanning the remainder.
// A medium shorter than the minimum is grown only when the supplied flags
// include Dynamic; otherwise Init fails with errs.ErrIncompatibleMedium.
func (p *Pool) Init(flags Flags) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errs.ErrMediumClosed
	}

	// Bail early if already initialized.
	if p.mediumSize >= format.HeaderSize {
		buf := make([]byte, format.HeaderSize)
		if _, err := p.m.ReadAt(buf, 0); err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		var hdr format.Header
		err := hdr.Parse(buf)
		switch {
		case err == nil:
			p.flags = hdr.Flags
			return nil
		case errors.Is(err, errs.ErrInvalidMagic):
			// Uninitialized; fall through and build the structure.
		default:
			return err
		}
	}

	// Grow an undersized medium, zero filled, when allowed: to the bare
	// header when it is no longer than the header, else to the minimum.
	if p.mediumSize < format.MinMediumSize {
		if !flags.IsDynamic() {
			return errs.ErrIncompatibleMedium
		}

		target := uint64(format.HeaderSize)
		if p.mediumSize > format.HeaderSize {
			target = format.MinMediumSize
		}
		zero := make([]byte, target-p.mediumSize)
		if _, err := p.m.WriteAt(zero, int64(p.mediumSize)); err != nil {
			return fmt.Errorf("grow medium: %w", err)
		}
		p.mediumSize = target
	}

	hdr := format.Header{Flags: flags}
	if _, err := p.m.WriteAt(hdr.Bytes(), 0); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	p.flags = flags.Persisted()
	p.firstFree = 0

	// Mark the remainder of the medium as one spanning free block.
	if p.mediumSize >= format.MinMediumSize {
		blockOff := p.headerSize
		payload := p.mediumSize - p.headerSize - format.BlockOverhead
		tag := format.NewTag(payload, true)
		if err := p.writeTag(blockOff, tag); err != nil {
			return err
		}
		if err := p.writeFreeLinks(blockOff, 0, 0); err != nil {
			return err
		}
		if err := p.writeTag(blockOff+format.TagSize+payload, tag); err != nil {
			return err
		}
		p.firstFree = blockOff
	}

	return nil
}

// Close drops the cached state and closes the underlying medium. The
// medium bytes are left exactly as the last operation wrote them.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errs.ErrMediumClosed
	}
	p.closed = true
	p.firstFree = 0

	return p.m.Close()
}

// Flags returns the cached persisted flags of the medium.
func (p *Pool) Flags() Flags {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flags
}

// MediumSize returns the cached size of the medium in bytes.
func (p *Pool) MediumSize() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.mediumSize
}

// checkPointer validates that ptr can address a block payload: it must lie
// past a start tag within the block region. This guards the handle and the
// medium structure against garbage pointers; it cannot detect a pointer
// into the middle of someone else's payload.
func (p *Pool) checkPointer(ptr uint64) error {
	if ptr < p.headerSize+format.TagSize || ptr >= p.mediumSize {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPointer, ptr)
	}

	return nil
}
