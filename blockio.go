package palloc

import (
	"fmt"

	"github.com/arloliu/palloc/format"
	"github.com/arloliu/palloc/internal/pool"
)

// Low-level reads and writes of on-medium block structures. Every multi-byte
// value is big-endian. Offsets name the block's start tag unless stated
// otherwise.

func (p *Pool) readUint64(off uint64) (uint64, error) {
	bb := pool.GetScratch()
	defer pool.PutScratch(bb)

	bb.SetLength(format.TagSize)
	if _, err := p.m.ReadAt(bb.B, int64(off)); err != nil {
		return 0, fmt.Errorf("read at %d: %w", off, err)
	}

	return engine.Uint64(bb.B), nil
}

func (p *Pool) writeUint64(off, val uint64) error {
	bb := pool.GetScratch()
	defer pool.PutScratch(bb)

	bb.B = engine.AppendUint64(bb.B, val)
	if _, err := p.m.WriteAt(bb.B, int64(off)); err != nil {
		return fmt.Errorf("write at %d: %w", off, err)
	}

	return nil
}

// readTag reads the boundary tag at off.
func (p *Pool) readTag(off uint64) (format.Tag, error) {
	v, err := p.readUint64(off)

	return format.Tag(v), err
}

// writeTag writes a boundary tag at off.
func (p *Pool) writeTag(off uint64, t format.Tag) error {
	return p.writeUint64(off, uint64(t))
}

// readFreeLinks reads the prev and next free-list pointers of the free
// block starting at off.
func (p *Pool) readFreeLinks(off uint64) (prev, next uint64, err error) {
	bb := pool.GetScratch()
	defer pool.PutScratch(bb)

	bb.SetLength(2 * format.PointerSize)
	if _, err := p.m.ReadAt(bb.B, int64(off+format.TagSize)); err != nil {
		return 0, 0, fmt.Errorf("read free links at %d: %w", off, err)
	}

	return engine.Uint64(bb.B[:format.PointerSize]), engine.Uint64(bb.B[format.PointerSize:]), nil
}

// writeFreeLinks writes both free-list pointers of the free block at off.
func (p *Pool) writeFreeLinks(off, prev, next uint64) error {
	bb := pool.GetScratch()
	defer pool.PutScratch(bb)

	bb.B = engine.AppendUint64(bb.B, prev)
	bb.B = engine.AppendUint64(bb.B, next)
	if _, err := p.m.WriteAt(bb.B, int64(off+format.TagSize)); err != nil {
		return fmt.Errorf("write free links at %d: %w", off, err)
	}

	return nil
}

// writePrev updates only the prev pointer of the free block at off.
func (p *Pool) writePrev(off, prev uint64) error {
	return p.writeUint64(off+format.TagSize, prev)
}

// writeNext updates only the next pointer of the free block at off.
func (p *Pool) writeNext(off, next uint64) error {
	return p.writeUint64(off+format.TagSize+format.PointerSize, next)
}

// writeBothTags writes the identical start and end tags of the block at off.
func (p *Pool) writeBothTags(off uint64, t format.Tag) error {
	if err := p.writeTag(off, t); err != nil {
		return err
	}

	return p.writeTag(off+format.TagSize+t.Size(), t)
}
