package palloc

import (
	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/format"
)

// Size returns the payload size of the blob at ptr. This is the real size
// of the block, which may exceed the size originally requested from Alloc.
//
// Size is meant for pointers returned by Alloc and not yet freed; called on
// a freed pointer it returns the free block's payload size.
func (p *Pool) Size(ptr uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, errs.ErrMediumClosed
	}
	if err := p.checkPointer(ptr); err != nil {
		return 0, err
	}

	tag, err := p.readTag(ptr - format.TagSize)
	if err != nil {
		return 0, err
	}

	return tag.Size(), nil
}

// Next returns the pointer of the next occupied blob after ptr, skipping
// free blocks, or 0 once the end of the medium is reached. Passing 0
// starts iteration at the first blob.
//
// Iteration order is physical medium order. It is not stable across
// intervening Alloc or Free calls that split, coalesce, or grow blocks.
func (p *Pool) Next(ptr uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, errs.ErrMediumClosed
	}

	return p.next(ptr)
}

func (p *Pool) next(ptr uint64) (uint64, error) {
	var off uint64
	switch {
	case ptr == 0:
		off = p.headerSize
	case ptr >= p.mediumSize:
		return 0, nil
	default:
		blockOff := ptr - format.TagSize
		tag, err := p.readTag(blockOff)
		if err != nil {
			return 0, err
		}
		off = blockOff + format.BlockOverhead + tag.Size()
	}

	for off < p.mediumSize {
		tag, err := p.readTag(off)
		if err != nil {
			return 0, err
		}
		if !tag.IsFree() {
			return off + format.TagSize, nil
		}
		off += format.BlockOverhead + tag.Size()
	}

	return 0, nil
}

// First returns the pointer of the first occupied blob on the medium, or 0
// if none exists. It is shorthand for Next(0).
func (p *Pool) First() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, errs.ErrMediumClosed
	}

	return p.next(0)
}
