package palloc

import (
	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/format"
)

// Free releases the blob at ptr. The block is marked free, spliced into the
// offset-sorted free list, and coalesced with physically adjacent free
// neighbors, so no two adjacent free blocks ever remain.
//
// Freeing an already-free block is an idempotent no-op. On a dynamic
// medium, freeing what becomes the physical last block truncates the
// medium to the block's start.
func (p *Pool) Free(ptr uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errs.ErrMediumClosed
	}
	if err := p.checkPointer(ptr); err != nil {
		return err
	}

	blockOff := ptr - format.TagSize
	tag, err := p.readTag(blockOff)
	if err != nil {
		return err
	}
	if tag.IsFree() {
		return nil
	}
	size := tag.Size()

	// Locate the free-list neighbors: the largest free offset below the
	// block and the smallest above it.
	var prev, next uint64
	cur := p.firstFree
	for cur != 0 {
		if cur < blockOff {
			prev = cur
		}
		if cur > blockOff {
			next = cur
			break
		}
		_, n, err := p.readFreeLinks(cur)
		if err != nil {
			return err
		}
		cur = n
	}

	// Mark free and splice in.
	if err := p.writeBothTags(blockOff, format.NewTag(size, true)); err != nil {
		return err
	}
	if err := p.writeFreeLinks(blockOff, prev, next); err != nil {
		return err
	}
	if prev != 0 {
		if err := p.writeNext(prev, blockOff); err != nil {
			return err
		}
	}
	if next != 0 {
		if err := p.writePrev(next, blockOff); err != nil {
			return err
		}
	}
	if p.firstFree == 0 || p.firstFree > blockOff {
		p.firstFree = blockOff
	}

	// Coalesce, next side first so blockOff stays valid for the second
	// merge.
	if next != 0 {
		if err := p.merge(blockOff, next); err != nil {
			return err
		}
	}
	if prev != 0 {
		if err := p.merge(prev, blockOff); err != nil {
			return err
		}
	}

	if p.flags.IsDynamic() {
		start := blockOff
		if prev != 0 {
			tag, err := p.readTag(prev)
			if err != nil {
				return err
			}
			if tag.IsFree() && prev+format.BlockOverhead+tag.Size() > blockOff {
				start = prev
			}
		}

		return p.truncateTail(start)
	}

	return nil
}

// merge coalesces the free blocks at left and right into one. It is a no-op
// unless both carry the free bit and are physically adjacent. The merged
// block keeps left's position and prev pointer and inherits right's next.
func (p *Pool) merge(left, right uint64) error {
	leftTag, err := p.readTag(left)
	if err != nil {
		return err
	}
	rightTag, err := p.readTag(right)
	if err != nil {
		return err
	}

	if !leftTag.IsFree() || !rightTag.IsFree() {
		return nil
	}
	if left+format.BlockOverhead+leftTag.Size() != right {
		return nil
	}

	_, rightNext, err := p.readFreeLinks(right)
	if err != nil {
		return err
	}

	merged := leftTag.Size() + rightTag.Size() + format.BlockOverhead
	if err := p.writeBothTags(left, format.NewTag(merged, true)); err != nil {
		return err
	}
	if err := p.writeNext(left, rightNext); err != nil {
		return err
	}

	if rightNext != 0 {
		if err := p.writePrev(rightNext, left); err != nil {
			return err
		}
	}

	return nil
}

// truncateTail shrinks the medium when the free block at start is the
// physical last block. The block is unlinked from the free list and its
// bytes dropped from the medium.
func (p *Pool) truncateTail(start uint64) error {
	tag, err := p.readTag(start)
	if err != nil {
		return err
	}
	if !tag.IsFree() {
		return nil
	}
	if start+format.BlockOverhead+tag.Size() != p.mediumSize {
		return nil
	}

	// The block is the free-list tail: the list is offset sorted, so its
	// next is 0 and its prev becomes the new tail.
	prev, _, err := p.readFreeLinks(start)
	if err != nil {
		return err
	}
	if prev != 0 {
		if err := p.writeNext(prev, 0); err != nil {
			return err
		}
	}
	if p.firstFree == start {
		p.firstFree = 0
	}

	if err := p.m.Truncate(int64(start)); err != nil {
		return err
	}
	p.mediumSize = start

	return nil
}
