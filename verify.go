package palloc

import (
	"fmt"

	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/format"
)

// Verify checks the structural invariants of the medium: the header magic,
// the block tiling of the region between header and medium end, matching
// boundary tags, the sorted doubly-linked free list, the cached first-free
// offset, and the absence of adjacent free blocks.
//
// Verify reads the whole block chain; it is intended for tests and
// integrity audits, not for the hot path.
func (p *Pool) Verify() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errs.ErrMediumClosed
	}

	buf := make([]byte, format.HeaderSize)
	if _, err := p.m.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	var hdr format.Header
	if err := hdr.Parse(buf); err != nil {
		return err
	}

	// Walk the physical block chain.
	var (
		frees    []uint64
		prevFree bool
	)
	off := p.headerSize
	for off < p.mediumSize {
		start, err := p.readTag(off)
		if err != nil {
			return err
		}
		if start.Size() < format.MinPayload {
			return fmt.Errorf("block at %d: payload %d below minimum", off, start.Size())
		}

		endOff := off + format.TagSize + start.Size()
		if endOff+format.TagSize > p.mediumSize {
			return fmt.Errorf("block at %d: extends past medium end", off)
		}
		end, err := p.readTag(endOff)
		if err != nil {
			return err
		}
		if start != end {
			return fmt.Errorf("block at %d: start tag %#x != end tag %#x", off, uint64(start), uint64(end))
		}

		if start.IsFree() {
			if prevFree {
				return fmt.Errorf("blocks at %d and before are both free", off)
			}
			frees = append(frees, off)
		}
		prevFree = start.IsFree()
		off = endOff + format.TagSize
	}
	if off != p.mediumSize {
		return fmt.Errorf("blocks tile to %d, medium ends at %d", off, p.mediumSize)
	}

	// The free list must enumerate exactly the free blocks in ascending
	// offset order, with prev pointers mirroring the next chain.
	expectedFirst := uint64(0)
	if len(frees) > 0 {
		expectedFirst = frees[0]
	}
	if p.firstFree != expectedFirst {
		return fmt.Errorf("cached first-free %d, expected %d", p.firstFree, expectedFirst)
	}

	var (
		lastSeen uint64
		count    int
	)
	cur := p.firstFree
	for cur != 0 {
		if count >= len(frees) {
			return fmt.Errorf("free list longer than the %d free blocks on medium", len(frees))
		}
		if cur != frees[count] {
			return fmt.Errorf("free list entry %d is %d, expected %d", count, cur, frees[count])
		}

		prev, next, err := p.readFreeLinks(cur)
		if err != nil {
			return err
		}
		if prev != lastSeen {
			return fmt.Errorf("free block at %d: prev pointer %d, expected %d", cur, prev, lastSeen)
		}
		if next != 0 && next <= cur {
			return fmt.Errorf("free block at %d: next pointer %d not ascending", cur, next)
		}

		lastSeen = cur
		cur = next
		count++
	}
	if count != len(frees) {
		return fmt.Errorf("free list has %d entries, medium has %d free blocks", count, len(frees))
	}

	return nil
}
