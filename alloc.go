package palloc

import (
	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/format"
)

// Alloc acquires a blob of at least size bytes and returns the absolute
// offset of its first payload byte. The payload contents are uninitialized.
//
// Requests smaller than the 16-byte minimum are rounded up; the floor keeps
// every block able to hold the free-list pointers once it is freed. The
// block actually handed out may be larger than requested when splitting the
// remainder off would leave no more than one minimum free block; Size
// reports the real payload size.
//
// Allocation is first-fit by offset: the lowest-offset free block large
// enough wins. On a non-dynamic medium with no fitting free block, Alloc
// returns 0 with a nil error; running out of space is a normal outcome, not
// a failure. On a dynamic medium the file grows instead, by exactly the
// rounded-up size plus 16 bytes of tags.
func (p *Pool) Alloc(size uint64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, errs.ErrMediumClosed
	}

	if size < format.MinPayload {
		size = format.MinPayload
	}

	// First-fit walk over the sorted free list. Track the last block
	// visited; it becomes the new tail's predecessor if the medium grows.
	var lastFree uint64
	selected := p.firstFree
	for selected != 0 {
		tag, err := p.readTag(selected)
		if err != nil {
			return 0, err
		}
		if tag.Size() >= size {
			break
		}
		lastFree = selected
		_, next, err := p.readFreeLinks(selected)
		if err != nil {
			return 0, err
		}
		selected = next
	}

	if selected == 0 {
		if !p.flags.IsDynamic() {
			return 0, nil
		}
		var err error
		selected, err = p.grow(size, lastFree)
		if err != nil {
			return 0, err
		}
	}

	tag, err := p.readTag(selected)
	if err != nil {
		return 0, err
	}
	blockSize := tag.Size()

	// Split when the leftover can hold more than a minimum free block.
	// At exactly the minimum the block is handed out whole, over-serving
	// the request by up to 32 bytes.
	if blockSize-size > format.MinBlockSize {
		if err := p.split(selected, size, blockSize); err != nil {
			return 0, err
		}
		blockSize = size
	}

	if err := p.unlink(selected); err != nil {
		return 0, err
	}

	if err := p.writeBothTags(selected, format.NewTag(blockSize, false)); err != nil {
		return 0, err
	}

	return selected + format.TagSize, nil
}

// grow appends a new free block of the given payload size at the end of the
// medium and links it as the free-list tail. lastFree is the current tail
// (the last block the fit walk visited), or 0 when the list is empty.
func (p *Pool) grow(size, lastFree uint64) (uint64, error) {
	blockOff := p.mediumSize
	tag := format.NewTag(size, true)

	if err := p.writeTag(blockOff, tag); err != nil {
		return 0, err
	}
	if err := p.writeFreeLinks(blockOff, lastFree, 0); err != nil {
		return 0, err
	}
	if err := p.writeTag(blockOff+format.TagSize+size, tag); err != nil {
		return 0, err
	}

	if lastFree != 0 {
		if err := p.writeNext(lastFree, blockOff); err != nil {
			return 0, err
		}
	} else {
		p.firstFree = blockOff
	}
	p.mediumSize = blockOff + format.BlockOverhead + size

	return blockOff, nil
}

// split cuts the free block at off (payload blockSize) into a left piece of
// payload size and a right free block carrying the remainder. Both pieces
// stay on the free list, with the right piece spliced in after the left.
func (p *Pool) split(off, size, blockSize uint64) error {
	right := off + format.BlockOverhead + size
	rightSize := blockSize - size - format.BlockOverhead

	_, oldNext, err := p.readFreeLinks(off)
	if err != nil {
		return err
	}

	// Left piece: shrink in place, keep its prev, point next at the right
	// piece.
	if err := p.writeBothTags(off, format.NewTag(size, true)); err != nil {
		return err
	}
	if err := p.writeNext(off, right); err != nil {
		return err
	}

	// Right piece: fresh free block inheriting the left's old successor.
	if err := p.writeBothTags(right, format.NewTag(rightSize, true)); err != nil {
		return err
	}
	if err := p.writeFreeLinks(right, off, oldNext); err != nil {
		return err
	}

	if oldNext != 0 {
		if err := p.writePrev(oldNext, right); err != nil {
			return err
		}
	}

	return nil
}

// unlink removes the free block at off from the free list.
func (p *Pool) unlink(off uint64) error {
	prev, next, err := p.readFreeLinks(off)
	if err != nil {
		return err
	}

	if prev != 0 {
		if err := p.writeNext(prev, next); err != nil {
			return err
		}
	}
	if next != 0 {
		if err := p.writePrev(next, prev); err != nil {
			return err
		}
	}
	if p.firstFree == off {
		p.firstFree = next
	}

	return nil
}
