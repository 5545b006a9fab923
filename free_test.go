package palloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/palloc/errs"
	"github.com/arloliu/palloc/medium"
)

func TestFreeDoubleFreeIsIdempotent(t *testing.T) {
	m := medium.NewMemSize("double", 4096)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Default))

	p1, err := pool.Alloc(32)
	require.NoError(t, err)
	p2, err := pool.Alloc(32)
	require.NoError(t, err)
	_ = p2

	require.NoError(t, pool.Free(p1))

	snapshot := append([]byte(nil), m.Bytes()...)

	// The second free succeeds and leaves the medium byte-identical.
	require.NoError(t, pool.Free(p1))
	require.Equal(t, snapshot, m.Bytes())
	require.NoError(t, pool.Verify())
}

func TestFreeCoalescesBothSides(t *testing.T) {
	m := medium.NewMemSize("merge", 4096)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Default))

	p1, err := pool.Alloc(32)
	require.NoError(t, err)
	p2, err := pool.Alloc(32)
	require.NoError(t, err)
	p3, err := pool.Alloc(32)
	require.NoError(t, err)
	p4, err := pool.Alloc(32)
	require.NoError(t, err)
	_ = p4

	// Free left and right neighbors first, then the middle: all three
	// must collapse into a single free block at p1's block offset.
	require.NoError(t, pool.Free(p1))
	require.NoError(t, pool.Free(p3))
	require.NoError(t, pool.Free(p2))
	require.NoError(t, pool.Verify())

	size, err := pool.Size(p1)
	require.NoError(t, err)
	require.Equal(t, uint64(32*3+2*16), size)

	// First fit places the next allocation back at the merged block.
	again, err := pool.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, p1, again)
}

func TestFreeInvalidPointer(t *testing.T) {
	m := medium.NewMemSize("bad", 4096)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Default))

	require.ErrorIs(t, pool.Free(0), errs.ErrInvalidPointer)
	require.ErrorIs(t, pool.Free(8), errs.ErrInvalidPointer)
	require.ErrorIs(t, pool.Free(1<<30), errs.ErrInvalidPointer)
}

func TestFreeTailTruncatesDynamicMedium(t *testing.T) {
	m := medium.NewMem("shrink")
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Dynamic))

	p1, err := pool.Alloc(64)
	require.NoError(t, err)
	p2, err := pool.Alloc(64)
	require.NoError(t, err)
	require.Equal(t, uint64(8+16+64+8), p2)
	require.Equal(t, uint64(8+2*(16+64)), pool.MediumSize())

	// Freeing the last block drops it from the medium entirely.
	require.NoError(t, pool.Free(p2))
	require.Equal(t, uint64(8+16+64), pool.MediumSize())
	require.NoError(t, pool.Verify())

	// Freeing the now-last block coalesces with nothing and shrinks the
	// medium back to the bare header.
	require.NoError(t, pool.Free(p1))
	require.Equal(t, uint64(8), pool.MediumSize())
	require.NoError(t, pool.Verify())

	size, err := m.Size()
	require.NoError(t, err)
	require.Equal(t, int64(8), size)

	// The pool stays usable; allocation grows the medium again.
	p3, err := pool.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, uint64(16), p3)
}

func TestFreeStaticMediumKeepsSize(t *testing.T) {
	m := medium.NewMemSize("static", 4096)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Default))

	p1, err := pool.Alloc(32)
	require.NoError(t, err)
	require.NoError(t, pool.Free(p1))

	size, err := m.Size()
	require.NoError(t, err)
	require.Equal(t, int64(4096), size)
	require.NoError(t, pool.Verify())
}
