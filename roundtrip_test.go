package palloc

import (
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/palloc/medium"
)

// fillPayload writes a deterministic pattern derived from seed into the
// blob at ptr and returns the pattern's digest.
func fillPayload(t *testing.T, m medium.Medium, ptr, size, seed uint64) uint64 {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(seed + uint64(i)*31)
	}
	_, err := m.WriteAt(data, int64(ptr))
	require.NoError(t, err)

	return xxhash.Sum64(data)
}

func payloadDigest(t *testing.T, m medium.Medium, ptr, size uint64) uint64 {
	t.Helper()

	data := make([]byte, size)
	_, err := m.ReadAt(data, int64(ptr))
	require.NoError(t, err)

	return xxhash.Sum64(data)
}

func TestRoundTripThroughClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.db")

	m, err := medium.OpenFile(path)
	require.NoError(t, err)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Dynamic))

	// Allocate a handful of blobs, fill them, then churn other blobs so
	// splits, frees and coalesces happen around the survivors.
	type blob struct {
		ptr    uint64
		size   uint64
		digest uint64
	}

	var live []blob
	for i := uint64(0); i < 8; i++ {
		size := 16 + i*24
		ptr, err := pool.Alloc(size)
		require.NoError(t, err)
		require.NotZero(t, ptr)

		real, err := pool.Size(ptr)
		require.NoError(t, err)
		require.GreaterOrEqual(t, real, size)

		live = append(live, blob{ptr: ptr, size: size, digest: fillPayload(t, m, ptr, size, i)})
	}

	// Churn: free every other blob and allocate replacements.
	for i := 0; i < len(live); i += 2 {
		require.NoError(t, pool.Free(live[i].ptr))
	}
	survivors := make([]blob, 0, len(live)/2)
	for i := 1; i < len(live); i += 2 {
		survivors = append(survivors, live[i])
	}
	for i := uint64(0); i < 4; i++ {
		_, err := pool.Alloc(40 + i)
		require.NoError(t, err)
	}
	require.NoError(t, pool.Verify())
	require.NoError(t, pool.Close())

	// Reopen: every surviving payload must read back byte-identical.
	m, err = medium.OpenFile(path)
	require.NoError(t, err)
	pool, err = New(m)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, pool.Init(Default))
	require.NoError(t, pool.Verify())
	require.Equal(t, Dynamic, pool.Flags())

	for _, b := range survivors {
		require.Equal(t, b.digest, payloadDigest(t, m, b.ptr, b.size))

		size, err := pool.Size(b.ptr)
		require.NoError(t, err)
		require.GreaterOrEqual(t, size, b.size)
	}
}

func TestAllocSizeFloor(t *testing.T) {
	m := medium.NewMemSize("floor", 4096)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Default))

	tests := []struct {
		name        string
		request     uint64
		sizeAtLeast uint64
	}{
		{name: "zero request", request: 0, sizeAtLeast: 16},
		{name: "tiny request", request: 1, sizeAtLeast: 16},
		{name: "exact minimum", request: 16, sizeAtLeast: 16},
		{name: "above minimum", request: 100, sizeAtLeast: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr, err := pool.Alloc(tt.request)
			require.NoError(t, err)
			require.NotZero(t, ptr)

			size, err := pool.Size(ptr)
			require.NoError(t, err)
			require.GreaterOrEqual(t, size, tt.sizeAtLeast)
		})
	}
}

func TestAllocSplitThreshold(t *testing.T) {
	t.Run("Leftover of exactly one minimum block is not split", func(t *testing.T) {
		// Medium sized so the spanning free block has payload 48: a
		// 16-byte request leaves exactly 32 bytes, which stays whole.
		m := medium.NewMemSize("nosplit", 8+16+48)
		pool, err := New(m)
		require.NoError(t, err)
		require.NoError(t, pool.Init(Default))

		ptr, err := pool.Alloc(16)
		require.NoError(t, err)
		require.Equal(t, uint64(16), ptr)

		size, err := pool.Size(ptr)
		require.NoError(t, err)
		require.Equal(t, uint64(48), size)

		// Nothing is left to allocate.
		next, err := pool.Alloc(16)
		require.NoError(t, err)
		require.Equal(t, uint64(0), next)
		require.NoError(t, pool.Verify())
	})

	t.Run("Leftover above the minimum is split", func(t *testing.T) {
		m := medium.NewMemSize("split", 8+16+64)
		pool, err := New(m)
		require.NoError(t, err)
		require.NoError(t, pool.Init(Default))

		ptr, err := pool.Alloc(16)
		require.NoError(t, err)
		require.Equal(t, uint64(16), ptr)

		size, err := pool.Size(ptr)
		require.NoError(t, err)
		require.Equal(t, uint64(16), size)

		// The remainder became a free block with a 32-byte payload.
		rest, err := pool.Alloc(16)
		require.NoError(t, err)
		require.Equal(t, uint64(48), rest)

		size, err = pool.Size(rest)
		require.NoError(t, err)
		require.Equal(t, uint64(32), size)
		require.NoError(t, pool.Verify())
	})
}

func TestPoolOverMmapMedium(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.db")

	m, err := medium.OpenMmap(path)
	require.NoError(t, err)
	pool, err := New(m)
	require.NoError(t, err)
	require.NoError(t, pool.Init(Dynamic))

	ptr, err := pool.Alloc(64)
	require.NoError(t, err)
	digest := fillPayload(t, m, ptr, 64, 7)
	require.NoError(t, pool.Verify())
	require.NoError(t, pool.Close())

	// The mapped writes must be visible through a plain file medium.
	f, err := medium.OpenFile(path)
	require.NoError(t, err)
	pool, err = New(f)
	require.NoError(t, err)
	defer pool.Close()

	require.Equal(t, digest, payloadDigest(t, f, ptr, 64))

	first, err := pool.First()
	require.NoError(t, err)
	require.Equal(t, ptr, first)
}
