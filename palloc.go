// Package palloc is a persistent allocator for variable-sized byte blobs
// stored in a single file or other seekable medium.
//
// It exposes the interface of a process-memory allocator — allocate a blob
// of N bytes, free a blob, ask a blob its size, iterate live blobs — but
// every operation is durable: reopening the medium yields exactly the set
// of live blobs, with their contents, that existed at close time.
//
// # Medium layout
//
// The medium starts with an 8-byte header ("PBA\0" magic plus big-endian
// flags) followed by blocks tiling the rest of the medium. Every block
// carries an identical 8-byte boundary tag at both ends: the top bit marks
// the block free, the lower 63 bits hold the payload size. Free blocks are
// threaded into a doubly-linked list sorted by offset, with the two 8-byte
// list pointers stored in the first 16 payload bytes. Boundary tags make
// physical-neighbor navigation O(1), so freeing coalesces adjacent free
// blocks without scanning.
//
// # Basic Usage
//
//	pool, err := palloc.Open("data.db", palloc.Dynamic)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pool.Init(palloc.Dynamic); err != nil {
//	    return err
//	}
//
//	ptr, err := pool.Alloc(128)
//	if err != nil {
//	    return err
//	}
//	// The payload bytes live at [ptr, ptr+128) on the medium.
//
// Pointers returned by Alloc are absolute medium offsets of the first
// payload byte and stay valid across close and reopen.
//
// # Concurrency
//
// A Pool serializes its own operations with an internal mutex, but the
// allocator assumes exclusive single-process access to the medium; there is
// no cross-process locking.
package palloc

import "github.com/arloliu/palloc/format"

// Flags configure a medium. See the format package for the bit layout.
type Flags = format.Flags

// Flag values recognized by Open and Init.
const (
	// Default selects no options.
	Default = format.Default
	// Dynamic allows the medium to grow on allocation and to be created or
	// extended to minimum size during Init.
	Dynamic = format.Dynamic
	// Sync requests data-sync-on-write when opening the medium; it is not
	// persisted in the header.
	Sync = format.Sync
	// Extended is reserved for a future extended header; media carrying it
	// are rejected.
	Extended = format.Extended
)
