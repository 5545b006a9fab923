// Package medium abstracts the seekable byte storage a palloc pool lives on.
//
// A Medium is a flat, mutable, optionally growable sequence of bytes with
// positional I/O. Three implementations are provided:
//
//   - File: a regular file, the common case
//   - Mem: an in-memory byte slice, useful for tests and ephemeral pools
//   - Mmap: a memory-mapped file
//
// A Medium is not safe for concurrent access; it is designed for consumption
// by a single pool from one goroutine, matching the allocator's exclusive
// single-writer model.
package medium

import "io"

// Medium is a byte-addressable storage with explicit positional reads and
// writes. ReadAt and WriteAt are always addressed by an absolute offset;
// there is no file cursor to drift.
type Medium interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the current length of the medium in bytes.
	Size() (int64, error)

	// Truncate changes the length of the medium. Growing extends with zero
	// bytes where the implementation supports it.
	Truncate(size int64) error

	// Sync flushes buffered writes to durable storage. Implementations
	// without a durability layer return nil.
	Sync() error

	// Close releases the medium. The byte content persists for durable
	// implementations.
	Close() error

	// Name identifies the medium, typically a file path.
	Name() string
}
