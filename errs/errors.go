// Package errs defines the sentinel error values returned by the palloc
// library. Callers can match them with errors.Is after any amount of
// wrapping.
package errs

import "errors"

var (
	// ErrInvalidHeaderSize indicates the header buffer is not exactly 8 bytes.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidMagic indicates the medium does not start with the "PBA\0" magic.
	ErrInvalidMagic = errors.New("invalid magic bytes")

	// ErrExtendedHeader indicates the medium carries the EXTENDED flag,
	// which denotes a future header format this implementation does not read.
	ErrExtendedHeader = errors.New("unsupported extended header")

	// ErrIncompatibleMedium indicates the medium is too small to initialize
	// and growing it was not permitted (Dynamic flag not set).
	ErrIncompatibleMedium = errors.New("incompatible medium")

	// ErrMediumClosed indicates an operation on a closed pool.
	ErrMediumClosed = errors.New("medium is closed")

	// ErrInvalidPointer indicates a pointer that cannot address a block:
	// zero, before the header end, or past the end of the medium.
	ErrInvalidPointer = errors.New("invalid pointer")

	// ErrShortIO indicates a read or write transferred fewer bytes than the
	// on-medium structure requires.
	ErrShortIO = errors.New("short read/write")
)
