// Package endian provides the byte order engine for the palloc medium
// format.
//
// It combines the ByteOrder and AppendByteOrder interfaces from Go's
// standard encoding/binary package into a single EndianEngine interface.
// The on-medium format stores every multi-byte integer big-endian,
// independent of the host byte order, so the format, pool and block I/O
// all share the engine returned by GetBigEndianEngine():
//
//	engine := endian.GetBigEndianEngine()
//	engine.PutUint64(buf, tag)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine is immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.BigEndian and binary.LittleEndian
// from the standard library, making it fully compatible with existing Go
// code while providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine. This is the byte order
// of the palloc medium format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
