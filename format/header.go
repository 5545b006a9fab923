// Package format defines the byte-exact on-medium layout of a palloc medium:
// the header with its magic bytes and persisted flags, and the boundary tags
// that delimit every block.
//
// All multi-byte integers on the medium are big-endian, independent of the
// host byte order, which keeps the format portable across architectures.
package format

import (
	"bytes"

	"github.com/arloliu/palloc/endian"
	"github.com/arloliu/palloc/errs"
)

var engine = endian.GetBigEndianEngine()

// Header represents the fixed header at offset 0 of every medium.
type Header struct {
	// Flags is the persisted option field.
	Flags Flags
}

// Parse reads the header from a byte slice.
//
// Returns:
//   - errs.ErrInvalidHeaderSize if data is not exactly HeaderSize bytes
//   - errs.ErrInvalidMagic if the magic bytes are absent
//   - errs.ErrExtendedHeader if the persisted flags carry the Extended bit
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if !bytes.Equal(data[:MagicSize], Magic[:]) {
		return errs.ErrInvalidMagic
	}

	h.Flags = Flags(engine.Uint32(data[MagicSize:HeaderSize]))
	if h.Flags.IsExtended() {
		return errs.ErrExtendedHeader
	}

	return nil
}

// Bytes serializes the header. The Sync bit is masked out before writing.
func (h *Header) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, Magic[:]...)
	b = engine.AppendUint32(b, uint32(h.Flags.Persisted()))

	return b
}
