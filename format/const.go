package format

const (
	// MagicSize is the length of the magic byte sequence at offset 0.
	MagicSize = 4
	// FlagsSize is the length of the persisted big-endian flags field.
	FlagsSize = 4
	// HeaderSize is the total header length: magic plus flags.
	HeaderSize = MagicSize + FlagsSize

	// TagSize is the length of one boundary tag.
	TagSize = 8
	// PointerSize is the length of one on-medium offset pointer.
	PointerSize = 8

	// MinPayload is the smallest payload a block may carry. It must hold the
	// two free-list pointers of a free block.
	MinPayload = 2 * PointerSize
	// BlockOverhead is the space consumed by a block's two boundary tags.
	BlockOverhead = 2 * TagSize
	// MinBlockSize is the total footprint of a minimum-payload block.
	MinBlockSize = MinPayload + BlockOverhead
	// MinMediumSize is the smallest usable medium: header plus one
	// minimum-sized free block.
	MinMediumSize = HeaderSize + MinBlockSize
)

// Magic identifies a palloc medium. The bytes are ASCII 'P', 'B', 'A'
// followed by a NUL.
var Magic = [MagicSize]byte{'P', 'B', 'A', 0}
