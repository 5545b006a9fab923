package format

// Flags is the packed option field of a medium. The low bits select
// behavior, the top bit is reserved for a future extended header.
//
// Flags passed to Init are persisted in the header with the Sync bit masked
// out; Sync is an open-time concern, not a property of the medium format.
type Flags uint32

const (
	// Default selects no options.
	Default Flags = 0
	// Dynamic marks a medium that may be grown by allocation and
	// created or extended to minimum size during initialization.
	Dynamic Flags = 1
	// Sync requests data-sync-on-write when opening the medium. It is
	// never persisted.
	Sync Flags = 2
	// Extended is reserved for a future longer header format. A medium
	// carrying it cannot be opened by this implementation.
	Extended Flags = 1 << 31
)

// IsDynamic returns whether the medium may grow on demand.
func (f Flags) IsDynamic() bool {
	return (f & Dynamic) != 0
}

// IsSync returns whether data-sync-on-write was requested.
func (f Flags) IsSync() bool {
	return (f & Sync) != 0
}

// IsExtended returns whether the reserved extended-header bit is set.
func (f Flags) IsExtended() bool {
	return (f & Extended) != 0
}

// Persisted returns the flags as they are written to the header: everything
// except the Sync bit.
func (f Flags) Persisted() Flags {
	return f &^ Sync
}
