package medium

import (
	"fmt"
	"os"

	"github.com/arloliu/palloc/internal/options"
)

// fileConfig collects the adjustable parameters of a file medium.
type fileConfig struct {
	mode       os.FileMode
	syncWrites bool
}

// FileOption is a functional option for OpenFile.
type FileOption = options.Option[*fileConfig]

// WithSyncWrites requests data-sync-on-write from the OS. On Linux the file
// is opened with O_DSYNC; on other platforms the option is silently ignored.
func WithSyncWrites() FileOption {
	return options.NoError(func(cfg *fileConfig) {
		cfg.syncWrites = true
	})
}

// WithFileMode sets the permission bits used when the file is created.
// The default is 0o644.
func WithFileMode(mode os.FileMode) FileOption {
	return options.New(func(cfg *fileConfig) error {
		if mode&os.ModeType != 0 {
			return fmt.Errorf("file mode %v is not a regular-file mode", mode)
		}
		cfg.mode = mode

		return nil
	})
}

// File is a Medium backed by a regular file.
type File struct {
	f    *os.File
	path string
}

var _ Medium = (*File)(nil)

// OpenFile opens path read-write as a medium, creating the file if it does
// not exist. The path is canonicalized first; opening fails if that yields
// nothing.
func OpenFile(path string, opts ...FileOption) (*File, error) {
	cfg := &fileConfig{mode: 0o644}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	canon, err := CanonicalPath(path)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %q: %w", path, err)
	}

	flags := os.O_RDWR | os.O_CREATE
	flags |= sysExtraOpenFlags(cfg.syncWrites)

	f, err := os.OpenFile(canon, flags, cfg.mode)
	if err != nil {
		return nil, err
	}

	return &File{f: f, path: canon}, nil
}

// ReadAt implements Medium.
func (m *File) ReadAt(b []byte, off int64) (int, error) {
	return m.f.ReadAt(b, off)
}

// WriteAt implements Medium. Writing past the current end extends the file.
func (m *File) WriteAt(b []byte, off int64) (int, error) {
	return m.f.WriteAt(b, off)
}

// Size implements Medium.
func (m *File) Size() (int64, error) {
	fi, err := m.f.Stat()
	if err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

// Truncate implements Medium.
func (m *File) Truncate(size int64) error {
	return m.f.Truncate(size)
}

// Sync implements Medium. It flushes file data, preferring the cheaper
// data-only sync where the platform offers one.
func (m *File) Sync() error {
	return sysDatasync(m.f)
}

// Close implements Medium.
func (m *File) Close() error {
	return m.f.Close()
}

// Name implements Medium. It returns the canonical path of the file.
func (m *File) Name() string {
	return m.path
}
