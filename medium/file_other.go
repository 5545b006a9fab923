//go:build !linux

package medium

import "os"

// Platforms other than Linux fall back to full syncs; the sync-on-write
// request itself is silently ignored.

func sysExtraOpenFlags(bool) int {
	return 0
}

func sysDatasync(f *os.File) error {
	return f.Sync()
}
