//go:build linux

package medium

import (
	"os"

	"golang.org/x/sys/unix"
)

func sysExtraOpenFlags(syncWrites bool) int {
	if syncWrites {
		return unix.O_DSYNC
	}

	return 0
}

func sysDatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
