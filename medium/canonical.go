package medium

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// CanonicalPath resolves path to an absolute path with symlinks, "." and
// ".." eliminated. The leaf does not need to exist: the longest existing
// prefix is resolved and the non-existing remainder is appended verbatim,
// which allows canonicalizing the path of a medium that is about to be
// created.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	remainder := ""
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Hit the root without finding an existing prefix.
			return "", err
		}
		remainder = filepath.Join(filepath.Base(cur), remainder)
		cur = parent
	}
}
