package medium

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPathExisting(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.db")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	canon, err := CanonicalPath(file)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(canon))

	// Canonicalizing twice is stable.
	again, err := CanonicalPath(canon)
	require.NoError(t, err)
	require.Equal(t, canon, again)
}

func TestCanonicalPathMissingLeaf(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "not-created-yet.db")

	canon, err := CanonicalPath(missing)
	require.NoError(t, err)
	require.Equal(t, "not-created-yet.db", filepath.Base(canon))

	canonDir, err := CanonicalPath(dir)
	require.NoError(t, err)
	require.Equal(t, canonDir, filepath.Dir(canon))
}

func TestCanonicalPathMissingTree(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "a", "b", "c.db")

	canon, err := CanonicalPath(deep)
	require.NoError(t, err)
	require.Equal(t, "c.db", filepath.Base(canon))
}

func TestCanonicalPathSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	canon, err := CanonicalPath(filepath.Join(link, "data.db"))
	require.NoError(t, err)

	canonTarget, err := CanonicalPath(target)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(canonTarget, "data.db"), canon)
}
