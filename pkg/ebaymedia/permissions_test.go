package ebaymedia

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairTreeFixesModes(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.Chmod(sub, 0o711))

	good := filepath.Join(root, "good.jpg")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))
	bad := filepath.Join(sub, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))

	report, err := RepairTree(root, DirMode, FileMode)
	require.NoError(t, err)

	// root dir + nested dir
	assert.Equal(t, 2, report.DirsChecked)
	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 1, report.FilesFixed)
	assert.Zero(t, report.Failures)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	info, err := os.Stat(sub)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(bad)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRepairTreeMissingRoot(t *testing.T) {
	_, err := RepairTree(filepath.Join(t.TempDir(), "nope"), DirMode, FileMode)
	assert.ErrorIs(t, err, ErrDirectoryMissing)
}

func TestRepairTreeCleanTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0o644))

	report, err := RepairTree(root, DirMode, FileMode)
	require.NoError(t, err)
	assert.Zero(t, report.DirsFixed)
	assert.Zero(t, report.FilesFixed)
}
