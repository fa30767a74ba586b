package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates a temporary directory holding files, keyed by
// slash-separated relative path, and returns its absolute path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

// SetupTestRepo writes files like WriteFiles and initializes a read-only
// Loam repository over them, so Loam reads the files in place instead of a
// dev-mode sandbox copy. It fails the test immediately on error.
func SetupTestRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir := WriteFiles(t, files)
	repo, err := loam.Init(dir, append([]loam.Option{
		loam.WithVersioning(false),
		loam.WithForceTemp(false),
		loam.WithReadOnly(true),
	}, opts...)...)
	require.NoError(t, err, "Failed to init loam repo")

	return dir, repo
}
