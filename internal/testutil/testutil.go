// Package testutil provides fixtures shared by package tests
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// NetworkEnv enables tests that reach remote git hosts when set to 1
const NetworkEnv = "REPOREPORT_NETWORK_TESTS"

// WriteFile writes content to root/rel, creating parent directories, and
// returns the full path
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteTree writes every file of files (slash-separated relative path to
// content) under root
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
}

// SampleProject returns the path of the Python fixture project in testdata
func SampleProject(t testing.TB) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate testutil source")

	dir := filepath.Join(filepath.Dir(file), "..", "..", "testdata", "sample")
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	return dir
}

// RequireNetwork skips the test unless network tests are enabled
func RequireNetwork(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}
	if os.Getenv(NetworkEnv) != "1" {
		t.Skipf("skipping network test: set %s=1 to run", NetworkEnv)
	}
}
