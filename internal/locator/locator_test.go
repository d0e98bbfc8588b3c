package locator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0644))
}

func TestResolveDirect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "quality-control.md"))

	got, err := New(dir).Resolve("quality-control")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quality-control.md"), got)
}

func TestResolveKeepsExplicitExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"))

	got, err := New(dir).Resolve("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), got)
}

func TestResolveSharedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "reference-data.md"))

	got, err := New(dir).Resolve("reference-data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shared", "reference-data.md"), got)
}

func TestResolveChapterSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "03-quality-control.md"))

	got, err := New(dir).Resolve("quality-control")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "03-quality-control.md"), got)
}

// Earlier strategies win: a direct match shadows a numbered chapter of the
// same identifier.
func TestResolveStrategyOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clustering.md"))
	writeFile(t, filepath.Join(dir, "07-clustering.md"))

	got, err := New(dir).Resolve("clustering")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clustering.md"), got)
}

func TestResolveNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := New(dir).Resolve("never-written")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "never-written")
}

func TestChapterSuffixDoesNotMatchSubstring(t *testing.T) {
	dir := t.TempDir()
	// "control.md" is a suffix of the file name but not under the NN-id
	// convention, which requires a hyphen boundary.
	writeFile(t, filepath.Join(dir, "nocontrol.md"))

	_, err := New(dir).Resolve("control")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewWithStrategies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deps", "extra.md"))

	loc := NewWithStrategies(dir, Shared("deps"))
	got, err := loc.Resolve("extra")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deps", "extra.md"), got)
}
