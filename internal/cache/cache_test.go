package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDoc(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "analysis.md")
}

func testRun(doc string, chunks, objects int) Run {
	now := time.Now()
	return Run{
		ID:         uuid.NewString(),
		Document:   doc,
		Checksum:   "deadbeef",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
		Chunks:     chunks,
		Objects:    objects,
	}
}

func TestDir(t *testing.T) {
	assert.Equal(t, "book/analysis_cache", Dir("book/analysis.md"))
	assert.Equal(t, "analysis_cache", Dir("analysis"))
}

func TestLookupRoundTrip(t *testing.T) {
	doc := tempDoc(t)
	store, err := Open(doc)
	require.NoError(t, err)
	defer store.Close()

	entries := []Entry{
		{Chunk: "load", Name: "x", Kind: "int", Value: 42},
		{Chunk: "clean", Name: "y", Kind: "[]float64", Value: []float64{1.5, 2.5}},
		{Chunk: "clean", Name: "labels", Kind: "map[string]string", Value: map[string]string{"c1": "T cell"}},
	}
	require.NoError(t, store.Replace(testRun(doc, 2, len(entries)), entries))

	got, err := store.Lookup("load", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Value)
	assert.Equal(t, "int", got.Kind)

	got, err = store.Lookup("clean", "y")
	require.NoError(t, err)
	if diff := cmp.Diff([]any{1.5, 2.5}, got.Value); diff != "" {
		t.Errorf("cached slice mismatch (-want +got):\n%s", diff)
	}

	got, err = store.Lookup("clean", "labels")
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]any{"c1": "T cell"}, got.Value); diff != "" {
		t.Errorf("cached map mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupMissingEntry(t *testing.T) {
	doc := tempDoc(t)
	store, err := Open(doc)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Lookup("load", "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "load")
}

func TestOpenExistingRequiresBake(t *testing.T) {
	doc := tempDoc(t)

	_, err := OpenExisting(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCache))

	store, err := Open(doc)
	require.NoError(t, err)
	store.Close()

	reader, err := OpenExisting(doc)
	require.NoError(t, err)
	reader.Close()
}

// A re-bake must not leak objects from chunks that no longer exist.
func TestReplaceDropsStaleObjects(t *testing.T) {
	doc := tempDoc(t)
	store, err := Open(doc)
	require.NoError(t, err)
	defer store.Close()

	first := []Entry{{Chunk: "old-chunk", Name: "stale", Kind: "int", Value: 1}}
	require.NoError(t, store.Replace(testRun(doc, 1, 1), first))

	second := []Entry{{Chunk: "new-chunk", Name: "fresh", Kind: "int", Value: 2}}
	require.NoError(t, store.Replace(testRun(doc, 1, 1), second))

	_, err = store.Lookup("old-chunk", "stale")
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := store.Lookup("new-chunk", "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Value)
}

func TestLastRun(t *testing.T) {
	doc := tempDoc(t)
	store, err := Open(doc)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LastRun()
	assert.True(t, errors.Is(err, ErrNotFound))

	run := testRun(doc, 3, 5)
	require.NoError(t, store.Replace(run, nil))

	got, err := store.LastRun()
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 3, got.Chunks)
	assert.Equal(t, 5, got.Objects)
}

func TestEntriesOrdered(t *testing.T) {
	doc := tempDoc(t)
	store, err := Open(doc)
	require.NoError(t, err)
	defer store.Close()

	entries := []Entry{
		{Chunk: "b", Name: "z", Kind: "int", Value: 1},
		{Chunk: "a", Name: "m", Kind: "int", Value: 2},
	}
	require.NoError(t, store.Replace(testRun(doc, 2, 2), entries))

	got, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Chunk)
	assert.Equal(t, "b", got[1].Chunk)
}
