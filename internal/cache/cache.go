// Package cache reads and writes the persisted execution cache of a baked
// document. The cache lives in a SQLite database under a sibling directory
// derived from the document path ("analysis.md" -> "analysis_cache/chunks.db")
// and maps (chunk name, variable name) to a JSON-encoded value. Extraction
// only ever reads; the bake pipeline is the sole writer.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DirSuffix is appended to the document path (extension stripped) to form
// the cache directory.
const DirSuffix = "_cache"

// dbFileName is the cache database file inside the cache directory.
const dbFileName = "chunks.db"

var (
	// ErrNotFound reports an absent (chunk, variable) entry. Extraction
	// treats this as fatal for the whole call; it never falls back to an
	// earlier chunk's value.
	ErrNotFound = errors.New("cache entry not found")

	// ErrNoCache reports that the document has no cache database at all,
	// i.e. it was never baked.
	ErrNoCache = errors.New("no execution cache for document")
)

// Entry is one cached variable value.
type Entry struct {
	Chunk     string
	Name      string
	Kind      string // Go type string recorded at bake time, informational
	Value     any
	CreatedAt time.Time
}

// Run records one bake of a document.
type Run struct {
	ID         string
	Document   string
	Checksum   string
	StartedAt  time.Time
	FinishedAt time.Time
	Chunks     int
	Objects    int
}

// Dir returns the cache directory for a document path.
func Dir(docPath string) string {
	ext := filepath.Ext(docPath)
	return strings.TrimSuffix(docPath, ext) + DirSuffix
}

// Store is a handle on one document's cache database.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the cache database for a document and ensures the
// schema exists. Used by the bake pipeline.
func Open(docPath string) (*Store, error) {
	dir := Dir(docPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return openAt(filepath.Join(dir, dbFileName))
}

// OpenExisting opens the cache database for a document, failing with
// ErrNoCache when the document was never baked. Used by extraction.
func OpenExisting(docPath string) (*Store, error) {
	dbPath := filepath.Join(Dir(docPath), dbFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %s (expected cache at %s)", ErrNoCache, docPath, dbPath)
	}
	return openAt(dbPath)
}

func openAt(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return s, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS objects (
		chunk TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		value_json BLOB NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (chunk, name)
	);

	CREATE TABLE IF NOT EXISTS bake_runs (
		id TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		checksum TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		chunks INTEGER NOT NULL,
		objects INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_finished ON bake_runs(finished_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Lookup fetches the cached value for one variable of one chunk. Absence is
// reported as ErrNotFound and carries both key components in the message.
func (s *Store) Lookup(chunkName, varName string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry Entry
		raw   []byte
	)
	entry.Chunk = chunkName
	entry.Name = varName
	row := s.db.QueryRow(
		`SELECT kind, value_json, created_at FROM objects WHERE chunk = ? AND name = ?`,
		chunkName, varName,
	)
	if err := row.Scan(&entry.Kind, &raw, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: variable %q in chunk %q", ErrNotFound, varName, chunkName)
		}
		return Entry{}, fmt.Errorf("reading cache entry: %w", err)
	}

	value, err := decodeValue(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("decoding cached value for %q: %w", varName, err)
	}
	entry.Value = value
	return entry, nil
}

// Entries returns every cached object in (chunk, name) order.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT chunk, name, kind, value_json, created_at FROM objects ORDER BY chunk, name`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			raw []byte
		)
		if err := rows.Scan(&e.Chunk, &e.Name, &e.Kind, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Value, err = decodeValue(raw); err != nil {
			return nil, fmt.Errorf("decoding cached value for %q: %w", e.Name, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Replace atomically swaps the cache content for the results of one bake run.
// Prior objects are dropped so stale variables from removed chunks cannot
// survive a re-bake.
func (s *Store) Replace(run Run, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM objects`); err != nil {
		return fmt.Errorf("clearing stale cache: %w", err)
	}

	now := time.Now().UTC()
	for _, e := range entries {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("encoding value %q of chunk %q: %w", e.Name, e.Chunk, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO objects (chunk, name, kind, value_json, created_at) VALUES (?, ?, ?, ?, ?)`,
			e.Chunk, e.Name, e.Kind, raw, now,
		); err != nil {
			return fmt.Errorf("writing value %q of chunk %q: %w", e.Name, e.Chunk, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO bake_runs (id, document, checksum, started_at, finished_at, chunks, objects)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Document, run.Checksum, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Chunks, run.Objects,
	); err != nil {
		return fmt.Errorf("recording bake run: %w", err)
	}

	return tx.Commit()
}

// LastRun returns the most recent bake run, or ErrNotFound when the document
// was opened writable but never actually baked.
func (s *Store) LastRun() (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var run Run
	row := s.db.QueryRow(
		`SELECT id, document, checksum, started_at, finished_at, chunks, objects
		 FROM bake_runs ORDER BY finished_at DESC LIMIT 1`)
	err := row.Scan(&run.ID, &run.Document, &run.Checksum, &run.StartedAt, &run.FinishedAt, &run.Chunks, &run.Objects)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: no bake runs recorded", ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("reading last bake run: %w", err)
	}
	return run, nil
}

// decodeValue unmarshals a stored JSON value. Integral numbers come back as
// int64 and everything else numeric as float64, so round-tripped counters
// stay usable as integers.
func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}
