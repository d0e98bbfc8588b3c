// Package bake produces the persisted execution cache that extraction later
// reads. Baking evaluates every referenceable chunk of a document, in order,
// inside a sandboxed interpreter session, harvests the variables each chunk
// assigns, and writes them to the document's chunk cache in one transaction.
package bake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chunkcache/internal/bind"
	"chunkcache/internal/cache"
	"chunkcache/internal/chunk"
)

// Summary reports what a bake run produced.
type Summary struct {
	Run     cache.Run
	Objects []cache.Entry
}

// Baker executes documents and populates their caches.
type Baker struct {
	logger *zap.Logger
}

// New returns a Baker. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Baker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Baker{logger: logger}
}

// Run bakes one document. Every referenceable chunk is executed in document
// order in a single interpreter session, so later chunks see the variables
// of earlier ones, exactly as extraction will later assume. The cache is
// replaced wholesale; a failed run leaves the previous cache untouched.
func (b *Baker) Run(ctx context.Context, docPath string) (*Summary, error) {
	started := time.Now()

	text, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	store, err := chunk.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", docPath, err)
	}

	session, err := bind.NewSession()
	if err != nil {
		return nil, fmt.Errorf("starting interpreter session: %w", err)
	}

	var entries []cache.Entry
	for _, name := range store.Names() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("bake interrupted before chunk %q: %w", name, err)
		}
		c, _ := store.Get(name)

		if err := validateImports(c); err != nil {
			return nil, fmt.Errorf("chunk %q: %w", name, err)
		}
		if err := session.Exec(c.Text()); err != nil {
			return nil, fmt.Errorf("executing chunk %q: %w", name, err)
		}

		for _, varName := range c.Assignments() {
			value, err := session.Value(varName)
			if err != nil {
				// Textual detection can claim names the interpreter
				// never declared (e.g. assignments inside string
				// literals); those simply are not cacheable.
				b.logger.Warn("assigned variable unreadable, skipping",
					zap.String("chunk", name), zap.String("object", varName), zap.Error(err))
				continue
			}
			if _, err := json.Marshal(value); err != nil {
				b.logger.Warn("value not serializable, skipping",
					zap.String("chunk", name), zap.String("object", varName),
					zap.String("kind", fmt.Sprintf("%T", value)))
				continue
			}
			entries = append(entries, cache.Entry{
				Chunk: name,
				Name:  varName,
				Kind:  fmt.Sprintf("%T", value),
				Value: value,
			})
		}
		b.logger.Debug("baked chunk", zap.String("chunk", name))
	}

	sum := sha256.Sum256(text)
	run := cache.Run{
		ID:         uuid.NewString(),
		Document:   docPath,
		Checksum:   hex.EncodeToString(sum[:]),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Chunks:     store.Len(),
		Objects:    len(entries),
	}

	db, err := cache.Open(docPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Replace(run, entries); err != nil {
		return nil, fmt.Errorf("persisting cache for %s: %w", docPath, err)
	}

	b.logger.Info("baked document",
		zap.String("document", docPath),
		zap.Int("chunks", run.Chunks),
		zap.Int("objects", run.Objects),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)),
	)
	return &Summary{Run: run, Objects: entries}, nil
}
