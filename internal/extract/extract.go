// Package extract replays the minimum prior work needed to reconstruct
// variables computed by an earlier tutorial document. It parses the document
// into named chunks, resolves the ordered prefix up to a target chunk, loads
// each requested variable from the document's persisted execution cache, and
// renders a transcript of the replayed code.
package extract

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"chunkcache/internal/bind"
	"chunkcache/internal/cache"
	"chunkcache/internal/chunk"
	"chunkcache/internal/transcript"
)

// ErrObjectNotFound reports a requested variable that no chunk in the
// resolved prefix assigns. The request cannot be honestly fulfilled, so this
// is fatal rather than a warning.
var ErrObjectNotFound = errors.New("object not assigned in any prior chunk")

// Request names what to reconstruct: the document, the target chunk bounding
// the replayed prefix, and the variables to load.
type Request struct {
	Document string   // path to the source document
	Chunk    string   // target chunk name, inclusive upper bound
	Objects  []string // variable names to reconstruct
}

// Result reports a successful extraction.
type Result struct {
	Prefix     []*chunk.Chunk    // replayed chunks in document order
	Sources    map[string]string // variable name -> chunk whose cache entry supplied it
	Transcript string
}

// Cached runs the full pipeline and binds each reconstructed variable into
// ns. Bindings are written as they resolve; if a later variable fails, the
// earlier bindings remain — there is no rollback. Parse and target errors
// happen before any binding.
//
// Variable resolution is textual: the prefix is scanned newest-first for a
// chunk whose body assigns the variable, and that chunk's cache entry is
// authoritative. A cache miss there fails the call outright; it never falls
// back to an older assignment of the same name, since silently reviving a
// stale value would be worse than failing.
func Cached(logger *zap.Logger, req Request, ns *bind.Namespace) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	text, err := os.ReadFile(req.Document)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	store, err := chunk.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.Document, err)
	}

	prefix, err := store.Prefix(req.Chunk)
	if err != nil {
		return nil, fmt.Errorf("resolving target in %s: %w", req.Document, err)
	}
	logger.Debug("resolved chunk prefix",
		zap.String("document", req.Document),
		zap.String("target", req.Chunk),
		zap.Int("chunks", len(prefix)),
	)

	db, err := cache.OpenExisting(req.Document)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	sources := make(map[string]string, len(req.Objects))
	for _, name := range req.Objects {
		owner := lastAssigning(prefix, name)
		if owner == nil {
			return nil, fmt.Errorf("%w: %q (searched %d chunks up to %q)",
				ErrObjectNotFound, name, len(prefix), req.Chunk)
		}

		entry, err := db.Lookup(owner.Name, name)
		if err != nil {
			return nil, fmt.Errorf("loading %q assigned by chunk %q: %w", name, owner.Name, err)
		}

		ns.Set(name, entry.Value)
		sources[name] = owner.Name
		logger.Debug("bound cached object",
			zap.String("object", name),
			zap.String("chunk", owner.Name),
			zap.String("kind", entry.Kind),
		)
	}

	return &Result{
		Prefix:     prefix,
		Sources:    sources,
		Transcript: transcript.Render(prefix),
	}, nil
}

// lastAssigning returns the most recent chunk in the prefix whose body
// textually assigns the variable, or nil.
func lastAssigning(prefix []*chunk.Chunk, name string) *chunk.Chunk {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i].Assigns(name) {
			return prefix[i]
		}
	}
	return nil
}
