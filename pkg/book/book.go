// Package book is the public entry point for cached-chunk extraction. It is
// a thin shim over the internal pipeline so external document tooling can
// depend on it without importing internal packages.
package book

import (
	"context"

	"go.uber.org/zap"

	"chunkcache/internal/bake"
	"chunkcache/internal/bind"
	"chunkcache/internal/extract"
	"chunkcache/internal/locator"
)

// Book resolves short chapter identifiers against a directory layout and
// runs extractions against their caches.
type Book struct {
	loc    *locator.Locator
	logger *zap.Logger
}

// Result reports one extraction: the reconstructed variables, the chunk each
// value came from, and the transcript of the replayed code.
type Result struct {
	Objects    map[string]any
	Order      []string // object names in resolution order
	Sources    map[string]string
	Transcript string
}

// Open returns a Book rooted at baseDir with the standard chapter-location
// conventions. A nil logger is replaced with a no-op one.
func Open(baseDir string, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Book{loc: locator.New(baseDir), logger: logger}
}

// ExtractCached reconstructs the named objects from the chapter identified
// by doc, replaying the chunk prefix ending at the named chunk out of the
// chapter's persisted execution cache.
func (b *Book) ExtractCached(doc, chunkName string, objects ...string) (*Result, error) {
	path, err := b.loc.Resolve(doc)
	if err != nil {
		return nil, err
	}

	ns := bind.NewNamespace()
	res, err := extract.Cached(b.logger, extract.Request{
		Document: path,
		Chunk:    chunkName,
		Objects:  objects,
	}, ns)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Objects:    make(map[string]any, ns.Len()),
		Order:      ns.Names(),
		Sources:    res.Sources,
		Transcript: res.Transcript,
	}
	for _, name := range out.Order {
		v, _ := ns.Get(name)
		out.Objects[name] = v
	}
	return out, nil
}

// Bake executes the chapter identified by doc and populates its cache.
func (b *Book) Bake(ctx context.Context, doc string) error {
	path, err := b.loc.Resolve(doc)
	if err != nil {
		return err
	}
	_, err = bake.New(b.logger).Run(ctx, path)
	return err
}
