// Package locator resolves short document identifiers to source files on
// disk. A book refers to its chapters by short names ("quality-control"),
// while the files themselves may live beside the caller, in a shared
// cross-chapter directory, or under a numbered chapter naming convention.
// The locator tries each convention in a fixed order and fails loudly when
// none of them produces a file.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSharedDir is the conventional sibling directory holding documents
// shared across chapters.
const DefaultSharedDir = "shared"

// DefaultExtension is appended to identifiers given without one.
const DefaultExtension = ".md"

// ErrNotFound reports that no strategy resolved the identifier.
var ErrNotFound = errors.New("document not found")

// Strategy is one resolution attempt. It returns the resolved path, whether
// it found anything, and an error only for genuine I/O failures.
type Strategy func(baseDir, id string) (string, bool, error)

// Locator resolves identifiers by trying an ordered list of strategies.
type Locator struct {
	baseDir    string
	strategies []Strategy
}

// New returns a locator rooted at baseDir with the standard strategy chain:
// direct file match, shared-directory match, then numbered-chapter match.
func New(baseDir string) *Locator {
	return &Locator{
		baseDir: baseDir,
		strategies: []Strategy{
			Direct,
			Shared(DefaultSharedDir),
			ChapterSuffix,
		},
	}
}

// NewWithStrategies returns a locator with an explicit strategy chain.
func NewWithStrategies(baseDir string, strategies ...Strategy) *Locator {
	return &Locator{baseDir: baseDir, strategies: strategies}
}

// Resolve maps an identifier to a document path, trying each strategy in
// order. All strategies failing is fatal for the caller: there is no
// document to extract from.
func (l *Locator) Resolve(id string) (string, error) {
	for _, strategy := range l.strategies {
		path, ok, err := strategy(l.baseDir, id)
		if err != nil {
			return "", fmt.Errorf("resolving %q: %w", id, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q (searched %s)", ErrNotFound, id, l.baseDir)
}

// withExtension appends the default extension unless the identifier already
// names one.
func withExtension(id string) string {
	if filepath.Ext(id) != "" {
		return id
	}
	return id + DefaultExtension
}

// Direct matches a file named exactly after the identifier in the base
// directory.
func Direct(baseDir, id string) (string, bool, error) {
	path := filepath.Join(baseDir, withExtension(id))
	if fileExists(path) {
		return path, true, nil
	}
	return "", false, nil
}

// Shared matches the identifier under a named sibling directory used for
// cross-chapter dependencies.
func Shared(dirName string) Strategy {
	return func(baseDir, id string) (string, bool, error) {
		path := filepath.Join(baseDir, dirName, withExtension(id))
		if fileExists(path) {
			return path, true, nil
		}
		return "", false, nil
	}
}

// ChapterSuffix matches a file whose name ends with the identifier under the
// numbered chapter convention, e.g. "03-quality-control.md" for the
// identifier "quality-control". The first match in lexical order wins, which
// is also chapter order under the convention.
func ChapterSuffix(baseDir, id string) (string, bool, error) {
	want := withExtension(id)
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == want {
			continue // already covered by Direct
		}
		if strings.HasSuffix(name, "-"+want) {
			return filepath.Join(baseDir, name), true, nil
		}
	}
	return "", false, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
