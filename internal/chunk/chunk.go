// Package chunk parses tutorial documents into an ordered store of named,
// fenced, executable code chunks and answers questions about them: which
// chunks precede a target, and which variables a chunk's body assigns.
package chunk

import (
	"regexp"
	"strings"
)

// UnreferenceablePrefix marks chunk names that are parsed but never stored.
// Such chunks can appear in a document for rendering purposes, but they are
// not valid extraction targets and never contribute cached variables.
const UnreferenceablePrefix = "unref-"

// Chunk is a single named fenced code chunk.
type Chunk struct {
	Name     string
	Body     []string // body lines, markers excluded
	Position int      // index in document order, counting referenceable chunks only
}

// Text returns the chunk body as a single string.
func (c *Chunk) Text() string {
	return strings.Join(c.Body, "\n")
}

// assignLine matches a line-level variable assignment: an optional `var`
// keyword, one or more comma-separated identifiers, then `:=` or a single `=`.
// This is a deliberate textual heuristic, not Go parsing: assignments hidden
// in if/for initializers or behind helper calls are not detected, and field
// or index assignments never match. Callers must treat a non-match as "chunk
// does not claim this variable", nothing stronger.
var assignLine = regexp.MustCompile(`^\s*(?:var\s+)?([A-Za-z_][A-Za-z0-9_]*(?:\s*,\s*[A-Za-z_][A-Za-z0-9_]*)*)\s*(?::=|=(?:[^=]|$))`)

// Assignments returns the variable names the chunk body textually assigns,
// in first-appearance order, duplicates and the blank identifier removed.
func (c *Chunk) Assignments() []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range c.Body {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		m := assignLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" || name == "_" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Assigns reports whether the chunk body textually assigns the named variable.
func (c *Chunk) Assigns(name string) bool {
	for _, n := range c.Assignments() {
		if n == name {
			return true
		}
	}
	return false
}

// Unreferenceable reports whether a chunk name is excluded from the store:
// anonymous chunks and names carrying the unreferenceable prefix.
func Unreferenceable(name string) bool {
	return name == "" || strings.HasPrefix(name, UnreferenceablePrefix)
}
