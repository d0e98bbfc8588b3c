package bake

import (
	"fmt"
	"regexp"
	"strings"

	"chunkcache/internal/chunk"
)

// Tutorial chunks run in-process, so imports are restricted to side-effect
// free stdlib packages. Filesystem, network, and exec access stay blocked.
var allowedImports = map[string]bool{
	"bytes":           true,
	"encoding/base64": true,
	"encoding/csv":    true,
	"encoding/json":   true,
	"errors":          true,
	"fmt":             true,
	"math":            true,
	"math/rand":       true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
	"unicode":         true,
}

var importLine = regexp.MustCompile(`^\s*import\s+(?:_\s+)?"([^"]+)"`)

// validateImports rejects chunks importing packages outside the whitelist.
// Only single-line import statements are recognized; tutorial chunks are
// statement sequences, not full source files with import groups.
func validateImports(c *chunk.Chunk) error {
	for _, line := range c.Body {
		m := importLine.FindStringSubmatch(line)
		if m == nil {
			if strings.HasPrefix(strings.TrimSpace(line), "import (") {
				return fmt.Errorf("grouped imports are not supported in chunks")
			}
			continue
		}
		if !allowedImports[m[1]] {
			return fmt.Errorf("import %q is not allowed in chunks", m[1])
		}
	}
	return nil
}
