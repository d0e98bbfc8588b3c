// Package transcript formats the chunks replayed by an extraction into a
// collapsible block for the rendered document. Output is pure presentation:
// nothing downstream parses it back.
package transcript

import (
	"fmt"
	"strings"

	"chunkcache/internal/chunk"
)

// Collapsible region markers. The details wrapper survives markdown
// rendering in book pipelines, so readers can audit the replayed code
// without it dominating the page.
const (
	openMarker  = "<details>\n<summary>Code used to generate these objects</summary>\n"
	closeMarker = "\n</details>"
)

// Render produces the transcript for a resolved prefix: every chunk in
// document order, each under a name header, inside one fenced code block
// wrapped in the collapsible markers.
func Render(prefix []*chunk.Chunk) string {
	var b strings.Builder
	b.WriteString(openMarker)
	b.WriteString("\n```go\n")
	for i, c := range prefix {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "//--- %s ---//\n", c.Name)
		b.WriteString(c.Text())
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	b.WriteString(closeMarker)
	return b.String()
}
