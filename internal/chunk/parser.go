package chunk

import (
	"fmt"
	"regexp"
	"strings"
)

// Fenced chunk markers, matched at line granularity only. An open marker is a
// line beginning with the ```{go prefix, an optional chunk name, and an
// optional comma-separated attribute list. A close marker is a line holding
// nothing but the triple fence. Inline or nested fences are unsupported.
var (
	openMarker  = regexp.MustCompile("^```\\{go(?:[ \t]+([A-Za-z0-9][A-Za-z0-9_.-]*))?(?:[ \t]*,[^}]*)?\\}[ \t]*$")
	closeMarker = regexp.MustCompile("^[ \t]*```[ \t]*$")
)

// Parse scans document text top-to-bottom and builds the ordered chunk store.
// Every open marker delimits a candidate region running up to the next open
// marker (or end of document); the body is everything before the first close
// marker inside that region. A region without a close marker aborts the whole
// parse. Anonymous and unreferenceable chunks are consumed during scanning so
// that later chunk boundaries stay correct, but they are not stored.
func Parse(text string) (*Store, error) {
	lines := strings.Split(text, "\n")

	// Pre-compute open marker positions so each region's upper bound is known.
	type opening struct {
		line int
		name string
	}
	var opens []opening
	for i, line := range lines {
		if m := openMarker.FindStringSubmatch(line); m != nil {
			opens = append(opens, opening{line: i, name: m[1]})
		}
	}

	store := NewStore()
	for oi, open := range opens {
		regionEnd := len(lines)
		if oi+1 < len(opens) {
			regionEnd = opens[oi+1].line
		}

		closeAt := -1
		for j := open.line + 1; j < regionEnd; j++ {
			if closeMarker.MatchString(lines[j]) {
				closeAt = j
				break
			}
		}
		if closeAt < 0 {
			label := open.name
			if label == "" {
				label = "<anonymous>"
			}
			return nil, fmt.Errorf("%w: chunk %q opened at line %d has no closing fence", ErrUnterminated, label, open.line+1)
		}

		if Unreferenceable(open.name) {
			continue
		}

		body := make([]string, closeAt-open.line-1)
		copy(body, lines[open.line+1:closeAt])
		if err := store.add(&Chunk{Name: open.name, Body: body}); err != nil {
			return nil, fmt.Errorf("line %d: %w", open.line+1, err)
		}
	}
	return store, nil
}
