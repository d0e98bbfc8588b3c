package chunk

import "errors"

var (
	// ErrUnterminated reports a fenced chunk with no closing marker before
	// the next chunk opens or the document ends.
	ErrUnterminated = errors.New("unterminated chunk")

	// ErrDuplicateName reports two referenceable chunks sharing a name.
	ErrDuplicateName = errors.New("duplicate chunk name")

	// ErrNotFound reports a requested chunk name absent from the store.
	// Unreferenceable names are never present, so they also surface as this.
	ErrNotFound = errors.New("chunk not found")
)
