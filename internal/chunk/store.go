package chunk

import "fmt"

// Store is an ordered mapping from chunk name to chunk, preserving document
// order. It is built fresh for every extraction and discarded afterwards;
// nothing is cached across calls.
type Store struct {
	order  []*Chunk
	byName map[string]*Chunk
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Chunk)}
}

func (s *Store) add(c *Chunk) error {
	if _, exists := s.byName[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
	}
	c.Position = len(s.order)
	s.order = append(s.order, c)
	s.byName[c.Name] = c
	return nil
}

// Len returns the number of referenceable chunks.
func (s *Store) Len() int {
	return len(s.order)
}

// Names returns all chunk names in document order.
func (s *Store) Names() []string {
	names := make([]string, len(s.order))
	for i, c := range s.order {
		names[i] = c.Name
	}
	return names
}

// Get looks up a chunk by name.
func (s *Store) Get(name string) (*Chunk, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Prefix returns the ordered run of chunks up to and including the named
// target. The prefix is the complete search space for variable resolution and
// the complete content of the transcript; chunks after the target are never
// inspected. An absent target (including names excluded as unreferenceable)
// is an error.
func (s *Store) Prefix(target string) ([]*Chunk, error) {
	c, ok := s.byName[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, target)
	}
	prefix := make([]*Chunk, c.Position+1)
	copy(prefix, s.order[:c.Position+1])
	return prefix, nil
}
