// Package bind models the caller's ambient variable scope. The extraction
// pipeline writes reconstructed variables into an explicit Namespace rather
// than mutating any process-global state directly; adapters such as Session
// then merge the namespace into whatever scope the caller actually owns (an
// interpreter session for executable documents, or nothing at all for a CLI
// that only prints what it found).
package bind

// Namespace is an ordered set of named values. Insertion order is preserved
// so callers can report bindings in the order they were resolved.
type Namespace struct {
	order  []string
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set binds a value, overwriting any previous binding of the same name.
func (n *Namespace) Set(name string, value any) {
	if _, exists := n.values[name]; !exists {
		n.order = append(n.order, name)
	}
	n.values[name] = value
}

// Get looks up a bound value.
func (n *Namespace) Get(name string) (any, bool) {
	v, ok := n.values[name]
	return v, ok
}

// Names returns bound names in insertion order.
func (n *Namespace) Names() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Len returns the number of bindings.
func (n *Namespace) Len() int {
	return len(n.values)
}

// MergeInto copies every binding into dst, preserving insertion order.
// Bindings already present in dst are overwritten, matching the semantics of
// re-running an extraction in the same session.
func (n *Namespace) MergeInto(dst *Namespace) {
	for _, name := range n.order {
		dst.Set(name, n.values[name])
	}
}
