package bind

import (
	"fmt"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Session wraps a yaegi interpreter holding the live variable scope of an
// executable document. Chunk bodies are plain Go statements evaluated in
// REPL fashion; variables declared by one chunk stay visible to the next.
type Session struct {
	interp *interp.Interpreter
}

// NewSession creates an interpreter session with the standard library
// symbols loaded.
func NewSession() (*Session, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib symbols: %w", err)
	}
	return &Session{interp: i}, nil
}

// Exec evaluates a chunk body in the session scope.
func (s *Session) Exec(src string) error {
	if _, err := s.interp.Eval(src); err != nil {
		return fmt.Errorf("evaluating chunk code: %w", err)
	}
	return nil
}

// Value reads a variable out of the session scope.
func (s *Session) Value(name string) (any, error) {
	v, err := s.interp.Eval(name)
	if err != nil {
		return nil, fmt.Errorf("reading %q from session: %w", name, err)
	}
	if !v.IsValid() {
		return nil, fmt.Errorf("variable %q has no value in session", name)
	}
	return v.Interface(), nil
}

// Inject declares a variable in the session scope with the given value. The
// value must come from the cached-value domain (strings, bools, int64,
// float64, nil, and nested slices/maps of those); it is rendered as a Go
// literal and evaluated, so the declared variable is a real typed variable
// rather than an opaque handle.
func (s *Session) Inject(name string, value any) error {
	lit, err := goLiteral(value)
	if err != nil {
		return fmt.Errorf("injecting %q: %w", name, err)
	}
	// Plain assignment first so re-injection of an existing name works;
	// fall back to a declaration when the name is new to the session.
	if _, err := s.interp.Eval(fmt.Sprintf("%s = %s", name, lit)); err == nil {
		return nil
	}
	if _, err := s.interp.Eval(fmt.Sprintf("%s := %s\n_ = %s", name, lit, name)); err != nil {
		return fmt.Errorf("injecting %q: %w", name, err)
	}
	return nil
}

// Merge injects every binding of a namespace into the session, in order.
func (s *Session) Merge(ns *Namespace) error {
	for _, name := range ns.Names() {
		v, _ := ns.Get(name)
		if err := s.Inject(name, v); err != nil {
			return err
		}
	}
	return nil
}
