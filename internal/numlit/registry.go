// Package numlit resolves a lexed numeric literal's text (including any
// suffix) into a typed Go value, the way spec.md's number-literal parser
// registry resolves C#-style numeric suffixes (F, M, D, U*, S*, L, B).
package numlit

import (
	"reflect"

	"github.com/pkg/errors"
)

// Handler is one link in the chain-of-responsibility. Handlers are tried in
// Priority order (lowest first); the first whose CanHandle reports true is
// used. This mirrors the teacher's internal/expr/parser.go parseInputExpr,
// which tries an ordered list of parse functions and stops at the first
// match.
type Handler interface {
	// Suffixes lists the suffix letters (case-insensitive) this handler
	// recognizes. An empty list marks a fallback handler.
	Suffixes() []string
	// Priority orders handlers within a kind; lower runs first.
	Priority() int
	// Integral reports whether this handler applies to integer-literal text
	// (true) or real-literal text (false).
	Integral() bool
	// CanHandle reports whether this handler's suffix matches the text.
	CanHandle(text string) bool
	// Parse parses text (suffix included) into a reflect.Value of the
	// handler's target type.
	Parse(text string) (reflect.Value, error)
}

// Registry is an immutable, concurrency-safe chain of Handlers built once at
// construction and shared freely afterward.
type Registry struct {
	integral []Handler
	real     []Handler
}

// Default returns the registry of built-in handlers described in spec.md §4.2.
func Default() *Registry {
	r := &Registry{
		integral: []Handler{unsignedHandler{}, signedHandler{}, fallbackIntegerHandler{}},
		real:     []Handler{floatHandler{}, decimalHandler{}, doubleHandler{}, fallbackRealHandler{}},
	}
	sortByPriority(r.integral)
	sortByPriority(r.real)
	return r
}

func sortByPriority(hs []Handler) {
	for i := 1; i < len(hs); i++ {
		for j := i; j > 0 && hs[j].Priority() < hs[j-1].Priority(); j-- {
			hs[j], hs[j-1] = hs[j-1], hs[j]
		}
	}
}

// ParseInteger resolves integer-literal text using only integral handlers.
func (r *Registry) ParseInteger(text string) (reflect.Value, error) {
	return r.parse(r.integral, text)
}

// ParseReal resolves real-literal text using only real handlers.
func (r *Registry) ParseReal(text string) (reflect.Value, error) {
	return r.parse(r.real, text)
}

func (r *Registry) parse(hs []Handler, text string) (reflect.Value, error) {
	for _, h := range hs {
		if h.CanHandle(text) {
			v, err := h.Parse(text)
			if err != nil {
				return reflect.Value{}, err
			}
			return v, nil
		}
	}
	return reflect.Value{}, errors.Errorf("invalid numeric literal %q", text)
}

// SuffixSet returns the union of suffix letters across every registered
// handler. Adding a handler to Default extends this set; the lexer does not
// consult it and keeps its own fixed numericSuffixSet, which matches this
// set for the default handlers.
func (r *Registry) SuffixSet() map[byte]bool {
	set := map[byte]bool{}
	for _, hs := range [][]Handler{r.integral, r.real} {
		for _, h := range hs {
			for _, s := range h.Suffixes() {
				for i := 0; i < len(s); i++ {
					c := s[i]
					set[upper(c)] = true
					set[lower(c)] = true
				}
			}
		}
	}
	return set
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
