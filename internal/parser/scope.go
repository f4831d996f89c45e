package parser

import "github.com/exprquery/exprquery/internal/ast"

// Scope is the parser's shared mutable state (spec.md §5): the symbol table
// plus the three it/parent/root slots. It is saved and restored around
// aggregate-operator bodies (spec.md §4.7) so that inner lambdas shift `it`
// to the element type without losing the outer binding.
type Scope struct {
	It, Parent, Root *ast.Parameter
	Named            map[string]*ast.Parameter
}

// NewScope returns an empty scope with an initialized symbol table.
func NewScope() *Scope {
	return &Scope{Named: map[string]*ast.Parameter{}}
}

// snapshot is an opaque save point produced by Save and consumed by Restore.
type snapshot struct {
	it, parent, root *ast.Parameter
}

// Save captures the current it/parent/root bindings.
func (s *Scope) Save() snapshot {
	return snapshot{it: s.It, parent: s.Parent, root: s.Root}
}

// Restore re-installs a previously captured snapshot.
func (s *Scope) Restore(snap snapshot) {
	s.It, s.Parent, s.Root = snap.it, snap.parent, snap.root
}

// EnterAggregateBody shifts scope for an aggregate-operator argument: the
// new `it` becomes element, the old `it` becomes `parent`, `root` is
// unchanged (spec.md §4.7). The returned snapshot must be passed to Restore
// once the aggregate body has been parsed.
func (s *Scope) EnterAggregateBody(element *ast.Parameter) snapshot {
	snap := s.Save()
	s.Parent = s.It
	s.It = element
	return snap
}

// Lookup resolves name against it/parent/root (by their bound names) and
// the named symbol table, per spec.md §4.3's resolution order: it, parent,
// root first (closest lexical scope wins), then named parameters.
func (s *Scope) Lookup(name string) (*ast.Parameter, bool) {
	for _, p := range []*ast.Parameter{s.It, s.Parent, s.Root} {
		if p != nil && p.Name == name {
			return p, true
		}
	}
	if p, ok := s.Named[name]; ok {
		return p, true
	}
	return nil, false
}

// Define adds a named parameter to scope, rejecting a duplicate definition
// (spec.md §7, "Name: ... duplicate identifier defined twice").
func (s *Scope) Define(p *ast.Parameter) error {
	if _, exists := s.Named[p.Name]; exists {
		return errAt(0, "identifier %q is already defined", p.Name)
	}
	s.Named[p.Name] = p
	return nil
}
