package exprquery

import (
	"reflect"
	"strings"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/parser"
)

// OrderResult is one `ParseOrdering` selector, paired with its direction
// (spec.md §6, §4.9).
type OrderResult struct {
	Selector  *Expression
	Ascending bool
}

// ParseOrdering compiles a comma-separated list of `expr [asc|desc]`
// selectors, each scoped over an implicit `it` of elementType (spec.md §6,
// §4.9). Each returned Selector's Invoke expects one argument: the element
// to rank.
func ParseOrdering(elementType reflect.Type, text string, values ...any) ([]OrderResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ArgumentError{Message: "text must not be empty"}
	}
	scope, externals, env := prepareScope(values)
	it := &ast.Parameter{Name: "it", Typ: elementType}
	scope.It, scope.Root = it, it
	p, err := parser.New(text, scope, externals)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	terms, err := p.ParseOrdering()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	out := make([]OrderResult, len(terms))
	for i, term := range terms {
		out[i] = OrderResult{
			Selector:  &Expression{node: term.Selector, env: env, unbound: "it"},
			Ascending: term.Ascending,
		}
	}
	return out, nil
}
