package exprquery

import (
	"reflect"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/eval"
)

// Expression is a compiled, typed expression tree (spec.md §6) with at most
// one unbound parameter — the one ParseExpression registered, if any.
type Expression struct {
	node    ast.Node
	env     *eval.Env
	unbound string // name of the single unbound parameter, "" if fully bound
}

// Type returns the expression's static result type.
func (e *Expression) Type() reflect.Type { return e.node.Type() }

func (e *Expression) String() string { return e.node.String() }

// Invoke evaluates the expression. An expression produced by Parse takes no
// arguments; one produced by ParseExpression takes exactly one: the bound
// parameter's runtime value.
func (e *Expression) Invoke(args ...any) (any, error) {
	env := e.env
	if e.unbound != "" {
		if len(args) != 1 {
			return nil, &ArgumentError{Message: "expected exactly one argument for parameter " + e.unbound}
		}
		env = cloneEnv(env)
		env.Named[e.unbound] = reflect.ValueOf(args[0])
	} else if len(args) != 0 {
		return nil, &ArgumentError{Message: "expression takes no arguments"}
	}
	v, err := eval.Eval(e.node, env)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}
