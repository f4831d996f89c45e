// Package eval is the reference tree-walking evaluator: it turns a typed
// internal/ast.Node plus a binding environment into a concrete
// reflect.Value, standing in for the host's external query-provider
// collaborator (spec.md §6, "Capability to build and execute expression
// trees that the host runtime can compile to callable artifacts"). Where
// the host hands the tree to an opaque IQueryProvider, this module walks it
// directly — the simplest faithful implementation of that contract a
// self-contained Go library can offer.
package eval

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/exprquery/exprquery/internal/ast"
)

// Env is the evaluator's binding environment: the current it/parent/root
// values and any named externals, mirroring internal/parser.Scope's shape
// at the value level instead of the type level.
type Env struct {
	It, Parent, Root reflect.Value
	Named            map[string]reflect.Value
}

// Lookup resolves a bound parameter's value by name, in the same order
// internal/parser.Scope.Lookup resolves its type (spec.md §4.3).
func (e *Env) Lookup(name string) (reflect.Value, bool) {
	for _, pair := range []struct {
		name string
		v    reflect.Value
	}{
		{itName(e), e.It}, {parentName(e), e.Parent}, {rootName(e), e.Root},
	} {
		if pair.name == name && pair.v.IsValid() {
			return pair.v, true
		}
	}
	if v, ok := e.Named[name]; ok {
		return v, true
	}
	return reflect.Value{}, false
}

// itName/parentName/rootName exist so Lookup can match by the conventional
// sigil-alias names without every call site repeating the string literals.
func itName(*Env) string     { return "it" }
func parentName(*Env) string { return "parent" }
func rootName(*Env) string   { return "root" }

// Eval walks node and returns its runtime value.
func Eval(node ast.Node, env *Env) (reflect.Value, error) {
	switch n := node.(type) {
	case *ast.Constant:
		return evalConstant(n)
	case *ast.Parameter:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		return reflect.Value{}, errors.Errorf("unbound parameter %q", n.Name)
	case *ast.MemberAccess:
		return evalMemberAccess(n, env)
	case *ast.MethodCall:
		return evalMethodCall(n, env)
	case *ast.Binary:
		return evalBinary(n, env)
	case *ast.Unary:
		return evalUnary(n, env)
	case *ast.Conditional:
		return evalConditional(n, env)
	case *ast.NewObject:
		return evalNewObject(n, env)
	case *ast.NewAnonymous:
		return evalNewAnonymous(n, env)
	case *ast.Invoke:
		return evalInvoke(n, env)
	case *ast.Lambda:
		return evalLambda(n, env)
	case *ast.Convert:
		return evalConvert(n, env)
	case *ast.Aggregate:
		return evalAggregate(n, env)
	}
	return reflect.Value{}, errors.Errorf("eval: unsupported node type %T", node)
}

func evalConstant(c *ast.Constant) (reflect.Value, error) {
	if c.Value == nil {
		if c.Typ == nil {
			return reflect.Value{}, nil
		}
		return reflect.Zero(c.Typ), nil
	}
	return reflect.ValueOf(c.Value), nil
}
