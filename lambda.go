package exprquery

import (
	"reflect"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/eval"
)

// Lambda is a compiled `{parameters, body, return type}` lambda (spec.md
// §3, §6).
type Lambda struct {
	node *ast.Lambda
	env  *eval.Env
}

// Type returns the lambda's func(...) reflect.Type.
func (l *Lambda) Type() reflect.Type { return l.node.Type() }

// Invoke binds args positionally to the lambda's parameters and evaluates
// the body.
func (l *Lambda) Invoke(args ...any) (any, error) {
	fn, err := eval.Eval(l.node, l.env)
	if err != nil {
		return nil, err
	}
	if len(args) != fn.Type().NumIn() {
		return nil, &ArgumentError{Message: "argument count mismatch: lambda expects " + fn.Type().String()}
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := fn.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
