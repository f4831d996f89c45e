package eval

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/types"
)

var guidType = reflect.TypeOf(uuid.UUID{})

func evalMemberAccess(n *ast.MemberAccess, env *Env) (reflect.Value, error) {
	target, err := Eval(n.Target, env)
	if err != nil {
		return reflect.Value{}, err
	}
	target, _ = types.UnwrapValue(target)
	if n.FieldIndex != nil {
		return target.FieldByIndex(n.FieldIndex), nil
	}
	m := target.MethodByName(n.Member)
	if !m.IsValid() {
		return reflect.Value{}, errors.Errorf("no field or method %q on %s", n.Member, target.Type())
	}
	out := m.Call(nil)
	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

// evalMethodCall dispatches a reflected method call. A Method.Name of
// "__index__" is internal/parser's sentinel for array/slice indexing
// (reflect.StructOf-emitted types and ordinary structs share no common
// "indexer" method, so indexing is evaluated directly instead of through
// reflect.Method).
func evalMethodCall(n *ast.MethodCall, env *Env) (reflect.Value, error) {
	args := make([]reflect.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, env)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}

	if n.Receiver == nil {
		return reflect.Value{}, errors.Errorf("static call to %q not supported", n.Method.Name)
	}
	recv, err := Eval(n.Receiver, env)
	if err != nil {
		return reflect.Value{}, err
	}
	recv, _ = types.UnwrapValue(recv)

	if n.Method.Name == "__index__" {
		idx := int(args[0].Int())
		return recv.Index(idx), nil
	}

	m := recv.MethodByName(n.Method.Name)
	if !m.IsValid() {
		return reflect.Value{}, errors.Errorf("no method %q on %s", n.Method.Name, recv.Type())
	}
	out := m.Call(args)
	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

func evalConvert(n *ast.Convert, env *Env) (reflect.Value, error) {
	v, err := Eval(n.Expr, env)
	if err != nil {
		return reflect.Value{}, err
	}
	if !v.IsValid() {
		return reflect.Zero(n.Target), nil
	}
	if types.IsNullable(n.Target) {
		if elem, _ := types.Unwrap(n.Target); v.Type() == elem {
			ptr := reflect.New(elem)
			ptr.Elem().Set(v)
			return ptr, nil
		}
	}
	if v.Type() == n.Target {
		return v, nil
	}
	// Guid/string coercion (spec.md §4.7): internal/parser/binary.go wraps
	// the string side of a Guid/string comparison in a Convert to guidType,
	// which reflect.Value.ConvertibleTo can't express since uuid.UUID is a
	// fixed-size byte array, not a string conversion target.
	if n.Target == guidType && v.Kind() == reflect.String {
		id, err := uuid.Parse(v.String())
		if err != nil {
			return reflect.Value{}, errors.Errorf("invalid Guid %q: %s", v.String(), err)
		}
		return reflect.ValueOf(id), nil
	}
	// reflect treats an integer as ConvertibleTo string (yielding the rune
	// it encodes), so a non-string value bound for a string target is
	// rendered as text before the general conversion is tried.
	if n.Target.Kind() == reflect.String && v.Kind() != reflect.String {
		return reflect.ValueOf(stringOf(v)).Convert(n.Target), nil
	}
	if v.Type().ConvertibleTo(n.Target) {
		return v.Convert(n.Target), nil
	}
	return reflect.Value{}, errors.Errorf("cannot convert %s to %s", v.Type(), n.Target)
}

func stringOf(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if s, ok := v.Interface().(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func evalNewObject(n *ast.NewObject, env *Env) (reflect.Value, error) {
	args := make([]reflect.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, env)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}
	out := n.Ctor.Func.Call(args)
	if len(out) == 0 {
		return reflect.Zero(n.Typ), nil
	}
	return out[0], nil
}

func evalNewAnonymous(n *ast.NewAnonymous, env *Env) (reflect.Value, error) {
	inst := reflect.New(n.Typ).Elem()
	for i, b := range n.Bindings {
		v, err := Eval(b.Value, env)
		if err != nil {
			return reflect.Value{}, err
		}
		inst.Field(i).Set(v)
	}
	return inst, nil
}

func evalInvoke(n *ast.Invoke, env *Env) (reflect.Value, error) {
	fn, err := Eval(n.Lambda, env)
	if err != nil {
		return reflect.Value{}, err
	}
	args := make([]reflect.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, env)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}
	out := fn.Call(args)
	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

func evalLambda(n *ast.Lambda, env *Env) (reflect.Value, error) {
	ft := n.Type()
	fn := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		inner := &Env{It: env.It, Parent: env.Parent, Root: env.Root, Named: cloneNamed(env.Named)}
		if inner.Named == nil {
			inner.Named = map[string]reflect.Value{}
		}
		for i, p := range n.Parameters {
			inner.Named[p.Name] = in[i]
		}
		result, err := Eval(n.Body, inner)
		if err != nil {
			return []reflect.Value{reflect.Zero(n.ReturnType)}
		}
		return []reflect.Value{result}
	})
	return fn, nil
}

func cloneNamed(m map[string]reflect.Value) map[string]reflect.Value {
	out := make(map[string]reflect.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
