package eval

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/exprquery/exprquery/internal/ast"
)

func evalConditional(n *ast.Conditional, env *Env) (reflect.Value, error) {
	test, err := Eval(n.Test, env)
	if err != nil {
		return reflect.Value{}, err
	}
	if test.Bool() {
		return Eval(n.Then, env)
	}
	return Eval(n.Else, env)
}

func evalUnary(n *ast.Unary, env *Env) (reflect.Value, error) {
	v, err := Eval(n.Operand, env)
	if err != nil {
		return reflect.Value{}, err
	}
	switch n.Kind {
	case ast.Not:
		return reflect.ValueOf(!v.Bool()), nil
	case ast.Neg:
		return negate(v)
	}
	return reflect.Value{}, errors.Errorf("eval: unsupported unary kind %s", n.Kind)
}

func negate(v reflect.Value) (reflect.Value, error) {
	if d, ok := v.Interface().(decimal.Decimal); ok {
		return reflect.ValueOf(d.Neg()), nil
	}
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return reflect.ValueOf(-v.Int()).Convert(v.Type()), nil
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(-v.Float()).Convert(v.Type()), nil
	}
	return reflect.Value{}, errors.Errorf("cannot negate %s", v.Type())
}

func evalBinary(n *ast.Binary, env *Env) (reflect.Value, error) {
	left, err := Eval(n.Left, env)
	if err != nil {
		return reflect.Value{}, err
	}
	right, err := Eval(n.Right, env)
	if err != nil {
		return reflect.Value{}, err
	}

	switch n.Kind {
	case ast.Or:
		return reflect.ValueOf(left.Bool() || right.Bool()), nil
	case ast.And:
		return reflect.ValueOf(left.Bool() && right.Bool()), nil
	case ast.Add:
		if n.Typ.Kind() == reflect.String {
			return reflect.ValueOf(stringOf(left) + stringOf(right)), nil
		}
		return arith(n.Kind, left, right)
	case ast.Sub, ast.Mul, ast.Div, ast.Mod, ast.BitOr, ast.BitAnd, ast.Shl, ast.Shr:
		return arith(n.Kind, left, right)
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return compare(n.Kind, left, right)
	}
	return reflect.Value{}, errors.Errorf("eval: unsupported binary kind %s", n.Kind)
}

func arith(kind ast.BinaryKind, left, right reflect.Value) (reflect.Value, error) {
	if ld, ok := left.Interface().(decimal.Decimal); ok {
		rd := right.Interface().(decimal.Decimal)
		return reflect.ValueOf(decimalArith(kind, ld, rd)), nil
	}
	switch left.Kind() {
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(floatArith(kind, left.Float(), right.Float())).Convert(left.Type()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(uintArith(kind, left.Uint(), right.Uint())).Convert(left.Type()), nil
	default:
		return reflect.ValueOf(intArith(kind, left.Int(), right.Int())).Convert(left.Type()), nil
	}
}

func decimalArith(kind ast.BinaryKind, l, r decimal.Decimal) decimal.Decimal {
	switch kind {
	case ast.Add:
		return l.Add(r)
	case ast.Sub:
		return l.Sub(r)
	case ast.Mul:
		return l.Mul(r)
	case ast.Div:
		return l.Div(r)
	}
	return l
}

func floatArith(kind ast.BinaryKind, l, r float64) float64 {
	switch kind {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		return l / r
	}
	return 0
}

func intArith(kind ast.BinaryKind, l, r int64) int64 {
	switch kind {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		return l / r
	case ast.Mod:
		return l % r
	case ast.BitOr:
		return l | r
	case ast.BitAnd:
		return l & r
	case ast.Shl:
		return l << uint(r)
	case ast.Shr:
		return l >> uint(r)
	}
	return 0
}

func uintArith(kind ast.BinaryKind, l, r uint64) uint64 {
	switch kind {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	case ast.Mul:
		return l * r
	case ast.Div:
		return l / r
	case ast.Mod:
		return l % r
	case ast.BitOr:
		return l | r
	case ast.BitAnd:
		return l & r
	case ast.Shl:
		return l << r
	case ast.Shr:
		return l >> r
	}
	return 0
}

func compare(kind ast.BinaryKind, left, right reflect.Value) (reflect.Value, error) {
	if left.Kind() == reflect.String && right.Kind() == reflect.String {
		return reflect.ValueOf(stringCompare(kind, left.String(), right.String())), nil
	}
	if ld, ok := left.Interface().(decimal.Decimal); ok {
		rd := right.Interface().(decimal.Decimal)
		c := ld.Cmp(rd)
		return reflect.ValueOf(cmpResult(kind, c)), nil
	}
	// Structs and arrays (e.g. the Guid stand-in, or an anonymous tuple
	// struct) have no ordering; only Eq/Ne apply, via field-wise equality.
	if left.Kind() == reflect.Array || left.Kind() == reflect.Struct {
		equal := reflect.DeepEqual(left.Interface(), right.Interface())
		if kind == ast.Eq {
			return reflect.ValueOf(equal), nil
		}
		return reflect.ValueOf(!equal), nil
	}
	var c int
	switch left.Kind() {
	case reflect.Float32, reflect.Float64:
		c = floatCmp(left.Float(), right.Float())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		c = uintCmp(left.Uint(), right.Uint())
	case reflect.Bool:
		c = boolCmp(left.Bool(), right.Bool())
	default:
		c = intCmp(left.Int(), right.Int())
	}
	return reflect.ValueOf(cmpResult(kind, c)), nil
}

func cmpResult(kind ast.BinaryKind, c int) bool {
	switch kind {
	case ast.Eq:
		return c == 0
	case ast.Ne:
		return c != 0
	case ast.Lt:
		return c < 0
	case ast.Le:
		return c <= 0
	case ast.Gt:
		return c > 0
	case ast.Ge:
		return c >= 0
	}
	return false
}

func stringCompare(kind ast.BinaryKind, l, r string) bool {
	var c int
	switch {
	case l < r:
		c = -1
	case l > r:
		c = 1
	}
	return cmpResult(kind, c)
}

func intCmp(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func uintCmp(l, r uint64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func floatCmp(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func boolCmp(l, r bool) int {
	if l == r {
		return 0
	}
	if !l && r {
		return -1
	}
	return 1
}
