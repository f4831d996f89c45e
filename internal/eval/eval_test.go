package eval

import (
	"reflect"
	"testing"

	"github.com/exprquery/exprquery/internal/ast"
)

func TestEvalBinaryArithmetic(t *testing.T) {
	left := &ast.Constant{Value: int32(1), Typ: reflect.TypeOf(int32(0))}
	right := &ast.Constant{Value: int32(2), Typ: reflect.TypeOf(int32(0))}
	node := &ast.Binary{Kind: ast.Add, Left: left, Right: right, Typ: reflect.TypeOf(int32(0))}
	v, err := Eval(node, &Env{})
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	if v.Interface().(int32) != 3 {
		t.Fatalf("got %v, want 3", v.Interface())
	}
}

func TestEvalConditional(t *testing.T) {
	test := &ast.Constant{Value: true, Typ: reflect.TypeOf(false)}
	then := &ast.Constant{Value: "yes", Typ: reflect.TypeOf("")}
	els := &ast.Constant{Value: "no", Typ: reflect.TypeOf("")}
	node := &ast.Conditional{Test: test, Then: then, Else: els, Typ: reflect.TypeOf("")}
	v, err := Eval(node, &Env{})
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	if v.String() != "yes" {
		t.Fatalf("got %q, want yes", v.String())
	}
}

func TestEvalWhereAggregate(t *testing.T) {
	elem := &ast.Parameter{Name: "it", Typ: reflect.TypeOf(0)}
	threshold := &ast.Constant{Value: 2, Typ: reflect.TypeOf(0)}
	body := &ast.Binary{Kind: ast.Gt, Left: elem, Right: threshold, Typ: reflect.TypeOf(false)}
	receiverParam := &ast.Parameter{Name: "it", Typ: reflect.TypeOf([]int(nil))}
	agg := &ast.Aggregate{Op: ast.Where, Receiver: receiverParam, Element: elem, Arg: body, Typ: reflect.TypeOf([]int(nil))}

	env := &Env{It: reflect.ValueOf([]int{1, 2, 3, 4})}
	v, err := Eval(agg, env)
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	got := v.Interface().([]int)
	want := []int{3, 4}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEvalLambdaInvoke(t *testing.T) {
	param := &ast.Parameter{Name: "x", Typ: reflect.TypeOf(0)}
	body := &ast.Binary{Kind: ast.Add, Left: param, Right: &ast.Constant{Value: 1, Typ: reflect.TypeOf(0)}, Typ: reflect.TypeOf(0)}
	lambda := &ast.Lambda{Parameters: []*ast.Parameter{param}, Body: body, ReturnType: reflect.TypeOf(0)}

	fn, err := Eval(lambda, &Env{})
	if err != nil {
		t.Fatalf("Eval lambda: %s", err)
	}
	out := fn.Call([]reflect.Value{reflect.ValueOf(41)})
	if out[0].Interface().(int) != 42 {
		t.Fatalf("got %v, want 42", out[0].Interface())
	}
}
