package ast

import (
	"reflect"
	"testing"
)

func TestConstantType(t *testing.T) {
	c := &Constant{Value: 42, Typ: reflect.TypeOf(0)}
	if c.Type() != reflect.TypeOf(0) {
		t.Fatalf("Type() = %s, want int", c.Type())
	}
}

func TestLambdaFuncType(t *testing.T) {
	p := &Parameter{Name: "it", Typ: reflect.TypeOf(0)}
	l := &Lambda{Parameters: []*Parameter{p}, Body: p, ReturnType: reflect.TypeOf(0)}
	ft := l.Type()
	if ft.Kind() != reflect.Func {
		t.Fatalf("Lambda.Type() = %s, want func", ft)
	}
	if ft.NumIn() != 1 || ft.In(0) != reflect.TypeOf(0) {
		t.Fatalf("unexpected lambda func signature %s", ft)
	}
}

func TestBinaryString(t *testing.T) {
	left := &Constant{Value: 1, Typ: reflect.TypeOf(0)}
	right := &Constant{Value: 2, Typ: reflect.TypeOf(0)}
	b := &Binary{Kind: Add, Left: left, Right: right, Typ: reflect.TypeOf(0)}
	if b.String() != "(1 + 2)" {
		t.Fatalf("got %q", b.String())
	}
}
