package overload

import (
	"reflect"
	"testing"

	"github.com/exprquery/exprquery/internal/ast"
)

func TestResolveNoApplicable(t *testing.T) {
	candidates := []Signature{
		{Params: []reflect.Type{reflect.TypeOf("")}},
	}
	res := Resolve(candidates, []reflect.Type{reflect.TypeOf(0)})
	if !res.None() {
		t.Fatalf("expected no applicable candidates, got %d", res.Count)
	}
}

func TestResolveSingleExactMatch(t *testing.T) {
	intT := reflect.TypeOf(0)
	strT := reflect.TypeOf("")
	candidates := []Signature{
		{Params: []reflect.Type{intT}, Payload: "int"},
		{Params: []reflect.Type{strT}, Payload: "string"},
	}
	res := Resolve(candidates, []reflect.Type{intT})
	if !res.One() || res.Candidate.Payload != "int" {
		t.Fatalf("expected unique int match, got %+v", res)
	}
}

func TestResolvePrunesToNarrowerTarget(t *testing.T) {
	// An int8 argument is applicable to both an int16 and an int64 parameter
	// (both widen); the narrower int16 must win per spec.md §4.5 step 2.
	i8 := reflect.TypeOf(int8(0))
	i16 := reflect.TypeOf(int16(0))
	i64 := reflect.TypeOf(int64(0))
	candidates := []Signature{
		{Params: []reflect.Type{i16}, Payload: "i16"},
		{Params: []reflect.Type{i64}, Payload: "i64"},
	}
	res := Resolve(candidates, []reflect.Type{i8})
	if !res.One() || res.Candidate.Payload != "i16" {
		t.Fatalf("expected narrower int16 overload to win, got %+v", res)
	}
}

func TestResolveAmbiguousWhenNoDominance(t *testing.T) {
	// Two unrelated reference types both satisfy an interface{} parameter
	// with equal preference; simulate a genuine tie using two identical
	// candidate shapes distinguished only by payload.
	anyT := reflect.TypeOf((*any)(nil)).Elem()
	candidates := []Signature{
		{Params: []reflect.Type{anyT}, Payload: "a"},
		{Params: []reflect.Type{anyT}, Payload: "b"},
	}
	res := Resolve(candidates, []reflect.Type{reflect.TypeOf(0)})
	if !res.Ambiguous() {
		t.Fatalf("expected ambiguous result, got %+v", res)
	}
}

func TestDefaultTablesArithmeticPromotion(t *testing.T) {
	tables := DefaultTables()
	i8 := reflect.TypeOf(int8(0))
	i32 := reflect.TypeOf(int32(0))
	pl, pr, result, err := tables.ResolveBinary(ast.Add, i8, i32)
	if err != nil {
		t.Fatalf("ResolveBinary: %s", err)
	}
	if pl != i32 || pr != i32 {
		t.Fatalf("expected both operands promoted to int32, got %s/%s", pl, pr)
	}
	if result != i32 {
		t.Fatalf("expected result type int32, got %s", result)
	}
}

func TestDefaultTablesStringConcat(t *testing.T) {
	tables := DefaultTables()
	strT := reflect.TypeOf("")
	_, _, result, err := tables.ResolveBinary(ast.Add, strT, strT)
	if err != nil {
		t.Fatalf("ResolveBinary: %s", err)
	}
	if result != strT {
		t.Fatalf("expected string result, got %s", result)
	}
}

func TestDefaultTablesRelational(t *testing.T) {
	tables := DefaultTables()
	intT := reflect.TypeOf(0)
	_, _, result, err := tables.ResolveBinary(ast.Lt, intT, intT)
	if err != nil {
		t.Fatalf("ResolveBinary: %s", err)
	}
	if result.Kind() != reflect.Bool {
		t.Fatalf("expected bool result, got %s", result)
	}
}

func TestDefaultTablesNot(t *testing.T) {
	tables := DefaultTables()
	boolT := reflect.TypeOf(false)
	_, result, err := tables.ResolveUnary(ast.Not, boolT)
	if err != nil {
		t.Fatalf("ResolveUnary: %s", err)
	}
	if result != boolT {
		t.Fatalf("expected bool result, got %s", result)
	}
}

func TestDefaultTablesNoApplicableAddOnBool(t *testing.T) {
	tables := DefaultTables()
	boolT := reflect.TypeOf(false)
	_, _, _, err := tables.ResolveBinary(ast.Add, boolT, boolT)
	if err != ErrNoApplicable {
		t.Fatalf("expected ErrNoApplicable, got %v", err)
	}
}
