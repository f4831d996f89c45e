package parser

import (
	"reflect"
	"testing"

	"github.com/exprquery/exprquery/internal/ast"
)

func parse(t *testing.T, src string) ast.Node {
	t.Helper()
	p, err := New(src, nil, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	node, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse(%q): %s", src, err)
	}
	return node
}

func TestParseArithmetic(t *testing.T) {
	node := parse(t, "1 + 2 * 3")
	if node.Type() != reflect.TypeOf(int32(0)) {
		t.Fatalf("unexpected result type %s", node.Type())
	}
	if node.String() != "((int32)(1) + ((int32)(2) * (int32)(3)))" {
		t.Fatalf("unexpected precedence: %s", node.String())
	}
}

func TestParseComparisonAndLogical(t *testing.T) {
	node := parse(t, "1 < 2 && 3 > 2")
	if node.Type().Kind() != reflect.Bool {
		t.Fatalf("expected bool, got %s", node.Type())
	}
}

func TestParseConditional(t *testing.T) {
	node := parse(t, "1 < 2 ? 10 : 20")
	if node.String() != "(((int32)(1) < (int32)(2)) ? 10 : 20)" {
		t.Fatalf("unexpected: %s", node.String())
	}
}

func TestParseIif(t *testing.T) {
	node := parse(t, `iif(1 < 2, "yes", "no")`)
	if node.Type() != stringType {
		t.Fatalf("expected string, got %s", node.Type())
	}
}

func TestParseInList(t *testing.T) {
	node := parse(t, "2 in (2,4,6,8)")
	if node.Type().Kind() != reflect.Bool {
		t.Fatalf("expected bool, got %s", node.Type())
	}
}

func TestParseStringConcat(t *testing.T) {
	node := parse(t, `"a" + "b"`)
	if node.Type() != stringType {
		t.Fatalf("expected string, got %s", node.Type())
	}
}

func TestParseTupleItemAccess(t *testing.T) {
	node := parse(t, `tuple(1, "two").Item1`)
	ma, ok := node.(*ast.MemberAccess)
	if !ok {
		t.Fatalf("expected MemberAccess, got %T", node)
	}
	if ma.Type() != reflect.TypeOf(0) {
		t.Fatalf("expected int, got %s", ma.Type())
	}
}

func TestParseUnknownIdentifierFails(t *testing.T) {
	_, err := New("bogus", nil, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	p, _ := New("bogus", nil, nil)
	if _, err := p.Parse(nil); err == nil {
		t.Fatalf("expected error for unknown identifier")
	}
}

func TestParseItScope(t *testing.T) {
	scope := NewScope()
	scope.It = &ast.Parameter{Name: "it", Typ: reflect.TypeOf(0)}
	p, err := New("it + 1", scope, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	node, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if node.Type() != reflect.TypeOf(int32(0)) {
		t.Fatalf("expected int32, got %s", node.Type())
	}
}

func TestParseWhereOverSlice(t *testing.T) {
	scope := NewScope()
	scope.It = &ast.Parameter{Name: "it", Typ: reflect.TypeOf([]int(nil))}
	p, err := New("it.Where(it > 2)", scope, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	node, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	agg, ok := node.(*ast.Aggregate)
	if !ok {
		t.Fatalf("expected Aggregate, got %T", node)
	}
	if agg.Op != ast.Where {
		t.Fatalf("expected Where, got %s", agg.Op)
	}
	if agg.Typ != reflect.TypeOf([]int(nil)) {
		t.Fatalf("expected []int result, got %s", agg.Typ)
	}
}

func TestParseOrderingBasic(t *testing.T) {
	p, err := New("it desc", func() *Scope {
		s := NewScope()
		s.It = &ast.Parameter{Name: "it", Typ: reflect.TypeOf(0)}
		return s
	}(), nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	terms, err := p.ParseOrdering()
	if err != nil {
		t.Fatalf("ParseOrdering: %s", err)
	}
	if len(terms) != 1 || terms[0].Ascending {
		t.Fatalf("expected one descending term, got %+v", terms)
	}
}
