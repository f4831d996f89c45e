package parser

import (
	"reflect"
	"testing"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/numlit"
	"github.com/exprquery/exprquery/internal/types"
)

// testStatus is an int8-kind (SByte) enum, narrower than the int32 an
// unsuffixed integer literal is classified as.
type testStatus int8

const (
	testStatusOpen testStatus = iota
	testStatusClosed
)

var testStatusType = reflect.TypeOf(testStatus(0))

func registerTestStatus(t *testing.T) {
	t.Helper()
	types.DefaultEnums().Register(testStatusType, map[string]int64{
		"Open":   int64(testStatusOpen),
		"Closed": int64(testStatusClosed),
	})
}

func TestPromoteStringLiteralToEnum(t *testing.T) {
	registerTestStatus(t)
	lit := &ast.Constant{Value: "open", Typ: stringType}
	node, err := promote(lit, testStatusType, types.NewLiteralStore(), numlit.Default(), true)
	if err != nil {
		t.Fatalf("promote: %s", err)
	}
	c, ok := node.(*ast.Constant)
	if !ok {
		t.Fatalf("expected Constant, got %T", node)
	}
	if c.Value.(testStatus) != testStatusOpen {
		t.Fatalf("got %v, want %v", c.Value, testStatusOpen)
	}
}

func TestPromoteUnknownEnumMemberFails(t *testing.T) {
	registerTestStatus(t)
	lit := &ast.Constant{Value: "bogus", Typ: stringType}
	if _, err := promote(lit, testStatusType, types.NewLiteralStore(), numlit.Default(), true); err == nil {
		t.Fatalf("expected error for unknown enum member")
	}
}

// TestEnumByteLiteralEquality compares the enum against a "1B" literal,
// which parses as byte (Byte kind). Neither byte nor testStatus's sbyte
// (SByte kind) widens to the other, but both widen to int16, so the
// Equality table resolves the comparison directly through its int16
// signature and the result is bool.
func TestEnumByteLiteralEquality(t *testing.T) {
	registerTestStatus(t)
	scope := NewScope()
	scope.It = &ast.Parameter{Name: "it", Typ: testStatusType}
	p, err := New("it == 1B", scope, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	node, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if node.Type().Kind() != reflect.Bool {
		t.Fatalf("expected bool, got %s", node.Type())
	}
}

func TestEnumBitwiseProducesIntegral(t *testing.T) {
	registerTestStatus(t)
	scope := NewScope()
	scope.It = &ast.Parameter{Name: "it", Typ: testStatusType}
	p, err := New("it & 1", scope, nil)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	node, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if node.Type() == testStatusType {
		t.Fatalf("expected integral result type, got enum type %s", node.Type())
	}
	if types.KindOf(node.Type()) != types.Int32 {
		t.Fatalf("expected Int32-kind result, got %s", node.Type())
	}
}
