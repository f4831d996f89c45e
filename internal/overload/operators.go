package overload

import (
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/types"
)

// Tables holds the fixed binary/unary operator signature tables spec.md
// §4.7 names: logical, arithmetic, relational, equality, add, subtract,
// negation, not. Each table is built over Go's primitive numeric kinds
// plus string/bool/Decimal, matching the "fixed set of signature tables"
// spec language (as opposed to a user-extensible operator set).
type Tables struct {
	Logical     []Signature // bool op bool
	Arithmetic  []Signature // T op T over every numeric kind
	Relational  []Signature // T op T -> bool, every numeric kind
	Equality    []Signature // T op T -> bool, every numeric kind + bool + string
	Add         []Signature // arithmetic plus string concatenation
	Subtract    []Signature // arithmetic only, no string form
	Negation    []Signature // unary -, every signed-capable numeric kind
	Not         []Signature // unary !, bool only
}

var numericPrimitives = []reflect.Type{
	reflect.TypeOf(int8(0)), reflect.TypeOf(uint8(0)),
	reflect.TypeOf(int16(0)), reflect.TypeOf(uint16(0)),
	reflect.TypeOf(int32(0)), reflect.TypeOf(uint32(0)),
	reflect.TypeOf(int64(0)), reflect.TypeOf(uint64(0)),
	reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)),
	reflect.TypeOf(decimal.Decimal{}),
}

var boolType = reflect.TypeOf(false)
var stringType = reflect.TypeOf("")

// DefaultTables builds the standard operator signature tables. Each call
// builds a fresh set (internal/parser.New calls it once per parse); the
// tables are not modified after construction (spec.md §5,
// "Number-parser registry and recognized-type resolver: immutable after
// construction; freely shared" applies equally here).
func DefaultTables() *Tables {
	t := &Tables{}
	for _, n := range numericPrimitives {
		t.Arithmetic = append(t.Arithmetic, Signature{Params: []reflect.Type{n, n}, Payload: n})
		t.Relational = append(t.Relational, Signature{Params: []reflect.Type{n, n}, Payload: boolType})
		t.Equality = append(t.Equality, Signature{Params: []reflect.Type{n, n}, Payload: boolType})
		t.Subtract = append(t.Subtract, Signature{Params: []reflect.Type{n, n}, Payload: n})
		t.Add = append(t.Add, Signature{Params: []reflect.Type{n, n}, Payload: n})
		if k := types.KindOf(n); !k.IsIntegral() || k.IsSigned() {
			t.Negation = append(t.Negation, Signature{Params: []reflect.Type{n}, Payload: n})
		}
	}
	t.Add = append(t.Add, Signature{Params: []reflect.Type{stringType, stringType}, Payload: stringType})
	t.Equality = append(t.Equality, Signature{Params: []reflect.Type{boolType, boolType}, Payload: boolType})
	t.Equality = append(t.Equality, Signature{Params: []reflect.Type{stringType, stringType}, Payload: boolType})
	t.Logical = append(t.Logical, Signature{Params: []reflect.Type{boolType, boolType}, Payload: boolType})
	t.Not = append(t.Not, Signature{Params: []reflect.Type{boolType}, Payload: boolType})
	return t
}

// ResolveBinary picks the unique applicable signature for kind between
// operands of type left, right, per spec.md §4.7: "Operand typing is
// implemented by selecting the unique applicable signature from the table
// via the overload resolver; both operands are promoted to that signature's
// parameter types." Returns the promoted operand types and the result type,
// or an error identifying no-match/ambiguous-match.
func (t *Tables) ResolveBinary(kind ast.BinaryKind, left, right reflect.Type) (promotedLeft, promotedRight, result reflect.Type, err error) {
	table, ok := t.tableFor(kind)
	if !ok {
		return nil, nil, nil, errNoSuchCategory(kind)
	}
	res := Resolve(table, []reflect.Type{left, right})
	switch {
	case res.None():
		return nil, nil, nil, ErrNoApplicable
	case res.Ambiguous():
		return nil, nil, nil, ErrAmbiguous
	}
	resultType, _ := t.resultType(kind, res.Candidate)
	return res.Candidate.Params[0], res.Candidate.Params[1], resultType, nil
}

// ResolveUnary mirrors ResolveBinary for the negation/not tables.
func (t *Tables) ResolveUnary(kind ast.UnaryKind, operand reflect.Type) (promoted, result reflect.Type, err error) {
	var table []Signature
	if kind == ast.Not {
		table = t.Not
	} else {
		table = t.Negation
	}
	res := Resolve(table, []reflect.Type{operand})
	switch {
	case res.None():
		return nil, nil, ErrNoApplicable
	case res.Ambiguous():
		return nil, nil, ErrAmbiguous
	}
	return res.Candidate.Params[0], res.Candidate.Payload.(reflect.Type), nil
}

func (t *Tables) tableFor(kind ast.BinaryKind) ([]Signature, bool) {
	switch kind {
	case ast.Or, ast.And:
		return t.Logical, true
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return t.Relational, true
	case ast.Eq, ast.Ne:
		return t.Equality, true
	case ast.Add:
		return t.Add, true
	case ast.Sub:
		return t.Subtract, true
	case ast.Mul, ast.Div, ast.Mod, ast.BitOr, ast.BitAnd, ast.Shl, ast.Shr:
		return t.Arithmetic, true
	}
	return nil, false
}

// resultType extracts the Signature's result type. Relational/equality
// signatures carry bool as their Payload directly; arithmetic signatures
// carry the common operand type.
func (t *Tables) resultType(kind ast.BinaryKind, sig Signature) (reflect.Type, bool) {
	rt, ok := sig.Payload.(reflect.Type)
	return rt, ok
}

type noSuchCategoryError struct{ kind ast.BinaryKind }

func (e noSuchCategoryError) Error() string {
	return "overload: no signature table for operator " + e.kind.String()
}

func errNoSuchCategory(kind ast.BinaryKind) error { return noSuchCategoryError{kind: kind} }

// PromoteNumericResult maps a numeric kind to the Go type the signature
// tables use for it; used by internal/parser when it casts an enum operand
// to its underlying integral type for a bitwise operator. Exposed here
// because the signature tables are this package's authority on which type
// "wins" a promotion.
func PromoteNumericResult(k types.NumericKind) reflect.Type {
	for _, n := range numericPrimitives {
		if types.KindOf(n) == k {
			return n
		}
	}
	return nil
}
