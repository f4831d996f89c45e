package parser

import (
	"reflect"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/overload"
	"github.com/exprquery/exprquery/internal/types"
)

var stringType = reflect.TypeOf("")

// buildBinary applies spec.md §4.7's special rules (string concatenation,
// Guid/string equality, enum/integer coercion) before falling back to the
// operator's signature table via the overload resolver.
func (p *Parser) buildBinary(kind ast.BinaryKind, left, right ast.Node) (ast.Node, error) {
	if kind == ast.Add && (left.Type() == stringType || right.Type() == stringType) {
		return p.buildStringConcat(left, right)
	}

	if (kind == ast.Eq || kind == ast.Ne) && p.isGuidStringPair(left, right) {
		left, right = p.coerceGuidString(left, right)
	}

	// Enum operands in a bitwise op are cast to their underlying integral
	// type before the signature table runs, so `&`/`|` on an enum always
	// produces the integral result (spec.md §4.7), never the enum type.
	if (kind == ast.BitAnd || kind == ast.BitOr) && (types.IsEnum(left.Type()) || types.IsEnum(right.Type())) {
		left, right = coerceEnumToIntegral(left), coerceEnumToIntegral(right)
	}

	pl, pr, result, err := p.opTables.ResolveBinary(kind, left.Type(), right.Type())
	if err != nil && isComparisonKind(kind) {
		// Enum/integer comparison (spec.md §4.7): try promoting either side
		// first (handled above by ResolveBinary, since KindOf classifies an
		// enum by its underlying numeric kind); if neither promotes and the
		// other side is a constant integer, coerce the constant to the enum
		// type and retry.
		if ok, l2, r2 := coerceEnumIntPair(left, right); ok {
			left, right = l2, r2
			pl, pr, result, err = p.opTables.ResolveBinary(kind, left.Type(), right.Type())
		}
	}
	if err != nil {
		if err == overload.ErrAmbiguous {
			return nil, errAt(0, "ambiguous operator %s between %s and %s", kind, left.Type(), right.Type())
		}
		return nil, errAt(0, "no applicable operator %s between %s and %s", kind, left.Type(), right.Type())
	}
	if left.Type() != pl {
		left = &ast.Convert{Expr: left, Target: pl}
	}
	if right.Type() != pr {
		right = &ast.Convert{Expr: right, Target: pr}
	}
	return &ast.Binary{Kind: kind, Left: left, Right: right, Typ: result}, nil
}

func isComparisonKind(kind ast.BinaryKind) bool {
	switch kind {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return true
	}
	return false
}

// coerceEnumToIntegral casts an enum-typed operand to the canonical Go type
// for its underlying numeric kind, leaving any other operand unchanged.
func coerceEnumToIntegral(n ast.Node) ast.Node {
	if !types.IsEnum(n.Type()) {
		return n
	}
	canonical := overload.PromoteNumericResult(types.KindOf(n.Type()))
	return &ast.Convert{Expr: n, Target: canonical}
}

// coerceEnumIntPair coerces a constant integer operand to its sibling's
// enum type, when exactly one side is an enum and the other is a numeric
// constant of a different (non-enum) type.
func coerceEnumIntPair(left, right ast.Node) (bool, ast.Node, ast.Node) {
	if types.IsEnum(left.Type()) && !types.IsEnum(right.Type()) && types.IsNumeric(right.Type()) {
		if c, ok := right.(*ast.Constant); ok {
			return true, left, &ast.Convert{Expr: c, Target: left.Type(), Checked: true}
		}
	}
	if types.IsEnum(right.Type()) && !types.IsEnum(left.Type()) && types.IsNumeric(left.Type()) {
		if c, ok := left.(*ast.Constant); ok {
			return true, &ast.Convert{Expr: c, Target: right.Type(), Checked: true}, right
		}
	}
	return false, left, right
}

// buildStringConcat implements "concatenate via Concat(object,object);
// value-type operands are boxed via their ToString first" (spec.md §4.7).
func (p *Parser) buildStringConcat(left, right ast.Node) (ast.Node, error) {
	if left.Type() != stringType {
		left = &ast.Convert{Expr: left, Target: stringType}
	}
	if right.Type() != stringType {
		right = &ast.Convert{Expr: right, Target: stringType}
	}
	return &ast.Binary{Kind: ast.Add, Left: left, Right: right, Typ: stringType}, nil
}

// isGuidStringPair reports whether left/right are a Guid/string pair in
// either order, using the shared type resolver's "Guid" registration
// (internal/types.Default, backed by uuid.UUID) rather than a local stand-in.
func (p *Parser) isGuidStringPair(left, right ast.Node) bool {
	if t, ok := p.resolver.Lookup("guid"); ok {
		return (left.Type() == t && right.Type() == stringType) || (right.Type() == t && left.Type() == stringType)
	}
	return false
}

// coerceGuidString wraps the string side of a Guid/string comparison in a
// conversion, standing in for the host's runtime `Guid.Parse` call (spec.md
// §4.7, "wrap the string in a runtime Guid.Parse call").
func (p *Parser) coerceGuidString(left, right ast.Node) (ast.Node, ast.Node) {
	guid, _ := p.resolver.Lookup("guid")
	if left.Type() == stringType {
		return &ast.Convert{Expr: left, Target: guid, Checked: true}, right
	}
	return left, &ast.Convert{Expr: right, Target: guid, Checked: true}
}

func (p *Parser) buildUnary(kind ast.UnaryKind, operand ast.Node) (ast.Node, error) {
	promotedType, result, err := p.opTables.ResolveUnary(kind, operand.Type())
	if err != nil {
		return nil, errAt(0, "no applicable unary operator %s on %s", kind, operand.Type())
	}
	if operand.Type() != promotedType {
		operand = &ast.Convert{Expr: operand, Target: promotedType}
	}
	return &ast.Unary{Kind: kind, Operand: operand, Typ: result}, nil
}
