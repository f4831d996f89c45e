package parser

import (
	"reflect"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/numlit"
	"github.com/exprquery/exprquery/internal/types"
)

// promote implements spec.md §4.6's type promotion rules: given node typed
// S and a target T, return a node of type T (possibly node itself when
// S == T, a re-parsed literal Constant, or a wrapping Convert node), or an
// error if no promotion applies under the given exactness mode.
func promote(node ast.Node, target reflect.Type, literals *types.LiteralStore, numReg *numlit.Registry, exact bool) (ast.Node, error) {
	s := node.Type()
	if s == target {
		return node, nil
	}

	if c, ok := node.(*ast.Constant); ok && c.Value == nil {
		if types.IsNullable(target) || isReferenceKind(target) {
			return &ast.Constant{Value: nil, Typ: target}, nil
		}
		return nil, errAt(0, "cannot convert null to non-nullable type %s", target)
	}

	// String-literal-to-enum promotion (spec.md §4.6): "if the text names a
	// member of T case-insensitively". Only applies to a bare string
	// constant, not an arbitrary string-typed expression.
	if c, ok := node.(*ast.Constant); ok && types.IsEnum(target) {
		if s, isStr := c.Value.(string); isStr {
			if member, found := types.DefaultEnums().Member(target, s); found {
				ev := enumValue(target, member)
				return &ast.Constant{Value: ev.Interface(), Typ: target}, nil
			}
			return nil, errAt(0, "%q is not a member of %s", s, target)
		}
	}

	if c, ok := node.(*ast.Constant); ok {
		if text, recorded := literals.TextOf(c); recorded {
			if types.IsNumeric(target) && types.Rank(types.KindOf(target)) <= types.Rank(types.KindOf(s)) {
				if reparsed, err := reparseNumeric(text, target, numReg); err == nil {
					literals.Record(reparsed, text)
					return reparsed, nil
				}
			}
		}
	}

	if types.IsNumeric(s) && types.IsNumeric(target) {
		if types.WidensTo(types.KindOf(s), types.KindOf(target)) {
			return &ast.Convert{Expr: node, Target: target, Checked: false}, nil
		}
	}

	if types.IsNullable(target) {
		if elem, _ := types.Unwrap(target); elem == s {
			return &ast.Convert{Expr: node, Target: target, Checked: false}, nil
		}
		if elem, _ := types.Unwrap(target); types.IsNumeric(s) && types.IsNumeric(elem) && types.WidensTo(types.KindOf(s), types.KindOf(elem)) {
			return &ast.Convert{Expr: node, Target: target, Checked: false}, nil
		}
	}

	if types.AssignableWidening(s, target) {
		return &ast.Convert{Expr: node, Target: target, Checked: false}, nil
	}

	if !exact && target.Kind() != reflect.Ptr && target.Kind() != reflect.Interface {
		return nil, errAt(0, "cannot convert value of type %s to %s", s, target)
	}
	return &ast.Convert{Expr: node, Target: target, Checked: exact}, nil
}

// enumValue builds a reflect.Value of enum type t holding member, handling
// both signed and unsigned underlying representations.
func enumValue(t reflect.Type, member int64) reflect.Value {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		rv.SetUint(uint64(member))
	default:
		rv.SetInt(member)
	}
	return rv
}

func isReferenceKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

// reparseNumeric re-parses a literal's original text directly as target,
// honoring spec.md §4.6's "re-parse the literal's original text in T;
// succeed if in-range" narrowing rule.
func reparseNumeric(text string, target reflect.Type, numReg *numlit.Registry) (*ast.Constant, error) {
	kind := types.KindOf(target)
	var rv reflect.Value
	var err error
	if kind.IsIntegral() {
		rv, err = numReg.ParseInteger(text)
	} else {
		rv, err = numReg.ParseReal(text)
	}
	if err != nil {
		return nil, err
	}
	if !rv.Type().ConvertibleTo(target) {
		return nil, errAt(0, "literal %s not representable as %s", text, target)
	}
	return &ast.Constant{Value: rv.Convert(target).Interface(), Typ: target}, nil
}
