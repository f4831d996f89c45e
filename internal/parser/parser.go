// Package parser implements the recursive-descent parser and semantic
// analyzer (spec.md §4.3, §4.4, §4.11): it turns expression source text
// into a typed internal/ast.Node tree, resolving names, overloads, and
// promotions as it goes rather than in a later separate pass.
//
// Grounded on the teacher's internal/expr/parser.go: a single-token
// lookahead cursor with checkpoint/save/restore backtracking and a
// parseList-style helper for comma-separated argument lists. The teacher's
// parser walks characters directly; this one walks a pre-lexed token slice,
// since internal/lex already owns character-level scanning — the
// checkpoint/restore discipline is the same, just over token indices
// instead of byte offsets.
package parser

import (
	"reflect"
	"strings"

	"github.com/exprquery/exprquery/internal/anonclass"
	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/lex"
	"github.com/exprquery/exprquery/internal/numlit"
	"github.com/exprquery/exprquery/internal/overload"
	"github.com/exprquery/exprquery/internal/types"
)

// Parser holds all per-parse state: the token buffer, cursor, scope, and
// the shared immutable services (number registry, type resolver, operator
// tables, anonymous-class factory). Construct one per call (spec.md §5); a
// Parser is never shared across concurrent parses.
type Parser struct {
	tokens []lex.Token
	pos    int

	Scope     *Scope
	Externals map[string]reflect.Value

	numReg    *numlit.Registry
	resolver  *types.Resolver
	opTables  *overload.Tables
	anonFac   *anonclass.Factory
	literals  *types.LiteralStore
}

// New lexes input in full and returns a ready Parser (spec.md §4.11,
// "Initial transition: set cursor to 0, prime one token").
func New(input string, scope *Scope, externals map[string]reflect.Value) (*Parser, error) {
	lx := lex.New(input)
	var tokens []lex.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			le := err.(*lex.Error)
			return nil, &Error{Pos: le.Pos, Message: le.Msg}
		}
		tokens = append(tokens, tok)
		if tok.Kind == lex.End {
			break
		}
	}
	if scope == nil {
		scope = NewScope()
	}
	if externals == nil {
		externals = map[string]reflect.Value{}
	}
	return &Parser{
		tokens:    tokens,
		Scope:     scope,
		Externals: externals,
		numReg:    numlit.Default(),
		resolver:  types.Default(),
		opTables:  overload.DefaultTables(),
		anonFac:   anonclass.Global(),
		literals:  types.NewLiteralStore(),
	}, nil
}

// Literals exposes the parse-scoped literal-text store, e.g. for callers
// that need to re-promote a parsed tree's constants against a late-bound
// expected type.
func (p *Parser) Literals() *types.LiteralStore { return p.literals }

func (p *Parser) cur() lex.Token { return p.tokens[p.pos] }

func (p *Parser) advance() lex.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) checkpoint() int { return p.pos }
func (p *Parser) restore(cp int)  { p.pos = cp }

func (p *Parser) expect(k lex.Kind) (lex.Token, error) {
	if p.cur().Kind != k {
		return lex.Token{}, errAt(p.cur().Pos, "expected %s, found %s", k, p.cur())
	}
	return p.advance(), nil
}

// atKeyword reports whether the current token is an identifier matching
// one of the given case-insensitive keywords, without consuming it.
func (p *Parser) atKeyword(keywords ...string) bool {
	if p.cur().Kind != lex.Identifier {
		return false
	}
	for _, kw := range keywords {
		if strings.EqualFold(p.cur().Text, kw) {
			return true
		}
	}
	return false
}

// Parse implements spec.md §4.11's `parse(expected_type)`: parse a full
// expression, promote it to expectedType if non-nil, and require the
// cursor to be at end of input afterward.
func (p *Parser) Parse(expectedType reflect.Type) (ast.Node, error) {
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.End {
		return nil, errAt(p.cur().Pos, "syntax error at %s", p.cur())
	}
	if expectedType != nil {
		return promote(node, expectedType, p.literals, p.numReg, true)
	}
	return node, nil
}

func (p *Parser) parseExpr() (ast.Node, error) { return p.parseConditional() }

// parseConditional handles `test ? then : else`, the lowest-precedence
// operator (spec.md §4.4).
func (p *Parser) parseConditional() (ast.Node, error) {
	test, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lex.Question {
		return test, nil
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.Colon); err != nil {
		return nil, err
	}
	els, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return p.buildConditional(test, then, els)
}

func (p *Parser) buildConditional(test, then, els ast.Node) (ast.Node, error) {
	if test.Type().Kind() != reflect.Bool {
		return nil, errAt(0, "conditional test must be bool, got %s", test.Type())
	}
	resultType := then.Type()
	if then.Type() != els.Type() {
		if promoted, err := promote(els, then.Type(), p.literals, p.numReg, false); err == nil {
			els = promoted
		} else if promoted, err := promote(then, els.Type(), p.literals, p.numReg, false); err == nil {
			then = promoted
			resultType = els.Type()
		} else {
			return nil, errAt(0, "incompatible branch types %s and %s", then.Type(), els.Type())
		}
	}
	return &ast.Conditional{Test: test, Then: then, Else: els, Typ: resultType}, nil
}

// parseBinaryLevel factors the repeated "left (op right)*" shape shared by
// every left-associative binary precedence level (spec.md §4.4).
func (p *Parser) parseBinaryLevel(next func() (ast.Node, error), ops map[lex.Kind]ast.BinaryKind) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		kind, ok := ops[p.cur().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left, err = p.buildBinary(kind, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseLogicalOr() (ast.Node, error) {
	return p.parseOrLevel()
}

// parseIn handles the `in` operator (spec.md §4.7), which sits between
// logical-or and logical-and in precedence and is not a signature-table
// binary operator.
func (p *Parser) parseIn() (ast.Node, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("in") {
		return left, nil
	}
	p.advance()
	if _, err := p.expect(lex.LParen); err != nil {
		return nil, err
	}
	var elems []ast.Node
	if p.cur().Kind != lex.RParen {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur().Kind != lex.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return p.buildIn(left, elems)
}

// buildIn compiles `x in (l1, l2, ...)` to a chain of equality ORs, per
// spec.md §4.7 form 1.
func (p *Parser) buildIn(x ast.Node, elems []ast.Node) (ast.Node, error) {
	if len(elems) == 0 {
		return &ast.Constant{Value: false, Typ: reflect.TypeOf(false)}, nil
	}
	var chain ast.Node
	for _, e := range elems {
		promoted, err := promote(e, x.Type(), p.literals, p.numReg, false)
		if err != nil {
			return nil, errAt(0, "in-list element type %s incompatible with %s: %s", e.Type(), x.Type(), err)
		}
		eq, err := p.buildBinary(ast.Eq, x, promoted)
		if err != nil {
			return nil, err
		}
		if chain == nil {
			chain = eq
		} else {
			or, err := p.buildBinary(ast.Or, chain, eq)
			if err != nil {
				return nil, err
			}
			chain = or
		}
	}
	return chain, nil
}

var orOps = map[lex.Kind]ast.BinaryKind{lex.PipePipe: ast.Or}
var andOps = map[lex.Kind]ast.BinaryKind{lex.AmpAmp: ast.And}
var bitOrOps = map[lex.Kind]ast.BinaryKind{lex.Pipe: ast.BitOr}
var bitAndOps = map[lex.Kind]ast.BinaryKind{lex.Amp: ast.BitAnd}
var equalityOps = map[lex.Kind]ast.BinaryKind{lex.EqualEqual: ast.Eq, lex.Equal: ast.Eq, lex.BangEqual: ast.Ne, lex.NotEqual: ast.Ne}
var relationalOps = map[lex.Kind]ast.BinaryKind{lex.Less: ast.Lt, lex.LessEqual: ast.Le, lex.Greater: ast.Gt, lex.GreaterEqual: ast.Ge}
var shiftOps = map[lex.Kind]ast.BinaryKind{lex.LessLess: ast.Shl, lex.GreaterGreater: ast.Shr}
var additiveOps = map[lex.Kind]ast.BinaryKind{lex.Plus: ast.Add, lex.Minus: ast.Sub}
var multiplicativeOps = map[lex.Kind]ast.BinaryKind{lex.Star: ast.Mul, lex.Slash: ast.Div, lex.Percent: ast.Mod}

func (p *Parser) parseOrLevel() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseIn, orOps)
}
func (p *Parser) parseLogicalAnd() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseBitOr, andOps)
}
func (p *Parser) parseBitOr() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseBitAnd, bitOrOps)
}
func (p *Parser) parseBitAnd() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseEquality, bitAndOps)
}
func (p *Parser) parseEquality() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseRelational, equalityOps)
}
func (p *Parser) parseRelational() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseShift, relationalOps)
}
func (p *Parser) parseShift() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseAdditive, shiftOps)
}
func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, additiveOps)
}
func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseUnary, multiplicativeOps)
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch p.cur().Kind {
	case lex.Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.buildUnary(ast.Neg, operand)
	case lex.Bang:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.buildUnary(ast.Not, operand)
	}
	return p.parsePostfix()
}
