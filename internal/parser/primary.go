package parser

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/exprquery/exprquery/internal/anonclass"
	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/lex"
	"github.com/exprquery/exprquery/internal/overload"
	"github.com/exprquery/exprquery/internal/types"
)

// parsePostfix parses a primary followed by any chain of `.member`,
// `.member(args)`, and `[index]` suffixes (spec.md §4.8).
func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lex.Dot:
			p.advance()
			nameTok, err := p.expect(lex.Identifier)
			if err != nil {
				return nil, err
			}
			if p.cur().Kind == lex.LParen {
				node, err = p.parseCallOrAggregate(node, nameTok.Text)
				if err != nil {
					return nil, err
				}
				continue
			}
			node, err = p.buildMemberAccess(node, nameTok.Text)
			if err != nil {
				return nil, err
			}
		case lex.LBracket:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.RBracket); err != nil {
				return nil, err
			}
			node, err = p.buildIndex(node, idx)
			if err != nil {
				return nil, err
			}
		default:
			return node, nil
		}
	}
}

// buildMemberAccess resolves a field or property by walking the receiver's
// base chain (spec.md §4.8).
func (p *Parser) buildMemberAccess(target ast.Node, member string) (ast.Node, error) {
	t := target.Type()
	for _, base := range types.BaseChain(t) {
		if base.Kind() != reflect.Struct {
			continue
		}
		if f, ok := base.FieldByName(member); ok {
			return &ast.MemberAccess{Target: target, Member: member, Typ: f.Type, FieldIndex: f.Index}, nil
		}
	}
	if m, ok := t.MethodByName(member); ok && m.Type.NumIn() == 1 {
		return &ast.MethodCall{Receiver: target, Method: m, Typ: m.Type.Out(0)}, nil
	}
	return nil, errAt(0, "no field or property %q on %s", member, t)
}

// buildIndex resolves single-rank array/slice indexing, promoting the
// index expression to int (spec.md §4.8).
func (p *Parser) buildIndex(target, idx ast.Node) (ast.Node, error) {
	t := target.Type()
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, errAt(0, "type %s is not indexable", t)
	}
	promotedIdx, err := promote(idx, reflect.TypeOf(0), p.literals, p.numReg, false)
	if err != nil {
		return nil, errAt(0, "index expression must be int-convertible: %s", err)
	}
	return &ast.MethodCall{Receiver: target, Method: reflect.Method{Name: "__index__"}, Args: []ast.Node{promotedIdx}, Typ: t.Elem()}, nil
}

// parseCallOrAggregate parses `name(args)` on a receiver, recognizing
// aggregate/sequence operators when the receiver is enumerable (spec.md
// §4.7) and falling back to ordinary reflected method overload resolution
// otherwise.
func (p *Parser) parseCallOrAggregate(receiver ast.Node, name string) (ast.Node, error) {
	if op, ok := aggregateOpByName(name); ok && isEnumerable(receiver.Type()) {
		return p.parseAggregate(receiver, op)
	}
	p.advance() // consume '('
	var args []ast.Node
	if p.cur().Kind != lex.RParen {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.cur().Kind != lex.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return p.buildMethodCall(receiver, name, args)
}

func (p *Parser) buildMethodCall(receiver ast.Node, name string, args []ast.Node) (ast.Node, error) {
	t := receiver.Type()
	var candidates []overload.Signature
	var methods []reflect.Method
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		params := make([]reflect.Type, m.Type.NumIn()-1)
		for j := range params {
			params[j] = m.Type.In(j + 1)
		}
		candidates = append(candidates, overload.Signature{Params: params, Payload: len(methods)})
		methods = append(methods, m)
	}
	argTypes := make([]reflect.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}
	res := overload.Resolve(candidates, argTypes)
	switch {
	case res.None():
		return nil, errAt(0, "no applicable method %q on %s", name, t)
	case res.Ambiguous():
		return nil, errAt(0, "ambiguous method %q on %s", name, t)
	}
	chosen := methods[res.Candidate.Payload.(int)]
	promotedArgs := make([]ast.Node, len(args))
	for i, param := range res.Candidate.Params {
		pa, err := promote(args[i], param, p.literals, p.numReg, false)
		if err != nil {
			return nil, err
		}
		promotedArgs[i] = pa
	}
	return &ast.MethodCall{Receiver: receiver, Method: chosen, Args: promotedArgs, Typ: resultTypeOf(chosen)}, nil
}

func resultTypeOf(m reflect.Method) reflect.Type {
	if m.Type.NumOut() == 0 {
		return nil
	}
	return m.Type.Out(0)
}

func isEnumerable(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func aggregateOpByName(name string) (ast.AggregateOp, bool) {
	for op, n := range aggregateOpNames {
		if strings.EqualFold(n, name) {
			return op, true
		}
	}
	return 0, false
}

var aggregateOpNames = map[ast.AggregateOp]string{
	ast.Where: "Where", ast.Any: "Any", ast.All: "All",
	ast.First: "First", ast.FirstOrDefault: "FirstOrDefault",
	ast.Single: "Single", ast.SingleOrDefault: "SingleOrDefault",
	ast.Last: "Last", ast.LastOrDefault: "LastOrDefault",
	ast.Count: "Count", ast.Min: "Min", ast.Max: "Max", ast.Sum: "Sum", ast.Average: "Average",
	ast.Select: "Select", ast.OrderBy: "OrderBy", ast.OrderByDescending: "OrderByDescending",
	ast.Contains: "Contains",
}

// aggregateArity0 lists operators with no lambda argument at all.
var aggregateArity0 = map[ast.AggregateOp]bool{
	ast.Count: true, ast.Min: true, ast.Max: true, ast.Sum: true, ast.Average: true,
	ast.First: true, ast.FirstOrDefault: true, ast.Single: true, ast.SingleOrDefault: true,
	ast.Last: true, ast.LastOrDefault: true,
}

// parseAggregate parses a recognized sequence operator's argument list,
// shifting scope for its lambda body per spec.md §4.7.
func (p *Parser) parseAggregate(receiver ast.Node, op ast.AggregateOp) (ast.Node, error) {
	p.advance() // consume '('
	elemType := receiver.Type().Elem()

	if op == ast.Contains {
		var args []ast.Node
		if p.cur().Kind != lex.RParen {
			for {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.cur().Kind != lex.Comma {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(lex.RParen); err != nil {
			return nil, err
		}
		return &ast.Aggregate{Op: op, Receiver: receiver, Args: args, Typ: reflect.TypeOf(false)}, nil
	}

	if p.cur().Kind == lex.RParen && aggregateArity0[op] {
		p.advance()
		return p.buildAggregateArity0(receiver, op, elemType)
	}

	element := &ast.Parameter{Name: "it", Typ: elemType}
	snap := p.Scope.EnterAggregateBody(element)
	body, err := p.parseExpr()
	p.Scope.Restore(snap)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}

	resultType, err := aggregateResultType(op, elemType, body.Type())
	if err != nil {
		return nil, err
	}
	return &ast.Aggregate{Op: op, Receiver: receiver, Element: element, Arg: body, Typ: resultType}, nil
}

func (p *Parser) buildAggregateArity0(receiver ast.Node, op ast.AggregateOp, elemType reflect.Type) (ast.Node, error) {
	resultType, err := aggregateResultType(op, elemType, elemType)
	if err != nil {
		return nil, err
	}
	return &ast.Aggregate{Op: op, Receiver: receiver, Typ: resultType}, nil
}

func aggregateResultType(op ast.AggregateOp, elemType, selectorType reflect.Type) (reflect.Type, error) {
	boolT := reflect.TypeOf(false)
	intT := reflect.TypeOf(0)
	switch op {
	case ast.Select:
		return reflect.SliceOf(selectorType), nil
	case ast.Where, ast.OrderBy, ast.OrderByDescending:
		return reflect.SliceOf(elemType), nil
	case ast.Any, ast.All, ast.Contains:
		return boolT, nil
	case ast.First, ast.FirstOrDefault, ast.Single, ast.SingleOrDefault, ast.Last, ast.LastOrDefault:
		return elemType, nil
	case ast.Count:
		return intT, nil
	case ast.Min, ast.Max, ast.Sum, ast.Average:
		return selectorType, nil
	}
	return nil, errAt(0, "unsupported aggregate operator")
}

// parsePrimary parses literals, identifiers, parenthesized expressions, and
// the special primary forms listed in spec.md §4.4.
func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case lex.IntegerLiteral:
		p.advance()
		v, err := p.numReg.ParseInteger(tok.Text)
		if err != nil {
			return nil, errAt(tok.Pos, "invalid integer literal: %s", err)
		}
		c := &ast.Constant{Value: v.Interface(), Typ: v.Type()}
		p.literals.Record(c, tok.Text)
		return c, nil
	case lex.RealLiteral:
		p.advance()
		v, err := p.numReg.ParseReal(tok.Text)
		if err != nil {
			return nil, errAt(tok.Pos, "invalid real literal: %s", err)
		}
		c := &ast.Constant{Value: v.Interface(), Typ: v.Type()}
		p.literals.Record(c, tok.Text)
		return c, nil
	case lex.StringLiteral:
		p.advance()
		c := &ast.Constant{Value: tok.Text, Typ: stringType}
		p.literals.Record(c, tok.Text)
		return c, nil
	case lex.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lex.Identifier:
		return p.parseIdentifierPrimary()
	}
	return nil, errAt(tok.Pos, "unexpected token %s", tok)
}

func (p *Parser) parseIdentifierPrimary() (ast.Node, error) {
	tok := p.advance()
	name := tok.Text

	switch {
	case strings.EqualFold(name, "true"):
		return &ast.Constant{Value: true, Typ: reflect.TypeOf(false)}, nil
	case strings.EqualFold(name, "false"):
		return &ast.Constant{Value: false, Typ: reflect.TypeOf(false)}, nil
	case strings.EqualFold(name, "null"):
		return &ast.Constant{Value: nil, Typ: nil}, nil
	case strings.EqualFold(name, "iif") && p.cur().Kind == lex.LParen:
		return p.parseIif()
	case strings.EqualFold(name, "new") && p.cur().Kind == lex.LParen:
		return p.parseNewAnonymous()
	case strings.EqualFold(name, "tuple") && p.cur().Kind == lex.LParen:
		return p.parseTuple()
	}

	// Recognized-type check runs before local-symbol/external resolution
	// (spec.md §4.3): a scope binding or external named the same as a
	// recognized type (e.g. "Guid") never shadows the type when the name is
	// immediately followed by '?' or '(' — only in that case is there
	// anything for the type resolution to do, so a plain reference with
	// neither falls through to symbol/external/it lookup below.
	if t, ok := p.resolver.Lookup(name); ok {
		if p.cur().Kind == lex.Question {
			p.advance()
			nt, err := types.MakeNullable(t)
			if err != nil {
				return nil, errAt(tok.Pos, "no nullable form for %s: %s", t, err)
			}
			return &ast.Constant{Value: nil, Typ: nt}, nil
		}
		if p.cur().Kind == lex.LParen {
			return p.parseTypeCallOrCtor(t)
		}
	}
	if param, ok := p.Scope.Lookup(name); ok {
		return param, nil
	}
	if v, ok := p.Externals[name]; ok {
		return &ast.Constant{Value: v.Interface(), Typ: v.Type()}, nil
	}
	if p.Scope.It != nil {
		if member, err := p.buildMemberAccess(p.Scope.It, name); err == nil {
			return member, nil
		}
	}
	return nil, errAt(tok.Pos, "unknown identifier %q", name)
}

// parseTypeCallOrCtor implements `Type(args)`: an explicit conversion if
// exactly one argument and conversion rules apply, otherwise a constructor
// invocation (spec.md §4.4).
func (p *Parser) parseTypeCallOrCtor(t reflect.Type) (ast.Node, error) {
	p.advance() // consume '('
	var args []ast.Node
	if p.cur().Kind != lex.RParen {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.cur().Kind != lex.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return &ast.Convert{Expr: args[0], Target: t, Checked: true}, nil
	}
	ctor, ok := t.MethodByName("New")
	if !ok {
		return nil, errAt(0, "no matching constructor for %s", t)
	}
	return &ast.NewObject{Ctor: ctor, Typ: t, Args: args}, nil
}

// parseIif parses `iif(test, a, b)`, equivalent to `test ? a : b`.
func (p *Parser) parseIif() (ast.Node, error) {
	p.advance() // consume '('
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.Comma); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.Comma); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}
	return p.buildConditional(test, then, els)
}

// parseNewAnonymous parses `new(e1 as p1, e2, …)` (spec.md §4.4, §4.10).
func (p *Parser) parseNewAnonymous() (ast.Node, error) {
	p.advance() // consume '('
	var bindings []ast.Binding
	if p.cur().Kind != lex.RParen {
		for {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			name := ""
			if p.atKeyword("as") {
				p.advance()
				nameTok, err := p.expect(lex.Identifier)
				if err != nil {
					return nil, err
				}
				name = nameTok.Text
			} else if ma, ok := expr.(*ast.MemberAccess); ok {
				name = ma.Member
			} else if param, ok := expr.(*ast.Parameter); ok {
				name = param.Name
			} else {
				return nil, errAt(0, "anonymous class field requires 'as name' or a bare member access")
			}
			bindings = append(bindings, ast.Binding{Name: name, Value: expr})
			if p.cur().Kind != lex.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParen); err != nil {
		return nil, err
	}

	sig := make(anonclass.Signature, len(bindings))
	for i, b := range bindings {
		sig[i] = anonclass.DynamicProperty{Name: b.Name, Type: b.Value.Type()}
	}
	t := p.anonFac.TypeFor(sig)
	return &ast.NewAnonymous{Bindings: bindings, Typ: t}, nil
}

// parseTuple parses `tuple(e1, …, eN)`, recursively grouping any tail past
// 7 elements into a nested tuple (spec.md §4.4).
func (p *Parser) parseTuple() (ast.Node, error) {
	p.advance() // consume '('
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
	return p.buildTuple(elems)
}

func (p *Parser) buildTuple(elems []ast.Node) (ast.Node, error) {
	if len(elems) <= 7 {
		return p.buildTupleGroup(elems), nil
	}
	head := elems[:7]
	rest, err := p.buildTuple(elems[7:])
	if err != nil {
		return nil, err
	}
	group := p.buildTupleGroup(head)
	sig := append(anonclass.Signature{}, fieldsOf(group.(*ast.NewAnonymous))...)
	sig = append(sig, anonclass.DynamicProperty{Name: "Rest", Type: rest.Type()})
	t := p.anonFac.TypeFor(sig)
	bindings := append([]ast.Binding{}, group.(*ast.NewAnonymous).Bindings...)
	bindings = append(bindings, ast.Binding{Name: "Rest", Value: rest})
	return &ast.NewAnonymous{Bindings: bindings, Typ: t}, nil
}

func (p *Parser) buildTupleGroup(elems []ast.Node) ast.Node {
	sig := make(anonclass.Signature, len(elems))
	bindings := make([]ast.Binding, len(elems))
	for i, e := range elems {
		name := "Item" + strconv.Itoa(i+1)
		sig[i] = anonclass.DynamicProperty{Name: name, Type: e.Type()}
		bindings[i] = ast.Binding{Name: name, Value: e}
	}
	t := p.anonFac.TypeFor(sig)
	return &ast.NewAnonymous{Bindings: bindings, Typ: t}
}

func fieldsOf(n *ast.NewAnonymous) anonclass.Signature {
	sig := make(anonclass.Signature, len(n.Bindings))
	for i, b := range n.Bindings {
		sig[i] = anonclass.DynamicProperty{Name: b.Name, Type: b.Value.Type()}
	}
	return sig
}
