// Package exprquery is the library façade (spec.md §6): it wires
// internal/parser and internal/eval together behind the five entry points a
// caller writes against — parse, parse_expression, parse_lambda (two
// arities) and parse_ordering — grounded on the teacher's sqlair.go
// Prepare/MustPrepare convention of a small set of top-level constructor
// functions returning a wrapper struct with methods, rather than an
// exported Parser type callers build up field by field.
package exprquery

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/eval"
	"github.com/exprquery/exprquery/internal/parser"
	"github.com/exprquery/exprquery/internal/types"
)

// Param is one formal parameter of a ParseLambdaParams lambda.
type Param struct {
	Name string
	Typ  reflect.Type
}

// RegisterEnum makes a named integer type's members resolvable by name in
// expression text (spec.md §4.6's string-literal-to-enum promotion and
// §4.7's enum/integer coercion). Go has no runtime reflection over named
// integer constants, so a type's members must be registered before parsing
// any text that refers to them by name, e.g.:
//
//	type Status int32
//	const (StatusOpen Status = iota; StatusClosed)
//	exprquery.RegisterEnum(reflect.TypeOf(Status(0)), map[string]int64{
//		"Open": int64(StatusOpen), "Closed": int64(StatusClosed),
//	})
func RegisterEnum(t reflect.Type, members map[string]int64) {
	types.DefaultEnums().Register(t, members)
}

// Parse compiles text to an expression with no unbound parameters
// (spec.md §6). resultType may be nil to infer the parsed type instead of
// promoting to it.
func Parse(resultType reflect.Type, text string, values ...any) (*Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ArgumentError{Message: "text must not be empty"}
	}
	scope, externals, env := prepareScope(values)
	p, err := parser.New(text, scope, externals)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	node, err := p.Parse(resultType)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	return &Expression{node: node, env: env}, nil
}

// ParseExpression compiles text with a single named parameter in scope
// (spec.md §6). The returned Expression's Invoke expects exactly one
// argument: the parameter's value.
func ParseExpression(paramName string, paramType reflect.Type, resultType reflect.Type, text string, values ...any) (*Expression, error) {
	if paramName == "" {
		return nil, &ArgumentError{Message: "parameter name must not be empty"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ArgumentError{Message: "text must not be empty"}
	}
	scope, externals, env := prepareScope(values)
	if err := scope.Define(&ast.Parameter{Name: paramName, Typ: paramType}); err != nil {
		return nil, wrapParseErr(err)
	}
	p, err := parser.New(text, scope, externals)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	node, err := p.Parse(resultType)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	return &Expression{node: node, env: env, unbound: paramName}, nil
}

// ParseLambda compiles text with a single unnamed parameter, bound as `it`
// (spec.md §6): members of the parameter are implicitly in scope.
func ParseLambda(elementType reflect.Type, resultType reflect.Type, text string, values ...any) (*Lambda, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ArgumentError{Message: "text must not be empty"}
	}
	scope, externals, env := prepareScope(values)
	it := &ast.Parameter{Name: "it", Typ: elementType}
	scope.It, scope.Root = it, it
	p, err := parser.New(text, scope, externals)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	node, err := p.Parse(resultType)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	retType := node.Type()
	if resultType != nil {
		retType = resultType
	}
	return &Lambda{node: &ast.Lambda{Parameters: []*ast.Parameter{it}, Body: node, ReturnType: retType}, env: env}, nil
}

// ParseLambdaParams compiles text against a multi-parameter lambda
// signature (spec.md §6); every parameter is reachable by name, not via
// `it`.
func ParseLambdaParams(params []Param, resultType reflect.Type, text string, values ...any) (*Lambda, error) {
	if len(params) == 0 {
		return nil, &ArgumentError{Message: "at least one parameter is required"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ArgumentError{Message: "text must not be empty"}
	}
	scope, externals, env := prepareScope(values)
	astParams := make([]*ast.Parameter, len(params))
	for i, prm := range params {
		if prm.Name == "" {
			return nil, &ArgumentError{Message: "parameter name must not be empty"}
		}
		ap := &ast.Parameter{Name: prm.Name, Typ: prm.Typ}
		if err := scope.Define(ap); err != nil {
			return nil, wrapParseErr(err)
		}
		astParams[i] = ap
	}
	p, err := parser.New(text, scope, externals)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	node, err := p.Parse(resultType)
	if err != nil {
		return nil, wrapParseErr(err)
	}
	retType := node.Type()
	if resultType != nil {
		retType = resultType
	}
	return &Lambda{node: &ast.Lambda{Parameters: astParams, Body: node, ReturnType: retType}, env: env}, nil
}

// splitValues separates the positional `values...` list from a trailing
// externals mapping (spec.md §4.3: "If the last user-supplied argument is a
// name→value mapping, it becomes the externals dictionary").
func splitValues(values []any) (positional []any, externals map[string]any) {
	if len(values) == 0 {
		return nil, nil
	}
	if m, ok := values[len(values)-1].(map[string]any); ok {
		return values[:len(values)-1], m
	}
	return values, nil
}

// prepareScope binds positional values as `@0`, `@1`, … and any trailing
// mapping as externals, returning both the parser-time symbol table and the
// matching evaluator environment those bindings resolve against at
// Invoke time.
func prepareScope(values []any) (*parser.Scope, map[string]reflect.Value, *eval.Env) {
	positional, externalsRaw := splitValues(values)
	scope := parser.NewScope()
	named := map[string]reflect.Value{}
	externals := map[string]reflect.Value{}
	for i, v := range positional {
		name := fmt.Sprintf("@%d", i)
		rv := reflect.ValueOf(v)
		scope.Named[name] = &ast.Parameter{Name: name, Typ: rv.Type()}
		named[name] = rv
	}
	for k, v := range externalsRaw {
		rv := reflect.ValueOf(v)
		externals[k] = rv
		named[k] = rv
	}
	return scope, externals, &eval.Env{Named: named}
}

func cloneEnv(env *eval.Env) *eval.Env {
	named := make(map[string]reflect.Value, len(env.Named)+1)
	for k, v := range env.Named {
		named[k] = v
	}
	return &eval.Env{It: env.It, Parent: env.Parent, Root: env.Root, Named: named}
}
