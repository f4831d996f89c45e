// Package ast defines the typed expression node variants every parser
// reduction emits (spec.md §3). Every node exposes Type(); nodes are built
// bottom-up during parsing and never mutated afterward, except for the
// in-place literal→narrower-target promotion the parser applies after
// overload resolution (spec.md §4.5 step 3), which replaces a Constant node wholesale rather
// than mutating it.
//
// Grounded on the teacher's internal/expr "one small interface, many small
// structs" expression shape, and on other_examples/NLstn-go-odata__ast.go's
// ASTNode convention (a marker interface plus one struct per node kind).
package ast

import (
	"fmt"
	"reflect"
)

// Node is implemented by every typed expression tree node.
type Node interface {
	// Type returns the node's static type. Never nil.
	Type() reflect.Type
	String() string
}

// Constant is a literal or already-evaluated value baked into the tree.
type Constant struct {
	Value any
	Typ   reflect.Type
}

func (c *Constant) Type() reflect.Type { return c.Typ }
func (c *Constant) String() string     { return fmt.Sprintf("%v", c.Value) }

// Parameter is a named, bound lambda/expression parameter (it/parent/root,
// a user-supplied positional name, or a lambda formal parameter).
type Parameter struct {
	Name string
	Typ  reflect.Type
}

func (p *Parameter) Type() reflect.Type { return p.Typ }
func (p *Parameter) String() string     { return p.Name }

// MemberAccess reads a field or property of Target.
type MemberAccess struct {
	Target Node
	Member string
	Typ    reflect.Type
	// FieldIndex is the reflect.StructField index path for a direct field;
	// nil when Member resolves through a getter method instead.
	FieldIndex []int
}

func (m *MemberAccess) Type() reflect.Type { return m.Typ }
func (m *MemberAccess) String() string     { return m.Target.String() + "." + m.Member }

// MethodCall invokes Method on Receiver (nil for a static/free function)
// with Args.
type MethodCall struct {
	Receiver Node // nil for static calls
	Method   reflect.Method
	Args     []Node
	Typ      reflect.Type
}

func (c *MethodCall) Type() reflect.Type { return c.Typ }
func (c *MethodCall) String() string {
	if c.Receiver != nil {
		return c.Receiver.String() + "." + c.Method.Name + "(...)"
	}
	return c.Method.Name + "(...)"
}

// BinaryKind enumerates the binary operator categories spec.md §4.7 assigns
// fixed signature tables to.
type BinaryKind int

const (
	Or BinaryKind = iota
	And
	BitOr
	BitAnd
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Shl
	Shr
	Add
	Sub
	Mul
	Div
	Mod
	In
)

var binaryKindNames = map[BinaryKind]string{
	Or: "||", And: "&&", BitOr: "|", BitAnd: "&",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	Shl: "<<", Shr: ">>", Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	In: "in",
}

func (k BinaryKind) String() string { return binaryKindNames[k] }

// Binary is a binary operator application; both operands have already been
// promoted to the selected signature's parameter types by the time a Binary
// node is constructed (spec.md §4.7).
type Binary struct {
	Kind        BinaryKind
	Left, Right Node
	Typ         reflect.Type
}

func (b *Binary) Type() reflect.Type { return b.Typ }
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Kind, b.Right)
}

// UnaryKind enumerates the unary operator categories.
type UnaryKind int

const (
	Neg UnaryKind = iota
	Not
)

func (k UnaryKind) String() string {
	if k == Not {
		return "!"
	}
	return "-"
}

// Unary is a unary operator application.
type Unary struct {
	Kind    UnaryKind
	Operand Node
	Typ     reflect.Type
}

func (u *Unary) Type() reflect.Type { return u.Typ }
func (u *Unary) String() string     { return u.Kind.String() + u.Operand.String() }

// Conditional is the ternary `test ? then : else` / `iif(test, then, else)`
// operator.
type Conditional struct {
	Test, Then, Else Node
	Typ              reflect.Type
}

func (c *Conditional) Type() reflect.Type { return c.Typ }
func (c *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Test, c.Then, c.Else)
}

// NewObject is an explicit constructor invocation, `Type(args)`.
type NewObject struct {
	Ctor reflect.Method // Typ's method named New, found by MethodByName
	Typ  reflect.Type
	Args []Node
}

func (n *NewObject) Type() reflect.Type { return n.Typ }
func (n *NewObject) String() string     { return "new " + n.Typ.String() + "(...)" }

// Binding is one `expr as name` entry of a `new(...)` anonymous-class
// expression.
type Binding struct {
	Name  string
	Value Node
}

// NewAnonymous materializes an anonymous data-class instance (spec.md
// §4.4, §4.10).
type NewAnonymous struct {
	Bindings []Binding
	Typ      reflect.Type // the emitted struct type from internal/anonclass
}

func (n *NewAnonymous) Type() reflect.Type { return n.Typ }
func (n *NewAnonymous) String() string     { return "new(...)" }

// Invoke applies a dynamically substituted lambda value to Args (spec.md
// §3, "dynamic lambda invocation").
type Invoke struct {
	Lambda Node
	Args   []Node
	Typ    reflect.Type
}

func (i *Invoke) Type() reflect.Type { return i.Typ }
func (i *Invoke) String() string     { return i.Lambda.String() + "(...)" }

// Lambda is `{parameters, body, return type}` (spec.md §3).
type Lambda struct {
	Parameters []*Parameter
	Body       Node
	ReturnType reflect.Type
}

func (l *Lambda) Type() reflect.Type { return l.funcType() }
func (l *Lambda) String() string     { return "lambda(...)" }

func (l *Lambda) funcType() reflect.Type {
	in := make([]reflect.Type, len(l.Parameters))
	for i, p := range l.Parameters {
		in[i] = p.Type()
	}
	return reflect.FuncOf(in, []reflect.Type{l.ReturnType}, false)
}

// AggregateOp names a recognized sequence operator (spec.md §4.7).
type AggregateOp int

const (
	Where AggregateOp = iota
	Any
	All
	First
	FirstOrDefault
	Single
	SingleOrDefault
	Last
	LastOrDefault
	Count
	Min
	Max
	Sum
	Average
	Select
	OrderBy
	OrderByDescending
	Contains
)

var aggregateOpNames = map[AggregateOp]string{
	Where: "Where", Any: "Any", All: "All",
	First: "First", FirstOrDefault: "FirstOrDefault",
	Single: "Single", SingleOrDefault: "SingleOrDefault",
	Last: "Last", LastOrDefault: "LastOrDefault",
	Count: "Count", Min: "Min", Max: "Max", Sum: "Sum", Average: "Average",
	Select: "Select", OrderBy: "OrderBy", OrderByDescending: "OrderByDescending",
	Contains: "Contains",
}

func (o AggregateOp) String() string { return aggregateOpNames[o] }

// Aggregate is a sequence-operator application (spec.md §4.7). Receiver
// must be enumerable. Arg is the operator's lambda/argument body, built with
// scope already shifted (new `it` is the element type, old `it` becomes
// `parent`); Arg is nil for the arity-0 operators (Count, Min, Max, Sum,
// Average with no selector) and Contains, whose two plain arguments instead
// live in Args.
type Aggregate struct {
	Op       AggregateOp
	Receiver Node
	Element  *Parameter // new `it` inside Arg; nil when Arg is nil
	Arg      Node
	Args     []Node // Contains' two plain arguments
	Typ      reflect.Type
}

func (a *Aggregate) Type() reflect.Type { return a.Typ }
func (a *Aggregate) String() string {
	return a.Receiver.String() + "." + a.Op.String() + "(...)"
}

// Convert wraps Expr in an implicit or explicit conversion to Target.
type Convert struct {
	Expr    Node
	Target  reflect.Type
	Checked bool
}

func (c *Convert) Type() reflect.Type { return c.Target }
func (c *Convert) String() string {
	return fmt.Sprintf("(%s)(%s)", c.Target, c.Expr)
}
