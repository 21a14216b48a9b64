/*
File    : aurora/ast/ast.go
Project : Aurora Compiler
*/

// Package ast defines the typed abstract syntax tree produced by the
// parser and consumed by the IR generator. Every expression node carries
// an attached primitive type: the parser computes the initial type and
// the generator may refine it (e.g. widening the result of mixed-width
// float arithmetic).
package ast

import "github.com/auroralang/aurora/typing"

// BinaryOp identifies one of the binary operators of the language.
// It is defined as a string so its display form is the operator itself.
type BinaryOp string

// Binary operators.
const (
	LessThan BinaryOp = "<"
	Plus     BinaryOp = "+"
	Minus    BinaryOp = "-"
	Times    BinaryOp = "*"
	Equal    BinaryOp = "=="
)

// Expr is an expression node: a pair of expression kind (the concrete
// struct) and attached type. The statement-like forms Assign, Block,
// IfElse and While are expressions of type void; Let carries the
// variable's nominal type and Return the returned value's type (void for
// a bare return).
type Expr interface {
	// Type returns the node's attached primitive type.
	Type() typing.Type
	// SetType refines the node's attached type.
	SetType(t typing.Type)

	exprNode()
}

// attached is embedded by every concrete node to hold its type.
type attached struct {
	typ typing.Type
}

func (a *attached) Type() typing.Type {
	return a.typ
}

func (a *attached) SetType(t typing.Type) {
	a.typ = t
}

func (a *attached) exprNode() {}

// IntegerLiteral is a 64-bit signed integer literal.
type IntegerLiteral struct {
	attached
	Value int64
}

// FloatLiteral is a 64-bit float literal.
type FloatLiteral struct {
	attached
	Value float64
}

// BooleanLiteral is a true/false literal.
type BooleanLiteral struct {
	attached
	Value bool
}

// Variable is a reference to a named variable.
type Variable struct {
	attached
	Name string
}

// Binary is a binary operation with owned operands.
type Binary struct {
	attached
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Call is a function call by name, arguments in source order.
type Call struct {
	attached
	Name string
	Args []Expr
}

// Block is an ordered sequence of sub-expressions; its type is void.
type Block struct {
	attached
	Exprs []Expr
}

// Let declares a new variable, optionally initialized. The attached
// type is the variable's nominal type (from the annotation or inferred
// from the initializer), not void, so the generator can size the slot.
type Let struct {
	attached
	Name string
	Init Expr // nil when the declaration has no initializer
}

// Assign stores a value into a named variable.
type Assign struct {
	attached
	Name  string
	Value Expr
}

// Return exits the enclosing function, optionally with a value. Its
// attached type is the contained expression's type, or void.
type Return struct {
	attached
	Value Expr // nil for a bare `return;`
}

// IfElse is structured two-way branching. The else branch may be nil,
// a Block, or a nested IfElse (an `else if` chain).
type IfElse struct {
	attached
	Cond Expr
	Then Expr
	Else Expr // nil when there is no else branch
}

// While is a structured pre-tested loop.
type While struct {
	attached
	Cond Expr
	Body Expr
}

// New wraps a concrete node with its attached type. It is the single
// constructor the parser uses for every node kind.
//
// Example:
//
//	expr := ast.New(&ast.IntegerLiteral{Value: 1}, typing.I64)
func New[E Expr](expr E, t typing.Type) E {
	expr.SetType(t)
	return expr
}

// Parameter is a function parameter: name plus declared type.
// The declared type is never any or void.
type Parameter struct {
	Name string
	Type typing.Type
}

// Prototype is a function's name, ordered parameter list, and return
// type, without a body. Void return is permitted.
type Prototype struct {
	FunctionName string
	Parameters   []Parameter
	ReturnType   typing.Type
}

// Function is a prototype plus its body, which is always a Block.
type Function struct {
	Prototype Prototype
	Body      *Block
}
