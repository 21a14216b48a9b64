/*
File    : aurora/parser/parser_test.go
Project : Aurora Compiler
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/typing"
)

// parseFunction parses a single `fn` definition from src.
func parseFunction(t *testing.T, src string) *ast.Function {
	t.Helper()
	par := NewParser(lexer.NewLexerString(src))
	fn, err := par.Definition()
	require.NoError(t, err)
	return fn
}

// parseError parses a single `fn` definition and returns the error.
func parseError(t *testing.T, src string) error {
	t.Helper()
	par := NewParser(lexer.NewLexerString(src))
	_, err := par.Definition()
	require.Error(t, err)
	return err
}

// statement returns the n-th statement of the function body.
func statement(t *testing.T, fn *ast.Function, n int) ast.Expr {
	t.Helper()
	require.Greater(t, len(fn.Body.Exprs), n)
	return fn.Body.Exprs[n]
}

func TestParser_Prototype(t *testing.T) {
	fn := parseFunction(t, `fn add(a: i64, b: i64) i64 { return a + b; }`)

	assert.Equal(t, "add", fn.Prototype.FunctionName)
	require.Len(t, fn.Prototype.Parameters, 2)
	assert.Equal(t, ast.Parameter{Name: "a", Type: typing.I64}, fn.Prototype.Parameters[0])
	assert.Equal(t, ast.Parameter{Name: "b", Type: typing.I64}, fn.Prototype.Parameters[1])
	assert.Equal(t, typing.I64, fn.Prototype.ReturnType)
}

func TestParser_PrototypeVoidReturn(t *testing.T) {
	fn := parseFunction(t, `fn side() {}`)
	assert.Equal(t, typing.Void, fn.Prototype.ReturnType)
	assert.Empty(t, fn.Body.Exprs)
}

func TestParser_Extern(t *testing.T) {
	par := NewParser(lexer.NewLexerString(`extern putfloatd(value: f64)`))
	proto, err := par.Extern()
	require.NoError(t, err)
	assert.Equal(t, "putfloatd", proto.FunctionName)
	require.Len(t, proto.Parameters, 1)
	assert.Equal(t, typing.F64, proto.Parameters[0].Type)
	assert.Equal(t, typing.Void, proto.ReturnType)
}

func TestParser_UnknownTypeName(t *testing.T) {
	err := parseError(t, `fn f(a: str) { }`)
	assert.True(t, errors.IsKind(err, errors.Undefined))
}

func TestParser_DuplicateParameter(t *testing.T) {
	err := parseError(t, `fn f(a: i32, a: i32) { }`)
	assert.True(t, errors.IsKind(err, errors.VariableRedef))
}

// Precedence: 1 + 2 * 3 parses as 1 + (2 * 3).
func TestParser_Precedence(t *testing.T) {
	fn := parseFunction(t, `fn f() i64 { return 1 + 2 * 3; }`)

	ret := statement(t, fn, 0).(*ast.Return)
	add, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Plus, add.Op)

	one, ok := add.Left.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), one.Value)

	mul, ok := add.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Times, mul.Op)
}

// Comparison binds loosest: a < b + c parses as a < (b + c).
func TestParser_ComparisonPrecedence(t *testing.T) {
	fn := parseFunction(t, `fn f(a: i64, b: i64, c: i64) bool { return a < b + c; }`)

	ret := statement(t, fn, 0).(*ast.Return)
	less, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.LessThan, less.Op)
	assert.Equal(t, typing.Bool, less.Type())

	add, ok := less.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Plus, add.Op)
}

// Associativity: a - b - c parses as (a - b) - c.
func TestParser_LeftAssociativity(t *testing.T) {
	fn := parseFunction(t, `fn f(a: i64, b: i64, c: i64) i64 { return a - b - c; }`)

	ret := statement(t, fn, 0).(*ast.Return)
	outer, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Minus, outer.Op)

	inner, ok := outer.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Minus, inner.Op)

	right, ok := outer.Right.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "c", right.Name)
}

func TestParser_Parentheses(t *testing.T) {
	fn := parseFunction(t, `fn f(a: i64, b: i64, c: i64) i64 { return (a + b) * c; }`)

	ret := statement(t, fn, 0).(*ast.Return)
	mul, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Times, mul.Op)

	add, ok := mul.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Plus, add.Op)
}

// Binary arithmetic nodes take the left operand's type.
func TestParser_BinaryTypeFromLeft(t *testing.T) {
	fn := parseFunction(t, `fn f(a: f32, b: f64) f64 { return a + b; }`)

	ret := statement(t, fn, 0).(*ast.Return)
	add := ret.Value.(*ast.Binary)
	assert.Equal(t, typing.F32, add.Type())
	assert.Equal(t, typing.F32, add.Left.Type())
	assert.Equal(t, typing.F64, add.Right.Type())
}

func TestParser_LetInference(t *testing.T) {
	fn := parseFunction(t, `fn f(x: i32) i32 { let y = x; return y; }`)

	let := statement(t, fn, 0).(*ast.Let)
	assert.Equal(t, "y", let.Name)
	assert.Equal(t, typing.I32, let.Type())

	ret := statement(t, fn, 1).(*ast.Return)
	variable := ret.Value.(*ast.Variable)
	assert.Equal(t, typing.I32, variable.Type())
}

// A bare literal initializer adopts the annotated type.
func TestParser_LetAnnotatedLiteral(t *testing.T) {
	fn := parseFunction(t, `fn f() { let a: i32 = 1; let b: f32 = 2.5; }`)

	a := statement(t, fn, 0).(*ast.Let)
	assert.Equal(t, typing.I32, a.Type())
	assert.Equal(t, typing.I32, a.Init.Type())

	b := statement(t, fn, 1).(*ast.Let)
	assert.Equal(t, typing.F32, b.Type())
	assert.Equal(t, typing.F32, b.Init.Type())
}

func TestParser_LetAnnotationMismatch(t *testing.T) {
	err := parseError(t, `fn f() { let a: i32 = 1.5; }`)
	assert.True(t, errors.IsKind(err, errors.MismatchedTypes))
}

// `let x;` has no annotation and no initializer to infer from.
func TestParser_LetWithoutType(t *testing.T) {
	err := parseError(t, `fn f() { let x; }`)
	require.True(t, errors.IsKind(err, errors.Undefined))
	assert.Contains(t, err.Error(), "undefined type")
}

func TestParser_LetAnnotationOnly(t *testing.T) {
	fn := parseFunction(t, `fn f() { let x: i64; x = 3; }`)

	let := statement(t, fn, 0).(*ast.Let)
	assert.Nil(t, let.Init)
	assert.Equal(t, typing.I64, let.Type())

	assign := statement(t, fn, 1).(*ast.Assign)
	assert.Equal(t, "x", assign.Name)
	assert.Equal(t, typing.Void, assign.Type())
}

func TestParser_VariableRedefinition(t *testing.T) {
	err := parseError(t, `fn f() { let x = 1; let x = 2; }`)
	assert.True(t, errors.IsKind(err, errors.VariableRedef))
}

func TestParser_UndefinedIdentifier(t *testing.T) {
	err := parseError(t, `fn f() i64 { return nope; }`)
	require.True(t, errors.IsKind(err, errors.Undefined))
	assert.Contains(t, err.Error(), "undefined identifier")
}

func TestParser_CallInheritsReturnType(t *testing.T) {
	src := `fn one() i64 { return 1; }`
	par := NewParser(lexer.NewLexerString(src + ` fn two() i64 { return one() + 1; }`))

	_, err := par.Definition()
	require.NoError(t, err)
	two, err := par.Definition()
	require.NoError(t, err)

	ret := two.Body.Exprs[0].(*ast.Return)
	add := ret.Value.(*ast.Binary)
	call, ok := add.Left.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "one", call.Name)
	assert.Equal(t, typing.I64, call.Type())
}

func TestParser_CallUndefinedFunction(t *testing.T) {
	err := parseError(t, `fn f() { nothing(); }`)
	require.True(t, errors.IsKind(err, errors.Undefined))
	assert.Contains(t, err.Error(), "undefined function")
}

// Parameters leave the symbol table when the definition ends.
func TestParser_ParametersDropAtFunctionExit(t *testing.T) {
	src := `fn f(a: i64) i64 { return a; } fn g() i64 { return a; }`
	par := NewParser(lexer.NewLexerString(src))

	_, err := par.Definition()
	require.NoError(t, err)
	_, err = par.Definition()
	require.True(t, errors.IsKind(err, errors.Undefined))
}

// Block-scoped declarations drop when the block closes.
func TestParser_BlockScopeDrops(t *testing.T) {
	src := `fn f(c: bool) i64 { if c { let t = 1; } return t; }`
	par := NewParser(lexer.NewLexerString(src))

	_, err := par.Definition()
	require.True(t, errors.IsKind(err, errors.Undefined))
}

func TestParser_IfElseChain(t *testing.T) {
	fn := parseFunction(t, `
fn f(a: bool, b: bool) {
    if a {
        let x = 1;
    } else if b {
        let y = 2;
    } else {
        let z = 3;
    }
}`)

	ifElse := statement(t, fn, 0).(*ast.IfElse)
	assert.Equal(t, typing.Void, ifElse.Type())
	assert.Equal(t, typing.Bool, ifElse.Cond.Type())

	nested, ok := ifElse.Else.(*ast.IfElse)
	require.True(t, ok)
	_, ok = nested.Else.(*ast.Block)
	assert.True(t, ok)
}

func TestParser_While(t *testing.T) {
	fn := parseFunction(t, `
fn count(n: i64) {
    let i: i64 = 0;
    while i < n {
        i = i + 1;
    }
}`)

	loop := statement(t, fn, 1).(*ast.While)
	assert.Equal(t, typing.Void, loop.Type())

	cond := loop.Cond.(*ast.Binary)
	assert.Equal(t, ast.LessThan, cond.Op)
	assert.Equal(t, typing.Bool, cond.Type())
}

func TestParser_ReturnForms(t *testing.T) {
	fn := parseFunction(t, `fn f() { return; }`)
	ret := statement(t, fn, 0).(*ast.Return)
	assert.Nil(t, ret.Value)
	assert.Equal(t, typing.Void, ret.Type())

	fn = parseFunction(t, `fn g() f64 { return 2.5; }`)
	ret = statement(t, fn, 0).(*ast.Return)
	require.NotNil(t, ret.Value)
	assert.Equal(t, typing.F64, ret.Type())
}

func TestParser_BooleanLiterals(t *testing.T) {
	fn := parseFunction(t, `fn f() bool { let ok = true; return ok == false; }`)

	let := statement(t, fn, 0).(*ast.Let)
	assert.Equal(t, typing.Bool, let.Type())

	ret := statement(t, fn, 1).(*ast.Return)
	eq := ret.Value.(*ast.Binary)
	assert.Equal(t, ast.Equal, eq.Op)
	assert.Equal(t, typing.Bool, eq.Type())
}

func TestParser_MissingSemicolon(t *testing.T) {
	err := parseError(t, `fn f() { let x = 1 }`)
	assert.True(t, errors.IsKind(err, errors.UnexpectedToken))
}

// All expressions of a well-typed body carry concrete non-any types.
func TestParser_AllNodesTyped(t *testing.T) {
	fn := parseFunction(t, `
fn f(a: i64, b: f64) f64 {
    let c = a * a;
    let d: f64 = 1.5;
    if 1 < a {
        d = d + b;
    }
    return d;
}`)

	var walk func(expr ast.Expr)
	walk = func(expr ast.Expr) {
		require.NotNil(t, expr)
		assert.NotEqual(t, typing.Any, expr.Type())
		switch node := expr.(type) {
		case *ast.Binary:
			walk(node.Left)
			walk(node.Right)
		case *ast.Block:
			for _, sub := range node.Exprs {
				walk(sub)
			}
		case *ast.Let:
			if node.Init != nil {
				walk(node.Init)
			}
		case *ast.Assign:
			walk(node.Value)
		case *ast.Return:
			if node.Value != nil {
				walk(node.Value)
			}
		case *ast.IfElse:
			walk(node.Cond)
			walk(node.Then)
			if node.Else != nil {
				walk(node.Else)
			}
		case *ast.While:
			walk(node.Cond)
			walk(node.Body)
		case *ast.Call:
			for _, arg := range node.Args {
				walk(arg)
			}
		}
	}
	walk(fn.Body)
}
