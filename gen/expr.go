/*
File    : aurora/gen/expr.go
Project : Aurora Compiler
*/
package gen

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/ir"
	"github.com/auroralang/aurora/typing"
)

// localVar binds a source-level name to its variable slot and declared
// type for the duration of one function's lowering.
type localVar struct {
	slot ir.Variable
	typ  typing.Type
}

// exprValue is the result of lowering one expression: an optional IR
// value and a marker telling enclosing blocks that control has already
// returned.
type exprValue struct {
	value    ir.Value
	hasValue bool
	typ      typing.Type
	isReturn bool
}

func value(v ir.Value, t typing.Type) exprValue {
	return exprValue{value: v, hasValue: true, typ: t}
}

// functionGenerator lowers one function body. It borrows the module
// and function table from the Generator and owns the per-function
// scope table.
type functionGenerator struct {
	gen        *Generator
	builder    ir.Builder
	values     map[string]localVar
	returnType typing.Type
}

// expr lowers one expression node.
func (fg *functionGenerator) expr(expr ast.Expr) (exprValue, error) {
	switch node := expr.(type) {
	case *ast.IntegerLiteral:
		irType, ok := node.Type().IRType()
		if !ok {
			return exprValue{}, errors.NewUndefined("type")
		}
		return value(fg.builder.Iconst(irType, node.Value), node.Type()), nil

	case *ast.FloatLiteral:
		if node.Type() == typing.F32 {
			return value(fg.builder.F32const(float32(node.Value)), typing.F32), nil
		}
		return value(fg.builder.F64const(node.Value), typing.F64), nil

	case *ast.BooleanLiteral:
		bit := int64(0)
		if node.Value {
			bit = 1
		}
		return value(fg.builder.Iconst(ir.I8, bit), typing.Bool), nil

	case *ast.Variable:
		local, ok := fg.values[node.Name]
		if !ok {
			return exprValue{}, errors.NewUndefined("variable")
		}
		return value(fg.builder.UseVar(local.slot), local.typ), nil

	case *ast.Binary:
		return fg.binary(node)

	case *ast.Call:
		return fg.call(node)

	case *ast.Block:
		return fg.blockExpr(node)

	case *ast.Return:
		return fg.returnExpr(node)

	case *ast.Let:
		return fg.let(node)

	case *ast.Assign:
		return fg.assign(node)

	case *ast.IfElse:
		return fg.ifElse(node)

	case *ast.While:
		return fg.while(node)

	default:
		return exprValue{}, errors.NewUnexpected("expression")
	}
}

// binary lowers a binary operation with type-directed instruction
// selection. Integer operands must agree exactly; float operands of
// different widths are reconciled through the cast library, and an
// integer right operand under a float left operand is converted up.
func (fg *functionGenerator) binary(node *ast.Binary) (exprValue, error) {
	left, err := fg.expr(node.Left)
	if err != nil {
		return exprValue{}, err
	}
	right, err := fg.expr(node.Right)
	if err != nil {
		return exprValue{}, err
	}

	switch node.Op {
	case ast.Plus, ast.Minus, ast.Times:
		return fg.arithmetic(node, left, right)
	case ast.LessThan:
		return fg.compare(node, left, right, ir.IntLessThan, ir.FloatLessThan)
	case ast.Equal:
		return fg.compare(node, left, right, ir.IntEqual, ir.FloatEqual)
	default:
		return exprValue{}, errors.NewUndefined("operator")
	}
}

// arithmetic emits the integer or float opcode selected by the left
// operand's type.
func (fg *functionGenerator) arithmetic(node *ast.Binary, left, right exprValue) (exprValue, error) {
	switch {
	case left.typ.IsInteger():
		if right.typ != left.typ {
			return exprValue{}, errors.NewMismatchedTypes(left.typ, right.typ)
		}
		var result ir.Value
		switch node.Op {
		case ast.Plus:
			result = fg.builder.Iadd(left.value, right.value)
		case ast.Minus:
			result = fg.builder.Isub(left.value, right.value)
		default:
			result = fg.builder.Imul(left.value, right.value)
		}
		return value(result, left.typ), nil

	case left.typ.IsFloat():
		lhs, rhs, resultType, err := fg.reconcileFloats(left, right)
		if err != nil {
			return exprValue{}, err
		}
		node.SetType(resultType)
		var result ir.Value
		switch node.Op {
		case ast.Plus:
			result = fg.builder.Fadd(lhs, rhs)
		case ast.Minus:
			result = fg.builder.Fsub(lhs, rhs)
		default:
			result = fg.builder.Fmul(lhs, rhs)
		}
		return value(result, resultType), nil

	default:
		return exprValue{}, errors.NewUndefined("operator")
	}
}

// reconcileFloats brings both operands of a float operation to one
// float type: an integer operand is converted to the float operand's
// type, and mixed float widths widen the narrower side. The returned
// type is the operation's result type.
func (fg *functionGenerator) reconcileFloats(left, right exprValue) (ir.Value, ir.Value, typing.Type, error) {
	switch {
	case right.typ == left.typ:
		return left.value, right.value, left.typ, nil

	case left.typ.IsInteger() && right.typ.IsFloat():
		converted, err := fg.cast(left.value, left.typ, right.typ)
		if err != nil {
			return 0, 0, typing.Any, err
		}
		return converted, right.value, right.typ, nil

	case right.typ.IsInteger():
		converted, err := fg.cast(right.value, right.typ, left.typ)
		if err != nil {
			return 0, 0, typing.Any, err
		}
		return left.value, converted, left.typ, nil

	case right.typ.IsFloat():
		// Mixed widths: widen the narrower operand
		if left.typ.Bits() < right.typ.Bits() {
			converted, err := fg.cast(left.value, left.typ, right.typ)
			if err != nil {
				return 0, 0, typing.Any, err
			}
			return converted, right.value, right.typ, nil
		}
		converted, err := fg.cast(right.value, right.typ, left.typ)
		if err != nil {
			return 0, 0, typing.Any, err
		}
		return left.value, converted, left.typ, nil

	default:
		return 0, 0, typing.Any, errors.NewMismatchedTypes(left.typ, right.typ)
	}
}

// compare emits the comparison selected by the operand types and
// produces a boolean value.
func (fg *functionGenerator) compare(node *ast.Binary, left, right exprValue, intCond ir.IntCond, floatCond ir.FloatCond) (exprValue, error) {
	switch {
	case left.typ.IsFloat() || right.typ.IsFloat():
		lhs, rhs, _, err := fg.reconcileFloats(left, right)
		if err != nil {
			return exprValue{}, err
		}
		return value(fg.builder.Fcmp(floatCond, lhs, rhs), typing.Bool), nil

	case left.typ == right.typ && (left.typ.IsInteger() || left.typ == typing.Bool):
		return value(fg.builder.Icmp(intCond, left.value, right.value), typing.Bool), nil

	default:
		return exprValue{}, errors.NewMismatchedTypes(left.typ, right.typ)
	}
}

// call lowers a function call: the callee must be declared, the
// argument count must match the declared parameter count, and each
// argument's type must match the corresponding parameter.
func (fg *functionGenerator) call(node *ast.Call) (exprValue, error) {
	fn, ok := fg.gen.functions[node.Name]
	if !ok {
		return exprValue{}, errors.NewUndefined("function")
	}
	if len(node.Args) != len(fn.params) {
		return exprValue{}, errors.NewWrongArgumentCount()
	}

	args := make([]ir.Value, 0, len(node.Args))
	for i, arg := range node.Args {
		lowered, err := fg.expr(arg)
		if err != nil {
			return exprValue{}, err
		}
		if lowered.typ != fn.params[i] {
			return exprValue{}, errors.NewMismatchedTypes(fn.params[i], lowered.typ)
		}
		args = append(args, lowered.value)
	}

	result, hasResult := fg.builder.Call(fn.id, args)
	if !hasResult {
		return exprValue{}, nil
	}
	return value(result, fn.returnType), nil
}

// blockExpr lowers sub-expressions in order. A Return sub-expression
// stops the block and propagates its marker; everything after it is
// unreachable and is not emitted.
func (fg *functionGenerator) blockExpr(node *ast.Block) (exprValue, error) {
	for _, sub := range node.Exprs {
		result, err := fg.expr(sub)
		if err != nil {
			return exprValue{}, err
		}
		if result.isReturn {
			return result, nil
		}
	}
	return exprValue{}, nil
}

// returnExpr lowers a return statement, checking the returned value's
// type against the enclosing function's declared return type.
func (fg *functionGenerator) returnExpr(node *ast.Return) (exprValue, error) {
	if node.Value == nil {
		if fg.returnType != typing.Void {
			return exprValue{}, errors.NewMismatchedTypes(fg.returnType, typing.Void)
		}
		fg.builder.Return(nil)
		return exprValue{isReturn: true}, nil
	}

	result, err := fg.expr(node.Value)
	if err != nil {
		return exprValue{}, err
	}
	if result.typ != fg.returnType {
		return exprValue{}, errors.NewMismatchedTypes(fg.returnType, result.typ)
	}
	fg.builder.Return([]ir.Value{result.value})
	return exprValue{value: result.value, hasValue: true, typ: result.typ, isReturn: true}, nil
}

// let declares a variable slot of the node's nominal type and, when an
// initializer is present, lowers and stores it.
func (fg *functionGenerator) let(node *ast.Let) (exprValue, error) {
	irType, ok := node.Type().IRType()
	if !ok {
		return exprValue{}, errors.NewUndefined("type")
	}

	var init exprValue
	if node.Init != nil {
		lowered, err := fg.expr(node.Init)
		if err != nil {
			return exprValue{}, err
		}
		if lowered.typ != node.Type() {
			return exprValue{}, errors.NewMismatchedTypes(node.Type(), lowered.typ)
		}
		init = lowered
	}

	slot := fg.gen.newVariable()
	fg.builder.DeclareVar(slot, irType)
	if node.Init != nil {
		fg.builder.DefVar(slot, init.value)
	}
	fg.values[node.Name] = localVar{slot: slot, typ: node.Type()}
	return exprValue{}, nil
}

// assign stores a value into a bound slot. The slot's declared type
// must equal the value's type.
func (fg *functionGenerator) assign(node *ast.Assign) (exprValue, error) {
	local, ok := fg.values[node.Name]
	if !ok {
		return exprValue{}, errors.NewUndefined("variable")
	}
	result, err := fg.expr(node.Value)
	if err != nil {
		return exprValue{}, err
	}
	if result.typ != local.typ {
		return exprValue{}, errors.NewMismatchedTypes(local.typ, result.typ)
	}
	fg.builder.DefVar(local.slot, result.value)
	return exprValue{}, nil
}

// condition lowers a branch condition, which must be boolean.
func (fg *functionGenerator) condition(expr ast.Expr) (ir.Value, error) {
	cond, err := fg.expr(expr)
	if err != nil {
		return 0, err
	}
	if cond.typ != typing.Bool {
		return 0, errors.NewMismatchedTypes(typing.Bool, cond.typ)
	}
	return cond.value, nil
}

// ifElse lowers structured two-way branching: then and else blocks
// joined at a merge block. The merge block is only created when at
// least one branch falls through; when both branches return, the whole
// statement is marked returning.
func (fg *functionGenerator) ifElse(node *ast.IfElse) (exprValue, error) {
	cond, err := fg.condition(node.Cond)
	if err != nil {
		return exprValue{}, err
	}

	thenBlock := fg.builder.CreateBlock()
	elseBlock := fg.builder.CreateBlock()
	merge := ir.Block(-1)
	mergeBlock := func() ir.Block {
		if merge < 0 {
			merge = fg.builder.CreateBlock()
		}
		return merge
	}

	fg.builder.Brz(cond, elseBlock)
	fg.builder.Jump(thenBlock)

	fg.builder.SwitchToBlock(thenBlock)
	fg.builder.SealBlock(thenBlock)
	thenResult, err := fg.expr(node.Then)
	if err != nil {
		return exprValue{}, err
	}
	if !thenResult.isReturn {
		fg.builder.Jump(mergeBlock())
	}

	fg.builder.SwitchToBlock(elseBlock)
	fg.builder.SealBlock(elseBlock)
	elseReturns := false
	if node.Else != nil {
		elseResult, err := fg.expr(node.Else)
		if err != nil {
			return exprValue{}, err
		}
		elseReturns = elseResult.isReturn
	}
	if !elseReturns {
		fg.builder.Jump(mergeBlock())
	}

	if merge < 0 {
		// Both branches returned; there is no fall-through path
		return exprValue{isReturn: true}, nil
	}
	fg.builder.SwitchToBlock(merge)
	fg.builder.SealBlock(merge)
	return exprValue{}, nil
}

// while lowers a structured pre-tested loop: a header block evaluating
// the condition, a body block with a back edge, and an exit block. The
// header is sealed only once the back edge is known.
func (fg *functionGenerator) while(node *ast.While) (exprValue, error) {
	header := fg.builder.CreateBlock()
	body := fg.builder.CreateBlock()
	exit := fg.builder.CreateBlock()

	fg.builder.Jump(header)
	fg.builder.SwitchToBlock(header)

	cond, err := fg.condition(node.Cond)
	if err != nil {
		return exprValue{}, err
	}
	fg.builder.Brz(cond, exit)
	fg.builder.Jump(body)

	fg.builder.SwitchToBlock(body)
	fg.builder.SealBlock(body)
	bodyResult, err := fg.expr(node.Body)
	if err != nil {
		return exprValue{}, err
	}
	if !bodyResult.isReturn {
		fg.builder.Jump(header)
	}
	fg.builder.SealBlock(header)

	fg.builder.SwitchToBlock(exit)
	fg.builder.SealBlock(exit)
	return exprValue{}, nil
}
