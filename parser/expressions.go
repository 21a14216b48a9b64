/*
File    : aurora/parser/expressions.go
Project : Aurora Compiler
*/
package parser

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/typing"
)

// expr parses one expression with precedence climbing: a primary
// expression followed by any number of binary operator tails.
func (par *Parser) expr() (ast.Expr, error) {
	left, err := par.primary()
	if err != nil {
		return nil, err
	}
	return par.binaryRight(0, left)
}

// binaryRight climbs the operator precedence ladder. It absorbs
// operators of at least exprPrecedence into left; a lower-precedence
// operator ends the climb and is left for an outer call. Operators of
// equal precedence associate left.
func (par *Parser) binaryRight(exprPrecedence int, left ast.Expr) (ast.Expr, error) {
	op, ok, err := par.binaryOp()
	if err != nil {
		return nil, err
	}
	if !ok {
		return left, nil
	}
	tokenPrecedence, err := par.precedence(op)
	if err != nil {
		return nil, err
	}
	if tokenPrecedence < exprPrecedence {
		return left, nil
	}

	// Consume the operator token
	if _, err := par.Lex.Next(); err != nil {
		return nil, err
	}
	right, err := par.primary()
	if err != nil {
		return nil, err
	}

	// A tighter-binding operator after the right operand claims it first
	nextOp, ok, err := par.binaryOp()
	if err != nil {
		return nil, err
	}
	if ok {
		nextPrecedence, err := par.precedence(nextOp)
		if err != nil {
			return nil, err
		}
		if tokenPrecedence < nextPrecedence {
			right, err = par.binaryRight(tokenPrecedence+1, right)
			if err != nil {
				return nil, err
			}
		}
	}

	resultType := binaryResultType(op, left)
	combined := ast.New(&ast.Binary{Op: op, Left: left, Right: right}, resultType)
	return par.binaryRight(exprPrecedence, combined)
}

// binaryResultType computes a binary node's attached type: comparisons
// produce bool, arithmetic takes the left operand's type (the generator
// widens mixed-width float operands and refines the node).
func binaryResultType(op ast.BinaryOp, left ast.Expr) typing.Type {
	if op == ast.LessThan || op == ast.Equal {
		return typing.Bool
	}
	return left.Type()
}

// binaryOp peeks at the next token and maps it to a binary operator.
// The token is not consumed.
func (par *Parser) binaryOp() (ast.BinaryOp, bool, error) {
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return "", false, err
	}
	switch peek.Type {
	case lexer.LT_OP:
		return ast.LessThan, true, nil
	case lexer.PLUS_OP:
		return ast.Plus, true, nil
	case lexer.MINUS_OP:
		return ast.Minus, true, nil
	case lexer.MUL_OP:
		return ast.Times, true, nil
	case lexer.EQ_OP:
		return ast.Equal, true, nil
	default:
		return "", false, nil
	}
}

// precedence looks up a binary operator's precedence.
func (par *Parser) precedence(op ast.BinaryOp) (int, error) {
	precedence, ok := par.binPrecedence[op]
	if !ok {
		return 0, errors.NewUndefined("operator")
	}
	return precedence, nil
}

// primary parses a primary expression: a literal, a parenthesized
// expression, or an identifier expression (variable or call).
func (par *Parser) primary() (ast.Expr, error) {
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}

	switch peek.Type {
	case lexer.INT_LIT:
		token, err := par.Lex.Next()
		if err != nil {
			return nil, err
		}
		return ast.New(&ast.IntegerLiteral{Value: token.Int}, typing.I64), nil
	case lexer.FLOAT_LIT:
		token, err := par.Lex.Next()
		if err != nil {
			return nil, err
		}
		return ast.New(&ast.FloatLiteral{Value: token.Float}, typing.F64), nil
	case lexer.TRUE_KEY, lexer.FALSE_KEY:
		token, err := par.Lex.Next()
		if err != nil {
			return nil, err
		}
		return ast.New(&ast.BooleanLiteral{Value: token.Type == lexer.TRUE_KEY}, typing.Bool), nil
	case lexer.LEFT_PAREN:
		if err := par.eat(lexer.LEFT_PAREN); err != nil {
			return nil, err
		}
		expr, err := par.expr()
		if err != nil {
			return nil, err
		}
		if err := par.eat(lexer.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.IDENTIFIER_ID:
		return par.identExpr()
	default:
		return nil, errors.NewUnexpected("token when expecting an expression")
	}
}

// identExpr parses an identifier expression: a call when the identifier
// is followed by `(`, a variable reference otherwise. Calls inherit the
// callee's declared return type; variable references take the type the
// name was declared with.
func (par *Parser) identExpr() (ast.Expr, error) {
	name, err := par.identifier()
	if err != nil {
		return nil, err
	}

	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.LEFT_PAREN {
		if err := par.eat(lexer.LEFT_PAREN); err != nil {
			return nil, err
		}
		args, err := par.args()
		if err != nil {
			return nil, err
		}
		if err := par.eat(lexer.RIGHT_PAREN); err != nil {
			return nil, err
		}
		returnType, ok := par.symbols.FunctionReturnType(name)
		if !ok {
			return nil, errors.NewUndefined("function")
		}
		return ast.New(&ast.Call{Name: name, Args: args}, returnType), nil
	}

	if t, ok := par.symbols.VariableType(name); ok {
		return ast.New(&ast.Variable{Name: name}, t), nil
	}
	// A function name in value position types as its return type; the
	// generator rejects the use if it is not actually a variable.
	if t, ok := par.symbols.FunctionReturnType(name); ok {
		return ast.New(&ast.Variable{Name: name}, t), nil
	}
	return nil, errors.NewUndefined("identifier")
}

// args parses a comma-separated argument list; the caller consumes the
// surrounding parentheses.
func (par *Parser) args() ([]ast.Expr, error) {
	args := make([]ast.Expr, 0)
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.RIGHT_PAREN {
		return args, nil
	}

	for {
		arg, err := par.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		peek, err := par.Lex.Peek(0)
		if err != nil {
			return nil, err
		}
		if peek.Type != lexer.COMMA_DELIM {
			return args, nil
		}
		if err := par.eat(lexer.COMMA_DELIM); err != nil {
			return nil, err
		}
	}
}
