/*
File    : aurora/parser/statements.go
Project : Aurora Compiler
*/
package parser

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/typing"
)

// block parses `"{" { stmt } "}"`. Each block opens a variable scope;
// declarations made inside it are dropped when it closes.
func (par *Parser) block() (*ast.Block, error) {
	if err := par.eat(lexer.LEFT_BRACE); err != nil {
		return nil, err
	}

	par.symbols.PushScope()
	defer par.symbols.PopScope()

	exprs := make([]ast.Expr, 0)
	for {
		peek, err := par.Lex.Peek(0)
		if err != nil {
			return nil, err
		}
		if peek.Type == lexer.RIGHT_BRACE {
			if err := par.eat(lexer.RIGHT_BRACE); err != nil {
				return nil, err
			}
			return ast.New(&ast.Block{Exprs: exprs}, typing.Void), nil
		}

		stmt, needsSemicolon, err := par.statement()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, stmt)
		if needsSemicolon {
			if err := par.eat(lexer.SEMICOLON_DELIM); err != nil {
				return nil, err
			}
		}
	}
}

// statement parses one statement and reports whether it must be
// terminated by a semicolon (brace-terminated statements are not).
func (par *Parser) statement() (ast.Expr, bool, error) {
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, false, err
	}

	switch peek.Type {
	case lexer.RETURN_KEY:
		stmt, err := par.returnStatement()
		return stmt, true, err
	case lexer.LET_KEY:
		stmt, err := par.letStatement()
		return stmt, true, err
	case lexer.IF_KEY:
		stmt, err := par.ifStatement()
		return stmt, false, err
	case lexer.WHILE_KEY:
		stmt, err := par.whileStatement()
		return stmt, false, err
	case lexer.IDENTIFIER_ID:
		// One token past the identifier decides assignment vs expression.
		next, err := par.Lex.Peek(1)
		if err != nil {
			return nil, false, err
		}
		if next.Type == lexer.ASSIGN_OP {
			stmt, err := par.assignStatement()
			return stmt, true, err
		}
		stmt, err := par.expr()
		return stmt, true, err
	default:
		stmt, err := par.expr()
		return stmt, true, err
	}
}

// returnStatement parses `"return" [ expr ]`. A bare return has type
// void; otherwise the node's type is the returned expression's.
func (par *Parser) returnStatement() (ast.Expr, error) {
	if err := par.eat(lexer.RETURN_KEY); err != nil {
		return nil, err
	}
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.SEMICOLON_DELIM {
		return ast.New(&ast.Return{}, typing.Void), nil
	}
	value, err := par.expr()
	if err != nil {
		return nil, err
	}
	return ast.New(&ast.Return{Value: value}, value.Type()), nil
}

// letStatement parses `"let" name [ ":" type ] [ "=" expr ]`.
//
// The nominal type is the annotation when present; otherwise it is
// inferred from the initializer. A declaration with neither cannot be
// typed and is rejected. When both are present they must agree, except
// that a bare literal initializer of the matching class adopts the
// annotated type (`let a: i32 = 1;` makes an i32 literal).
func (par *Parser) letStatement() (ast.Expr, error) {
	if err := par.eat(lexer.LET_KEY); err != nil {
		return nil, err
	}
	name, err := par.identifier()
	if err != nil {
		return nil, err
	}

	annotated := false
	var annotation typing.Type
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.COLON_DELIM {
		if err := par.eat(lexer.COLON_DELIM); err != nil {
			return nil, err
		}
		annotation, err = par.typeName()
		if err != nil {
			return nil, err
		}
		if annotation == typing.Void {
			return nil, errors.NewUndefined("type")
		}
		annotated = true
	}

	var init ast.Expr
	peek, err = par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.ASSIGN_OP {
		if err := par.eat(lexer.ASSIGN_OP); err != nil {
			return nil, err
		}
		init, err = par.expr()
		if err != nil {
			return nil, err
		}
	}

	var nominal typing.Type
	switch {
	case annotated && init != nil:
		retypeLiteral(init, annotation)
		if init.Type() != annotation {
			return nil, errors.NewMismatchedTypes(annotation, init.Type())
		}
		nominal = annotation
	case annotated:
		nominal = annotation
	case init != nil:
		nominal = init.Type()
		if nominal == typing.Void {
			return nil, errors.NewUndefined("type")
		}
	default:
		// `let x;` has no annotation and no initializer to infer from
		return nil, errors.NewUndefined("type")
	}

	if err := par.symbols.DeclareVariable(name, nominal); err != nil {
		return nil, err
	}
	return ast.New(&ast.Let{Name: name, Init: init}, nominal), nil
}

// retypeLiteral lets a bare literal initializer adopt an annotated type
// of its own class. Anything other than a direct literal keeps its type.
func retypeLiteral(expr ast.Expr, annotation typing.Type) {
	switch expr.(type) {
	case *ast.IntegerLiteral:
		if annotation.IsInteger() {
			expr.SetType(annotation)
		}
	case *ast.FloatLiteral:
		if annotation.IsFloat() {
			expr.SetType(annotation)
		}
	}
}

// assignStatement parses `name "=" expr`. Agreement between the
// variable's declared type and the value's type is enforced at
// generation time.
func (par *Parser) assignStatement() (ast.Expr, error) {
	name, err := par.identifier()
	if err != nil {
		return nil, err
	}
	if err := par.eat(lexer.ASSIGN_OP); err != nil {
		return nil, err
	}
	value, err := par.expr()
	if err != nil {
		return nil, err
	}
	return ast.New(&ast.Assign{Name: name, Value: value}, typing.Void), nil
}

// ifStatement parses `"if" expr block [ "else" ( block | if ... ) ]`.
func (par *Parser) ifStatement() (ast.Expr, error) {
	if err := par.eat(lexer.IF_KEY); err != nil {
		return nil, err
	}
	cond, err := par.expr()
	if err != nil {
		return nil, err
	}
	then, err := par.block()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Expr
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.ELSE_KEY {
		if err := par.eat(lexer.ELSE_KEY); err != nil {
			return nil, err
		}
		peek, err = par.Lex.Peek(0)
		if err != nil {
			return nil, err
		}
		if peek.Type == lexer.IF_KEY {
			elseBranch, err = par.ifStatement()
		} else {
			elseBranch, err = par.block()
		}
		if err != nil {
			return nil, err
		}
	}

	return ast.New(&ast.IfElse{Cond: cond, Then: then, Else: elseBranch}, typing.Void), nil
}

// whileStatement parses `"while" expr block`.
func (par *Parser) whileStatement() (ast.Expr, error) {
	if err := par.eat(lexer.WHILE_KEY); err != nil {
		return nil, err
	}
	cond, err := par.expr()
	if err != nil {
		return nil, err
	}
	body, err := par.block()
	if err != nil {
		return nil, err
	}
	return ast.New(&ast.While{Cond: cond, Body: body}, typing.Void), nil
}
