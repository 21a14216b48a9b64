/*
File    : aurora/parser/parser.go
Project : Aurora Compiler
*/

/*
Package parser implements the recursive-descent parser for the Aurora
language. Expressions are parsed with precedence climbing over primary
expressions; `*` binds tightest, then `+` and `-`, and the comparisons
`<` and `==` share the loosest level.

The parser produces a typed AST: it tracks declared variables and
function return types inline and attaches a primitive type to every
expression node while parsing. The type attached to an arithmetic binary
node is the left operand's type (the generator refines mixed-width float
arithmetic later); comparison nodes are bool. Checks the parser does NOT perform, by design:
  - return-type agreement with the enclosing function
  - assignment value type against the variable's declared type
  - call argument types and arity

All of these are enforced by the generator, which records full
prototypes. The parser's job is shape and local typing only.
*/
package parser

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/typing"
)

// Parser holds the parsing state for one compilation unit.
type Parser struct {
	// Lex is the token source. It is exported so the driver can run
	// the top-level dispatch loop and coarse error recovery on it.
	Lex *lexer.Lexer

	// binPrecedence maps each binary operator to its precedence.
	// Higher binds tighter; equal precedence associates left.
	binPrecedence map[ast.BinaryOp]int

	// symbols tracks function return types (unit-wide) and variable
	// types (per function, scoped).
	symbols *SymbolTable
}

// NewParser creates a parser over the given token source.
func NewParser(lex *lexer.Lexer) *Parser {
	return &Parser{
		Lex: lex,
		binPrecedence: map[ast.BinaryOp]int{
			ast.Equal:    10,
			ast.LessThan: 10,
			ast.Plus:     20,
			ast.Minus:    20,
			ast.Times:    40,
		},
		symbols: NewSymbolTable(),
	}
}

// Definition parses a `fn` definition: prototype plus block body.
// The parameters are visible in the symbol table for the duration of
// the body and removed afterwards, on both success and failure.
func (par *Parser) Definition() (*ast.Function, error) {
	if err := par.eat(lexer.FN_KEY); err != nil {
		return nil, err
	}
	prototype, err := par.prototype()
	if err != nil {
		return nil, err
	}

	par.symbols.PushScope()
	defer par.symbols.PopScope()
	for _, param := range prototype.Parameters {
		if err := par.symbols.DeclareVariable(param.Name, param.Type); err != nil {
			return nil, err
		}
	}

	body, err := par.block()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Prototype: *prototype, Body: body}, nil
}

// Extern parses an `extern` prototype. It only registers; the function
// is defined elsewhere (e.g. in the C runtime shim).
func (par *Parser) Extern() (*ast.Prototype, error) {
	if err := par.eat(lexer.EXTERN_KEY); err != nil {
		return nil, err
	}
	return par.prototype()
}

// prototype parses `identifier "(" params ")" [identifier]`. The
// optional trailing identifier is the return type; absence means void.
// The function's return type is registered in the symbol table so
// calls parsed later can inherit it.
func (par *Parser) prototype() (*ast.Prototype, error) {
	name, err := par.identifier()
	if err != nil {
		return nil, err
	}
	parameters, err := par.parameters()
	if err != nil {
		return nil, err
	}

	returnType := typing.Void
	peek, err := par.Lex.Peek(0)
	if err != nil {
		return nil, err
	}
	if peek.Type == lexer.IDENTIFIER_ID {
		returnType, err = par.typeName()
		if err != nil {
			return nil, err
		}
	}

	if err := par.symbols.RegisterFunction(name, returnType); err != nil {
		return nil, err
	}

	return &ast.Prototype{
		FunctionName: name,
		Parameters:   parameters,
		ReturnType:   returnType,
	}, nil
}

// parameters parses `"(" [ name ":" type { "," name ":" type } ] ")"`.
// Parameter names must be unique within the list and parameter types
// must be concrete value types (not void).
func (par *Parser) parameters() ([]ast.Parameter, error) {
	if err := par.eat(lexer.LEFT_PAREN); err != nil {
		return nil, err
	}

	params := make([]ast.Parameter, 0)
	seen := make(map[string]bool)
	for {
		peek, err := par.Lex.Peek(0)
		if err != nil {
			return nil, err
		}
		if peek.Type == lexer.RIGHT_PAREN {
			if err := par.eat(lexer.RIGHT_PAREN); err != nil {
				return nil, err
			}
			return params, nil
		}
		if len(params) > 0 {
			if err := par.eat(lexer.COMMA_DELIM); err != nil {
				return nil, err
			}
		}

		name, err := par.identifier()
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.NewVariableRedef()
		}
		seen[name] = true

		if err := par.eat(lexer.COLON_DELIM); err != nil {
			return nil, err
		}
		paramType, err := par.typeName()
		if err != nil {
			return nil, err
		}
		if paramType == typing.Void {
			return nil, errors.NewUndefined("type")
		}

		params = append(params, ast.Parameter{Name: name, Type: paramType})
	}
}

// identifier consumes the next token, which must be an identifier,
// and returns its lexeme.
func (par *Parser) identifier() (string, error) {
	token, err := par.Lex.Next()
	if err != nil {
		return "", err
	}
	if token.Type != lexer.IDENTIFIER_ID {
		return "", errors.NewUnexpected("token, expecting identifier")
	}
	return token.Literal, nil
}

// typeName consumes an identifier in type position and resolves it to a
// primitive type. Any other spelling is an error.
func (par *Parser) typeName() (typing.Type, error) {
	name, err := par.identifier()
	if err != nil {
		return typing.Any, err
	}
	t, ok := typing.FromString(name)
	if !ok {
		return typing.Any, errors.NewUndefined("type")
	}
	return t, nil
}

// eat consumes the next token and requires it to be of the given type.
func (par *Parser) eat(expected lexer.TokenType) error {
	token, err := par.Lex.Next()
	if err != nil {
		return err
	}
	if token.Type != expected {
		return errors.NewUnexpectedToken(string(expected), token.Display())
	}
	return nil
}
