/*
File    : aurora/errors/errors.go
Project : Aurora Compiler
*/

// Package errors defines the compile-error taxonomy shared by the lexer,
// parser, generator, and driver. Every failure in the pipeline is one of
// a closed set of tagged variants with a stable display form; the driver
// prefixes the display form with the source position.
package errors

import (
	"fmt"

	"github.com/auroralang/aurora/typing"
)

// Kind tags an Error with its variant.
type Kind int

// Error variants.
const (
	// Lexical errors
	UnknownChar Kind = iota // a byte no scanner rule accepts
	ParseInt                // malformed integer literal
	ParseFloat              // malformed float literal

	// Syntactic errors
	UnexpectedToken // a specific token was required
	Unexpected      // free-form unexpected construct

	// Semantic errors
	Undefined                       // undefined identifier / type / operator
	MismatchedTypes                 // two types were required to agree
	VariableRedef                   // redeclaration inside the active scope
	FunctionRedef                   // redefinition of a defined function
	FunctionRedefWithDifferentParams
	WrongArgumentCount
	CantCast // no cast-library entry for the requested conversion

	// Backend errors
	Codegen // propagated from the IR builder's validator
	Module  // propagated from the IR module

	// I/O errors
	Io // propagated from the byte source
)

// Error is a tagged compile error. Only the fields relevant to the
// variant are populated; Error() renders the variant's display form.
type Error struct {
	kind Kind

	Char     byte        // UnknownChar
	What     string      // Undefined, Unexpected
	Expected string      // UnexpectedToken: required token display form
	Got      string      // UnexpectedToken: token actually seen
	Want     typing.Type // MismatchedTypes, CantCast
	Have     typing.Type // MismatchedTypes, CantCast
	Err      error       // ParseInt, ParseFloat, Codegen, Module, Io
}

// Kind returns the error's variant tag.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap exposes a wrapped backend or I/O error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error renders the variant's display form.
func (e *Error) Error() string {
	switch e.kind {
	case UnknownChar:
		return fmt.Sprintf("unknown char `%c`", e.Char)
	case ParseInt:
		return fmt.Sprintf("malformed integer literal: %v", e.Err)
	case ParseFloat:
		return fmt.Sprintf("malformed float literal: %v", e.Err)
	case UnexpectedToken:
		return fmt.Sprintf("expected `%s`, got `%s`", e.Expected, e.Got)
	case Unexpected:
		return fmt.Sprintf("unexpected %s", e.What)
	case Undefined:
		return fmt.Sprintf("undefined %s", e.What)
	case MismatchedTypes:
		return fmt.Sprintf("mismatched types, expected %s, got %s", e.Want, e.Have)
	case VariableRedef:
		return "redefinition of variable"
	case FunctionRedef:
		return "redefinition of function"
	case FunctionRedefWithDifferentParams:
		return "redefinition of function with different number of parameters"
	case WrongArgumentCount:
		return "wrong argument count"
	case CantCast:
		return fmt.Sprintf("can't cast %s to %s", e.Have, e.Want)
	case Codegen:
		return e.Err.Error()
	case Module:
		return e.Err.Error()
	case Io:
		return e.Err.Error()
	}
	return "unknown error"
}

// NewUnknownChar reports a byte no scanner rule accepts.
func NewUnknownChar(c byte) *Error {
	return &Error{kind: UnknownChar, Char: c}
}

// NewParseInt wraps a strconv failure on an integer literal.
func NewParseInt(err error) *Error {
	return &Error{kind: ParseInt, Err: err}
}

// NewParseFloat wraps a strconv failure on a float literal.
func NewParseFloat(err error) *Error {
	return &Error{kind: ParseFloat, Err: err}
}

// NewUnexpectedToken reports that a specific token was required.
// Both arguments are token display forms.
func NewUnexpectedToken(expected, got string) *Error {
	return &Error{kind: UnexpectedToken, Expected: expected, Got: got}
}

// NewUnexpected reports a free-form unexpected construct,
// e.g. "token when expecting an expression".
func NewUnexpected(what string) *Error {
	return &Error{kind: Unexpected, What: what}
}

// NewUndefined reports an undefined identifier, type, or operator.
func NewUndefined(what string) *Error {
	return &Error{kind: Undefined, What: what}
}

// NewMismatchedTypes reports two types that were required to agree.
func NewMismatchedTypes(want, have typing.Type) *Error {
	return &Error{kind: MismatchedTypes, Want: want, Have: have}
}

// NewVariableRedef reports a duplicate declaration in the active scope.
func NewVariableRedef() *Error {
	return &Error{kind: VariableRedef}
}

// NewFunctionRedef reports a redefinition of an already defined function.
func NewFunctionRedef() *Error {
	return &Error{kind: FunctionRedef}
}

// NewFunctionRedefWithDifferentParams reports a redeclaration whose
// parameter count differs from the existing declaration.
func NewFunctionRedefWithDifferentParams() *Error {
	return &Error{kind: FunctionRedefWithDifferentParams}
}

// NewWrongArgumentCount reports a call whose argument count does not
// match the callee's declared parameter count.
func NewWrongArgumentCount() *Error {
	return &Error{kind: WrongArgumentCount}
}

// NewCantCast reports a conversion the cast library has no entry for.
func NewCantCast(have, want typing.Type) *Error {
	return &Error{kind: CantCast, Have: have, Want: want}
}

// NewCodegen wraps a validation error from the IR builder.
func NewCodegen(err error) *Error {
	return &Error{kind: Codegen, Err: err}
}

// NewModule wraps an error from the IR module.
func NewModule(err error) *Error {
	return &Error{kind: Module, Err: err}
}

// NewIo wraps a byte-source read failure.
func NewIo(err error) *Error {
	return &Error{kind: Io, Err: err}
}

// IsKind reports whether err is an *Error of the given variant.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.kind == kind
}
