/*
File    : aurora/parser/symbols.go
Project : Aurora Compiler
*/
package parser

import (
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/typing"
)

// SymbolTable is the parser's name→type tracking, split into two maps:
// function return types live for the whole compilation unit, variable
// types live in a stack of explicit scopes with push/pop (one for a
// function's parameters and one per block). The split keeps a function
// exit from draining unit-wide entries.
type SymbolTable struct {
	functions map[string]typing.Type // name -> declared return type
	scopes    []map[string]typing.Type
}

// NewSymbolTable creates an empty symbol table with no active scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		functions: make(map[string]typing.Type),
	}
}

// RegisterFunction records a function's return type. Registering the
// same name again with an identical return type is permitted (an extern
// declaration followed by its definition); a conflicting re-registration
// is a function redefinition. Whether a body is emitted twice is the
// generator's check, not the parser's.
func (st *SymbolTable) RegisterFunction(name string, returnType typing.Type) error {
	if existing, ok := st.functions[name]; ok {
		if existing != returnType {
			return errors.NewFunctionRedef()
		}
		return nil
	}
	st.functions[name] = returnType
	return nil
}

// FunctionReturnType looks up a declared function's return type.
func (st *SymbolTable) FunctionReturnType(name string) (typing.Type, bool) {
	t, ok := st.functions[name]
	return t, ok
}

// PushScope opens a variable scope (the parser opens one for a
// function's parameters and one per block).
func (st *SymbolTable) PushScope() {
	st.scopes = append(st.scopes, make(map[string]typing.Type))
}

// PopScope drops the innermost variable scope.
func (st *SymbolTable) PopScope() {
	if len(st.scopes) > 0 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
}

// DeclareVariable binds a name in the innermost scope. A name already
// bound in any active scope is rejected; shadowing is not supported.
func (st *SymbolTable) DeclareVariable(name string, t typing.Type) error {
	if len(st.scopes) == 0 {
		st.PushScope()
	}
	for _, scope := range st.scopes {
		if _, ok := scope[name]; ok {
			return errors.NewVariableRedef()
		}
	}
	st.scopes[len(st.scopes)-1][name] = t
	return nil
}

// VariableType looks up a variable's type through the active scopes,
// innermost first.
func (st *SymbolTable) VariableType(name string) (typing.Type, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if t, ok := st.scopes[i][name]; ok {
			return t, true
		}
	}
	return typing.Any, false
}
