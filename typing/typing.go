/*
File    : aurora/typing/typing.go
Project : Aurora Compiler
*/

// Package typing defines the primitive type system of the Aurora language.
// Aurora has a closed set of primitive types: an inference sentinel (any),
// the absence of a value (void), booleans, signed integers of four widths,
// and two float widths. Each concrete type maps onto a machine-level IR
// type consumed by the code generator.
package typing

import "github.com/auroralang/aurora/ir"

// Type represents one of Aurora's primitive types.
// It is defined as a string so diagnostics can print the
// source-level spelling of a type directly.
type Type string

// Type Constants:
// These constants define all primitive types of the Aurora language.
const (
	// Any is the inference sentinel. It never appears in a fully
	// parsed AST and compares equal to no concrete type.
	Any Type = "any"

	// Void is the absence of a value. It is only valid as a function
	// return type and as the type of statement-like expressions.
	Void Type = "void"

	// Bool is the logical type. It shares its machine representation
	// with I8 but is a distinct type at the language level.
	Bool Type = "bool"

	// Signed integer types
	I8  Type = "i8"  // 8-bit signed integer
	I16 Type = "i16" // 16-bit signed integer
	I32 Type = "i32" // 32-bit signed integer
	I64 Type = "i64" // 64-bit signed integer

	// Floating point types
	F32 Type = "f32" // 32-bit IEEE float
	F64 Type = "f64" // 64-bit IEEE float
)

// FromString looks up the primitive type named by a source-level type
// identifier.
//
// Parameters:
//
//	name - The type identifier as spelled in source (e.g. "i32")
//
// Returns:
//
//	The corresponding Type and true, or Any and false when the
//	identifier names no primitive type.
//
// Example:
//
//	FromString("i64") -> (I64, true)
//	FromString("str") -> (Any, false)
func FromString(name string) (Type, bool) {
	switch name {
	case "void":
		return Void, true
	case "bool":
		return Bool, true
	case "i8":
		return I8, true
	case "i16":
		return I16, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	default:
		return Any, false
	}
}

// IRType returns the machine-level IR type a primitive type lowers to.
//
// Returns:
//
//	The ir.Type and true for representable types. Void and Any have
//	no machine representation and return false.
//
// Bool lowers to an 8-bit integer; the distinction between bool and i8
// exists only at the language level.
func (t Type) IRType() (ir.Type, bool) {
	switch t {
	case Bool, I8:
		return ir.I8, true
	case I16:
		return ir.I16, true
	case I32:
		return ir.I32, true
	case I64:
		return ir.I64, true
	case F32:
		return ir.F32, true
	case F64:
		return ir.F64, true
	default:
		// Void and Any carry no value
		return 0, false
	}
}

// IsInteger reports whether t is one of the signed integer types.
// Bool is not an integer type even though it shares i8's representation.
func (t Type) IsInteger() bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// IsFloat reports whether t is one of the floating point types.
func (t Type) IsFloat() bool {
	return t == F32 || t == F64
}

// Bits returns the width of the type's machine representation in bits,
// or 0 for types with no representation.
func (t Type) Bits() int {
	switch t {
	case Bool, I8:
		return 8
	case I16:
		return 16
	case I32:
		return 32
	case I64:
		return 64
	case F32:
		return 32
	case F64:
		return 64
	}
	return 0
}

// String returns the source-level spelling of the type.
func (t Type) String() string {
	return string(t)
}
