/*
File    : aurora/ir/ir.go
Project : Aurora Compiler
*/

// Package ir defines the contract between the Aurora code generator and
// the low-level IR backend, together with a reference in-memory backend.
//
// The generator lowers the typed AST through the Builder and Module
// interfaces only; it never touches a concrete backend type. The
// reference backend in this package records SSA-form instructions into
// basic blocks, validates each function when it is defined, and emits
// the module as bytes. A native backend replacing it must provide the
// same capabilities:
//   - typed constants (iconst, f32const, f64const)
//   - integer and float arithmetic
//   - integer-to-float conversion and float width conversion
//   - integer and float comparisons producing boolean values
//   - calls, function declaration with linkage
//   - mutable variable slots (declare/def/use)
//   - block creation, switching, sealing, branches
//   - signatures with per-parameter ABI types
//   - an object emitter producing raw object-file bytes
package ir

// Type is a machine-level IR type. Unlike the language-level type system,
// the IR knows nothing about bool or void: values are plain integers or
// floats of a given width.
type Type uint8

// Machine types supported by the backend.
const (
	I8  Type = iota + 1 // 8-bit integer
	I16                 // 16-bit integer
	I32                 // 32-bit integer
	I64                 // 64-bit integer
	F32                 // 32-bit IEEE float
	F64                 // 64-bit IEEE float
)

// IsFloat reports whether t is a floating point machine type.
func (t Type) IsFloat() bool {
	return t == F32 || t == F64
}

// String returns the conventional lowercase spelling of the machine type.
func (t Type) String() string {
	switch t {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	}
	return "invalid"
}

// Value is an SSA value inside the function currently being built.
// Values are opaque handles; only the builder that produced them may
// consume them.
type Value int

// Variable is a mutable, typed storage slot in a function's local frame.
// Variables are allocated by the caller (the generator keeps a monotonic
// index) and must be declared before first definition or use.
type Variable int

// Block is a basic block handle inside the function being built.
type Block int

// FuncID identifies a declared function within a Module.
type FuncID int

// Linkage controls how a declared function is visible to the linker.
type Linkage uint8

const (
	// Export marks a function defined in this module and visible outside it.
	Export Linkage = iota
	// Import marks a function defined elsewhere (e.g. the C runtime shim).
	Import
)

// String returns the display form of the linkage.
func (l Linkage) String() string {
	if l == Import {
		return "import"
	}
	return "export"
}

// AbiParam is a single parameter or return slot in a function signature.
type AbiParam struct {
	Type Type
}

// Signature describes a function's parameter and return machine types.
// Aurora functions have zero or one return slot.
type Signature struct {
	Params  []AbiParam
	Returns []AbiParam
}

// IntCond is a condition code for integer comparisons.
type IntCond string

// FloatCond is a condition code for float comparisons.
type FloatCond string

// Condition codes used by the generator.
const (
	IntLessThan   IntCond   = "slt"
	IntEqual      IntCond   = "eq"
	FloatLessThan FloatCond = "lt"
	FloatEqual    FloatCond = "eq"
)

// Builder constructs the body of one function. Instructions are appended
// to the current block in program order. The builder must be finalized
// exactly once, on both the success and the failure path.
type Builder interface {
	// Constants
	Iconst(t Type, v int64) Value
	F32const(v float32) Value
	F64const(v float64) Value

	// Integer arithmetic
	Iadd(x, y Value) Value
	Isub(x, y Value) Value
	Imul(x, y Value) Value

	// Float arithmetic
	Fadd(x, y Value) Value
	Fsub(x, y Value) Value
	Fmul(x, y Value) Value

	// Conversions
	FcvtFromSint(t Type, x Value) Value
	Fpromote(t Type, x Value) Value
	Fdemote(t Type, x Value) Value

	// Comparisons. Both produce an 8-bit boolean value.
	Icmp(cond IntCond, x, y Value) Value
	Fcmp(cond FloatCond, x, y Value) Value

	// Call emits a call to a declared function. The returned flag
	// reports whether the callee produces a result value.
	Call(callee FuncID, args []Value) (Value, bool)

	// Return terminates the current block with a return. args is empty
	// for void functions and holds the single return value otherwise.
	Return(args []Value)

	// Blocks
	CreateBlock() Block
	SwitchToBlock(b Block)
	SealBlock(b Block)
	AppendBlockParamsForFunctionParams(b Block)
	BlockParams(b Block) []Value

	// Branches. Brz transfers control to target when cond is zero and
	// falls through otherwise; Jump transfers unconditionally.
	Brz(cond Value, target Block)
	Jump(target Block)

	// Variable slots
	DeclareVar(v Variable, t Type)
	DefVar(v Variable, val Value)
	UseVar(v Variable) Value

	// Finalize releases the builder. No instruction may be emitted
	// after finalization.
	Finalize()
}

// Module owns the compilation unit: declared functions, their bodies,
// and object emission.
type Module interface {
	// DeclareFunction registers a function with the given linkage and
	// signature and returns its handle. Declaring the same name twice
	// is a module error.
	DeclareFunction(name string, linkage Linkage, sig Signature) (FuncID, error)

	// NewBuilder creates a builder for a function body with the given
	// signature. The builder is independent of any declaration until
	// DefineFunction binds it.
	NewBuilder(sig Signature) Builder

	// DefineFunction attaches a finalized builder's body to a declared
	// function and validates it. Defining an imported or an already
	// defined function is a module error; validation failures are
	// codegen errors.
	DefineFunction(id FuncID, b Builder) error

	// Display renders one function's IR as text, for diagnostics.
	Display(id FuncID) string

	// Emit serializes all defined functions into object bytes.
	Emit() ([]byte, error)
}
