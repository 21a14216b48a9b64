/*
File    : aurora/gen/gen.go
Project : Aurora Compiler
*/

/*
Package gen lowers the typed AST to IR through the abstract builder
interface. It owns the unit-wide function table, the module handle, and
a monotonic variable-index allocator shared by all functions.

A function entry moves through a small state machine:

	undeclared --Prototype()--> declared, not defined
	declared   --Function()---> defined
	defined    --Prototype() / Function()--> error (redefinition)

Entries record full prototypes (parameter types, not just arity), so
call sites are checked for argument count and per-argument type. The
entry is marked defined before its body is lowered so recursive calls
resolve.
*/
package gen

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/ir"
	"github.com/auroralang/aurora/typing"
)

// compiledFunction is one function-table entry.
type compiledFunction struct {
	defined    bool
	id         ir.FuncID
	params     []typing.Type
	returnType typing.Type
}

// Generator lowers top-level declarations into an IR module.
type Generator struct {
	module    ir.Module
	functions map[string]*compiledFunction
	varIndex  int
}

// NewGenerator creates a generator over the given IR module and
// installs the cast library before any user function is processed.
func NewGenerator(module ir.Module) (*Generator, error) {
	gen := &Generator{
		module:    module,
		functions: make(map[string]*compiledFunction),
	}
	if err := gen.installCasts(); err != nil {
		return nil, err
	}
	return gen, nil
}

// Module returns the IR module the generator emits into.
func (gen *Generator) Module() ir.Module {
	return gen.module
}

// FunctionID returns the IR id of a declared function, for callers
// that want to display its IR.
func (gen *Generator) FunctionID(name string) (ir.FuncID, bool) {
	fn, ok := gen.functions[name]
	if !ok {
		return 0, false
	}
	return fn.id, true
}

// newVariable allocates a fresh variable slot index.
func (gen *Generator) newVariable() ir.Variable {
	v := ir.Variable(gen.varIndex)
	gen.varIndex++
	return v
}

// signature builds an IR signature from a prototype. Parameters always
// have machine representations; a void return means no return slot.
func signature(proto *ast.Prototype) (ir.Signature, error) {
	var sig ir.Signature
	for _, param := range proto.Parameters {
		irType, ok := param.Type.IRType()
		if !ok {
			return sig, errors.NewUndefined("type")
		}
		sig.Params = append(sig.Params, ir.AbiParam{Type: irType})
	}
	if irType, ok := proto.ReturnType.IRType(); ok {
		sig.Returns = append(sig.Returns, ir.AbiParam{Type: irType})
	}
	return sig, nil
}

// Prototype registers a function declaration and returns its IR id.
// Registering a name that is already defined is a redefinition error;
// re-declaring with a different parameter count is rejected; otherwise
// the existing id is returned.
func (gen *Generator) Prototype(proto *ast.Prototype, linkage ir.Linkage) (ir.FuncID, error) {
	name := proto.FunctionName
	if existing, ok := gen.functions[name]; ok {
		if existing.defined {
			return 0, errors.NewFunctionRedef()
		}
		if len(existing.params) != len(proto.Parameters) {
			return 0, errors.NewFunctionRedefWithDifferentParams()
		}
		return existing.id, nil
	}

	sig, err := signature(proto)
	if err != nil {
		return 0, err
	}
	id, err := gen.module.DeclareFunction(name, linkage, sig)
	if err != nil {
		return 0, errors.NewModule(err)
	}

	params := make([]typing.Type, len(proto.Parameters))
	for i, param := range proto.Parameters {
		params[i] = param.Type
	}
	gen.functions[name] = &compiledFunction{
		id:         id,
		params:     params,
		returnType: proto.ReturnType,
	}
	return id, nil
}

// Function lowers one function definition: it registers the prototype
// with Export linkage, materializes the parameters as variable slots,
// lowers the body, and defines the function in the module. The builder
// is finalized on every path; on failure the function-table entry is
// removed before the error propagates.
func (gen *Generator) Function(fn *ast.Function) error {
	proto := &fn.Prototype
	name := proto.FunctionName

	id, err := gen.Prototype(proto, ir.Export)
	if err != nil {
		return err
	}

	sig, err := signature(proto)
	if err != nil {
		return err
	}
	builder := gen.module.NewBuilder(sig)

	entry := builder.CreateBlock()
	builder.AppendBlockParamsForFunctionParams(entry)
	builder.SwitchToBlock(entry)
	builder.SealBlock(entry)

	// Materialize parameters as variable slots and bind their names
	fg := &functionGenerator{
		gen:        gen,
		builder:    builder,
		values:     make(map[string]localVar),
		returnType: proto.ReturnType,
	}
	blockParams := builder.BlockParams(entry)
	for i, param := range proto.Parameters {
		irType, _ := param.Type.IRType()
		slot := gen.newVariable()
		builder.DeclareVar(slot, irType)
		builder.DefVar(slot, blockParams[i])
		fg.values[param.Name] = localVar{slot: slot, typ: param.Type}
	}

	// Defined before the body so recursive calls resolve
	gen.functions[name].defined = true

	result, err := fg.expr(fn.Body)
	if err != nil {
		builder.Finalize()
		delete(gen.functions, name)
		return err
	}
	if !result.isReturn {
		// Implicit return at the end of the body; the backend
		// validator rejects it when the function is not void
		builder.Return(nil)
	}

	builder.Finalize()
	if err := gen.module.DefineFunction(id, builder); err != nil {
		delete(gen.functions, name)
		return errors.NewCodegen(err)
	}
	return nil
}
