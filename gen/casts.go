/*
File    : aurora/gen/casts.go
Project : Aurora Compiler
*/
package gen

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/ir"
	"github.com/auroralang/aurora/typing"
)

// castName is the cast library's key format: "<from>-><to>".
func castName(from, to typing.Type) string {
	return from.String() + "->" + to.String()
}

// castPairs enumerates the conversions the library provides: every
// signed integer width to every float width, plus the two float width
// conversions the widening rules need.
var castPairs = []struct {
	from typing.Type
	to   typing.Type
}{
	{typing.I8, typing.F32},
	{typing.I8, typing.F64},
	{typing.I16, typing.F32},
	{typing.I16, typing.F64},
	{typing.I32, typing.F32},
	{typing.I32, typing.F64},
	{typing.I64, typing.F32},
	{typing.I64, typing.F64},
	{typing.F32, typing.F64},
	{typing.F64, typing.F32},
}

// installCasts emits the cast library: one single-parameter function
// per conversion pair, Export-linked so the linker sees each exactly
// once per compilation unit. Each is registered in the function table
// as defined.
func (gen *Generator) installCasts() error {
	for _, pair := range castPairs {
		if err := gen.installCast(pair.from, pair.to); err != nil {
			return err
		}
	}
	return nil
}

// installCast builds one conversion function `"<from>-><to>"`.
func (gen *Generator) installCast(from, to typing.Type) error {
	name := castName(from, to)
	proto := &ast.Prototype{
		FunctionName: name,
		Parameters:   []ast.Parameter{{Name: "value", Type: from}},
		ReturnType:   to,
	}
	id, err := gen.Prototype(proto, ir.Export)
	if err != nil {
		return err
	}

	sig, err := signature(proto)
	if err != nil {
		return err
	}
	toIR, _ := to.IRType()

	builder := gen.module.NewBuilder(sig)
	entry := builder.CreateBlock()
	builder.AppendBlockParamsForFunctionParams(entry)
	builder.SwitchToBlock(entry)
	builder.SealBlock(entry)

	value := builder.BlockParams(entry)[0]
	var converted ir.Value
	switch {
	case from.IsInteger():
		converted = builder.FcvtFromSint(toIR, value)
	case from == typing.F32 && to == typing.F64:
		converted = builder.Fpromote(toIR, value)
	default:
		converted = builder.Fdemote(toIR, value)
	}
	builder.Return([]ir.Value{converted})
	builder.Finalize()

	if err := gen.module.DefineFunction(id, builder); err != nil {
		return errors.NewCodegen(err)
	}
	gen.functions[name].defined = true
	return nil
}

// cast lowers a conversion as a call to the library function named
// "<from>-><to>". A conversion with no library entry (casting between
// two integer widths, for example) fails with a can't-cast error.
func (fg *functionGenerator) cast(value ir.Value, from, to typing.Type) (ir.Value, error) {
	fn, ok := fg.gen.functions[castName(from, to)]
	if !ok {
		return 0, errors.NewCantCast(from, to)
	}
	result, _ := fg.builder.Call(fn.id, []ir.Value{value})
	return result, nil
}
