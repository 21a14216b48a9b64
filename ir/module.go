/*
File    : aurora/ir/module.go
Project : Aurora Compiler
*/
package ir

import (
	"fmt"
	"strings"
)

// NewModule creates the reference in-memory backend. It records
// instructions into basic blocks, validates every function when it is
// defined, and emits the module as a textual object image.
func NewModule(name string) Module {
	return &module{
		name:   name,
		byName: make(map[string]FuncID),
	}
}

// instr is one recorded instruction. Only the fields relevant to the
// opcode are populated.
type instr struct {
	op     string
	typ    Type    // result type, when the instruction produces a value
	args   []Value // operand values
	imm    int64   // integer immediate
	f32imm float32 // f32 immediate
	f64imm float64 // f64 immediate
	cond   string  // comparison condition code
	callee FuncID  // call target
	slot   Variable
	target Block // branch target
	result Value // produced value, or -1
}

// funcDecl is a module-level function entry.
type funcDecl struct {
	name    string
	linkage Linkage
	sig     Signature
	body    *funcBuilder // nil until defined
}

// module is the reference Module implementation.
type module struct {
	name   string
	funcs  []*funcDecl
	byName map[string]FuncID
}

func (m *module) DeclareFunction(name string, linkage Linkage, sig Signature) (FuncID, error) {
	if _, ok := m.byName[name]; ok {
		return 0, fmt.Errorf("module: function %q declared twice", name)
	}
	id := FuncID(len(m.funcs))
	m.funcs = append(m.funcs, &funcDecl{name: name, linkage: linkage, sig: sig})
	m.byName[name] = id
	return id, nil
}

func (m *module) NewBuilder(sig Signature) Builder {
	return &funcBuilder{
		module:      m,
		sig:         sig,
		varTypes:    make(map[Variable]Type),
		blockParams: make(map[Block][]Value),
		sealed:      make(map[Block]bool),
	}
}

func (m *module) DefineFunction(id FuncID, b Builder) error {
	if int(id) < 0 || int(id) >= len(m.funcs) {
		return fmt.Errorf("module: no function with id %d", id)
	}
	decl := m.funcs[id]
	if decl.linkage == Import {
		return fmt.Errorf("module: cannot define imported function %q", decl.name)
	}
	if decl.body != nil {
		return fmt.Errorf("module: function %q defined twice", decl.name)
	}
	fb, ok := b.(*funcBuilder)
	if !ok {
		return fmt.Errorf("module: foreign builder")
	}
	if !fb.finalized {
		return fmt.Errorf("module: builder for %q not finalized", decl.name)
	}
	if err := fb.verify(decl.name, decl.sig); err != nil {
		return err
	}
	decl.body = fb
	return nil
}

func (m *module) Display(id FuncID) string {
	if int(id) < 0 || int(id) >= len(m.funcs) {
		return ""
	}
	var sb strings.Builder
	m.writeFunc(&sb, m.funcs[id])
	return sb.String()
}

func (m *module) Emit() ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; module %s\n", m.name)
	for _, decl := range m.funcs {
		if decl.linkage == Export && decl.body == nil {
			return nil, fmt.Errorf("module: exported function %q has no body", decl.name)
		}
		m.writeFunc(&sb, decl)
	}
	return []byte(sb.String()), nil
}

// writeFunc renders one function declaration (and body, when defined).
func (m *module) writeFunc(sb *strings.Builder, decl *funcDecl) {
	sigStr := signatureString(decl.sig)
	if decl.body == nil {
		fmt.Fprintf(sb, "declare %s %%%s%s\n", decl.linkage, decl.name, sigStr)
		return
	}
	fmt.Fprintf(sb, "function %%%s%s {\n", decl.name, sigStr)
	decl.body.writeBlocks(sb, m)
	sb.WriteString("}\n")
}

func signatureString(sig Signature) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteByte(')')
	if len(sig.Returns) > 0 {
		sb.WriteString(" -> ")
		sb.WriteString(sig.Returns[0].Type.String())
	}
	return sb.String()
}

// funcBuilder records the body of one function. Misuse (an undeclared
// variable, emission after finalization) is remembered and surfaced by
// the validator rather than panicking mid-lowering.
type funcBuilder struct {
	module *module
	sig    Signature

	instrs []instr
	blocks [][]int // instruction indices per block
	cur    Block
	hasCur bool

	valueTypes  []Type
	varTypes    map[Variable]Type
	blockParams map[Block][]Value
	sealed      map[Block]bool

	finalized bool
	misuse    error // first recorded misuse, if any
}

// fail records the first builder misuse. The dummy value it returns
// keeps the caller's lowering moving; verify reports the misuse.
func (b *funcBuilder) fail(format string, a ...interface{}) Value {
	if b.misuse == nil {
		b.misuse = fmt.Errorf(format, a...)
	}
	return b.newValue(I64)
}

func (b *funcBuilder) newValue(t Type) Value {
	v := Value(len(b.valueTypes))
	b.valueTypes = append(b.valueTypes, t)
	return v
}

// push appends an instruction to the current block and returns its
// result value (or -1 when it produces none).
func (b *funcBuilder) push(in instr) Value {
	if b.finalized {
		return b.fail("ir: instruction emitted after finalize")
	}
	if !b.hasCur {
		b.fail("ir: instruction emitted outside a block")
		return -1
	}
	idx := len(b.instrs)
	b.instrs = append(b.instrs, in)
	b.blocks[b.cur] = append(b.blocks[b.cur], idx)
	return in.result
}

func (b *funcBuilder) Iconst(t Type, v int64) Value {
	in := instr{op: "iconst", typ: t, imm: v, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) F32const(v float32) Value {
	in := instr{op: "f32const", typ: F32, f32imm: v, result: b.newValue(F32)}
	return b.push(in)
}

func (b *funcBuilder) F64const(v float64) Value {
	in := instr{op: "f64const", typ: F64, f64imm: v, result: b.newValue(F64)}
	return b.push(in)
}

func (b *funcBuilder) binary(op string, x, y Value) Value {
	t := b.typeOf(x)
	in := instr{op: op, typ: t, args: []Value{x, y}, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) Iadd(x, y Value) Value { return b.binary("iadd", x, y) }
func (b *funcBuilder) Isub(x, y Value) Value { return b.binary("isub", x, y) }
func (b *funcBuilder) Imul(x, y Value) Value { return b.binary("imul", x, y) }
func (b *funcBuilder) Fadd(x, y Value) Value { return b.binary("fadd", x, y) }
func (b *funcBuilder) Fsub(x, y Value) Value { return b.binary("fsub", x, y) }
func (b *funcBuilder) Fmul(x, y Value) Value { return b.binary("fmul", x, y) }

func (b *funcBuilder) FcvtFromSint(t Type, x Value) Value {
	in := instr{op: "fcvt_from_sint", typ: t, args: []Value{x}, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) Fpromote(t Type, x Value) Value {
	in := instr{op: "fpromote", typ: t, args: []Value{x}, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) Fdemote(t Type, x Value) Value {
	in := instr{op: "fdemote", typ: t, args: []Value{x}, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) Icmp(cond IntCond, x, y Value) Value {
	in := instr{op: "icmp", typ: I8, cond: string(cond), args: []Value{x, y}, result: b.newValue(I8)}
	return b.push(in)
}

func (b *funcBuilder) Fcmp(cond FloatCond, x, y Value) Value {
	in := instr{op: "fcmp", typ: I8, cond: string(cond), args: []Value{x, y}, result: b.newValue(I8)}
	return b.push(in)
}

func (b *funcBuilder) Call(callee FuncID, args []Value) (Value, bool) {
	if int(callee) < 0 || int(callee) >= len(b.module.funcs) {
		return b.fail("ir: call to unknown function id %d", callee), false
	}
	sig := b.module.funcs[callee].sig
	in := instr{op: "call", callee: callee, args: append([]Value(nil), args...), result: -1}
	if len(sig.Returns) > 0 {
		in.typ = sig.Returns[0].Type
		in.result = b.newValue(in.typ)
		b.push(in)
		return in.result, true
	}
	b.push(in)
	return -1, false
}

func (b *funcBuilder) Return(args []Value) {
	b.push(instr{op: "return", args: append([]Value(nil), args...), result: -1})
}

func (b *funcBuilder) CreateBlock() Block {
	blk := Block(len(b.blocks))
	b.blocks = append(b.blocks, nil)
	return blk
}

func (b *funcBuilder) SwitchToBlock(blk Block) {
	if int(blk) < 0 || int(blk) >= len(b.blocks) {
		b.fail("ir: switch to unknown block %d", blk)
		return
	}
	b.cur = blk
	b.hasCur = true
}

func (b *funcBuilder) SealBlock(blk Block) {
	b.sealed[blk] = true
}

func (b *funcBuilder) AppendBlockParamsForFunctionParams(blk Block) {
	params := make([]Value, 0, len(b.sig.Params))
	for _, p := range b.sig.Params {
		params = append(params, b.newValue(p.Type))
	}
	b.blockParams[blk] = params
}

func (b *funcBuilder) BlockParams(blk Block) []Value {
	return b.blockParams[blk]
}

func (b *funcBuilder) Brz(cond Value, target Block) {
	b.push(instr{op: "brz", args: []Value{cond}, target: target, result: -1})
}

func (b *funcBuilder) Jump(target Block) {
	b.push(instr{op: "jump", target: target, result: -1})
}

func (b *funcBuilder) DeclareVar(v Variable, t Type) {
	if _, ok := b.varTypes[v]; ok {
		b.fail("ir: variable %d declared twice", v)
		return
	}
	b.varTypes[v] = t
}

func (b *funcBuilder) DefVar(v Variable, val Value) {
	t, ok := b.varTypes[v]
	if !ok {
		b.fail("ir: def of undeclared variable %d", v)
		return
	}
	if vt := b.typeOf(val); vt != t {
		b.fail("ir: def of %s variable %d with %s value", t, v, vt)
		return
	}
	b.push(instr{op: "def_var", slot: v, args: []Value{val}, result: -1})
}

func (b *funcBuilder) UseVar(v Variable) Value {
	t, ok := b.varTypes[v]
	if !ok {
		return b.fail("ir: use of undeclared variable %d", v)
	}
	in := instr{op: "use_var", typ: t, slot: v, result: b.newValue(t)}
	return b.push(in)
}

func (b *funcBuilder) Finalize() {
	b.finalized = true
}

// typeOf returns the recorded type of a value.
func (b *funcBuilder) typeOf(v Value) Type {
	if int(v) < 0 || int(v) >= len(b.valueTypes) {
		return 0
	}
	return b.valueTypes[v]
}

// verify is the backend validator. It checks the structural rules a
// native backend would enforce: every reachable block is terminated and
// sealed, operand types agree, branch targets exist, and returns match
// the signature.
func (b *funcBuilder) verify(name string, sig Signature) error {
	if b.misuse != nil {
		return fmt.Errorf("codegen: %s: %v", name, b.misuse)
	}
	for bi, block := range b.blocks {
		if !b.sealed[Block(bi)] {
			return fmt.Errorf("codegen: %s: block%d not sealed", name, bi)
		}
		if len(block) == 0 {
			return fmt.Errorf("codegen: %s: block%d is empty", name, bi)
		}
		last := b.instrs[block[len(block)-1]]
		if last.op != "return" && last.op != "jump" {
			return fmt.Errorf("codegen: %s: block%d not terminated", name, bi)
		}
		for pos, idx := range block {
			in := b.instrs[idx]
			terminator := in.op == "return" || in.op == "jump"
			if terminator && pos != len(block)-1 {
				return fmt.Errorf("codegen: %s: instruction after terminator in block%d", name, bi)
			}
			if err := b.verifyInstr(name, sig, in); err != nil {
				return err
			}
		}
	}
	return nil
}

// verifyInstr checks one instruction's operand types.
func (b *funcBuilder) verifyInstr(name string, sig Signature, in instr) error {
	switch in.op {
	case "iadd", "isub", "imul":
		x, y := b.typeOf(in.args[0]), b.typeOf(in.args[1])
		if x != y || x.IsFloat() {
			return fmt.Errorf("codegen: %s: %s on %s and %s", name, in.op, x, y)
		}
	case "fadd", "fsub", "fmul", "fcmp":
		x, y := b.typeOf(in.args[0]), b.typeOf(in.args[1])
		if x != y || !x.IsFloat() {
			return fmt.Errorf("codegen: %s: %s on %s and %s", name, in.op, x, y)
		}
	case "icmp":
		x, y := b.typeOf(in.args[0]), b.typeOf(in.args[1])
		if x != y || x.IsFloat() {
			return fmt.Errorf("codegen: %s: icmp on %s and %s", name, x, y)
		}
	case "brz", "jump":
		if int(in.target) < 0 || int(in.target) >= len(b.blocks) {
			return fmt.Errorf("codegen: %s: branch to unknown block %d", name, in.target)
		}
	case "call":
		callee := b.module.funcs[in.callee]
		if len(in.args) != len(callee.sig.Params) {
			return fmt.Errorf("codegen: %s: call to %%%s with %d arguments, want %d",
				name, callee.name, len(in.args), len(callee.sig.Params))
		}
		for i, a := range in.args {
			if b.typeOf(a) != callee.sig.Params[i].Type {
				return fmt.Errorf("codegen: %s: call to %%%s: argument %d is %s, want %s",
					name, callee.name, i, b.typeOf(a), callee.sig.Params[i].Type)
			}
		}
	case "return":
		if len(in.args) != len(sig.Returns) {
			return fmt.Errorf("codegen: %s: return with %d values, signature wants %d",
				name, len(in.args), len(sig.Returns))
		}
		for i, a := range in.args {
			if b.typeOf(a) != sig.Returns[i].Type {
				return fmt.Errorf("codegen: %s: return value is %s, signature wants %s",
					name, b.typeOf(a), sig.Returns[i].Type)
			}
		}
	}
	return nil
}

// writeBlocks renders the recorded body as text.
func (b *funcBuilder) writeBlocks(sb *strings.Builder, m *module) {
	for bi, block := range b.blocks {
		fmt.Fprintf(sb, "block%d", bi)
		if params := b.blockParams[Block(bi)]; len(params) > 0 {
			sb.WriteByte('(')
			for i, p := range params {
				if i > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(sb, "v%d: %s", p, b.typeOf(p))
			}
			sb.WriteByte(')')
		}
		sb.WriteString(":\n")
		for _, idx := range block {
			sb.WriteString("    ")
			sb.WriteString(b.instrString(m, b.instrs[idx]))
			sb.WriteByte('\n')
		}
	}
}

// instrString renders one instruction.
func (b *funcBuilder) instrString(m *module, in instr) string {
	operands := func() string {
		parts := make([]string, len(in.args))
		for i, a := range in.args {
			parts[i] = fmt.Sprintf("v%d", a)
		}
		return strings.Join(parts, ", ")
	}
	switch in.op {
	case "iconst":
		return fmt.Sprintf("v%d = iconst.%s %d", in.result, in.typ, in.imm)
	case "f32const":
		return fmt.Sprintf("v%d = f32const %g", in.result, in.f32imm)
	case "f64const":
		return fmt.Sprintf("v%d = f64const %g", in.result, in.f64imm)
	case "icmp", "fcmp":
		return fmt.Sprintf("v%d = %s %s %s", in.result, in.op, in.cond, operands())
	case "fcvt_from_sint", "fpromote", "fdemote":
		return fmt.Sprintf("v%d = %s.%s %s", in.result, in.op, in.typ, operands())
	case "call":
		callee := m.funcs[in.callee].name
		if in.result >= 0 {
			return fmt.Sprintf("v%d = call %%%s(%s)", in.result, callee, operands())
		}
		return fmt.Sprintf("call %%%s(%s)", callee, operands())
	case "return":
		if len(in.args) == 0 {
			return "return"
		}
		return "return " + operands()
	case "brz":
		return fmt.Sprintf("brz %s, block%d", operands(), in.target)
	case "jump":
		return fmt.Sprintf("jump block%d", in.target)
	case "def_var":
		return fmt.Sprintf("def_var var%d, %s", in.slot, operands())
	case "use_var":
		return fmt.Sprintf("v%d = use_var.%s var%d", in.result, in.typ, in.slot)
	default:
		return fmt.Sprintf("v%d = %s %s", in.result, in.op, operands())
	}
}
