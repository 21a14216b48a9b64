/*
File    : aurora/ast/print.go
Project : Aurora Compiler
*/
package ast

import (
	"bytes"
	"fmt"
)

const indentSize = 4

// Printer renders an AST as an indented tree, one node per line with
// its attached type. Used by the REPL's `.ast` view and by tests that
// pin tree shapes.
type Printer struct {
	indent int
	buf    bytes.Buffer
}

// Render renders a function definition (prototype plus body).
func (p *Printer) Render(fn *Function) string {
	p.buf.Reset()
	p.indent = 0
	p.writeLine("Function %s%s %s", fn.Prototype.FunctionName, paramsString(fn.Prototype), fn.Prototype.ReturnType)
	p.indent += indentSize
	p.expr(fn.Body)
	p.indent -= indentSize
	return p.buf.String()
}

// RenderExpr renders a single expression tree.
func (p *Printer) RenderExpr(expr Expr) string {
	p.buf.Reset()
	p.indent = 0
	p.expr(expr)
	return p.buf.String()
}

func paramsString(proto Prototype) string {
	var buf bytes.Buffer
	buf.WriteByte('(')
	for i, param := range proto.Parameters {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %s", param.Name, param.Type)
	}
	buf.WriteByte(')')
	return buf.String()
}

func (p *Printer) writeLine(format string, a ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte(' ')
	}
	fmt.Fprintf(&p.buf, format, a...)
	p.buf.WriteByte('\n')
}

// expr renders one node and recurses into its children.
func (p *Printer) expr(expr Expr) {
	switch node := expr.(type) {
	case *IntegerLiteral:
		p.writeLine("Integer %d : %s", node.Value, node.Type())
	case *FloatLiteral:
		p.writeLine("Float %g : %s", node.Value, node.Type())
	case *BooleanLiteral:
		p.writeLine("Boolean %t : %s", node.Value, node.Type())
	case *Variable:
		p.writeLine("Variable %s : %s", node.Name, node.Type())
	case *Binary:
		p.writeLine("Binary %s : %s", node.Op, node.Type())
		p.children(node.Left, node.Right)
	case *Call:
		p.writeLine("Call %s : %s", node.Name, node.Type())
		p.children(node.Args...)
	case *Block:
		p.writeLine("Block")
		p.children(node.Exprs...)
	case *Let:
		p.writeLine("Let %s : %s", node.Name, node.Type())
		if node.Init != nil {
			p.children(node.Init)
		}
	case *Assign:
		p.writeLine("Assign %s", node.Name)
		p.children(node.Value)
	case *Return:
		p.writeLine("Return : %s", node.Type())
		if node.Value != nil {
			p.children(node.Value)
		}
	case *IfElse:
		p.writeLine("IfElse")
		if node.Else != nil {
			p.children(node.Cond, node.Then, node.Else)
		} else {
			p.children(node.Cond, node.Then)
		}
	case *While:
		p.writeLine("While")
		p.children(node.Cond, node.Body)
	default:
		p.writeLine("Unknown %T", expr)
	}
}

func (p *Printer) children(exprs ...Expr) {
	p.indent += indentSize
	for _, child := range exprs {
		p.expr(child)
	}
	p.indent -= indentSize
}
