/*
File    : aurora/repl/repl.go
Project : Aurora Compiler

Package repl implements the interactive inspection shell for the Aurora
compiler. The compiler has no interpreter, so the shell does not
evaluate: each submitted snippet is run through the front end and the
selected stage's result is shown — the token stream, the typed AST, or
the lowered IR. This is the quickest way to see what the pipeline makes
of a piece of source.

The shell uses the readline library for line editing and history and
colored output for feedback.
*/
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/gen"
	"github.com/auroralang/aurora/ir"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/parser"
)

// Color definitions for shell output:
// - blueColor: separators
// - yellowColor: stage results
// - redColor: error messages
// - greenColor: banner
// - cyanColor: informational messages and instructions
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// mode selects which stage's result the shell shows.
type mode int

const (
	modeIR mode = iota
	modeAST
	modeTokens
)

// Repl is one interactive inspection session.
type Repl struct {
	Banner  string // ASCII banner displayed at startup
	Version string // compiler version string
	Prompt  string // prompt shown to the user

	mode mode
}

// NewRepl creates a shell with the default IR view.
func NewRepl(banner, version, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Prompt: prompt}
}

// printBanner displays the welcome banner and usage instructions.
func (r *Repl) printBanner(writer io.Writer) {
	line := strings.Repeat("-", 60)
	blueColor.Fprintln(writer, line)
	greenColor.Fprintln(writer, r.Banner)
	yellowColor.Fprintln(writer, "Aurora compiler "+r.Version)
	blueColor.Fprintln(writer, line)
	cyanColor.Fprintln(writer, "Enter a top-level item (fn or extern) to inspect it.")
	cyanColor.Fprintln(writer, "Commands: .tokens .ast .ir switch the view, .help, .exit")
	blueColor.Fprintln(writer, line)
}

// Start begins the shell main loop. It reads lines until `.exit` or
// end of input, dispatching dot commands and feeding everything else
// through the front end.
func (r *Repl) Start(writer io.Writer) error {
	r.printBanner(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			// Interrupt clears the line; EOF leaves the shell
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ".") {
			if r.command(writer, input) {
				return nil
			}
			continue
		}

		r.inspect(writer, input)
	}
}

// command handles a dot command; the result reports whether the shell
// should exit.
func (r *Repl) command(writer io.Writer, input string) bool {
	switch input {
	case ".exit":
		cyanColor.Fprintln(writer, "bye")
		return true
	case ".tokens":
		r.mode = modeTokens
		cyanColor.Fprintln(writer, "showing token streams")
	case ".ast":
		r.mode = modeAST
		cyanColor.Fprintln(writer, "showing typed syntax trees")
	case ".ir":
		r.mode = modeIR
		cyanColor.Fprintln(writer, "showing lowered IR")
	case ".help":
		cyanColor.Fprintln(writer, ".tokens  show the lexed token stream")
		cyanColor.Fprintln(writer, ".ast     show the typed syntax tree")
		cyanColor.Fprintln(writer, ".ir      show the lowered IR (default)")
		cyanColor.Fprintln(writer, ".exit    leave the shell")
	default:
		redColor.Fprintf(writer, "unknown command %s (try .help)\n", input)
	}
	return false
}

// inspect runs one submission through the front end. Every submission
// gets a fresh pipeline, so an error never poisons later inputs.
func (r *Repl) inspect(writer io.Writer, src string) {
	switch r.mode {
	case modeTokens:
		r.showTokens(writer, src)
	case modeAST:
		r.showAST(writer, src)
	default:
		r.showIR(writer, src)
	}
}

// showTokens lexes the submission and prints one token per line.
func (r *Repl) showTokens(writer io.Writer, src string) {
	tokens, err := lexer.NewLexerString(src).Tokens()
	for _, token := range tokens {
		yellowColor.Fprintf(writer, "%-14s %q\n", string(token.Type), token.Literal)
	}
	if err != nil {
		redColor.Fprintf(writer, "error: %v\n", err)
	}
}

// parseAll parses every top-level item of the submission.
func parseAll(src string) ([]*ast.Function, []*ast.Prototype, error) {
	par := parser.NewParser(lexer.NewLexerString(src))
	var fns []*ast.Function
	var protos []*ast.Prototype
	for {
		token, err := par.Lex.Peek(0)
		if err != nil {
			return fns, protos, err
		}
		switch token.Type {
		case lexer.EOF_TYPE:
			return fns, protos, nil
		case lexer.SEMICOLON_DELIM:
			par.Lex.Next()
		case lexer.FN_KEY:
			fn, err := par.Definition()
			if err != nil {
				return fns, protos, err
			}
			fns = append(fns, fn)
		case lexer.EXTERN_KEY:
			proto, err := par.Extern()
			if err != nil {
				return fns, protos, err
			}
			protos = append(protos, proto)
		default:
			return fns, protos, fmt.Errorf("expected fn or extern")
		}
	}
}

// showAST parses the submission and renders each item's typed tree.
func (r *Repl) showAST(writer io.Writer, src string) {
	fns, protos, err := parseAll(src)
	printer := &ast.Printer{}
	for _, proto := range protos {
		yellowColor.Fprintf(writer, "Extern %s %s\n", proto.FunctionName, proto.ReturnType)
	}
	for _, fn := range fns {
		yellowColor.Fprint(writer, printer.Render(fn))
	}
	if err != nil {
		redColor.Fprintf(writer, "error: %v\n", err)
	}
}

// showIR compiles the submission and prints the lowered IR of each
// function it defines.
func (r *Repl) showIR(writer io.Writer, src string) {
	fns, protos, err := parseAll(src)
	if err != nil {
		redColor.Fprintf(writer, "error: %v\n", err)
		return
	}

	module := ir.NewModule("repl")
	generator, err := gen.NewGenerator(module)
	if err != nil {
		redColor.Fprintf(writer, "error: %v\n", err)
		return
	}
	for _, proto := range protos {
		if _, err := generator.Prototype(proto, ir.Import); err != nil {
			redColor.Fprintf(writer, "error: %v\n", err)
			return
		}
	}
	for _, fn := range fns {
		if err := generator.Function(fn); err != nil {
			redColor.Fprintf(writer, "error: %v\n", err)
			return
		}
		if id, ok := generator.FunctionID(fn.Prototype.FunctionName); ok {
			yellowColor.Fprint(writer, module.Display(id))
		}
	}
}
