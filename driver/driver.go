/*
File    : aurora/driver/driver.go
Project : Aurora Compiler
*/

// Package driver runs the whole compilation pipeline over one source
// file: it drives the parser's top-level dispatch, reports diagnostics
// with source positions, writes the emitted object bytes, and can
// invoke an external C compiler to link the object with the runtime
// shim into an executable.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fatih/color"

	"github.com/auroralang/aurora/errors"
	"github.com/auroralang/aurora/gen"
	"github.com/auroralang/aurora/ir"
	"github.com/auroralang/aurora/lexer"
	"github.com/auroralang/aurora/parser"
)

// Color definitions for driver diagnostics:
// - errColor: compile errors
// - infoColor: progress and success messages
var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

// Options configures one compilation.
type Options struct {
	// ObjectPath is where the emitted object bytes are written.
	ObjectPath string

	// EmitIR prints each function's IR to Stdout as it is defined.
	EmitIR bool

	// CC, when non-empty, is the C compiler used to link the object
	// with the runtime shim into ExePath.
	CC          string
	RuntimePath string
	ExePath     string

	// Stdout and Stderr receive program output and diagnostics.
	// They default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (opts *Options) fill() {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
}

// CompileFile opens a source file and compiles it.
func CompileFile(path string, opts Options) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.NewIo(err)
	}
	defer file.Close()
	return Compile(path, file, opts)
}

// Compile runs the pipeline over a byte source. Per-item errors are
// reported with their source position and recovery skips to the next
// top-level item; an unexpected top-level token is fatal. The returned
// error is non-nil if any stage failed.
func Compile(filename string, source io.Reader, opts Options) error {
	opts.fill()

	par := parser.NewParser(lexer.NewLexer(source))
	module := ir.NewModule(filename)
	generator, err := gen.NewGenerator(module)
	if err != nil {
		report(opts.Stderr, filename, par, err)
		return err
	}

	errCount := 0
	for {
		token, err := par.Lex.Peek(0)
		if err != nil {
			report(opts.Stderr, filename, par, err)
			if errors.IsKind(err, errors.Io) {
				return err
			}
			errCount++
			continue
		}

		if token.Type == lexer.EOF_TYPE {
			break
		}

		switch token.Type {
		case lexer.SEMICOLON_DELIM:
			if _, err := par.Lex.Next(); err != nil {
				report(opts.Stderr, filename, par, err)
				errCount++
			}

		case lexer.FN_KEY:
			fn, err := par.Definition()
			if err == nil {
				err = generator.Function(fn)
			}
			if err != nil {
				report(opts.Stderr, filename, par, err)
				errCount++
				sync(par)
				continue
			}
			if opts.EmitIR {
				if id, ok := generator.FunctionID(fn.Prototype.FunctionName); ok {
					fmt.Fprint(opts.Stdout, module.Display(id))
				}
			}

		case lexer.EXTERN_KEY:
			proto, err := par.Extern()
			if err == nil {
				_, err = generator.Prototype(proto, ir.Import)
			}
			if err != nil {
				report(opts.Stderr, filename, par, err)
				errCount++
				sync(par)
			}

		default:
			err := errors.NewUnexpected("top level token")
			report(opts.Stderr, filename, par, err)
			return err
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d error(s) in %s", errCount, filename)
	}
	return finish(module, opts)
}

// finish emits the module, writes the object file, and links when a C
// compiler is configured.
func finish(module ir.Module, opts Options) error {
	object, err := module.Emit()
	if err != nil {
		return errors.NewModule(err)
	}

	if opts.ObjectPath != "" {
		if err := os.WriteFile(opts.ObjectPath, object, 0644); err != nil {
			return errors.NewIo(err)
		}
		infoColor.Fprintf(opts.Stdout, "wrote %s\n", opts.ObjectPath)
	}

	if opts.CC != "" {
		cmd := exec.Command(opts.CC, opts.ObjectPath, opts.RuntimePath, "-o", opts.ExePath)
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("link: %w", err)
		}
		infoColor.Fprintf(opts.Stdout, "linked %s\n", opts.ExePath)
	}
	return nil
}

// sync resumes after a per-item error by skipping tokens until the
// next top-level boundary. When the failed item was fully consumed the
// lexer already sits at a boundary and nothing is skipped.
func sync(par *parser.Parser) {
	for {
		token, err := par.Lex.Peek(0)
		if err != nil {
			if errors.IsKind(err, errors.Io) {
				return
			}
			continue
		}
		switch token.Type {
		case lexer.EOF_TYPE, lexer.FN_KEY, lexer.EXTERN_KEY, lexer.SEMICOLON_DELIM:
			return
		}
		par.Lex.Next()
	}
}

// report prints one diagnostic as `<file>:<line>:<col> error: <display>`.
// Line and column come from the lexer's last consumed byte, which sits
// inside or just past the offending token.
func report(w io.Writer, filename string, par *parser.Parser, err error) {
	errColor.Fprintf(w, "%s:%d:%d error: %v\n", filename, par.Lex.Line(), par.Lex.Column(), err)
}
