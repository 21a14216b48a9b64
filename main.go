/*
File    : aurora/main.go
Project : Aurora Compiler
*/

// Package main implements the aurora command-line interface.
//
// aurora is a whole-file compiler for the Aurora language: a small
// statically typed procedural language with functions, externs, typed
// let bindings, structured control flow, and implicit int-to-float
// widening through a compiler-generated cast library.
//
// The CLI has two modes of operation:
//   - compile: lower a source file to an object file, optionally
//     printing the IR and linking against the C runtime shim
//   - repl: an interactive shell that shows what the front end makes
//     of a snippet (tokens, typed AST, or lowered IR)
//
// Examples:
//
//	aurora compile test.au                   # write test.o
//	aurora compile --emit-ir test.au         # also print each function's IR
//	aurora compile --cc cc test.au           # link with the runtime shim
//	aurora repl                              # start the inspection shell
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auroralang/aurora/driver"
	"github.com/auroralang/aurora/repl"
)

const version = "0.2.0"

const banner = `
   __ _ _   _ _ __ ___  _ __ __ _
  / _' | | | | '__/ _ \| '__/ _' |
 | (_| | |_| | | | (_) | | | (_| |
  \__,_|\__,_|_|  \___/|_|  \__,_|
`

func main() {
	root := &cobra.Command{
		Use:           "aurora",
		Short:         "Compiler for the Aurora language",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(compileCommand())
	root.AddCommand(replCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// compileCommand builds the `aurora compile` command.
func compileCommand() *cobra.Command {
	var (
		output      string
		emitIR      bool
		cc          string
		runtimePath string
		exePath     string
	)

	cmd := &cobra.Command{
		Use:   "compile <file.au>",
		Short: "Compile a source file to an object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if output == "" {
				output = strings.TrimSuffix(path, ".au") + ".o"
			}
			if exePath == "" {
				exePath = strings.TrimSuffix(path, ".au")
			}
			return driver.CompileFile(path, driver.Options{
				ObjectPath:  output,
				EmitIR:      emitIR,
				CC:          cc,
				RuntimePath: runtimePath,
				ExePath:     exePath,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "object file path (default: source with .o)")
	cmd.Flags().BoolVar(&emitIR, "emit-ir", false, "print each function's IR as it is compiled")
	cmd.Flags().StringVar(&cc, "cc", "", "C compiler used to link the object with the runtime shim")
	cmd.Flags().StringVar(&runtimePath, "runtime", "runtime/aurora_runtime.c", "runtime shim source passed to the linker")
	cmd.Flags().StringVar(&exePath, "exe", "", "executable path when linking (default: source without .au)")
	return cmd
}

// replCommand builds the `aurora repl` command.
func replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive inspection shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := repl.NewRepl(banner, version, "aurora> ")
			return shell.Start(os.Stdout)
		},
	}
}
