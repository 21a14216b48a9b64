/*
File    : aurora/driver/driver_test.go
Project : Aurora Compiler
*/
package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodProgram = `
# the runtime shim provides output
extern putfloatd(value: f64)

fn square(x: f64) f64 {
    return x * x;
}

fn main() {
    putfloatd(square(2.5));
    return;
}
`

func TestCompile_WritesObject(t *testing.T) {
	objectPath := filepath.Join(t.TempDir(), "out.o")
	var stdout, stderr bytes.Buffer

	err := Compile("test.au", strings.NewReader(goodProgram), Options{
		ObjectPath: objectPath,
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)
	assert.Empty(t, stderr.String())

	object, err := os.ReadFile(objectPath)
	require.NoError(t, err)
	assert.Contains(t, string(object), "function %square(f64) -> f64")
	assert.Contains(t, string(object), "declare import %putfloatd(f64)")
}

func TestCompile_EmitIR(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := Compile("test.au", strings.NewReader(goodProgram), Options{
		EmitIR: true,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "function %main()")
	assert.Contains(t, stdout.String(), "fmul")
}

// A failed item is reported with its position and compilation resumes
// at the next top-level item; the overall result is still an error.
func TestCompile_RecoversPerItem(t *testing.T) {
	src := `
fn bad() i64 { return 1.0; }
fn good(a: i64) i64 { return a; }
`
	var stdout, stderr bytes.Buffer

	err := Compile("test.au", strings.NewReader(src), Options{
		EmitIR: true,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error(s) in test.au")

	diag := stderr.String()
	assert.Contains(t, diag, "test.au:")
	assert.Contains(t, diag, "mismatched types, expected i64, got f64")

	// The second definition still compiled
	assert.Contains(t, stdout.String(), "function %good(i64) -> i64")
}

// An unexpected top-level token is fatal, not recovered.
func TestCompile_FatalTopLevelToken(t *testing.T) {
	var stderr bytes.Buffer

	err := Compile("test.au", strings.NewReader(`42`), Options{
		Stderr: &stderr,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected top level token")
	assert.Contains(t, stderr.String(), "unexpected top level token")
}

// Stray semicolons between top-level items are skipped.
func TestCompile_SkipsSemicolons(t *testing.T) {
	var stderr bytes.Buffer

	err := Compile("test.au", strings.NewReader(`;;; fn f() { return; } ;;`), Options{
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.Empty(t, stderr.String())
}

func TestCompileFile_MissingFile(t *testing.T) {
	err := CompileFile(filepath.Join(t.TempDir(), "nope.au"), Options{})
	require.Error(t, err)
}

func TestCompileFile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "prog.au")
	require.NoError(t, os.WriteFile(srcPath, []byte(goodProgram), 0644))

	objectPath := filepath.Join(dir, "prog.o")
	var stdout, stderr bytes.Buffer
	err := CompileFile(srcPath, Options{
		ObjectPath: objectPath,
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)

	_, err = os.Stat(objectPath)
	assert.NoError(t, err)
}
