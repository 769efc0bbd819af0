package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestArity(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, stderr, err := execute(t)
	require.Error(t, err)
	require.Contains(t, stdout+stderr, "Usage:")

	_, _, err = execute(t, "a.txt", "b.txt")
	require.Error(t, err)
}

func TestInterpretCommand(t *testing.T) {
	path := writeSource(t, "prog.txt", "print 1+2; print 3*4;")

	stdout, _, err := execute(t, path)
	require.NoError(t, err)
	require.Equal(t, "int 1\nint 2\n1 + 2\n3\nint 3\nint 4\n3 * 4\n12\n", stdout)
}

func TestAsmCommand(t *testing.T) {
	path := writeSource(t, "prog.txt", "print 2 * 3;")

	_, stderr, err := execute(t, "--backend", "asm", path)
	require.NoError(t, err)
	require.Empty(t, stderr)

	asm, err := os.ReadFile("out.s")
	require.NoError(t, err)
	require.Contains(t, string(asm), "\timulq\t%r8, %r9\n")
}

func TestDiagnostics(t *testing.T) {
	path := writeSource(t, "bad.txt", "$")

	stdout, stderr, err := execute(t, path)
	require.True(t, diag.IsLexical(err))
	require.NotContains(t, stdout+stderr, "Usage:")

	_, _, err = execute(t, filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unable to load source")
}
