package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDefaultEmitsAssemblyOnly(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "t.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("int main(){ return 42; }"), 0o644))

	asmPath := filepath.Join(dir, "program.s")
	code := run([]string{"-o", asmPath, srcPath})
	require.Equal(t, 0, code)

	out, err := os.ReadFile(asmPath)
	require.NoError(t, err)
	require.Contains(t, string(out), ".intel_syntax noprefix")
	require.Contains(t, string(out), "main:")
	require.Contains(t, string(out), ".L.return.main:")

	_, err = os.Stat(filepath.Join(dir, "program.o"))
	require.True(t, os.IsNotExist(err))
}

func TestRunMissingSourceArgumentIsUsageError(t *testing.T) {
	require.Equal(t, 1, run(nil))
}

func TestRunUnreadableSourceIsIOError(t *testing.T) {
	require.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "nope.c")}))
}

func TestRunCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "t.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("int main(){ return 0; }"), 0o644))

	asmPath := filepath.Join(dir, "nested", "out.s")
	code := run([]string{"-o", asmPath, srcPath})
	require.Equal(t, 0, code)

	_, err := os.Stat(asmPath)
	require.NoError(t, err)
}
