package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireAssemblerToolchain skips the test unless "as" and "ld" are on
// PATH: these end-to-end scenarios produce and run a real ELF binary.
func requireAssemblerToolchain(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("as"); err != nil {
		t.Skip("as not found on PATH")
	}
	if _, err := exec.LookPath("ld"); err != nil {
		t.Skip("ld not found on PATH")
	}
}

func runSource(t *testing.T, source string) int {
	t.Helper()
	requireAssemblerToolchain(t)

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "t.c")
	require.NoError(t, os.WriteFile(srcPath, []byte(source), 0o644))

	asmPath := filepath.Join(dir, "program.s")
	return run([]string{"-run", "-o", asmPath, srcPath})
}

func TestEndToEndReturnConstant(t *testing.T) {
	require.Equal(t, 42, runSource(t, "int main(){ return 42; }"))
}

func TestEndToEndArithmeticAndLocals(t *testing.T) {
	require.Equal(t, 14, runSource(t, "int main(){ int a=3; int b=4; return a*b+2; }"))
}

func TestEndToEndFunctionCall(t *testing.T) {
	require.Equal(t, 11, runSource(t, "int add(int a,int b){ return a+b; } int main(){ return add(5,6); }"))
}

func TestEndToEndArrayIndexing(t *testing.T) {
	require.Equal(t, 6, runSource(t, "int main(){ int a[3]; a[0]=1; a[1]=2; a[2]=3; return a[0]+a[1]+a[2]; }"))
}

func TestEndToEndStringLiteralIndexing(t *testing.T) {
	require.Equal(t, 99, runSource(t, `int main(){ char *s="abc"; return s[2]; }`))
}

func TestEndToEndStructMembers(t *testing.T) {
	require.Equal(t, 30, runSource(t, "struct P{ int x; int y; }; int main(){ struct P p; p.x=10; p.y=20; return p.x+p.y; }"))
}
