// This is the main-driver for our compiler.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/skx/yoctocc/ast"
	"github.com/skx/yoctocc/codegen"
	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/lexer"
	"github.com/skx/yoctocc/parser"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run drives the lexer -> parser -> annotator -> codegen pipeline for a
// single translation unit and, depending on flags, assembles/links/runs
// the result. It returns the process exit status rather than calling
// os.Exit directly, so tests can call it without killing the test binary.
func run(args []string) int {
	fs := flag.NewFlagSet("yoctocc", flag.ContinueOnError)
	assemble := fs.Bool("c", false, "Assemble the generated program to an object file, via \"as\".")
	doRun := fs.Bool("run", false, "Assemble, link, and run the program, via \"as\" and \"ld\".")
	output := fs.String("o", "", "Output path (default: build/program.s).")
	fs.Bool("S", true, "Emit assembly only (default; implied unless -c/-run is given).")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *doRun {
		*assemble = true
	}

	positional := fs.Args()
	if len(positional) < 1 || len(positional) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: yoctocc <source_file> [<output_file>]\n")
		return 1
	}

	sourcePath := positional[0]
	asmPath := "build/program.s"
	if len(positional) == 2 {
		asmPath = positional[1]
	}
	if *output != "" {
		asmPath = *output
	}

	text, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", sourcePath, err)
		return 1
	}

	src := diag.New(sourcePath, string(text))

	tokens := lexer.Lex(src)
	program := parser.New(src).Parse(tokens)
	for fn := program; fn != nil; fn = fn.Next {
		if fn.IsFunction {
			ast.Annotate(src, fn.Body)
		}
	}

	lines := codegen.New(src).Run(program)

	if dir := dirOf(asmPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %s\n", dir, err)
			return 1
		}
	}
	if err := os.WriteFile(asmPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %s\n", asmPath, err)
		return 1
	}

	if !*assemble {
		return 0
	}

	objPath := withExt(asmPath, ".o")
	if err := runCommand("as", "--64", "-o", objPath, asmPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error assembling %s: %s\n", asmPath, err)
		return 1
	}

	if !*doRun {
		return 0
	}

	exePath := withExt(asmPath, "")
	if err := runCommand("ld", "-o", exePath, objPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error linking %s: %s\n", objPath, err)
		return 1
	}

	cmd := exec.Command(exePath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	_ = cmd.Run()
	return cmd.ProcessState.ExitCode()
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// withExt replaces asmPath's trailing ".s" with ext ("" to strip it
// entirely, producing the linked executable's path).
func withExt(asmPath, ext string) string {
	base := strings.TrimSuffix(asmPath, ".s")
	return base + ext
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}
