// Package diag maps a byte offset in the source text back to a
// (file, line, column) and is the single sink every other package calls
// into when the input is malformed. There is no recovery: the first
// problem reported terminates the process with exit code 1.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Source holds the process-wide source-position state: the path the
// user gave us and the full text we read from it. A single translation
// unit owns exactly one Source.
type Source struct {
	// Path is the file name reported in diagnostics.
	Path string

	// Text is the full, unmodified source text.
	Text string

	// Out is where formatted diagnostics are written. Defaults to
	// os.Stderr; tests substitute a buffer to capture output without
	// a real terminal (color auto-disables on a non-TTY writer).
	Out io.Writer

	// Exit is called after a diagnostic has been written. Defaults to
	// os.Exit(1); tests substitute a panic-free no-op so an expected
	// error can be asserted on without killing the test binary.
	Exit func(code int)
}

// New creates a Source for the given path and text, with the default
// stderr/os.Exit sink.
func New(path, text string) *Source {
	return &Source{Path: path, Text: text, Out: os.Stderr, Exit: os.Exit}
}

// Position is a 1-based (line, column) pair.
type Position struct {
	Line   int
	Column int
}

// At computes the 1-based line and column for a byte offset by counting
// newlines up to the offset and the distance since the last one.
func (s *Source) At(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}

	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if s.Text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return Position{Line: line, Column: offset - lineStart + 1}
}

// Errorf formats "Error at <file> <line>:<col>: <msg>" in red at the
// given byte offset, writes it to Out, and calls Exit(1). It never
// returns to the caller under the default Exit; treat it as diverging.
func (s *Source) Errorf(offset int, format string, args ...any) {
	pos := s.At(offset)
	msg := fmt.Sprintf(format, args...)

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(s.out(), "Error at %s %d:%d: %s\n", s.Path, pos.Line, pos.Column, msg)

	s.exit()(1)
}

func (s *Source) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stderr
}

func (s *Source) exit() func(int) {
	if s.Exit != nil {
		return s.Exit
	}
	return os.Exit
}
