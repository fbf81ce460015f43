package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAt(t *testing.T) {
	src := New("t.c", "int main() {\n  return 1;\n}\n")

	cases := []struct {
		offset int
		want   Position
	}{
		{0, Position{Line: 1, Column: 1}},
		{4, Position{Line: 1, Column: 5}},
		{13, Position{Line: 2, Column: 1}},
		{15, Position{Line: 2, Column: 3}},
	}

	for _, c := range cases {
		require.Equal(t, c.want, src.At(c.offset))
	}
}

func TestErrorfExitsWithCodeOne(t *testing.T) {
	var out bytes.Buffer
	var exitCode int
	called := false

	src := New("t.c", "int x;\n")
	src.Out = &out
	src.Exit = func(code int) {
		called = true
		exitCode = code
	}

	src.Errorf(4, "undefined variable: %s", "x")

	require.True(t, called)
	require.Equal(t, 1, exitCode)
	require.Contains(t, out.String(), "Error at t.c 1:5: undefined variable: x")
}
