package main

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func TestSessionKeepsDefinitions(t *testing.T) {
	s := NewSession()
	out, _, err := s.Eval("fn double(n: Number) :: Number { return n * 2 }")
	be.Err(t, err, nil)
	be.Equal(t, out, "function double(n) {\n  return n * 2\n}")

	out, _, err = s.Eval("let x = double(2)")
	be.Err(t, err, nil)
	be.Equal(t, out, "let x = double(2)")

	typ, ok := s.ctx.ResolvedType("x")
	be.True(t, ok)
	be.Equal(t, typ.String(), "Number")
}

func TestSessionRejectedInputLeavesNothing(t *testing.T) {
	s := NewSession()
	_, file, err := s.Eval("let a = nope")
	be.Equal(t, file.Name, "<repl:1>")

	var collection *CollectionError
	be.True(t, errors.As(err, &collection))
	be.Equal(t, collection.Phase, "checking")

	out, file, err := s.Eval("let a = 1")
	be.Err(t, err, nil)
	be.Equal(t, out, "let a = 1")
	be.Equal(t, file.Name, "<repl:2>")
}

func TestSessionDetectsDuplicates(t *testing.T) {
	s := NewSession()
	_, _, err := s.Eval("let b = 1")
	be.Err(t, err, nil)
	_, _, err = s.Eval("let b = 2")
	be.Err(t, err, "The variable b has already been defined previously.")
}

func TestSessionParseError(t *testing.T) {
	s := NewSession()
	_, _, err := s.Eval("let = 1")
	var collection *CollectionError
	be.True(t, errors.As(err, &collection))
	be.Equal(t, collection.Phase, "parsing")
}

func TestSessionNumbersAnonymousFunctionsAcrossInputs(t *testing.T) {
	s := NewSession()
	out, _, err := s.Eval("let f = () {}")
	be.Err(t, err, nil)
	be.Equal(t, out, "let f = () => {}")

	_, _, err = s.Eval("let g = () {}")
	be.Err(t, err, nil)
	_, ok := s.ctx.Fn("anon_1")
	be.True(t, ok)
	_, ok = s.ctx.Fn("anon_2")
	be.True(t, ok)
}

func TestSessionWarnings(t *testing.T) {
	s := NewSession()
	_, _, err := s.Eval(`
mod b { fn len(s: String) :: Number { return 2 } }
mod a { fn len(s: String) :: Number { return 1 } }
let s = "x"
`)
	be.Err(t, err, nil)
	be.Equal(t, len(s.Warnings()), 0)

	// Generation fails after the ambiguous call was lowered.
	_, _, err = s.Eval("let n = s.len()\nfn loop(k: Number) { return loop(k) }")
	be.Err(t, err, "recursive function 'loop'")
	be.Equal(t, s.ctx.Warnings.Count(), 0)

	out, _, err := s.Eval("let m = s.len()")
	be.Err(t, err, nil)
	be.Equal(t, out, "let m = a_len(s)")
	be.Equal(t, len(s.Warnings()), 1)
	be.Equal(t, s.Warnings()[0].Message, "The call 'len' matches several functions taking a 'String' (a_len, b_len); using 'a_len'.")
	be.Equal(t, s.ctx.Warnings.Count(), 1)

	_, _, err = s.Eval("let k = 1")
	be.Err(t, err, nil)
	be.Equal(t, len(s.Warnings()), 0)
	be.Equal(t, s.ctx.Warnings.Count(), 1)
}

func TestSessionTypes(t *testing.T) {
	s := NewSession()
	be.Equal(t, len(s.Types()), 0)

	_, _, err := s.Eval("let x = 1\nlet s = \"a\"")
	be.Err(t, err, nil)
	be.Equal(t, s.Types(), []string{"s: String", "x: Number"})
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"let x = 1", false},
		{"fn f() {", true},
		{"fn f() {}", false},
		{"let x = [1,", true},
		{"mod m {\n  fn f() {\n  }", true},
		{`let s = "{"`, false},
		{"`console.log(", true},
		{"}", false},
	}

	for _, test := range tests {
		be.Equal(t, needsMoreInput(test.input), test.expected)
	}
}
