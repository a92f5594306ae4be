package main

import "testing"

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "let x = 1",
			expected: `(program (let "x" (number 1)))`,
		},
		{
			input:    "return x",
			expected: `(program (return (ident "x")))`,
		},
		{
			input:    "fn f() {}",
			expected: `(program (fn "f" (args) (block)))`,
		},
		{
			input:    "fn f(a, b: Vec<Number>) :: Promise<Unit> { a }",
			expected: `(program (fn "f" (args (arg "a") (arg "b" (ident "Vec" (ident "Number")))) (returns (ident "Promise" (ident "Unit"))) (block (ident "a"))))`,
		},
		{
			input:    "mod a { mod b { fn c() {} } }",
			expected: `(program (mod "a" (mod "b" (fn "c" (args) (block)))))`,
		},
		{
			input:    "type Pair<a, b> { Pair(a, b) }",
			expected: `(program (type "Pair" (generics (ident "a") (ident "b")) (call (ident "Pair") (ident "a") (ident "b"))))`,
		},
		{
			input:    "record Point { x: Number y: Number }",
			expected: `(program (record "Point" (field "x" (ident "Number")) (field "y" (ident "Number"))))`,
		},
		{
			input:    "`console.log(1)`",
			expected: `(program (js "console.log(1)"))`,
		},
	}

	for _, test := range tests {
		l := NewLexer([]byte(test.input))
		l.NextToken()
		actual := ToSExpr(ParseProgram(l))
		if l.Errors.HasErrors() {
			t.Errorf("Input: %q\nUnexpected errors:\n%s", test.input, l.Errors)
		}
		if actual != test.expected {
			t.Errorf("Input: %q\nExpected: %s\nActual: %s", test.input, test.expected, actual)
		}
	}
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let = 1", "Expected a variable name but found '='."},
		{"let x 1", "Expected '=' but found '1'."},
		{"fn (x) {}", "Expected a function name but found '('."},
		{"mod {}", "Expected a module name but found '{'."},
		{"record R { x Number }", "Expected ':' after record field 'x'."},
		{"fn f() { let x = 1", "Expected '}' but found ''."},
	}

	for _, test := range tests {
		l := NewLexer([]byte(test.input))
		l.NextToken()
		ParseProgram(l)
		if l.Errors.Count() != 1 || l.Errors.Errors()[0].Message != test.expected {
			t.Errorf("Input: %q\nExpected: %s\nActual: %s", test.input, test.expected, l.Errors)
		}
	}
}
