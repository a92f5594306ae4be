package main

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func compileSource(src string) (*Compilation, error) {
	return compileProgram(NewSourceFile("test.zac", []byte(src)), false)
}

func TestCompileProgram(t *testing.T) {
	comp, err := compileSource("let greeting = \"hi\"\nfn shout(s: String) :: String { return s }\nlet loud = greeting.shout()")
	be.Err(t, err, nil)
	be.Equal(t, comp.Output, "let greeting = `hi`\n\nfunction shout(s) {\n  return s\n}\n\nlet loud = shout(greeting)")
	be.Equal(t, comp.File.Name, "test.zac")
	be.Equal(t, len(comp.AST.Children), 3)

	typ, ok := comp.Context.ResolvedType("loud")
	be.True(t, ok)
	be.Equal(t, typ.String(), "String")
}

func TestCompileEmptyProgram(t *testing.T) {
	comp, err := compileSource("")
	be.Err(t, err, nil)
	be.Equal(t, comp.Output, "")
}

func TestCompilePhases(t *testing.T) {
	tests := []struct {
		src   string
		phase string
	}{
		{"let = 1", "parsing"},
		{"let x = y", "checking"},
		{"fn f() {}\nfn f() {}", "checking"},
	}

	for _, test := range tests {
		_, err := compileSource(test.src)
		var collection *CollectionError
		be.True(t, errors.As(err, &collection))
		be.Equal(t, collection.Phase, test.phase)
	}
}

func TestCompileGenerationErrorIsWrapped(t *testing.T) {
	_, err := compileSource("fn loop(n: Number) { return loop(n) }")
	be.Err(t, err, "generating code: The return type of the recursive function 'loop' must be declared.")

	var compileErr *CompileError
	be.True(t, errors.As(err, &compileErr))
	be.Equal(t, compileErr.Pos, 0)
}

func TestCheckProgram(t *testing.T) {
	ast, err := checkProgram(NewSourceFile("a.zac", []byte("let x = 1")))
	be.Err(t, err, nil)
	be.Equal(t, ToSExpr(ast), ToSExpr(mustParse(t, "let x = 1")))

	_, err = checkProgram(NewSourceFile("a.zac", []byte("let x = y")))
	be.Err(t, err, "checking errors:\nerror: The identifier 'y' used here could not be found.")
}
