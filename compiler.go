package main

import "fmt"

// Compilation is everything produced while compiling one file.
type Compilation struct {
	File    *SourceFile
	AST     *ASTNode
	Context *Context
	Output  string
}

// compileProgram runs every phase over file. Errors carry source offsets;
// render them with FormatError.
func compileProgram(file *SourceFile, verbose bool) (*Compilation, error) {
	// Parse
	l := NewLexer(file.Input())
	l.NextToken()
	ast := ParseProgram(l)

	// Check for parsing errors
	if l.Errors.HasErrors() {
		return nil, l.Errors.Err("parsing")
	}

	ctx := NewContext()
	if errs := CheckProgram(ctx, ast); errs.HasErrors() {
		return nil, errs.Err("checking")
	}

	if verbose {
		fmt.Printf("AST: %s\n", ToSExpr(ast))
	}

	output, err := Generate(ctx, ast)
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}
	return &Compilation{File: file, AST: ast, Context: ctx, Output: output}, nil
}

// checkProgram parses and checks file without generating code.
func checkProgram(file *SourceFile) (*ASTNode, error) {
	l := NewLexer(file.Input())
	l.NextToken()
	ast := ParseProgram(l)
	if l.Errors.HasErrors() {
		return nil, l.Errors.Err("parsing")
	}
	if errs := CheckProgram(NewContext(), ast); errs.HasErrors() {
		return nil, errs.Err("checking")
	}
	return ast, nil
}
