package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".zac_history"
	promptMain  = "zac> "
	promptCont  = "...> "
)

// Session compiles inputs one after another against shared state, so
// definitions from earlier inputs stay visible.
type Session struct {
	ctx     *Context
	checker *Checker
	gen     *Generator
	parser  *Parser
	inputs  int

	// warnings are those of the last accepted input.
	warnings []*CompileError
}

func NewSession() *Session {
	ctx := NewContext()
	return &Session{
		ctx:     ctx,
		checker: NewChecker(ctx),
		gen:     NewGenerator(ctx),
		parser:  &Parser{},
	}
}

// Eval compiles src and returns the generated code. The returned file is
// what error positions refer to.
func (s *Session) Eval(src string) (string, *SourceFile, error) {
	s.inputs++
	file := NewSourceFile(fmt.Sprintf("<repl:%d>", s.inputs), []byte(src))
	l := NewLexer(file.Input())
	l.NextToken()
	// The parser outlives single inputs so anonymous function names stay
	// unique.
	s.parser.l = l
	program := s.parser.parseProgram()
	if l.Errors.HasErrors() {
		return "", file, l.Errors.Err("parsing")
	}

	// Compile against copies; a rejected input leaves nothing behind.
	pending := s.ctx.WithModulePath("")
	pending.Warnings = NewErrorCollection()
	checker := &Checker{ctx: pending, scope: s.checker.scope.Snapshot(), modules: maps.Clone(s.checker.modules)}
	gen := &Generator{ctx: pending, scope: s.gen.scope.Snapshot()}
	if errs := checker.Check(program); errs.HasErrors() {
		return "", file, errs.Err("checking")
	}
	out, err := gen.GenerateProgram(program)
	if err != nil {
		return "", file, fmt.Errorf("generating code: %w", err)
	}
	s.warnings = pending.Warnings.Errors()
	for _, w := range s.warnings {
		s.ctx.Warnings.Add(w)
	}
	pending.Warnings = s.ctx.Warnings
	s.ctx, s.checker, s.gen = pending, checker, gen
	return out, file, nil
}

// Warnings returns the warnings raised by the last accepted input.
func (s *Session) Warnings() []*CompileError {
	return s.warnings
}

// Types lists the inferred type cache as "name: Type" lines.
func (s *Session) Types() []string {
	types := s.ctx.ResolvedTypes()
	var lines []string
	for _, name := range slices.Sorted(maps.Keys(types)) {
		lines = append(lines, name+": "+types[name].String())
	}
	return lines
}

// needsMoreInput reports whether src has unclosed brackets, braces or
// parentheses outside of literals.
func needsMoreInput(src string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth > 0 || quote != 0
}

func replCommand(_ []string) {
	fmt.Println("Zac REPL. Type :types to list inferred types, :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := NewSession()
	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return
		}
		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return
		case trimmed == ":types":
			for _, line := range session.Types() {
				fmt.Println(line)
			}
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		out, file, err := session.Eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, FormatError(file, err))
			continue
		}
		for _, w := range session.Warnings() {
			fmt.Fprintln(os.Stderr, FormatDiagnostic(file, "Warning", w.Message, w.Pos))
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readInput reads lines until the brackets balance. ok is false at EOF.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}
