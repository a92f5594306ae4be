package main

import (
	"errors"
	"fmt"
	"strings"
)

// Related points at a second location that explains an error, such as the
// earlier definition in a duplicate-definition error.
type Related struct {
	Message string
	Pos     int
}

// CompileError is a diagnostic anchored at a byte offset of the source.
type CompileError struct {
	Message string
	Pos     int
	Related []Related
}

func (e *CompileError) Error() string {
	return e.Message
}

func newCompileError(pos int, format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// duplicateError reports a name defined twice, pointing at both definitions.
func duplicateError(what string, name string, pos int, previous int) *CompileError {
	return &CompileError{
		Message: fmt.Sprintf("The %s %s has already been defined previously.", what, name),
		Pos:     pos,
		Related: []Related{{Message: "It was previously defined here.", Pos: previous}},
	}
}

// ErrorCollection accumulates diagnostics from a compiler phase.
type ErrorCollection struct {
	errors []*CompileError
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{}
}

func (ec *ErrorCollection) Add(err *CompileError) {
	ec.errors = append(ec.errors, err)
}

func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.errors) > 0
}

func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

func (ec *ErrorCollection) Errors() []*CompileError {
	return ec.errors
}

// String returns one message per line.
func (ec *ErrorCollection) String() string {
	var lines []string
	for _, err := range ec.errors {
		lines = append(lines, "error: "+err.Message)
	}
	return strings.Join(lines, "\n")
}

// Err returns the collection as an error tagged with the phase that
// produced it, or nil when it is empty.
func (ec *ErrorCollection) Err(phase string) error {
	if !ec.HasErrors() {
		return nil
	}
	return &CollectionError{Phase: phase, Errors: ec}
}

// CollectionError carries every diagnostic of a failed phase to the driver.
type CollectionError struct {
	Phase  string
	Errors *ErrorCollection
}

func (e *CollectionError) Error() string {
	if e.Phase == "" {
		return e.Errors.String()
	}
	return e.Phase + " errors:\n" + e.Errors.String()
}

// Number of source lines shown above the offending line.
const contextLines = 2

// FormatDiagnostic renders message with a framed excerpt of file around pos:
//
//	main.zac:3:5
//	    2 | fn f() {
//	    3 |   foo()
//	      | ----^
//	Error: The function 'foo' used here could not be found.
func FormatDiagnostic(file *SourceFile, label string, message string, pos int) string {
	var sb strings.Builder
	line, col := file.LineCol(pos)
	fmt.Fprintf(&sb, "%s:%d:%d\n", file.Name, line, col)
	first := max(line-contextLines, 1)
	for n := first; n <= line; n++ {
		fmt.Fprintf(&sb, "%5d | %s\n", n, file.Line(n))
	}
	fmt.Fprintf(&sb, "      | %s^\n", strings.Repeat("-", col-1))
	fmt.Fprintf(&sb, "%s: %s", label, message)
	return sb.String()
}

// FormatError renders err for the terminal. Compile errors get source
// excerpts; anything else is printed as is.
func FormatError(file *SourceFile, err error) string {
	var collection *CollectionError
	if errors.As(err, &collection) {
		var parts []string
		for _, e := range collection.Errors.Errors() {
			parts = append(parts, formatCompileError(file, e))
		}
		return strings.Join(parts, "\n\n")
	}
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return formatCompileError(file, compileErr)
	}
	return "Error: " + err.Error()
}

func formatCompileError(file *SourceFile, err *CompileError) string {
	parts := []string{FormatDiagnostic(file, "Error", err.Message, err.Pos)}
	for _, rel := range err.Related {
		parts = append(parts, FormatDiagnostic(file, "Note", rel.Message, rel.Pos))
	}
	return strings.Join(parts, "\n")
}
