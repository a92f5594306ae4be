package main

import (
	"sort"
	"strings"
)

// SourceFile holds the text of one compilation unit and maps byte offsets
// back to line and column numbers for diagnostics.
type SourceFile struct {
	Name       string
	Content    []byte
	lineStarts []int
}

func NewSourceFile(name string, content []byte) *SourceFile {
	f := &SourceFile{Name: name, Content: content, lineStarts: []int{0}}
	for i, c := range content {
		if c == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineCol returns the 1-based line and column of offset. Offsets past the
// end of the file are clamped to the last position.
func (f *SourceFile) LineCol(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	return line, offset - f.lineStarts[line-1] + 1
}

// Line returns the text of the 1-based line n without its line terminator.
func (f *SourceFile) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Content)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return strings.TrimRight(string(f.Content[start:end]), "\r")
}

func (f *SourceFile) LineCount() int {
	return len(f.lineStarts)
}

// Input returns the content with the NUL terminator the lexer expects.
func (f *SourceFile) Input() []byte {
	input := make([]byte, len(f.Content)+1)
	copy(input, f.Content)
	return input
}
