package mdcase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeNumber
	NodeList
)

// Node is one datum of an s-expression assertion.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeNumber
	Items []*Node // NodeList
}

// String prints the node in canonical form: single spaces between list
// items and Go-quoted strings, which is what ToSExpr produces.
func (n *Node) String() string {
	switch n.Type {
	case NodeString:
		return strconv.Quote(n.Text)
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return n.Text
	}
}

// Helper constructors for common node types
func NewSymbol(name string) *Node  { return &Node{Type: NodeSymbol, Text: name} }
func NewString(value string) *Node { return &Node{Type: NodeString, Text: value} }
func NewNumber(text string) *Node  { return &Node{Type: NodeNumber, Text: text} }
func NewList(items ...*Node) *Node { return &Node{Type: NodeList, Items: items} }

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Parse reads exactly one datum from input.
func Parse(input string) (*Node, error) {
	p := &parser{input: input}
	p.skipTrivia()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("empty input")
	}
	node, err := p.parseDatum()
	if err != nil {
		return nil, err
	}
	p.skipTrivia()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("offset %d: unexpected trailing input", p.pos)
	}
	return node, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipTrivia() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case unicode.IsSpace(rune(c)):
			p.pos++
		case c == ';':
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) parseDatum() (*Node, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch c := p.input[p.pos]; {
	case c == '(':
		return p.parseList()
	case c == ')':
		return nil, fmt.Errorf("offset %d: unexpected ')'", p.pos)
	case c == '"':
		return p.parseString()
	case isDigit(c) || (c == '-' && p.pos+1 < len(p.input) && isDigit(p.input[p.pos+1])):
		return p.parseNumber(), nil
	default:
		start := p.pos
		for p.pos < len(p.input) && isSymbolChar(p.input[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return nil, fmt.Errorf("offset %d: unexpected character %q", p.pos, c)
		}
		return NewSymbol(p.input[start:p.pos]), nil
	}
}

func (p *parser) parseList() (*Node, error) {
	p.pos++ // consume '('
	list := NewList()
	for {
		p.skipTrivia()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated list")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return list, nil
		}
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
}

func (p *parser) parseString() (*Node, error) {
	p.pos++ // skip opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '"':
			p.pos++
			return NewString(b.String()), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated string")
			}
			switch e := p.input[p.pos]; e {
			case '"', '\\':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return nil, fmt.Errorf("invalid escape sequence: \\%c", e)
			}
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return nil, fmt.Errorf("unterminated string")
}

func (p *parser) parseNumber() *Node {
	start := p.pos
	if p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	return NewNumber(p.input[start:p.pos])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSymbolChar(c byte) bool {
	return c > ' ' && c != '(' && c != ')' && c != '"' && c != ';' && c < 0x7f
}
