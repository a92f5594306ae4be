package main

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	// Special tokens
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT    = "IDENT"  // main, foo, _bar
	NUMBER   = "NUMBER" // 12, 1.5
	STRING   = "STRING" // "hello #{name}"
	JS       = "JS"     // `console.log(1)`
	JSX_TEXT = "JSX_TEXT"

	// Operators
	ASSIGN   = "="
	EQ       = "=="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	LT       = "<"
	GT       = ">"

	// Delimiters
	COMMA        = ","
	COLON        = ":"
	DOUBLE_COLON = "::"
	DOT          = "."
	ELLIPSIS     = "..."
	LPAREN       = "("
	RPAREN       = ")"
	LBRACE       = "{"
	RBRACE       = "}"
	LBRACKET     = "["
	RBRACKET     = "]"
	SELF_CLOSE   = "/>"
	CLOSE_TAG    = "</"

	// Keywords
	LET    = "LET"
	FN     = "FN"
	MOD    = "MOD"
	RETURN = "RETURN"
	TYPE   = "TYPE"
	ENUM   = "ENUM"
	RECORD = "RECORD"
	IF     = "IF"
	ELSE   = "ELSE"
	TRUE   = "TRUE"
	FALSE  = "FALSE"
)

var keywords = map[string]TokenType{
	"let":    LET,
	"fn":     FN,
	"mod":    MOD,
	"return": RETURN,
	"type":   TYPE,
	"enum":   ENUM,
	"record": RECORD,
	"if":     IF,
	"else":   ELSE,
	"true":   TRUE,
	"false":  FALSE,
}

// Lexer scans a NUL-terminated input one token at a time. The current
// token is exposed through the Curr fields.
type Lexer struct {
	input []byte
	pos   int

	CurrTokenType TokenType
	CurrLiteral   string
	// CurrPos is the offset where the current token starts.
	CurrPos int
	// PrevEnd is the offset just past the previous token.
	PrevEnd int

	Errors *ErrorCollection
}

// NewLexer creates a lexer over input, which must end with a 0 byte.
func NewLexer(input []byte) *Lexer {
	if len(input) == 0 || input[len(input)-1] != 0 {
		input = append(input, 0)
	}
	return &Lexer{input: input, Errors: NewErrorCollection()}
}

// NextToken scans the next token and stores it in the Curr fields.
// Call repeatedly until CurrTokenType == EOF.
func (l *Lexer) NextToken() {
	l.PrevEnd = l.pos
	l.skipWhitespace()
	l.CurrPos = l.pos

	c := l.input[l.pos]
	switch {
	case c == 0:
		l.emit(EOF, 0)
	case isLetter(c):
		ident := l.readIdentifier()
		if kw, ok := keywords[ident]; ok {
			l.CurrTokenType = kw
		} else {
			l.CurrTokenType = IDENT
		}
		l.CurrLiteral = ident
	case isDigit(c):
		l.CurrTokenType = NUMBER
		l.CurrLiteral = l.readNumber()
	case c == '"':
		l.CurrTokenType = STRING
		l.CurrLiteral = l.readDelimited('"', "string")
	case c == '`':
		l.CurrTokenType = JS
		l.CurrLiteral = l.readDelimited('`', "JS literal")
	case c == '=' && l.peek() == '=':
		l.emit(EQ, 2)
	case c == ':' && l.peek() == ':':
		l.emit(DOUBLE_COLON, 2)
	case c == '/' && l.peek() == '>':
		l.emit(SELF_CLOSE, 2)
	case c == '<' && l.peek() == '/':
		l.emit(CLOSE_TAG, 2)
	case c == '.' && l.peek() == '.' && l.input[l.pos+2] == '.':
		l.emit(ELLIPSIS, 3)
	default:
		if tt, ok := singleCharTokens[c]; ok {
			l.emit(tt, 1)
			return
		}
		if c < ' ' || c > '~' {
			l.Errors.Add(newCompileError(l.pos, "Unexpected byte 0x%02x.", c))
		} else {
			l.Errors.Add(newCompileError(l.pos, "Unexpected character '%c'.", c))
		}
		l.emit(ILLEGAL, 1)
	}
}

var singleCharTokens = map[byte]TokenType{
	'=': ASSIGN,
	'+': PLUS,
	'-': MINUS,
	'*': ASTERISK,
	'/': SLASH,
	'<': LT,
	'>': GT,
	',': COMMA,
	':': COLON,
	'.': DOT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
}

// NextJSXChild scans the next token inside the children of a JSX element.
// Text up to the next '<' or '{' becomes a single JSX_TEXT token with
// surrounding whitespace removed; tags and braces lex normally.
func (l *Lexer) NextJSXChild() {
	l.PrevEnd = l.pos
	for isSpace(l.input[l.pos]) {
		l.pos++
	}
	c := l.input[l.pos]
	if c == 0 || c == '<' || c == '{' {
		l.pos = l.PrevEnd
		l.NextToken()
		return
	}
	l.CurrPos = l.pos
	start := l.pos
	for c := l.input[l.pos]; c != 0 && c != '<' && c != '{'; c = l.input[l.pos] {
		if c == '#' && l.peek() == '{' {
			// #{name} interpolations stay part of the text.
			for l.input[l.pos] != '}' && l.input[l.pos] != 0 {
				l.pos++
			}
			if l.input[l.pos] == 0 {
				break
			}
		}
		l.pos++
	}
	end := l.pos
	for end > start && isSpace(l.input[end-1]) {
		end--
	}
	l.CurrTokenType = JSX_TEXT
	l.CurrLiteral = string(l.input[start:end])
}

// Stop positions the lexer at the end of input so parsing winds down after
// an error.
func (l *Lexer) Stop() {
	l.pos = len(l.input) - 1
	l.CurrPos = l.pos
	l.CurrTokenType = EOF
	l.CurrLiteral = ""
}

func (l *Lexer) emit(tt TokenType, width int) {
	l.CurrTokenType = tt
	l.CurrLiteral = string(l.input[l.pos : l.pos+width])
	l.pos += width
}

func (l *Lexer) peek() byte {
	if l.input[l.pos] == 0 {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for {
		c := l.input[l.pos]
		if isSpace(c) {
			l.pos++
		} else if c == '/' && l.peek() == '/' {
			l.skipLineComment()
		} else {
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
		l.pos++
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++
		for isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return string(l.input[start:l.pos])
}

// readDelimited reads up to the closing quote and returns the contents
// without the quotes. There are no escape sequences.
func (l *Lexer) readDelimited(quote byte, what string) string {
	open := l.pos
	l.pos++
	start := l.pos
	for l.input[l.pos] != quote {
		if l.input[l.pos] == 0 {
			l.Errors.Add(newCompileError(open, "Unterminated %s.", what))
			return string(l.input[start:l.pos])
		}
		l.pos++
	}
	lit := string(l.input[start:l.pos])
	l.pos++
	return lit
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
