package main

import (
	"strconv"
	"strings"
)

// Parser builds an AST from the tokens of a Lexer. Parse errors go to the
// lexer's error collection; the first one stops parsing.
type Parser struct {
	l         *Lexer
	anonCount int
}

// ParseProgram parses statements until EOF. The lexer must already be
// positioned on the first token.
func ParseProgram(l *Lexer) *ASTNode {
	p := &Parser{l: l}
	return p.parseProgram()
}

// ParseExpression parses a single expression.
func ParseExpression(l *Lexer) *ASTNode {
	p := &Parser{l: l}
	return p.parseExpression()
}

func (p *Parser) parseProgram() *ASTNode {
	program := &ASTNode{Kind: NodeProgram, Span: Span{From: p.l.CurrPos}}
	for p.l.CurrTokenType != EOF {
		program.Children = append(program.Children, p.parseStatement())
	}
	program.Span.To = p.l.CurrPos
	return program
}

func (p *Parser) next() {
	p.l.NextToken()
	if p.l.Errors.HasErrors() {
		p.l.Stop()
	}
}

func (p *Parser) fail(format string, args ...any) {
	if !p.l.Errors.HasErrors() {
		p.l.Errors.Add(newCompileError(p.l.CurrPos, format, args...))
	}
	p.l.Stop()
}

// expect skips the current token, asserting it matches the expected type.
func (p *Parser) expect(tt TokenType) bool {
	if p.l.CurrTokenType != tt {
		p.fail("Expected '%s' but found '%s'.", describeToken(tt), p.l.CurrLiteral)
		return false
	}
	p.next()
	return true
}

func describeToken(tt TokenType) string {
	if kw, ok := keywordSpelling(tt); ok {
		return kw
	}
	return string(tt)
}

func keywordSpelling(tt TokenType) (string, bool) {
	for spelling, kw := range keywords {
		if kw == tt {
			return spelling, true
		}
	}
	return "", false
}

func (p *Parser) expectIdent(what string) string {
	if p.l.CurrTokenType != IDENT {
		p.fail("Expected %s but found '%s'.", what, p.l.CurrLiteral)
		return ""
	}
	name := p.l.CurrLiteral
	p.next()
	return name
}

func (p *Parser) finish(node *ASTNode) *ASTNode {
	node.Span.To = p.l.PrevEnd
	return node
}

func (p *Parser) parseStatement() *ASTNode {
	switch p.l.CurrTokenType {
	case MOD:
		return p.parseModule()
	case LET:
		return p.parseLet()
	case FN:
		return p.parseFunction()
	case TYPE, ENUM:
		return p.parseTypeDef()
	case RECORD:
		return p.parseRecord()
	case RETURN:
		node := &ASTNode{Kind: NodeReturn, Span: Span{From: p.l.CurrPos}}
		p.next()
		node.Children = []*ASTNode{p.parseExpression()}
		return p.finish(node)
	default:
		return p.parseExpression()
	}
}

// parseBlock parses '{' stmt* '}'.
func (p *Parser) parseBlock() []*ASTNode {
	var stmts []*ASTNode
	if !p.expect(LBRACE) {
		return stmts
	}
	for p.l.CurrTokenType != RBRACE && p.l.CurrTokenType != EOF {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(RBRACE)
	return stmts
}

func (p *Parser) parseModule() *ASTNode {
	node := &ASTNode{Kind: NodeModule, Span: Span{From: p.l.CurrPos}}
	p.next()
	parts := []string{p.expectIdent("a module name")}
	for p.l.CurrTokenType == DOT {
		p.next()
		parts = append(parts, p.expectIdent("a module name"))
	}
	node.String = strings.Join(parts, ".")
	node.Children = p.parseBlock()
	return p.finish(node)
}

func (p *Parser) parseLet() *ASTNode {
	node := &ASTNode{Kind: NodeLet, Span: Span{From: p.l.CurrPos}}
	p.next()
	node.String = p.expectIdent("a variable name")
	p.expect(ASSIGN)
	node.Children = []*ASTNode{p.parseExpression()}
	return p.finish(node)
}

func (p *Parser) parseFunction() *ASTNode {
	node := &ASTNode{Kind: NodeFunc, Span: Span{From: p.l.CurrPos}}
	p.next()
	node.String = p.expectIdent("a function name")
	p.parseSignatureAndBody(node)
	return p.finish(node)
}

func (p *Parser) parseAnonymousFunction() *ASTNode {
	p.anonCount++
	node := &ASTNode{
		Kind:      NodeFunc,
		String:    "anon_" + strconv.Itoa(p.anonCount),
		Anonymous: true,
		Span:      Span{From: p.l.CurrPos},
	}
	p.parseSignatureAndBody(node)
	return p.finish(node)
}

// parseSignatureAndBody parses '(' args ')' (':' type)? '{' stmt* '}'.
func (p *Parser) parseSignatureAndBody(fn *ASTNode) {
	p.expect(LPAREN)
	for p.l.CurrTokenType != RPAREN && p.l.CurrTokenType != EOF {
		arg := &ASTNode{Kind: NodeFuncArg, Span: Span{From: p.l.CurrPos}}
		arg.String = p.expectIdent("an argument name")
		if p.l.CurrTokenType == COLON || p.l.CurrTokenType == DOUBLE_COLON {
			p.next()
			arg.Type = p.parseType()
		}
		fn.Args = append(fn.Args, p.finish(arg))
		if p.l.CurrTokenType != COMMA {
			break
		}
		p.next()
	}
	p.expect(RPAREN)
	if p.l.CurrTokenType == COLON || p.l.CurrTokenType == DOUBLE_COLON {
		p.next()
		fn.Type = p.parseType()
	}
	fn.Children = p.parseBlock()
}

// parseType parses Name or Name<T, ...>.
func (p *Parser) parseType() *ASTNode {
	node := &ASTNode{Kind: NodeIdent, Span: Span{From: p.l.CurrPos}}
	node.String = p.expectIdent("a type name")
	if p.l.CurrTokenType == LT {
		p.next()
		for p.l.CurrTokenType != GT && p.l.CurrTokenType != EOF {
			node.Generics = append(node.Generics, p.parseType())
			if p.l.CurrTokenType != COMMA {
				break
			}
			p.next()
		}
		p.expect(GT)
	}
	return p.finish(node)
}

// parseTypeDef parses type and enum definitions:
//
//	enum Option<T> { Some(T), None }
func (p *Parser) parseTypeDef() *ASTNode {
	kind := NodeTypeDef
	if p.l.CurrTokenType == ENUM {
		kind = NodeEnum
	}
	node := &ASTNode{Kind: kind, Span: Span{From: p.l.CurrPos}}
	p.next()
	node.String = p.expectIdent("a type name")
	if p.l.CurrTokenType == LT {
		p.next()
		for p.l.CurrTokenType == IDENT {
			node.Generics = append(node.Generics, p.parseType())
			if p.l.CurrTokenType != COMMA {
				break
			}
			p.next()
		}
		p.expect(GT)
	}
	p.expect(LBRACE)
	for p.l.CurrTokenType == IDENT {
		variant := &ASTNode{Kind: NodeIdent, String: p.l.CurrLiteral, Span: Span{From: p.l.CurrPos}}
		p.next()
		if p.l.CurrTokenType == LPAREN {
			call := &ASTNode{Kind: NodeCall, Children: []*ASTNode{p.finish(variant)}, Span: variant.Span}
			p.next()
			for p.l.CurrTokenType != RPAREN && p.l.CurrTokenType != EOF {
				call.Args = append(call.Args, p.parseType())
				if p.l.CurrTokenType != COMMA {
					break
				}
				p.next()
			}
			p.expect(RPAREN)
			variant = call
		}
		node.Children = append(node.Children, p.finish(variant))
		if p.l.CurrTokenType != COMMA {
			break
		}
		p.next()
	}
	p.expect(RBRACE)
	return p.finish(node)
}

func (p *Parser) parseRecord() *ASTNode {
	node := &ASTNode{Kind: NodeRecord, Span: Span{From: p.l.CurrPos}}
	p.next()
	node.String = p.expectIdent("a record name")
	p.expect(LBRACE)
	for p.l.CurrTokenType == IDENT {
		field := &ASTNode{Kind: NodeField, String: p.l.CurrLiteral, Span: Span{From: p.l.CurrPos}}
		p.next()
		if p.l.CurrTokenType != COLON && p.l.CurrTokenType != DOUBLE_COLON {
			p.fail("Expected ':' after record field '%s'.", field.String)
			break
		}
		p.next()
		field.Type = p.parseType()
		node.Children = append(node.Children, p.finish(field))
		if p.l.CurrTokenType == COMMA {
			p.next()
		}
	}
	p.expect(RBRACE)
	return p.finish(node)
}

// precedence returns the precedence level for a given token type
func precedence(tokenType TokenType) int {
	switch tokenType {
	case EQ, LT, GT:
		return 1
	case PLUS, MINUS:
		return 2
	case ASTERISK, SLASH:
		return 3
	default:
		return 0 // not an operator
	}
}

func (p *Parser) parseExpression() *ASTNode {
	return p.parseExpressionWithPrecedence(1)
}

// parseExpressionWithPrecedence implements precedence climbing
func (p *Parser) parseExpressionWithPrecedence(minPrec int) *ASTNode {
	left := p.parsePrimary()
	if p.l.CurrTokenType == DOT {
		left = p.parseMember(left)
	}
	for {
		prec := precedence(p.l.CurrTokenType)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.l.CurrLiteral
		p.next()
		right := p.parseExpressionWithPrecedence(prec + 1)
		left = &ASTNode{
			Kind:     NodeBinary,
			Op:       op,
			Children: []*ASTNode{left, right},
			Span:     Span{From: left.Span.From, To: right.Span.To},
		}
	}
}

func (p *Parser) parsePrimary() *ASTNode {
	start := p.l.CurrPos
	switch p.l.CurrTokenType {
	case NUMBER:
		value, _ := strconv.ParseFloat(p.l.CurrLiteral, 64)
		node := &ASTNode{Kind: NodeNumber, String: p.l.CurrLiteral, Number: value, Span: Span{From: start}}
		p.next()
		return p.finish(node)
	case STRING, JS:
		kind := NodeString
		if p.l.CurrTokenType == JS {
			kind = NodeJS
		}
		node := &ASTNode{Kind: kind, String: p.l.CurrLiteral, Span: Span{From: start}}
		p.next()
		return p.finish(node)
	case TRUE, FALSE:
		node := &ASTNode{Kind: NodeBoolean, Boolean: p.l.CurrTokenType == TRUE, Span: Span{From: start}}
		p.next()
		return p.finish(node)
	case LBRACKET:
		node := &ASTNode{Kind: NodeArray, Span: Span{From: start}}
		p.next()
		node.Children = p.parseExpressionList(RBRACKET)
		return p.finish(node)
	case LBRACE:
		return p.parseRecordInit()
	case LPAREN:
		return p.parseAnonymousFunction()
	case IF:
		return p.parseIf()
	case LT:
		return p.parseJSX(false)
	case IDENT:
		return p.parseChainItem()
	default:
		p.fail("Unexpected token '%s'.", p.l.CurrLiteral)
		return &ASTNode{Kind: NodeIdent, Span: Span{From: start, To: start}}
	}
}

// parseExpressionList parses comma separated expressions up to and
// including the closing token.
func (p *Parser) parseExpressionList(closing TokenType) []*ASTNode {
	var items []*ASTNode
	for p.l.CurrTokenType != closing && p.l.CurrTokenType != EOF {
		items = append(items, p.parseExpression())
		if p.l.CurrTokenType != COMMA {
			break
		}
		p.next()
	}
	p.expect(closing)
	return items
}

// parseChainItem parses an identifier, with generic arguments when it is
// capitalized and directly followed by '<', optionally called.
func (p *Parser) parseChainItem() *ASTNode {
	ident := &ASTNode{Kind: NodeIdent, String: p.l.CurrLiteral, Span: Span{From: p.l.CurrPos}}
	p.next()
	if p.l.CurrTokenType == LT && p.l.CurrPos == p.l.PrevEnd && isUpper(ident.String[0]) {
		p.next()
		for p.l.CurrTokenType != GT && p.l.CurrTokenType != EOF {
			ident.Generics = append(ident.Generics, p.parseType())
			if p.l.CurrTokenType != COMMA {
				break
			}
			p.next()
		}
		p.expect(GT)
	}
	p.finish(ident)
	if p.l.CurrTokenType != LPAREN {
		return ident
	}
	call := &ASTNode{Kind: NodeCall, Children: []*ASTNode{ident}, Span: Span{From: ident.Span.From}}
	p.next()
	call.Args = p.parseExpressionList(RPAREN)
	return p.finish(call)
}

// parseMember parses '.' chain after obj. Chains nest to the right:
// a.b.c is (member a (member b c)).
func (p *Parser) parseMember(obj *ASTNode) *ASTNode {
	node := &ASTNode{Kind: NodeMember, Span: Span{From: obj.Span.From}}
	p.next()
	if p.l.CurrTokenType != IDENT {
		p.fail("Expected a property name after '.' but found '%s'.", p.l.CurrLiteral)
		node.Children = []*ASTNode{obj, {Kind: NodeIdent}}
		return node
	}
	prop := p.parseChainItem()
	if p.l.CurrTokenType == DOT {
		prop = p.parseMember(prop)
	}
	node.Children = []*ASTNode{obj, prop}
	return p.finish(node)
}

func (p *Parser) parseRecordInit() *ASTNode {
	node := &ASTNode{Kind: NodeRecordInit, Span: Span{From: p.l.CurrPos}}
	p.next()
	for p.l.CurrTokenType != RBRACE && p.l.CurrTokenType != EOF {
		prop := &ASTNode{Kind: NodeRecordProp, Span: Span{From: p.l.CurrPos}}
		if p.l.CurrTokenType == ELLIPSIS {
			p.next()
			prop.Spread = true
		}
		prop.String = p.expectIdent("a property name")
		if !prop.Spread && p.l.CurrTokenType == COLON {
			p.next()
			prop.Children = []*ASTNode{p.parseExpression()}
		}
		node.Children = append(node.Children, p.finish(prop))
		if p.l.CurrTokenType != COMMA {
			break
		}
		p.next()
	}
	p.expect(RBRACE)
	return p.finish(node)
}

// parseIf parses if test { expr } else { expr }.
func (p *Parser) parseIf() *ASTNode {
	node := &ASTNode{Kind: NodeIf, Span: Span{From: p.l.CurrPos}}
	p.next()
	test := p.parseExpression()
	p.expect(LBRACE)
	truthy := p.parseExpression()
	p.expect(RBRACE)
	p.expect(ELSE)
	p.expect(LBRACE)
	falsy := p.parseExpression()
	p.expect(RBRACE)
	node.Children = []*ASTNode{test, truthy, falsy}
	return p.finish(node)
}

// parseJSX parses an element starting at '<'. Inside another element's
// children the token after the element is lexed in text mode.
func (p *Parser) parseJSX(inChildren bool) *ASTNode {
	node := &ASTNode{Kind: NodeJSX, Span: Span{From: p.l.CurrPos}}
	p.next()
	node.String = p.expectIdent("a tag name")
	for p.l.CurrTokenType == IDENT {
		attr := &ASTNode{Kind: NodeJSXAttr, String: p.l.CurrLiteral, Span: Span{From: p.l.CurrPos}}
		p.next()
		p.expect(ASSIGN)
		var value *ASTNode
		if p.l.CurrTokenType == LBRACE {
			p.next()
			value = p.parseExpression()
			p.expect(RBRACE)
		} else if p.l.CurrTokenType == STRING {
			value = p.parsePrimary()
		} else {
			p.fail("Expected a string or '{' for attribute '%s'.", attr.String)
			return node
		}
		attr.Children = []*ASTNode{value}
		node.Attrs = append(node.Attrs, p.finish(attr))
	}

	if p.l.CurrTokenType == SELF_CLOSE {
		node.SelfClosing = true
		p.advanceAfterJSX(inChildren)
		return p.finish(node)
	}
	if p.l.CurrTokenType != GT {
		p.fail("Expected '>' or '/>' but found '%s'.", p.l.CurrLiteral)
		return node
	}

	p.l.NextJSXChild()
	for {
		switch p.l.CurrTokenType {
		case JSX_TEXT:
			text := &ASTNode{Kind: NodeJSXText, String: p.l.CurrLiteral, Span: Span{From: p.l.CurrPos, To: p.l.CurrPos + len(p.l.CurrLiteral)}}
			node.Children = append(node.Children, text)
			p.l.NextJSXChild()
		case LBRACE:
			p.next()
			node.Children = append(node.Children, p.parseExpression())
			if p.l.CurrTokenType != RBRACE {
				p.fail("Expected '}' but found '%s'.", p.l.CurrLiteral)
				return node
			}
			p.l.NextJSXChild()
		case LT:
			node.Children = append(node.Children, p.parseJSX(true))
		case CLOSE_TAG:
			p.next()
			if p.l.CurrTokenType != IDENT || p.l.CurrLiteral != node.String {
				p.fail("Expected closing tag for <%s>.", node.String)
				return node
			}
			p.next()
			if p.l.CurrTokenType != GT {
				p.fail("Expected '>' but found '%s'.", p.l.CurrLiteral)
				return node
			}
			p.advanceAfterJSX(inChildren)
			return p.finish(node)
		default:
			p.fail("Unterminated JSX element <%s>.", node.String)
			return node
		}
	}
}

func (p *Parser) advanceAfterJSX(inChildren bool) {
	if inChildren {
		p.l.NextJSXChild()
	} else {
		p.next()
	}
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isLower(c byte) bool {
	return 'a' <= c && c <= 'z'
}
