package main

import (
	"regexp"
	"strconv"
	"strings"
)

// Generator emits JavaScript for a checked program. It keeps its own scope
// for typing let bindings; everything else it learns goes into ctx.
type Generator struct {
	ctx        *Context
	scope      *Scope
	inFunction bool
	// lastType is the type produced by lowering the most recent statement,
	// when that statement was a member chain.
	lastType *InferredType
}

func NewGenerator(ctx *Context) *Generator {
	return &Generator{ctx: ctx, scope: NewRootScope()}
}

// Generate emits the program. Top-level statements are separated by a
// blank line.
func Generate(ctx *Context, program *ASTNode) (string, error) {
	return NewGenerator(ctx).GenerateProgram(program)
}

func (g *Generator) GenerateProgram(program *ASTNode) (string, error) {
	parts, err := g.generateStatements(program.Children, blockRoot)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, "\n\n"), nil
}

type blockKind int

const (
	blockRoot blockKind = iota
	blockModule
	blockFunction
)

// checkStatementKind rejects statements that have no meaning where they
// appear.
func checkStatementKind(where blockKind, stmt *ASTNode) error {
	switch where {
	case blockRoot:
		switch stmt.Kind {
		case NodeModule, NodeLet, NodeFunc, NodeTypeDef, NodeEnum, NodeRecord,
			NodeCall, NodeMember, NodeReturn, NodeJS:
			return nil
		}
		return newCompileError(stmt.Span.From, "Unsupported statement at the top level.")
	case blockModule:
		switch stmt.Kind {
		case NodeModule, NodeFunc, NodeTypeDef, NodeEnum, NodeRecord:
			return nil
		}
		return newCompileError(stmt.Span.From, "Unsupported statement while generating module.")
	default:
		switch stmt.Kind {
		case NodeLet, NodeCall, NodeMember, NodeJS, NodeIf, NodeReturn:
			return nil
		}
		return newCompileError(stmt.Span.From, "Unsupported statement inside a function body.")
	}
}

func (g *Generator) generateStatements(stmts []*ASTNode, where blockKind) ([]string, error) {
	var out []string
	for _, stmt := range stmts {
		if err := checkStatementKind(where, stmt); err != nil {
			return nil, err
		}
		code, err := g.generateStatement(stmt)
		if err != nil {
			return nil, err
		}
		if code != "" {
			out = append(out, code)
		}
	}
	return out, nil
}

func (g *Generator) generateStatement(stmt *ASTNode) (string, error) {
	g.lastType = nil
	switch stmt.Kind {
	case NodeModule:
		return g.generateModule(stmt)
	case NodeLet:
		return g.generateLet(stmt)
	case NodeFunc:
		return g.generateFunction(stmt)
	case NodeTypeDef:
		g.scope.AddType(stmt.String, stmt)
		return "", nil
	case NodeEnum:
		g.scope.AddEnum(stmt.String, stmt)
		return "", nil
	case NodeRecord:
		g.scope.AddRecord(stmt.String, stmt)
		return "", nil
	case NodeReturn:
		code, err := g.generateTyped(stmt.Children[0])
		if err != nil {
			return "", err
		}
		return "return " + code, nil
	default:
		return g.generateTyped(stmt)
	}
}

// generateTyped generates an expression and, for member chains, remembers
// the type lowering found.
func (g *Generator) generateTyped(expr *ASTNode) (string, error) {
	if expr.Kind != NodeMember {
		return g.GenerateExpression(expr)
	}
	lowered, err := g.LowerMemberAccess(expr)
	if err != nil {
		return "", err
	}
	g.lastType = lowered.Type
	return lowered.Complete(), nil
}

func (g *Generator) generateModule(mod *ASTNode) (string, error) {
	path := mod.String
	if g.ctx.ModulePath != "" {
		path = g.ctx.ModulePath + "." + path
	}
	sub := g.ctx.WithModulePath(path)
	inner := &Generator{ctx: sub, scope: g.scope.Clone()}
	parts, err := inner.generateStatements(mod.Children, blockModule)
	if err != nil {
		return "", err
	}
	g.ctx.Merge(sub)
	if err := g.ctx.AddMod(path, mod); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n\n"), nil
}

func (g *Generator) generateLet(let *ASTNode) (string, error) {
	value := let.Children[0]
	code, err := g.generateTyped(value)
	if err != nil {
		return "", err
	}
	var t *InferredType
	if value.Kind == NodeMember {
		t = g.lastType
	} else {
		resolved, err := Resolve(g.ctx, g.scope, value)
		if err != nil {
			return "", err
		}
		parsed := ParseInferredType(resolved)
		t = &parsed
	}

	name := let.String
	if !g.inFunction {
		name = g.ctx.Qualify(let.String)
		if err := g.ctx.AddVar(name, let); err != nil {
			return "", err
		}
	}
	if t != nil {
		g.ctx.AddResolvedType(name, *t)
	}
	g.scope.AddVariable(let.String, let)
	return "let " + name + " = " + code, nil
}

// generateFunction registers fn under its qualified name and emits it as
// a function declaration, or as an arrow function when anonymous. The
// inferred return type is cached under the qualified name.
func (g *Generator) generateFunction(fn *ASTNode) (string, error) {
	qualified := g.ctx.Qualify(fn.String)
	if err := g.ctx.AddFn(qualified, fn); err != nil {
		return "", err
	}
	if !fn.Anonymous {
		g.scope.AddFunction(fn.String, fn)
	}

	fnScope := g.scope.Clone()
	var args []string
	for _, arg := range fn.Args {
		fnScope.ClearDefinitionFor(arg.String)
		fnScope.AddVariable(arg.String, arg)
		if arg.Type != nil {
			g.ctx.AddResolvedType(arg.String, typeFromAST(arg.Type))
		}
		args = append(args, arg.String)
	}

	body := &Generator{ctx: g.ctx, scope: fnScope, inFunction: true}
	lines, err := body.generateStatements(fn.Children, blockFunction)
	if err != nil {
		return "", err
	}
	g.ctx.AddScope(fn, fnScope)

	if fn.Type == nil && body.lastType != nil {
		g.ctx.AddResolvedType(qualified, *body.lastType)
	} else {
		resolved, err := Resolve(g.ctx, g.scope, fn)
		if err != nil {
			return "", err
		}
		g.ctx.AddResolvedType(qualified, ParseInferredType(resolved))
	}

	block := "{}"
	if len(lines) > 0 {
		block = "{\n" + indent(strings.Join(lines, "\n")) + "\n}"
	}
	signature := "(" + strings.Join(args, ", ") + ")"
	if fn.Anonymous {
		return signature + " => " + block, nil
	}
	return "function " + qualified + signature + " " + block, nil
}

// GenerateExpression emits a single expression.
func (g *Generator) GenerateExpression(node *ASTNode) (string, error) {
	switch node.Kind {
	case NodeIdent:
		return g.qualifiedName(node.String), nil
	case NodeNumber:
		return strconv.FormatFloat(node.Number, 'f', -1, 64), nil
	case NodeString:
		return "`" + interpolation.ReplaceAllString(node.String, "$${${1}}") + "`", nil
	case NodeBoolean:
		return strconv.FormatBool(node.Boolean), nil
	case NodeJS:
		return interpolation.ReplaceAllString(node.String, "${1}"), nil
	case NodeBinary:
		left, err := g.GenerateExpression(node.Children[0])
		if err != nil {
			return "", err
		}
		right, err := g.GenerateExpression(node.Children[1])
		if err != nil {
			return "", err
		}
		op := node.Op
		if op == "==" {
			op = "==="
		}
		return left + " " + op + " " + right, nil
	case NodeCall:
		return g.GenerateCall(node)
	case NodeMember:
		lowered, err := g.LowerMemberAccess(node)
		if err != nil {
			return "", err
		}
		return lowered.Complete(), nil
	case NodeArray:
		items, err := g.generateArgs(node.Children)
		if err != nil {
			return "", err
		}
		return "[" + items + "]", nil
	case NodeRecordInit:
		return g.generateRecordInit(node)
	case NodeIf:
		var parts [3]string
		for i, child := range node.Children {
			code, err := g.GenerateExpression(child)
			if err != nil {
				return "", err
			}
			parts[i] = code
		}
		return "(" + parts[0] + " ? " + parts[1] + " : " + parts[2] + ")", nil
	case NodeFunc:
		return g.generateFunction(node)
	case NodeJSX:
		return g.generateJSX(node)
	default:
		return "", newCompileError(node.Span.From, "Unsupported expression.")
	}
}

// GenerateCall emits name(args), qualifying the callee when it names a
// function of the module being generated.
func (g *Generator) GenerateCall(call *ASTNode) (string, error) {
	args, err := g.generateArgs(call.Args)
	if err != nil {
		return "", err
	}
	return g.qualifiedName(call.CalleeName()) + "(" + args + ")", nil
}

func (g *Generator) generateArgs(nodes []*ASTNode) (string, error) {
	var parts []string
	for _, n := range nodes {
		code, err := g.GenerateExpression(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, ", "), nil
}

func (g *Generator) qualifiedName(name string) string {
	if g.ctx.ModulePath == "" {
		return name
	}
	if q := g.ctx.Qualify(name); g.hasFn(q) {
		return q
	}
	return name
}

func (g *Generator) hasFn(name string) bool {
	_, ok := g.ctx.Fn(name)
	return ok
}

func (g *Generator) generateRecordInit(node *ASTNode) (string, error) {
	var parts []string
	for _, prop := range node.Children {
		switch {
		case prop.Spread:
			parts = append(parts, "..."+prop.String)
		case len(prop.Children) == 0:
			parts = append(parts, prop.String)
		default:
			value, err := g.GenerateExpression(prop.Children[0])
			if err != nil {
				return "", err
			}
			parts = append(parts, prop.String+": "+value)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (g *Generator) generateJSX(node *ASTNode) (string, error) {
	tag := g.qualifiedName(node.String)
	open := "<" + tag
	for _, attr := range node.Attrs {
		value := attr.Children[0]
		if value.Kind == NodeString {
			if interpolation.MatchString(value.String) {
				code, err := g.GenerateExpression(value)
				if err != nil {
					return "", err
				}
				open += " " + attr.String + "={" + code + "}"
			} else {
				open += " " + attr.String + "=\"" + value.String + "\""
			}
			continue
		}
		code, err := g.GenerateExpression(value)
		if err != nil {
			return "", err
		}
		open += " " + attr.String + "={" + code + "}"
	}
	if node.SelfClosing {
		return open + " />", nil
	}
	if len(node.Children) == 0 {
		return open + "></" + tag + ">", nil
	}

	var children []string
	for _, child := range node.Children {
		switch child.Kind {
		case NodeJSXText:
			children = append(children, interpolation.ReplaceAllString(child.String, "{${1}}"))
		case NodeJSX:
			code, err := g.generateJSX(child)
			if err != nil {
				return "", err
			}
			children = append(children, code)
		default:
			code, err := g.GenerateExpression(child)
			if err != nil {
				return "", err
			}
			children = append(children, "{"+code+"}")
		}
	}
	return open + ">\n" + indent(strings.Join(children, "\n")) + "\n</" + tag + ">", nil
}

// interpolation matches #{name} placeholders in string literals.
var interpolation = regexp.MustCompile(`#\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
