package main

import (
	"errors"
	"strings"
)

// Checker walks a program before generation. It resolves every name
// against the scopes it builds, reports calls whose arity or argument
// types do not fit, and stores each function's scope in the Context for
// the resolver. Most problems are collected; duplicate definitions and
// misplaced statements stop the walk.
type Checker struct {
	ctx     *Context
	scope   *Scope
	modules map[string]*ASTNode
	// modulePath is the dotted path of the module being checked.
	modulePath string

	Errors *ErrorCollection
}

func NewChecker(ctx *Context) *Checker {
	return &Checker{ctx: ctx, scope: NewRootScope(), modules: map[string]*ASTNode{}}
}

// CheckProgram checks program in a fresh root scope.
func CheckProgram(ctx *Context, program *ASTNode) *ErrorCollection {
	return NewChecker(ctx).Check(program)
}

// Check checks the statements of program. Definitions persist in the
// checker across calls.
func (c *Checker) Check(program *ASTNode) *ErrorCollection {
	c.Errors = NewErrorCollection()
	if err := c.checkStatements(c.scope, program.Children, blockRoot); err != nil {
		var compileErr *CompileError
		if !errors.As(err, &compileErr) {
			compileErr = newCompileError(program.Span.From, "%s", err.Error())
		}
		c.Errors.Add(compileErr)
	}
	return c.Errors
}

func (c *Checker) report(err error) {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		c.Errors.Add(compileErr)
	}
}

func (c *Checker) checkStatements(scope *Scope, stmts []*ASTNode, where blockKind) error {
	for _, stmt := range stmts {
		if err := checkStatementKind(where, stmt); err != nil {
			return err
		}
		if err := c.checkStatement(scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(scope *Scope, stmt *ASTNode) error {
	switch stmt.Kind {
	case NodeModule:
		return c.checkModule(scope, stmt)
	case NodeLet:
		if scope.DefinedLocally(CategoryVariable, stmt.String) {
			prev := scope.GetVariable(stmt.String)
			return duplicateError("variable", stmt.String, stmt.Span.From, prev.Span.From)
		}
		if err := c.checkExpr(scope, stmt.Children[0]); err != nil {
			return err
		}
		scope.AddVariable(stmt.String, stmt)
		return nil
	case NodeFunc:
		return c.checkFunction(scope, stmt)
	case NodeTypeDef, NodeEnum, NodeRecord:
		return c.checkTypeDefinition(scope, stmt)
	case NodeReturn:
		return c.checkExpr(scope, stmt.Children[0])
	default:
		return c.checkExpr(scope, stmt)
	}
}

func (c *Checker) checkModule(scope *Scope, mod *ASTNode) error {
	path := mod.String
	if c.modulePath != "" {
		path = c.modulePath + "." + path
	}
	if prev, ok := c.modules[path]; ok {
		return duplicateError("module", path, mod.Span.From, prev.Span.From)
	}
	saved := c.modulePath
	c.modulePath = path
	err := c.checkStatements(scope.Clone(), mod.Children, blockModule)
	c.modulePath = saved
	if err != nil {
		return err
	}
	c.modules[path] = mod
	return nil
}

// checkFunction checks a function in a copy of scope holding the
// function itself and its arguments. Named functions are then added to
// scope.
func (c *Checker) checkFunction(scope *Scope, fn *ASTNode) error {
	if !fn.Anonymous && scope.DefinedLocally(CategoryFunction, fn.String) {
		prev := scope.GetFunction(fn.String)
		return duplicateError("function", fn.String, fn.Span.From, prev.Span.From)
	}
	fnScope := scope.Clone()
	if !fn.Anonymous {
		fnScope.AddFunction(fn.String, fn)
	}

	seen := map[string]bool{}
	for _, arg := range fn.Args {
		if seen[arg.String] {
			c.Errors.Add(newCompileError(arg.Span.From, "This argument name has been previously defined."))
		}
		seen[arg.String] = true
		if arg.Type != nil {
			c.checkType(fnScope, arg.Type)
		}
		fnScope.ClearDefinitionFor(arg.String)
		fnScope.AddVariable(arg.String, arg)
	}
	if fn.Type != nil {
		c.checkType(fnScope, fn.Type)
	}

	if err := c.checkStatements(fnScope, fn.Children, blockFunction); err != nil {
		return err
	}
	c.ctx.AddScope(fn, fnScope)
	if !fn.Anonymous {
		scope.AddFunction(fn.String, fn)
	}
	return nil
}

func (c *Checker) checkTypeDefinition(scope *Scope, def *ASTNode) error {
	cat := CategoryType
	switch def.Kind {
	case NodeEnum:
		cat = CategoryEnum
	case NodeRecord:
		cat = CategoryRecord
	}
	if scope.DefinedLocally(cat, def.String) {
		prev := scope.Get(cat, def.String)
		return duplicateError(cat.String(), def.String, def.Span.From, prev.Span.From)
	}

	inner := scope.Clone()
	for _, g := range def.Generics {
		inner.AddType(g.String, g)
	}
	// Recursive types refer to themselves.
	inner.AddType(def.String, def)
	for _, item := range def.Children {
		switch item.Kind {
		case NodeCall:
			for _, t := range item.Args {
				c.checkType(inner, t)
			}
		case NodeField:
			c.checkType(inner, item.Type)
		}
	}

	switch cat {
	case CategoryEnum:
		scope.AddEnum(def.String, def)
	case CategoryRecord:
		scope.AddRecord(def.String, def)
	default:
		scope.AddType(def.String, def)
	}
	return nil
}

// checkType reports type names that are not defined. Lowercase names are
// generic placeholders and always accepted.
func (c *Checker) checkType(scope *Scope, t *ASTNode) {
	if !isGenericPlaceholder(t.String) &&
		scope.GetType(t.String) == nil && scope.GetEnum(t.String) == nil && scope.GetRecord(t.String) == nil {
		c.Errors.Add(newCompileError(t.Span.From, "The type '%s' used here could not be found.", t.String))
	}
	for _, g := range t.Generics {
		c.checkType(scope, g)
	}
}

// checkExpr reports problems inside an expression. Only fatal errors are
// returned.
func (c *Checker) checkExpr(scope *Scope, node *ASTNode) error {
	switch node.Kind {
	case NodeIdent:
		if node.String != "" && !scope.IsDefined(node.String) {
			c.Errors.Add(newCompileError(node.Span.From, "The identifier '%s' used here could not be found.", node.String))
		}
		for _, g := range node.Generics {
			c.checkType(scope, g)
		}
	case NodeString, NodeJS, NodeJSXText:
		c.checkInterpolations(scope, node)
	case NodeBinary:
		for _, child := range node.Children {
			if err := c.checkExpr(scope, child); err != nil {
				return err
			}
		}
	case NodeCall:
		return c.checkCall(scope, node)
	case NodeMember:
		return c.checkMember(scope, node, true)
	case NodeArray:
		for _, item := range node.Children {
			if err := c.checkExpr(scope, item); err != nil {
				return err
			}
		}
		if _, err := Resolve(c.ctx, scope, node); err != nil {
			c.report(err)
		}
	case NodeRecordInit:
		for _, prop := range node.Children {
			if prop.Spread && !scope.IsDefined(prop.String) {
				c.Errors.Add(newCompileError(prop.Span.From, "The identifier '%s' used here could not be found.", prop.String))
			}
			if len(prop.Children) > 0 {
				if err := c.checkExpr(scope, prop.Children[0]); err != nil {
					return err
				}
			}
		}
	case NodeIf:
		for _, child := range node.Children {
			if err := c.checkExpr(scope, child); err != nil {
				return err
			}
		}
	case NodeFunc:
		return c.checkFunction(scope, node)
	case NodeJSX:
		return c.checkJSX(scope, node)
	}
	return nil
}

// checkInterpolations reports #{name} placeholders naming nothing.
func (c *Checker) checkInterpolations(scope *Scope, node *ASTNode) {
	start := node.Span.From
	if node.Kind != NodeJSXText {
		start++ // opening quote
	}
	for _, m := range interpolation.FindAllStringSubmatchIndex(node.String, -1) {
		name := node.String[m[2]:m[3]]
		if !scope.IsDefined(name) {
			c.Errors.Add(newCompileError(start+m[0], "The identifier '%s' used here could not be found.", name))
		}
	}
}

func (c *Checker) checkCall(scope *Scope, call *ASTNode) error {
	name := call.CalleeName()
	def := scope.GetFunction(name)
	if def == nil {
		def = scope.GetVariable(name)
	}
	if def == nil {
		c.Errors.Add(newCompileError(call.Span.From, "The function '%s' used here could not be found.", name))
	}
	for _, arg := range call.Args {
		if err := c.checkExpr(scope, arg); err != nil {
			return err
		}
	}
	if def == nil || def.Kind != NodeFunc {
		return nil
	}

	if len(def.Args) != len(call.Args) {
		c.Errors.Add(newCompileError(call.Span.From,
			"This function takes %d arguments but %d were specified.", len(def.Args), len(call.Args)))
		return nil
	}
	defScope, ok := c.ctx.Scope(def)
	if !ok {
		defScope = scope
	}
	for i, param := range def.Args {
		if param.Type == nil || isGenericPlaceholder(param.Type.String) {
			continue
		}
		expected, err := Resolve(c.ctx, defScope, param)
		if err != nil {
			c.report(err)
			continue
		}
		got, err := Resolve(c.ctx, scope, call.Args[i])
		if err != nil {
			c.report(err)
			continue
		}
		if isOpaqueType(got) || expected == got {
			continue
		}
		c.Errors.Add(newCompileError(call.Args[i].Span.From,
			"The function '%s', argument '%s' was expecting '%s' but received a '%s'.",
			name, param.String, expected, got))
	}
	return nil
}

// checkMember checks the head of a chain and the arguments of its calls.
// Later links are methods and fields that only lowering can resolve.
func (c *Checker) checkMember(scope *Scope, node *ASTNode, head bool) error {
	obj, prop := node.Children[0], node.Children[1]
	switch {
	case obj.Kind == NodeMember:
		if err := c.checkMember(scope, obj, head); err != nil {
			return err
		}
	case head && obj.Kind == NodeIdent:
		if !scope.IsDefined(obj.String) && !c.isModule(obj.String) {
			c.Errors.Add(newCompileError(obj.Span.From, "The identifier '%s' used here could not be found.", obj.String))
		}
	case head:
		if err := c.checkExpr(scope, obj); err != nil {
			return err
		}
	case obj.Kind == NodeCall:
		if err := c.checkArgs(scope, obj); err != nil {
			return err
		}
	}

	switch prop.Kind {
	case NodeMember:
		return c.checkMember(scope, prop, false)
	case NodeCall:
		return c.checkArgs(scope, prop)
	}
	return nil
}

func (c *Checker) checkArgs(scope *Scope, call *ASTNode) error {
	for _, arg := range call.Args {
		if err := c.checkExpr(scope, arg); err != nil {
			return err
		}
	}
	return nil
}

// isModule reports whether name starts the path of a module checked so
// far, from the top level or from the enclosing module.
func (c *Checker) isModule(name string) bool {
	for path := range c.modules {
		for _, candidate := range []string{name, c.modulePath + "." + name} {
			if path == candidate || strings.HasPrefix(path, candidate+".") {
				return true
			}
		}
	}
	return false
}

// Tags that need no definition.
var htmlTags = map[string]bool{
	"a": true, "article": true, "aside": true, "b": true, "body": true, "br": true,
	"button": true, "code": true, "div": true, "em": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hr": true, "html": true, "i": true, "img": true,
	"input": true, "label": true, "li": true, "main": true, "nav": true, "ol": true,
	"option": true, "p": true, "pre": true, "section": true, "select": true, "span": true,
	"strong": true, "table": true, "tbody": true, "td": true, "textarea": true, "th": true,
	"thead": true, "title": true, "tr": true, "ul": true,
}

func (c *Checker) checkJSX(scope *Scope, node *ASTNode) error {
	def := scope.FindDefinition(node.String)
	switch {
	case def == nil && !htmlTags[node.String]:
		c.Errors.Add(newCompileError(node.Span.From, "The component '%s' used here could not be found.", node.String))
	case def != nil && def.Kind == NodeFunc:
		t, err := Resolve(c.ctx, scope, def)
		if err != nil {
			c.report(err)
		} else if t != "Element" && !isOpaqueType(t) {
			c.Errors.Add(newCompileError(node.Span.From,
				"The component '%s' must return an 'Element' but returns a '%s'.", node.String, t))
		}
	}
	for _, attr := range node.Attrs {
		if err := c.checkExpr(scope, attr.Children[0]); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := c.checkExpr(scope, child); err != nil {
			return err
		}
	}
	return nil
}
