package main

import "strings"

// Resolve computes the nominal type of node, rendered as Name or
// Name<g1,g2>. Identifiers are looked up in scope; function bodies are
// resolved in the scope captured for them in ctx.
func Resolve(ctx *Context, scope *Scope, node *ASTNode) (string, error) {
	r := &resolver{ctx: ctx, visiting: map[*ASTNode]bool{}}
	return r.resolve(scope, node)
}

// ResolveReturningType resolves what calling callee produces. For an
// identifier it follows the definition; a function definition yields its
// return type.
func ResolveReturningType(ctx *Context, scope *Scope, callee *ASTNode) (string, error) {
	r := &resolver{ctx: ctx, visiting: map[*ASTNode]bool{}}
	return r.returningType(scope, callee)
}

type resolver struct {
	ctx *Context
	// visiting holds the functions whose return type is being inferred.
	visiting map[*ASTNode]bool
}

func (r *resolver) resolve(scope *Scope, node *ASTNode) (string, error) {
	switch node.Kind {
	case NodeNumber:
		return "Number", nil
	case NodeString:
		return "String", nil
	case NodeBoolean:
		return "Boolean", nil
	case NodeJS:
		return typeJS, nil
	case NodeJSX:
		return "Element", nil
	case NodeIdent:
		return r.resolveIdent(scope, node)
	case NodeLet, NodeReturn:
		return r.resolve(scope, node.Children[0])
	case NodeArray:
		return r.resolveArray(scope, node)
	case NodeFunc:
		return r.resolveFunction(scope, node)
	case NodeFuncArg, NodeField:
		if node.Type == nil {
			return unitType.ID, nil
		}
		return r.resolve(scope, node.Type)
	case NodeBinary:
		// The left operand decides, comparisons included.
		return r.resolve(scope, node.Children[0])
	case NodeCall:
		return r.returningType(scope, node.Children[0])
	case NodeMember:
		return typeMemberAccess, nil
	case NodeIf:
		return typeIf, nil
	case NodeRecordInit:
		return typeRecord, nil
	case NodeTypeDef, NodeEnum, NodeRecord:
		return node.String, nil
	default:
		return "", newCompileError(node.Span.From, "Unable to resolve the type of this expression.")
	}
}

func (r *resolver) returningType(scope *Scope, callee *ASTNode) (string, error) {
	if callee.Kind != NodeIdent {
		return r.resolve(scope, callee)
	}
	def := scope.FindDefinition(callee.String)
	if def == nil || def == builtinNode {
		return callee.String, nil
	}
	return r.resolve(scope, def)
}

func (r *resolver) resolveIdent(scope *Scope, ident *ASTNode) (string, error) {
	def := scope.FindDefinition(ident.String)
	if def == nil {
		return ident.String, nil
	}
	var base string
	switch def.Kind {
	case NodeBuiltin, NodeIdent:
		// Built-ins and generic parameters stand for themselves.
		base = ident.String
	default:
		t, err := r.resolve(scope, def)
		if err != nil {
			return "", err
		}
		base = t
	}
	if len(ident.Generics) == 0 {
		return base, nil
	}
	var generics []string
	for _, g := range ident.Generics {
		t, err := r.resolve(scope, g)
		if err != nil {
			return "", err
		}
		generics = append(generics, t)
	}
	return base + "<" + strings.Join(generics, ",") + ">", nil
}

// resolveArray requires every item to have the same type. Opaque items
// match anything; the element type comes from the first other item.
func (r *resolver) resolveArray(scope *Scope, array *ASTNode) (string, error) {
	if len(array.Children) == 0 {
		return "Vec<>", nil
	}
	var first, elem string
	for i, item := range array.Children {
		t, err := r.resolve(scope, item)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = t
		}
		switch {
		case isOpaqueType(t):
		case elem == "":
			elem = t
		case t != elem:
			return "", newCompileError(item.Span.From,
				"Array items must all have the same type: expected '%s' but found '%s'.", elem, t)
		}
	}
	if elem == "" {
		elem = first
	}
	return "Vec<" + elem + ">", nil
}

// resolveFunction returns the declared return type, or else the type of
// the last statement of the body.
func (r *resolver) resolveFunction(scope *Scope, fn *ASTNode) (string, error) {
	fnScope, ok := r.ctx.Scope(fn)
	if !ok {
		fnScope = scope
	}
	if fn.Type != nil {
		return r.resolve(fnScope, fn.Type)
	}
	if len(fn.Children) == 0 {
		return unitType.ID, nil
	}
	if r.visiting[fn] {
		return "", newCompileError(fn.Span.From,
			"The return type of the recursive function '%s' must be declared.", fn.String)
	}
	r.visiting[fn] = true
	defer delete(r.visiting, fn)
	return r.resolve(fnScope, fn.Children[len(fn.Children)-1])
}
