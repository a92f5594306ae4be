package main

import (
	"maps"
	"slices"
	"strings"
)

// Context holds what code generation learns about a compilation unit:
// every function, module and variable under its qualified name, the types
// inferred so far, and each function's captured scope. One Context serves
// one file and is passed explicitly to every phase.
type Context struct {
	// ModulePath is the dot-joined chain of currently open modules.
	ModulePath string

	fnDefs        map[string]*ASTNode
	modDefs       map[string]*ASTNode
	varDefs       map[string]*ASTNode
	resolvedTypes map[string]InferredType
	scopes        map[*ASTNode]*Scope

	// Warnings collects non-fatal notes, such as ambiguous method calls.
	Warnings *ErrorCollection
}

func NewContext() *Context {
	return &Context{
		fnDefs:        map[string]*ASTNode{},
		modDefs:       map[string]*ASTNode{},
		varDefs:       map[string]*ASTNode{},
		resolvedTypes: map[string]InferredType{},
		scopes:        map[*ASTNode]*Scope{},
		Warnings:      NewErrorCollection(),
	}
}

// Qualify prefixes name with the open module path, dots replaced by
// underscores: inside module a.b, f becomes a_b_f.
func (c *Context) Qualify(name string) string {
	if c.ModulePath == "" {
		return name
	}
	return strings.ReplaceAll(c.ModulePath, ".", "_") + "_" + name
}

// AddFn registers a function under its qualified name.
func (c *Context) AddFn(qualified string, fn *ASTNode) error {
	return addOnce(c.fnDefs, "function", qualified, fn)
}

// AddMod registers a module under its full dotted path.
func (c *Context) AddMod(path string, mod *ASTNode) error {
	return addOnce(c.modDefs, "module", path, mod)
}

// AddVar registers a variable under its qualified name.
func (c *Context) AddVar(qualified string, v *ASTNode) error {
	return addOnce(c.varDefs, "variable", qualified, v)
}

func addOnce(registry map[string]*ASTNode, what string, name string, node *ASTNode) error {
	if prev, ok := registry[name]; ok {
		return duplicateError(what, name, node.Span.From, prev.Span.From)
	}
	registry[name] = node
	return nil
}

// AddResolvedType records the inferred type of name, replacing any
// earlier entry.
func (c *Context) AddResolvedType(name string, t InferredType) {
	c.resolvedTypes[name] = t
}

func (c *Context) Fn(qualified string) (*ASTNode, bool) {
	fn, ok := c.fnDefs[qualified]
	return fn, ok
}

func (c *Context) Mod(path string) (*ASTNode, bool) {
	mod, ok := c.modDefs[path]
	return mod, ok
}

func (c *Context) Var(qualified string) (*ASTNode, bool) {
	v, ok := c.varDefs[qualified]
	return v, ok
}

func (c *Context) ResolvedType(name string) (InferredType, bool) {
	t, ok := c.resolvedTypes[name]
	return t, ok
}

// ResolvedTypes returns a copy of the inferred type cache.
func (c *Context) ResolvedTypes() map[string]InferredType {
	return maps.Clone(c.resolvedTypes)
}

// FindFn returns the first function, in lexical order of qualified names,
// whose name starts with prefix.
func (c *Context) FindFn(prefix string) (string, *ASTNode, bool) {
	return findPrefix(c.fnDefs, prefix)
}

func (c *Context) FindMod(prefix string) (string, *ASTNode, bool) {
	return findPrefix(c.modDefs, prefix)
}

func (c *Context) FindVar(prefix string) (string, *ASTNode, bool) {
	return findPrefix(c.varDefs, prefix)
}

func findPrefix(registry map[string]*ASTNode, prefix string) (string, *ASTNode, bool) {
	for _, name := range slices.Sorted(maps.Keys(registry)) {
		if strings.HasPrefix(name, prefix) {
			return name, registry[name], true
		}
	}
	return "", nil, false
}

// HasModule reports whether dotted names a registered module or a prefix
// of one: with a.b registered, both "a" and "a.b" are modules.
func (c *Context) HasModule(dotted string) bool {
	for path := range c.modDefs {
		if path == dotted || strings.HasPrefix(path, dotted+".") {
			return true
		}
	}
	return false
}

// MethodCandidates returns, in lexical order of qualified name, every
// function named method whose first parameter accepts receiver: its
// declared type has the receiver's name or is a generic placeholder.
func (c *Context) MethodCandidates(method string, receiver InferredType) []string {
	var found []string
	for _, qualified := range slices.Sorted(maps.Keys(c.fnDefs)) {
		fn := c.fnDefs[qualified]
		if fn.String != method || len(fn.Args) == 0 {
			continue
		}
		first := fn.Args[0].Type
		if first == nil {
			continue
		}
		if first.String == receiver.ID || isGenericPlaceholder(first.String) {
			found = append(found, qualified)
		}
	}
	return found
}

// FindMethod returns the first of MethodCandidates.
func (c *Context) FindMethod(method string, receiver InferredType) (string, *ASTNode, bool) {
	candidates := c.MethodCandidates(method, receiver)
	if len(candidates) == 0 {
		return "", nil, false
	}
	return candidates[0], c.fnDefs[candidates[0]], true
}

// WithModulePath returns a copy of c for generating the body of a module.
// Registries are copied, so the parent sees nothing until Merge.
func (c *Context) WithModulePath(path string) *Context {
	return &Context{
		ModulePath:    path,
		fnDefs:        maps.Clone(c.fnDefs),
		modDefs:       maps.Clone(c.modDefs),
		varDefs:       maps.Clone(c.varDefs),
		resolvedTypes: maps.Clone(c.resolvedTypes),
		scopes:        maps.Clone(c.scopes),
		Warnings:      c.Warnings,
	}
}

// Merge copies entries of other that c does not have yet. Existing entries
// of c win.
func (c *Context) Merge(other *Context) {
	mergeMissing(c.fnDefs, other.fnDefs)
	mergeMissing(c.modDefs, other.modDefs)
	mergeMissing(c.varDefs, other.varDefs)
	mergeMissing(c.resolvedTypes, other.resolvedTypes)
	mergeMissing(c.scopes, other.scopes)
}

func mergeMissing[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// AddScope stores the scope a function body was checked in.
func (c *Context) AddScope(fn *ASTNode, scope *Scope) {
	c.scopes[fn] = scope
}

func (c *Context) Scope(fn *ASTNode) (*Scope, bool) {
	s, ok := c.scopes[fn]
	return s, ok
}
