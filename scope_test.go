package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestRootScopeBuiltins(t *testing.T) {
	s := NewRootScope()
	for _, name := range []string{"Unit", "Boolean", "String", "Number", "Vec", "Promise", "Element"} {
		be.Equal(t, s.GetType(name), builtinNode)
		be.True(t, s.IsDefined(name))
	}
	be.True(t, !s.IsDefined("Foo"))
}

func TestScopeCategoriesAreIndependent(t *testing.T) {
	s := NewScope()
	typ := &ASTNode{Kind: NodeTypeDef, String: "x"}
	fn := &ASTNode{Kind: NodeFunc, String: "x"}
	s.AddType("x", typ)
	s.AddFunction("x", fn)

	be.Equal(t, s.GetType("x"), typ)
	be.Equal(t, s.GetFunction("x"), fn)
	be.Equal(t, s.Get(CategoryVariable, "x"), (*ASTNode)(nil))
	// Functions are searched before types.
	be.Equal(t, s.FindDefinition("x"), fn)
}

func TestScopeFindOrder(t *testing.T) {
	s := NewScope()
	variable := &ASTNode{Kind: NodeLet}
	record := &ASTNode{Kind: NodeRecord}
	enum := &ASTNode{Kind: NodeEnum}

	s.AddVariable("n", variable)
	be.Equal(t, s.FindDefinition("n"), variable)
	s.AddRecord("n", record)
	be.Equal(t, s.FindDefinition("n"), record)
	s.AddEnum("n", enum)
	be.Equal(t, s.FindDefinition("n"), enum)
}

func TestScopeCloneIsolation(t *testing.T) {
	outer := NewScope()
	outer.AddVariable("a", &ASTNode{Kind: NodeLet})

	inner := outer.Clone()
	inner.AddVariable("b", &ASTNode{Kind: NodeLet})

	be.True(t, inner.IsDefined("a"))
	be.True(t, inner.IsDefined("b"))
	be.True(t, !outer.IsDefined("b"))
}

func TestScopeDefinedLocally(t *testing.T) {
	outer := NewScope()
	outer.AddFunction("f", &ASTNode{Kind: NodeFunc})
	be.True(t, outer.DefinedLocally(CategoryFunction, "f"))

	inner := outer.Clone()
	be.True(t, !inner.DefinedLocally(CategoryFunction, "f"))
	inner.AddFunction("f", &ASTNode{Kind: NodeFunc})
	be.True(t, inner.DefinedLocally(CategoryFunction, "f"))
	be.True(t, !inner.DefinedLocally(CategoryVariable, "f"))
}

func TestScopeClearDefinitionFor(t *testing.T) {
	s := NewRootScope()
	s.AddFunction("Number", &ASTNode{Kind: NodeFunc})
	s.ClearDefinitionFor("Number")
	be.True(t, !s.IsDefined("Number"))

	// An argument can take the name over.
	arg := &ASTNode{Kind: NodeFuncArg, String: "Number"}
	s.AddVariable("Number", arg)
	be.Equal(t, s.FindDefinition("Number"), arg)
}

func TestCategoryString(t *testing.T) {
	be.Equal(t, CategoryRecord.String(), "record")
	be.Equal(t, CategoryFunction.String(), "function")
}
