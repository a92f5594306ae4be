package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// generatorFor checks and generates setup, returning a generator that has
// seen all of its definitions.
func generatorFor(t *testing.T, setup string) *Generator {
	t.Helper()
	ctx, _, program := checkSource(t, setup)
	g := NewGenerator(ctx)
	_, err := g.GenerateProgram(program)
	be.Err(t, err, nil)
	return g
}

func lower(t *testing.T, g *Generator, expr string) *LoweredChain {
	t.Helper()
	node, l := parseExpr(expr)
	be.Equal(t, l.Errors.String(), "")
	be.Equal(t, node.Kind, NodeMember)
	lowered, err := g.LowerMemberAccess(node)
	be.Err(t, err, nil)
	return lowered
}

func TestFlattenChain(t *testing.T) {
	g := NewGenerator(NewContext())
	tests := []struct {
		input   string
		members int
	}{
		{"a.b", 1},
		{"a.b.c(1).d", 3},
		{"f(x, y).g().await", 2},
		{`"s".len()`, 1},
	}

	for _, test := range tests {
		node, _ := parseExpr(test.input)
		segments, err := g.FlattenChain(node)
		be.Err(t, err, nil)
		be.Equal(t, len(segments), test.members+1)

		var texts []string
		for _, seg := range segments {
			texts = append(texts, seg.Text)
		}
		// Generated text of literals differs from the source.
		if test.input[0] != '"' {
			be.Equal(t, strings.Join(texts, "."), test.input)
		}
	}
}

func TestFlattenChainPaths(t *testing.T) {
	g := NewGenerator(NewContext())
	node, _ := parseExpr("a.b.c(1).d")
	segments, err := g.FlattenChain(node)
	be.Err(t, err, nil)

	be.Equal(t, segments[0].Path, []string{"a"})
	be.Equal(t, segments[1].Path, []string{"a", "b"})
	be.Equal(t, segments[2].Path, []string{"a", "b"})
	be.Equal(t, segments[3].Path, []string{"a", "b"})

	be.Equal(t, segmentKey(segments[0]), "a")
	be.Equal(t, segmentKey(segments[1]), "a_b")
	be.Equal(t, segmentKey(segments[2]), "a_b_c")
	be.Equal(t, segmentKey(segments[3]), "a_b")
}

func TestFlattenLeftNestedChain(t *testing.T) {
	a := &ASTNode{Kind: NodeIdent, String: "a"}
	b := &ASTNode{Kind: NodeIdent, String: "b"}
	c := &ASTNode{Kind: NodeIdent, String: "c"}
	inner := &ASTNode{Kind: NodeMember, Children: []*ASTNode{a, b}}
	outer := &ASTNode{Kind: NodeMember, Children: []*ASTNode{inner, c}}

	segments, err := NewGenerator(NewContext()).FlattenChain(outer)
	be.Err(t, err, nil)
	be.Equal(t, len(segments), 3)
	be.Equal(t, segments[2].Text, "c")
}

func TestSegmentKeyWithoutPath(t *testing.T) {
	g := NewGenerator(NewContext())
	node, _ := parseExpr("load().await")
	segments, err := g.FlattenChain(node)
	be.Err(t, err, nil)
	be.Equal(t, segmentKey(segments[0]), "load")
	be.Equal(t, segmentKey(segments[1]), "await")
}

func TestLowerMethodCall(t *testing.T) {
	g := generatorFor(t, `
fn f(s: String, a: Number, b: Number) :: String { return s }
let x = "hi"
let a = 1
let b = 2
`)
	lowered := lower(t, g, "x.f(a, b)")
	be.Equal(t, lowered.Text, "f(x, a, b")
	be.True(t, lowered.Open)
	be.Equal(t, lowered.Complete(), "f(x, a, b)")
	be.Equal(t, lowered.Type.String(), "String")
}

func TestLowerAwait(t *testing.T) {
	g := generatorFor(t, "fn g() :: Promise<String> { return `fetch()` }")
	lowered := lower(t, g, "g().await")
	be.Equal(t, lowered.Text, "(await g())")
	be.True(t, !lowered.Open)
	be.Equal(t, lowered.Complete(), "(await g())")
	be.Equal(t, lowered.Type.String(), "String")
}

func TestLowerAwaitOfNonPromise(t *testing.T) {
	g := generatorFor(t, "fn g() :: String { return \"\" }")
	lowered := lower(t, g, "g().await")
	be.Equal(t, lowered.Text, "(await g())")
	be.Equal(t, lowered.Type, (*InferredType)(nil))
}

func TestLowerModuleCall(t *testing.T) {
	g := generatorFor(t, "mod m { fn id(x: Number) :: Number { return x } }")
	lowered := lower(t, g, "m.id(5)")
	be.Equal(t, lowered.Text, "m_id(5")
	be.Equal(t, lowered.Complete(), "m_id(5)")
	be.Equal(t, lowered.Type.String(), "Number")

	cached, ok := g.ctx.ResolvedType("m_id")
	be.True(t, ok)
	be.Equal(t, cached.String(), "Number")
}

func TestLowerChainedMethods(t *testing.T) {
	g := generatorFor(t, `
fn trim(s: String) :: String { return s }
fn size(s: String) :: Number { return 1 }
let name = " x "
`)
	lowered := lower(t, g, "name.trim().size()")
	be.Equal(t, lowered.Complete(), "size(trim(name))")
	be.Equal(t, lowered.Type.String(), "Number")
}

func TestLowerLiteralReceiver(t *testing.T) {
	g := generatorFor(t, "fn size(s: String) :: Number { return 1 }")
	lowered := lower(t, g, `"abc".size()`)
	be.Equal(t, lowered.Complete(), "size(`abc`)")
	be.Equal(t, lowered.Type.String(), "Number")
}

func TestLowerUntypedReceiverIsDropped(t *testing.T) {
	g := NewGenerator(NewContext())
	lowered := lower(t, g, "foo.bar(1)")
	be.Equal(t, lowered.Complete(), "bar(1)")
	be.Equal(t, lowered.Type, (*InferredType)(nil))
}

func TestLowerFirstSegmentCall(t *testing.T) {
	g := generatorFor(t, `
fn load(n: Number) :: String { return "x" }
fn size(s: String) :: Number { return 1 }
`)
	lowered := lower(t, g, "load(1).size()")
	be.Equal(t, lowered.Complete(), "size(load(1))")
}

func TestLowerFieldJoin(t *testing.T) {
	g := generatorFor(t, "let xs = [1, 2]")
	lowered := lower(t, g, "xs.length")
	be.Equal(t, lowered.Complete(), "xs_length")
	be.True(t, !lowered.Open)
	be.Equal(t, lowered.Type.String(), "Vec<Number>")
}

func TestLowerAmbiguousMethodWarns(t *testing.T) {
	g := generatorFor(t, `
mod b { fn len(s: String) :: Number { return 2 } }
mod a { fn len(s: String) :: Number { return 1 } }
let s = "x"
`)
	lowered := lower(t, g, "s.len()")
	be.Equal(t, lowered.Complete(), "a_len(s)")

	warnings := g.ctx.Warnings.Errors()
	be.Equal(t, len(warnings), 1)
	be.Equal(t, warnings[0].Message, "The call 'len' matches several functions taking a 'String' (a_len, b_len); using 'a_len'.")
}

func TestLowerInsideModule(t *testing.T) {
	g := generatorFor(t, `
mod outer {
  mod inner { fn f() :: Number { return 1 } }
  fn g() :: Number { return inner.f() }
}
`)
	fn, ok := g.ctx.Fn("outer_g")
	be.True(t, ok)
	be.Equal(t, fn.String, "g")

	out, err := Generate(g.ctx, mustParse(t, "let n = outer.inner.f()"))
	be.Err(t, err, nil)
	be.Equal(t, out, "let n = outer_inner_f()")
}

func TestLowerUnsupportedSegment(t *testing.T) {
	node := &ASTNode{Kind: NodeMember, Children: []*ASTNode{
		{Kind: NodeIdent, String: "a"},
		{Kind: NodeNumber, String: "1", Number: 1},
	}}
	_, err := NewGenerator(NewContext()).LowerMemberAccess(node)
	be.Err(t, err, "Unsupported expression in a member access chain.")
}

func TestLowerEmptyOutput(t *testing.T) {
	ctx := NewContext()
	be.Err(t, ctx.AddMod("m", &ASTNode{Kind: NodeModule}), nil)
	node, _ := parseExpr("m.x")
	_, err := NewGenerator(ctx).LowerMemberAccess(node)
	be.Err(t, err, "Unable to generate code for this member access.")
}

func mustParse(t *testing.T, src string) *ASTNode {
	t.Helper()
	l := NewLexer([]byte(src))
	l.NextToken()
	program := ParseProgram(l)
	be.Equal(t, l.Errors.String(), "")
	return program
}
