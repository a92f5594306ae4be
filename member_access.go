package main

import "strings"

// ChainSegment is one link of a flattened member chain. Path holds the
// identifiers seen on the object side up to this link; Text is the link
// rendered on its own.
type ChainSegment struct {
	Path []string
	Node *ASTNode
	Text string
	// dotted is Path plus the link itself for identifiers, dot-joined.
	dotted string
}

// SegmentType is the type resolved for a ChainSegment and the key it was
// looked up under. Type is nil when nothing is known.
type SegmentType struct {
	Key  string
	Type *InferredType
}

// LoweredChain is the output of lowering a member chain. A chain ending
// in a call is left open: Text lacks the call's closing parenthesis.
type LoweredChain struct {
	Text string
	Open bool
	Type *InferredType
}

// Complete returns the text with the outermost call closed.
func (lc *LoweredChain) Complete() string {
	if lc.Open {
		return lc.Text + ")"
	}
	return lc.Text
}

// LowerMemberAccess rewrites a member chain into plain calls. Module
// prefixes fold into qualified names and method calls take their receiver
// as first argument:
//
//	m.id(5)      m_id(5)
//	xs.push(1)   push(xs, 1)
//	load().await (await load())
func (g *Generator) LowerMemberAccess(node *ASTNode) (*LoweredChain, error) {
	segments, err := g.FlattenChain(node)
	if err != nil {
		return nil, err
	}
	types, err := g.resolveSegmentTypes(segments)
	if err != nil {
		return nil, err
	}
	return g.renderChain(node, segments, types)
}

// FlattenChain lists the links of a chain from the outermost object to
// the innermost property. Both a.(b.c) and (a.b).c nestings list the same
// links.
func (g *Generator) FlattenChain(node *ASTNode) ([]ChainSegment, error) {
	segments, _, err := g.flatten(node, nil)
	return segments, err
}

func (g *Generator) flatten(node *ASTNode, path []string) ([]ChainSegment, []string, error) {
	if node.Kind == NodeMember {
		objSegments, objPath, err := g.flatten(node.Children[0], path)
		if err != nil {
			return nil, nil, err
		}
		propSegments, endPath, err := g.flattenProperty(node.Children[1], objPath)
		if err != nil {
			return nil, nil, err
		}
		return append(objSegments, propSegments...), endPath, nil
	}
	// A link on the object side.
	if node.Kind == NodeIdent && node.String != "await" {
		path = append(slicesClone(path), node.String)
		seg := ChainSegment{Path: path, Node: node, Text: node.String, dotted: strings.Join(path, ".")}
		return []ChainSegment{seg}, path, nil
	}
	seg, err := g.leafSegment(node, path)
	if err != nil {
		return nil, nil, err
	}
	return []ChainSegment{seg}, path, nil
}

// flattenProperty handles the property side, where a plain identifier
// ends the chain and does not extend the path.
func (g *Generator) flattenProperty(node *ASTNode, path []string) ([]ChainSegment, []string, error) {
	if node.Kind == NodeMember {
		return g.flatten(node, path)
	}
	seg, err := g.leafSegment(node, path)
	if err != nil {
		return nil, nil, err
	}
	return []ChainSegment{seg}, path, nil
}

func (g *Generator) leafSegment(node *ASTNode, path []string) (ChainSegment, error) {
	seg := ChainSegment{Path: slicesClone(path), Node: node}
	switch node.Kind {
	case NodeIdent:
		seg.Text = node.String
		seg.dotted = strings.Join(append(slicesClone(path), node.String), ".")
	case NodeCall:
		// Rendered with the callee as written; the target is chosen later.
		args, err := g.generateArgs(node.Args)
		if err != nil {
			return seg, err
		}
		seg.Text = node.CalleeName() + "(" + args + ")"
	default:
		text, err := g.GenerateExpression(node)
		if err != nil {
			return seg, err
		}
		seg.Text = text
	}
	return seg, nil
}

func slicesClone(s []string) []string {
	return append([]string(nil), s...)
}

// segmentName is the name a link contributes to its lookup key: the
// callee of a call, "await", or nothing.
func segmentName(seg ChainSegment) string {
	switch seg.Node.Kind {
	case NodeCall:
		return seg.Node.CalleeName()
	case NodeIdent:
		if seg.Node.String == "await" {
			return "await"
		}
	}
	return ""
}

func segmentKey(seg ChainSegment) string {
	key := strings.Join(seg.Path, "_")
	name := segmentName(seg)
	switch {
	case name == "":
		return key
	case key == "":
		return name
	default:
		return key + "_" + name
	}
}

// resolveSegmentTypes types every link. The first rule that applies wins:
// await unwraps a Promise, a registered function gives its return type,
// then the type cache under the key and under the bare name, then a
// method taking the previous link's type.
func (g *Generator) resolveSegmentTypes(segments []ChainSegment) ([]SegmentType, error) {
	types := make([]SegmentType, len(segments))
	for i, seg := range segments {
		var prev *InferredType
		if i > 0 {
			prev = types[i-1].Type
		}
		key := segmentKey(seg)
		name := segmentName(seg)
		types[i].Key = key

		if name == "await" {
			if prev != nil && prev.ID == "Promise" && len(prev.Generics) > 0 {
				t := ParseInferredType(prev.Generics[0])
				types[i].Type = &t
			}
			continue
		}
		if fn, ok := g.ctx.Fn(key); ok {
			t := g.fnReturnType(key, fn)
			types[i].Type = &t
			continue
		}
		if t, ok := g.ctx.ResolvedType(key); ok {
			types[i].Type = &t
			continue
		}
		if name != "" {
			if t, ok := g.ctx.ResolvedType(name); ok {
				types[i].Type = &t
				continue
			}
		}
		if seg.Node.Kind != NodeIdent && seg.Node.Kind != NodeCall {
			resolved, err := Resolve(g.ctx, g.scope, seg.Node)
			if err != nil {
				return nil, err
			}
			t := ParseInferredType(resolved)
			types[i].Type = &t
			continue
		}
		if prev != nil && name != "" {
			if qualified, fn, ok := g.ctx.FindMethod(name, *prev); ok {
				t := g.fnReturnType(qualified, fn)
				types[i].Type = &t
			}
		}
	}
	return types, nil
}

// fnReturnType is the declared return type of fn, else what was inferred
// when it was generated, else Unit.
func (g *Generator) fnReturnType(qualified string, fn *ASTNode) InferredType {
	if fn.Type != nil {
		return typeFromAST(fn.Type)
	}
	if t, ok := g.ctx.ResolvedType(qualified); ok {
		return t
	}
	return unitType
}

func (g *Generator) renderChain(node *ASTNode, segments []ChainSegment, types []SegmentType) (*LoweredChain, error) {
	out := ""
	open := false
	closePending := func() {
		if open {
			out += ")"
			open = false
		}
	}

	for i, seg := range segments {
		var prev *InferredType
		if i > 0 {
			prev = types[i-1].Type
		}
		switch seg.Node.Kind {
		case NodeIdent:
			name := seg.Node.String
			switch {
			case name == "await":
				closePending()
				out = "(await " + out + ")"
			case g.isModulePath(seg.dotted):
				// Folded into the qualified name of what follows.
			case i == 0:
				out = name
			case types[i].Type != nil:
				closePending()
				if out == "" {
					out = name
				} else {
					out += "_" + name
				}
			}
		case NodeCall:
			callee := seg.Node.CalleeName()
			target := callee
			if prev != nil {
				candidates := g.ctx.MethodCandidates(callee, *prev)
				if len(candidates) > 0 {
					target = candidates[0]
				}
				if len(candidates) > 1 {
					g.ctx.Warnings.Add(newCompileError(seg.Node.Span.From,
						"The call '%s' matches several functions taking a '%s' (%s); using '%s'.",
						callee, prev, strings.Join(candidates, ", "), target))
				}
			}
			target = g.qualifyCallTarget(seg.Path, target)
			args := strings.TrimSuffix(strings.TrimPrefix(seg.Text, callee+"("), ")")
			if i > 0 && prev != nil {
				closePending()
				if args == "" {
					args = out
				} else {
					args = out + ", " + args
				}
			}
			out = target + "(" + args
			open = true
		default:
			if i > 0 {
				return nil, newCompileError(seg.Node.Span.From, "Unsupported expression in a member access chain.")
			}
			out = seg.Text
		}
	}

	if out == "" {
		return nil, newCompileError(node.Span.From, "Unable to generate code for this member access.")
	}
	return &LoweredChain{Text: out, Open: open, Type: types[len(types)-1].Type}, nil
}

// qualifyCallTarget prefers a function registered under the chain's path,
// then under the target's own name with dots turned into underscores.
func (g *Generator) qualifyCallTarget(path []string, target string) string {
	var candidates []string
	if len(path) > 0 {
		prefixed := strings.Join(path, "_") + "_" + target
		candidates = append(candidates, prefixed, g.ctx.Qualify(prefixed))
	}
	flat := strings.ReplaceAll(target, ".", "_")
	candidates = append(candidates, g.ctx.Qualify(flat), flat)
	for _, name := range candidates {
		if _, ok := g.ctx.Fn(name); ok {
			return name
		}
	}
	return target
}

// isModulePath reports whether dotted names a module, either from the top
// level or relative to the module being generated.
func (g *Generator) isModulePath(dotted string) bool {
	if dotted == "" {
		return false
	}
	if g.ctx.HasModule(dotted) {
		return true
	}
	return g.ctx.ModulePath != "" && g.ctx.HasModule(g.ctx.ModulePath+"."+dotted)
}
