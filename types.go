package main

import (
	"slices"
	"strings"
)

// InferredType is the nominal type the compiler tracks for values: a name
// plus generic arguments, each already rendered to a string.
type InferredType struct {
	ID       string
	Generics []string
}

var unitType = InferredType{ID: "Unit"}

// Types the resolver hands out for expressions it does not look into.
const (
	typeJS           = "JS"
	typeMemberAccess = "MemberAccess"
	typeIf           = "If"
	typeRecord       = "Record"
)

// isOpaqueType reports whether t carries no checkable information.
func isOpaqueType(t string) bool {
	switch t {
	case typeJS, typeMemberAccess, typeIf, typeRecord:
		return true
	}
	return false
}

func (t InferredType) String() string {
	if len(t.Generics) == 0 {
		return t.ID
	}
	return t.ID + "<" + strings.Join(t.Generics, ",") + ">"
}

func (t InferredType) Equal(other InferredType) bool {
	return t.ID == other.ID && slices.Equal(t.Generics, other.Generics)
}

// ParseInferredType turns a rendered type such as "Vec<Promise<String>>"
// back into its name and top-level generic arguments.
func ParseInferredType(s string) InferredType {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		return InferredType{ID: s}
	}
	t := InferredType{ID: s[:open]}
	inner := s[open+1 : len(s)-1]
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				t.Generics = append(t.Generics, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(inner[start:]); rest != "" {
		t.Generics = append(t.Generics, rest)
	}
	return t
}

// typeFromAST converts a declared type annotation. A missing annotation is
// Unit.
func typeFromAST(node *ASTNode) InferredType {
	if node == nil {
		return unitType
	}
	t := InferredType{ID: node.String}
	for _, g := range node.Generics {
		t.Generics = append(t.Generics, typeFromAST(g).String())
	}
	return t
}

// isGenericPlaceholder reports whether a type name stands for a generic
// parameter, which by convention starts with a lowercase letter.
func isGenericPlaceholder(name string) bool {
	return name != "" && isLower(name[0])
}
