package main

import (
	"strconv"
	"strings"
)

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	NodeProgram    NodeKind = "NodeProgram"
	NodeIdent      NodeKind = "NodeIdent"
	NodeNumber     NodeKind = "NodeNumber"
	NodeString     NodeKind = "NodeString"
	NodeBoolean    NodeKind = "NodeBoolean"
	NodeJS         NodeKind = "NodeJS"
	NodeBinary     NodeKind = "NodeBinary"
	NodeCall       NodeKind = "NodeCall"
	NodeMember     NodeKind = "NodeMember"
	NodeArray      NodeKind = "NodeArray"
	NodeRecordInit NodeKind = "NodeRecordInit"
	NodeRecordProp NodeKind = "NodeRecordProp"
	NodeIf         NodeKind = "NodeIf"
	NodeLet        NodeKind = "NodeLet"
	NodeReturn     NodeKind = "NodeReturn"
	NodeFunc       NodeKind = "NodeFunc"
	NodeFuncArg    NodeKind = "NodeFuncArg"
	NodeModule     NodeKind = "NodeModule"
	NodeTypeDef    NodeKind = "NodeTypeDef"
	NodeEnum       NodeKind = "NodeEnum"
	NodeRecord     NodeKind = "NodeRecord"
	NodeField      NodeKind = "NodeField"
	NodeJSX        NodeKind = "NodeJSX"
	NodeJSXAttr    NodeKind = "NodeJSXAttr"
	NodeJSXText    NodeKind = "NodeJSXText"
	NodeBuiltin    NodeKind = "NodeBuiltin"
)

// Span is a half-open byte range of the source.
type Span struct {
	From int
	To   int
}

// ASTNode represents a node in the Abstract Syntax Tree
type ASTNode struct {
	Kind NodeKind
	// NodeIdent, NodeString, NodeJS, NodeJSXText: text.
	// NodeNumber: raw literal. NodeLet, NodeFunc, NodeFuncArg, NodeTypeDef,
	// NodeEnum, NodeRecord, NodeField, NodeRecordProp, NodeJSXAttr: name.
	// NodeModule: dotted path. NodeJSX: tag.
	String string
	// NodeNumber:
	Number float64
	// NodeBoolean:
	Boolean bool
	// NodeBinary:
	Op       string
	Children []*ASTNode
	// NodeIdent: generic arguments. NodeTypeDef, NodeEnum: generic parameters.
	Generics []*ASTNode
	// NodeCall: call arguments. NodeFunc: NodeFuncArg parameters.
	Args []*ASTNode
	// NodeFunc: declared return type. NodeFuncArg, NodeField: declared type.
	// nil when omitted.
	Type *ASTNode
	// NodeFunc:
	Anonymous bool
	// NodeRecordProp:
	Spread bool
	// NodeJSX:
	Attrs       []*ASTNode
	SelfClosing bool

	Span Span
}

// builtinNode is what the built-in type names are bound to in a root scope.
var builtinNode = &ASTNode{Kind: NodeBuiltin}

// CalleeName returns the name a NodeCall invokes.
func (n *ASTNode) CalleeName() string {
	return n.Children[0].String
}

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node *ASTNode) string {
	switch node.Kind {
	case NodeProgram:
		return "(program" + sexprList(node.Children) + ")"
	case NodeIdent:
		return "(ident " + strconv.Quote(node.String) + sexprList(node.Generics) + ")"
	case NodeNumber:
		return "(number " + node.String + ")"
	case NodeString:
		return "(string " + strconv.Quote(node.String) + ")"
	case NodeBoolean:
		return "(boolean " + strconv.FormatBool(node.Boolean) + ")"
	case NodeJS:
		return "(js " + strconv.Quote(node.String) + ")"
	case NodeBinary:
		left := ToSExpr(node.Children[0])
		right := ToSExpr(node.Children[1])
		return "(binary " + strconv.Quote(node.Op) + " " + left + " " + right + ")"
	case NodeCall:
		return "(call " + ToSExpr(node.Children[0]) + sexprList(node.Args) + ")"
	case NodeMember:
		return "(member " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeArray:
		return "(array" + sexprList(node.Children) + ")"
	case NodeRecordInit:
		return "(record-init" + sexprList(node.Children) + ")"
	case NodeRecordProp:
		if node.Spread {
			return "(spread " + strconv.Quote(node.String) + ")"
		}
		return "(prop " + strconv.Quote(node.String) + sexprList(node.Children) + ")"
	case NodeIf:
		return "(if" + sexprList(node.Children) + ")"
	case NodeLet:
		return "(let " + strconv.Quote(node.String) + " " + ToSExpr(node.Children[0]) + ")"
	case NodeReturn:
		return "(return " + ToSExpr(node.Children[0]) + ")"
	case NodeFunc:
		head := "(fn "
		if node.Anonymous {
			head = "(fn-anon "
		}
		result := head + strconv.Quote(node.String) + " (args" + sexprList(node.Args) + ")"
		if node.Type != nil {
			result += " (returns " + ToSExpr(node.Type) + ")"
		}
		return result + " (block" + sexprList(node.Children) + "))"
	case NodeFuncArg, NodeField:
		tag := "(arg "
		if node.Kind == NodeField {
			tag = "(field "
		}
		result := tag + strconv.Quote(node.String)
		if node.Type != nil {
			result += " " + ToSExpr(node.Type)
		}
		return result + ")"
	case NodeModule:
		return "(mod " + strconv.Quote(node.String) + sexprList(node.Children) + ")"
	case NodeTypeDef, NodeEnum:
		tag := "(type "
		if node.Kind == NodeEnum {
			tag = "(enum "
		}
		result := tag + strconv.Quote(node.String)
		if len(node.Generics) > 0 {
			result += " (generics" + sexprList(node.Generics) + ")"
		}
		return result + sexprList(node.Children) + ")"
	case NodeRecord:
		return "(record " + strconv.Quote(node.String) + sexprList(node.Children) + ")"
	case NodeJSX:
		return "(jsx " + strconv.Quote(node.String) + sexprList(node.Attrs) + sexprList(node.Children) + ")"
	case NodeJSXAttr:
		return "(attr " + strconv.Quote(node.String) + " " + ToSExpr(node.Children[0]) + ")"
	case NodeJSXText:
		return "(text " + strconv.Quote(node.String) + ")"
	case NodeBuiltin:
		return "(builtin)"
	default:
		return ""
	}
}

// sexprList renders nodes with a leading space before each one.
func sexprList(nodes []*ASTNode) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(" ")
		sb.WriteString(ToSExpr(n))
	}
	return sb.String()
}
