package parser

import (
	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
)

// baseAt builds the common Base fields for a freshly constructed node.
func baseAt(id ast.NodeID, span bytestring.Span) ast.Base {
	return ast.NewBase(id, span)
}

// spanOf joins two nodes' spans into their convex hull (§3.4).
func spanOf(a, b ast.Node) bytestring.Span {
	return a.NodeSpan().Join(b.NodeSpan())
}
