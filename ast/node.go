// Package ast is the PHP abstract syntax tree model: statement and
// expression sum types, names with resolution state, and the type-term
// vocabulary shared with the PHPDoc grammar. It is grounded on the
// teacher's ast.Node/BaseNode idiom (kind discriminant + span + common
// accessors) generalized from the teacher's Zend-opcode-shaped AST
// (ASTOpArray, ASTZval, ASTClosure feeding a compiler) to the closed,
// evaluation-free node set spec.md names: statements carry no bytecode,
// expressions carry no constant-folding state, and there is no
// ASTZNode/op-array bridge to a VM.
package ast

import "github.com/vellumlang/phpfront/bytestring"

// NodeID is a monotonically assigned identifier, unique and stable within
// a single parse. 0 is reserved for missing/unknown nodes. Node ids are
// NOT stable across reparses; they exist purely so a downstream pass
// (the inference engine, a language server) can key a side table without
// holding pointers into the AST.
type NodeID uint64

// NodeIDAllocator hands out increasing NodeIDs for one parse.
type NodeIDAllocator struct {
	next NodeID
}

// NewNodeIDAllocator creates an allocator whose first id is 1.
func NewNodeIDAllocator() *NodeIDAllocator {
	return &NodeIDAllocator{next: 1}
}

// Next returns the next unused NodeID.
func (a *NodeIDAllocator) Next() NodeID {
	id := a.next
	a.next++
	return id
}

// Comment is one line or block comment captured as leading trivia.
type Comment struct {
	Span bytestring.Span
	Text string
	Doc  bool // true for /** ... */ doc comments
}

// Node is implemented by every statement and expression. Every node
// carries a unique id, its source span, and any doc/line comments
// collected as preceding trivia (possibly empty).
type Node interface {
	NodeID() NodeID
	NodeSpan() bytestring.Span
	LeadingComments() []Comment
}

// Base is embedded by every concrete statement/expression to provide the
// three common attributes without repeating accessor methods everywhere.
type Base struct {
	ID       NodeID
	Span     bytestring.Span
	Comments []Comment
}

func (b Base) NodeID() NodeID               { return b.ID }
func (b Base) NodeSpan() bytestring.Span    { return b.Span }
func (b Base) LeadingComments() []Comment    { return b.Comments }

// NewBase builds the common attributes shared by every node, with no
// comments; attach leading trivia afterward via AttachComments.
func NewBase(id NodeID, span bytestring.Span) Base {
	return Base{ID: id, Span: span}
}

// AttachComments returns a copy of b with the given leading comments set.
func (b Base) AttachComments(comments []Comment) Base {
	b.Comments = comments
	return b
}

// Statement is implemented by every statement node kind in §3.3.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by every expression node kind in §3.3.
type Expression interface {
	Node
	exprNode()
}
