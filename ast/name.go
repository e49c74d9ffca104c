package ast

import "github.com/vellumlang/phpfront/bytestring"

// NameQualification classifies how a name was written, before resolution.
type NameQualification int

const (
	Unqualified NameQualification = iota // Foo
	Qualified                            // Foo\Bar
	FullyQualified                       // \Foo\Bar
	RelativeToNamespace                  // namespace\Foo
)

// SpecialName enumerates the PHP pseudo-names that never go through
// namespace resolution.
type SpecialName int

const (
	NotSpecial SpecialName = iota
	SelfName
	ParentName
	StaticName
)

// Name has three states: as-written-and-unresolved, resolved against a
// namespace/use-import scope, or one of the self/parent/static
// pseudo-names. Resolution may be performed by the parser (when a use
// import or namespace is already known) or deferred to a later pass; the
// indexer records whichever form it is handed and defers cross-class
// checks to inference (see design notes on name-resolution cycles).
type Name struct {
	Base

	Special SpecialName // NotSpecial unless this is self/parent/static

	// As-written form, always populated unless Special != NotSpecial.
	Text          string
	Qualification NameQualification

	// Resolved fully-qualified form, in canonical no-leading-separator
	// form, populated once resolution has run. Empty until then.
	Resolved string
}

func (n *Name) exprNode() {}

// IsResolved reports whether Resolved has been populated.
func (n *Name) IsResolved() bool {
	return n.Special == NotSpecial && n.Resolved != ""
}

// NewUnresolvedName builds a Name in the unresolved state.
func NewUnresolvedName(id NodeID, span bytestring.Span, text string, qual NameQualification) *Name {
	return &Name{Base: Base{ID: id, Span: span}, Text: text, Qualification: qual}
}

// NewSpecialName builds a self/parent/static pseudo-name.
func NewSpecialName(id NodeID, span bytestring.Span, special SpecialName) *Name {
	return &Name{Base: Base{ID: id, Span: span}, Special: special}
}

// Resolve sets the canonical fully-qualified form on an unresolved name.
func (n *Name) Resolve(fqn string) {
	n.Resolved = fqn
}
