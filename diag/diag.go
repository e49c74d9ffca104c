// Package diag is the diagnostic channel shared by the lexer, parser, and
// type grammar. It is grounded on the teacher's errors.Error/ErrorList
// (tagged message + position, String()/Error() methods) generalized from
// a single lexer.Position to a full bytestring.Span and from a closed
// three-value ErrorType to the complete lexer/parser taxonomy in spec §7.
package diag

import (
	"fmt"

	"github.com/vellumlang/phpfront/bytestring"
)

// Severity distinguishes a recoverable parser warning from an error.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind enumerates every lexer (fatal) and parser (recoverable) diagnostic
// named in spec §7.
type Kind int

const (
	// Lexer, fatal per file.
	UnexpectedEndOfFile Kind = iota
	UnexpectedCharacter
	UnrecognisedToken
	InvalidUnicodeEscape
	InvalidOctalEscape
	InvalidHaltCompiler

	// Parser, recoverable.
	UnexpectedToken
	ExpectedToken
	ExpectedTokenExFound
	UnexpectedEndOfFileExpected
	MissingType
	InvalidSpreadOperator
	InvalidTargetForAttributes
	CannotMixKeyedAndUnkeyedListEntries
	AbstractMethodInNonAbstractClass
	CannotHaveMultipleDefaultArmsInMatch
	StandaloneTypeUsedInNullableType
	StandaloneTypeUsedInUnionType
	StandaloneTypeUsedInIntersectionType
	NestedDisjunctiveNormalFormType
	InvalidBackedEnumType
	UnitEnumsCannotHaveCaseValues
	BackedEnumCaseMustHaveValue
	CannotUseReservedKeyword
	InvalidClassModifier
	InvalidMethodModifier
	InvalidPropertyModifier
	InvalidConstantModifier
	CannotUseFinalWithAbstract
	CannotUseFinalWithPrivateOnConstant
	DuplicateModifier
	MultipleVisibilityModifiers
	CannotMixBracketedAndUnbracketedNamespaceDeclarations
	NestedNamespace
	PromotedPropertyCannotBeVariadic
	ForbiddenTypeUsedInProperty
	ReadonlyPropertyMustHaveType
	CannotUsePositionalArgumentAfterNamedArgument
	PositionalArgumentsOnly
	OnlyAllowedOneArgument
	ArgumentRequired
	StaticPropertyCannotBeReadonly
	ReadonlyPropertyCannotHaveDefaultValue
	TryMustHaveCatchOrFinally
	DynamicVariableNotAllowed
	MixedImportTypes
	InvalidDocBodyIndentationLevel
	InvalidDocIndentation
)

// Diagnostic is one emitted problem. It never aborts parsing; it is
// accumulated on a per-parse list and returned alongside a best-effort AST.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Span     bytestring.Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%d:%d)", d.Severity, d.Message, d.Span.Start, d.Span.End)
}

func (d Diagnostic) Error() string {
	return d.String()
}

// New builds a Diagnostic with the given kind, severity, span, and a
// printf-style message.
func New(kind Kind, sev Severity, span bytestring.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: kind, Severity: sev, Span: span, Message: fmt.Sprintf(format, args...)}
}

// List accumulates diagnostics for a single lex or parse.
type List []Diagnostic

// Add appends one diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Addf builds and appends a diagnostic in one call.
func (l *List) Addf(kind Kind, sev Severity, span bytestring.Span, format string, args ...interface{}) {
	l.Add(New(kind, sev, span, format, args...))
}

// HasErrors reports whether any diagnostic in the list has Severity == Error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
