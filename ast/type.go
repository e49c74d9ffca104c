package ast

// TypeKind discriminates the Type sum type shared by the signature and
// PHPDoc type grammars (§3.3, §4.2.3). Grounded on the teacher's
// ASTKind-as-closed-enum idiom, but this vocabulary is PHP's *type*
// grammar, not PHP's statement/expression grammar, so it is its own enum
// rather than reusing ast.Kind.
type TypeKind int

const (
	TMissing TypeKind = iota // parse-failure sentinel

	// Built-in scalar / pseudo types.
	TMixed
	TVoid
	TNever
	TNull
	TTrue
	TFalse
	TBool
	TInt
	TFloat
	TString
	TArray
	TObject
	TCallable
	TIterable
	TSelf
	TStatic
	TParent

	TNamed          // a user-defined class/interface/enum name
	TNullable       // ?T
	TUnion          // A|B|...
	TIntersection   // A&B&...
	TGeneric        // Base<Args...>
	TTypedArray     // array<K, V> / K[] style
	TShape          // array{k: T, k?: T, ...}
	TCallableSig    // callable(P1, P2): R
	TConditional    // subject is target ? then : else
	TConditionalParam // $param is target ? then : else
	TConstExpr      // 42, -7, "x", Self::FOO, X::*
	TLiteralString  // docblock literal string refinement

	// Docblock-only literal/structural refinements.
	TArrayKey
	TClassString
	TNumericString
	TNonEmptyString
	TNonFalsyString
	TNonEmptyArray
	TValueOf
	TPositiveInt
	TNegativeInt
	TTraitString
	TInterfaceString
	TEnumString
	TCallableString
)

// Type is the tagged union described in spec §3.3. Exactly one group of
// fields is meaningful for a given Kind; see the constructors below for
// the conventional shape of each variant.
type Type struct {
	Kind TypeKind

	Name string // TNamed, TGeneric base, TClassString target, ...

	Inner []Type // TNullable(Inner[0]), TUnion/TIntersection members, TGeneric args

	Key   *Type // TTypedArray key
	Value *Type // TTypedArray value, TValueOf target

	Shape       []ShapeItem // TShape
	ShapeSealed bool
	ShapeUnsealedValue *Type // non-nil when an open shape declares "...<T>"

	CallableParams []Type // TCallableSig
	CallableReturn *Type  // TCallableSig

	// TConditional / TConditionalParam.
	CondParamName string // set for TConditionalParam instead of CondSubject
	CondSubject   *Type
	CondTarget    *Type
	CondThen      *Type
	CondElse      *Type
	CondNegated   bool

	ConstExpr ConstExprKind
	ConstText string // raw literal text (numeric text, string contents, Self::FOO, ...)
}

// ShapeItem is one member of a TShape type.
type ShapeItem struct {
	Key      string
	Optional bool
	Value    Type
}

// ConstExprKind discriminates the leaves of TConstExpr.
type ConstExprKind int

const (
	ConstInteger ConstExprKind = iota
	ConstFloat
	ConstStringLit
	ConstNegative
	ConstFetch // Self::FOO or X::*
)

// Named is a convenience constructor for a named class/interface/enum type.
func Named(name string) Type { return Type{Kind: TNamed, Name: name} }

// Nullable wraps inner in a TNullable.
func Nullable(inner Type) Type { return Type{Kind: TNullable, Inner: []Type{inner}} }

// Union builds a TUnion of members.
func Union(members ...Type) Type { return Type{Kind: TUnion, Inner: members} }

// Intersection builds a TIntersection of members.
func Intersection(members ...Type) Type { return Type{Kind: TIntersection, Inner: members} }

// Missing is the parse-failure sentinel type.
func Missing() Type { return Type{Kind: TMissing} }

// IsStandalone reports whether t is one of the types the type grammar
// forbids from appearing inside a nullable/union/intersection
// combination (§4.2.3: "mixed, never, void, and any nullable").
func (t Type) IsStandalone() bool {
	switch t.Kind {
	case TMixed, TNever, TVoid, TNullable:
		return true
	default:
		return false
	}
}
