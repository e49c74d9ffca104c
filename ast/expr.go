package ast

import "github.com/vellumlang/phpfront/bytestring"

// The ~60 expression kinds are modeled as distinct structs rather than one
// tagged struct: Go's type switch over the Expression interface gives the
// same closed-set dispatch a sum type would, without a parallel "Kind"
// field to keep in sync (design notes: "prefer closed variants to open
// hierarchies"). ast.Name (see name.go) is itself an Expression and
// covers the as-written/resolved/self-parent-static states.

// --- Literals ---

type BoolLit struct {
	Base
	Value bool
}

type NullLit struct{ Base }

type IntLit struct {
	Base
	Value int64
	Raw   string
}

type FloatLit struct {
	Base
	Value float64
	Raw   string
}

type StringLit struct {
	Base
	Value []byte // decoded bytes
	Raw   string // as written, including quotes
}

func (*BoolLit) exprNode()   {}
func (*NullLit) exprNode()   {}
func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*StringLit) exprNode() {}

// --- Variables ---

type SimpleVariable struct {
	Base
	Name string // without leading $
}

// VariableVariable is $$name.
type VariableVariable struct {
	Base
	Inner Expression
}

// BracedVariableVariable is ${expr}.
type BracedVariableVariable struct {
	Base
	Inner Expression
}

func (*SimpleVariable) exprNode()          {}
func (*VariableVariable) exprNode()        {}
func (*BracedVariableVariable) exprNode()  {}

// --- Operators ---

type BinaryOp struct {
	Base
	Op    string // "+", "===", "&&", "and", "xor", ...
	Left  Expression
	Right Expression
}

type Assign struct {
	Base
	Target Expression
	Value  Expression
}

// CompoundAssign covers +=, -=, .=, ??=, &=, |=, ^=, <<=, >>=, etc.
type CompoundAssign struct {
	Base
	Op     string
	Target Expression
	Value  Expression
}

type UnaryOp struct {
	Base
	Op      string // "!", "-", "+", "~", "@"
	Operand Expression
}

type IncDec struct {
	Base
	Operand Expression
	Inc     bool // true = ++, false = --
	Prefix  bool
}

func (*BinaryOp) exprNode()       {}
func (*Assign) exprNode()         {}
func (*CompoundAssign) exprNode() {}
func (*UnaryOp) exprNode()        {}
func (*IncDec) exprNode()         {}

// --- Calls and closure-creation ---

type Arg struct {
	Name     string // named-argument name, empty if positional
	Value    Expression
	Spread   bool
	ByRef    bool
}

// FuncCall covers both `name(args)` calls and, when Args is nil and
// ClosureCreation is true, the `name(...)` closure-creation form.
type FuncCall struct {
	Base
	Callee          Expression // ast.Name or an arbitrary callable expression
	Args            []Arg
	ClosureCreation bool
}

type MethodCall struct {
	Base
	Object          Expression
	Method          Expression // ast.Name or a dynamic expression
	Nullsafe        bool
	Args            []Arg
	ClosureCreation bool
}

type StaticMethodCall struct {
	Base
	Class           Expression // ast.Name, or an expression when on a variable class
	Method          Expression
	Args            []Arg
	ClosureCreation bool
}

func (*FuncCall) exprNode()         {}
func (*MethodCall) exprNode()       {}
func (*StaticMethodCall) exprNode() {}

// --- Property / constant access ---

type PropertyFetch struct {
	Base
	Object   Expression
	Property Expression // ast.Name or dynamic expression
	Nullsafe bool
}

type StaticPropertyFetch struct {
	Base
	Class    Expression
	Property Expression
}

type ClassConstFetch struct {
	Base
	Class Expression
	Name  string // or "class" for ::class
}

func (*PropertyFetch) exprNode()       {}
func (*StaticPropertyFetch) exprNode() {}
func (*ClassConstFetch) exprNode()     {}

// --- Arrays ---

type ArrayItem struct {
	Key      Expression // nil if positional
	Value    Expression
	ByRef    bool
	Spread   bool
}

type ArrayExpr struct {
	Base
	Items     []ArrayItem
	LongForm  bool // true for array(...), false for [...]
}

type ListExpr struct {
	Base
	Items []ArrayItem // destructuring targets; Value may be nil for skipped slots
}

type ArrayDim struct {
	Base
	Array Expression
	Dim   Expression // nil for the `$arr[] = ...` append form
}

func (*ArrayExpr) exprNode() {}
func (*ListExpr) exprNode()  {}
func (*ArrayDim) exprNode()  {}

// --- Object construction ---

type NewExpr struct {
	Base
	Class Expression // ast.Name, or an arbitrary expression for `new $cls(...)`
	Args  []Arg
}

// AnonymousClass is `new class(...) extends P implements I { ... }`.
type AnonymousClass struct {
	Base
	Args       []Arg
	ClassLike  *ClassLike
}

func (*NewExpr) exprNode()        {}
func (*AnonymousClass) exprNode() {}

// --- Control-flow expressions ---

type Paren struct {
	Base
	Inner Expression
}

type Ternary struct {
	Base
	Cond Expression
	Then Expression // nil for the short-ternary `cond ?: else` form
	Else Expression
}

type Coalesce struct {
	Base
	Left  Expression
	Right Expression
}

type CloneExpr struct {
	Base
	Operand Expression
}

type MatchArm struct {
	Conditions []Expression // empty = default arm
	IsDefault  bool
	Body       Expression
}

type MatchExpr struct {
	Base
	Subject Expression
	Arms    []MatchArm
}

type ThrowExpr struct {
	Base
	Value Expression
}

type YieldExpr struct {
	Base
	Key   Expression // nil unless `yield $k => $v`
	Value Expression // nil for a bare `yield`
}

type YieldFromExpr struct {
	Base
	Source Expression
}

func (*Paren) exprNode()         {}
func (*Ternary) exprNode()       {}
func (*Coalesce) exprNode()      {}
func (*CloneExpr) exprNode()     {}
func (*MatchExpr) exprNode()     {}
func (*ThrowExpr) exprNode()     {}
func (*YieldExpr) exprNode()     {}
func (*YieldFromExpr) exprNode() {}

// --- Casts, includes, misc language constructs ---

type CastKind int

const (
	CastInt CastKind = iota
	CastFloat
	CastString
	CastBool
	CastArray
	CastObject
	CastUnset
)

type CastExpr struct {
	Base
	Kind    CastKind
	Operand Expression
}

type IncludeKind int

const (
	IncludeOnce IncludeKind = iota
	IncludeOnceOnly
	RequireKind
	RequireOnceKind
)

type IncludeExpr struct {
	Base
	Kind IncludeKind
	Path Expression
}

type MagicConstKind int

const (
	MagicLine MagicConstKind = iota
	MagicFile
	MagicDir
	MagicFunction
	MagicClass
	MagicTrait
	MagicMethod
	MagicNamespace
)

type MagicConst struct {
	Base
	Kind MagicConstKind
}

func (*CastExpr) exprNode()   {}
func (*IncludeExpr) exprNode() {}
func (*MagicConst) exprNode() {}

// --- Interpolated / templated strings ---

// InterpPart is either a literal fragment (Expr == nil, Text populated)
// or an interpolated expression.
type InterpPart struct {
	Text string
	Expr Expression
}

type InterpString struct {
	Base
	Parts []InterpPart
}

type Heredoc struct {
	Base
	Label string
	Parts []InterpPart
}

type Nowdoc struct {
	Base
	Label string
	Value []byte
}

type ShellExec struct {
	Base
	Parts []InterpPart
}

func (*InterpString) exprNode() {}
func (*Heredoc) exprNode()      {}
func (*Nowdoc) exprNode()       {}
func (*ShellExec) exprNode()    {}

// --- Remaining forms ---

type RefExpr struct {
	Base
	Operand Expression
}

type InstanceofExpr struct {
	Base
	Operand Expression
	Class   Expression
}

type PrintExpr struct {
	Base
	Value Expression
}

type DieExpr struct {
	Base
	Value Expression // nil for a bare die/exit
}

type EvalExpr struct {
	Base
	Code Expression
}

type EmptyExpr struct {
	Base
	Operand Expression
}

type IssetExpr struct {
	Base
	Operands []Expression
}

type UnsetExpr struct {
	Base
	Operands []Expression
}

func (*RefExpr) exprNode()       {}
func (*InstanceofExpr) exprNode() {}
func (*PrintExpr) exprNode()     {}
func (*DieExpr) exprNode()       {}
func (*EvalExpr) exprNode()      {}
func (*EmptyExpr) exprNode()     {}
func (*IssetExpr) exprNode()     {}
func (*UnsetExpr) exprNode()     {}

// Missing is the zero-width error-recovery expression sentinel (§4.2.4).
type MissingExpr struct{ Base }

func (*MissingExpr) exprNode() {}

// NewMissingExpr builds a Missing expression at a zero-width offset.
func NewMissingExpr(offset int, file bytestring.FileID) *MissingExpr {
	return &MissingExpr{Base: Base{Span: bytestring.Missing(offset, file)}}
}
