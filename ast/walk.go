package ast

// Visitor is implemented by callers of Walk. Visit is called once per node
// on the way down; returning false prunes that node's children. Grounded
// on the teacher's single-method Visitor/Walk pair, generalized from
// virtual-dispatch-style Accept(visitor) methods (which would force every
// node to know how to traverse itself) to a plain type switch, since the
// node set here is closed and doesn't need per-node dispatch.
type Visitor interface {
	Visit(node Node) bool
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(node Node) bool

func (f VisitorFunc) Visit(node Node) bool { return f(node) }

// Walk traverses node and its descendants depth-first, in the order
// children lists them, calling v.Visit on each. If Visit returns false for a node, that node's
// children are skipped (but traversal of sibling nodes continues).
func Walk(v Visitor, node Node) {
	if node == nil || isNilNode(node) {
		return
	}
	if !v.Visit(node) {
		return
	}
	for _, child := range children(node) {
		Walk(v, child)
	}
}

// isNilNode guards against a typed-nil interface value (e.g. a (*IfStmt)(nil)
// stored in an Else field), which Walk must treat as absent.
func isNilNode(node Node) bool {
	switch n := node.(type) {
	case *IfStmt:
		return n == nil
	case *Block:
		return n == nil
	case *ClassLike:
		return n == nil
	case *FunctionDecl:
		return n == nil
	case *TraitUseStmt:
		return n == nil
	case *ConstStmt:
		return n == nil
	case *EnumCaseDecl:
		return n == nil
	case *AttributeGroup:
		return n == nil
	case *Name:
		return n == nil
	default:
		return false
	}
}

// children enumerates the direct Node descendants of n, mostly in source
// order. Two kinds differ: DeclareStmt directives come from a map, so
// their order is not defined, and ClassLike members are grouped by kind
// (constants, property defaults, methods, trait uses, enum cases).
// Non-Node payload (strings, modifier bitsets, raw literal text) is not
// part of the traversal; a caller needing that data type-switches on n
// directly after Visit reports it.
func children(n Node) []Node {
	switch v := n.(type) {

	// --- expressions ---
	case *BoolLit, *NullLit, *IntLit, *FloatLit, *StringLit, *Name,
		*SimpleVariable, *MagicConst, *Nowdoc, *MissingExpr:
		return nil
	case *VariableVariable:
		return []Node{v.Inner}
	case *BracedVariableVariable:
		return []Node{v.Inner}
	case *BinaryOp:
		return []Node{v.Left, v.Right}
	case *Assign:
		return []Node{v.Target, v.Value}
	case *CompoundAssign:
		return []Node{v.Target, v.Value}
	case *UnaryOp:
		return []Node{v.Operand}
	case *IncDec:
		return []Node{v.Operand}
	case *FuncCall:
		out := []Node{v.Callee}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *MethodCall:
		out := []Node{v.Object, v.Method}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *StaticMethodCall:
		out := []Node{v.Class, v.Method}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *PropertyFetch:
		return []Node{v.Object, v.Property}
	case *StaticPropertyFetch:
		return []Node{v.Class, v.Property}
	case *ClassConstFetch:
		return []Node{v.Class}
	case *ArrayExpr:
		var out []Node
		for _, it := range v.Items {
			if it.Key != nil {
				out = append(out, it.Key)
			}
			if it.Value != nil {
				out = append(out, it.Value)
			}
		}
		return out
	case *ListExpr:
		var out []Node
		for _, it := range v.Items {
			if it.Key != nil {
				out = append(out, it.Key)
			}
			if it.Value != nil {
				out = append(out, it.Value)
			}
		}
		return out
	case *ArrayDim:
		out := []Node{v.Array}
		if v.Dim != nil {
			out = append(out, v.Dim)
		}
		return out
	case *NewExpr:
		out := []Node{v.Class}
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		return out
	case *AnonymousClass:
		out := make([]Node, 0, len(v.Args)+1)
		for _, a := range v.Args {
			out = append(out, a.Value)
		}
		if v.ClassLike != nil {
			out = append(out, v.ClassLike)
		}
		return out
	case *Paren:
		return []Node{v.Inner}
	case *Ternary:
		out := []Node{v.Cond}
		if v.Then != nil {
			out = append(out, v.Then)
		}
		out = append(out, v.Else)
		return out
	case *Coalesce:
		return []Node{v.Left, v.Right}
	case *CloneExpr:
		return []Node{v.Operand}
	case *MatchExpr:
		out := []Node{v.Subject}
		for _, arm := range v.Arms {
			for _, c := range arm.Conditions {
				out = append(out, c)
			}
			out = append(out, arm.Body)
		}
		return out
	case *ThrowExpr:
		return []Node{v.Value}
	case *YieldExpr:
		var out []Node
		if v.Key != nil {
			out = append(out, v.Key)
		}
		if v.Value != nil {
			out = append(out, v.Value)
		}
		return out
	case *YieldFromExpr:
		return []Node{v.Source}
	case *CastExpr:
		return []Node{v.Operand}
	case *IncludeExpr:
		return []Node{v.Path}
	case *InterpString:
		return interpChildren(v.Parts)
	case *Heredoc:
		return interpChildren(v.Parts)
	case *ShellExec:
		return interpChildren(v.Parts)
	case *RefExpr:
		return []Node{v.Operand}
	case *InstanceofExpr:
		return []Node{v.Operand, v.Class}
	case *PrintExpr:
		return []Node{v.Value}
	case *DieExpr:
		if v.Value == nil {
			return nil
		}
		return []Node{v.Value}
	case *EvalExpr:
		return []Node{v.Code}
	case *EmptyExpr:
		return []Node{v.Operand}
	case *IssetExpr:
		out := make([]Node, len(v.Operands))
		for i, o := range v.Operands {
			out[i] = o
		}
		return out
	case *UnsetExpr:
		out := make([]Node, len(v.Operands))
		for i, o := range v.Operands {
			out[i] = o
		}
		return out

	// --- statements ---
	case *ExprStmt:
		return []Node{v.Expr}
	case *EchoStmt:
		return exprsToNodes(v.Values)
	case *InlineHTMLStmt, *GlobalStmt, *GotoStmt, *LabelStmt, *HaltCompilerStmt:
		return nil
	case *Block:
		out := make([]Node, len(v.Statements))
		for i, s := range v.Statements {
			out[i] = s
		}
		return out
	case *StaticVarStmt:
		var out []Node
		for _, d := range v.Vars {
			if d.Default != nil {
				out = append(out, d.Default)
			}
		}
		return out
	case *UnsetStmt:
		return exprsToNodes(v.Targets)
	case *DeclareStmt:
		var out []Node
		for _, e := range v.Directives {
			out = append(out, e)
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *IfStmt:
		out := []Node{v.Cond, v.Then}
		for _, ei := range v.ElseIfs {
			out = append(out, ei.Cond, ei.Body)
		}
		if v.Else != nil {
			out = append(out, v.Else)
		}
		return out
	case *WhileStmt:
		return []Node{v.Cond, v.Body}
	case *DoWhileStmt:
		return []Node{v.Body, v.Cond}
	case *ForStmt:
		out := exprsToNodes(v.Init)
		out = append(out, exprsToNodes(v.Cond)...)
		out = append(out, exprsToNodes(v.Update)...)
		out = append(out, v.Body)
		return out
	case *ForeachStmt:
		out := []Node{v.Subject}
		if v.KeyVar != nil {
			out = append(out, v.KeyVar)
		}
		out = append(out, v.ValueVar, v.Body)
		return out
	case *SwitchStmt:
		out := []Node{v.Subject}
		for _, c := range v.Cases {
			if c.Cond != nil {
				out = append(out, c.Cond)
			}
			for _, s := range c.Statements {
				out = append(out, s)
			}
		}
		return out
	case *BreakStmt:
		if v.Level == nil {
			return nil
		}
		return []Node{v.Level}
	case *ContinueStmt:
		if v.Level == nil {
			return nil
		}
		return []Node{v.Level}
	case *ReturnStmt:
		if v.Value == nil {
			return nil
		}
		return []Node{v.Value}
	case *TryStmt:
		out := []Node{v.Body}
		for _, c := range v.Catches {
			for _, t := range c.Types {
				out = append(out, t)
			}
			out = append(out, c.Body)
		}
		if v.Finally != nil {
			out = append(out, v.Finally)
		}
		return out
	case *NamespaceStmt:
		out := make([]Node, len(v.Body))
		for i, s := range v.Body {
			out[i] = s
		}
		return out
	case *UseStmt, *GroupUseStmt:
		return nil
	case *FunctionDecl:
		var out []Node
		for _, p := range v.Params {
			if p.Default != nil {
				out = append(out, p.Default)
			}
		}
		if v.Body != nil {
			out = append(out, v.Body)
		}
		return out
	case *ConstStmt:
		var out []Node
		for _, it := range v.Items {
			out = append(out, it.Value)
		}
		return out
	case *TraitUseStmt:
		return nil
	case *EnumCaseDecl:
		if v.Value == nil {
			return nil
		}
		return []Node{v.Value}
	case *AttributeGroup:
		var out []Node
		for _, attr := range v.Attributes {
			for _, a := range attr.Args {
				out = append(out, a.Value)
			}
		}
		return out
	case *ClassLike:
		var out []Node
		for _, c := range v.Consts {
			out = append(out, c)
		}
		for _, p := range v.Properties {
			for _, it := range p.Items {
				if it.Default != nil {
					out = append(out, it.Default)
				}
			}
		}
		for _, m := range v.Methods {
			out = append(out, m)
		}
		for _, tu := range v.TraitUses {
			out = append(out, tu)
		}
		for _, ec := range v.EnumCases {
			out = append(out, ec)
		}
		return out

	default:
		return nil
	}
}

func exprsToNodes(exprs []Expression) []Node {
	out := make([]Node, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}

func interpChildren(parts []InterpPart) []Node {
	var out []Node
	for _, p := range parts {
		if p.Expr != nil {
			out = append(out, p.Expr)
		}
	}
	return out
}
