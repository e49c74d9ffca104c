// Package infer produces a flow-insensitive mapping from AST node
// identifier to inferred type term, grounded on the teacher's
// registry-driven reflection (index.Function/index.ClassLike) rather
// than any runtime value representation: this engine reasons over
// declarations, never executes anything.
package infer

import (
	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/index"
)

// Options is reserved for future narrowing flags. Flow-sensitive
// narrowing is out of scope for this engine, so it carries no fields
// yet; adding one without a concrete consumer would be a dead flag.
type Options struct{}

// TypeMap is the node-id → type-term result of one inference run.
// Every node that existed in the AST passed to Engine.Map is
// guaranteed an entry, defaulting to Mixed.
type TypeMap struct {
	entries map[ast.NodeID]ast.Type
}

// Resolve returns the inferred type for id, or Mixed if id was never
// recorded (should not happen for a node that came from the mapped AST).
func (m *TypeMap) Resolve(id ast.NodeID) ast.Type {
	if t, ok := m.entries[id]; ok {
		return t
	}
	return Mixed()
}

func (m *TypeMap) set(id ast.NodeID, t ast.Type) {
	m.entries[id] = t
}

// Len reports how many nodes received a type-map entry.
func (m *TypeMap) Len() int { return len(m.entries) }

// Mixed is the fallback type for anything the engine cannot resolve.
func Mixed() ast.Type { return ast.Type{Kind: ast.TMixed} }

// scope is one function-level variable environment; PHP variables are
// function-scoped, so only a FunctionDecl (free function or method)
// pushes a new one. The AST has no closure or arrow-function node, so
// neither opens a scope here.
type scope struct {
	vars map[string]ast.Type
}

func newScope() *scope { return &scope{vars: make(map[string]ast.Type)} }

// Engine runs inference over one AST against a fixed symbol index.
type Engine struct {
	index   *index.Index
	opts    Options
	scopes  []*scope
	typeMap *TypeMap
}

// New builds an inference engine bound to idx.
func New(idx *index.Index, opts Options) *Engine {
	return &Engine{index: idx, opts: opts}
}

func (e *Engine) pushScope() { e.scopes = append(e.scopes, newScope()) }

func (e *Engine) popScope() { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *Engine) current() *scope { return e.scopes[len(e.scopes)-1] }

func (e *Engine) lookupVar(name string) ast.Type {
	if t, ok := e.current().vars[name]; ok {
		return t
	}
	return Mixed()
}

func (e *Engine) setVar(name string, t ast.Type) {
	e.current().vars[name] = t
}

// Map runs inference over a full statement list (typically a file's
// top-level statements) and returns the resulting TypeMap. A single
// global scope holds top-level variables; entering a function pushes
// and pops its own.
func (e *Engine) Map(stmts []ast.Statement) *TypeMap {
	e.typeMap = &TypeMap{entries: make(map[ast.NodeID]ast.Type)}
	e.scopes = nil
	e.pushScope()
	for _, s := range stmts {
		e.inferStmt(s)
	}
	e.popScope()
	// Every node not recorded above, statements included, gets Mixed.
	for _, s := range stmts {
		ast.Walk(ast.VisitorFunc(func(n ast.Node) bool {
			if _, ok := e.typeMap.entries[n.NodeID()]; !ok {
				e.typeMap.set(n.NodeID(), Mixed())
			}
			return true
		}), s)
	}
	return e.typeMap
}

func (e *Engine) record(n ast.Node, t ast.Type) ast.Type {
	e.typeMap.set(n.NodeID(), t)
	return t
}

func (e *Engine) inferStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		e.inferExpr(n.Expr)
	case *ast.EchoStmt:
		for _, v := range n.Values {
			e.inferExpr(v)
		}
	case *ast.Block:
		for _, st := range n.Statements {
			e.inferStmt(st)
		}
	case *ast.IfStmt:
		e.inferExpr(n.Cond)
		e.inferStmt(n.Then)
		for _, ei := range n.ElseIfs {
			e.inferExpr(ei.Cond)
			e.inferStmt(ei.Body)
		}
		if n.Else != nil {
			e.inferStmt(n.Else)
		}
	case *ast.WhileStmt:
		e.inferExpr(n.Cond)
		e.inferStmt(n.Body)
	case *ast.DoWhileStmt:
		e.inferStmt(n.Body)
		e.inferExpr(n.Cond)
	case *ast.ForStmt:
		for _, x := range n.Init {
			e.inferExpr(x)
		}
		for _, x := range n.Cond {
			e.inferExpr(x)
		}
		e.inferStmt(n.Body)
		for _, x := range n.Update {
			e.inferExpr(x)
		}
	case *ast.ForeachStmt:
		e.inferExpr(n.Subject)
		if n.KeyVar != nil {
			e.inferExpr(n.KeyVar)
		}
		e.inferExpr(n.ValueVar)
		e.inferStmt(n.Body)
	case *ast.SwitchStmt:
		e.inferExpr(n.Subject)
		for _, c := range n.Cases {
			if c.Cond != nil {
				e.inferExpr(c.Cond)
			}
			for _, st := range c.Statements {
				e.inferStmt(st)
			}
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			e.inferExpr(n.Value)
		}
	case *ast.TryStmt:
		for _, st := range n.Body.Statements {
			e.inferStmt(st)
		}
		for _, c := range n.Catches {
			for _, st := range c.Body.Statements {
				e.inferStmt(st)
			}
		}
		if n.Finally != nil {
			for _, st := range n.Finally.Statements {
				e.inferStmt(st)
			}
		}
	case *ast.FunctionDecl:
		e.inferFunction(n)
	case *ast.ClassLike:
		for _, m := range n.Methods {
			e.inferFunction(m)
		}
	case *ast.NamespaceStmt:
		for _, st := range n.Body {
			e.inferStmt(st)
		}
	}
}

func (e *Engine) inferFunction(fn *ast.FunctionDecl) {
	e.pushScope()
	for _, p := range fn.Params {
		t := Mixed()
		if p.Type != nil {
			t = *p.Type
		}
		e.setVar(p.Name, t)
	}
	if fn.Body != nil {
		for _, st := range fn.Body.Statements {
			e.inferStmt(st)
		}
	}
	e.popScope()
}

func (e *Engine) inferExpr(expr ast.Expression) ast.Type {
	if expr == nil {
		return Mixed()
	}
	switch n := expr.(type) {
	case *ast.BoolLit:
		return e.record(n, ast.Type{Kind: ast.TBool})
	case *ast.NullLit:
		return e.record(n, ast.Type{Kind: ast.TNull})
	case *ast.IntLit:
		return e.record(n, ast.Type{Kind: ast.TInt})
	case *ast.FloatLit:
		return e.record(n, ast.Type{Kind: ast.TFloat})
	case *ast.StringLit:
		return e.record(n, ast.Type{Kind: ast.TString})
	case *ast.InterpString:
		for _, part := range n.Parts {
			if part.Expr != nil {
				e.inferExpr(part.Expr)
			}
		}
		return e.record(n, ast.Type{Kind: ast.TString})
	case *ast.SimpleVariable:
		return e.record(n, e.lookupVar(n.Name))
	case *ast.Assign:
		rhs := e.inferExpr(n.Value)
		if target, ok := n.Target.(*ast.SimpleVariable); ok {
			e.setVar(target.Name, rhs)
		} else {
			e.inferExpr(n.Target)
		}
		return e.record(n, rhs)
	case *ast.CompoundAssign:
		e.inferExpr(n.Value)
		t := e.inferExpr(n.Target)
		return e.record(n, t)
	case *ast.BinaryOp:
		e.inferExpr(n.Left)
		e.inferExpr(n.Right)
		return e.record(n, binaryResultType(n.Op))
	case *ast.UnaryOp:
		t := e.inferExpr(n.Operand)
		return e.record(n, t)
	case *ast.IncDec:
		t := e.inferExpr(n.Operand)
		return e.record(n, t)
	case *ast.Paren:
		t := e.inferExpr(n.Inner)
		return e.record(n, t)
	case *ast.Ternary:
		e.inferExpr(n.Cond)
		var t ast.Type
		if n.Then != nil {
			t = e.inferExpr(n.Then)
		} else {
			t = Mixed()
		}
		e.inferExpr(n.Else)
		return e.record(n, t)
	case *ast.Coalesce:
		e.inferExpr(n.Left)
		t := e.inferExpr(n.Right)
		return e.record(n, t)
	case *ast.NewExpr:
		for _, a := range n.Args {
			e.inferExpr(a.Value)
		}
		if name, ok := n.Class.(*ast.Name); ok {
			return e.record(n, ast.Named(name.Text))
		}
		e.inferExpr(n.Class)
		return e.record(n, Mixed())
	case *ast.MethodCall:
		obj := e.inferExpr(n.Object)
		for _, a := range n.Args {
			e.inferExpr(a.Value)
		}
		if obj.Kind == ast.TNamed {
			if cl, ok := e.index.GetClass(obj.Name); ok {
				if name, ok := n.Method.(*ast.Name); ok {
					if m, ok := cl.Methods[name.Text]; ok && m.ReturnType != nil {
						return e.record(n, *m.ReturnType)
					}
				}
			}
		}
		return e.record(n, Mixed())
	case *ast.StaticMethodCall:
		for _, a := range n.Args {
			e.inferExpr(a.Value)
		}
		if cls, ok := n.Class.(*ast.Name); ok {
			if cl, ok := e.index.GetClass(cls.Text); ok {
				if name, ok := n.Method.(*ast.Name); ok {
					if m, ok := cl.Methods[name.Text]; ok && m.ReturnType != nil {
						return e.record(n, *m.ReturnType)
					}
				}
			}
		}
		return e.record(n, Mixed())
	case *ast.PropertyFetch:
		obj := e.inferExpr(n.Object)
		if obj.Kind == ast.TNamed {
			if cl, ok := e.index.GetClass(obj.Name); ok {
				if name, ok := n.Property.(*ast.Name); ok {
					if p, ok := cl.Properties[name.Text]; ok && p.Type != nil {
						return e.record(n, *p.Type)
					}
				}
			}
		}
		return e.record(n, Mixed())
	case *ast.Name:
		if _, ok := e.index.GetClass(n.Text); ok {
			return e.record(n, ast.Named(n.Text))
		}
		return e.record(n, Mixed())
	case *ast.FuncCall:
		for _, a := range n.Args {
			e.inferExpr(a.Value)
		}
		if name, ok := n.Callee.(*ast.Name); ok {
			e.record(name, Mixed())
			if fn, ok := e.index.GetFunction(name.Text); ok && fn.ReturnType != nil {
				return e.record(n, *fn.ReturnType)
			}
		} else {
			e.inferExpr(n.Callee)
		}
		return e.record(n, Mixed())
	case *ast.ArrayExpr:
		for _, item := range n.Items {
			if item.Key != nil {
				e.inferExpr(item.Key)
			}
			if item.Value != nil {
				e.inferExpr(item.Value)
			}
		}
		return e.record(n, ast.Type{Kind: ast.TArray})
	default:
		ast.Walk(ast.VisitorFunc(func(child ast.Node) bool {
			if child == expr {
				return true
			}
			if ce, ok := child.(ast.Expression); ok {
				e.inferExpr(ce)
				return false
			}
			return true
		}), expr)
		return e.record(expr, Mixed())
	}
}

func binaryResultType(op string) ast.Type {
	switch op {
	case "+", "-", "*", "/", "%", "**":
		return ast.Type{Kind: ast.TInt}
	case ".":
		return ast.Type{Kind: ast.TString}
	case "==", "===", "!=", "!==", "<", ">", "<=", ">=", "<=>", "&&", "||", "and", "or", "xor", "instanceof":
		return ast.Type{Kind: ast.TBool}
	default:
		return Mixed()
	}
}
