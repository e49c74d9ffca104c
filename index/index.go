// Package index aggregates declarations across files into a cross-file
// symbol table: functions, classes/interfaces/traits/enums, and their
// members, queryable by exact name or substring search. It feeds the
// inference engine and is itself a plain in-memory structure with a
// pluggable persistence layer (package index/storage), grounded on the
// teacher's registry.Function/Class/Interface/Trait/Enum shapes but
// retargeted from "what a compiled program holds at runtime" to "what a
// static index holds about declarations".
package index

import (
	"strings"
	"sync"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
)

// FileID is a stable per-run file identifier, shared with bytestring.FileID.
type FileID = bytestring.FileID

// Param mirrors ast.Param's shape for the purpose of function/method
// signatures recorded in the index (name, type term, has-default,
// variadic, by-reference).
type Param struct {
	Name       string
	Type       *ast.Type
	HasDefault bool
	Variadic   bool
	ByRef      bool
}

// Function is one indexed function or method declaration.
type Function struct {
	Name         string // fully-qualified, e.g. "App\Util\helper"
	ShortName    string // "helper"
	Namespace    string // "App\Util"
	Params       []Param
	ReturnType   *ast.Type
	ByRefReturn  bool
	Span         bytestring.Span
	File         FileID

	// Method-only fields; zero for a free function.
	Static     bool
	Visibility string // always empty: ast.FunctionDecl carries no visibility modifier
	Abstract   bool
}

// Property is one indexed class-like property.
type Property struct {
	Name       string
	Type       *ast.Type
	Visibility string
	Static     bool
	Readonly   bool
}

// ClassLike is one indexed class, interface, trait, or enum.
type ClassLike struct {
	Name       string
	ShortName  string
	Namespace  string
	Kind       ast.ClassLikeKind
	Modifiers  ast.Modifier
	Parent     string   // single parent name, empty if none
	Interfaces []string // implemented/extended interface names

	Properties map[string]*Property
	Methods    map[string]*Function

	Span bytestring.Span
	File FileID
}

// Snapshot is the full, order-insensitive content of an index: every
// indexed file, function, and class-like, ready to be handed to a
// storage driver for persistence (§4.3 "serialised to a single opaque
// blob").
type Snapshot struct {
	Files     map[FileID]string
	Functions map[string]*Function
	Classes   map[string]*ClassLike
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Files:     make(map[FileID]string),
		Functions: make(map[string]*Function),
		Classes:   make(map[string]*ClassLike),
	}
}

// Index is the live, mutable symbol table a host builds up by indexing
// files one at a time. It is safe for concurrent readers once indexing
// has finished; IndexFile itself takes an exclusive lock so a host can
// index files from a worker pool without racing the shared maps.
type Index struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// New builds an empty index.
func New() *Index {
	return &Index{snapshot: newSnapshot()}
}

// IndexFile walks one file's statement list, recording every function,
// class-like, and their members into the current scope. No forward or
// backward reference across files is required: indexing one file never
// depends on another having been indexed first (§4.3).
func (ix *Index) IndexFile(path string, file FileID, stmts []ast.Statement) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.snapshot.Files[file] = path
	w := &walker{ix: ix, file: file}
	w.walkStatements(stmts, "")
}

// walker threads the current namespace through one file's AST walk.
type walker struct {
	ix   *Index
	file FileID
}

func (w *walker) walkStatements(stmts []ast.Statement, namespace string) {
	for _, s := range stmts {
		w.walkStatement(s, namespace)
	}
}

func (w *walker) walkStatement(s ast.Statement, namespace string) {
	switch n := s.(type) {
	case *ast.NamespaceStmt:
		w.walkStatements(n.Body, n.Name)
	case *ast.FunctionDecl:
		w.ix.snapshot.Functions[qualify(namespace, n.Name)] = &Function{
			Name:        qualify(namespace, n.Name),
			ShortName:   n.Name,
			Namespace:   namespace,
			Params:      toIndexParams(n.Params),
			ReturnType:  n.ReturnType,
			ByRefReturn: n.ByRefReturn,
			Span:        n.Span,
			File:        w.file,
		}
	case *ast.ClassLike:
		w.indexClassLike(n, namespace)
	case *ast.Block:
		w.walkStatements(n.Statements, namespace)
	case *ast.IfStmt:
		w.walkStatement(n.Then, namespace)
		for _, ei := range n.ElseIfs {
			w.walkStatement(ei.Body, namespace)
		}
		if n.Else != nil {
			w.walkStatement(n.Else, namespace)
		}
	case *ast.WhileStmt:
		w.walkStatement(n.Body, namespace)
	case *ast.DoWhileStmt:
		w.walkStatement(n.Body, namespace)
	case *ast.ForStmt:
		w.walkStatement(n.Body, namespace)
	case *ast.ForeachStmt:
		w.walkStatement(n.Body, namespace)
	case *ast.TryStmt:
		w.walkStatements(n.Body.Statements, namespace)
		for _, c := range n.Catches {
			w.walkStatements(c.Body.Statements, namespace)
		}
		if n.Finally != nil {
			w.walkStatements(n.Finally.Statements, namespace)
		}
	case *ast.SwitchStmt:
		for _, c := range n.Cases {
			w.walkStatements(c.Statements, namespace)
		}
	}
}

func (w *walker) indexClassLike(n *ast.ClassLike, namespace string) {
	fqName := qualify(namespace, n.Name)
	cl := &ClassLike{
		Name:       fqName,
		ShortName:  n.Name,
		Namespace:  namespace,
		Kind:       n.Kind,
		Modifiers:  n.Modifiers,
		Interfaces: append([]string(nil), n.Implements...),
		Properties: make(map[string]*Property),
		Methods:    make(map[string]*Function),
		Span:       n.Span,
		File:       w.file,
	}
	if len(n.Extends) > 0 {
		cl.Parent = n.Extends[0]
		if n.Kind == ast.InterfaceKind {
			cl.Interfaces = append(cl.Interfaces, n.Extends...)
		}
	}
	for _, m := range n.Methods {
		cl.Methods[m.Name] = &Function{
			Name:        fqName + "::" + m.Name,
			ShortName:   m.Name,
			Namespace:   namespace,
			Params:      toIndexParams(m.Params),
			ReturnType:  m.ReturnType,
			ByRefReturn: m.ByRefReturn,
			Span:        m.Span,
			File:        w.file,
			Static:      m.Static,
			Abstract:    m.Body == nil,
		}
	}
	for _, p := range n.Properties {
		vis := visibilityOf(p.Modifiers)
		for _, item := range p.Items {
			cl.Properties[item.Name] = &Property{
				Name:       item.Name,
				Type:       p.Type,
				Visibility: vis,
				Static:     p.Modifiers&ast.ModStatic != 0,
				Readonly:   p.Modifiers&ast.ModReadonly != 0,
			}
		}
	}
	w.ix.snapshot.Classes[fqName] = cl
}

func visibilityOf(m ast.Modifier) string {
	switch {
	case m&ast.ModPrivate != 0:
		return "private"
	case m&ast.ModProtected != 0:
		return "protected"
	default:
		return "public"
	}
}

func toIndexParams(params []ast.Param) []Param {
	out := make([]Param, len(params))
	for i, p := range params {
		out[i] = Param{Name: p.Name, Type: p.Type, HasDefault: p.Default != nil, Variadic: p.Variadic, ByRef: p.ByRef}
	}
	return out
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "\\" + name
}

// GetFunction looks up a function by fully-qualified name.
func (ix *Index) GetFunction(name string) (*Function, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	f, ok := ix.snapshot.Functions[name]
	return f, ok
}

// GetClass looks up a class-like by fully-qualified name.
func (ix *Index) GetClass(name string) (*ClassLike, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.snapshot.Classes[name]
	return c, ok
}

// SearchFunctions does a linear substring scan over function names.
// Adequate for single-project corpus sizes; a caller wanting a prefix
// trie instead is free to build one behind the same public surface.
func (ix *Index) SearchFunctions(substr string) []*Function {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []*Function
	for _, f := range ix.snapshot.Functions {
		if strings.Contains(f.Name, substr) {
			out = append(out, f)
		}
	}
	return out
}

// SearchClasses does a linear substring scan over class-like names.
func (ix *Index) SearchClasses(substr string) []*ClassLike {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []*ClassLike
	for _, c := range ix.snapshot.Classes {
		if strings.Contains(c.Name, substr) {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot returns the current index content for handoff to a storage
// driver. The returned value must not be mutated by the caller.
func (ix *Index) Snapshot() *Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snapshot
}

// Load replaces the index's content with a previously stored snapshot.
func (ix *Index) Load(s *Snapshot) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.snapshot = s
}
