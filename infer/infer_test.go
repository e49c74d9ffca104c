package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/parser"
)

func mapSrc(t *testing.T, src string) ([]ast.Statement, *TypeMap) {
	t.Helper()
	stmts, diags := parser.Parse(src, bytestring.NoFile)
	require.False(t, diags.HasErrors(), "diags: %v", diags)
	ix := index.New()
	ix.IndexFile("<test>", bytestring.NoFile, stmts)
	eng := New(ix, Options{})
	return stmts, eng.Map(stmts)
}

func TestInferLiteralTypes(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php $a = 1; $b = "x"; $c = 1.5; $d = true;`)
	require.Len(t, stmts, 4)
	for i, want := range []ast.TypeKind{ast.TInt, ast.TString, ast.TFloat, ast.TBool} {
		es := stmts[i].(*ast.ExprStmt)
		assign := es.Expr.(*ast.Assign)
		assert.Equal(t, want, tm.Resolve(assign.NodeID()).Kind)
	}
}

func TestInferFunctionCallReturnType(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php function f(string $n): int { return 1; } $x = f("hi");`)
	es := stmts[1].(*ast.ExprStmt)
	assign := es.Expr.(*ast.Assign)
	ty := tm.Resolve(assign.NodeID())
	assert.Equal(t, ast.TInt, ty.Kind)
}

func TestInferNewExpressionYieldsNamedType(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php class Box {} $b = new Box();`)
	es := stmts[1].(*ast.ExprStmt)
	assign := es.Expr.(*ast.Assign)
	ty := tm.Resolve(assign.NodeID())
	assert.Equal(t, ast.TNamed, ty.Kind)
	assert.Equal(t, "Box", ty.Name)
}

func TestInferMethodCallReturnType(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php
class Box {
    public function value(): string { return "x"; }
}
$b = new Box();
$v = $b->value();`)
	es := stmts[2].(*ast.ExprStmt)
	assign := es.Expr.(*ast.Assign)
	ty := tm.Resolve(assign.NodeID())
	assert.Equal(t, ast.TString, ty.Kind)
}

func TestInferUnknownCallFallsBackToMixed(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php $x = not_declared_fn();`)
	es := stmts[0].(*ast.ExprStmt)
	assign := es.Expr.(*ast.Assign)
	ty := tm.Resolve(assign.NodeID())
	assert.Equal(t, ast.TMixed, ty.Kind)
}

func TestInferParameterFromDeclaredType(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php function f(int $n) { $y = $n; }`)
	fn := stmts[0].(*ast.FunctionDecl)
	inner := fn.Body.Statements[0].(*ast.ExprStmt)
	assign := inner.Expr.(*ast.Assign)
	ty := tm.Resolve(assign.NodeID())
	assert.Equal(t, ast.TInt, ty.Kind)
}

func TestInferEveryNodeGetsAnEntry(t *testing.T) {
	stmts, tm := mapSrc(t, `<?php $x = 1 + 2 * 3;`)
	assert.Greater(t, tm.Len(), 0)
	es := stmts[0].(*ast.ExprStmt)
	assign := es.Expr.(*ast.Assign)
	bin := assign.Value.(*ast.BinaryOp)
	assert.Equal(t, ast.TInt, tm.Resolve(bin.NodeID()).Kind)
}
