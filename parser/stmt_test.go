package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/lexer"
)

func parseSrc(t *testing.T, src string) ([]ast.Statement, *Parser) {
	t.Helper()
	toks, err := lexer.TokenizeFile(src, bytestring.NoFile)
	require.NoError(t, err)
	p := New(toks, bytestring.NoFile)
	stmts := p.ParseProgram()
	return stmts, p
}

func TestParseIfElseIf(t *testing.T) {
	stmts, p := parseSrc(t, `<?php if ($a) { echo 1; } elseif ($b) { echo 2; } else { echo 3; }`)
	require.False(t, p.diags.HasErrors())
	require.Len(t, stmts, 1)
	ifStmt, ok := stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifStmt.ElseIfs, 1)
	require.NotNil(t, ifStmt.Else)
}

func TestParseForeachByRef(t *testing.T) {
	stmts, p := parseSrc(t, `<?php foreach ($xs as $k => &$v) { $v = $k; }`)
	require.False(t, p.diags.HasErrors())
	require.Len(t, stmts, 1)
	fe, ok := stmts[0].(*ast.ForeachStmt)
	require.True(t, ok)
	assert.NotNil(t, fe.KeyVar)
	assert.True(t, fe.ByRef)
}

func TestParseTryCatchFinally(t *testing.T) {
	stmts, p := parseSrc(t, `<?php try { foo(); } catch (Exception|Error $e) { bar(); } finally { baz(); }`)
	require.False(t, p.diags.HasErrors())
	tryStmt, ok := stmts[0].(*ast.TryStmt)
	require.True(t, ok)
	require.Len(t, tryStmt.Catches, 1)
	assert.Len(t, tryStmt.Catches[0].Types, 2)
	assert.NotNil(t, tryStmt.Finally)
}

func TestTryWithoutCatchOrFinallyIsDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php try { foo(); }`)
	assert.True(t, p.diags.HasErrors())
}

func TestNamespaceBracedAndUnbracedAreMutuallyExclusive(t *testing.T) {
	_, p := parseSrc(t, `<?php namespace Foo { echo 1; } namespace Bar; echo 2;`)
	assert.True(t, p.diags.HasErrors())
}

func TestUnbracedNamespaceCollectsFollowingStatements(t *testing.T) {
	stmts, p := parseSrc(t, `<?php namespace Foo; function a() {} function b() {}`)
	require.False(t, p.diags.HasErrors())
	require.Len(t, stmts, 1)
	ns, ok := stmts[0].(*ast.NamespaceStmt)
	require.True(t, ok)
	assert.Equal(t, "Foo", ns.Name)
	assert.Len(t, ns.Body, 2)
}

func TestGlobalAndStaticVar(t *testing.T) {
	stmts, p := parseSrc(t, `<?php function f() { global $a, $b; static $c = 1; }`)
	require.False(t, p.diags.HasErrors())
	fn := stmts[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Statements, 2)
	g, ok := fn.Body.Statements[0].(*ast.GlobalStmt)
	require.True(t, ok)
	assert.Len(t, g.Variables, 2)
	_, ok = fn.Body.Statements[1].(*ast.StaticVarStmt)
	assert.True(t, ok)
}

func TestSwitchWithMultipleCases(t *testing.T) {
	stmts, p := parseSrc(t, `<?php switch ($x) { case 1: echo "a"; break; case 2: case 3: echo "b"; break; default: echo "c"; }`)
	require.False(t, p.diags.HasErrors())
	sw := stmts[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 4)
	assert.True(t, sw.Cases[3].IsDefault)
}

func TestGotoAndLabel(t *testing.T) {
	stmts, p := parseSrc(t, `<?php goto end; echo "skipped"; end: echo "done";`)
	require.False(t, p.diags.HasErrors())
	_, ok := stmts[0].(*ast.GotoStmt)
	assert.True(t, ok)
}
