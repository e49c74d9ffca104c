package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/ast"
)

func parseOneParamType(t *testing.T, sig string) *ast.Type {
	t.Helper()
	stmts, p := parseSrc(t, `<?php function f(`+sig+` $x) {}`)
	require.False(t, p.diags.HasErrors())
	fn := stmts[0].(*ast.FunctionDecl)
	require.Len(t, fn.Params, 1)
	require.NotNil(t, fn.Params[0].Type)
	return fn.Params[0].Type
}

func TestParseNullableType(t *testing.T) {
	ty := parseOneParamType(t, "?int")
	assert.Equal(t, ast.TNullable, ty.Kind)
	require.Len(t, ty.Inner, 1)
	assert.Equal(t, ast.TInt, ty.Inner[0].Kind)
}

func TestParseUnionType(t *testing.T) {
	ty := parseOneParamType(t, "int|string")
	assert.Equal(t, ast.TUnion, ty.Kind)
	assert.Len(t, ty.Inner, 2)
}

func TestParseIntersectionType(t *testing.T) {
	ty := parseOneParamType(t, "Countable&Traversable")
	assert.Equal(t, ast.TIntersection, ty.Kind)
	assert.Len(t, ty.Inner, 2)
}

func TestParseDNFType(t *testing.T) {
	ty := parseOneParamType(t, "(A&B)|C")
	assert.Equal(t, ast.TUnion, ty.Kind)
	require.Len(t, ty.Inner, 2)
	assert.Equal(t, ast.TIntersection, ty.Inner[0].Kind)
}

func TestStandaloneMixedInsideUnionIsDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php function f(mixed|int $x) {}`)
	assert.True(t, p.diags.HasErrors())
}

func TestNestedDNFBeyondOneLevelIsDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php function f((A&B&(C|D)) $x) {}`)
	assert.True(t, p.diags.HasErrors())
}

func TestSelfStaticParentTypes(t *testing.T) {
	for _, name := range []string{"self", "static", "parent"} {
		ty := parseOneParamType(t, name)
		assert.NotEqual(t, ast.TMixed, ty.Kind, "type %q", name)
	}
}
