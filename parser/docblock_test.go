package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/ast"
	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/diag"
)

func parseDoc(t *testing.T, s string) *ast.Type {
	t.Helper()
	var diags diag.List
	ty := ParseDocblockType(s, 0, bytestring.NoFile, &diags)
	require.False(t, diags.HasErrors(), "diags: %v", diags)
	require.NotNil(t, ty)
	return ty
}

func TestDocGeneric(t *testing.T) {
	ty := parseDoc(t, "Collection<int, string>")
	assert.Equal(t, ast.TGeneric, ty.Kind)
	assert.Equal(t, "Collection", ty.Name)
	assert.Len(t, ty.Inner, 2)
}

func TestDocTypedArrayShorthand(t *testing.T) {
	ty := parseDoc(t, "int[]")
	assert.Equal(t, ast.TTypedArray, ty.Kind)
	require.NotNil(t, ty.Value)
	assert.Equal(t, ast.TInt, ty.Value.Kind)
}

func TestDocArrayGenericBecomesTypedArray(t *testing.T) {
	ty := parseDoc(t, "array<string, int>")
	assert.Equal(t, ast.TTypedArray, ty.Kind)
	require.NotNil(t, ty.Key)
	require.NotNil(t, ty.Value)
	assert.Equal(t, ast.TString, ty.Key.Kind)
	assert.Equal(t, ast.TInt, ty.Value.Kind)
}

func TestDocShape(t *testing.T) {
	ty := parseDoc(t, "array{name: string, age?: int}")
	assert.Equal(t, ast.TShape, ty.Kind)
	require.Len(t, ty.Shape, 2)
	assert.Equal(t, "name", ty.Shape[0].Key)
	assert.True(t, ty.Shape[1].Optional)
}

func TestDocCallable(t *testing.T) {
	ty := parseDoc(t, "callable(int, string): bool")
	assert.Equal(t, ast.TCallableSig, ty.Kind)
	require.Len(t, ty.CallableParams, 2)
	require.NotNil(t, ty.CallableReturn)
	assert.Equal(t, ast.TBool, ty.CallableReturn.Kind)
}

func TestDocLiteralRefinements(t *testing.T) {
	for name, kind := range map[string]ast.TypeKind{
		"positive-int":     ast.TPositiveInt,
		"non-empty-string": ast.TNonEmptyString,
		"class-string":     ast.TClassString,
	} {
		ty := parseDoc(t, name)
		assert.Equal(t, kind, ty.Kind, "for %s", name)
	}
}

func TestDocUnsealedShape(t *testing.T) {
	ty := parseDoc(t, "array{name: string, ...<int>}")
	assert.Equal(t, ast.TShape, ty.Kind)
	assert.False(t, ty.ShapeSealed)
	require.NotNil(t, ty.ShapeUnsealedValue)
	assert.Equal(t, ast.TInt, ty.ShapeUnsealedValue.Kind)
	require.Len(t, ty.Shape, 1)
}

func TestDocConditionalType(t *testing.T) {
	ty := parseDoc(t, "($x is int ? string : bool)")
	assert.Equal(t, ast.TConditionalParam, ty.Kind)
}
