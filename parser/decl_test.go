package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/ast"
)

func TestParseClassWithPromotedConstructorProperty(t *testing.T) {
	stmts, p := parseSrc(t, `<?php
class Point {
    public function __construct(public readonly int $x, public readonly int $y) {}
}`)
	require.False(t, p.diags.HasErrors())
	cl := stmts[0].(*ast.ClassLike)
	require.Len(t, cl.Methods, 1)
	params := cl.Methods[0].Params
	require.Len(t, params, 2)
	assert.Equal(t, "public", params[0].PromoteVisibility)
	assert.True(t, params[0].PromoteReadonly)
}

func TestVariadicPromotedPropertyIsDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php
class C {
    public function __construct(public int ...$xs) {}
}`)
	assert.True(t, p.diags.HasErrors())
}

func TestFinalAndAbstractConflict(t *testing.T) {
	_, p := parseSrc(t, `<?php abstract final class C {}`)
	assert.True(t, p.diags.HasErrors())
}

func TestReadonlyPropertyRequiresType(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { public readonly $x; }`)
	assert.True(t, p.diags.HasErrors())
}

func TestReadonlyPropertyCannotHaveDefault(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { public readonly int $x = 1; }`)
	assert.True(t, p.diags.HasErrors())
}

func TestStaticReadonlyPropertyConflict(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { public static readonly int $x; }`)
	assert.True(t, p.diags.HasErrors())
}

func TestBackedEnumWithStringType(t *testing.T) {
	stmts, p := parseSrc(t, `<?php enum Suit: string { case Hearts = "H"; case Spades = "S"; }`)
	require.False(t, p.diags.HasErrors())
	cl := stmts[0].(*ast.ClassLike)
	assert.Equal(t, ast.EnumKind, cl.Kind)
	require.NotNil(t, cl.BackingType)
	require.Len(t, cl.EnumCases, 2)
	assert.NotNil(t, cl.EnumCases[0].Value)
}

func TestInvalidBackedEnumType(t *testing.T) {
	_, p := parseSrc(t, `<?php enum Suit: float { case Hearts; }`)
	assert.True(t, p.diags.HasErrors())
}

func TestTraitUseWithAdaptations(t *testing.T) {
	stmts, p := parseSrc(t, `<?php
class C {
    use A, B {
        A::foo insteadof B;
        B::bar as protected baz;
    }
}`)
	require.False(t, p.diags.HasErrors())
	cl := stmts[0].(*ast.ClassLike)
	require.Len(t, cl.TraitUses, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, cl.TraitUses[0].Traits)
	require.Len(t, cl.TraitUses[0].Adaptations, 2)
}

func TestAbstractMethodWithBodyInNonAbstractClass(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { abstract public function f() {} }`)
	assert.True(t, p.diags.HasErrors())
}

func TestMultipleVisibilityModifiersDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { public private int $x; }`)
	assert.True(t, p.diags.HasErrors())
}

func TestFinalPrivateConstantDiagnosed(t *testing.T) {
	_, p := parseSrc(t, `<?php class C { final private const X = 1; }`)
	assert.True(t, p.diags.HasErrors())
}
