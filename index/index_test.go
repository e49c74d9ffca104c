package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/parser"
)

func indexSrc(t *testing.T, ix *Index, path string, file bytestring.FileID, src string) {
	t.Helper()
	stmts, diags := parser.Parse(src, file)
	require.False(t, diags.HasErrors(), "diags: %v", diags)
	ix.IndexFile(path, file, stmts)
}

func TestIndexFunctionSignature(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "a.php", 1, `<?php function add(int $a, int $b): int { return $a + $b; }`)

	fn, ok := ix.GetFunction("add")
	require.True(t, ok)
	assert.Equal(t, "add", fn.ShortName)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.ReturnType)
}

func TestIndexClassWithNamespace(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "a.php", 1, `<?php
namespace App\Util;
class Helper {
    public int $count;
    public function run(): void {}
}`)

	cl, ok := ix.GetClass(`App\Util\Helper`)
	require.True(t, ok)
	assert.Equal(t, "Helper", cl.ShortName)
	assert.Equal(t, `App\Util`, cl.Namespace)
	require.Contains(t, cl.Methods, "run")
	require.Contains(t, cl.Properties, "count")
}

func TestIndexClassExtendsAndImplements(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "a.php", 1, `<?php
class Base {}
interface Shape {}
class Circle extends Base implements Shape {}`)

	cl, ok := ix.GetClass("Circle")
	require.True(t, ok)
	assert.Equal(t, "Base", cl.Parent)
	assert.Contains(t, cl.Interfaces, "Shape")
}

func TestIndexIsOrderInsensitiveAcrossFiles(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "b.php", 2, `<?php class UsesA { public function m(A $a) {} }`)
	indexSrc(t, ix, "a.php", 1, `<?php class A {}`)

	_, ok := ix.GetClass("A")
	assert.True(t, ok)
	_, ok = ix.GetClass("UsesA")
	assert.True(t, ok)
}

func TestSearchFunctionsSubstring(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "a.php", 1, `<?php
function fetch_user() {}
function fetch_order() {}
function save_user() {}`)

	results := ix.SearchFunctions("fetch_")
	assert.Len(t, results, 2)
}

func TestIndexFunctionInConditionalInsideNamespace(t *testing.T) {
	ix := New()
	indexSrc(t, ix, "a.php", 1, `<?php
namespace App;
if (true) {
    function conditional_fn() {}
}`)
	_, ok := ix.GetFunction(`App\conditional_fn`)
	assert.True(t, ok)
}
