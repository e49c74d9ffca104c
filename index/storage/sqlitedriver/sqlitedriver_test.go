package sqlitedriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/parser"
)

func TestSQLiteDriverStoreLoadRoundTrip(t *testing.T) {
	ix := index.New()
	stmts, diags := parser.Parse(`<?php
namespace App;
class Repo {
    public function find(int $id): ?Repo { return null; }
}
function helper(): int { return 1; }`, bytestring.FileID(1))
	require.False(t, diags.HasErrors())
	ix.IndexFile("app.php", 1, stmts)

	drv := &Driver{}
	store, err := drv.Open(map[string]string{"path": ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Store(ix.Snapshot()))

	snap, err := store.Load()
	require.NoError(t, err)

	require.Contains(t, snap.Classes, `App\Repo`)
	require.Contains(t, snap.Functions, `App\helper`)
	assert.Equal(t, "app.php", snap.Files[1])
}
