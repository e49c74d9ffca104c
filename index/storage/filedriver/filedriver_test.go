package filedriver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/phpfront/bytestring"
	"github.com/vellumlang/phpfront/index"
	"github.com/vellumlang/phpfront/parser"
)

func TestFileDriverStoreLoadRoundTrip(t *testing.T) {
	ix := index.New()
	stmts, diags := parser.Parse(`<?php
class Greeter {
    public function greet(string $name): string { return "hi"; }
}
function top(): void {}`, bytestring.NoFile)
	require.False(t, diags.HasErrors())
	ix.IndexFile("<test>", bytestring.NoFile, stmts)

	path := filepath.Join(t.TempDir(), "index.gob")
	drv := &Driver{}
	store, err := drv.Open(map[string]string{"path": path})
	require.NoError(t, err)

	require.NoError(t, store.Store(ix.Snapshot()))

	store2, err := drv.Open(map[string]string{"path": path})
	require.NoError(t, err)
	snap, err := store2.Load()
	require.NoError(t, err)

	require.Contains(t, snap.Classes, "Greeter")
	require.Contains(t, snap.Functions, "top")
	assert.Contains(t, snap.Classes["Greeter"].Methods, "greet")
}

func TestFileDriverOpenWithoutPathErrors(t *testing.T) {
	drv := &Driver{}
	_, err := drv.Open(map[string]string{})
	assert.Error(t, err)
}
