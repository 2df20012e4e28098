// Copyright © 2024 The ELPS authors

package fir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeOf(t *testing.T, pkgs ...*Package) *PackageStore {
	t.Helper()
	store := NewPackageStore()
	for _, pkg := range pkgs {
		require.NoError(t, store.Insert(pkg))
	}
	return store
}

func TestPackageStore_TopoOrder(t *testing.T) {
	store := storeOf(t,
		NewPackage(3, "user", 2, 0),
		NewPackage(2, "std", 0),
		NewPackage(0, "core"),
		NewPackage(1, "other", 0),
	)
	order, err := store.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []PackageID{0, 1, 2, 3}, order)
}

func TestPackageStore_TopoOrder_DependencyFirst(t *testing.T) {
	store := storeOf(t,
		NewPackage(0, "user", 5),
		NewPackage(5, "core"),
	)
	order, err := store.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []PackageID{5, 0}, order)
}

func TestPackageStore_TopoOrder_Cycle(t *testing.T) {
	store := storeOf(t,
		NewPackage(0, "a", 1),
		NewPackage(1, "b", 0),
	)
	_, err := store.TopoOrder()
	assert.ErrorIs(t, err, ErrDependencyCycle)
}

func TestPackageStore_TopoOrder_Missing(t *testing.T) {
	store := storeOf(t, NewPackage(0, "a", 7))
	_, err := store.TopoOrder()
	assert.ErrorIs(t, err, ErrUnknownPackage)
}

func TestPackageStore_InsertReplace(t *testing.T) {
	store := storeOf(t, NewPackage(0, "core"))
	assert.ErrorIs(t, store.Insert(NewPackage(0, "again")), ErrDuplicatePackage)
	assert.ErrorIs(t, store.Replace(NewPackage(1, "nope")), ErrUnknownPackage)

	edited := NewPackage(0, "core-edited")
	require.NoError(t, store.Replace(edited))
	assert.Same(t, edited, store.Get(0))
	assert.Equal(t, 1, store.Len())
}

func TestPackageStore_Dependents(t *testing.T) {
	store := storeOf(t,
		NewPackage(0, "core"),
		NewPackage(1, "std", 0),
		NewPackage(2, "user", 1, 0),
	)
	assert.Equal(t, []PackageID{1, 2}, store.Dependents(0))
	assert.Equal(t, []PackageID{2}, store.Dependents(1))
	assert.Empty(t, store.Dependents(2))
}

func TestPackage_Accessors_OutOfRange(t *testing.T) {
	pkg := NewPackage(0, "empty")
	assert.Nil(t, pkg.Expr(0))
	assert.Nil(t, pkg.Expr(NoExpr))
	assert.Nil(t, pkg.Block(3))
	assert.Nil(t, pkg.Callable(0))
	assert.Equal(t, NoExpr, pkg.Entry)
}
