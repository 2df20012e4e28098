// Copyright © 2024 The ELPS authors

// Package rcatest provides packages and assertions shared by the tests of
// the runtime capabilities analysis.
package rcatest

import (
	"github.com/luthersystems/qrca/fir"
)

// CoreID is the package ID of the core library built by NewCore.
const CoreID fir.PackageID = 0

// Core holds the items of a minimal intrinsic library.
type Core struct {
	Package *fir.Package

	M           fir.StoreItemID // operation (Qubit) => Result
	H           fir.StoreItemID // operation (Qubit) => Unit is Adj + Ctl
	X           fir.StoreItemID // operation (Qubit) => Unit is Adj + Ctl
	Rx          fir.StoreItemID // operation (Double, Qubit) => Unit is Adj + Ctl
	Allocate    fir.StoreItemID // operation Unit => Qubit
	AllocArray  fir.StoreItemID // operation (Int) => Qubit[]
	Release     fir.StoreItemID // operation (Qubit) => Unit
	Length      fir.StoreItemID // function (Qubit[]) -> Int
	IntAsDouble fir.StoreItemID // function (Int) -> Double
	Message     fir.StoreItemID // function (String) -> Unit
	MeasureEach fir.StoreItemID // operation (Qubit[]) => Result[]
}

// NewCore builds the core library and inserts it into store.
func NewCore(store *fir.PackageStore) *Core {
	b := fir.NewBuilder(store, CoreID, "core")
	intrinsic := func(kind fir.CallableKind, name string, params []fir.Param, output fir.Ty, functors fir.FunctorSet) fir.StoreItemID {
		return fir.StoreItemID{Package: CoreID, Item: b.DeclareIntrinsic(kind, name, params, output, functors)}
	}
	qubit := []fir.Param{{Name: "q", Ty: fir.TyQubit}}
	qubits := []fir.Param{{Name: "qs", Ty: fir.ArrayOf(fir.TyQubit)}}
	op, fn := fir.CallableOperation, fir.CallableFunction

	c := &Core{}
	c.M = intrinsic(op, "M", qubit, fir.TyResult, fir.FunctorSetEmpty)
	c.H = intrinsic(op, "H", qubit, fir.TyUnit, fir.FunctorSetAdjCtl)
	c.X = intrinsic(op, "X", qubit, fir.TyUnit, fir.FunctorSetAdjCtl)
	c.Rx = intrinsic(op, "Rx", []fir.Param{{Name: "theta", Ty: fir.TyDouble}, {Name: "q", Ty: fir.TyQubit}},
		fir.TyUnit, fir.FunctorSetAdjCtl)
	c.Allocate = intrinsic(op, "__quantum__rt__qubit_allocate", nil, fir.TyQubit, fir.FunctorSetEmpty)
	c.AllocArray = intrinsic(op, "__quantum__rt__qubit_allocate_array", []fir.Param{{Name: "n", Ty: fir.TyInt}},
		fir.ArrayOf(fir.TyQubit), fir.FunctorSetEmpty)
	c.Release = intrinsic(op, "__quantum__rt__qubit_release", qubit, fir.TyUnit, fir.FunctorSetEmpty)
	c.Length = intrinsic(fn, "Length", qubits, fir.TyInt, fir.FunctorSetEmpty)
	c.IntAsDouble = intrinsic(fn, "IntAsDouble", []fir.Param{{Name: "n", Ty: fir.TyInt}}, fir.TyDouble, fir.FunctorSetEmpty)
	c.Message = intrinsic(fn, "Message", []fir.Param{{Name: "msg", Ty: fir.TyString}}, fir.TyUnit, fir.FunctorSetEmpty)
	c.MeasureEach = intrinsic(op, "MeasureEach", qubits, fir.ArrayOf(fir.TyResult), fir.FunctorSetEmpty)
	c.Package = b.Package()
	if err := store.Insert(c.Package); err != nil {
		panic(err)
	}
	return c
}

// NewStore returns a store holding only the core library.
func NewStore() (*fir.PackageStore, *Core) {
	store := fir.NewPackageStore()
	return store, NewCore(store)
}

// MeasureBool appends to b an expression measuring q and comparing the
// result with One.
func (c *Core) MeasureBool(b *fir.Builder, q fir.ExprID) fir.ExprID {
	return b.BinOp(fir.BinOpEq, b.CallItem(c.M, q), b.One())
}

// AllocQubit appends a statement binding a fresh qubit and returns its
// local.
func (c *Core) AllocQubit(b *fir.Builder, name string) (fir.StmtID, fir.LocalVarID) {
	return b.Let(name, b.CallItem(c.Allocate))
}
