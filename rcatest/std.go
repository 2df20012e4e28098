// Copyright © 2024 The ELPS authors

package rcatest

import (
	"github.com/luthersystems/qrca/fir"
)

// Std holds the items of a small library written on top of the core
// library.  Unlike core, its callables have bodies.
type Std struct {
	Package *fir.Package

	MeasureQubit fir.StoreItemID // operation (Qubit) => Result
	ResultAsInt  fir.StoreItemID // function (Result) -> Int
}

// NewStd builds the library as package id and inserts it into store,
// which must already hold core.
func NewStd(store *fir.PackageStore, core *Core, id fir.PackageID) *Std {
	b := fir.NewBuilder(store, id, "std", CoreID)

	measure, q := b.DeclareCallable(fir.CallableOperation, "MeasureQubit",
		[]fir.Param{{Name: "q", Ty: fir.TyQubit}}, fir.TyResult, fir.FunctorSetEmpty)
	b.Spec(measure, fir.FunctorBody, b.Block(b.ExprStmt(b.CallItem(core.M, b.Var(q[0])))))

	asInt, r := b.DeclareCallable(fir.CallableFunction, "ResultAsInt",
		[]fir.Param{{Name: "r", Ty: fir.TyResult}}, fir.TyInt, fir.FunctorSetEmpty)
	choice := b.If(b.BinOp(fir.BinOpEq, b.Var(r[0]), b.One()),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(1)))),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(0)))))
	b.Spec(asInt, fir.FunctorBody, b.Block(b.ExprStmt(choice)))

	s := &Std{
		Package:      b.Package(),
		MeasureQubit: fir.StoreItemID{Package: id, Item: measure},
		ResultAsInt:  fir.StoreItemID{Package: id, Item: asInt},
	}
	if err := store.Insert(s.Package); err != nil {
		panic(err)
	}
	return s
}
