// Copyright © 2024 The ELPS authors

package fir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_InfersTypes(t *testing.T) {
	core := NewBuilder(nil, 0, "core")
	m := core.DeclareIntrinsic(CallableOperation, "M", []Param{{Name: "q", Ty: TyQubit}}, TyResult, FunctorSetEmpty)
	store := storeOf(t, core.Package())

	b := NewBuilder(store, 1, "user", 0)
	_, params := b.DeclareCallable(CallableOperation, "Main", []Param{{Name: "q", Ty: TyQubit}}, TyResult, FunctorSetEmpty)
	mRef := b.ItemVar(StoreItemID{Package: 0, Item: m})
	assert.True(t, ArrowOf(CallableOperation, TyQubit, TyResult, FunctorSetEmpty).Equal(b.Ty(mRef)))

	call := b.Call(mRef, b.Var(params[0]))
	assert.True(t, TyResult.Equal(b.Ty(call)))

	cmp := b.BinOp(BinOpEq, call, b.Zero())
	assert.True(t, TyBool.Equal(b.Ty(cmp)))

	arr := b.Array(b.Int(1), b.Int(2))
	assert.True(t, ArrayOf(TyInt).Equal(b.Ty(arr)))
	assert.True(t, TyInt.Equal(b.Ty(b.Index(arr, b.Int(0)))))
	slice := b.Index(arr, b.Range(b.Int(0), NoExpr, b.Int(1)))
	assert.True(t, ArrayOf(TyInt).Equal(b.Ty(slice)))

	ctl := b.Controlled(mRef)
	want := ArrowOf(CallableOperation, TupleOf(ArrayOf(TyQubit), TyQubit), TyResult, FunctorSetEmpty)
	assert.True(t, want.Equal(b.Ty(ctl)))

	stmt := b.ExprStmt(b.If(cmp, b.Int(1), b.Int(2)))
	blk := b.Block(stmt)
	assert.True(t, TyInt.Equal(b.Package().Block(blk).Ty))
	assert.True(t, TyUnit.Equal(b.Package().Block(b.Block(b.SemiStmt(cmp))).Ty))
}

func TestBuilder_UnknownPackagePanics(t *testing.T) {
	b := NewBuilder(nil, 1, "user")
	assert.Panics(t, func() {
		b.ItemVar(StoreItemID{Package: 0, Item: 0})
	})
}

func TestBuilder_InputPatterns(t *testing.T) {
	b := NewBuilder(nil, 0, "p")
	unary, locals := b.DeclareCallable(CallableFunction, "F", []Param{{Name: "x", Ty: TyInt}}, TyInt, FunctorSetEmpty)
	pkg := b.Package()
	require.Len(t, locals, 1)
	assert.IsType(t, PatBind{}, pkg.Pat(pkg.Callable(unary).Input).Kind)

	binary, locals := b.DeclareCallable(CallableFunction, "G", []Param{{Name: "x", Ty: TyInt}, {Name: "y", Ty: TyBool}}, TyInt, FunctorSetEmpty)
	require.Len(t, locals, 2)
	input := pkg.Pat(pkg.Callable(binary).Input)
	assert.IsType(t, PatTuple{}, input.Kind)
	assert.True(t, TupleOf(TyInt, TyBool).Equal(input.Ty))
	assert.Equal(t, locals, pkg.PatLocals(pkg.Callable(binary).Input))

	nullary, locals := b.DeclareCallable(CallableFunction, "H", nil, TyInt, FunctorSetEmpty)
	assert.Empty(t, locals)
	assert.True(t, pkg.Pat(pkg.Callable(nullary).Input).Ty.IsUnit())
}

func TestBuilder_Lambda(t *testing.T) {
	b := NewBuilder(nil, 0, "p")
	_, outer := b.DeclareCallable(CallableFunction, "Outer", []Param{{Name: "k", Ty: TyInt}}, TyInt, FunctorSetEmpty)
	lambda, captured, params := b.DeclareLambda(CallableFunction, outer, []Param{{Name: "x", Ty: TyInt}}, TyInt)
	require.Len(t, captured, 1)
	require.Len(t, params, 1)
	b.Spec(lambda, FunctorBody, b.Block(b.ExprStmt(b.BinOp(BinOpAdd, b.Var(captured[0]), b.Var(params[0])))))

	closure := b.Closure(outer, lambda)
	assert.True(t, ArrowOf(CallableFunction, TyInt, TyInt, FunctorSetEmpty).Equal(b.Ty(closure)))

	pkg := b.Package()
	input := pkg.Pat(pkg.Callable(lambda).Input)
	tuple, ok := input.Kind.(PatTuple)
	require.True(t, ok)
	assert.Len(t, tuple.Items, 2)
	assert.Equal(t, append(captured, params...), pkg.PatLocals(pkg.Callable(lambda).Input))
}

func TestWalk_EvaluationOrder(t *testing.T) {
	b := NewBuilder(nil, 0, "p")
	x := b.Int(1)
	y := b.Int(2)
	sum := b.BinOp(BinOpAdd, x, y)
	let, _ := b.Let("s", sum)
	blk := b.Block(let)
	f, _ := b.DeclareCallable(CallableFunction, "F", nil, TyUnit, FunctorSetEmpty)
	b.Spec(f, FunctorBody, blk)
	pkg := b.Package()

	var visited []Node
	var depths []int
	pkg.Walk(pkg.Roots(), func(n, _ Node, depth int) bool {
		visited = append(visited, n)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []Node{
		BlockNode(blk),
		StmtNode(let),
		PatNode(0),
		ExprNode(sum),
		ExprNode(x),
		ExprNode(y),
	}, visited)
	assert.Equal(t, []int{0, 1, 2, 2, 3, 3}, depths)
}

func TestWalk_SkipChildren(t *testing.T) {
	b := NewBuilder(nil, 0, "p")
	inner := b.Block(b.ExprStmt(b.Int(1)))
	outer := b.ExprStmt(b.BlockExpr(inner))
	b.AddTopLevel(outer)
	pkg := b.Package()

	count := 0
	pkg.Walk(pkg.Roots(), func(n, parent Node, _ int) bool {
		count++
		if n.Kind == NodeExpr {
			assert.Equal(t, StmtNode(outer), parent)
			return false
		}
		return true
	})
	assert.Equal(t, 2, count)
}

func TestRoots_SkipsGeneratedSpecs(t *testing.T) {
	b := NewBuilder(nil, 0, "p")
	op, _ := b.DeclareCallable(CallableOperation, "Op", nil, TyUnit, FunctorSetAdj)
	body := b.Block()
	b.Spec(op, FunctorBody, body)
	b.GenSpec(op, FunctorAdj, SpecSelf)
	b.SetEntry(b.CallItem(StoreItemID{Package: 0, Item: op}))
	pkg := b.Package()
	assert.Equal(t, []Node{BlockNode(body), ExprNode(pkg.Entry)}, pkg.Roots())
}
