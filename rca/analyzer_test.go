// Copyright © 2024 The ELPS authors

package rca_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
	"github.com/luthersystems/qrca/rcatest"
)

const (
	op = fir.CallableOperation
	fn = fir.CallableFunction
)

const userID fir.PackageID = 1

func body(id fir.LocalItemID) fir.StoreSpecID {
	return fir.StoreSpecID{Package: userID, Item: id, Functor: fir.FunctorBody}
}

func exprID(id fir.ExprID) fir.StoreExprID {
	return fir.StoreExprID{Package: userID, Expr: id}
}

func pattern(t *testing.T, key string) rca.ParamPattern {
	p, err := rca.ParseParamPattern(key)
	require.NoError(t, err)
	return p
}

func application(t *testing.T, set *rca.ApplicationsGeneratorSet, key string) rca.ComputeKind {
	t.Helper()
	k, ok := set.Application(pattern(t, key))
	require.True(t, ok, "no application %q", key)
	return k
}

// dynamicInt binds a local to an Int chosen by a measurement.
func dynamicInt(b *fir.Builder, core *rcatest.Core, q fir.LocalVarID, name string) (fir.StmtID, fir.LocalVarID) {
	choice := b.If(core.MeasureBool(b, b.Var(q)),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(1)))),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(0)))))
	return b.Let(name, choice)
}

func analyze(t *testing.T, store *fir.PackageStore) *rca.PackageStoreComputeProperties {
	return rca.New(store, rca.WithLogger(rcatest.Slog(t))).AnalyzeAll(context.Background())
}

func TestMeasurementResultIsDynamic(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	main, _ := b.DeclareCallable(op, "Main", nil, fir.TyResult, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	h := b.SemiStmt(b.CallItem(core.H, b.Var(q)))
	b.Spec(main, fir.FunctorBody, b.Block(alloc, h, b.ExprStmt(b.CallItem(core.M, b.Var(q)))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(main))
	assert.Equal(t, rca.Quantum(0, rca.ElementKind(rca.Dynamic)), set.Inherent)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, []fir.PackageID{rcatest.CoreID, userID}, props.Packages())
}

func TestDynamicBranch(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	foo, _ := b.DeclareCallable(op, "Foo", nil, fir.TyInt, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	then := b.BlockExpr(b.Block(b.ExprStmt(b.Int(1))))
	branch := b.If(core.MeasureBool(b, b.Var(q)), then, b.BlockExpr(b.Block(b.ExprStmt(b.Int(0)))))
	b.Spec(foo, fir.FunctorBody, b.Block(alloc, b.ExprStmt(branch)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	want := rca.Quantum(rca.UseOfDynamicBool, rca.ElementKind(rca.Dynamic))
	assert.Equal(t, want, props.Spec(body(foo)).Inherent)
	assert.Equal(t, want, props.Expr(exprID(branch)).Inherent)
	assert.Equal(t, rca.Classical, props.Expr(exprID(then)).Inherent)
}

func TestParameterApplications(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	add, params := b.DeclareCallable(fn, "Add",
		[]fir.Param{{Name: "a", Ty: fir.TyInt}, {Name: "b", Ty: fir.TyInt}}, fir.TyInt, fir.FunctorSetEmpty)
	b.Spec(add, fir.FunctorBody, b.Block(b.ExprStmt(b.BinOp(fir.BinOpAdd, b.Var(params[0]), b.Var(params[1])))))

	caller, _ := b.DeclareCallable(op, "Caller", nil, fir.TyInt, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	let, x := dynamicInt(b, core, q, "x")
	call := b.CallItem(fir.StoreItemID{Package: userID, Item: add}, b.Var(x), b.Int(2))
	b.Spec(caller, fir.FunctorBody, b.Block(alloc, let, b.ExprStmt(call)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(add))
	dynInt := rca.Quantum(rca.UseOfDynamicInt, rca.ElementKind(rca.Dynamic))
	assert.Equal(t, rca.Classical, set.Inherent)
	assert.Equal(t, []string{"0:e", "0:e,1:e", "1:e"}, set.Keys())
	assert.Equal(t, dynInt, application(t, set, "0:e"))
	assert.Equal(t, dynInt, application(t, set, "0:e,1:e"))
	rcatest.AssertMonotone(t, set)

	assert.Equal(t, dynInt, props.Expr(exprID(call)).Inherent)
	target, ok := props.CallTarget(exprID(call))
	assert.True(t, ok)
	assert.Equal(t, body(add), target)
}

func TestApplicationsAreMonotone(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	fill, params := b.DeclareCallable(fn, "Fill",
		[]fir.Param{{Name: "value", Ty: fir.TyInt}, {Name: "size", Ty: fir.TyInt}, {Name: "flag", Ty: fir.TyBool}},
		fir.ArrayOf(fir.TyInt), fir.FunctorSetEmpty)
	b.Spec(fill, fir.FunctorBody, b.Block(b.ExprStmt(b.ArrayRepeat(b.Var(params[0]), b.Var(params[1])))))

	caller, _ := b.DeclareCallable(op, "Caller", nil, fir.ArrayOf(fir.TyInt), fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	let, x := dynamicInt(b, core, q, "x")
	call := b.CallItem(fir.StoreItemID{Package: userID, Item: fill}, b.Var(x), b.Var(x), b.Bool(true))
	b.Spec(caller, fir.FunctorBody, b.Block(alloc, let, b.ExprStmt(call)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(fill))
	assert.Equal(t, rca.Classical, set.Inherent)
	assert.Equal(t, rca.Quantum(0, rca.ArrayKind(rca.Dynamic, rca.Static)), application(t, set, "0:e"))
	assert.Equal(t, rca.Quantum(rca.UseOfDynamicallySizedArray, rca.ArrayKind(rca.Static, rca.Dynamic)), application(t, set, "1:e"))
	assert.Equal(t, rca.Classical, application(t, set, "2:e"))

	// The call site pattern is composed from the single entries and
	// recorded.
	both := application(t, set, "0:e,1:e")
	assert.Equal(t, application(t, set, "0:e").Join(application(t, set, "1:e")), both)
	assert.Equal(t, both, application(t, set, "0:e,1:e,2:e"))
	rcatest.AssertMonotone(t, set)

	k, mode := set.Generate(pattern(t, "1:e,2:e"))
	assert.Equal(t, rca.GenerateComposed, mode)
	assert.Equal(t, application(t, set, "1:e"), k)
	all := application(t, set, "0:e,1:e,2:e")
	assert.True(t, all.Features().Has(k.Features()))
	assert.Equal(t, rca.Dynamic, all.ValueKind().Size)
}

func TestDynamicArrayBranch(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	pick, _ := b.DeclareCallable(op, "Pick", nil, fir.ArrayOf(fir.TyInt), fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	branch := b.If(core.MeasureBool(b, b.Var(q)),
		b.BlockExpr(b.Block(b.ExprStmt(b.Array(b.Int(1), b.Int(2))))),
		b.BlockExpr(b.Block(b.ExprStmt(b.Array(b.Int(3), b.Int(4))))))
	b.Spec(pick, fir.FunctorBody, b.Block(alloc, b.ExprStmt(branch)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	assert.Equal(t,
		rca.Quantum(rca.UseOfDynamicBool|rca.UseOfDynamicallySizedArray, rca.ArrayKind(rca.Dynamic, rca.Dynamic)),
		props.Expr(exprID(branch)).Inherent)
}

func TestCyclicOperation(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	rec, n := b.DeclareCallable(op, "Rec", []fir.Param{{Name: "n", Ty: fir.TyInt}}, fir.TyUnit, fir.FunctorSetEmpty)
	recur := b.SemiStmt(b.Call(b.LocalItemVar(rec), b.BinOp(fir.BinOpSub, b.Var(n[0]), b.Int(1))))
	cond := b.BinOp(fir.BinOpGt, b.Var(n[0]), b.Int(0))
	b.Spec(rec, fir.FunctorBody, b.Block(b.ExprStmt(b.If(cond, b.BlockExpr(b.Block(recur)), fir.NoExpr))))

	static, _ := b.DeclareCallable(op, "Static", nil, fir.TyUnit, fir.FunctorSetEmpty)
	b.Spec(static, fir.FunctorBody, b.Block(b.SemiStmt(b.Call(b.LocalItemVar(rec), b.Int(3)))))

	dynamic, _ := b.DeclareCallable(op, "Dynamic", nil, fir.TyUnit, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	let, x := dynamicInt(b, core, q, "x")
	b.Spec(dynamic, fir.FunctorBody, b.Block(alloc, let, b.SemiStmt(b.Call(b.LocalItemVar(rec), b.Var(x)))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	sp := props.SpecProperties(body(rec))
	assert.True(t, sp.Cyclic)
	assert.Equal(t, rca.Quantum(rca.CyclicOperationSpec, rca.ElementKind(rca.Static)), sp.Set.Inherent)
	assert.True(t, application(t, sp.Set, "0:e").Features().Has(rca.CallToCyclicOperationWithDynamicArg))

	staticKind := props.Spec(body(static)).Inherent
	assert.True(t, staticKind.Features().Has(rca.CyclicOperationSpec))
	assert.False(t, staticKind.Features().Has(rca.CallToCyclicOperationWithDynamicArg))

	dynamicKind := props.Spec(body(dynamic)).Inherent
	assert.True(t, dynamicKind.Features().Has(rca.CallToCyclicOperationWithDynamicArg))
	assert.False(t, props.SpecProperties(body(dynamic)).Cyclic)
}

func TestCyclicFunction(t *testing.T) {
	store, _ := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	fact, n := b.DeclareCallable(fn, "Fact", []fir.Param{{Name: "n", Ty: fir.TyInt}}, fir.TyInt, fir.FunctorSetEmpty)
	recur := b.BinOp(fir.BinOpMul, b.Var(n[0]),
		b.Call(b.LocalItemVar(fact), b.BinOp(fir.BinOpSub, b.Var(n[0]), b.Int(1))))
	branch := b.If(b.BinOp(fir.BinOpLte, b.Var(n[0]), b.Int(1)),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(1)))),
		b.BlockExpr(b.Block(b.ExprStmt(recur))))
	b.Spec(fact, fir.FunctorBody, b.Block(b.ExprStmt(branch)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(fact))
	assert.Equal(t, rca.Classical, set.Inherent)
	k := application(t, set, "0:e")
	assert.True(t, k.Features().Has(rca.CallToCyclicFunctionWithDynamicArg|rca.UseOfDynamicInt))
	assert.True(t, k.IsDynamic())
}

func TestArrayContentAndSize(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	arrays, _ := b.DeclareCallable(op, "Arrays", nil, fir.TyUnit, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	let, x := dynamicInt(b, core, q, "x")
	content := b.Array(b.Var(x), b.Var(x))
	sized := b.ArrayRepeat(b.Int(0), b.Var(x))
	letContent, _ := b.Let("content", content)
	letSized, _ := b.Let("sized", sized)
	b.Spec(arrays, fir.FunctorBody, b.Block(alloc, let, letContent, letSized))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	contentKind := props.Expr(exprID(content)).Inherent
	assert.Equal(t, rca.Quantum(0, rca.ArrayKind(rca.Dynamic, rca.Static)), contentKind)
	assert.False(t, contentKind.Features().Has(rca.UseOfDynamicallySizedArray))

	sizedKind := props.Expr(exprID(sized)).Inherent
	assert.Equal(t, rca.Quantum(rca.UseOfDynamicallySizedArray, rca.ArrayKind(rca.Static, rca.Dynamic)), sizedKind)
}

func TestInterpolatedString(t *testing.T) {
	store, _ := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	greet, n := b.DeclareCallable(fn, "Greet", []fir.Param{{Name: "n", Ty: fir.TyInt}}, fir.TyString, fir.FunctorSetEmpty)
	b.Spec(greet, fir.FunctorBody, b.Block(b.ExprStmt(b.InterpStr(fir.Text("n = "), fir.Interp(b.Var(n[0]))))))
	lit, _ := b.DeclareCallable(fn, "Literal", nil, fir.TyString, fir.FunctorSetEmpty)
	b.Spec(lit, fir.FunctorBody, b.Block(b.ExprStmt(b.Str("hello"))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(greet))
	assert.Equal(t, rca.Classical, set.Inherent)
	assert.Equal(t, rca.Quantum(rca.UseOfDynamicString, rca.ElementKind(rca.Dynamic)), application(t, set, "0:e"))
	assert.Equal(t, rca.Classical, props.Spec(body(lit)).Inherent)
}

func TestDerivedSpecializations(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	opID, q := b.DeclareCallable(op, "Op", []fir.Param{{Name: "q", Ty: fir.TyQubit}}, fir.TyUnit, fir.FunctorSetAdjCtl)
	b.Spec(opID, fir.FunctorBody, b.Block(b.SemiStmt(b.CallItem(core.H, b.Var(q[0])))))
	b.GenSpec(opID, fir.FunctorAdj, fir.SpecSelf)
	b.GenSpec(opID, fir.FunctorCtl, fir.SpecDistribute)
	b.GenSpec(opID, fir.FunctorCtlAdj, fir.SpecAuto)

	user, locals := b.DeclareCallable(op, "UseCtl",
		[]fir.Param{{Name: "c", Ty: fir.TyQubit}, {Name: "t", Ty: fir.TyQubit}}, fir.TyUnit, fir.FunctorSetEmpty)
	call := b.Call(b.Controlled(b.LocalItemVar(opID)), b.Array(b.Var(locals[0])), b.Var(locals[1]))
	b.Spec(user, fir.FunctorBody, b.Block(b.SemiStmt(call)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	item := props.Item(fir.StoreItemID{Package: userID, Item: opID})
	require.True(t, item.Callable)
	assert.False(t, item.Spec(fir.FunctorBody).Derived)
	assert.Equal(t, &rca.SpecProperties{Derived: true, Source: fir.FunctorBody, Gen: fir.SpecSelf}, item.Spec(fir.FunctorAdj))
	assert.Equal(t, &rca.SpecProperties{Derived: true, Source: fir.FunctorBody, Gen: fir.SpecDistribute}, item.Spec(fir.FunctorCtl))
	assert.Equal(t, &rca.SpecProperties{Derived: true, Source: fir.FunctorAdj, Gen: fir.SpecAuto}, item.Spec(fir.FunctorCtlAdj))

	bodySet := props.Spec(body(opID))
	for _, f := range fir.Functors {
		assert.Same(t, bodySet, props.Spec(fir.StoreSpecID{Package: userID, Item: opID, Functor: f}), f.String())
	}

	target, ok := props.CallTarget(exprID(call))
	require.True(t, ok)
	assert.Equal(t, fir.StoreSpecID{Package: userID, Item: opID, Functor: fir.FunctorCtl}, target)
	assert.Equal(t, rca.Quantum(0, rca.ElementKind(rca.Static)), props.Expr(exprID(call)).Inherent)
}

func TestIntrinsicDerivedSpecializations(t *testing.T) {
	store, core := rcatest.NewStore()
	props := analyze(t, store)
	h := props.Item(core.H)
	assert.NotNil(t, h.Spec(fir.FunctorBody).Set)
	for _, f := range fir.Functors[1:] {
		if assert.NotNil(t, h.Spec(f), f.String()) {
			assert.True(t, h.Spec(f).Derived)
			assert.Equal(t, fir.FunctorBody, h.Spec(f).Source)
		}
	}
	m := props.Item(core.M)
	assert.Nil(t, m.Spec(fir.FunctorAdj))
	assert.Equal(t, rca.Quantum(0, rca.ElementKind(rca.Dynamic)), props.Spec(fir.StoreSpecID{Package: core.M.Package, Item: core.M.Item}).Inherent)

	length := props.Spec(fir.StoreSpecID{Package: core.Length.Package, Item: core.Length.Item})
	assert.Equal(t, rca.Classical, length.Inherent)
	assert.Equal(t, rca.Quantum(rca.UseOfDynamicallySizedArray|rca.UseOfDynamicInt, rca.ElementKind(rca.Dynamic)),
		application(t, length, "0:s"))
}

func TestClosureCall(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	main, _ := b.DeclareCallable(op, "Main", nil, fir.TyUnit, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	choice := b.If(core.MeasureBool(b, b.Var(q)),
		b.BlockExpr(b.Block(b.ExprStmt(b.Double(1)))),
		b.BlockExpr(b.Block(b.ExprStmt(b.Double(0)))))
	let, theta := b.Let("theta", choice)

	lambda, captured, params := b.DeclareLambda(op, []fir.LocalVarID{theta}, []fir.Param{{Name: "target", Ty: fir.TyQubit}}, fir.TyUnit)
	b.Spec(lambda, fir.FunctorBody, b.Block(b.SemiStmt(b.CallItem(core.Rx, b.Var(captured[0]), b.Var(params[0])))))

	call := b.Call(b.Closure([]fir.LocalVarID{theta}, lambda), b.Var(q))
	b.Spec(main, fir.FunctorBody, b.Block(alloc, let, b.SemiStmt(call)))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	assert.True(t, props.Expr(exprID(call)).Inherent.Features().Has(rca.UseOfDynamicDouble))
	target, ok := props.CallTarget(exprID(call))
	require.True(t, ok)
	assert.Equal(t, body(lambda), target)
	assert.Equal(t, rca.Quantum(rca.UseOfDynamicDouble, rca.ElementKind(rca.Static)), application(t, props.Spec(body(lambda)), "0:e"))
}

func TestUnresolvedCallee(t *testing.T) {
	store, _ := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	arrow := fir.ArrowOf(op, fir.TyQubit, fir.TyUnit, fir.FunctorSetEmpty)
	apply, params := b.DeclareCallable(op, "Apply",
		[]fir.Param{{Name: "op", Ty: arrow}, {Name: "q", Ty: fir.TyQubit}}, fir.TyUnit, fir.FunctorSetEmpty)
	b.Spec(apply, fir.FunctorBody, b.Block(b.SemiStmt(b.Call(b.Var(params[0]), b.Var(params[1])))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	set := props.Spec(body(apply))
	assert.Equal(t, rca.Quantum(0, rca.ElementKind(rca.Static)), set.Inherent)
	assert.True(t, application(t, set, "0:e").Features().Has(rca.CallToDynamicCallee))
	assert.False(t, application(t, set, "1:e").Features().Has(rca.CallToDynamicCallee))
	for _, key := range set.Keys() {
		assert.False(t, application(t, set, key).Features().Has(rca.CallToUnresolvedCallee), key)
	}
}

func TestLoopWithDynamicCondition(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	loop, _ := b.DeclareCallable(op, "Loop", nil, fir.TyInt, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	init, count := b.Mutable("count", b.Int(0))
	cond := b.BinOp(fir.BinOpEq, b.CallItem(core.M, b.Var(q)), b.Zero())
	incr := b.AssignOp(fir.BinOpAdd, b.Var(count), b.Int(1))
	while := b.While(cond, b.Block(b.SemiStmt(incr)))
	b.Spec(loop, fir.FunctorBody, b.Block(alloc, init, b.SemiStmt(while), b.ExprStmt(b.Var(count))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	k := props.Spec(body(loop)).Inherent
	assert.True(t, k.IsDynamic())
	assert.True(t, k.Features().Has(rca.LoopWithDynamicCondition|rca.UseOfDynamicBool|rca.UseOfDynamicInt))
	assert.True(t, props.Expr(exprID(incr)).Inherent.Features().Has(rca.UseOfDynamicInt))
}

func TestDynamicScopeFeatures(t *testing.T) {
	store, core := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	measure, _ := b.DeclareCallable(op, "Measure", nil, fir.TyResult, fir.FunctorSetEmpty)
	alloc, q := core.AllocQubit(b, "q")
	early := b.BlockExpr(b.Block(b.SemiStmt(b.Return(b.CallItem(core.M, b.Var(q))))))
	branch := b.If(core.MeasureBool(b, b.Var(q)), early, fir.NoExpr)
	b.Spec(measure, fir.FunctorBody, b.Block(alloc, b.SemiStmt(branch), b.ExprStmt(b.CallItem(core.M, b.Var(q)))))
	require.NoError(t, store.Insert(b.Package()))

	props := analyze(t, store)
	k := props.Spec(body(measure)).Inherent
	assert.True(t, k.IsDynamic())
	assert.True(t, k.Features().Has(rca.MeasurementWithinDynamicScope|rca.ReturnWithinDynamicScope))
}

func TestAnalyzePackageAnalyzesDependencies(t *testing.T) {
	store, _ := rcatest.NewStore()
	b := fir.NewBuilder(store, userID, "user", rcatest.CoreID)
	require.NoError(t, store.Insert(b.Package()))

	a := rca.New(store)
	a.AnalyzePackage(context.Background(), userID)
	assert.Equal(t, rca.Done, a.Results().Status(rcatest.CoreID))
	assert.Equal(t, rca.Done, a.Results().Status(userID))
}

func TestAnalyzerPanics(t *testing.T) {
	store := fir.NewPackageStore()
	require.NoError(t, store.Insert(fir.NewPackage(1, "a", 2)))
	require.NoError(t, store.Insert(fir.NewPackage(2, "b", 1)))
	assert.Panics(t, func() { rca.Analyze(context.Background(), store) })

	store, _ = rcatest.NewStore()
	a := rca.New(store)
	assert.Panics(t, func() { a.AnalyzePackage(context.Background(), 7) })
	assert.Panics(t, func() { a.Results().Package(rcatest.CoreID) })
}
