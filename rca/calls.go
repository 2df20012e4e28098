// Copyright © 2024 The ELPS authors

package rca

import "github.com/luthersystems/qrca/fir"

// callTarget is a statically resolved callee.
type callTarget struct {
	spec fir.StoreSpecID
	// controls counts the Controlled functors applied; each one wraps the
	// argument in a (controls, argument) tuple.
	controls int
	// captures are the locals a closure passes ahead of the argument.
	captures []fir.LocalVarID
	udt      bool
}

// resolve finds the callable a callee expression refers to, looking
// through functor applications.
func (w *walker) resolve(id fir.ExprID) (callTarget, bool) {
	e := w.pkg.Expr(id)
	if e == nil {
		return callTarget{}, false
	}
	switch x := e.Kind.(type) {
	case fir.ExprVar:
		if x.Res.Kind != fir.ResItem {
			return callTarget{}, false
		}
		pkg := w.run.a.store.Get(x.Res.Item.Package)
		if pkg == nil {
			return callTarget{}, false
		}
		item := pkg.Item(x.Res.Item.Item)
		if item == nil {
			return callTarget{}, false
		}
		switch item.Kind.(type) {
		case fir.ItemCallable:
			return callTarget{spec: fir.StoreSpecID{
				Package: x.Res.Item.Package,
				Item:    x.Res.Item.Item,
				Functor: fir.FunctorBody,
			}}, true
		case fir.ItemTy:
			return callTarget{udt: true}, true
		}
	case fir.ExprUnOp:
		if !x.Op.IsFunctor() {
			return callTarget{}, false
		}
		t, ok := w.resolve(x.Operand)
		if !ok || t.udt {
			return callTarget{}, false
		}
		if x.Op == fir.UnOpAdjoint {
			t.spec.Functor = t.spec.Functor.Adjoint()
		} else {
			t.spec.Functor = t.spec.Functor.Controlled()
			t.controls++
		}
		return t, true
	case fir.ExprClosure:
		return callTarget{
			spec:     fir.StoreSpecID{Package: w.pkg.ID, Item: x.Item, Functor: fir.FunctorBody},
			captures: x.Captures,
		}, true
	}
	return callTarget{}, false
}

// argTree mirrors the tuple structure of a call argument.
type argTree struct {
	kind  ComputeKind
	items []*argTree
}

func (w *walker) argTree(id fir.ExprID) *argTree {
	t := &argTree{kind: w.rec.exprs[id]}
	if e := w.pkg.Expr(id); e != nil {
		if tuple, ok := e.Kind.(fir.ExprTuple); ok {
			t.items = make([]*argTree, len(tuple.Items))
			for i, item := range tuple.Items {
				t.items[i] = w.argTree(item)
			}
		}
	}
	return t
}

// item returns the i-th element of a tuple argument.  An argument that is
// not a tuple expression stands for all of its elements.
func (t *argTree) item(i int) *argTree {
	if i >= len(t.items) {
		return &argTree{kind: t.kind}
	}
	return t.items[i]
}

func (t *argTree) at(path []int) ComputeKind {
	for _, i := range path {
		t = t.item(i)
	}
	return t.kind
}

// patternFor computes the dynamic parameter pattern of a call.
func patternFor(params []Param, args *argTree) ParamPattern {
	var p ParamPattern
	for _, param := range params {
		if d, ok := dynamismOf(args.at(param.Path).ValueKind(), param); ok {
			p = append(p, ParamEntry{Index: param.Index, Dynamism: d})
		}
	}
	return p
}

func (w *walker) call(id fir.ExprID, x fir.ExprCall) ComputeKind {
	ck := w.expr(x.Callee)
	ak := w.expr(x.Arg)
	base := ck.WithoutValue().JoinFeatures(ak)

	t, ok := w.resolve(x.Callee)
	switch {
	case !ok:
		return w.unresolvedCall(x, ck, ak, base)
	case t.udt:
		if ak.IsDynamic() {
			return Quantum(base.Features()|UseOfDynamicUdt, ElementKind(Dynamic))
		}
		return base
	}

	callee := w.run.callee(t.spec)
	args := w.argTree(x.Arg)
	for i := 0; i < t.controls; i++ {
		args = args.item(1)
	}
	if len(t.captures) > 0 {
		lifted := &argTree{kind: args.kind}
		for _, local := range t.captures {
			lifted.kind = lifted.kind.Join(w.local(local))
			lifted.items = append(lifted.items, &argTree{kind: w.local(local)})
		}
		lifted.items = append(lifted.items, args)
		args = lifted
	}
	pattern := patternFor(callee.set.Params(), args)
	rk, mode := callee.set.Generate(pattern)
	if mode == GenerateComposed && callee.owned {
		callee.set.Insert(pattern, rk)
	}

	k := base.Join(rk)
	if callee.cyclic && !pattern.IsEmpty() {
		if callee.decl.Kind == fir.CallableFunction {
			k = k.WithFeatures(CallToCyclicFunctionWithDynamicArg)
		} else {
			k = k.WithFeatures(CallToCyclicOperationWithDynamicArg)
		}
	}
	if callee.decl.Kind == fir.CallableOperation {
		k = w.measurementScope(k, rk)
	}
	w.run.scaffold.props.CallTargets[id] = t.spec
	return k
}

// measurementScope flags operations producing dynamic values while the
// enclosing control flow itself depends on dynamic values.
func (w *walker) measurementScope(k, result ComputeKind) ComputeKind {
	if w.dynamicScopes > 0 && result.IsDynamic() {
		return k.WithFeatures(MeasurementWithinDynamicScope)
	}
	return k
}

// unresolvedCall computes a call whose callee is only known by its type.
// The callee is treated as an intrinsic of its signature.  Calling a
// dynamically chosen callee, or one that cannot be traced to a parameter
// or local, needs runtime support of its own.
func (w *walker) unresolvedCall(x fir.ExprCall, ck, ak, base ComputeKind) ComputeKind {
	var flags RuntimeFeatureFlags
	switch {
	case ck.IsDynamic():
		flags = CallToDynamicCallee
	case !w.isLocalCallee(x.Callee):
		flags = CallToUnresolvedCallee
	}
	calleeTy := w.ty(x.Callee)
	if calleeTy.Kind != fir.TyArrow || calleeTy.Arrow == nil {
		return base.WithFeatures(flags)
	}
	arrow := calleeTy.Arrow
	params := []Param{{Index: 0, Local: fir.NoLocal, Ty: arrow.Input, Array: arrow.Input.IsArray()}}
	sig := signatureSet(arrow.Kind, arrow.Output, params)
	rk, _ := sig.Generate(patternFor(params, &argTree{kind: ak}))
	k := base.Join(rk).WithFeatures(flags)
	if arrow.Kind == fir.CallableOperation {
		k = w.measurementScope(k, rk)
	}
	return k
}

// isLocalCallee reports whether a callee is a local or parameter, possibly
// under functor applications.
func (w *walker) isLocalCallee(id fir.ExprID) bool {
	e := w.pkg.Expr(id)
	if e == nil {
		return false
	}
	switch x := e.Kind.(type) {
	case fir.ExprVar:
		return x.Res.Kind == fir.ResLocal
	case fir.ExprUnOp:
		return x.Op.IsFunctor() && w.isLocalCallee(x.Operand)
	default:
		return false
	}
}
