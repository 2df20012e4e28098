// Copyright © 2024 The ELPS authors

package rca

import "github.com/luthersystems/qrca/fir"

// localKind is the kind a binding takes from a value: only the dynamism
// of the value is kept, shaped to the binding's type.  Features stay with
// the expression that produced them.
func localKind(k ComputeKind, ty fir.Ty) ComputeKind {
	if !k.IsDynamic() {
		return Classical
	}
	return Quantum(0, k.ValueKind().Reshape(ty))
}

func (w *walker) local(id fir.LocalVarID) ComputeKind {
	return w.locals[id]
}

// bindPat binds the locals of pattern id to a value of kind k.  When init
// is a tuple expression matching a tuple pattern the items are bound
// element-wise; otherwise every binding takes the kind of the whole value.
func (w *walker) bindPat(id fir.PatID, init fir.ExprID, k ComputeKind) {
	pat := w.pkg.Pat(id)
	if pat == nil {
		return
	}
	switch p := pat.Kind.(type) {
	case fir.PatBind:
		w.locals[p.Local] = localKind(k, pat.Ty)
	case fir.PatTuple:
		var items []fir.ExprID
		if e := w.pkg.Expr(init); e != nil {
			if t, ok := e.Kind.(fir.ExprTuple); ok && len(t.Items) == len(p.Items) {
				items = t.Items
			}
		}
		for i, item := range p.Items {
			if items != nil {
				w.bindPat(item, items[i], w.rec.exprs[items[i]])
				continue
			}
			w.bindPat(item, fir.NoExpr, k)
		}
	}
}

// assignTo updates the locals written by an assignment target.  Inside a
// dynamic scope every written local becomes dynamic, and the features
// needed to hold it are returned.
func (w *walker) assignTo(lhs fir.ExprID, k ComputeKind) RuntimeFeatureFlags {
	e := w.pkg.Expr(lhs)
	if e == nil {
		return 0
	}
	switch x := e.Kind.(type) {
	case fir.ExprVar:
		if x.Res.Kind != fir.ResLocal {
			return 0
		}
		next := w.local(x.Res.Local).Join(localKind(k, e.Ty))
		var features RuntimeFeatureFlags
		if w.dynamicScopes > 0 {
			next = Quantum(0, DynamicValueFor(e.Ty))
			features = FeaturesForType(e.Ty)
		}
		w.locals[x.Res.Local] = next
		return features
	case fir.ExprTuple:
		var features RuntimeFeatureFlags
		for _, item := range x.Items {
			features |= w.assignTo(item, k)
		}
		return features
	default:
		return 0
	}
}

// updateElement marks the content of an array local as written with a
// value of kind k.
func (w *walker) updateElement(array fir.ExprID, k ComputeKind) RuntimeFeatureFlags {
	e := w.pkg.Expr(array)
	if e == nil {
		return 0
	}
	x, ok := e.Kind.(fir.ExprVar)
	if !ok || x.Res.Kind != fir.ResLocal {
		return 0
	}
	next := w.local(x.Res.Local)
	var features RuntimeFeatureFlags
	switch {
	case w.dynamicScopes > 0:
		next = next.Join(Quantum(0, ArrayKind(Dynamic, Static)))
		features = FeaturesForValue(ArrayKind(Dynamic, Static), e.Ty)
	case k.IsDynamic():
		next = next.Join(Quantum(0, ArrayKind(Dynamic, Static)))
	}
	w.locals[x.Res.Local] = next
	return features
}

type localsSnapshot map[fir.LocalVarID]ComputeKind

func (w *walker) snapshot() localsSnapshot {
	s := make(localsSnapshot, len(w.locals))
	for id, k := range w.locals {
		s[id] = k
	}
	return s
}

func (w *walker) unchangedSince(s localsSnapshot) bool {
	if len(s) != len(w.locals) {
		return false
	}
	for id, k := range w.locals {
		if prev, ok := s[id]; !ok || prev != k {
			return false
		}
	}
	return true
}
