// Copyright © 2024 The ELPS authors

package rca

import "github.com/luthersystems/qrca/fir"

// maxLoopPasses bounds the fixed-point iteration of loop bodies.  Local
// kinds only grow, so the bound is reached only by malformed packages.
const maxLoopPasses = 64

// walker computes the compute kind of every node of one region under a
// single assignment of parameter dynamism.
type walker struct {
	run    *packageRun
	pkg    *fir.Package
	rec    *recorder
	locals map[fir.LocalVarID]ComputeKind
	// dynamicScopes counts the enclosing constructs whose execution
	// depends on a dynamic value.
	dynamicScopes int
	returns       ComputeKind
}

func (r *packageRun) newWalker() *walker {
	return &walker{
		run:    r,
		pkg:    r.pkg,
		rec:    newRecorder(),
		locals: make(map[fir.LocalVarID]ComputeKind),
	}
}

// specBlock walks the body of a specialization.  Values returned early
// join the value of the block.
func (w *walker) specBlock(id fir.BlockID) ComputeKind {
	return w.block(id).Join(w.returns)
}

func (w *walker) ty(id fir.ExprID) fir.Ty {
	if e := w.pkg.Expr(id); e != nil {
		return e.Ty
	}
	return fir.TyUnit
}

func (w *walker) block(id fir.BlockID) ComputeKind {
	b := w.pkg.Block(id)
	if b == nil {
		return Classical
	}
	k := Classical
	tail := Classical
	for i, s := range b.Stmts {
		sk := w.stmt(s)
		k = k.JoinFeatures(sk)
		if i == len(b.Stmts)-1 {
			if _, ok := w.pkg.Stmt(s).Kind.(fir.StmtExpr); ok {
				tail = sk
			}
		}
	}
	if tail.Quantum {
		k = Quantum(k.Features(), tail.ValueKind())
	}
	w.rec.blocks[id] = k
	return k
}

func (w *walker) stmt(id fir.StmtID) ComputeKind {
	s := w.pkg.Stmt(id)
	if s == nil {
		return Classical
	}
	var k ComputeKind
	switch x := s.Kind.(type) {
	case fir.StmtExpr:
		k = w.expr(x.Expr)
	case fir.StmtSemi:
		k = w.expr(x.Expr).WithoutValue()
	case fir.StmtLocal:
		ek := w.expr(x.Expr)
		w.bindPat(x.Pat, x.Expr, ek)
		k = ek.WithoutValue()
	default:
		k = Classical
	}
	w.rec.stmts[id] = k
	return k
}

// children joins the features of the given expressions and reports
// whether any of their values is dynamic.
func (w *walker) children(ids ...fir.ExprID) (ComputeKind, bool) {
	k := Classical
	dynamic := false
	for _, id := range ids {
		if id == fir.NoExpr {
			continue
		}
		ck := w.expr(id)
		k = k.JoinFeatures(ck)
		dynamic = dynamic || ck.IsDynamic()
	}
	return k, dynamic
}

func (w *walker) expr(id fir.ExprID) ComputeKind {
	e := w.pkg.Expr(id)
	if e == nil {
		return Classical
	}
	var k ComputeKind
	switch x := e.Kind.(type) {
	case fir.ExprVar:
		if x.Res.Kind == fir.ResLocal {
			k = w.local(x.Res.Local)
		}
	case fir.ExprArray:
		var dynamic bool
		k, dynamic = w.children(x.Items...)
		if dynamic {
			k = k.WithValueKind(ArrayKind(Dynamic, Static))
		}
	case fir.ExprArrayRepeat:
		vk := w.expr(x.Value)
		sk := w.expr(x.Size)
		k = Classical.JoinFeatures(vk).JoinFeatures(sk)
		content, size := Static, Static
		if vk.IsDynamic() {
			content = Dynamic
		}
		if sk.IsDynamic() {
			size = Dynamic
			k = k.WithFeatures(UseOfDynamicallySizedArray)
		}
		k = k.WithValueKind(ArrayKind(content, size))
	case fir.ExprAssign:
		rk := w.expr(x.Rhs)
		w.expr(x.Lhs)
		k = rk.WithoutValue().WithFeatures(w.assignTo(x.Lhs, rk))
	case fir.ExprAssignOp:
		lk := w.expr(x.Lhs)
		rk := w.expr(x.Rhs)
		joined := lk.Join(rk)
		k = joined.WithoutValue()
		if joined.IsDynamic() {
			k = k.WithFeatures(FeaturesForValue(joined.ValueKind(), w.ty(x.Lhs)))
		}
		k = k.WithFeatures(w.assignTo(x.Lhs, joined))
	case fir.ExprAssignIndex:
		ak := w.expr(x.Array)
		ik := w.expr(x.Index)
		vk := w.expr(x.Value)
		k = ak.WithoutValue().JoinFeatures(ik).JoinFeatures(vk)
		if ik.IsDynamic() {
			k = k.WithFeatures(UseOfDynamicIndex)
		}
		k = k.WithFeatures(w.updateElement(x.Array, ik.Join(vk)))
	case fir.ExprBinOp:
		k = w.binOp(e, x)
	case fir.ExprUnOp:
		operand := w.expr(x.Operand)
		k = operand
		if !x.Op.IsFunctor() && operand.IsDynamic() {
			vk := operand.ValueKind().Reshape(e.Ty)
			k = Quantum(operand.Features()|FeaturesForValue(vk, e.Ty), vk)
		}
	case fir.ExprBlock:
		k = w.block(x.Block)
	case fir.ExprCall:
		k = w.call(id, x)
	case fir.ExprClosure:
		for _, local := range x.Captures {
			if w.local(local).IsDynamic() {
				k = Quantum(0, ElementKind(Dynamic))
			}
		}
	case fir.ExprFail:
		k = w.expr(x.Msg).WithoutValue()
	case fir.ExprField:
		rk := w.expr(x.Record)
		k = rk
		if rk.IsDynamic() {
			k = Quantum(rk.Features(), DynamicValueFor(e.Ty))
		}
	case fir.ExprIf:
		k = w.ifExpr(e, x)
	case fir.ExprIndex:
		k = w.index(e, x)
	case fir.ExprRange:
		var dynamic bool
		k, dynamic = w.children(x.Start, x.Step, x.End)
		if dynamic {
			k = Quantum(k.Features()|UseOfDynamicRange, ElementKind(Dynamic))
		}
	case fir.ExprReturn:
		vk := w.expr(x.Value)
		k = vk.WithoutValue()
		ret := vk
		if w.dynamicScopes > 0 {
			k = k.WithFeatures(ReturnWithinDynamicScope)
			ret = vk.Join(Quantum(0, DynamicValueFor(w.ty(x.Value))))
		}
		w.returns = w.returns.Join(ret)
	case fir.ExprString:
		var ids []fir.ExprID
		for _, c := range x.Components {
			ids = append(ids, c.Expr)
		}
		var dynamic bool
		k, dynamic = w.children(ids...)
		if dynamic {
			k = Quantum(k.Features()|UseOfDynamicString, ElementKind(Dynamic))
		}
	case fir.ExprTuple:
		var dynamic bool
		k, dynamic = w.children(x.Items...)
		if dynamic {
			k = k.WithValueKind(ElementKind(Dynamic))
		}
	case fir.ExprUpdateIndex:
		ak := w.expr(x.Array)
		ik := w.expr(x.Index)
		vk := w.expr(x.Value)
		k = ak.WithoutValue().JoinFeatures(ik).JoinFeatures(vk)
		if ik.IsDynamic() {
			k = k.WithFeatures(UseOfDynamicIndex)
		}
		shape := ak.ValueKind().Reshape(e.Ty)
		if ik.IsDynamic() || vk.IsDynamic() {
			shape.Content = Dynamic
		}
		k = k.WithValueKind(shape)
	case fir.ExprWhile:
		k = w.while(x)
	case fir.ExprFor:
		k = w.forExpr(x)
	default:
		// Literals, holes and unresolved names.
		k = Classical
	}
	w.rec.exprs[id] = k
	return k
}

func (w *walker) binOp(e *fir.Expr, x fir.ExprBinOp) ComputeKind {
	lk := w.expr(x.Lhs)
	rk := w.expr(x.Rhs)
	k := lk.WithoutValue().JoinFeatures(rk)
	if !lk.IsDynamic() && !rk.IsDynamic() {
		return k
	}
	vk := DynamicValueFor(e.Ty)
	if e.Ty.IsArray() {
		vk = lk.ValueKind().Reshape(e.Ty).Join(rk.ValueKind().Reshape(e.Ty))
	}
	return Quantum(k.Features()|FeaturesForValue(vk, e.Ty), vk)
}

// ifExpr computes a conditional.  With a dynamic condition both branches
// run in a dynamic scope and the result is dynamic whatever the branches
// yield; a dynamically chosen array may differ in size.
func (w *walker) ifExpr(e *fir.Expr, x fir.ExprIf) ComputeKind {
	ck := w.expr(x.Cond)
	dynamic := ck.IsDynamic()
	if dynamic {
		w.dynamicScopes++
	}
	tk := w.expr(x.Then)
	ek := Classical
	if x.Else != fir.NoExpr {
		ek = w.expr(x.Else)
	}
	if dynamic {
		w.dynamicScopes--
	}
	k := ck.WithoutValue().Join(tk).Join(ek)
	if !dynamic {
		return k
	}
	features := k.Features() | UseOfDynamicBool
	vk := ElementKind(Dynamic)
	if e.Ty.IsArray() {
		vk = ArrayKind(Dynamic, Dynamic)
		features |= UseOfDynamicallySizedArray
	}
	return Quantum(features, vk)
}

// index computes an element access or a slice.  Slicing with a dynamic
// range yields an array of dynamic size.
func (w *walker) index(e *fir.Expr, x fir.ExprIndex) ComputeKind {
	ak := w.expr(x.Array)
	ik := w.expr(x.Index)
	k := ak.WithoutValue().JoinFeatures(ik)
	slice := w.ty(x.Index).IsPrim(fir.PrimRange)
	array := ak.ValueKind().Reshape(w.ty(x.Array))
	if !ak.IsDynamic() {
		array = ArrayKind(Static, Static)
	}
	switch {
	case ik.IsDynamic() && slice:
		vk := ArrayKind(array.Content, Dynamic)
		return Quantum(k.Features()|UseOfDynamicIndex|UseOfDynamicallySizedArray, vk)
	case ik.IsDynamic():
		return Quantum(k.Features()|UseOfDynamicIndex, DynamicValueFor(e.Ty))
	case slice:
		return k.WithValueKind(array)
	case array.Content == Dynamic:
		return k.WithValueKind(DynamicValueFor(e.Ty))
	default:
		return k
	}
}

func (w *walker) while(x fir.ExprWhile) ComputeKind {
	var ck, bk ComputeKind
	for pass := 0; pass < maxLoopPasses; pass++ {
		before := w.snapshot()
		ck = w.expr(x.Cond)
		dynamic := ck.IsDynamic()
		if dynamic {
			w.dynamicScopes++
		}
		bk = w.block(x.Body)
		if dynamic {
			w.dynamicScopes--
		}
		if w.unchangedSince(before) {
			break
		}
	}
	k := ck.WithoutValue().JoinFeatures(bk)
	if ck.IsDynamic() {
		k = k.WithFeatures(LoopWithDynamicCondition)
	}
	return k
}

// forExpr computes a loop over an array or a range.  Dynamic array
// content makes the loop variable dynamic; a dynamic size or range makes
// the trip count dynamic.
func (w *walker) forExpr(x fir.ExprFor) ComputeKind {
	ik := w.expr(x.Iterable)
	ity := w.ty(x.Iterable)
	var elemTy fir.Ty
	var elemDynamic, tripDynamic bool
	if ity.IsArray() {
		vk := ik.ValueKind().Reshape(ity)
		elemTy = *ity.Elem
		elemDynamic = ik.IsDynamic() && vk.Content == Dynamic
		tripDynamic = ik.IsDynamic() && vk.Size == Dynamic
	} else {
		elemTy = fir.TyInt
		elemDynamic = ik.IsDynamic()
		tripDynamic = ik.IsDynamic()
	}
	elem := Classical
	if elemDynamic {
		elem = Quantum(0, DynamicValueFor(elemTy))
	}
	var bk ComputeKind
	for pass := 0; pass < maxLoopPasses; pass++ {
		before := w.snapshot()
		w.bindPat(x.Pat, fir.NoExpr, elem)
		if tripDynamic {
			w.dynamicScopes++
		}
		bk = w.block(x.Body)
		if tripDynamic {
			w.dynamicScopes--
		}
		if w.unchangedSince(before) {
			break
		}
	}
	k := ik.WithoutValue().JoinFeatures(bk)
	if tripDynamic {
		k = k.WithFeatures(LoopWithDynamicCondition)
	}
	return k
}
