// Copyright © 2024 The ELPS authors

package rca

import (
	"fmt"
	"log/slog"

	"github.com/luthersystems/qrca/fir"
)

// specPatterns returns the patterns a specialization is walked under:
// inherent first, then all-dynamic, then each single dynamic parameter.
// Duplicate keys are dropped.
func specPatterns(params []Param) []ParamPattern {
	patterns := []ParamPattern{nil}
	if len(params) == 0 {
		return patterns
	}
	seen := make(map[string]bool)
	for _, p := range append([]ParamPattern{AllDynamic(params)}, SingleParamPatterns(params)...) {
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		patterns = append(patterns, p)
	}
	return patterns
}

// outputValue returns the value kind of a dynamic output of type ty.
// Unit outputs carry no value.
func outputValue(ty fir.Ty) ValueKind {
	if ty.IsUnit() {
		return ElementKind(Static)
	}
	return DynamicValueFor(ty)
}

// signatureSet derives an applications generator set from a callable
// signature alone.  It describes intrinsics and callees that cannot be
// resolved statically.
func signatureSet(kind fir.CallableKind, output fir.Ty, params []Param) *ApplicationsGeneratorSet {
	inherent := Classical
	if kind == fir.CallableOperation {
		switch {
		case output.IsUnit() || output.IsPrim(fir.PrimQubit):
			inherent = Quantum(0, StaticValueFor(output))
		case output.IsArray():
			vk := ArrayKind(Dynamic, Static)
			inherent = Quantum(FeaturesForValue(vk, output), vk)
		default:
			inherent = Quantum(FeaturesForType(output), ElementKind(Dynamic))
		}
	}
	set := NewApplicationsGeneratorSet(inherent, params)
	for _, p := range specPatterns(params)[1:] {
		set.Insert(p, signatureApplication(inherent, output, params, p))
	}
	return set
}

func signatureApplication(inherent ComputeKind, output fir.Ty, params []Param, p ParamPattern) ComputeKind {
	var features RuntimeFeatureFlags
	content, size := Static, Static
	for _, e := range p {
		param := params[e.Index]
		vk := e.Dynamism.ValueKind()
		features |= FeaturesForValue(vk, param.Ty)
		if e.Dynamism != DynSize {
			content = Dynamic
		}
		if e.Dynamism == DynElement || vk.Size == Dynamic {
			size = Dynamic
		}
	}
	vk := ElementKind(Static)
	switch {
	case output.IsUnit():
	case output.IsArray():
		vk = ArrayKind(content, size)
	default:
		vk = ElementKind(Dynamic)
	}
	features |= FeaturesForValue(vk, output)
	return inherent.Join(Quantum(features, vk))
}

// cyclicSet returns the conservative results of a specialization that
// takes part in a call cycle.  Its results cannot be computed by walking
// the body, since they depend on themselves.
func cyclicSet(kind fir.CallableKind, output fir.Ty, params []Param) *ApplicationsGeneratorSet {
	var inherent, dynamic ComputeKind
	outFeatures := FeaturesForValue(outputValue(output), output)
	if kind == fir.CallableFunction {
		inherent = Classical
		dynamic = Quantum(CallToCyclicFunctionWithDynamicArg|outFeatures, outputValue(output))
	} else {
		inherent = Quantum(CyclicOperationSpec|outFeatures, outputValue(output))
		dynamic = inherent.WithFeatures(CallToCyclicOperationWithDynamicArg)
	}
	set := NewApplicationsGeneratorSet(inherent, params)
	for _, p := range specPatterns(params)[1:] {
		set.Insert(p, dynamic)
	}
	return set
}

// analyzeItem stores results for every specialization of an item.
func (r *packageRun) analyzeItem(item *fir.Item) {
	decl := r.pkg.Callable(item.ID)
	if decl == nil {
		if _, ok := r.scaffold.props.Items.Get(item.ID); !ok {
			r.scaffold.props.Items.Insert(item.ID, ItemComputeProperties{})
		}
		return
	}
	for _, f := range fir.Functors {
		if decl.HasSpec(f) {
			r.ensureSpec(fir.StoreSpecID{Package: r.pkg.ID, Item: item.ID, Functor: f}, decl)
		}
	}
}

// ensureSpec makes sure results for id are stored, analyzing its source
// specialization when needed.  Derived specializations store a reference
// to the specialization they reuse.
func (r *packageRun) ensureSpec(id fir.StoreSpecID, decl *fir.CallableDecl) {
	if r.scaffold.spec(id.Item, id.Functor) != nil {
		return
	}
	src := deriveSource(decl, id.Functor)
	if src == id.Functor {
		if r.scaffold.state(id).status == NotStarted {
			r.analyzeSpec(id, decl)
		}
		return
	}
	srcID := fir.StoreSpecID{Package: id.Package, Item: id.Item, Functor: src}
	r.ensureSpec(srcID, decl)
	gen := fir.SpecAuto
	if spec := decl.Spec(id.Functor); spec != nil {
		gen = spec.Gen
	}
	r.scaffold.setSpec(id.Item, id.Functor, &SpecProperties{Derived: true, Source: src, Gen: gen})
}

// analyzeSpec computes the applications generator set of a specialization
// with results of its own.
func (r *packageRun) analyzeSpec(id fir.StoreSpecID, decl *fir.CallableDecl) {
	params := paramsOf(r.pkg, decl.Input)
	if decl.Intrinsic {
		r.scaffold.state(id).status = Done
		r.scaffold.setSpec(id.Item, id.Functor, &SpecProperties{
			Set:    signatureSet(decl.Kind, decl.Output, params),
			Source: id.Functor,
			Gen:    fir.SpecExplicit,
		})
		r.a.tel.specDone(r.ctx, decl.Kind)
		return
	}
	spec := decl.Spec(id.Functor)
	if spec == nil || spec.Block == fir.NoBlock {
		panic(fmt.Sprintf("rca: %s has no body", id))
	}

	r.scaffold.push(id)
	set := NewApplicationsGeneratorSet(Classical, params)
	for _, p := range specPatterns(params) {
		w := r.newWalker()
		for _, param := range params {
			if d, ok := p.Get(param.Index); ok {
				w.locals[param.Local] = Quantum(0, d.ValueKind())
			}
		}
		k := w.specBlock(spec.Block)
		if p.IsEmpty() {
			set.Inherent = k
		} else {
			set.Insert(p, k)
		}
		r.scaffold.flush(w.rec, p, params)
	}
	r.scaffold.pop(id)

	cyclic := r.scaffold.state(id).cyclic
	if cyclic {
		set = cyclicSet(decl.Kind, decl.Output, params)
		r.a.logger.Debug("specialization is cyclic",
			slog.String("spec", id.String()),
			slog.String("callable", decl.Name))
	}
	r.scaffold.setSpec(id.Item, id.Functor, &SpecProperties{
		Set:    set,
		Source: id.Functor,
		Gen:    fir.SpecExplicit,
		Cyclic: cyclic,
	})
	r.a.tel.specDone(r.ctx, decl.Kind)
}

// callee returns the results of the specialization a call invokes.  A
// specialization found in progress closes a cycle; the conservative
// cyclic results are used for the call.
func (r *packageRun) callee(id fir.StoreSpecID) calleeInfo {
	if id.Package != r.pkg.ID {
		pkg := r.a.store.Get(id.Package)
		sp := r.a.props.SpecProperties(id)
		return calleeInfo{set: sp.Set, cyclic: sp.Cyclic, decl: pkg.Callable(id.Item)}
	}
	decl := r.pkg.Callable(id.Item)
	if decl == nil {
		panic(fmt.Sprintf("rca: %s is not a callable", id.ItemID()))
	}
	src := fir.StoreSpecID{Package: id.Package, Item: id.Item, Functor: resolveSource(decl, id.Functor)}
	if st := r.scaffold.state(src); st.status == InProgress {
		if cycle, fresh := r.scaffold.markCycle(src); fresh {
			r.a.tel.cycleFound(r.ctx, len(cycle))
			r.a.logger.Debug("call cycle detected",
				slog.String("spec", src.String()),
				slog.Int("size", len(cycle)))
		}
		params := paramsOf(r.pkg, decl.Input)
		return calleeInfo{set: cyclicSet(decl.Kind, decl.Output, params), cyclic: true, decl: decl}
	}
	r.ensureSpec(id, decl)
	sp := r.scaffold.spec(id.Item, src.Functor)
	return calleeInfo{set: sp.Set, cyclic: sp.Cyclic, owned: true, decl: decl}
}

// calleeInfo describes the results available for a call target.
type calleeInfo struct {
	set    *ApplicationsGeneratorSet
	cyclic bool
	// owned is set when the results belong to the current package run and
	// may be extended with composed applications.
	owned bool
	decl  *fir.CallableDecl
}
