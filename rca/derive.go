// Copyright © 2024 The ELPS authors

package rca

import "github.com/luthersystems/qrca/fir"

// deriveSource returns the specialization whose results specialization f
// of decl reuses.  Explicit specializations are their own source.
//
//   - self and invert adjoints reuse the body; statement order does not
//     change which features are used.
//   - auto and distribute controlled specializations reuse the
//     specialization they add controls to, since the control count is
//     always static.
//   - a controlled adjoint that is self or invert reuses the controlled
//     specialization; one that is distributed reuses the adjoint.  An auto
//     controlled adjoint is the inverse of an explicit controlled
//     specialization when the adjoint is generated, otherwise the
//     distribution of the adjoint.
func deriveSource(decl *fir.CallableDecl, f fir.Functor) fir.Functor {
	if decl.Intrinsic || f == fir.FunctorBody {
		return fir.FunctorBody
	}
	spec := decl.Spec(f)
	if spec == nil {
		return fir.FunctorBody
	}
	switch spec.Gen {
	case fir.SpecExplicit:
		return f
	case fir.SpecSelf, fir.SpecInvert:
		if f == fir.FunctorCtlAdj {
			return fir.FunctorCtl
		}
		return fir.FunctorBody
	case fir.SpecDistribute:
		if f == fir.FunctorCtlAdj {
			return fir.FunctorAdj
		}
		return fir.FunctorBody
	default:
		if f != fir.FunctorCtlAdj {
			return fir.FunctorBody
		}
		if decl.Spec(fir.FunctorCtl).IsExplicit() && !decl.Spec(fir.FunctorAdj).IsExplicit() {
			return fir.FunctorCtl
		}
		return fir.FunctorAdj
	}
}

// resolveSource follows derivations until it reaches a specialization
// with results of its own.
func resolveSource(decl *fir.CallableDecl, f fir.Functor) fir.Functor {
	for hops := 0; hops < len(fir.Functors); hops++ {
		src := deriveSource(decl, f)
		if src == f {
			return f
		}
		f = src
	}
	return fir.FunctorBody
}
