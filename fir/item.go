// Copyright © 2024 The ELPS authors

package fir

// Item is a package-level or nested declaration.
type Item struct {
	ID     LocalItemID
	Span   Span
	Parent LocalItemID
	Kind   ItemKind
}

// ItemKind is implemented by the item variants.
type ItemKind interface {
	itemKind()
}

// ItemCallable declares a function or operation.
type ItemCallable struct {
	Decl *CallableDecl
}

// ItemNamespace groups items under a name.
type ItemNamespace struct {
	Name  string
	Items []LocalItemID
}

// ItemTy declares a user defined type.
type ItemTy struct {
	Name       string
	Underlying Ty
}

func (ItemCallable) itemKind()  {}
func (ItemNamespace) itemKind() {}
func (ItemTy) itemKind()        {}

// SpecGen says how a specialization is produced.
type SpecGen int

const (
	SpecExplicit SpecGen = iota
	SpecAuto
	SpecSelf
	SpecInvert
	SpecDistribute
)

func (g SpecGen) String() string {
	switch g {
	case SpecExplicit:
		return "explicit"
	case SpecAuto:
		return "auto"
	case SpecSelf:
		return "self"
	case SpecInvert:
		return "invert"
	case SpecDistribute:
		return "distribute"
	default:
		return "unknown"
	}
}

// ParseSpecGen converts a generator name back to its value.
func ParseSpecGen(s string) (SpecGen, bool) {
	for g := SpecExplicit; g <= SpecDistribute; g++ {
		if g.String() == s {
			return g, true
		}
	}
	return 0, false
}

// SpecDecl is one specialization of a callable.  Explicit specializations
// carry a block; generated ones carry only the generator.  Controls is the
// pattern binding the control register of a controlled specialization, or
// NoPat.
type SpecDecl struct {
	Gen      SpecGen
	Span     Span
	Controls PatID
	Block    BlockID
}

// IsExplicit reports whether the specialization has its own body.
func (s *SpecDecl) IsExplicit() bool {
	return s != nil && s.Gen == SpecExplicit
}

// CallableDecl declares a callable.  Intrinsic callables have no
// specializations; their behavior is described by the signature alone.
type CallableDecl struct {
	Kind      CallableKind
	Name      string
	Span      Span
	Input     PatID
	Output    Ty
	Functors  FunctorSet
	Intrinsic bool
	Specs     [4]*SpecDecl
}

// Spec returns the declared specialization for f, or nil.
func (d *CallableDecl) Spec(f Functor) *SpecDecl {
	return d.Specs[f]
}

// HasSpec reports whether f is available on the callable.
func (d *CallableDecl) HasSpec(f Functor) bool {
	if d.Intrinsic {
		switch f {
		case FunctorBody:
			return true
		case FunctorAdj:
			return d.Functors.Has(FunctorSetAdj)
		case FunctorCtl:
			return d.Functors.Has(FunctorSetCtl)
		default:
			return d.Functors.Has(FunctorSetAdjCtl)
		}
	}
	return d.Specs[f] != nil
}
