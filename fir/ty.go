// Copyright © 2024 The ELPS authors

package fir

import (
	"strings"
)

// TyKind is the shape of a type.
type TyKind int

const (
	TyPrim TyKind = iota
	TyTuple
	TyArray
	TyArrow
	TyUdt
	TyErr
)

func (k TyKind) String() string {
	switch k {
	case TyPrim:
		return "prim"
	case TyTuple:
		return "tuple"
	case TyArray:
		return "array"
	case TyArrow:
		return "arrow"
	case TyUdt:
		return "udt"
	default:
		return "err"
	}
}

// Prim is a primitive type.
type Prim int

const (
	PrimBool Prim = iota
	PrimInt
	PrimBigInt
	PrimDouble
	PrimPauli
	PrimRange
	PrimResult
	PrimQubit
	PrimString
)

var primNames = [...]string{
	PrimBool:   "Bool",
	PrimInt:    "Int",
	PrimBigInt: "BigInt",
	PrimDouble: "Double",
	PrimPauli:  "Pauli",
	PrimRange:  "Range",
	PrimResult: "Result",
	PrimQubit:  "Qubit",
	PrimString: "String",
}

func (p Prim) String() string {
	if p < 0 || int(p) >= len(primNames) {
		return "?"
	}
	return primNames[p]
}

func primByName(name string) (Prim, bool) {
	for p, n := range primNames {
		if n == name {
			return Prim(p), true
		}
	}
	return 0, false
}

// Arrow is the signature of a callable value.
type Arrow struct {
	Kind     CallableKind
	Input    Ty
	Output   Ty
	Functors FunctorSet
}

// Ty is a fully inferred type.  The zero value is the Bool primitive; use
// the constructors below rather than composing literals.
type Ty struct {
	Kind  TyKind
	Prim  Prim
	Elem  *Ty
	Items []Ty
	Arrow *Arrow
	Name  string
}

// Primitive types.
var (
	TyBool   = Ty{Kind: TyPrim, Prim: PrimBool}
	TyInt    = Ty{Kind: TyPrim, Prim: PrimInt}
	TyBigInt = Ty{Kind: TyPrim, Prim: PrimBigInt}
	TyDouble = Ty{Kind: TyPrim, Prim: PrimDouble}
	TyPauli  = Ty{Kind: TyPrim, Prim: PrimPauli}
	TyRange  = Ty{Kind: TyPrim, Prim: PrimRange}
	TyResult = Ty{Kind: TyPrim, Prim: PrimResult}
	TyQubit  = Ty{Kind: TyPrim, Prim: PrimQubit}
	TyString = Ty{Kind: TyPrim, Prim: PrimString}
	TyUnit   = Ty{Kind: TyTuple}
	TyError  = Ty{Kind: TyErr}
)

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Ty) Ty {
	return Ty{Kind: TyArray, Elem: &elem}
}

// TupleOf returns a tuple type.  A tuple of one item is that item.
func TupleOf(items ...Ty) Ty {
	if len(items) == 1 {
		return items[0]
	}
	return Ty{Kind: TyTuple, Items: items}
}

// ArrowOf returns a callable value type.
func ArrowOf(kind CallableKind, input, output Ty, functors FunctorSet) Ty {
	return Ty{Kind: TyArrow, Arrow: &Arrow{Kind: kind, Input: input, Output: output, Functors: functors}}
}

// UdtOf returns a reference to a user defined type.
func UdtOf(name string) Ty {
	return Ty{Kind: TyUdt, Name: name}
}

// IsUnit reports whether t is the empty tuple.
func (t Ty) IsUnit() bool {
	return t.Kind == TyTuple && len(t.Items) == 0
}

// IsArray reports whether t is an array type.
func (t Ty) IsArray() bool {
	return t.Kind == TyArray
}

// IsPrim reports whether t is the primitive p.
func (t Ty) IsPrim(p Prim) bool {
	return t.Kind == TyPrim && t.Prim == p
}

// Equal reports structural equality.
func (t Ty) Equal(other Ty) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TyPrim:
		return t.Prim == other.Prim
	case TyTuple:
		if len(t.Items) != len(other.Items) {
			return false
		}
		for i := range t.Items {
			if !t.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case TyArray:
		return t.Elem.Equal(*other.Elem)
	case TyArrow:
		a, b := t.Arrow, other.Arrow
		return a.Kind == b.Kind && a.Functors == b.Functors &&
			a.Input.Equal(b.Input) && a.Output.Equal(b.Output)
	case TyUdt:
		return t.Name == other.Name
	default:
		return true
	}
}

// String renders t in the syntax accepted by ParseTy.
func (t Ty) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Ty) write(b *strings.Builder) {
	switch t.Kind {
	case TyPrim:
		b.WriteString(t.Prim.String())
	case TyTuple:
		if len(t.Items) == 0 {
			b.WriteString("Unit")
			return
		}
		b.WriteByte('(')
		for i, item := range t.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(')')
	case TyArray:
		t.Elem.write(b)
		b.WriteString("[]")
	case TyArrow:
		b.WriteByte('(')
		t.Arrow.Input.write(b)
		if t.Arrow.Kind == CallableOperation {
			b.WriteString(" => ")
		} else {
			b.WriteString(" -> ")
		}
		t.Arrow.Output.write(b)
		if t.Arrow.Functors != FunctorSetEmpty {
			b.WriteString(" is ")
			b.WriteString(t.Arrow.Functors.String())
		}
		b.WriteByte(')')
	case TyUdt:
		b.WriteString(t.Name)
	default:
		b.WriteString("?")
	}
}
