// Copyright © 2024 The ELPS authors

// Package rca implements runtime capabilities analysis: for every block,
// statement, expression and callable of a fir.PackageStore it computes
// whether the value or effect is classical or depends on a measurement
// outcome, and which runtime features it requires.
//
// Analysis is driven by an Analyzer.  Results are published through a
// PackageStoreComputeProperties once a package is done.  The analysis is
// total; misuse of the API (querying a package that was never analyzed,
// a package dependency cycle) panics.
package rca

import (
	"encoding/json"
	"fmt"

	"github.com/luthersystems/qrca/fir"
)

// RuntimeKind says whether a value is known at compile time.
type RuntimeKind uint8

const (
	Static RuntimeKind = iota
	Dynamic
)

func (k RuntimeKind) String() string {
	if k == Dynamic {
		return "Dynamic"
	}
	return "Static"
}

func maxKind(a, b RuntimeKind) RuntimeKind {
	if a == Dynamic || b == Dynamic {
		return Dynamic
	}
	return Static
}

// ValueKind is the dynamism of a value.  Arrays track their content and
// their size independently; other values use Content only.
type ValueKind struct {
	Array   bool
	Content RuntimeKind
	Size    RuntimeKind
}

// ElementKind returns the value kind of a non-array value.
func ElementKind(k RuntimeKind) ValueKind {
	return ValueKind{Content: k}
}

// ArrayKind returns the value kind of an array.
func ArrayKind(content, size RuntimeKind) ValueKind {
	return ValueKind{Array: true, Content: content, Size: size}
}

// StaticValueFor returns the static value kind shaped for ty.
func StaticValueFor(ty fir.Ty) ValueKind {
	if ty.IsArray() {
		return ArrayKind(Static, Static)
	}
	return ElementKind(Static)
}

// DynamicValueFor returns the fully dynamic value kind shaped for ty.
func DynamicValueFor(ty fir.Ty) ValueKind {
	if ty.IsArray() {
		return ArrayKind(Dynamic, Dynamic)
	}
	return ElementKind(Dynamic)
}

// IsDynamic reports whether any part of the value is dynamic.
func (v ValueKind) IsDynamic() bool {
	return v.Content == Dynamic || v.Size == Dynamic
}

// Join returns the least value kind at least as dynamic as both.  Joining
// an array with an element yields an array.
func (v ValueKind) Join(other ValueKind) ValueKind {
	return ValueKind{
		Array:   v.Array || other.Array,
		Content: maxKind(v.Content, other.Content),
		Size:    maxKind(v.Size, other.Size),
	}
}

// Reshape converts v to the shape of ty.  A dynamic element reshaped to an
// array is dynamic in both content and size; an array reshaped to an
// element is dynamic when any part of it is.
func (v ValueKind) Reshape(ty fir.Ty) ValueKind {
	switch {
	case ty.IsArray() && !v.Array:
		return ArrayKind(v.Content, v.Content)
	case !ty.IsArray() && v.Array:
		if v.IsDynamic() {
			return ElementKind(Dynamic)
		}
		return ElementKind(Static)
	default:
		return v
	}
}

func (v ValueKind) String() string {
	if v.Array {
		return fmt.Sprintf("Array(Content: %s, Size: %s)", v.Content, v.Size)
	}
	return fmt.Sprintf("Element(%s)", v.Content)
}

// QuantumProperties describe a quantum computation.
type QuantumProperties struct {
	RuntimeFeatures RuntimeFeatureFlags `json:"runtime_features"`
	ValueKind       ValueKind           `json:"value_kind"`
}

// ComputeKind is either classical, or quantum with properties.  The zero
// value is Classical.
type ComputeKind struct {
	Quantum    bool
	Properties QuantumProperties
}

// Classical is the compute kind of anything fully determined at compile
// time.
var Classical = ComputeKind{}

// Quantum returns a quantum compute kind.
func Quantum(features RuntimeFeatureFlags, vk ValueKind) ComputeKind {
	return ComputeKind{Quantum: true, Properties: QuantumProperties{RuntimeFeatures: features, ValueKind: vk}}
}

// IsDynamic reports whether the value is dynamic.
func (k ComputeKind) IsDynamic() bool {
	return k.Quantum && k.Properties.ValueKind.IsDynamic()
}

// Features returns the runtime features used.
func (k ComputeKind) Features() RuntimeFeatureFlags {
	return k.Properties.RuntimeFeatures
}

// ValueKind returns the value kind, Element(Static) for classical values.
func (k ComputeKind) ValueKind() ValueKind {
	return k.Properties.ValueKind
}

// Join aggregates two compute kinds: quantum if either is, with the union
// of features and the join of value kinds.
func (k ComputeKind) Join(other ComputeKind) ComputeKind {
	if !k.Quantum {
		return other
	}
	if !other.Quantum {
		return k
	}
	return Quantum(k.Features()|other.Features(), k.ValueKind().Join(other.ValueKind()))
}

// JoinFeatures aggregates only the features of other, leaving the value
// kind of k unchanged.
func (k ComputeKind) JoinFeatures(other ComputeKind) ComputeKind {
	if !other.Quantum {
		return k
	}
	if !k.Quantum {
		return Quantum(other.Features(), ElementKind(Static))
	}
	return k.WithFeatures(other.Features())
}

// WithFeatures adds features, making the kind quantum if flags is not
// empty.
func (k ComputeKind) WithFeatures(flags RuntimeFeatureFlags) ComputeKind {
	if flags == 0 {
		return k
	}
	return Quantum(k.Features()|flags, k.ValueKind())
}

// WithValueKind replaces the value kind.  A static value kind leaves a
// classical kind classical.
func (k ComputeKind) WithValueKind(vk ValueKind) ComputeKind {
	if !k.Quantum && !vk.IsDynamic() {
		return k
	}
	return Quantum(k.Features(), vk)
}

// WithoutValue keeps the features of k with a static value, as for
// statements evaluated for their effects.
func (k ComputeKind) WithoutValue() ComputeKind {
	if !k.Quantum {
		return k
	}
	return Quantum(k.Features(), ElementKind(Static))
}

func (k ComputeKind) String() string {
	if !k.Quantum {
		return "Classical"
	}
	return fmt.Sprintf("Quantum(%s, %s)", k.Properties.ValueKind, k.Properties.RuntimeFeatures)
}

// MarshalText renders the value kind as in String.
func (v ValueKind) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// MarshalJSON encodes Classical as a string and quantum kinds as an object.
func (k ComputeKind) MarshalJSON() ([]byte, error) {
	if !k.Quantum {
		return json.Marshal("Classical")
	}
	return json.Marshal(struct {
		Quantum QuantumProperties `json:"quantum"`
	}{k.Properties})
}
