// Copyright © 2024 The ELPS authors

package rca

import (
	"encoding/json"
	"strings"

	"github.com/luthersystems/qrca/fir"
)

// RuntimeFeatureFlags is a set of runtime features.  Sets only grow as
// results are aggregated.
type RuntimeFeatureFlags uint64

// Runtime features.  The order is stable; names are used in output.
const (
	UseOfDynamicBool RuntimeFeatureFlags = 1 << iota
	UseOfDynamicInt
	UseOfDynamicPauli
	UseOfDynamicRange
	UseOfDynamicDouble
	UseOfDynamicQubit
	UseOfDynamicBigInt
	UseOfDynamicString
	UseOfDynamicallySizedArray
	UseOfDynamicUdt
	UseOfDynamicArrowFunction
	UseOfDynamicArrowOperation
	CallToCyclicFunctionWithDynamicArg
	CallToCyclicOperationWithDynamicArg
	CyclicOperationSpec
	CallToDynamicCallee
	CallToUnresolvedCallee
	MeasurementWithinDynamicScope
	UseOfDynamicIndex
	ReturnWithinDynamicScope
	LoopWithDynamicCondition
	// UseOfDynamicResult is reserved for output recording of measurement
	// results.  The node analyzer never sets it.
	UseOfDynamicResult

	numFeatures = iota
)

var featureNames = [numFeatures]string{
	"UseOfDynamicBool",
	"UseOfDynamicInt",
	"UseOfDynamicPauli",
	"UseOfDynamicRange",
	"UseOfDynamicDouble",
	"UseOfDynamicQubit",
	"UseOfDynamicBigInt",
	"UseOfDynamicString",
	"UseOfDynamicallySizedArray",
	"UseOfDynamicUdt",
	"UseOfDynamicArrowFunction",
	"UseOfDynamicArrowOperation",
	"CallToCyclicFunctionWithDynamicArg",
	"CallToCyclicOperationWithDynamicArg",
	"CyclicOperationSpec",
	"CallToDynamicCallee",
	"CallToUnresolvedCallee",
	"MeasurementWithinDynamicScope",
	"UseOfDynamicIndex",
	"ReturnWithinDynamicScope",
	"LoopWithDynamicCondition",
	"UseOfDynamicResult",
}

// AllFeatures lists every flag in declaration order.
func AllFeatures() []RuntimeFeatureFlags {
	flags := make([]RuntimeFeatureFlags, numFeatures)
	for i := range flags {
		flags[i] = 1 << i
	}
	return flags
}

// ParseFeature returns the flag with the given name.
func ParseFeature(name string) (RuntimeFeatureFlags, bool) {
	for i, n := range featureNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// Has reports whether every flag in other is set.
func (f RuntimeFeatureFlags) Has(other RuntimeFeatureFlags) bool {
	return f&other == other
}

// Intersects reports whether any flag in other is set.
func (f RuntimeFeatureFlags) Intersects(other RuntimeFeatureFlags) bool {
	return f&other != 0
}

// Minus returns the flags of f not in other.
func (f RuntimeFeatureFlags) Minus(other RuntimeFeatureFlags) RuntimeFeatureFlags {
	return f &^ other
}

// Flags splits the set into single flags in declaration order.
func (f RuntimeFeatureFlags) Flags() []RuntimeFeatureFlags {
	var flags []RuntimeFeatureFlags
	for i := 0; i < numFeatures; i++ {
		if bit := RuntimeFeatureFlags(1) << i; f&bit != 0 {
			flags = append(flags, bit)
		}
	}
	return flags
}

// Names returns the names of the set flags in declaration order.
func (f RuntimeFeatureFlags) Names() []string {
	names := []string{}
	for i := 0; i < numFeatures; i++ {
		if f&(1<<i) != 0 {
			names = append(names, featureNames[i])
		}
	}
	return names
}

func (f RuntimeFeatureFlags) String() string {
	if f == 0 {
		return "empty"
	}
	return strings.Join(f.Names(), " | ")
}

// MarshalJSON encodes the set as a list of names.
func (f RuntimeFeatureFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// FeaturesForType returns the features needed to hold a fully dynamic
// value of type ty.
func FeaturesForType(ty fir.Ty) RuntimeFeatureFlags {
	switch ty.Kind {
	case fir.TyPrim:
		switch ty.Prim {
		case fir.PrimBool:
			return UseOfDynamicBool
		case fir.PrimInt:
			return UseOfDynamicInt
		case fir.PrimBigInt:
			return UseOfDynamicBigInt
		case fir.PrimDouble:
			return UseOfDynamicDouble
		case fir.PrimPauli:
			return UseOfDynamicPauli
		case fir.PrimRange:
			return UseOfDynamicRange
		case fir.PrimQubit:
			return UseOfDynamicQubit
		case fir.PrimString:
			return UseOfDynamicString
		default:
			// Measurement results are inherently dynamic.
			return 0
		}
	case fir.TyArray:
		return UseOfDynamicallySizedArray | FeaturesForType(*ty.Elem)
	case fir.TyTuple:
		var f RuntimeFeatureFlags
		for _, item := range ty.Items {
			f |= FeaturesForType(item)
		}
		return f
	case fir.TyArrow:
		if ty.Arrow.Kind == fir.CallableOperation {
			return UseOfDynamicArrowOperation
		}
		return UseOfDynamicArrowFunction
	case fir.TyUdt:
		return UseOfDynamicUdt
	default:
		return 0
	}
}

// FeaturesForValue returns the features needed to hold a value of type ty
// with the given dynamism.  Array content and size contribute separately.
func FeaturesForValue(vk ValueKind, ty fir.Ty) RuntimeFeatureFlags {
	if ty.IsArray() {
		vk = vk.Reshape(ty)
		var f RuntimeFeatureFlags
		if vk.Content == Dynamic {
			f |= FeaturesForType(*ty.Elem)
		}
		if vk.Size == Dynamic {
			f |= UseOfDynamicallySizedArray
		}
		return f
	}
	if vk.IsDynamic() {
		return FeaturesForType(ty)
	}
	return 0
}
