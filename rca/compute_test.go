// Copyright © 2024 The ELPS authors

package rca

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/qrca/fir"
)

func TestComputeKindJoin(t *testing.T) {
	dynInt := Quantum(UseOfDynamicInt, ElementKind(Dynamic))
	qStatic := Quantum(0, ElementKind(Static))

	assert.Equal(t, Classical, Classical.Join(Classical))
	assert.Equal(t, dynInt, Classical.Join(dynInt))
	assert.Equal(t, dynInt, dynInt.Join(Classical))
	assert.Equal(t, dynInt, qStatic.Join(dynInt))

	joined := Quantum(UseOfDynamicBool, ArrayKind(Dynamic, Static)).Join(Quantum(UseOfDynamicInt, ArrayKind(Static, Dynamic)))
	assert.Equal(t, UseOfDynamicBool|UseOfDynamicInt, joined.Features())
	assert.Equal(t, ArrayKind(Dynamic, Dynamic), joined.ValueKind())
}

func TestComputeKindJoinFeatures(t *testing.T) {
	k := Classical.JoinFeatures(Quantum(UseOfDynamicDouble, ElementKind(Dynamic)))
	assert.True(t, k.Quantum)
	assert.False(t, k.IsDynamic())
	assert.Equal(t, UseOfDynamicDouble, k.Features())

	assert.Equal(t, Classical, Classical.JoinFeatures(Classical))
	assert.Equal(t, Classical, Classical.WithFeatures(0))
	assert.Equal(t, Classical, Classical.WithValueKind(ElementKind(Static)))
	assert.True(t, Classical.WithValueKind(ElementKind(Dynamic)).IsDynamic())
	assert.False(t, Quantum(UseOfDynamicInt, ElementKind(Dynamic)).WithoutValue().IsDynamic())
}

func TestValueKindReshape(t *testing.T) {
	arr := fir.ArrayOf(fir.TyInt)
	assert.Equal(t, ArrayKind(Dynamic, Dynamic), ElementKind(Dynamic).Reshape(arr))
	assert.Equal(t, ArrayKind(Static, Static), ElementKind(Static).Reshape(arr))
	assert.Equal(t, ElementKind(Dynamic), ArrayKind(Static, Dynamic).Reshape(fir.TyInt))
	assert.Equal(t, ElementKind(Static), ArrayKind(Static, Static).Reshape(fir.TyInt))
	assert.Equal(t, ArrayKind(Dynamic, Static), ArrayKind(Dynamic, Static).Reshape(arr))
}

func TestComputeKindJSON(t *testing.T) {
	b, err := json.Marshal(Classical)
	require.NoError(t, err)
	assert.JSONEq(t, `"Classical"`, string(b))

	b, err = json.Marshal(Quantum(UseOfDynamicBool|UseOfDynamicInt, ArrayKind(Dynamic, Static)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantum": {
		"runtime_features": ["UseOfDynamicBool", "UseOfDynamicInt"],
		"value_kind": "Array(Content: Dynamic, Size: Static)"}}`, string(b))
}

func TestFeatureNames(t *testing.T) {
	assert.Equal(t, "empty", RuntimeFeatureFlags(0).String())
	assert.Equal(t, "UseOfDynamicBool | LoopWithDynamicCondition",
		(UseOfDynamicBool | LoopWithDynamicCondition).String())
	for _, f := range AllFeatures() {
		parsed, ok := ParseFeature(f.String())
		if assert.True(t, ok, f.String()) {
			assert.Equal(t, f, parsed)
		}
	}
	_, ok := ParseFeature("UseOfTimeTravel")
	assert.False(t, ok)
}

func TestFeaturesForType(t *testing.T) {
	tests := []struct {
		ty   string
		want RuntimeFeatureFlags
	}{
		{"Bool", UseOfDynamicBool},
		{"Int", UseOfDynamicInt},
		{"Double", UseOfDynamicDouble},
		{"Result", 0},
		{"Unit", 0},
		{"Int[]", UseOfDynamicallySizedArray | UseOfDynamicInt},
		{"(Bool, Double)", UseOfDynamicBool | UseOfDynamicDouble},
		{"(Qubit => Unit)", UseOfDynamicArrowOperation},
		{"(Int -> Int)", UseOfDynamicArrowFunction},
		{"Complex", UseOfDynamicUdt},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, FeaturesForType(fir.MustParseTy(test.ty)), test.ty)
	}
}

func TestFeaturesForValue(t *testing.T) {
	arr := fir.ArrayOf(fir.TyDouble)
	assert.Equal(t, UseOfDynamicDouble, FeaturesForValue(ArrayKind(Dynamic, Static), arr))
	assert.Equal(t, UseOfDynamicallySizedArray, FeaturesForValue(ArrayKind(Static, Dynamic), arr))
	assert.Equal(t, UseOfDynamicDouble|UseOfDynamicallySizedArray, FeaturesForValue(ArrayKind(Dynamic, Dynamic), arr))
	assert.Equal(t, RuntimeFeatureFlags(0), FeaturesForValue(ElementKind(Static), fir.TyInt))
	assert.Equal(t, UseOfDynamicInt, FeaturesForValue(ElementKind(Dynamic), fir.TyInt))
}
