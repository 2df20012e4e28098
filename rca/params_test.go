// Copyright © 2024 The ELPS authors

package rca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/qrca/fir"
)

func testParams() []Param {
	return []Param{
		{Index: 0, Ty: fir.TyInt},
		{Index: 1, Ty: fir.ArrayOf(fir.TyDouble), Array: true},
		{Index: 2, Ty: fir.TyBool},
	}
}

func TestParamPatternKey(t *testing.T) {
	p := NewParamPattern(ParamEntry{Index: 2, Dynamism: DynElement}, ParamEntry{Index: 1, Dynamism: DynContentAndSize})
	assert.Equal(t, "1:cs,2:e", p.Key())
	assert.Equal(t, "inherent", ParamPattern(nil).String())

	parsed, err := ParseParamPattern(p.Key())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	for _, bad := range []string{"1", "x:e", "-1:e", "0:q"} {
		_, err := ParseParamPattern(bad)
		assert.Error(t, err, bad)
	}
}

func TestParamPatternCovers(t *testing.T) {
	tests := []struct {
		p, other string
		want     bool
	}{
		{"0:e", "", true},
		{"0:e,1:e", "0:e", true},
		{"0:e", "0:e,1:e", false},
		{"1:cs", "1:c", true},
		{"1:cs", "1:s", true},
		{"1:c", "1:s", false},
		{"1:s", "1:cs", false},
		{"0:e,1:cs,2:e", "1:c,2:e", true},
	}
	for _, tt := range tests {
		p, err := ParseParamPattern(tt.p)
		require.NoError(t, err)
		other, err := ParseParamPattern(tt.other)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Covers(other), "%q covers %q", tt.p, tt.other)
	}
}

func TestDynamismOf(t *testing.T) {
	params := testParams()

	_, ok := dynamismOf(ElementKind(Static), params[0])
	assert.False(t, ok)

	d, ok := dynamismOf(ElementKind(Dynamic), params[0])
	assert.True(t, ok)
	assert.Equal(t, DynElement, d)

	d, _ = dynamismOf(ArrayKind(Dynamic, Static), params[1])
	assert.Equal(t, DynContent, d)
	d, _ = dynamismOf(ArrayKind(Static, Dynamic), params[1])
	assert.Equal(t, DynSize, d)
	d, _ = dynamismOf(ElementKind(Dynamic), params[1])
	assert.Equal(t, DynContentAndSize, d)
}

func TestSpecPatterns(t *testing.T) {
	params := testParams()
	var keys []string
	for _, p := range specPatterns(params) {
		keys = append(keys, p.Key())
	}
	assert.Equal(t, []string{"", "0:e,1:cs,2:e", "0:e", "1:c", "1:s", "1:cs", "2:e"}, keys)

	// A single scalar parameter has one dynamic pattern.
	assert.Len(t, specPatterns(params[:1]), 2)
	assert.Len(t, specPatterns(nil), 1)
}
