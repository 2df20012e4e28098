// Copyright © 2024 The ELPS authors

package fir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceMap_Position(t *testing.T) {
	m := NewSourceMap(Source{Name: "a.qs", Contents: "let x = 1;\nlet ψ = M(q);\n"})
	assert.Equal(t, Position{File: "a.qs", Line: 1, Col: 1}, m.Position(0))
	assert.Equal(t, Position{File: "a.qs", Line: 1, Col: 5}, m.Position(4))
	assert.Equal(t, Position{File: "a.qs", Line: 2, Col: 1}, m.Position(11))
	// ψ is two bytes; the column counts runes.
	assert.Equal(t, Position{File: "a.qs", Line: 2, Col: 8}, m.Position(19))
	assert.Equal(t, Position{File: "a.qs", Line: 3, Col: 1}, m.Position(1000))
	assert.Equal(t, Position{File: "a.qs", Line: 1, Col: 1}, m.Position(-4))
}

func TestSourceMap_Line(t *testing.T) {
	m := NewSourceMap(Source{Name: "a.qs", Contents: "one\ntwo\nthree"})
	assert.Equal(t, "one", m.Line(1))
	assert.Equal(t, "two", m.Line(2))
	assert.Equal(t, "three", m.Line(3))
	assert.Equal(t, "", m.Line(4))
	assert.Equal(t, "a.qs", m.File())
}
