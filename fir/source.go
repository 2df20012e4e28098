// Copyright © 2024 The ELPS authors

package fir

import (
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column in a source file.  Col counts
// runes.
type Position struct {
	File string
	Line int
	Col  int
}

// SourceMap converts byte offsets into positions.
type SourceMap struct {
	src        Source
	lineStarts []int
}

// NewSourceMap indexes the line starts of src.
func NewSourceMap(src Source) *SourceMap {
	starts := []int{0}
	for i := 0; i < len(src.Contents); i++ {
		if src.Contents[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{src: src, lineStarts: starts}
}

// Position returns the position of the byte offset.  Offsets past the end
// clamp to the end of the source.
func (m *SourceMap) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.src.Contents) {
		offset = len(m.src.Contents)
	}
	line := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	}) - 1
	start := m.lineStarts[line]
	col := utf8.RuneCountInString(m.src.Contents[start:offset]) + 1
	return Position{File: m.src.Name, Line: line + 1, Col: col}
}

// Line returns the text of a 1-based line without its newline.
func (m *SourceMap) Line(n int) string {
	if n < 1 || n > len(m.lineStarts) {
		return ""
	}
	start := m.lineStarts[n-1]
	end := len(m.src.Contents)
	if n < len(m.lineStarts) {
		end = m.lineStarts[n] - 1
	}
	return m.src.Contents[start:end]
}

// File returns the source name.
func (m *SourceMap) File() string {
	return m.src.Name
}
