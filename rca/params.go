// Copyright © 2024 The ELPS authors

package rca

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/luthersystems/qrca/fir"
)

// Dynamism says which part of a dynamic parameter is dynamic.
type Dynamism uint8

const (
	// DynElement marks a non-array parameter as dynamic.
	DynElement Dynamism = iota
	DynContent
	DynSize
	DynContentAndSize
)

var dynamismCodes = [...]string{
	DynElement:        "e",
	DynContent:        "c",
	DynSize:           "s",
	DynContentAndSize: "cs",
}

func (d Dynamism) String() string {
	return dynamismCodes[d]
}

// ValueKind returns the value kind a parameter with this dynamism has
// inside the callee.
func (d Dynamism) ValueKind() ValueKind {
	switch d {
	case DynContent:
		return ArrayKind(Dynamic, Static)
	case DynSize:
		return ArrayKind(Static, Dynamic)
	case DynContentAndSize:
		return ArrayKind(Dynamic, Dynamic)
	default:
		return ElementKind(Dynamic)
	}
}

// Covers reports whether d makes a parameter at least as dynamic as other.
func (d Dynamism) Covers(other Dynamism) bool {
	switch {
	case d == other:
		return true
	case d == DynContentAndSize:
		return other == DynContent || other == DynSize
	default:
		return false
	}
}

// dynamismOf converts the value kind of an argument into the dynamism of
// the parameter it is bound to.  ok is false for static arguments.
func dynamismOf(vk ValueKind, param Param) (Dynamism, bool) {
	if !vk.IsDynamic() {
		return 0, false
	}
	if !param.Array {
		return DynElement, true
	}
	vk = vk.Reshape(param.Ty)
	switch {
	case vk.Content == Dynamic && vk.Size == Dynamic:
		return DynContentAndSize, true
	case vk.Content == Dynamic:
		return DynContent, true
	default:
		return DynSize, true
	}
}

// Param describes one input parameter of a callable.  Parameters are the
// local bindings of the input pattern in binding order.
type Param struct {
	Index int
	Local fir.LocalVarID
	Ty    fir.Ty
	Array bool
	// Path locates the binding inside the (possibly nested) input tuple.
	Path []int
}

// paramsOf enumerates the bindings of an input pattern.
func paramsOf(pkg *fir.Package, input fir.PatID) []Param {
	var params []Param
	var visit func(id fir.PatID, path []int)
	visit = func(id fir.PatID, path []int) {
		pat := pkg.Pat(id)
		if pat == nil {
			return
		}
		switch k := pat.Kind.(type) {
		case fir.PatBind:
			params = append(params, Param{
				Index: len(params),
				Local: k.Local,
				Ty:    pat.Ty,
				Array: pat.Ty.IsArray(),
				Path:  append([]int(nil), path...),
			})
		case fir.PatTuple:
			for i, item := range k.Items {
				visit(item, append(path, i))
			}
		}
	}
	visit(input, nil)
	return params
}

// ParamEntry is one dynamic parameter of a pattern.
type ParamEntry struct {
	Index    int
	Dynamism Dynamism
}

// ParamPattern is the set of dynamic parameters at a call site, sorted by
// parameter index.  The empty pattern means every argument is static.
type ParamPattern []ParamEntry

// NewParamPattern returns a sorted pattern of the given entries.
func NewParamPattern(entries ...ParamEntry) ParamPattern {
	p := append(ParamPattern(nil), entries...)
	sort.Slice(p, func(i, j int) bool { return p[i].Index < p[j].Index })
	return p
}

// AllDynamic returns the pattern in which every parameter is fully
// dynamic.
func AllDynamic(params []Param) ParamPattern {
	p := make(ParamPattern, len(params))
	for i, param := range params {
		d := DynElement
		if param.Array {
			d = DynContentAndSize
		}
		p[i] = ParamEntry{Index: i, Dynamism: d}
	}
	return p
}

// SingleParamPatterns returns every pattern with exactly one dynamic
// parameter.  Array parameters contribute content, size and both.
func SingleParamPatterns(params []Param) []ParamPattern {
	var out []ParamPattern
	for i, param := range params {
		if param.Array {
			for _, d := range []Dynamism{DynContent, DynSize, DynContentAndSize} {
				out = append(out, ParamPattern{{Index: i, Dynamism: d}})
			}
			continue
		}
		out = append(out, ParamPattern{{Index: i, Dynamism: DynElement}})
	}
	return out
}

// IsEmpty reports whether every parameter is static.
func (p ParamPattern) IsEmpty() bool {
	return len(p) == 0
}

// Get returns the dynamism of parameter i.
func (p ParamPattern) Get(i int) (Dynamism, bool) {
	for _, e := range p {
		if e.Index == i {
			return e.Dynamism, true
		}
	}
	return 0, false
}

// Key is the canonical map key of the pattern, for example "0:e,2:cs".
func (p ParamPattern) Key() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = fmt.Sprintf("%d:%s", e.Index, e.Dynamism)
	}
	return strings.Join(parts, ",")
}

// ParseParamPattern parses a pattern key as produced by Key.
func ParseParamPattern(key string) (ParamPattern, error) {
	if key == "" {
		return nil, nil
	}
	var entries []ParamEntry
	for _, part := range strings.Split(key, ",") {
		index, code, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("rca: malformed pattern entry %q", part)
		}
		i, err := strconv.Atoi(index)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("rca: malformed parameter index %q", index)
		}
		d, ok := parseDynamism(code)
		if !ok {
			return nil, fmt.Errorf("rca: unknown dynamism %q", code)
		}
		entries = append(entries, ParamEntry{Index: i, Dynamism: d})
	}
	return NewParamPattern(entries...), nil
}

func parseDynamism(code string) (Dynamism, bool) {
	for d, c := range dynamismCodes {
		if c == code {
			return Dynamism(d), true
		}
	}
	return 0, false
}

func (p ParamPattern) String() string {
	if p.IsEmpty() {
		return "inherent"
	}
	return p.Key()
}

// Covers reports whether p is at least as dynamic as other: every dynamic
// parameter of other is dynamic in p, in the same parts or more.
func (p ParamPattern) Covers(other ParamPattern) bool {
	for _, e := range other {
		d, ok := p.Get(e.Index)
		if !ok || !d.Covers(e.Dynamism) {
			return false
		}
	}
	return true
}

// Singles splits the pattern into single-parameter patterns.
func (p ParamPattern) Singles() []ParamPattern {
	out := make([]ParamPattern, len(p))
	for i, e := range p {
		out[i] = ParamPattern{e}
	}
	return out
}
