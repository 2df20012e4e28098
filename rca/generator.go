// Copyright © 2024 The ELPS authors

package rca

import (
	"encoding/json"
	"sort"
)

// ApplicationsGeneratorSet describes how the compute kind of a callable
// specialization, or of any node inside one, depends on which of the
// callable's parameters are dynamic.
//
// Inherent is the result with every parameter static.  Dynamic parameter
// applications are keyed by ParamPattern.Key and are append-only: once a
// key is present its value never changes.
type ApplicationsGeneratorSet struct {
	Inherent ComputeKind
	apps     map[string]ComputeKind
	params   []Param
}

// NewApplicationsGeneratorSet returns a set with the given inherent kind
// for a callable with the given parameters.
func NewApplicationsGeneratorSet(inherent ComputeKind, params []Param) *ApplicationsGeneratorSet {
	return &ApplicationsGeneratorSet{Inherent: inherent, apps: make(map[string]ComputeKind), params: params}
}

// Params returns the parameters the set is keyed over.
func (s *ApplicationsGeneratorSet) Params() []Param {
	return s.params
}

// Application returns the recorded result for pattern, if any.  The
// empty pattern always yields Inherent.
func (s *ApplicationsGeneratorSet) Application(p ParamPattern) (ComputeKind, bool) {
	if p.IsEmpty() {
		return s.Inherent, true
	}
	k, ok := s.apps[p.Key()]
	return k, ok
}

// Insert records the result for pattern.  It reports false, leaving the
// set unchanged, when the key is already present.
func (s *ApplicationsGeneratorSet) Insert(p ParamPattern, k ComputeKind) bool {
	if p.IsEmpty() {
		return false
	}
	key := p.Key()
	if _, ok := s.apps[key]; ok {
		return false
	}
	s.apps[key] = k
	return true
}

// Len returns the number of recorded dynamic applications.
func (s *ApplicationsGeneratorSet) Len() int {
	return len(s.apps)
}

// Keys returns the recorded pattern keys in sorted order.
func (s *ApplicationsGeneratorSet) Keys() []string {
	keys := make([]string, 0, len(s.apps))
	for k := range s.apps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GenerateMode says how Generate obtained its result.
type GenerateMode int

const (
	GenerateExact GenerateMode = iota
	GenerateComposed
	GenerateFallback
)

// Generate returns the compute kind of an application with the given
// dynamic parameters.  An exact entry wins.  Otherwise the result is
// composed from the single-parameter entries: dynamism propagates by
// union, so the composition equals the inherent kind joined with each
// single-parameter application.  When a single-parameter entry is
// missing the all-dynamic entry is used, which is never less dynamic than
// the requested pattern.
func (s *ApplicationsGeneratorSet) Generate(p ParamPattern) (ComputeKind, GenerateMode) {
	if k, ok := s.Application(p); ok {
		return k, GenerateExact
	}
	composed := s.Inherent
	for _, single := range p.Singles() {
		k, ok := s.apps[single.Key()]
		if !ok {
			return s.fallback(), GenerateFallback
		}
		composed = composed.Join(k)
	}
	return composed, GenerateComposed
}

func (s *ApplicationsGeneratorSet) fallback() ComputeKind {
	if k, ok := s.apps[AllDynamic(s.params).Key()]; ok {
		return k
	}
	// Every analyzed set records the all-dynamic key; a set without it
	// can only be one with no parameters.
	return s.Inherent
}

// Clone returns an independent copy of the set.
func (s *ApplicationsGeneratorSet) Clone() *ApplicationsGeneratorSet {
	c := NewApplicationsGeneratorSet(s.Inherent, s.params)
	for k, v := range s.apps {
		c.apps[k] = v
	}
	return c
}

// Equal reports whether both sets hold the same results.
func (s *ApplicationsGeneratorSet) Equal(other *ApplicationsGeneratorSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Inherent != other.Inherent || len(s.apps) != len(other.apps) {
		return false
	}
	for k, v := range s.apps {
		if ov, ok := other.apps[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the inherent kind and the recorded applications.
func (s *ApplicationsGeneratorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Inherent     ComputeKind            `json:"inherent"`
		Applications map[string]ComputeKind `json:"dynamic_param_applications,omitempty"`
	}{s.Inherent, s.apps})
}
