// Copyright © 2024 The ELPS authors

package capabilities

import (
	"fmt"
	"strings"

	"github.com/luthersystems/qrca/rca"
)

// Capability is a set of target capabilities.
type Capability uint32

const (
	// Adaptive targets branch on measurement results.
	Adaptive Capability = 1 << iota
	QubitReset
	IntegerComputations
	FloatingPointComputations
	BackwardsBranching
	StaticSizedArrays
	HigherLevelConstructs

	numCapabilities = iota
)

var capabilityNames = [numCapabilities]string{
	"Adaptive",
	"QubitReset",
	"IntegerComputations",
	"FloatingPointComputations",
	"BackwardsBranching",
	"StaticSizedArrays",
	"HigherLevelConstructs",
}

// Has reports whether every capability in other is set.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for i, name := range capabilityNames {
		if c&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, " | ")
}

// Required returns the capability a target needs to support a runtime
// feature.
func Required(f rca.RuntimeFeatureFlags) Capability {
	switch f {
	case rca.UseOfDynamicBool, rca.MeasurementWithinDynamicScope:
		return Adaptive
	case rca.UseOfDynamicInt, rca.UseOfDynamicPauli, rca.UseOfDynamicRange:
		return IntegerComputations
	case rca.UseOfDynamicDouble:
		return FloatingPointComputations
	case rca.LoopWithDynamicCondition, rca.CyclicOperationSpec,
		rca.CallToCyclicFunctionWithDynamicArg, rca.CallToCyclicOperationWithDynamicArg:
		return BackwardsBranching
	case rca.UseOfDynamicIndex:
		return StaticSizedArrays
	default:
		return HigherLevelConstructs
	}
}

// Profile is a named set of target capabilities.
type Profile struct {
	Name         string
	Description  string
	Capabilities Capability
}

// Allows reports whether the profile supports every feature in f.
func (p Profile) Allows(f rca.RuntimeFeatureFlags) bool {
	return p.Disallowed(f) == 0
}

// Disallowed returns the features of f the profile does not support.
func (p Profile) Disallowed(f rca.RuntimeFeatureFlags) rca.RuntimeFeatureFlags {
	var out rca.RuntimeFeatureFlags
	for _, flag := range f.Flags() {
		if !p.Capabilities.Has(Required(flag)) {
			out |= flag
		}
	}
	return out
}

// Allowed returns the mask of runtime features the profile supports.
func (p Profile) Allowed() rca.RuntimeFeatureFlags {
	var out rca.RuntimeFeatureFlags
	for _, flag := range rca.AllFeatures() {
		if p.Capabilities.Has(Required(flag)) {
			out |= flag
		}
	}
	return out
}

// AllowsDynamicValues reports whether the target can branch on
// measurement results at all.
func (p Profile) AllowsDynamicValues() bool {
	return p.Capabilities.Has(Adaptive)
}

const adaptive = Adaptive | QubitReset

// Profiles lists the known profiles from least to most capable.
var Profiles = []Profile{
	{
		Name:         "base",
		Description:  "Sequences of gates with measurements at the end.",
		Capabilities: 0,
	},
	{
		Name:         "adaptive",
		Description:  "Branching on measurement results and qubit reuse.",
		Capabilities: adaptive,
	},
	{
		Name:         "adaptive_ri",
		Description:  "Adaptive, with integer computations on measurement results.",
		Capabilities: adaptive | IntegerComputations,
	},
	{
		Name:         "adaptive_rif",
		Description:  "Adaptive, with integer and floating-point computations.",
		Capabilities: adaptive | IntegerComputations | FloatingPointComputations,
	},
	{
		Name:        "adaptive_rifla",
		Description: "Adaptive, with integer and floating-point computations, loops and arrays.",
		Capabilities: adaptive | IntegerComputations | FloatingPointComputations |
			BackwardsBranching | StaticSizedArrays,
	},
	{
		Name:         "unrestricted",
		Description:  "Any classical computation at runtime.",
		Capabilities: 1<<numCapabilities - 1,
	},
}

// ParseProfile returns the profile with the given name.  Names are case
// insensitive and may use dashes for underscores.
func ParseProfile(name string) (Profile, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, p := range Profiles {
		if p.Name == norm {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown target profile %q", name)
}

// Code returns the stable kebab-case diagnostic code of a single feature,
// for example "use-of-dynamic-bool".
func Code(f rca.RuntimeFeatureFlags) string {
	name := f.String()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
