// Copyright © 2024 The ELPS authors

package rcatest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luthersystems/qrca/rca"
)

// AssertMonotone checks that making more parameters dynamic never makes
// an application of set less dynamic.  Every recorded application is
// compared with the inherent kind and with every recorded application whose
// pattern it covers:
//
//	it is quantum if the covered kind is,
//
//	its runtime features include the covered features,
//
//	its value is dynamic in every part the covered value is.
func AssertMonotone(t *testing.T, set *rca.ApplicationsGeneratorSet) bool {
	t.Helper()
	if !assert.NotNil(t, set) {
		return false
	}
	keys := append([]string{""}, set.Keys()...)
	ok := true
	for _, key := range keys {
		p := parsePattern(key)
		k := applicationByKey(set, key)
		for _, lesser := range keys {
			q := parsePattern(lesser)
			if key == lesser || !p.Covers(q) {
				continue
			}
			ok = assertAtLeast(t, k, applicationByKey(set, lesser), patternName(key), patternName(lesser)) && ok
		}
	}
	return ok
}

func assertAtLeast(t *testing.T, k, lesser rca.ComputeKind, name, lesserName string) bool {
	t.Helper()
	ok := true
	if lesser.Quantum {
		ok = assert.True(t, k.Quantum, "application %s is classical, %s is not", name, lesserName) && ok
	}
	ok = assert.True(t, k.Features().Has(lesser.Features()),
		"application %s drops features %s of %s", name, lesser.Features().Minus(k.Features()), lesserName) && ok
	vk, lvk := k.ValueKind(), lesser.ValueKind()
	if lvk.Content == rca.Dynamic {
		ok = assert.Equal(t, rca.Dynamic, vk.Content, "application %s has static content, %s does not", name, lesserName) && ok
	}
	if lvk.Size == rca.Dynamic {
		ok = assert.Equal(t, rca.Dynamic, vk.Size, "application %s has static size, %s does not", name, lesserName) && ok
	}
	return ok
}

func patternName(key string) string {
	if key == "" {
		return "inherent"
	}
	return key
}

func parsePattern(key string) rca.ParamPattern {
	p, err := rca.ParseParamPattern(key)
	if err != nil {
		panic(err)
	}
	return p
}

func applicationByKey(set *rca.ApplicationsGeneratorSet, key string) rca.ComputeKind {
	if key == "" {
		return set.Inherent
	}
	k, _ := set.Application(parsePattern(key))
	return k
}
