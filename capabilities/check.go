// Copyright © 2024 The ELPS authors

// Package capabilities checks the results of the runtime capabilities
// analysis against the capabilities of a target profile.
//
// Every node of a package reports only the runtime features it introduces
// itself: features already reported by one of its children, or by the body
// of a callable it calls within the same package, are not reported again.
// Calls into other packages, to intrinsics and to cyclic specializations
// report the callee's features at the call site.
package capabilities

import (
	"fmt"

	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
)

var featureMessages = map[rca.RuntimeFeatureFlags]string{
	rca.UseOfDynamicBool:                    "cannot use a bool value that depends on a measurement result",
	rca.UseOfDynamicInt:                     "cannot use an integer value that depends on a measurement result",
	rca.UseOfDynamicPauli:                   "cannot use a Pauli value that depends on a measurement result",
	rca.UseOfDynamicRange:                   "cannot use a range that depends on a measurement result",
	rca.UseOfDynamicDouble:                  "cannot use a double value that depends on a measurement result",
	rca.UseOfDynamicQubit:                   "cannot use a dynamically allocated qubit",
	rca.UseOfDynamicBigInt:                  "cannot use a big integer value that depends on a measurement result",
	rca.UseOfDynamicString:                  "cannot use a string that depends on a measurement result",
	rca.UseOfDynamicallySizedArray:          "cannot use an array whose size depends on a measurement result",
	rca.UseOfDynamicUdt:                     "cannot use a user-defined type value that depends on a measurement result",
	rca.UseOfDynamicArrowFunction:           "cannot use a function value that depends on a measurement result",
	rca.UseOfDynamicArrowOperation:          "cannot use an operation value that depends on a measurement result",
	rca.CallToCyclicFunctionWithDynamicArg:  "cannot call a recursive function with an argument that depends on a measurement result",
	rca.CallToCyclicOperationWithDynamicArg: "cannot call a recursive operation with an argument that depends on a measurement result",
	rca.CyclicOperationSpec:                 "operation is recursive",
	rca.CallToDynamicCallee:                 "cannot call a callable value that depends on a measurement result",
	rca.CallToUnresolvedCallee:              "cannot call a callable that cannot be resolved at compile time",
	rca.MeasurementWithinDynamicScope:       "cannot measure within a scope that depends on a measurement result",
	rca.UseOfDynamicIndex:                   "cannot index an array with a value that depends on a measurement result",
	rca.ReturnWithinDynamicScope:            "cannot return within a scope that depends on a measurement result",
	rca.LoopWithDynamicCondition:            "cannot loop on a condition that depends on a measurement result",
	rca.UseOfDynamicResult:                  "cannot use a measurement result as a value",
}

// Message returns the human readable description of a single feature.
func Message(f rca.RuntimeFeatureFlags) string {
	if m, ok := featureMessages[f]; ok {
		return m
	}
	return f.String()
}

// Use is a single runtime feature introduced by a node.
type Use struct {
	Feature rca.RuntimeFeatureFlags
	Node    fir.Node
	Span    fir.Span
}

// Uses returns every runtime feature introduced within the package id, in
// walk order.  The package results must be Done.
func Uses(store *fir.PackageStore, props *rca.PackageStoreComputeProperties, id fir.PackageID) []Use {
	pkg := store.Get(id)
	if pkg == nil {
		panic(fmt.Sprintf("capabilities: unknown package %d", id))
	}
	results := props.Package(id)
	var uses []Use
	for _, item := range pkg.Callables() {
		ip, ok := results.Items.Get(item)
		if !ok {
			continue
		}
		decl := pkg.Callable(item)
		if decl.Kind != fir.CallableOperation {
			continue
		}
		for _, f := range fir.Functors {
			if sp := ip.Spec(f); sp != nil && !sp.Derived && sp.Cyclic {
				uses = append(uses, Use{Feature: rca.CyclicOperationSpec, Span: decl.Span})
				break
			}
		}
	}
	pkg.Walk(pkg.Roots(), func(node, _ fir.Node, _ int) bool {
		own := nodeFeatures(results, node)
		if own == 0 {
			return true
		}
		for _, child := range pkg.Children(node) {
			own = own.Minus(nodeFeatures(results, child))
		}
		if node.Kind == fir.NodeExpr {
			if target, ok := results.CallTargets[fir.ExprID(node.ID)]; ok && reportedInBody(store, props, target, id) {
				own = own.Minus(props.Spec(target).Inherent.Features())
			}
		}
		own = own.Minus(rca.CyclicOperationSpec)
		for _, f := range own.Flags() {
			uses = append(uses, Use{Feature: f, Node: node, Span: pkg.Span(node)})
		}
		return true
	})
	return uses
}

// reportedInBody reports whether the inherent features of the call target
// are reported by the nodes of its body within package id.  Intrinsics have
// no body, and the results of cyclic specializations are not those of any
// body node.
func reportedInBody(store *fir.PackageStore, props *rca.PackageStoreComputeProperties, target fir.StoreSpecID, id fir.PackageID) bool {
	if target.Package != id {
		return false
	}
	decl := store.Get(id).Callable(target.Item)
	if decl == nil || decl.Intrinsic {
		return false
	}
	return !props.SpecProperties(target).Cyclic
}

func nodeFeatures(results *rca.PackageComputeProperties, node fir.Node) rca.RuntimeFeatureFlags {
	var (
		set *rca.ApplicationsGeneratorSet
		ok  bool
	)
	switch node.Kind {
	case fir.NodeBlock:
		set, ok = results.Blocks.Get(fir.BlockID(node.ID))
	case fir.NodeStmt:
		set, ok = results.Stmts.Get(fir.StmtID(node.ID))
	case fir.NodeExpr:
		set, ok = results.Exprs.Get(fir.ExprID(node.ID))
	}
	if !ok || set == nil {
		return 0
	}
	return set.Inherent.Features()
}

// Check reports every runtime feature used in package id that profile
// does not support.  Diagnostics are sorted by position.
func Check(store *fir.PackageStore, props *rca.PackageStoreComputeProperties, id fir.PackageID, profile Profile) []Diagnostic {
	var diags []Diagnostic
	for _, d := range Features(store, props, id) {
		if profile.Allows(d.Feature) {
			continue
		}
		d.Severity = SeverityError
		need := Required(d.Feature)
		d.Notes = append(d.Notes, fmt.Sprintf("requires the %s capability, which target profile %s lacks", need, profile.Name))
		diags = append(diags, d)
	}
	return diags
}

// Features reports every runtime feature used in package id as an
// informational diagnostic.  Diagnostics are sorted by position.
func Features(store *fir.PackageStore, props *rca.PackageStoreComputeProperties, id fir.PackageID) []Diagnostic {
	pkg := store.Get(id)
	uses := Uses(store, props, id)
	if len(uses) == 0 {
		return nil
	}
	sm := fir.NewSourceMap(pkg.Source)
	diags := make([]Diagnostic, 0, len(uses))
	for _, u := range uses {
		diags = append(diags, Diagnostic{
			Pos:      positionOf(sm.Position(u.Span.Lo)),
			End:      positionOf(sm.Position(u.Span.Hi)),
			Span:     u.Span,
			Package:  pkg.Name,
			Feature:  u.Feature,
			Code:     Code(u.Feature),
			Message:  Message(u.Feature),
			Severity: SeverityInfo,
		})
	}
	sortDiagnostics(diags)
	return diags
}

// Summary returns the union of the features used in package id and the
// least capable profile able to run it.
func Summary(store *fir.PackageStore, props *rca.PackageStoreComputeProperties, id fir.PackageID) (rca.RuntimeFeatureFlags, Profile) {
	var all rca.RuntimeFeatureFlags
	for _, u := range Uses(store, props, id) {
		all |= u.Feature
	}
	return all, MinimalProfile(all)
}

// MinimalProfile returns the least capable profile supporting features.
func MinimalProfile(features rca.RuntimeFeatureFlags) Profile {
	for _, p := range Profiles {
		if p.Allows(features) {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}
