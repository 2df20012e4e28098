// Copyright © 2024 The ELPS authors

package rca

import (
	"fmt"

	"github.com/luthersystems/qrca/fir"
)

// PackageStoreComputeProperties is the published, read-only view of the
// results of every package that finished analysis.  Queries for a package
// that is not Done panic.
type PackageStoreComputeProperties struct {
	store    *fir.PackageStore
	packages map[fir.PackageID]*PackageComputeProperties
	status   map[fir.PackageID]Status
}

func newPackageStoreComputeProperties(store *fir.PackageStore) *PackageStoreComputeProperties {
	return &PackageStoreComputeProperties{
		store:    store,
		packages: make(map[fir.PackageID]*PackageComputeProperties),
		status:   make(map[fir.PackageID]Status),
	}
}

// Status returns the analysis status of a package.
func (p *PackageStoreComputeProperties) Status(id fir.PackageID) Status {
	return p.status[id]
}

// IsDone reports whether the package results are available.
func (p *PackageStoreComputeProperties) IsDone(id fir.PackageID) bool {
	return p.status[id] == Done
}

// Package returns the results of a package.
func (p *PackageStoreComputeProperties) Package(id fir.PackageID) *PackageComputeProperties {
	if p.status[id] != Done {
		panic(fmt.Sprintf("rca: package %d is %s, not Done", id, p.status[id]))
	}
	return p.packages[id]
}

func (p *PackageStoreComputeProperties) publish(id fir.PackageID, props *PackageComputeProperties) {
	p.packages[id] = props
	p.status[id] = Done
}

// clear drops the published results of a package.  Results already handed
// out remain valid snapshots.
func (p *PackageStoreComputeProperties) clear(id fir.PackageID) {
	delete(p.packages, id)
	p.status[id] = NotStarted
}

// Expr returns the applications generator set of an expression.
func (p *PackageStoreComputeProperties) Expr(id fir.StoreExprID) *ApplicationsGeneratorSet {
	set, ok := p.Package(id.Package).Exprs.Get(id.Expr)
	if !ok {
		panic(fmt.Sprintf("rca: no results for expr %d of package %d", id.Expr, id.Package))
	}
	return set
}

// Stmt returns the applications generator set of a statement.
func (p *PackageStoreComputeProperties) Stmt(id fir.StoreStmtID) *ApplicationsGeneratorSet {
	set, ok := p.Package(id.Package).Stmts.Get(id.Stmt)
	if !ok {
		panic(fmt.Sprintf("rca: no results for stmt %d of package %d", id.Stmt, id.Package))
	}
	return set
}

// Block returns the applications generator set of a block.
func (p *PackageStoreComputeProperties) Block(id fir.StoreBlockID) *ApplicationsGeneratorSet {
	set, ok := p.Package(id.Package).Blocks.Get(id.Block)
	if !ok {
		panic(fmt.Sprintf("rca: no results for block %d of package %d", id.Block, id.Package))
	}
	return set
}

// Item returns the results of an item.
func (p *PackageStoreComputeProperties) Item(id fir.StoreItemID) ItemComputeProperties {
	props, ok := p.Package(id.Package).Items.Get(id.Item)
	if !ok {
		panic(fmt.Sprintf("rca: no results for %s", id))
	}
	return props
}

// Spec returns the applications generator set of a specialization,
// resolving derived specializations to their source.
func (p *PackageStoreComputeProperties) Spec(id fir.StoreSpecID) *ApplicationsGeneratorSet {
	return p.SpecProperties(id).Set
}

// SpecProperties returns the stored properties of the specialization whose
// results id uses, following derivations.
func (p *PackageStoreComputeProperties) SpecProperties(id fir.StoreSpecID) *SpecProperties {
	item := p.Item(id.ItemID())
	if !item.Callable {
		panic(fmt.Sprintf("rca: %s is not callable", id.ItemID()))
	}
	f := id.Functor
	for hops := 0; hops < len(item.Specs); hops++ {
		sp := item.Specs[f]
		if sp == nil {
			panic(fmt.Sprintf("rca: %s has no results", fir.StoreSpecID{Package: id.Package, Item: id.Item, Functor: f}))
		}
		if !sp.Derived {
			return sp
		}
		f = sp.Source
	}
	panic(fmt.Sprintf("rca: derivation loop at %s", id))
}

// CallTarget returns the specialization a call expression invokes.
func (p *PackageStoreComputeProperties) CallTarget(id fir.StoreExprID) (fir.StoreSpecID, bool) {
	target, ok := p.Package(id.Package).CallTargets[id.Expr]
	return target, ok
}

// Packages returns the IDs of every Done package in ascending order.
func (p *PackageStoreComputeProperties) Packages() []fir.PackageID {
	var ids []fir.PackageID
	for _, id := range p.store.IDs() {
		if p.IsDone(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
