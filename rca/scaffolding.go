// Copyright © 2024 The ELPS authors

package rca

import (
	"fmt"

	"github.com/luthersystems/qrca/fir"
)

// Status is the analysis state of a package or specialization.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Done
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "InProgress"
	case Done:
		return "Done"
	default:
		return "NotStarted"
	}
}

// SpecProperties are the results for one specialization.  A derived
// specialization stores no set of its own; it names the specialization
// its results are taken from.
type SpecProperties struct {
	Set     *ApplicationsGeneratorSet
	Derived bool
	Source  fir.Functor
	Gen     fir.SpecGen
	Cyclic  bool
}

// ItemComputeProperties are the results for an item.  Non-callable items
// carry no results.
type ItemComputeProperties struct {
	Callable bool
	Specs    [4]*SpecProperties
}

// Spec returns the stored properties for f, or nil.
func (p ItemComputeProperties) Spec(f fir.Functor) *SpecProperties {
	return p.Specs[f]
}

// PackageComputeProperties holds the results of one package, indexed by
// the IDs of the package's node tables.
type PackageComputeProperties struct {
	Items  IndexMap[fir.LocalItemID, ItemComputeProperties]
	Blocks IndexMap[fir.BlockID, *ApplicationsGeneratorSet]
	Stmts  IndexMap[fir.StmtID, *ApplicationsGeneratorSet]
	Exprs  IndexMap[fir.ExprID, *ApplicationsGeneratorSet]
	// CallTargets records the specialization each resolved call expression
	// invokes.
	CallTargets map[fir.ExprID]fir.StoreSpecID
}

func newPackageComputeProperties() *PackageComputeProperties {
	return &PackageComputeProperties{CallTargets: make(map[fir.ExprID]fir.StoreSpecID)}
}

// Equal reports whether both hold identical results.
func (p *PackageComputeProperties) Equal(other *PackageComputeProperties) bool {
	return itemsEqual(&p.Items, &other.Items) &&
		setsEqual(&p.Blocks, &other.Blocks) &&
		setsEqual(&p.Stmts, &other.Stmts) &&
		setsEqual(&p.Exprs, &other.Exprs) &&
		targetsEqual(p.CallTargets, other.CallTargets)
}

func setsEqual[K ~int](a, b *IndexMap[K, *ApplicationsGeneratorSet]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Range(func(id K, s *ApplicationsGeneratorSet) bool {
		o, ok := b.Get(id)
		equal = ok && s.Equal(o)
		return equal
	})
	return equal
}

func itemsEqual(a, b *IndexMap[fir.LocalItemID, ItemComputeProperties]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Range(func(id fir.LocalItemID, item ItemComputeProperties) bool {
		o, ok := b.Get(id)
		if !ok || o.Callable != item.Callable {
			equal = false
			return false
		}
		for f := range item.Specs {
			x, y := item.Specs[f], o.Specs[f]
			if (x == nil) != (y == nil) {
				equal = false
			} else if x != nil && (x.Derived != y.Derived || x.Source != y.Source ||
				x.Gen != y.Gen || x.Cyclic != y.Cyclic || !x.Set.Equal(y.Set)) {
				equal = false
			}
		}
		return equal
	})
	return equal
}

func targetsEqual(a, b map[fir.ExprID]fir.StoreSpecID) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// specState tracks one specialization during a package run.
type specState struct {
	status Status
	cyclic bool
}

// Scaffolding is the mutable working store of a single package run.  It is
// exclusively owned by the Analyzer performing the run and handed over to
// the published store when the run completes.
type Scaffolding struct {
	pkg   fir.PackageID
	props *PackageComputeProperties
	specs map[fir.StoreSpecID]*specState
	stack []fir.StoreSpecID
}

func newScaffolding(pkg fir.PackageID) *Scaffolding {
	return &Scaffolding{
		pkg:   pkg,
		props: newPackageComputeProperties(),
		specs: make(map[fir.StoreSpecID]*specState),
	}
}

func (s *Scaffolding) state(id fir.StoreSpecID) *specState {
	st, ok := s.specs[id]
	if !ok {
		st = &specState{}
		s.specs[id] = st
	}
	return st
}

func (s *Scaffolding) push(id fir.StoreSpecID) {
	s.state(id).status = InProgress
	s.stack = append(s.stack, id)
}

func (s *Scaffolding) pop(id fir.StoreSpecID) {
	n := len(s.stack)
	if n == 0 || s.stack[n-1] != id {
		panic(fmt.Sprintf("rca: analysis stack out of order at %s", id))
	}
	s.stack = s.stack[:n-1]
	s.state(id).status = Done
}

// markCycle flags every specialization from id to the top of the stack as
// cyclic and returns them.  fresh is false when every member was already
// flagged, as when a later pattern walk closes the same cycle again.
func (s *Scaffolding) markCycle(id fir.StoreSpecID) (cycle []fir.StoreSpecID, fresh bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == id {
			for _, member := range s.stack[i:] {
				st := s.state(member)
				if !st.cyclic {
					st.cyclic = true
					fresh = true
				}
			}
			return append([]fir.StoreSpecID(nil), s.stack[i:]...), fresh
		}
	}
	panic(fmt.Sprintf("rca: %s is in progress but not on the analysis stack", id))
}

// setSpec stores the results of a specialization.
func (s *Scaffolding) setSpec(item fir.LocalItemID, f fir.Functor, sp *SpecProperties) {
	props, _ := s.props.Items.Get(item)
	props.Callable = true
	props.Specs[f] = sp
	s.props.Items.Insert(item, props)
}

// spec returns the stored results of a specialization.
func (s *Scaffolding) spec(item fir.LocalItemID, f fir.Functor) *SpecProperties {
	props, ok := s.props.Items.Get(item)
	if !ok {
		return nil
	}
	return props.Specs[f]
}

// recorder accumulates node results for one walk and writes them into the
// scaffolding under a single pattern key.
type recorder struct {
	blocks map[fir.BlockID]ComputeKind
	stmts  map[fir.StmtID]ComputeKind
	exprs  map[fir.ExprID]ComputeKind
}

func newRecorder() *recorder {
	return &recorder{
		blocks: make(map[fir.BlockID]ComputeKind),
		stmts:  make(map[fir.StmtID]ComputeKind),
		exprs:  make(map[fir.ExprID]ComputeKind),
	}
}

func (s *Scaffolding) flush(r *recorder, pattern ParamPattern, params []Param) {
	flushInto(&s.props.Blocks, r.blocks, pattern, params)
	flushInto(&s.props.Stmts, r.stmts, pattern, params)
	flushInto(&s.props.Exprs, r.exprs, pattern, params)
}

func flushInto[K ~int](m *IndexMap[K, *ApplicationsGeneratorSet], results map[K]ComputeKind, pattern ParamPattern, params []Param) {
	for id, k := range results {
		set, ok := m.Get(id)
		if !ok {
			set = NewApplicationsGeneratorSet(Classical, params)
			m.Insert(id, set)
		}
		if pattern.IsEmpty() {
			set.Inherent = k
			continue
		}
		set.Insert(pattern, k)
	}
}
