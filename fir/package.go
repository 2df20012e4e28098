// Copyright © 2024 The ELPS authors

package fir

import (
	"fmt"
	"sort"
)

// Source is the text a package was compiled from.
type Source struct {
	Name     string
	Contents string
}

// Package is one compilation unit.  Node tables are indexed by ID and may
// contain nil holes.
type Package struct {
	ID           PackageID
	Name         string
	Dependencies []PackageID
	Items        []*Item
	Blocks       []*Block
	Stmts        []*Stmt
	Exprs        []*Expr
	Pats         []*Pat
	Locals       []*Local
	// Entry is the package entry expression, or NoExpr.
	Entry ExprID
	// TopLevel holds statements outside any callable, as found in
	// interactive fragments.
	TopLevel []StmtID
	Source   Source
}

// NewPackage returns an empty package.
func NewPackage(id PackageID, name string, deps ...PackageID) *Package {
	return &Package{
		ID:           id,
		Name:         name,
		Dependencies: deps,
		Entry:        NoExpr,
	}
}

// Item returns the item with the given ID or nil.
func (p *Package) Item(id LocalItemID) *Item {
	if id < 0 || int(id) >= len(p.Items) {
		return nil
	}
	return p.Items[id]
}

// Block returns the block with the given ID or nil.
func (p *Package) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(p.Blocks) {
		return nil
	}
	return p.Blocks[id]
}

// Stmt returns the statement with the given ID or nil.
func (p *Package) Stmt(id StmtID) *Stmt {
	if id < 0 || int(id) >= len(p.Stmts) {
		return nil
	}
	return p.Stmts[id]
}

// Expr returns the expression with the given ID or nil.
func (p *Package) Expr(id ExprID) *Expr {
	if id < 0 || int(id) >= len(p.Exprs) {
		return nil
	}
	return p.Exprs[id]
}

// Pat returns the pattern with the given ID or nil.
func (p *Package) Pat(id PatID) *Pat {
	if id < 0 || int(id) >= len(p.Pats) {
		return nil
	}
	return p.Pats[id]
}

// Local returns the local with the given ID or nil.
func (p *Package) Local(id LocalVarID) *Local {
	if id < 0 || int(id) >= len(p.Locals) {
		return nil
	}
	return p.Locals[id]
}

// Callable returns the declaration of a callable item or nil.
func (p *Package) Callable(id LocalItemID) *CallableDecl {
	item := p.Item(id)
	if item == nil {
		return nil
	}
	if c, ok := item.Kind.(ItemCallable); ok {
		return c.Decl
	}
	return nil
}

// Callables returns the IDs of all callable items in ID order.
func (p *Package) Callables() []LocalItemID {
	var ids []LocalItemID
	for _, item := range p.Items {
		if item == nil {
			continue
		}
		if _, ok := item.Kind.(ItemCallable); ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// PatLocals returns the locals bound by a pattern in binding order.
func (p *Package) PatLocals(id PatID) []LocalVarID {
	pat := p.Pat(id)
	if pat == nil {
		return nil
	}
	switch k := pat.Kind.(type) {
	case PatBind:
		return []LocalVarID{k.Local}
	case PatTuple:
		var ids []LocalVarID
		for _, item := range k.Items {
			ids = append(ids, p.PatLocals(item)...)
		}
		return ids
	default:
		return nil
	}
}

// PackageStore holds every package of a program.
type PackageStore struct {
	packages map[PackageID]*Package
}

// NewPackageStore returns an empty store.
func NewPackageStore() *PackageStore {
	return &PackageStore{packages: make(map[PackageID]*Package)}
}

// Insert adds a package.  The ID must be unused.
func (s *PackageStore) Insert(pkg *Package) error {
	if _, ok := s.packages[pkg.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicatePackage, pkg.ID)
	}
	s.packages[pkg.ID] = pkg
	return nil
}

// Replace swaps in a new version of an existing package.
func (s *PackageStore) Replace(pkg *Package) error {
	if _, ok := s.packages[pkg.ID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPackage, pkg.ID)
	}
	s.packages[pkg.ID] = pkg
	return nil
}

// Get returns the package with the given ID or nil.
func (s *PackageStore) Get(id PackageID) *Package {
	return s.packages[id]
}

// Len returns the number of packages in the store.
func (s *PackageStore) Len() int {
	return len(s.packages)
}

// IDs returns every package ID in ascending order.
func (s *PackageStore) IDs() []PackageID {
	ids := make([]PackageID, 0, len(s.packages))
	for id := range s.packages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TopoOrder returns package IDs such that every package follows its
// dependencies.  Ties are broken by ascending ID.
func (s *PackageStore) TopoOrder() ([]PackageID, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[PackageID]int, len(s.packages))
	order := make([]PackageID, 0, len(s.packages))
	var visit func(id PackageID, path []PackageID) error
	visit = func(id PackageID, path []PackageID) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrDependencyCycle, append(path, id))
		}
		pkg := s.packages[id]
		if pkg == nil {
			return fmt.Errorf("%w: %d", ErrUnknownPackage, id)
		}
		state[id] = visiting
		for _, dep := range pkg.Dependencies {
			if err := visit(dep, append(path, id)); err != nil {
				return err
			}
		}
		state[id] = visited
		order = append(order, id)
		return nil
	}
	for _, id := range s.IDs() {
		if err := visit(id, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// reachable returns id and every package it transitively depends on.
func (s *PackageStore) reachable(id PackageID) map[PackageID]bool {
	seen := map[PackageID]bool{}
	var visit func(id PackageID)
	visit = func(id PackageID) {
		if seen[id] {
			return
		}
		seen[id] = true
		if pkg := s.packages[id]; pkg != nil {
			for _, dep := range pkg.Dependencies {
				visit(dep)
			}
		}
	}
	visit(id)
	return seen
}

// Dependents returns the packages that directly depend on id, in ascending
// order.
func (s *PackageStore) Dependents(id PackageID) []PackageID {
	var ids []PackageID
	for _, other := range s.IDs() {
		for _, dep := range s.packages[other].Dependencies {
			if dep == id {
				ids = append(ids, other)
				break
			}
		}
	}
	return ids
}
