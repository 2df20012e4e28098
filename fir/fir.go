// Copyright © 2024 The ELPS authors

// Package fir defines the flattened, typed intermediate representation that
// the runtime capabilities analysis consumes.
//
// A program is a PackageStore of packages. Each package owns flat,
// arena-indexed tables of items, blocks, statements, expressions and
// patterns; every node is addressed by a package-scoped integer ID and
// references its children by ID. Nodes never hold pointers to each other,
// so a package can be replaced wholesale without invalidating the rest of
// the store.
package fir

import "fmt"

// PackageID identifies a package within a PackageStore.
type PackageID int

// LocalItemID identifies an item within its package.
type LocalItemID int

// BlockID identifies a block within its package.
type BlockID int

// StmtID identifies a statement within its package.
type StmtID int

// ExprID identifies an expression within its package.
type ExprID int

// PatID identifies a pattern within its package.
type PatID int

// LocalVarID identifies a local variable binding within its package.
type LocalVarID int

// Sentinels for absent optional references.
const (
	NoItem  LocalItemID = -1
	NoBlock BlockID     = -1
	NoStmt  StmtID      = -1
	NoExpr  ExprID      = -1
	NoPat   PatID       = -1
	NoLocal LocalVarID  = -1
)

// StoreItemID identifies an item across the whole store.
type StoreItemID struct {
	Package PackageID
	Item    LocalItemID
}

func (id StoreItemID) String() string {
	return fmt.Sprintf("%d:item%d", id.Package, id.Item)
}

// StoreExprID identifies an expression across the whole store.
type StoreExprID struct {
	Package PackageID
	Expr    ExprID
}

// StoreBlockID identifies a block across the whole store.
type StoreBlockID struct {
	Package PackageID
	Block   BlockID
}

// StoreStmtID identifies a statement across the whole store.
type StoreStmtID struct {
	Package PackageID
	Stmt    StmtID
}

// Functor selects one of the four specializations of a callable.
type Functor int

const (
	FunctorBody   Functor = iota // plain body
	FunctorAdj                   // adjoint
	FunctorCtl                   // controlled
	FunctorCtlAdj                // controlled adjoint
)

// Functors lists every specialization in declaration order.
var Functors = [...]Functor{FunctorBody, FunctorAdj, FunctorCtl, FunctorCtlAdj}

func (f Functor) String() string {
	switch f {
	case FunctorBody:
		return "body"
	case FunctorAdj:
		return "adj"
	case FunctorCtl:
		return "ctl"
	case FunctorCtlAdj:
		return "ctl-adj"
	default:
		return "unknown"
	}
}

// Adjoint returns the functor obtained by applying Adjoint to f.
func (f Functor) Adjoint() Functor {
	switch f {
	case FunctorBody:
		return FunctorAdj
	case FunctorAdj:
		return FunctorBody
	case FunctorCtl:
		return FunctorCtlAdj
	default:
		return FunctorCtl
	}
}

// Controlled returns the functor obtained by applying Controlled to f.
func (f Functor) Controlled() Functor {
	switch f {
	case FunctorBody, FunctorCtl:
		return FunctorCtl
	default:
		return FunctorCtlAdj
	}
}

// IsControlled reports whether the specialization takes a control register.
func (f Functor) IsControlled() bool {
	return f == FunctorCtl || f == FunctorCtlAdj
}

// StoreSpecID identifies one specialization of a callable across the store.
type StoreSpecID struct {
	Package PackageID
	Item    LocalItemID
	Functor Functor
}

// ItemID returns the callable the specialization belongs to.
func (id StoreSpecID) ItemID() StoreItemID {
	return StoreItemID{Package: id.Package, Item: id.Item}
}

func (id StoreSpecID) String() string {
	return fmt.Sprintf("%d:item%d/%s", id.Package, id.Item, id.Functor)
}

// FunctorSet is the set of functors a callable supports.
type FunctorSet uint8

const (
	FunctorSetAdj FunctorSet = 1 << iota
	FunctorSetCtl

	FunctorSetEmpty  FunctorSet = 0
	FunctorSetAdjCtl            = FunctorSetAdj | FunctorSetCtl
)

// Has reports whether all functors in other are present in s.
func (s FunctorSet) Has(other FunctorSet) bool {
	return s&other == other
}

func (s FunctorSet) String() string {
	switch s {
	case FunctorSetAdj:
		return "Adj"
	case FunctorSetCtl:
		return "Ctl"
	case FunctorSetAdjCtl:
		return "Adj + Ctl"
	default:
		return ""
	}
}

// CallableKind distinguishes classical functions from quantum operations.
type CallableKind int

const (
	CallableFunction CallableKind = iota
	CallableOperation
)

func (k CallableKind) String() string {
	if k == CallableOperation {
		return "operation"
	}
	return "function"
}

// Span is a half-open byte range into a package's source text.
type Span struct {
	Lo int
	Hi int
}

// IsEmpty reports whether the span covers no source text.
func (s Span) IsEmpty() bool {
	return s.Hi <= s.Lo
}
