// Copyright © 2024 The ELPS authors

package fir

import "fmt"

// Param is a named, typed callable parameter.
type Param struct {
	Name string
	Ty   Ty
}

// Builder constructs a package node by node, inferring expression types
// from their operands.  Item references into other packages are typed
// through the store, which must already contain those packages.
type Builder struct {
	store *PackageStore
	pkg   *Package
}

// NewBuilder starts a new package.  store may be nil when the package
// references no other packages.
func NewBuilder(store *PackageStore, id PackageID, name string, deps ...PackageID) *Builder {
	return &Builder{store: store, pkg: NewPackage(id, name, deps...)}
}

// Package returns the package under construction.
func (b *Builder) Package() *Package {
	return b.pkg
}

// ID returns the package ID.
func (b *Builder) ID() PackageID {
	return b.pkg.ID
}

// SetSource attaches source text for diagnostics.
func (b *Builder) SetSource(name, contents string) {
	b.pkg.Source = Source{Name: name, Contents: contents}
}

// SetEntry sets the package entry expression.
func (b *Builder) SetEntry(e ExprID) {
	b.pkg.Entry = e
}

// AddTopLevel appends statements outside any callable.
func (b *Builder) AddTopLevel(stmts ...StmtID) {
	b.pkg.TopLevel = append(b.pkg.TopLevel, stmts...)
}

// SetSpan records the source span of a node.
func (b *Builder) SetSpan(n Node, span Span) {
	switch n.Kind {
	case NodeBlock:
		b.pkg.Blocks[n.ID].Span = span
	case NodeStmt:
		b.pkg.Stmts[n.ID].Span = span
	case NodeExpr:
		b.pkg.Exprs[n.ID].Span = span
	case NodePat:
		b.pkg.Pats[n.ID].Span = span
	}
}

// SetItemSpan records the source span of an item and its declaration.
func (b *Builder) SetItemSpan(id LocalItemID, span Span) {
	item := b.pkg.Items[id]
	item.Span = span
	if c, ok := item.Kind.(ItemCallable); ok {
		c.Decl.Span = span
	}
}

// --- Patterns ---

// NewLocal allocates a local variable without binding it to a pattern.
func (b *Builder) NewLocal(name string, ty Ty, mutable bool) LocalVarID {
	id := LocalVarID(len(b.pkg.Locals))
	b.pkg.Locals = append(b.pkg.Locals, &Local{ID: id, Name: name, Ty: ty, Mutable: mutable})
	return id
}

func (b *Builder) pat(ty Ty, kind PatKind) PatID {
	id := PatID(len(b.pkg.Pats))
	b.pkg.Pats = append(b.pkg.Pats, &Pat{ID: id, Ty: ty, Kind: kind})
	return id
}

// BindPat creates a pattern binding a fresh local.
func (b *Builder) BindPat(name string, ty Ty, mutable bool) (PatID, LocalVarID) {
	local := b.NewLocal(name, ty, mutable)
	return b.pat(ty, PatBind{Local: local, Name: name}), local
}

// DiscardPat creates a wildcard pattern.
func (b *Builder) DiscardPat(ty Ty) PatID {
	return b.pat(ty, PatDiscard{})
}

// TuplePat creates a destructuring pattern.
func (b *Builder) TuplePat(items ...PatID) PatID {
	tys := make([]Ty, len(items))
	for i, item := range items {
		tys[i] = b.pkg.Pats[item].Ty
	}
	return b.pat(Ty{Kind: TyTuple, Items: tys}, PatTuple{Items: items})
}

func (b *Builder) paramsPat(params []Param) (PatID, []LocalVarID) {
	locals := make([]LocalVarID, len(params))
	if len(params) == 1 {
		pat, local := b.BindPat(params[0].Name, params[0].Ty, false)
		locals[0] = local
		return pat, locals
	}
	items := make([]PatID, len(params))
	for i, p := range params {
		items[i], locals[i] = b.BindPat(p.Name, p.Ty, false)
	}
	return b.TuplePat(items...), locals
}

// --- Statements and blocks ---

func (b *Builder) stmt(kind StmtKind) StmtID {
	id := StmtID(len(b.pkg.Stmts))
	b.pkg.Stmts = append(b.pkg.Stmts, &Stmt{ID: id, Kind: kind})
	return id
}

// ExprStmt creates a trailing expression statement.
func (b *Builder) ExprStmt(e ExprID) StmtID {
	return b.stmt(StmtExpr{Expr: e})
}

// SemiStmt creates an expression statement evaluated for its effects.
func (b *Builder) SemiStmt(e ExprID) StmtID {
	return b.stmt(StmtSemi{Expr: e})
}

// LocalStmt binds init to pat.
func (b *Builder) LocalStmt(mutable bool, pat PatID, init ExprID) StmtID {
	return b.stmt(StmtLocal{Mutable: mutable, Pat: pat, Expr: init})
}

// Let binds init to a fresh immutable local named name.
func (b *Builder) Let(name string, init ExprID) (StmtID, LocalVarID) {
	pat, local := b.BindPat(name, b.pkg.Exprs[init].Ty, false)
	return b.LocalStmt(false, pat, init), local
}

// Mutable binds init to a fresh mutable local named name.
func (b *Builder) Mutable(name string, init ExprID) (StmtID, LocalVarID) {
	pat, local := b.BindPat(name, b.pkg.Exprs[init].Ty, true)
	return b.LocalStmt(true, pat, init), local
}

// ItemStmt declares a nested item.
func (b *Builder) ItemStmt(item LocalItemID) StmtID {
	return b.stmt(StmtItem{Item: item})
}

// Block creates a block.  Its type is that of a trailing expression
// statement, or Unit.
func (b *Builder) Block(stmts ...StmtID) BlockID {
	ty := TyUnit
	if n := len(stmts); n > 0 {
		if s, ok := b.pkg.Stmts[stmts[n-1]].Kind.(StmtExpr); ok {
			ty = b.pkg.Exprs[s.Expr].Ty
		}
	}
	id := BlockID(len(b.pkg.Blocks))
	b.pkg.Blocks = append(b.pkg.Blocks, &Block{ID: id, Ty: ty, Stmts: stmts})
	return id
}

// --- Expressions ---

func (b *Builder) expr(ty Ty, kind ExprKind) ExprID {
	id := ExprID(len(b.pkg.Exprs))
	b.pkg.Exprs = append(b.pkg.Exprs, &Expr{ID: id, Ty: ty, Kind: kind})
	return id
}

// Ty returns the type of an expression built so far.
func (b *Builder) Ty(e ExprID) Ty {
	return b.pkg.Exprs[e].Ty
}

// Lit creates a literal of the given kind.
func (b *Builder) Lit(kind LitKind, value string) ExprID {
	var ty Ty
	switch kind {
	case LitBool:
		ty = TyBool
	case LitInt:
		ty = TyInt
	case LitBigInt:
		ty = TyBigInt
	case LitDouble:
		ty = TyDouble
	case LitPauli:
		ty = TyPauli
	case LitResult:
		ty = TyResult
	default:
		ty = TyString
	}
	return b.expr(ty, ExprLit{Lit: Lit{Kind: kind, Value: value}})
}

// Int creates an Int literal.
func (b *Builder) Int(n int) ExprID {
	return b.Lit(LitInt, fmt.Sprint(n))
}

// Bool creates a Bool literal.
func (b *Builder) Bool(v bool) ExprID {
	return b.Lit(LitBool, fmt.Sprint(v))
}

// Double creates a Double literal.
func (b *Builder) Double(f float64) ExprID {
	return b.Lit(LitDouble, fmt.Sprint(f))
}

// Zero and One create Result literals.
func (b *Builder) Zero() ExprID { return b.Lit(LitResult, "Zero") }
func (b *Builder) One() ExprID  { return b.Lit(LitResult, "One") }

// Str creates a plain string literal.
func (b *Builder) Str(s string) ExprID {
	return b.expr(TyString, ExprString{Components: []StringComponent{{Lit: s, Expr: NoExpr}}})
}

// Text returns a literal string component.
func Text(s string) StringComponent {
	return StringComponent{Lit: s, Expr: NoExpr}
}

// Interp returns an interpolated string component.
func Interp(e ExprID) StringComponent {
	return StringComponent{Expr: e}
}

// InterpStr creates an interpolated string.
func (b *Builder) InterpStr(components ...StringComponent) ExprID {
	return b.expr(TyString, ExprString{Components: components})
}

// Var references a local variable.
func (b *Builder) Var(local LocalVarID) ExprID {
	return b.expr(b.pkg.Locals[local].Ty, ExprVar{Res: LocalRes(local)})
}

// ItemVar references a global item, typically a callable.
func (b *Builder) ItemVar(id StoreItemID) ExprID {
	return b.expr(b.itemTy(id), ExprVar{Res: ItemRes(id)})
}

// LocalItemVar references an item of the package under construction.
func (b *Builder) LocalItemVar(id LocalItemID) ExprID {
	return b.ItemVar(StoreItemID{Package: b.pkg.ID, Item: id})
}

func (b *Builder) lookupPackage(id PackageID) *Package {
	if id == b.pkg.ID {
		return b.pkg
	}
	if b.store != nil {
		if p := b.store.Get(id); p != nil {
			return p
		}
	}
	panic(fmt.Sprintf("fir: builder reference to unknown package %d", id))
}

func (b *Builder) itemTy(id StoreItemID) Ty {
	pkg := b.lookupPackage(id.Package)
	decl := pkg.Callable(id.Item)
	if decl == nil {
		return TyError
	}
	return decl.ArrowTy(pkg)
}

// ArrowTy returns the type of the callable as a value.
func (d *CallableDecl) ArrowTy(pkg *Package) Ty {
	return ArrowOf(d.Kind, pkg.Pats[d.Input].Ty, d.Output, d.Functors)
}

// Array creates an array literal.  The element type of an empty literal is
// Unit unless set by the caller.
func (b *Builder) Array(items ...ExprID) ExprID {
	elem := TyUnit
	if len(items) > 0 {
		elem = b.Ty(items[0])
	}
	return b.expr(ArrayOf(elem), ExprArray{Items: items})
}

// ArrayRepeat creates `[value, size = n]`.
func (b *Builder) ArrayRepeat(value, size ExprID) ExprID {
	return b.expr(ArrayOf(b.Ty(value)), ExprArrayRepeat{Value: value, Size: size})
}

// Tuple creates a tuple.
func (b *Builder) Tuple(items ...ExprID) ExprID {
	tys := make([]Ty, len(items))
	for i, item := range items {
		tys[i] = b.Ty(item)
	}
	return b.expr(Ty{Kind: TyTuple, Items: tys}, ExprTuple{Items: items})
}

// BinOp creates a binary operation.
func (b *Builder) BinOp(op BinOp, lhs, rhs ExprID) ExprID {
	ty := b.Ty(lhs)
	if op.IsComparison() || op == BinOpAndL || op == BinOpOrL {
		ty = TyBool
	}
	return b.expr(ty, ExprBinOp{Op: op, Lhs: lhs, Rhs: rhs})
}

// UnOp creates a unary operation.  Applying Controlled to a callable value
// prepends the control register to its input.
func (b *Builder) UnOp(op UnOp, operand ExprID) ExprID {
	ty := b.Ty(operand)
	if op == UnOpCtl && ty.Kind == TyArrow {
		a := ty.Arrow
		ty = ArrowOf(a.Kind, TupleOf(ArrayOf(TyQubit), a.Input), a.Output, a.Functors)
	}
	if op == UnOpNotL {
		ty = TyBool
	}
	return b.expr(ty, ExprUnOp{Op: op, Operand: operand})
}

// Adjoint applies the Adjoint functor.
func (b *Builder) Adjoint(callee ExprID) ExprID {
	return b.UnOp(UnOpAdjoint, callee)
}

// Controlled applies the Controlled functor.
func (b *Builder) Controlled(callee ExprID) ExprID {
	return b.UnOp(UnOpCtl, callee)
}

// Call applies callee to args.  No arguments pass Unit and several are
// packed into a tuple.
func (b *Builder) Call(callee ExprID, args ...ExprID) ExprID {
	var arg ExprID
	switch len(args) {
	case 1:
		arg = args[0]
	default:
		arg = b.Tuple(args...)
	}
	ty := TyError
	if ct := b.Ty(callee); ct.Kind == TyArrow {
		ty = ct.Arrow.Output
	}
	return b.expr(ty, ExprCall{Callee: callee, Arg: arg})
}

// CallItem calls a global callable by ID.
func (b *Builder) CallItem(id StoreItemID, args ...ExprID) ExprID {
	return b.Call(b.ItemVar(id), args...)
}

// BlockExpr wraps a block as an expression.
func (b *Builder) BlockExpr(block BlockID) ExprID {
	return b.expr(b.pkg.Blocks[block].Ty, ExprBlock{Block: block})
}

// If creates a conditional.  els may be NoExpr.
func (b *Builder) If(cond, then, els ExprID) ExprID {
	ty := TyUnit
	if els != NoExpr {
		ty = b.Ty(then)
	}
	return b.expr(ty, ExprIf{Cond: cond, Then: then, Else: els})
}

// While creates a while loop.
func (b *Builder) While(cond ExprID, body BlockID) ExprID {
	return b.expr(TyUnit, ExprWhile{Cond: cond, Body: body})
}

// For creates a for loop binding each element of iterable to pat.
func (b *Builder) For(pat PatID, iterable ExprID, body BlockID) ExprID {
	return b.expr(TyUnit, ExprFor{Pat: pat, Iterable: iterable, Body: body})
}

// Assign creates `set lhs = rhs`.
func (b *Builder) Assign(lhs, rhs ExprID) ExprID {
	return b.expr(TyUnit, ExprAssign{Lhs: lhs, Rhs: rhs})
}

// AssignOp creates `set lhs op= rhs`.
func (b *Builder) AssignOp(op BinOp, lhs, rhs ExprID) ExprID {
	return b.expr(TyUnit, ExprAssignOp{Op: op, Lhs: lhs, Rhs: rhs})
}

// AssignIndex creates `set array w/= index <- value`.
func (b *Builder) AssignIndex(array, index, value ExprID) ExprID {
	return b.expr(TyUnit, ExprAssignIndex{Array: array, Index: index, Value: value})
}

// UpdateIndex creates `array w/ index <- value`.
func (b *Builder) UpdateIndex(array, index, value ExprID) ExprID {
	return b.expr(b.Ty(array), ExprUpdateIndex{Array: array, Index: index, Value: value})
}

// Index creates `array[index]`.  Indexing with a Range slices.
func (b *Builder) Index(array, index ExprID) ExprID {
	ty := TyError
	if at := b.Ty(array); at.Kind == TyArray {
		ty = *at.Elem
		if b.Ty(index).IsPrim(PrimRange) {
			ty = at
		}
	}
	return b.expr(ty, ExprIndex{Array: array, Index: index})
}

// Range creates `start..step..end`.  Any part may be NoExpr.
func (b *Builder) Range(start, step, end ExprID) ExprID {
	return b.expr(TyRange, ExprRange{Start: start, Step: step, End: end})
}

// Return creates `return value`.
func (b *Builder) Return(value ExprID) ExprID {
	return b.expr(b.Ty(value), ExprReturn{Value: value})
}

// Fail creates `fail msg`.
func (b *Builder) Fail(msg ExprID) ExprID {
	return b.expr(TyUnit, ExprFail{Msg: msg})
}

// Field creates `record.field` of the given type.
func (b *Builder) Field(record ExprID, field string, ty Ty) ExprID {
	return b.expr(ty, ExprField{Record: record, Field: field})
}

// Hole creates a placeholder of the given type.
func (b *Builder) Hole(ty Ty) ExprID {
	return b.expr(ty, ExprHole{})
}

// Closure references the lifted callable item, capturing locals.
func (b *Builder) Closure(captures []LocalVarID, item LocalItemID) ExprID {
	decl := b.pkg.Callable(item)
	input := b.pkg.Pats[decl.Input]
	explicit := TyUnit
	if t, ok := input.Kind.(PatTuple); ok && len(t.Items) > len(captures) {
		explicit = b.pkg.Pats[t.Items[len(captures)]].Ty
	}
	ty := ArrowOf(decl.Kind, explicit, decl.Output, decl.Functors)
	return b.expr(ty, ExprClosure{Captures: captures, Item: item})
}

// --- Items ---

func (b *Builder) item(kind ItemKind) LocalItemID {
	id := LocalItemID(len(b.pkg.Items))
	b.pkg.Items = append(b.pkg.Items, &Item{ID: id, Parent: NoItem, Kind: kind})
	return id
}

// Namespace declares a namespace containing items.
func (b *Builder) Namespace(name string, items ...LocalItemID) LocalItemID {
	id := b.item(ItemNamespace{Name: name, Items: items})
	for _, item := range items {
		b.pkg.Items[item].Parent = id
	}
	return id
}

// Udt declares a user defined type.
func (b *Builder) Udt(name string, underlying Ty) LocalItemID {
	return b.item(ItemTy{Name: name, Underlying: underlying})
}

// DeclareCallable declares a callable without specializations.  The
// returned locals bind the parameters in order; specializations are added
// with Spec, CtlSpec and GenSpec once their blocks are built.
func (b *Builder) DeclareCallable(kind CallableKind, name string, params []Param, output Ty, functors FunctorSet) (LocalItemID, []LocalVarID) {
	input, locals := b.paramsPat(params)
	decl := &CallableDecl{
		Kind:     kind,
		Name:     name,
		Input:    input,
		Output:   output,
		Functors: functors,
	}
	return b.item(ItemCallable{Decl: decl}), locals
}

// DeclareIntrinsic declares a callable implemented by the target.
func (b *Builder) DeclareIntrinsic(kind CallableKind, name string, params []Param, output Ty, functors FunctorSet) LocalItemID {
	id, _ := b.DeclareCallable(kind, name, params, output, functors)
	b.pkg.Callable(id).Intrinsic = true
	return id
}

// DeclareLambda declares the lifted callable of a closure.  Its input
// binds the captured locals ahead of the explicit parameters.  It returns
// the locals standing for the captures inside the body followed by the
// parameter locals.
func (b *Builder) DeclareLambda(kind CallableKind, captures []LocalVarID, params []Param, output Ty) (LocalItemID, []LocalVarID, []LocalVarID) {
	items := make([]PatID, 0, len(captures)+1)
	captured := make([]LocalVarID, len(captures))
	for i, c := range captures {
		l := b.pkg.Locals[c]
		pat, local := b.BindPat(l.Name, l.Ty, false)
		items = append(items, pat)
		captured[i] = local
	}
	explicit, locals := b.paramsPat(params)
	items = append(items, explicit)
	decl := &CallableDecl{
		Kind:   kind,
		Name:   "<lambda>",
		Input:  b.TuplePat(items...),
		Output: output,
	}
	return b.item(ItemCallable{Decl: decl}), captured, locals
}

// Spec sets an explicit specialization.
func (b *Builder) Spec(id LocalItemID, f Functor, block BlockID) {
	b.pkg.Callable(id).Specs[f] = &SpecDecl{Gen: SpecExplicit, Controls: NoPat, Block: block}
}

// CtlSpec sets an explicit controlled specialization binding its control
// register to controls.
func (b *Builder) CtlSpec(id LocalItemID, f Functor, controls PatID, block BlockID) {
	b.pkg.Callable(id).Specs[f] = &SpecDecl{Gen: SpecExplicit, Controls: controls, Block: block}
}

// GenSpec sets a generated specialization.
func (b *Builder) GenSpec(id LocalItemID, f Functor, gen SpecGen) {
	b.pkg.Callable(id).Specs[f] = &SpecDecl{Gen: gen, Controls: NoPat, Block: NoBlock}
}
