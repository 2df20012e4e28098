// Copyright © 2024 The ELPS authors

package fir

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// A store document lists packages with their flat node tables.  Node
// references are integer IDs; optional references are omitted or -1.
// Expression operands are given positionally in args, in the order of the
// fields of the corresponding Expr variant.
type storeDoc struct {
	Packages []packageDoc `yaml:"packages"`
}

type packageDoc struct {
	ID           int        `yaml:"id"`
	Name         string     `yaml:"name"`
	Dependencies []int      `yaml:"dependencies,omitempty"`
	Source       *sourceDoc `yaml:"source,omitempty"`
	Entry        *int       `yaml:"entry,omitempty"`
	TopLevel     []int      `yaml:"top_level,omitempty"`
	Items        []itemDoc  `yaml:"items,omitempty"`
	Blocks       []blockDoc `yaml:"blocks,omitempty"`
	Stmts        []stmtDoc  `yaml:"stmts,omitempty"`
	Exprs        []exprDoc  `yaml:"exprs,omitempty"`
	Pats         []patDoc   `yaml:"pats,omitempty"`
	Locals       []localDoc `yaml:"locals,omitempty"`
}

type sourceDoc struct {
	Name     string `yaml:"name"`
	Contents string `yaml:"contents"`
}

type itemRefDoc struct {
	Package int `yaml:"package"`
	Item    int `yaml:"item"`
}

type itemDoc struct {
	ID         int          `yaml:"id"`
	Span       []int        `yaml:"span,flow,omitempty"`
	Parent     *int         `yaml:"parent,omitempty"`
	Kind       string       `yaml:"kind"`
	Name       string       `yaml:"name,omitempty"`
	Callable   *callableDoc `yaml:"callable,omitempty"`
	Items      []int        `yaml:"items,flow,omitempty"`
	Underlying string       `yaml:"underlying,omitempty"`
}

type callableDoc struct {
	Kind      string   `yaml:"kind"`
	Input     int      `yaml:"input"`
	Output    string   `yaml:"output"`
	Functors  string   `yaml:"functors,omitempty"`
	Intrinsic bool     `yaml:"intrinsic,omitempty"`
	Body      *specDoc `yaml:"body,omitempty"`
	Adj       *specDoc `yaml:"adj,omitempty"`
	Ctl       *specDoc `yaml:"ctl,omitempty"`
	CtlAdj    *specDoc `yaml:"ctl_adj,omitempty"`
}

type specDoc struct {
	Gen      string `yaml:"gen,omitempty"`
	Block    *int   `yaml:"block,omitempty"`
	Controls *int   `yaml:"controls,omitempty"`
}

type blockDoc struct {
	ID    int    `yaml:"id"`
	Span  []int  `yaml:"span,flow,omitempty"`
	Ty    string `yaml:"ty"`
	Stmts []int  `yaml:"stmts,flow"`
}

type stmtDoc struct {
	ID      int    `yaml:"id"`
	Span    []int  `yaml:"span,flow,omitempty"`
	Kind    string `yaml:"kind"`
	Expr    *int   `yaml:"expr,omitempty"`
	Pat     *int   `yaml:"pat,omitempty"`
	Mutable bool   `yaml:"mutable,omitempty"`
	Item    *int   `yaml:"item,omitempty"`
}

type patDoc struct {
	ID    int    `yaml:"id"`
	Span  []int  `yaml:"span,flow,omitempty"`
	Ty    string `yaml:"ty"`
	Kind  string `yaml:"kind"`
	Local *int   `yaml:"local,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Items []int  `yaml:"items,flow,omitempty"`
}

type localDoc struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Ty      string `yaml:"ty"`
	Mutable bool   `yaml:"mutable,omitempty"`
}

type partDoc struct {
	Lit  string `yaml:"lit,omitempty"`
	Expr *int   `yaml:"expr,omitempty"`
}

type exprDoc struct {
	ID       int         `yaml:"id"`
	Span     []int       `yaml:"span,flow,omitempty"`
	Ty       string      `yaml:"ty"`
	Kind     string      `yaml:"kind"`
	Op       string      `yaml:"op,omitempty"`
	Lit      string      `yaml:"lit,omitempty"`
	Value    string      `yaml:"value,omitempty"`
	Local    *int        `yaml:"local,omitempty"`
	Item     *itemRefDoc `yaml:"item,flow,omitempty"`
	Args     []int       `yaml:"args,flow,omitempty"`
	Block    *int        `yaml:"block,omitempty"`
	Pat      *int        `yaml:"pat,omitempty"`
	Callable *int        `yaml:"callable,omitempty"`
	Captures []int       `yaml:"captures,flow,omitempty"`
	Field    string      `yaml:"field,omitempty"`
	Parts    []partDoc   `yaml:"parts,omitempty"`
}

var litKindNames = map[string]LitKind{
	"Bool":   LitBool,
	"Int":    LitInt,
	"BigInt": LitBigInt,
	"Double": LitDouble,
	"Pauli":  LitPauli,
	"Result": LitResult,
	"String": LitString,
}

// LoadStoreFile reads a YAML store document from path.
func LoadStoreFile(path string) (*PackageStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	store, err := LoadStore(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// LoadStore decodes a YAML store document.  The packages must form an
// acyclic dependency graph.
func LoadStore(r io.Reader) (*PackageStore, error) {
	var doc storeDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStore, err)
	}
	store := NewPackageStore()
	for i := range doc.Packages {
		pkg, err := decodePackage(&doc.Packages[i])
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", doc.Packages[i].Name, err)
		}
		if err := store.Insert(pkg); err != nil {
			return nil, err
		}
	}
	if _, err := store.TopoOrder(); err != nil {
		return nil, err
	}
	if err := validateItemRefs(store); err != nil {
		return nil, err
	}
	return store, nil
}

// validateItemRefs checks that every item reference names an existing item
// of the referring package or of one of its transitive dependencies.  The
// store must be acyclic.
func validateItemRefs(store *PackageStore) error {
	for _, id := range store.IDs() {
		pkg := store.Get(id)
		visible := store.reachable(id)
		for _, e := range pkg.Exprs {
			if e == nil {
				continue
			}
			switch x := e.Kind.(type) {
			case ExprVar:
				if x.Res.Kind != ResItem {
					continue
				}
				target := x.Res.Item
				if !visible[target.Package] {
					return fmt.Errorf("%w: package %q: expr %d refers to %s outside its dependencies",
						ErrInvalidStore, pkg.Name, e.ID, target)
				}
				if store.Get(target.Package).Item(target.Item) == nil {
					return fmt.Errorf("%w: package %q: expr %d refers to missing item %s",
						ErrInvalidStore, pkg.Name, e.ID, target)
				}
			case ExprClosure:
				if pkg.Item(x.Item) == nil {
					return fmt.Errorf("%w: package %q: closure %d lifts missing item %d",
						ErrInvalidStore, pkg.Name, e.ID, x.Item)
				}
			}
		}
	}
	return nil
}

func optID(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func decodeSpan(s []int) (Span, error) {
	switch len(s) {
	case 0:
		return Span{}, nil
	case 2:
		return Span{Lo: s[0], Hi: s[1]}, nil
	default:
		return Span{}, fmt.Errorf("%w: span must have two offsets", ErrInvalidStore)
	}
}

// arenaLen returns the table size needed to hold every ID, rejecting
// duplicates and negative IDs.
func arenaLen(table string, ids []int) (int, error) {
	n := 0
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id < 0 || seen[id] {
			return 0, fmt.Errorf("%w: bad %s id %d", ErrInvalidStore, table, id)
		}
		seen[id] = true
		if id >= n {
			n = id + 1
		}
	}
	return n, nil
}

type decoder struct {
	pkg *Package
	err error
}

func (d *decoder) ty(s string) Ty {
	if d.err != nil {
		return TyError
	}
	ty, err := ParseTy(s)
	if err != nil {
		d.err = err
	}
	return ty
}

func (d *decoder) span(s []int) Span {
	if d.err != nil {
		return Span{}
	}
	span, err := decodeSpan(s)
	if err != nil {
		d.err = err
	}
	return span
}

func (d *decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrInvalidStore, fmt.Sprintf(format, args...))
	}
}

func decodePackage(doc *packageDoc) (*Package, error) {
	deps := make([]PackageID, len(doc.Dependencies))
	for i, dep := range doc.Dependencies {
		deps[i] = PackageID(dep)
	}
	pkg := NewPackage(PackageID(doc.ID), doc.Name, deps...)
	pkg.Entry = ExprID(optID(doc.Entry))
	if doc.Source != nil {
		pkg.Source = Source{Name: doc.Source.Name, Contents: doc.Source.Contents}
	}
	for _, s := range doc.TopLevel {
		pkg.TopLevel = append(pkg.TopLevel, StmtID(s))
	}
	if err := allocTables(pkg, doc); err != nil {
		return nil, err
	}
	d := &decoder{pkg: pkg}
	for _, l := range doc.Locals {
		pkg.Locals[l.ID] = &Local{ID: LocalVarID(l.ID), Name: l.Name, Ty: d.ty(l.Ty), Mutable: l.Mutable}
	}
	for i := range doc.Pats {
		d.pat(&doc.Pats[i])
	}
	for i := range doc.Exprs {
		d.expr(&doc.Exprs[i])
	}
	for i := range doc.Stmts {
		d.stmt(&doc.Stmts[i])
	}
	for _, b := range doc.Blocks {
		block := &Block{ID: BlockID(b.ID), Span: d.span(b.Span), Ty: d.ty(b.Ty)}
		for _, s := range b.Stmts {
			block.Stmts = append(block.Stmts, StmtID(s))
		}
		pkg.Blocks[b.ID] = block
	}
	for i := range doc.Items {
		d.item(&doc.Items[i])
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func allocTables(pkg *Package, doc *packageDoc) error {
	ids := func(n int, id func(int) int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = id(i)
		}
		return out
	}
	var err error
	var n int
	if n, err = arenaLen("item", ids(len(doc.Items), func(i int) int { return doc.Items[i].ID })); err != nil {
		return err
	}
	pkg.Items = make([]*Item, n)
	if n, err = arenaLen("block", ids(len(doc.Blocks), func(i int) int { return doc.Blocks[i].ID })); err != nil {
		return err
	}
	pkg.Blocks = make([]*Block, n)
	if n, err = arenaLen("stmt", ids(len(doc.Stmts), func(i int) int { return doc.Stmts[i].ID })); err != nil {
		return err
	}
	pkg.Stmts = make([]*Stmt, n)
	if n, err = arenaLen("expr", ids(len(doc.Exprs), func(i int) int { return doc.Exprs[i].ID })); err != nil {
		return err
	}
	pkg.Exprs = make([]*Expr, n)
	if n, err = arenaLen("pat", ids(len(doc.Pats), func(i int) int { return doc.Pats[i].ID })); err != nil {
		return err
	}
	pkg.Pats = make([]*Pat, n)
	if n, err = arenaLen("local", ids(len(doc.Locals), func(i int) int { return doc.Locals[i].ID })); err != nil {
		return err
	}
	pkg.Locals = make([]*Local, n)
	return nil
}

func (d *decoder) pat(doc *patDoc) {
	pat := &Pat{ID: PatID(doc.ID), Span: d.span(doc.Span), Ty: d.ty(doc.Ty)}
	switch doc.Kind {
	case "bind":
		pat.Kind = PatBind{Local: LocalVarID(optID(doc.Local)), Name: doc.Name}
	case "discard":
		pat.Kind = PatDiscard{}
	case "tuple":
		items := make([]PatID, len(doc.Items))
		for i, item := range doc.Items {
			items[i] = PatID(item)
		}
		pat.Kind = PatTuple{Items: items}
	default:
		d.fail("pat %d: unknown kind %q", doc.ID, doc.Kind)
	}
	d.pkg.Pats[doc.ID] = pat
}

func (d *decoder) stmt(doc *stmtDoc) {
	stmt := &Stmt{ID: StmtID(doc.ID), Span: d.span(doc.Span)}
	switch doc.Kind {
	case "expr":
		stmt.Kind = StmtExpr{Expr: ExprID(optID(doc.Expr))}
	case "semi":
		stmt.Kind = StmtSemi{Expr: ExprID(optID(doc.Expr))}
	case "local":
		stmt.Kind = StmtLocal{Mutable: doc.Mutable, Pat: PatID(optID(doc.Pat)), Expr: ExprID(optID(doc.Expr))}
	case "item":
		stmt.Kind = StmtItem{Item: LocalItemID(optID(doc.Item))}
	default:
		d.fail("stmt %d: unknown kind %q", doc.ID, doc.Kind)
	}
	d.pkg.Stmts[doc.ID] = stmt
}

// exprArity gives the minimum and maximum number of positional operands
// of each expression kind.  A maximum of -1 is unbounded.
var exprArity = map[string][2]int{
	"lit":          {0, 0},
	"var":          {0, 0},
	"array":        {0, -1},
	"array_repeat": {2, 2},
	"assign":       {2, 2},
	"assign_op":    {2, 2},
	"assign_index": {3, 3},
	"bin_op":       {2, 2},
	"un_op":        {1, 1},
	"block":        {0, 0},
	"call":         {2, 2},
	"closure":      {0, 0},
	"fail":         {1, 1},
	"field":        {1, 1},
	"if":           {2, 3},
	"index":        {2, 2},
	"range":        {3, 3},
	"return":       {1, 1},
	"string":       {0, 0},
	"tuple":        {0, -1},
	"update_index": {3, 3},
	"while":        {1, 1},
	"for":          {1, 1},
	"hole":         {0, 0},
}

func (d *decoder) expr(doc *exprDoc) {
	e := &Expr{ID: ExprID(doc.ID), Span: d.span(doc.Span), Ty: d.ty(doc.Ty)}
	d.pkg.Exprs[doc.ID] = e
	arity, ok := exprArity[doc.Kind]
	if !ok {
		d.fail("expr %d: unknown kind %q", doc.ID, doc.Kind)
		return
	}
	if n := len(doc.Args); n < arity[0] || arity[1] >= 0 && n > arity[1] {
		d.fail("expr %d: %s given %d operands", doc.ID, doc.Kind, n)
		return
	}
	args := make([]ExprID, len(doc.Args))
	for i, a := range doc.Args {
		args[i] = ExprID(a)
	}
	arg := func(i int) ExprID {
		if i < len(args) {
			return args[i]
		}
		return NoExpr
	}
	switch doc.Kind {
	case "lit":
		kind, ok := litKindNames[doc.Lit]
		if !ok {
			d.fail("expr %d: unknown literal kind %q", doc.ID, doc.Lit)
		}
		e.Kind = ExprLit{Lit: Lit{Kind: kind, Value: doc.Value}}
	case "var":
		switch {
		case doc.Local != nil:
			e.Kind = ExprVar{Res: LocalRes(LocalVarID(*doc.Local))}
		case doc.Item != nil:
			e.Kind = ExprVar{Res: ItemRes(StoreItemID{Package: PackageID(doc.Item.Package), Item: LocalItemID(doc.Item.Item)})}
		default:
			e.Kind = ExprVar{Res: Res{Kind: ResErr}}
		}
	case "array":
		e.Kind = ExprArray{Items: args}
	case "array_repeat":
		e.Kind = ExprArrayRepeat{Value: arg(0), Size: arg(1)}
	case "assign":
		e.Kind = ExprAssign{Lhs: arg(0), Rhs: arg(1)}
	case "assign_op":
		e.Kind = ExprAssignOp{Op: BinOp(doc.Op), Lhs: arg(0), Rhs: arg(1)}
	case "assign_index":
		e.Kind = ExprAssignIndex{Array: arg(0), Index: arg(1), Value: arg(2)}
	case "bin_op":
		e.Kind = ExprBinOp{Op: BinOp(doc.Op), Lhs: arg(0), Rhs: arg(1)}
	case "un_op":
		e.Kind = ExprUnOp{Op: UnOp(doc.Op), Operand: arg(0)}
	case "block":
		e.Kind = ExprBlock{Block: BlockID(optID(doc.Block))}
	case "call":
		e.Kind = ExprCall{Callee: arg(0), Arg: arg(1)}
	case "closure":
		caps := make([]LocalVarID, len(doc.Captures))
		for i, c := range doc.Captures {
			caps[i] = LocalVarID(c)
		}
		e.Kind = ExprClosure{Captures: caps, Item: LocalItemID(optID(doc.Callable))}
	case "fail":
		e.Kind = ExprFail{Msg: arg(0)}
	case "field":
		e.Kind = ExprField{Record: arg(0), Field: doc.Field}
	case "if":
		e.Kind = ExprIf{Cond: arg(0), Then: arg(1), Else: arg(2)}
	case "index":
		e.Kind = ExprIndex{Array: arg(0), Index: arg(1)}
	case "range":
		e.Kind = ExprRange{Start: arg(0), Step: arg(1), End: arg(2)}
	case "return":
		e.Kind = ExprReturn{Value: arg(0)}
	case "string":
		parts := make([]StringComponent, len(doc.Parts))
		for i, p := range doc.Parts {
			parts[i] = StringComponent{Lit: p.Lit, Expr: ExprID(optID(p.Expr))}
		}
		e.Kind = ExprString{Components: parts}
	case "tuple":
		e.Kind = ExprTuple{Items: args}
	case "update_index":
		e.Kind = ExprUpdateIndex{Array: arg(0), Index: arg(1), Value: arg(2)}
	case "while":
		e.Kind = ExprWhile{Cond: arg(0), Body: BlockID(optID(doc.Block))}
	case "for":
		e.Kind = ExprFor{Pat: PatID(optID(doc.Pat)), Iterable: arg(0), Body: BlockID(optID(doc.Block))}
	case "hole":
		e.Kind = ExprHole{}
	}
}

func parseFunctors(s string) (FunctorSet, error) {
	var fs FunctorSet
	if strings.TrimSpace(s) == "" {
		return fs, nil
	}
	for _, part := range strings.Split(s, "+") {
		switch strings.TrimSpace(part) {
		case "Adj":
			fs |= FunctorSetAdj
		case "Ctl":
			fs |= FunctorSetCtl
		default:
			return 0, fmt.Errorf("%w: unknown functor %q", ErrInvalidStore, part)
		}
	}
	return fs, nil
}

func (d *decoder) item(doc *itemDoc) {
	item := &Item{ID: LocalItemID(doc.ID), Span: d.span(doc.Span), Parent: LocalItemID(optID(doc.Parent))}
	d.pkg.Items[doc.ID] = item
	switch doc.Kind {
	case "namespace":
		items := make([]LocalItemID, len(doc.Items))
		for i, id := range doc.Items {
			items[i] = LocalItemID(id)
		}
		item.Kind = ItemNamespace{Name: doc.Name, Items: items}
	case "ty":
		item.Kind = ItemTy{Name: doc.Name, Underlying: d.ty(doc.Underlying)}
	case "callable":
		if doc.Callable == nil {
			d.fail("item %d: callable declaration missing", doc.ID)
			return
		}
		item.Kind = ItemCallable{Decl: d.callable(doc.Name, item.Span, doc.Callable)}
	default:
		d.fail("item %d: unknown kind %q", doc.ID, doc.Kind)
	}
}

func (d *decoder) callable(name string, span Span, doc *callableDoc) *CallableDecl {
	decl := &CallableDecl{
		Name:      name,
		Span:      span,
		Input:     PatID(doc.Input),
		Output:    d.ty(doc.Output),
		Intrinsic: doc.Intrinsic,
	}
	switch doc.Kind {
	case "function":
		decl.Kind = CallableFunction
	case "operation":
		decl.Kind = CallableOperation
	default:
		d.fail("callable %q: unknown kind %q", name, doc.Kind)
	}
	fs, err := parseFunctors(doc.Functors)
	if err != nil && d.err == nil {
		d.err = err
	}
	decl.Functors = fs
	for f, spec := range []*specDoc{doc.Body, doc.Adj, doc.Ctl, doc.CtlAdj} {
		if spec == nil {
			continue
		}
		gen := SpecExplicit
		if spec.Gen != "" {
			g, ok := ParseSpecGen(spec.Gen)
			if !ok {
				d.fail("callable %q: unknown generator %q", name, spec.Gen)
			}
			gen = g
		}
		decl.Specs[f] = &SpecDecl{
			Gen:      gen,
			Controls: PatID(optID(spec.Controls)),
			Block:    BlockID(optID(spec.Block)),
		}
	}
	return decl
}

// validatePackage checks that every reference in the package resolves to
// a node of the package.
func validatePackage(pkg *Package) error {
	var err error
	check := func(what string, ok bool, id int) {
		if !ok && err == nil {
			err = fmt.Errorf("%w: dangling %s reference %d", ErrInvalidStore, what, id)
		}
	}
	for _, s := range pkg.TopLevel {
		check("stmt", pkg.Stmt(s) != nil, int(s))
	}
	if pkg.Entry != NoExpr {
		check("expr", pkg.Expr(pkg.Entry) != nil, int(pkg.Entry))
	}
	for _, b := range pkg.Blocks {
		if b == nil {
			continue
		}
		for _, s := range b.Stmts {
			check("stmt", pkg.Stmt(s) != nil, int(s))
		}
	}
	for _, item := range pkg.Items {
		if item == nil {
			continue
		}
		decl := pkg.Callable(item.ID)
		if decl == nil {
			continue
		}
		check("pat", pkg.Pat(decl.Input) != nil, int(decl.Input))
		for _, spec := range decl.Specs {
			if spec.IsExplicit() {
				check("block", pkg.Block(spec.Block) != nil, int(spec.Block))
			}
		}
	}
	for _, root := range pkg.Roots() {
		pkg.Walk([]Node{root}, func(n, _ Node, _ int) bool {
			switch n.Kind {
			case NodeBlock:
				check("block", pkg.Block(BlockID(n.ID)) != nil, n.ID)
			case NodeStmt:
				check("stmt", pkg.Stmt(StmtID(n.ID)) != nil, n.ID)
			case NodeExpr:
				check("expr", pkg.Expr(ExprID(n.ID)) != nil, n.ID)
			case NodePat:
				check("pat", pkg.Pat(PatID(n.ID)) != nil, n.ID)
			}
			return err == nil
		})
	}
	return err
}
