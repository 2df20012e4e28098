// Copyright © 2024 The ELPS authors

package fir

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeStore writes store as a YAML document readable by LoadStore.
func EncodeStore(w io.Writer, store *PackageStore) error {
	var doc storeDoc
	for _, id := range store.IDs() {
		doc.Packages = append(doc.Packages, encodePackage(store.Get(id)))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return enc.Close()
}

func intPtr(n int) *int {
	return &n
}

func optPtr(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

func encodeSpan(s Span) []int {
	if s == (Span{}) {
		return nil
	}
	return []int{s.Lo, s.Hi}
}

func encodePackage(pkg *Package) packageDoc {
	doc := packageDoc{
		ID:    int(pkg.ID),
		Name:  pkg.Name,
		Entry: optPtr(int(pkg.Entry)),
	}
	for _, dep := range pkg.Dependencies {
		doc.Dependencies = append(doc.Dependencies, int(dep))
	}
	if pkg.Source != (Source{}) {
		doc.Source = &sourceDoc{Name: pkg.Source.Name, Contents: pkg.Source.Contents}
	}
	for _, s := range pkg.TopLevel {
		doc.TopLevel = append(doc.TopLevel, int(s))
	}
	for _, l := range pkg.Locals {
		if l != nil {
			doc.Locals = append(doc.Locals, localDoc{ID: int(l.ID), Name: l.Name, Ty: l.Ty.String(), Mutable: l.Mutable})
		}
	}
	for _, p := range pkg.Pats {
		if p != nil {
			doc.Pats = append(doc.Pats, encodePat(p))
		}
	}
	for _, e := range pkg.Exprs {
		if e != nil {
			doc.Exprs = append(doc.Exprs, encodeExpr(e))
		}
	}
	for _, s := range pkg.Stmts {
		if s != nil {
			doc.Stmts = append(doc.Stmts, encodeStmt(s))
		}
	}
	for _, b := range pkg.Blocks {
		if b == nil {
			continue
		}
		bd := blockDoc{ID: int(b.ID), Span: encodeSpan(b.Span), Ty: b.Ty.String(), Stmts: []int{}}
		for _, s := range b.Stmts {
			bd.Stmts = append(bd.Stmts, int(s))
		}
		doc.Blocks = append(doc.Blocks, bd)
	}
	for _, item := range pkg.Items {
		if item != nil {
			doc.Items = append(doc.Items, encodeItem(item))
		}
	}
	return doc
}

func encodePat(p *Pat) patDoc {
	doc := patDoc{ID: int(p.ID), Span: encodeSpan(p.Span), Ty: p.Ty.String()}
	switch k := p.Kind.(type) {
	case PatBind:
		doc.Kind = "bind"
		doc.Local = intPtr(int(k.Local))
		doc.Name = k.Name
	case PatDiscard:
		doc.Kind = "discard"
	case PatTuple:
		doc.Kind = "tuple"
		for _, item := range k.Items {
			doc.Items = append(doc.Items, int(item))
		}
	}
	return doc
}

func encodeStmt(s *Stmt) stmtDoc {
	doc := stmtDoc{ID: int(s.ID), Span: encodeSpan(s.Span)}
	switch k := s.Kind.(type) {
	case StmtExpr:
		doc.Kind = "expr"
		doc.Expr = intPtr(int(k.Expr))
	case StmtSemi:
		doc.Kind = "semi"
		doc.Expr = intPtr(int(k.Expr))
	case StmtLocal:
		doc.Kind = "local"
		doc.Mutable = k.Mutable
		doc.Pat = intPtr(int(k.Pat))
		doc.Expr = intPtr(int(k.Expr))
	case StmtItem:
		doc.Kind = "item"
		doc.Item = intPtr(int(k.Item))
	}
	return doc
}

func exprArgs(ids ...ExprID) []int {
	args := make([]int, len(ids))
	for i, id := range ids {
		args[i] = int(id)
	}
	return args
}

func litKindName(kind LitKind) string {
	for name, k := range litKindNames {
		if k == kind {
			return name
		}
	}
	return ""
}

func encodeExpr(e *Expr) exprDoc {
	doc := exprDoc{ID: int(e.ID), Span: encodeSpan(e.Span), Ty: e.Ty.String()}
	switch k := e.Kind.(type) {
	case ExprLit:
		doc.Kind = "lit"
		doc.Lit = litKindName(k.Lit.Kind)
		doc.Value = k.Lit.Value
	case ExprVar:
		doc.Kind = "var"
		switch k.Res.Kind {
		case ResLocal:
			doc.Local = intPtr(int(k.Res.Local))
		case ResItem:
			doc.Item = &itemRefDoc{Package: int(k.Res.Item.Package), Item: int(k.Res.Item.Item)}
		}
	case ExprArray:
		doc.Kind = "array"
		doc.Args = exprArgs(k.Items...)
	case ExprArrayRepeat:
		doc.Kind = "array_repeat"
		doc.Args = exprArgs(k.Value, k.Size)
	case ExprAssign:
		doc.Kind = "assign"
		doc.Args = exprArgs(k.Lhs, k.Rhs)
	case ExprAssignOp:
		doc.Kind = "assign_op"
		doc.Op = string(k.Op)
		doc.Args = exprArgs(k.Lhs, k.Rhs)
	case ExprAssignIndex:
		doc.Kind = "assign_index"
		doc.Args = exprArgs(k.Array, k.Index, k.Value)
	case ExprBinOp:
		doc.Kind = "bin_op"
		doc.Op = string(k.Op)
		doc.Args = exprArgs(k.Lhs, k.Rhs)
	case ExprUnOp:
		doc.Kind = "un_op"
		doc.Op = string(k.Op)
		doc.Args = exprArgs(k.Operand)
	case ExprBlock:
		doc.Kind = "block"
		doc.Block = intPtr(int(k.Block))
	case ExprCall:
		doc.Kind = "call"
		doc.Args = exprArgs(k.Callee, k.Arg)
	case ExprClosure:
		doc.Kind = "closure"
		doc.Callable = intPtr(int(k.Item))
		for _, c := range k.Captures {
			doc.Captures = append(doc.Captures, int(c))
		}
	case ExprFail:
		doc.Kind = "fail"
		doc.Args = exprArgs(k.Msg)
	case ExprField:
		doc.Kind = "field"
		doc.Field = k.Field
		doc.Args = exprArgs(k.Record)
	case ExprIf:
		doc.Kind = "if"
		doc.Args = exprArgs(k.Cond, k.Then)
		if k.Else != NoExpr {
			doc.Args = append(doc.Args, int(k.Else))
		}
	case ExprIndex:
		doc.Kind = "index"
		doc.Args = exprArgs(k.Array, k.Index)
	case ExprRange:
		doc.Kind = "range"
		doc.Args = exprArgs(k.Start, k.Step, k.End)
	case ExprReturn:
		doc.Kind = "return"
		doc.Args = exprArgs(k.Value)
	case ExprString:
		doc.Kind = "string"
		for _, c := range k.Components {
			doc.Parts = append(doc.Parts, partDoc{Lit: c.Lit, Expr: optPtr(int(c.Expr))})
		}
	case ExprTuple:
		doc.Kind = "tuple"
		doc.Args = exprArgs(k.Items...)
	case ExprUpdateIndex:
		doc.Kind = "update_index"
		doc.Args = exprArgs(k.Array, k.Index, k.Value)
	case ExprWhile:
		doc.Kind = "while"
		doc.Args = exprArgs(k.Cond)
		doc.Block = intPtr(int(k.Body))
	case ExprFor:
		doc.Kind = "for"
		doc.Args = exprArgs(k.Iterable)
		doc.Pat = intPtr(int(k.Pat))
		doc.Block = intPtr(int(k.Body))
	case ExprHole:
		doc.Kind = "hole"
	}
	return doc
}

func encodeItem(item *Item) itemDoc {
	doc := itemDoc{ID: int(item.ID), Span: encodeSpan(item.Span), Parent: optPtr(int(item.Parent))}
	switch k := item.Kind.(type) {
	case ItemNamespace:
		doc.Kind = "namespace"
		doc.Name = k.Name
		for _, id := range k.Items {
			doc.Items = append(doc.Items, int(id))
		}
	case ItemTy:
		doc.Kind = "ty"
		doc.Name = k.Name
		doc.Underlying = k.Underlying.String()
	case ItemCallable:
		doc.Kind = "callable"
		doc.Name = k.Decl.Name
		doc.Callable = encodeCallable(k.Decl)
	}
	return doc
}

func encodeCallable(decl *CallableDecl) *callableDoc {
	doc := &callableDoc{
		Kind:      decl.Kind.String(),
		Input:     int(decl.Input),
		Output:    decl.Output.String(),
		Functors:  decl.Functors.String(),
		Intrinsic: decl.Intrinsic,
	}
	specs := []**specDoc{&doc.Body, &doc.Adj, &doc.Ctl, &doc.CtlAdj}
	for f, spec := range decl.Specs {
		if spec == nil {
			continue
		}
		sd := &specDoc{Controls: optPtr(int(spec.Controls)), Block: optPtr(int(spec.Block))}
		if spec.Gen != SpecExplicit {
			sd.Gen = spec.Gen.String()
		}
		*specs[f] = sd
	}
	return doc
}
