// Copyright © 2024 The ELPS authors

package rcatest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/qrca/fir"
)

// BranchSource is the source text of the package built by BuildBranch.
const BranchSource = `operation Foo() : Int {
    let q = Allocate();
    if M(q) == One { 1 } else { 0 }
}
`

// SpanOf returns the span of the first occurrence of text in src.
func SpanOf(src, text string) fir.Span {
	lo := strings.Index(src, text)
	if lo < 0 {
		panic("rcatest: no " + text + " in source")
	}
	return fir.Span{Lo: lo, Hi: lo + len(text)}
}

// BuildBranch inserts a package "foo.qs" with one operation Foo returning
// an Int chosen by a measurement.  Only the measured condition and the
// operation name carry spans.
func (c *Core) BuildBranch(store *fir.PackageStore, id fir.PackageID, name string) fir.LocalItemID {
	b := fir.NewBuilder(store, id, name, CoreID)
	b.SetSource("foo.qs", BranchSource)
	foo, _ := b.DeclareCallable(fir.CallableOperation, "Foo", nil, fir.TyInt, fir.FunctorSetEmpty)
	b.SetItemSpan(foo, SpanOf(BranchSource, "Foo"))
	alloc, q := c.AllocQubit(b, "q")
	cond := c.MeasureBool(b, b.Var(q))
	b.SetSpan(fir.ExprNode(cond), SpanOf(BranchSource, "M(q) == One"))
	branch := b.If(cond,
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(1)))),
		b.BlockExpr(b.Block(b.ExprStmt(b.Int(0)))))
	b.Spec(foo, fir.FunctorBody, b.Block(alloc, b.ExprStmt(branch)))
	if err := store.Insert(b.Package()); err != nil {
		panic(err)
	}
	return foo
}

// WriteStore encodes store into a file named name in a temporary
// directory and returns its path.
func WriteStore(t testing.TB, store *fir.PackageStore, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck
	if err := fir.EncodeStore(f, store); err != nil {
		t.Fatal(err)
	}
	return path
}
