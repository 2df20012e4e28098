// Copyright © 2024 The ELPS authors

package fir

import "fmt"

// NodeKind is the table a Node refers to.
type NodeKind int

const (
	NodeNone NodeKind = iota
	NodeBlock
	NodeStmt
	NodeExpr
	NodePat
)

func (k NodeKind) String() string {
	switch k {
	case NodeBlock:
		return "block"
	case NodeStmt:
		return "stmt"
	case NodeExpr:
		return "expr"
	case NodePat:
		return "pat"
	default:
		return "none"
	}
}

// Node is a reference to any block, statement, expression or pattern of a
// package.
type Node struct {
	Kind NodeKind
	ID   int
}

// BlockNode, StmtNode, ExprNode and PatNode wrap typed IDs.
func BlockNode(id BlockID) Node { return Node{Kind: NodeBlock, ID: int(id)} }
func StmtNode(id StmtID) Node   { return Node{Kind: NodeStmt, ID: int(id)} }
func ExprNode(id ExprID) Node   { return Node{Kind: NodeExpr, ID: int(id)} }
func PatNode(id PatID) Node     { return Node{Kind: NodePat, ID: int(id)} }

func (n Node) String() string {
	return fmt.Sprintf("%s%d", n.Kind, n.ID)
}

// Span returns the source span of the node.
func (p *Package) Span(n Node) Span {
	switch n.Kind {
	case NodeBlock:
		if b := p.Block(BlockID(n.ID)); b != nil {
			return b.Span
		}
	case NodeStmt:
		if s := p.Stmt(StmtID(n.ID)); s != nil {
			return s.Span
		}
	case NodeExpr:
		if e := p.Expr(ExprID(n.ID)); e != nil {
			return e.Span
		}
	case NodePat:
		if pat := p.Pat(PatID(n.ID)); pat != nil {
			return pat.Span
		}
	}
	return Span{}
}

// Children returns the direct children of n in evaluation order.  Nested
// items are not children of the statement declaring them.
func (p *Package) Children(n Node) []Node {
	var out []Node
	expr := func(ids ...ExprID) {
		for _, id := range ids {
			if id != NoExpr {
				out = append(out, ExprNode(id))
			}
		}
	}
	switch n.Kind {
	case NodeBlock:
		if b := p.Block(BlockID(n.ID)); b != nil {
			for _, s := range b.Stmts {
				out = append(out, StmtNode(s))
			}
		}
	case NodeStmt:
		s := p.Stmt(StmtID(n.ID))
		if s == nil {
			return nil
		}
		switch k := s.Kind.(type) {
		case StmtExpr:
			expr(k.Expr)
		case StmtSemi:
			expr(k.Expr)
		case StmtLocal:
			out = append(out, PatNode(k.Pat))
			expr(k.Expr)
		}
	case NodePat:
		if pat := p.Pat(PatID(n.ID)); pat != nil {
			if t, ok := pat.Kind.(PatTuple); ok {
				for _, item := range t.Items {
					out = append(out, PatNode(item))
				}
			}
		}
	case NodeExpr:
		e := p.Expr(ExprID(n.ID))
		if e == nil {
			return nil
		}
		switch k := e.Kind.(type) {
		case ExprArray:
			expr(k.Items...)
		case ExprArrayRepeat:
			expr(k.Value, k.Size)
		case ExprAssign:
			expr(k.Lhs, k.Rhs)
		case ExprAssignOp:
			expr(k.Lhs, k.Rhs)
		case ExprAssignIndex:
			expr(k.Array, k.Index, k.Value)
		case ExprBinOp:
			expr(k.Lhs, k.Rhs)
		case ExprUnOp:
			expr(k.Operand)
		case ExprBlock:
			out = append(out, BlockNode(k.Block))
		case ExprCall:
			expr(k.Callee, k.Arg)
		case ExprFail:
			expr(k.Msg)
		case ExprField:
			expr(k.Record)
		case ExprIf:
			expr(k.Cond, k.Then, k.Else)
		case ExprIndex:
			expr(k.Array, k.Index)
		case ExprRange:
			expr(k.Start, k.Step, k.End)
		case ExprReturn:
			expr(k.Value)
		case ExprString:
			for _, c := range k.Components {
				expr(c.Expr)
			}
		case ExprTuple:
			expr(k.Items...)
		case ExprUpdateIndex:
			expr(k.Array, k.Index, k.Value)
		case ExprWhile:
			expr(k.Cond)
			out = append(out, BlockNode(k.Body))
		case ExprFor:
			out = append(out, PatNode(k.Pat))
			expr(k.Iterable)
			out = append(out, BlockNode(k.Body))
		}
	}
	return out
}

// Walk calls fn for every node reachable from roots, depth-first in
// evaluation order.  parent is the zero Node for roots.  Returning false
// from fn skips the node's children.
func (p *Package) Walk(roots []Node, fn func(node, parent Node, depth int) bool) {
	for _, root := range roots {
		p.walkNode(root, Node{}, 0, fn)
	}
}

func (p *Package) walkNode(node, parent Node, depth int, fn func(Node, Node, int) bool) {
	if !fn(node, parent, depth) {
		return
	}
	for _, child := range p.Children(node) {
		p.walkNode(child, node, depth+1, fn)
	}
}

// Roots returns the entry points of every walkable region of the package:
// explicit specialization blocks of each callable, top-level statements
// and the entry expression.
func (p *Package) Roots() []Node {
	var roots []Node
	for _, id := range p.Callables() {
		decl := p.Callable(id)
		for _, f := range Functors {
			if spec := decl.Spec(f); spec.IsExplicit() {
				roots = append(roots, BlockNode(spec.Block))
			}
		}
	}
	for _, s := range p.TopLevel {
		roots = append(roots, StmtNode(s))
	}
	if p.Entry != NoExpr {
		roots = append(roots, ExprNode(p.Entry))
	}
	return roots
}
