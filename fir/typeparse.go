// Copyright © 2024 The ELPS authors

package fir

import (
	"fmt"

	parsec "github.com/prataprc/goparsec"
)

type tyNodeType uint

const (
	tyNodeNamed tyNodeType = iota
	tyNodeTuple
	tyNodeArrow
	tyNodeArray
)

var tyParser = newTyParser()

// ParseTy parses the textual form of a type.
func ParseTy(text string) (Ty, error) {
	s := parsec.NewScanner([]byte(text))
	root, s := tyParser(s)
	_, s = s.SkipWS()
	if root == nil {
		return TyError, fmt.Errorf("%w: %q", ErrTypeSyntax, text)
	}
	if !s.Endof() {
		return TyError, fmt.Errorf("%w: %q: unexpected text at offset %d", ErrTypeSyntax, text, s.GetCursor())
	}
	switch node := root.(type) {
	case *Ty:
		return *node, nil
	case error:
		return TyError, fmt.Errorf("%w: %q: %v", ErrTypeSyntax, text, node)
	default:
		return TyError, fmt.Errorf("%w: %q", ErrTypeSyntax, text)
	}
}

// MustParseTy is like ParseTy but panics on malformed input.  It is
// intended for fixtures and tests.
func MustParseTy(text string) Ty {
	ty, err := ParseTy(text)
	if err != nil {
		panic(err)
	}
	return ty
}

// newTyParser builds the type grammar:
//
//	ty       := base '[]'*
//	base     := arrow | tuple | name
//	arrow    := '(' ty ('->' | '=>') ty ('is' functors)? ')'
//	tuple    := '(' (ty (',' ty)*)? ')'
//	functors := functor ('+' functor)*
//	functor  := 'Adj' | 'Ctl'
//	name     := /[A-Za-z_][A-Za-z0-9_.]*/
//
// Primitive names and Unit map to their built-in types; any other name is
// a user defined type.  A parenthesized single type is that type.
func newTyParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	comma := parsec.Atom(",", "COMMA")
	plus := parsec.Atom("+", "PLUS")
	is := parsec.Atom("is", "IS")
	arraySuffix := parsec.Atom("[]", "ARRAY")
	arrowTok := parsec.Token(`=>|->`, "ARROW")
	functor := parsec.Token(`Adj|Ctl`, "FUNCTOR")
	name := parsec.Token(`[A-Za-z_][A-Za-z0-9_.]*`, "NAME")

	var ty parsec.Parser // forward declaration allows for recursive parsing
	functors := parsec.And(nil, is, parsec.Kleene(nil, functor, plus))
	arrow := parsec.And(tyNode(tyNodeArrow),
		openP, &ty, arrowTok, &ty, parsec.Maybe(nil, functors), closeP)
	tuple := parsec.And(tyNode(tyNodeTuple), openP, parsec.Kleene(nil, &ty, comma), closeP)
	named := parsec.And(tyNode(tyNodeNamed), name)
	base := parsec.OrdChoice(nil, arrow, tuple, named)
	ty = parsec.And(tyNode(tyNodeArray), base, parsec.Kleene(nil, arraySuffix))
	return ty
}

func tyNode(t tyNodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newTy(t, flattenTyNodes(nodes))
	}
}

func newTy(t tyNodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	for _, n := range nodes {
		if err, ok := n.(error); ok {
			return err
		}
	}
	switch t {
	case tyNodeNamed:
		term := nodes[0].(*parsec.Terminal)
		ty := namedTy(term.GetValue())
		return &ty
	case tyNodeTuple:
		items := tysOf(nodes)
		ty := Ty{Kind: TyTuple, Items: items}
		if len(items) == 1 {
			ty = items[0]
		}
		return &ty
	case tyNodeArrow:
		tys := tysOf(nodes)
		if len(tys) != 2 {
			return fmt.Errorf("arrow type needs input and output")
		}
		kind := CallableFunction
		var fs FunctorSet
		for _, n := range nodes {
			term, ok := n.(*parsec.Terminal)
			if !ok {
				continue
			}
			switch term.GetName() {
			case "ARROW":
				if term.GetValue() == "=>" {
					kind = CallableOperation
				}
			case "FUNCTOR":
				if term.GetValue() == "Adj" {
					fs |= FunctorSetAdj
				} else {
					fs |= FunctorSetCtl
				}
			}
		}
		ty := ArrowOf(kind, tys[0], tys[1], fs)
		return &ty
	case tyNodeArray:
		tys := tysOf(nodes)
		if len(tys) != 1 {
			return fmt.Errorf("malformed array type")
		}
		ty := tys[0]
		for _, n := range nodes {
			if term, ok := n.(*parsec.Terminal); ok && term.GetName() == "ARRAY" {
				ty = ArrayOf(ty)
			}
		}
		return &ty
	default:
		panic(fmt.Sprintf("unknown type node: %d", t))
	}
}

func namedTy(name string) Ty {
	if name == "Unit" {
		return TyUnit
	}
	if p, ok := primByName(name); ok {
		return Ty{Kind: TyPrim, Prim: p}
	}
	return UdtOf(name)
}

func tysOf(nodes []parsec.ParsecNode) []Ty {
	var tys []Ty
	for _, n := range nodes {
		if ty, ok := n.(*Ty); ok {
			tys = append(tys, *ty)
		}
	}
	return tys
}

// flattenTyNodes drops everything except types, terminals and errors,
// splicing nested node lists in order.
func flattenTyNodes(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *Ty, *parsec.Terminal, error:
			nodes = append(nodes, node)
		case []parsec.ParsecNode:
			nodes = append(nodes, flattenTyNodes(node)...)
		}
	}
	return nodes
}
