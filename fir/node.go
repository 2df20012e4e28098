// Copyright © 2024 The ELPS authors

package fir

// Block is a sequence of statements whose value is that of its trailing
// expression statement, or Unit.
type Block struct {
	ID    BlockID
	Span  Span
	Ty    Ty
	Stmts []StmtID
}

// Stmt is a statement.
type Stmt struct {
	ID   StmtID
	Span Span
	Kind StmtKind
}

// StmtKind is implemented by the statement variants.
type StmtKind interface {
	stmtKind()
}

// StmtExpr is an expression whose value is the value of the enclosing
// block when it is the final statement.
type StmtExpr struct {
	Expr ExprID
}

// StmtSemi is an expression evaluated for its effects.
type StmtSemi struct {
	Expr ExprID
}

// StmtLocal binds the initializer to a pattern.
type StmtLocal struct {
	Mutable bool
	Pat     PatID
	Expr    ExprID
}

// StmtItem declares a nested item.
type StmtItem struct {
	Item LocalItemID
}

func (StmtExpr) stmtKind()  {}
func (StmtSemi) stmtKind()  {}
func (StmtLocal) stmtKind() {}
func (StmtItem) stmtKind()  {}

// Pat is a binding pattern.
type Pat struct {
	ID   PatID
	Span Span
	Ty   Ty
	Kind PatKind
}

// PatKind is implemented by the pattern variants.
type PatKind interface {
	patKind()
}

// PatBind binds a single local.
type PatBind struct {
	Local LocalVarID
	Name  string
}

// PatDiscard matches anything and binds nothing.
type PatDiscard struct{}

// PatTuple destructures a tuple.
type PatTuple struct {
	Items []PatID
}

func (PatBind) patKind()    {}
func (PatDiscard) patKind() {}
func (PatTuple) patKind()   {}

// Local describes a local variable binding.
type Local struct {
	ID      LocalVarID
	Name    string
	Ty      Ty
	Mutable bool
}

// Expr is an expression.
type Expr struct {
	ID   ExprID
	Span Span
	Ty   Ty
	Kind ExprKind
}

// ExprKind is implemented by the expression variants.
type ExprKind interface {
	exprKind()
}

// LitKind is the kind of a literal.
type LitKind int

const (
	LitBool LitKind = iota
	LitInt
	LitBigInt
	LitDouble
	LitPauli
	LitResult
	LitString
)

// Lit is a literal value in source form.
type Lit struct {
	Kind  LitKind
	Value string
}

// BinOp is a binary operator.
type BinOp string

// Binary operators.
const (
	BinOpAdd  BinOp = "+"
	BinOpSub  BinOp = "-"
	BinOpMul  BinOp = "*"
	BinOpDiv  BinOp = "/"
	BinOpMod  BinOp = "%"
	BinOpExp  BinOp = "^"
	BinOpEq   BinOp = "=="
	BinOpNeq  BinOp = "!="
	BinOpLt   BinOp = "<"
	BinOpLte  BinOp = "<="
	BinOpGt   BinOp = ">"
	BinOpGte  BinOp = ">="
	BinOpAndL BinOp = "and"
	BinOpOrL  BinOp = "or"
	BinOpAndB BinOp = "&&&"
	BinOpOrB  BinOp = "|||"
	BinOpXorB BinOp = "^^^"
	BinOpShl  BinOp = "<<<"
	BinOpShr  BinOp = ">>>"
)

// IsComparison reports whether op produces a Bool from its operands.
func (op BinOp) IsComparison() bool {
	switch op {
	case BinOpEq, BinOpNeq, BinOpLt, BinOpLte, BinOpGt, BinOpGte:
		return true
	}
	return false
}

// UnOp is a unary operator, including functor application.
type UnOp string

// Unary operators.
const (
	UnOpNeg     UnOp = "-"
	UnOpPos     UnOp = "+"
	UnOpNotL    UnOp = "not"
	UnOpNotB    UnOp = "~~~"
	UnOpAdjoint UnOp = "Adjoint"
	UnOpCtl     UnOp = "Controlled"
	UnOpUnwrap  UnOp = "!"
)

// IsFunctor reports whether op applies a functor to a callable value.
func (op UnOp) IsFunctor() bool {
	return op == UnOpAdjoint || op == UnOpCtl
}

// Res is the resolution of a variable reference.
type Res struct {
	Kind  ResKind
	Local LocalVarID
	Item  StoreItemID
}

// ResKind distinguishes local and global references.
type ResKind int

const (
	ResErr ResKind = iota
	ResLocal
	ResItem
)

// LocalRes returns a resolution to a local variable.
func LocalRes(id LocalVarID) Res {
	return Res{Kind: ResLocal, Local: id}
}

// ItemRes returns a resolution to a global item.
func ItemRes(id StoreItemID) Res {
	return Res{Kind: ResItem, Item: id}
}

// StringComponent is one piece of an interpolated string.  Exactly one of
// Lit or Expr is meaningful: Expr is NoExpr for literal text.
type StringComponent struct {
	Lit  string
	Expr ExprID
}

// Expression variants.
type (
	ExprLit struct {
		Lit Lit
	}
	ExprVar struct {
		Res Res
	}
	ExprArray struct {
		Items []ExprID
	}
	ExprArrayRepeat struct {
		Value ExprID
		Size  ExprID
	}
	ExprAssign struct {
		Lhs ExprID
		Rhs ExprID
	}
	ExprAssignOp struct {
		Op  BinOp
		Lhs ExprID
		Rhs ExprID
	}
	ExprAssignIndex struct {
		Array ExprID
		Index ExprID
		Value ExprID
	}
	ExprBinOp struct {
		Op  BinOp
		Lhs ExprID
		Rhs ExprID
	}
	ExprUnOp struct {
		Op      UnOp
		Operand ExprID
	}
	ExprBlock struct {
		Block BlockID
	}
	// ExprCall applies Callee to Arg.  Multiple arguments are passed as a
	// single tuple expression.
	ExprCall struct {
		Callee ExprID
		Arg    ExprID
	}
	// ExprClosure refers to a lifted callable item.  Captured locals are
	// passed ahead of the explicit arguments.
	ExprClosure struct {
		Captures []LocalVarID
		Item     LocalItemID
	}
	ExprFail struct {
		Msg ExprID
	}
	ExprField struct {
		Record ExprID
		Field  string
	}
	// ExprIf is a conditional.  Else is NoExpr when absent; elif chains
	// nest in Else.
	ExprIf struct {
		Cond ExprID
		Then ExprID
		Else ExprID
	}
	ExprIndex struct {
		Array ExprID
		Index ExprID
	}
	// ExprRange has optional bounds; absent parts are NoExpr.
	ExprRange struct {
		Start ExprID
		Step  ExprID
		End   ExprID
	}
	ExprReturn struct {
		Value ExprID
	}
	ExprString struct {
		Components []StringComponent
	}
	ExprTuple struct {
		Items []ExprID
	}
	ExprUpdateIndex struct {
		Array ExprID
		Index ExprID
		Value ExprID
	}
	ExprWhile struct {
		Cond ExprID
		Body BlockID
	}
	ExprFor struct {
		Pat      PatID
		Iterable ExprID
		Body     BlockID
	}
	ExprHole struct{}
)

func (ExprLit) exprKind()         {}
func (ExprVar) exprKind()         {}
func (ExprArray) exprKind()       {}
func (ExprArrayRepeat) exprKind() {}
func (ExprAssign) exprKind()      {}
func (ExprAssignOp) exprKind()    {}
func (ExprAssignIndex) exprKind() {}
func (ExprBinOp) exprKind()       {}
func (ExprUnOp) exprKind()        {}
func (ExprBlock) exprKind()       {}
func (ExprCall) exprKind()        {}
func (ExprClosure) exprKind()     {}
func (ExprFail) exprKind()        {}
func (ExprField) exprKind()       {}
func (ExprIf) exprKind()          {}
func (ExprIndex) exprKind()       {}
func (ExprRange) exprKind()       {}
func (ExprReturn) exprKind()      {}
func (ExprString) exprKind()      {}
func (ExprTuple) exprKind()       {}
func (ExprUpdateIndex) exprKind() {}
func (ExprWhile) exprKind()       {}
func (ExprFor) exprKind()         {}
func (ExprHole) exprKind()        {}
