package ast

import "github.com/skeetcha/multi-c-compiler/pkg/compiler/lexer"

// Op is the arithmetic operation of a BinaryExpr.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

var opSymbols = [...]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/"}

// Symbol returns the source spelling of the operation.
func (o Op) Symbol() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return "?"
}

func (o Op) String() string { return o.Symbol() }

// Commutative reports whether operand order is irrelevant to the result.
func (o Op) Commutative() bool {
	return o == OpAdd || o == OpMul
}

// OpFor maps an operator token kind to its operation.
func OpFor(k lexer.Kind) (Op, bool) {
	switch k {
	case lexer.KindPlus:
		return OpAdd, true
	case lexer.KindMinus:
		return OpSub, true
	case lexer.KindStar:
		return OpMul, true
	case lexer.KindSlash:
		return OpDiv, true
	}
	return 0, false
}

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
}

// Expr represents an expression that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node: statements in source order.
type Program struct {
	Stmts []Statement
}

// BinaryExpr: LEFT OP RIGHT. Both children are owned by this node.
type BinaryExpr struct {
	Token lexer.Token
	Op    Op
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() lexer.Token { return b.Token }
func (b *BinaryExpr) exprNode()        {}

// Integer literal leaf
type IntLiteral struct {
	Token lexer.Token
	Value int64
}

func (i *IntLiteral) Pos() lexer.Token { return i.Token }
func (i *IntLiteral) exprNode()        {}

// PrintStmt: print EXPR ;
type PrintStmt struct {
	Token lexer.Token
	Expr  Expr
}

func (p *PrintStmt) Pos() lexer.Token { return p.Token }
func (p *PrintStmt) stmtNode()        {}

// NewBinary combines two finished subtrees.
func NewBinary(op Op, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// NewInt builds a literal leaf.
func NewInt(v int64) *IntLiteral {
	return &IntLiteral{Value: v}
}
