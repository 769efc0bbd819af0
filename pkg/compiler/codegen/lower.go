// Package codegen holds the traversal shared by the evaluator and every code
// generation backend.
//
// A Lowerer describes what a literal and an operator produce; Lower walks the
// tree in postorder, left child first, and threads those results upward. The
// evaluator, the register-bank assembly emitter and the LLVM IR emitter are
// all driven by it, so they see nodes in the same order.
package codegen

import (
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

// Lowerer emits target code for one node at a time. T is whatever the
// backend uses to name a computed value: a register index, an IR value, or
// the value itself when interpreting.
type Lowerer[T any] interface {
	Literal(v int64) (T, error)
	Binary(op ast.Op, left, right T) (T, error)
}

// Lower emits code for expr and returns the backend's handle to its value.
func Lower[T any](expr ast.Expr, l Lowerer[T]) (T, error) {
	var zero T

	switch n := expr.(type) {
	case *ast.IntLiteral:
		return l.Literal(n.Value)

	case *ast.BinaryExpr:
		left, err := Lower(n.Left, l)
		if err != nil {
			return zero, err
		}
		right, err := Lower(n.Right, l)
		if err != nil {
			return zero, err
		}
		return l.Binary(n.Op, left, right)
	}

	return zero, diag.Internal("cannot lower node %T", expr)
}

// Backend turns a whole program into target output.
type Backend interface {
	Generate(prog *ast.Program) error
}
