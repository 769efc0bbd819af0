// Package eval interprets a parsed program by walking its tree directly.
package eval

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

// Evaluator computes expression values with signed 64-bit arithmetic and
// writes one trace line per visited node.
type Evaluator struct {
	out *bufio.Writer
}

var _ codegen.Lowerer[int64] = (*Evaluator)(nil)

func New(w io.Writer) *Evaluator {
	return &Evaluator{out: bufio.NewWriter(w)}
}

// Run evaluates every print statement in order, writing each statement's
// trace followed by its value. Output written before a runtime fault is
// flushed while the fault unwinds.
func (e *Evaluator) Run(prog *ast.Program) (err error) {
	defer e.flush(&err)

	for _, stmt := range prog.Stmts {
		ps, ok := stmt.(*ast.PrintStmt)
		if !ok {
			return diag.Internal("unrecognised statement %T", stmt)
		}
		v, err := codegen.Lower[int64](ps.Expr, e)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%d\n", v)
	}
	return nil
}

// Evaluate returns the value of a single expression after writing its trace.
func (e *Evaluator) Evaluate(expr ast.Expr) (v int64, err error) {
	defer e.flush(&err)
	return codegen.Lower[int64](expr, e)
}

func (e *Evaluator) flush(err *error) {
	if ferr := e.out.Flush(); ferr != nil && *err == nil {
		*err = errors.Wrap(ferr, "writing trace")
	}
}

func (e *Evaluator) Literal(v int64) (int64, error) {
	fmt.Fprintf(e.out, "int %d\n", v)
	return v, nil
}

// Binary does not guard against division by zero; the runtime panic surfaces
// exactly as the host arithmetic raises it.
func (e *Evaluator) Binary(op ast.Op, left, right int64) (int64, error) {
	fmt.Fprintf(e.out, "%d %s %d\n", left, op.Symbol(), right)

	switch op {
	case ast.OpAdd:
		return left + right, nil
	case ast.OpSub:
		return left - right, nil
	case ast.OpMul:
		return left * right, nil
	case ast.OpDiv:
		return left / right, nil
	}
	return 0, diag.Internal("unrecognised operator %d", op)
}
