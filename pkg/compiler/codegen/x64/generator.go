// Package x64 lowers programs to x86-64 assembly for the GNU assembler,
// holding intermediate values in a fixed bank of scratch registers.
package x64

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

const preamble = `	.section	.rodata
.LC0:
	.string	"%ld\n"
	.text
printint:
	pushq	%rbp
	movq	%rsp, %rbp
	subq	$16, %rsp
	movq	%rdi, -8(%rbp)
	movq	-8(%rbp), %rax
	movq	%rax, %rsi
	leaq	.LC0(%rip), %rdi
	movl	$0, %eax
	call	printf@PLT
	nop
	leave
	ret

	.globl	main
	.type	main, @function
main:
	pushq	%rbp
	movq	%rsp, %rbp
`

const postamble = `	movl	$0, %eax
	popq	%rbp
	ret
	.section	.note.GNU-stack,"",@progbits
`

// Generator writes assembly text to a caller-owned sink. The sink is flushed
// but never closed.
type Generator struct {
	out  *bufio.Writer
	regs registerBank
}

var _ codegen.Backend = (*Generator)(nil)
var _ codegen.Lowerer[int] = (*Generator)(nil)

func New(w io.Writer) *Generator {
	return &Generator{out: bufio.NewWriter(w)}
}

// Generate emits the preamble, one printint call per statement, and the
// postamble. Register state starts from all-free on every call.
func (g *Generator) Generate(prog *ast.Program) error {
	g.regs.freeAll()
	g.out.WriteString(preamble)

	for _, stmt := range prog.Stmts {
		ps, ok := stmt.(*ast.PrintStmt)
		if !ok {
			return diag.Internal("unrecognised statement %T", stmt)
		}
		r, err := codegen.Lower[int](ps.Expr, g)
		if err != nil {
			return err
		}
		if err := g.printint(r); err != nil {
			return err
		}
	}

	g.out.WriteString(postamble)
	return errors.Wrap(g.out.Flush(), "writing assembly")
}

// Literal loads an immediate into a fresh register.
func (g *Generator) Literal(v int64) (int, error) {
	r, err := g.regs.alloc()
	if err != nil {
		return 0, err
	}
	mnemonic := "movq"
	if v < math.MinInt32 || v > math.MaxInt32 {
		mnemonic = "movabsq"
	}
	fmt.Fprintf(g.out, "\t%s\t$%d, %s\n", mnemonic, v, regNames[r])
	return r, nil
}

// Binary combines two live registers. Commutative operations accumulate into
// the right register and release the left; the others accumulate into the
// left register and release the right.
func (g *Generator) Binary(op ast.Op, left, right int) (int, error) {
	switch op {
	case ast.OpAdd:
		fmt.Fprintf(g.out, "\taddq\t%s, %s\n", regNames[left], regNames[right])
		return right, g.regs.free(left)
	case ast.OpMul:
		fmt.Fprintf(g.out, "\timulq\t%s, %s\n", regNames[left], regNames[right])
		return right, g.regs.free(left)
	case ast.OpSub:
		fmt.Fprintf(g.out, "\tsubq\t%s, %s\n", regNames[right], regNames[left])
		return left, g.regs.free(right)
	case ast.OpDiv:
		fmt.Fprintf(g.out, "\tmovq\t%s, %%rax\n", regNames[left])
		fmt.Fprintf(g.out, "\tcqo\n")
		fmt.Fprintf(g.out, "\tidivq\t%s\n", regNames[right])
		fmt.Fprintf(g.out, "\tmovq\t%%rax, %s\n", regNames[left])
		return left, g.regs.free(right)
	}
	return 0, diag.Internal("unrecognised operator %d", op)
}

func (g *Generator) printint(r int) error {
	fmt.Fprintf(g.out, "\tmovq\t%s, %%rdi\n", regNames[r])
	fmt.Fprintf(g.out, "\tcall\tprintint\n")
	return g.regs.free(r)
}

// Live reports how many scratch registers currently hold values.
func (g *Generator) Live() int {
	return g.regs.live()
}
