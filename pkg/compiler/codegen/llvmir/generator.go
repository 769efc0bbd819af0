// Package llvmir lowers programs to LLVM IR and compiles them to native
// object files for the host.
package llvmir

import (
	"os"

	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

// printFormat matches the 64-bit values every expression computes.
const printFormat = "%lld\n"

// Generator owns an LLVM context and the module built from one program.
// Call Dispose when done with it.
type Generator struct {
	name    string
	ctx     llvm.Context
	mod     llvm.Module
	built   bool
	builder llvm.Builder

	i64      llvm.Type
	printf   llvm.Value
	printfTy llvm.Type
	format   llvm.Value
}

var _ codegen.Backend = (*Generator)(nil)
var _ codegen.Lowerer[llvm.Value] = (*Generator)(nil)

func New(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		name:    moduleName,
		ctx:     ctx,
		builder: ctx.NewBuilder(),
		i64:     ctx.Int64Type(),
	}
}

func (g *Generator) Dispose() {
	g.builder.Dispose()
	if g.built {
		g.mod.Dispose()
		g.built = false
	}
	g.ctx.Dispose()
}

// Generate builds a fresh module holding one main function that prints the
// value of every statement, then verifies it.
func (g *Generator) Generate(prog *ast.Program) error {
	if g.built {
		g.mod.Dispose()
	}
	g.mod = g.ctx.NewModule(g.name)
	g.built = true
	g.format = llvm.Value{}

	i32 := g.ctx.Int32Type()
	bytePtr := llvm.PointerType(g.ctx.Int8Type(), 0)
	g.printfTy = llvm.FunctionType(i32, []llvm.Type{bytePtr}, true)
	g.printf = llvm.AddFunction(g.mod, "printf", g.printfTy)
	g.printf.SetLinkage(llvm.ExternalLinkage)

	mainTy := llvm.FunctionType(i32, nil, false)
	mainFn := llvm.AddFunction(g.mod, "main", mainTy)
	entry := g.ctx.AddBasicBlock(mainFn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	for _, stmt := range prog.Stmts {
		ps, ok := stmt.(*ast.PrintStmt)
		if !ok {
			return diag.Internal("unrecognised statement %T", stmt)
		}
		v, err := codegen.Lower[llvm.Value](ps.Expr, g)
		if err != nil {
			return err
		}
		g.print(v)
	}

	g.builder.CreateRet(llvm.ConstInt(i32, 0, false))
	return g.verify()
}

// Literal stores the immediate into a fresh stack slot and loads it back.
func (g *Generator) Literal(v int64) (llvm.Value, error) {
	slot := g.builder.CreateAlloca(g.i64, "int")
	g.builder.CreateStore(llvm.ConstInt(g.i64, uint64(v), true), slot)
	return g.builder.CreateLoad(g.i64, slot, "int_val"), nil
}

func (g *Generator) Binary(op ast.Op, left, right llvm.Value) (llvm.Value, error) {
	switch op {
	case ast.OpAdd:
		return g.builder.CreateAdd(left, right, "add"), nil
	case ast.OpSub:
		return g.builder.CreateSub(left, right, "sub"), nil
	case ast.OpMul:
		return g.builder.CreateMul(left, right, "mul"), nil
	case ast.OpDiv:
		return g.builder.CreateSDiv(left, right, "div"), nil
	}
	return llvm.Value{}, diag.Internal("unrecognised operator %d", op)
}

func (g *Generator) print(v llvm.Value) {
	if g.format.IsNil() {
		g.format = g.builder.CreateGlobalStringPtr(printFormat, "fmt")
	}
	g.builder.CreateCall(g.printfTy, g.printf, []llvm.Value{g.format, v}, "print")
}

// verify reports a malformed module as an internal error: lowering built
// something LLVM rejects.
func (g *Generator) verify() error {
	if err := llvm.VerifyModule(g.mod, llvm.ReturnStatusAction); err != nil {
		return diag.Internal("module verification failed: %s", err)
	}
	return nil
}

// IR returns the textual form of the current module.
func (g *Generator) IR() string {
	if !g.built {
		return ""
	}
	return g.mod.String()
}

// EmitObject compiles the module for the host CPU and writes an object file
// to path.
func (g *Generator) EmitObject(path string) error {
	if !g.built {
		return diag.Internal("no module generated")
	}

	tm, err := hostMachine()
	if err != nil {
		return err
	}
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	g.mod.SetTarget(tm.Triple())
	g.mod.SetDataLayout(td.String())

	buf, err := tm.EmitToMemoryBuffer(g.mod, llvm.ObjectFile)
	if err != nil {
		return errors.Wrap(err, "emitting object code")
	}
	defer buf.Dispose()

	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "writing %s", path)
}

func hostMachine() (llvm.TargetMachine, error) {
	if err := llvm.InitializeNativeTarget(); err != nil {
		return llvm.TargetMachine{}, errors.Wrap(err, "initializing native target")
	}
	if err := llvm.InitializeNativeAsmPrinter(); err != nil {
		return llvm.TargetMachine{}, errors.Wrap(err, "initializing native asm printer")
	}

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, errors.Wrapf(err, "looking up target %s", triple)
	}

	return target.CreateTargetMachine(
		triple,
		llvm.GetHostCPUName(),
		llvm.GetHostCPUFeatures(),
		llvm.CodeGenLevelDefault,
		llvm.RelocPIC,
		llvm.CodeModelDefault,
	), nil
}
