// Package driver runs one compilation unit through the pipeline: scan and
// parse the whole source, then interpret it or hand it to a backend.
//
// Every stage stops at its first error and the driver returns it unchanged
// apart from a message naming the source, so callers can still classify it
// with the diag helpers.
package driver

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen/llvmir"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/codegen/x64"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/lexer"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/parser"
	"github.com/skeetcha/multi-c-compiler/pkg/eval"
)

type Driver struct {
	logger  *zap.Logger
	grammar parser.Grammar
}

func New(logger *zap.Logger, grammar parser.Grammar) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{logger: logger, grammar: grammar}
}

// Parse turns the in-memory source into a program.
func (d *Driver) Parse(name string, src []byte) (*ast.Program, error) {
	d.logger.Debug("parsing", zap.String("source", name), zap.Int("bytes", len(src)), zap.Stringer("grammar", d.grammar))

	prog, err := parser.NewParser(lexer.NewScanner(src)).Parse(d.grammar)
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}

	d.logger.Debug("parsed", zap.String("source", name), zap.Int("statements", len(prog.Stmts)))
	return prog, nil
}

// Interpret evaluates the source, writing the trace and printed values to w.
func (d *Driver) Interpret(name string, src []byte, w io.Writer) error {
	prog, err := d.Parse(name, src)
	if err != nil {
		return err
	}

	d.logger.Debug("evaluating", zap.String("source", name))
	return errors.WithMessage(eval.New(w).Run(prog), name)
}

// Assemble writes x86-64 assembly for the source to w.
func (d *Driver) Assemble(name string, src []byte, w io.Writer) error {
	prog, err := d.Parse(name, src)
	if err != nil {
		return err
	}

	return d.generate(name, "asm", prog, x64.New(w))
}

func (d *Driver) generate(name, backend string, prog *ast.Program, b codegen.Backend) error {
	d.logger.Debug("lowering", zap.String("source", name), zap.String("backend", backend))
	return errors.WithMessage(b.Generate(prog), name)
}

// AssembleFile writes the assembly to a file the driver creates and closes.
func (d *Driver) AssembleFile(name string, src []byte, output string) error {
	f, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "creating %s", output)
	}

	err = d.Assemble(name, src, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "closing %s", output)
	}
	if err != nil {
		return err
	}

	d.logger.Info("wrote assembly", zap.String("output", output))
	return nil
}

// CompileObject lowers the source to LLVM IR and writes a native object file
// to objPath. When irPath is not empty the textual IR is written there too.
func (d *Driver) CompileObject(name string, src []byte, objPath, irPath string) error {
	prog, err := d.Parse(name, src)
	if err != nil {
		return err
	}

	gen := llvmir.New("main_module")
	defer gen.Dispose()

	if err := d.generate(name, "llvm", prog, gen); err != nil {
		return err
	}

	if irPath != "" {
		if err := os.WriteFile(irPath, []byte(gen.IR()), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", irPath)
		}
		d.logger.Info("wrote IR", zap.String("output", irPath))
	}

	if err := gen.EmitObject(objPath); err != nil {
		return errors.WithMessage(err, name)
	}

	d.logger.Info("wrote object", zap.String("output", objPath))
	return nil
}
