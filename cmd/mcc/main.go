package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skeetcha/multi-c-compiler/pkg/config"
	"github.com/skeetcha/multi-c-compiler/pkg/driver"
	"github.com/skeetcha/multi-c-compiler/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mcc [flags] infile",
		Short:         "Interpret or compile an arithmetic print-statement program",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parsing of the command line is done so silence cmd usage
			cmd.SilenceUsage = true
			return run(cmd, args[0])
		},
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, source string) error {
	conf, err := config.Load(cmd.Flags(), source)
	if err != nil {
		return err
	}

	logger, err := logging.New(conf.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, err := os.ReadFile(source)
	if err != nil {
		return errors.Wrap(err, "unable to load source")
	}

	logger.Debug("starting", zap.String("source", source), zap.String("backend", conf.Backend))
	d := driver.New(logger, conf.Grammar)

	switch conf.Backend {
	case config.BackendAsm:
		return d.AssembleFile(source, src, conf.AsmOutput)
	case config.BackendLLVM:
		irPath := ""
		if conf.EmitIR {
			irPath = config.IRPath(conf.ObjOutput)
		}
		return d.CompileObject(source, src, conf.ObjOutput, irPath)
	default:
		return d.Interpret(source, src, cmd.OutOrStdout())
	}
}
