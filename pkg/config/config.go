// Package config resolves compiler settings from flags, MCC_* environment
// variables and an optional mcc.yaml in the working directory.
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/parser"
	"github.com/skeetcha/multi-c-compiler/pkg/logging"
)

// Prefix is the environment variable prefix.
const Prefix = "MCC"

// Backends
const (
	BackendInterp = "interp"
	BackendAsm    = "asm"
	BackendLLVM   = "llvm"
)

// DefaultAsmOutput is the fixed name of the assembly file.
const DefaultAsmOutput = "out.s"

type Config struct {
	Backend   string
	Grammar   parser.Grammar
	AsmOutput string
	ObjOutput string
	EmitIR    bool
	Logging   logging.Config
}

// BindFlags registers the command line flags Load understands.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("backend", "b", BackendInterp, "interp, asm or llvm")
	fs.StringP("grammar", "g", "auto", "auto, expr or stmt")
	fs.String("asm-out", DefaultAsmOutput, "assembly output file for the asm backend")
	fs.StringP("output", "o", "", "object output file for the llvm backend (default <input>.o)")
	fs.Bool("emit-ir", false, "also write the LLVM IR next to the object file")
	fs.String("log-level", "warn", "log level")
	fs.String("log-format", logging.FormatConsole, "console, logfmt or json")
}

var flagKeys = map[string]string{
	"backend":    "backend",
	"grammar":    "grammar",
	"asm-out":    "asm.output",
	"output":     "obj.output",
	"emit-ir":    "llvm.emit_ir",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load merges flags, environment and mcc.yaml for compiling source.
// Flags set explicitly win over the environment, which wins over the file.
func Load(fs *pflag.FlagSet, source string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("mcc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(Prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading mcc.yaml")
		}
	}

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "binding flag %s", name)
			}
		}
	}

	return fromViper(v, source)
}

func fromViper(v *viper.Viper, source string) (*Config, error) {
	v.SetDefault("backend", BackendInterp)
	v.SetDefault("grammar", "auto")
	v.SetDefault("asm.output", DefaultAsmOutput)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", logging.FormatConsole)

	c := &Config{
		Backend:   v.GetString("backend"),
		AsmOutput: v.GetString("asm.output"),
		ObjOutput: v.GetString("obj.output"),
		EmitIR:    v.GetBool("llvm.emit_ir"),
		Logging: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	switch c.Backend {
	case BackendInterp, BackendAsm, BackendLLVM:
	default:
		return nil, errors.Errorf("unknown backend '%s'", c.Backend)
	}

	g, ok := parser.ParseGrammar(v.GetString("grammar"))
	if !ok {
		return nil, errors.Errorf("unknown grammar '%s'", v.GetString("grammar"))
	}
	c.Grammar = g

	if c.ObjOutput == "" {
		c.ObjOutput = ObjectPath(source)
	}
	return c, nil
}

// ObjectPath places the object file in the working directory, named after
// the source file with its extension replaced by .o.
func ObjectPath(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".o"
}

// IRPath is the textual IR companion of an object file.
func IRPath(object string) string {
	return strings.TrimSuffix(object, filepath.Ext(object)) + ".ll"
}
