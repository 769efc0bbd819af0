// Package logging builds the structured logger shared by the compiler
// pipeline and the command line.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatLogfmt  = "logfmt"
	FormatJSON    = "json"
)

// Config is used to provide dependencies to New.
type Config struct {
	// Level is a zap level name such as "debug" or "warn". Empty means warn.
	Level string

	// Format selects the encoder: console, logfmt or json. Empty means console.
	Format string

	// Writer is the sink for encoded log records. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a named zap logger from the configuration.
func New(c Config) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if c.Level != "" {
		if err := level.Set(c.Level); err != nil {
			return nil, errors.Wrapf(err, "invalid log level '%s'", c.Level)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch c.Format {
	case "", FormatConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case FormatLogfmt:
		encoder = zaplogfmt.NewEncoder(encoderConfig)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("invalid log format '%s'", c.Format)
	}

	core := zapcore.NewCore(encoder, writeSyncer(c.Writer), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel)).Named("mcc"), nil
}

func writeSyncer(w io.Writer) zapcore.WriteSyncer {
	if w == nil {
		w = os.Stderr
	}
	switch t := w.(type) {
	case *os.File:
		return zapcore.Lock(t)
	case zapcore.WriteSyncer:
		return t
	default:
		return zapcore.AddSync(w)
	}
}
