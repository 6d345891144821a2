package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. Components receive the
// embedded *zap.Logger.
type Logger struct {
	*zap.Logger
}

// Options selects verbosity, encoding and destination.
type Options struct {
	// Level is one of debug, info, warn, error. Empty picks debug in
	// development mode and info otherwise.
	Level string
	// Development switches from JSON lines to colored console output and
	// records stack traces from warn upwards.
	Development bool
	// Output receives encoded entries; stderr when nil.
	Output io.Writer
}

// New builds a logger writing to a single core
func New(opts Options) (*Logger, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}

	sink := zapcore.Lock(os.Stderr)
	if opts.Output != nil {
		sink = zapcore.Lock(zapcore.AddSync(opts.Output))
	}

	core := zapcore.NewCore(newEncoder(opts.Development), sink, level)
	zapOpts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if opts.Development {
		zapOpts = append(zapOpts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{Logger: zap.New(core, zapOpts...)}, nil
}

// NewOrNop is New for process start-up: an invalid level yields a logger
// that discards everything rather than an error.
func NewOrNop(opts Options) *Logger {
	logger, err := New(opts)
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func resolveLevel(opts Options) (zapcore.Level, error) {
	if opts.Level == "" {
		if opts.Development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return level, nil
}

// newEncoder returns JSON lines keyed for log collectors, or a console
// encoder with colored levels for local runs.
func newEncoder(development bool) zapcore.Encoder {
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	return zapcore.NewJSONEncoder(cfg)
}
