// Package logging provides the zap loggers shared by the scene packages.
// Loggers travel through context.Context so setup code can name sub-loggers
// per component without a package-level dependency on the root logger.
package logging

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType string

const loggerKey = loggerKeyType("logger")

// Options controls how the root logger is built.
type Options struct {
	// Dev selects the console encoder with colored levels.
	Dev bool
	// Level is the minimum enabled level ("debug", "info", "warn", "error").
	Level string
}

var (
	rootMu     sync.RWMutex
	rootLogger = zap.NewNop()
)

// New builds a logger writing to stderr according to opts.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	var encoder zapcore.Encoder
	if opts.Dev {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

// SetRoot replaces the logger returned by From when the context carries none.
func SetRoot(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootMu.Lock()
	rootLogger = logger
	rootMu.Unlock()
}

func root() *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return rootLogger
}

// From returns the logger of the current context, if no logger is available, returns the root logger
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return root()
	}
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		return root()
	}
	return l
}

// SubFrom returns a named child of the context logger and a context carrying it.
func SubFrom(ctx context.Context, name string) (*zap.Logger, context.Context) {
	logger := From(ctx).Named(name)
	return logger, Context(ctx, logger)
}

// Context returns a copy of ctx carrying logger.
func Context(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = root()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
