// Package log builds zap loggers and exposes them as *slog.Logger, which is
// what the rest of the module accepts.
package log

import (
	"io"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Format selects the zap encoder.
type Format string

const (
	ConsoleFormat Format = "console"
	JSONFormat    Format = "json"
)

// NewZapLogger returns a zap logger writing to w in the given format.
func NewZapLogger(w io.Writer, format Format, level zapcore.Level, opts ...zap.Option) *zap.Logger {
	switch format {
	case JSONFormat:
		return NewZapJSONLogger(w, level, opts...)
	default:
		return NewZapConsoleLogger(w, level, opts...)
	}
}

// NewZapConsoleLogger creates a human readable zap logger.
func NewZapConsoleLogger(w io.Writer, level zapcore.Level, opts ...zap.Option) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, opts...)
}

// NewZapJSONLogger creates a zap logger emitting one JSON object per entry.
func NewZapJSONLogger(w io.Writer, level zapcore.Level, opts ...zap.Option) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, opts...)
}

// ZapLoggerToSlog wraps a zap logger into a slog logger.
func ZapLoggerToSlog(logger *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(logger.Core(), &zapslog.HandlerOptions{
		LoggerName: logger.Name(),
	}))
}

// NewTestingLogger returns a logger that writes through t.Log.
func NewTestingLogger(t zaptest.TestingT) *slog.Logger {
	return ZapLoggerToSlog(zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)))
}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() *slog.Logger {
	return ZapLoggerToSlog(zap.NewNop())
}
