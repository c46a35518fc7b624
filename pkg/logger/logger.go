// Package logger provides a zap-based, context-aware application logger.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger writes.
type Level = zapcore.Level

// Levels accepted by New.
const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace id from ctx, or "" when there is none.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON records tagged with the service name and,
// when available, the trace id of the calling context.
type Logger struct {
	z       *zap.SugaredLogger
	traceID TraceIDFn
}

// New returns a Logger writing to w.
func New(w io.Writer, minLevel Level, service string, traceID TraceIDFn) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), minLevel)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", service))
	return &Logger{z: z.Sugar(), traceID: traceID}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

// Debug logs at debug level. args are alternating keys and values.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.z.Debugw(msg, l.withTrace(ctx, args)...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.z.Infow(msg, l.withTrace(ctx, args)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.z.Warnw(msg, l.withTrace(ctx, args)...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.z.Errorw(msg, l.withTrace(ctx, args)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) withTrace(ctx context.Context, args []any) []any {
	if l.traceID == nil || ctx == nil {
		return args
	}
	if id := l.traceID(ctx); id != "" {
		return append([]any{"trace_id", id}, args...)
	}
	return args
}
