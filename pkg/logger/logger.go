package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger with the field helpers used across the project.
type Logger struct {
	*zap.Logger
}

// New creates a logger with the given level ("debug", "info", ...) and
// encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if encoding != "" {
		cfg.Encoding = encoding
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{l}, nil
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...zap.Field) { l.Logger.Info(msg, fields...) }

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.Logger.Warn(msg, fields...) }

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...zap.Field) { l.Logger.Error(msg, fields...) }

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.Logger.Debug(msg, fields...) }

// Fatal logs a fatal-level message and exits.
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.Logger.Fatal(msg, fields...) }

// DebugContext logs a debug-level message; the context is accepted for
// call-site symmetry with blocking operations.
func (l *Logger) DebugContext(_ context.Context, msg string, fields ...zap.Field) {
	l.Logger.Debug(msg, fields...)
}

// Field creates a field of any type.
func Field(key string, value interface{}) zap.Field { return zap.Any(key, value) }

// StringField creates a string field.
func StringField(key, value string) zap.Field { return zap.String(key, value) }

// IntField creates an int field.
func IntField(key string, value int) zap.Field { return zap.Int(key, value) }

// Float64Field creates a float64 field.
func Float64Field(key string, value float64) zap.Field { return zap.Float64(key, value) }

// DurationField creates a duration field.
func DurationField(key string, value time.Duration) zap.Field { return zap.Duration(key, value) }

// ErrorField creates an error field.
func ErrorField(err error) zap.Field { return zap.Error(err) }
