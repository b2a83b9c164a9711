package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CanonicalLogger struct {
	l *zap.Logger
}

// NewLoggerFromEnv builds a logger tagged with component.
//
// LOG_FORMAT=console|development selects the human-readable encoder, anything
// else structured JSON. LOG_LEVEL sets the minimum level (default info;
// debug shows every polling cycle).
func NewLoggerFromEnv(component string) (*CanonicalLogger, error) {
	var cfg zap.Config
	switch os.Getenv("LOG_FORMAT") {
	case "console", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	l, err := cfg.Build(
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", component)),
	)
	if err != nil {
		return nil, err
	}
	return &CanonicalLogger{l: l}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *CanonicalLogger {
	return &CanonicalLogger{l: zap.NewNop()}
}

// New wraps an existing zap logger.
func New(l *zap.Logger) *CanonicalLogger {
	return &CanonicalLogger{l: l}
}

func (c *CanonicalLogger) Sync() {
	_ = c.l.Sync()
}

func (c *CanonicalLogger) Info(msg string, fields ...zap.Field) {
	c.l.Info(msg, fields...)
}

func (c *CanonicalLogger) Debug(msg string, fields ...zap.Field) {
	c.l.Debug(msg, fields...)
}

func (c *CanonicalLogger) Warn(msg string, fields ...zap.Field) {
	c.l.Warn(msg, fields...)
}

func (c *CanonicalLogger) Error(msg string, fields ...zap.Field) {
	c.l.Error(msg, fields...)
}

func (c *CanonicalLogger) Fatal(msg string, fields ...zap.Field) {
	c.l.Fatal(msg, fields...)
}

func (c *CanonicalLogger) WithError(err error) *CanonicalLogger {
	return &CanonicalLogger{l: c.l.With(zap.Error(err))}
}

func (c *CanonicalLogger) WithResource(name string) *CanonicalLogger {
	return &CanonicalLogger{l: c.l.With(zap.String(FieldResource, name))}
}

func (c *CanonicalLogger) WithSessionID(id string) *CanonicalLogger {
	return &CanonicalLogger{l: c.l.With(zap.String(FieldSessionID, id))}
}

func (c *CanonicalLogger) WithNodeID(id int64) *CanonicalLogger {
	return &CanonicalLogger{l: c.l.With(zap.Int64(FieldNodeID, id))}
}

func (c *CanonicalLogger) Component(name string) *CanonicalLogger {
	return &CanonicalLogger{l: c.l.With(zap.String("component", name))}
}

// HTTPError logs an error that escaped a handler; client errors at warn.
func (c *CanonicalLogger) HTTPError(method, path string, status int, err error) {
	fields := []zap.Field{zap.String("method", method), zap.String("path", path), zap.Int(FieldStatus, status), zap.Error(err)}
	if status < 500 {
		c.l.Warn("http_error", fields...)
		return
	}
	c.l.Error("http_error", fields...)
}
