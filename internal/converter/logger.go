// =============================================================================
// W2CAD to RFA300 Converter - Pipeline Logging
// =============================================================================
//
// The pipeline logs through a small printf-style interface so the batch
// driver can choose the implementation: a plain console logger for normal
// runs, or a zap-backed logger when structured/leveled output is wanted.
//
// =============================================================================

package converter

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface the conversion pipeline logs through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSOLE LOGGER
// =============================================================================

// consoleLogger is a simple logger that prints to stdout. Debug output is
// suppressed; use the zap logger for verbose runs.
type consoleLogger struct{}

// NewConsoleLogger returns the plain stdout logger.
func NewConsoleLogger() Logger {
	return &consoleLogger{}
}

func (l *consoleLogger) Debug(msg string, args ...interface{}) {}

func (l *consoleLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *consoleLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *consoleLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}

// =============================================================================
// ZAP LOGGER
// =============================================================================

// zapLogger adapts a zap SugaredLogger to the pipeline Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a zap-backed pipeline logger at the given level
// ("debug", "info", "warn", "error"). An unknown level falls back to info.
func NewZapLogger(level string) (Logger, error) {
	zapLevel := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		zapLevel = parsed
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &zapLogger{sugar: logger.Sugar()}, nil
}

func (l *zapLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

func (l *zapLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

func (l *zapLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

func (l *zapLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}
