package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
)

var _ primary.Logger = (*ZapLogger)(nil)

// ZapLogger implements the Logger interface with zap
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger creates a new zap logger
func NewZapLogger() *ZapLogger {
	return NewZapLoggerWithLevel(false)
}

// NewZapLoggerWithLevel creates a zap logger, enabling debug output when debug is set
func NewZapLoggerWithLevel(debug bool) *ZapLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}

	return &ZapLogger{
		logger: logger.Sugar(),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key/value pairs
func (l *ZapLogger) With(args ...interface{}) *ZapLogger {
	return &ZapLogger{logger: l.logger.With(args...)}
}

// Info logs an info message
func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.logger.Infow(msg, args...)
}

// Error logs an error message
func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.logger.Errorw(msg, args...)
}

// Debug logs a debug message
func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debugw(msg, args...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warnw(msg, args...)
}

// Sync flushes buffered log entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
