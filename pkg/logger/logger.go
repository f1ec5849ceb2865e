package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger keeps the printf-style API used across services on top of a zap core.
type Logger struct {
	base  *zap.Logger
	info  func(template string, args ...interface{})
	warn  func(template string, args ...interface{})
	error func(template string, args ...interface{})
}

func New() *Logger {
	return NewWithLevel("info")
}

// NewWithLevel builds a production JSON logger. Unknown levels fall back to info.
func NewWithLevel(level string) *Logger {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomic = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return FromZap(base)
}

func FromZap(base *zap.Logger) *Logger {
	sugar := base.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return &Logger{
		base:  base,
		info:  sugar.Infof,
		warn:  sugar.Warnf,
		error: sugar.Errorf,
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.info(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.warn(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.error(format, v...)
}

// Zap exposes the structured logger for middlewares.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

func (l *Logger) Sync() {
	_ = l.base.Sync()
}
