package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInterface is the logger every component receives.
type LoggerInterface interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface records audit events on a dedicated channel.
type SecurityLoggerInterface interface {
	AuthnFailure(reason string)
	AuthzFailure(subject, resource string)
	TenantBlocked(subject, tenantID string)
	SystemStartup()
	SystemShutdown()
}

var _ LoggerInterface = (*Logger)(nil)

// Logger wraps a sugared zap logger with a security audit logger.
type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger builds a JSON logger at the given level. Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "@timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return New(base)
}

// New wraps an existing zap logger.
func New(base *zap.Logger) *Logger {
	return &Logger{
		SugaredLogger: base.Sugar(),
		security:      &SecurityLogger{l: base.Named("security").With(zap.String("type", "security"))},
	}
}
