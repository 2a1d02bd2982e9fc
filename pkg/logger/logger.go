// Package logger builds the structured logger every kvignite component
// is handed at construction time. All packages accept a
// *zap.SugaredLogger rather than constructing their own, so a single
// instance's output is tagged consistently across the engine, server,
// and CLI surfaces.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger scoped to service, returning the
// sugared form every kvignite package is written against.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}

	return base.Named(service).Sugar()
}

// NewDevelopment builds a human-readable console logger, for callers
// that want readable output instead of production JSON.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Named(service).Sugar()
}
