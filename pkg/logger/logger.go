// Package logger constructs the structured loggers every subsystem in this
// module takes as a dependency instead of reaching for the global zap
// logger or the standard library's log package.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production-configured *zap.SugaredLogger tagged with the
// given service name, for injection into engine.Open.
func New(service string) (*zap.SugaredLogger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return base.Named(service).Sugar(), nil
}

// NewDevelopment builds a human-readable, colorized logger suited to tests
// and local runs, where the production JSON encoder is unnecessary noise.
func NewDevelopment(service string) (*zap.SugaredLogger, error) {
	base, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return base.Named(service).Sugar(), nil
}

// NewNop returns a logger that discards everything, for tests that don't
// care about log output and don't want to pay for a real encoder.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
