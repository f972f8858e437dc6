// Package logging wraps logrus.FieldLogger so package constructors can
// accept an optional logger (defaulting to a no-op discard logger) the way
// vippsas-sqlcode threads a logrus.FieldLogger through its database layer
// (cli/cmd/config.go: DatabaseConfig.Open(ctx, logger)).
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus.FieldLogger this module depends on.
type Logger = logrus.FieldLogger

// Discard returns a Logger that drops everything, used as the default when
// no caller-supplied logger is configured.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Default returns a logrus.StandardLogger()-backed Logger, matching the
// teacher's own default logging entrypoint.
func Default() Logger {
	return logrus.StandardLogger()
}
