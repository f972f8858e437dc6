// Package config holds option structs for loading a catalog and starting
// a worker. These are library-level options, not a file-based
// configuration format; the demo CLI (cmd/franticsearch) instead binds
// Cobra persistent flags the way vippsas-sqlcode/cli/cmd/root.go does.
package config

import "github.com/jimbojw/franticsearch/logging"

// LoadOptions configures catalogio.Load / LoadPrintings.
type LoadOptions struct {
	// SchemaVersion is the schema version this binary expects; a payload
	// declaring a different version is rejected as stale (spec §7).
	SchemaVersion string
	// Logger receives load-lifecycle messages. Defaults to a discard
	// logger when nil.
	Logger logging.Logger
}

func (o LoadOptions) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard()
}

// Log returns o's configured logger, or a discard logger if none was
// set.
func (o LoadOptions) Log() logging.Logger { return o.logger() }

// WorkerOptions configures a worker.Worker.
type WorkerOptions struct {
	// SessionSalt pins the ordering salt for deterministic tests (spec
	// §4.6/§9). A nil value means worker.New chooses a random one when
	// the worker is constructed.
	SessionSalt *uint32
	// Logger receives worker lifecycle messages.
	Logger logging.Logger
}

func (o WorkerOptions) Log() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard()
}
