// Package rwlog wires structured logging for the rw2dec command line tool.
//
// Core codec packages (core, bayer, rawio, jxlwrite) stay silent and return
// errors for the caller to handle; this package is the CLI's ambient
// observability layer, built on zerolog the way a server or CLI built on
// top of a pure library typically logs progress and diagnostics.
package rwlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-formatted zerolog.Logger writing to w at the given
// level. Verbose enables debug-level output (file metadata and decode
// timing); the default level is info (per-file summaries and warnings only).
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// Default is a package-level logger writing to stderr at info level, for
// glue code that doesn't carry a logger through its call chain.
var Default = New(os.Stderr, false)
