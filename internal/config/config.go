// Package config handles application configuration and setup
package config

import (
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// CreateLogger creates a logger with appropriate settings.
// Log output moves to stderr when stdout is redirected, so console
// results like listings or PRNG values can be piped.
func CreateLogger(debug, quiet bool) *log.Logger {
	return newLogger(debug, quiet, logOutput(os.Stdout, os.Stderr))
}

func newLogger(debug, quiet bool, output io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	cfg.Output = output
	return log.NewWithConfig(cfg)
}

func logOutput(stdout, stderr *os.File) io.Writer {
	if term.IsTerminal(int(stdout.Fd())) {
		return stdout
	}
	return stderr
}
