// Package engine contains the engines that the tool runs for the requested operations.
// Every engine computes an artifact from its input and persists it to a file or the console.
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// Engine is the interface implemented by all engines.
type Engine interface {
	// Name returns the short name of the engine.
	Name() string
	// Execute computes the artifact. It has no side effects and can be called
	// multiple times, every call recomputes the artifact.
	Execute() (Artifact, error)
	// Persist writes the artifact of the last Execute call to the given path.
	// An empty path selects the default path of the artifact.
	Persist(path string) error
}

// Artifact is the result of an engine run.
type Artifact interface {
	io.WriterTo

	// DefaultPath returns the default output path for the given input file stem,
	// an empty path means that the artifact gets written to the console.
	DefaultPath(stem string) string
}

// ConsolePath is the output path that selects the console.
const ConsolePath = "-"

// ErrNotExecuted is returned by Persist if Execute was not called successfully before.
var ErrNotExecuted = errors.New("engine has not been executed")

// IOError describes a failed file system operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Output configures where engines write their artifacts.
type Output struct {
	Stem    string    // input file name without extension, used for default paths
	Console io.Writer // writer used for console output, defaults to stdout
	Logger  *log.Logger
}

// base implements the state and Persist logic shared by all engines.
type base struct {
	name     string
	output   Output
	artifact Artifact
}

func newBase(name string, output Output) base {
	if output.Console == nil {
		output.Console = os.Stdout
	}
	if output.Logger == nil {
		output.Logger = log.NewNop()
	}
	return base{
		name:   name,
		output: output,
	}
}

// Name returns the short name of the engine.
func (b *base) Name() string {
	return b.name
}

// Persist writes the artifact of the last Execute call.
func (b *base) Persist(path string) error {
	if b.artifact == nil {
		return fmt.Errorf("persisting %s: %w", b.name, ErrNotExecuted)
	}

	if path == "" {
		path = b.artifact.DefaultPath(b.output.Stem)
	}
	if path == "" || path == ConsolePath {
		if _, err := b.artifact.WriteTo(b.output.Console); err != nil {
			return &IOError{Op: "write", Path: "console", Err: err}
		}
		return nil
	}

	if err := writeFile(path, b.artifact); err != nil {
		return err
	}
	b.output.Logger.Info("Output written", log.String("engine", b.name), log.String("file", path))
	return nil
}

func writeFile(path string, artifact io.WriterTo) error {
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if _, err := artifact.WriteTo(file); err != nil {
		_ = file.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
