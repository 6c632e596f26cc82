// Package loader handles ROM file loading operations.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/nesutils/internal/engine"
	"github.com/retroenv/nesutils/internal/rom"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads and parses the given ROM file.
// In binary mode the file is treated as a headerless PRG dump.
func (l *Loader) Load(input string, binary bool) (*rom.Image, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, &engine.IOError{Op: "read", Path: input, Err: err}
	}

	img, err := l.LoadFromBytes(data, binary)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", input, err)
	}
	return img, nil
}

// LoadFromBytes parses a ROM image from memory.
func (l *Loader) LoadFromBytes(data []byte, binary bool) (*rom.Image, error) {
	if !binary {
		img, err := rom.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing header: %w", err)
		}
		return img, nil
	}

	cart, err := cartridge.LoadBuffer(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading binary: %w", err)
	}
	img, err := rom.FromCartridge(cart)
	if err != nil {
		return nil, fmt.Errorf("converting binary: %w", err)
	}
	return img, nil
}
