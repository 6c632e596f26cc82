// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/retroenv/nesutils/internal/chr"
	"github.com/retroenv/nesutils/internal/options"
	retrocli "github.com/retroenv/retrogolib/cli"
)

const (
	maxScale   = 32
	maxColumns = 256
)

// ParseFlags parses command line flags and returns program and engine options
func ParseFlags() (options.Program, options.Engines, error) {
	return parseArgs(os.Args[1:])
}

func parseArgs(args []string) (options.Program, options.Engines, error) {
	var opts options.Program
	flags := newFlagSet(&opts)

	remaining, err := flags.Parse(args)
	if err != nil {
		// the flag set has shown the usage already
		if errors.Is(err, retrocli.ErrHelpRequested) {
			return opts, options.Engines{}, &UsageError{}
		}
		return opts, options.Engines{}, &UsageError{msg: err.Error()}
	}

	if err := validateArgs(remaining); err != nil {
		err.flags = flags
		return opts, options.Engines{}, err
	}

	if opts.Input == "" {
		opts.Input = opts.File
	}

	engines, err := createEngineOptions(opts)
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			usageErr.flags = flags
		}
		return opts, options.Engines{}, err
	}

	return opts, engines, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *retrocli.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information.
func (e *UsageError) ShowUsage() {
	if e.flags == nil {
		return
	}
	e.flags.ShowUsage()
}

func newFlagSet(opts *options.Program) *retrocli.FlagSet {
	flags := retrocli.NewFlagSet("nesutils")
	flags.AddSection("Operations", &opts.Flags)
	flags.AddSection("Parameters", &opts.Parameters)
	flags.AddSection("CHR images", &opts.ChrFlags)
	flags.AddSection("Disassembler", &opts.DisasmFlags)
	flags.AddSection("Random number generator", &opts.PrngFlags)
	flags.AddPositional(&opts.Positional)
	return flags
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) *UsageError {
	for _, arg := range args {
		if arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to process, please pass the file to process as last argument", arg),
			}
		}
		return &UsageError{msg: fmt.Sprintf("Unexpected argument %s, only one file can be processed", arg)}
	}
	return nil
}

// createEngineOptions validates the option values and converts them to engine settings.
// nolint: cyclop
func createEngineOptions(opts options.Program) (options.Engines, error) {
	engines := options.NewEngines()
	engines.Chr = opts.Chr
	engines.Disasm = opts.Disasm
	engines.GameGenie = opts.Code != ""
	engines.Prng = opts.Seed != ""

	if engines.Count() == 0 {
		return engines, &UsageError{msg: "No operation selected, use -chr, -disasm, -code or -seed"}
	}
	if engines.NeedsInput() && opts.Input == "" {
		return engines, &UsageError{msg: "Input file missing for -chr or -disasm"}
	}
	if !engines.Prng && (opts.Iteration != 0 || opts.Sequence) {
		return engines, &UsageError{msg: "Options -it and -sequence require -seed"}
	}

	format, err := chr.ParseFormat(opts.Format)
	if err != nil {
		return engines, err
	}
	engines.ImageFormat = format

	if opts.Scale < 1 || opts.Scale > maxScale {
		return engines, fmt.Errorf("scale %d out of range 1-%d", opts.Scale, maxScale)
	}
	engines.Scale = int(opts.Scale)
	if opts.Columns < 1 || opts.Columns > maxColumns {
		return engines, fmt.Errorf("columns %d out of range 1-%d", opts.Columns, maxColumns)
	}
	engines.Columns = int(opts.Columns)
	engines.Banks = opts.Banks
	engines.Palette = opts.Palette

	if opts.BaseAddress > math.MaxUint16 {
		return engines, fmt.Errorf("base address 0x%X exceeds 0xFFFF", opts.BaseAddress)
	}
	if opts.Offset > math.MaxInt32 {
		return engines, fmt.Errorf("offset 0x%X too large", opts.Offset)
	}
	engines.Start = int(opts.Offset)
	engines.BaseAddress = uint16(opts.BaseAddress)
	// Apply inverse logic for hex comments and offsets
	engines.HexComments = !opts.NoHexComments
	engines.OffsetComments = !opts.NoOffsets
	engines.Unofficial = opts.OutputUnofficial

	engines.Code = opts.Code

	if engines.Prng {
		seed, err := strconv.ParseUint(opts.Seed, 0, 16)
		if err != nil {
			return engines, fmt.Errorf("invalid seed '%s', expected a 16 bit value: %w", opts.Seed, err)
		}
		engines.Seed = uint16(seed)
	}
	if opts.Iteration > math.MaxUint16 {
		return engines, fmt.Errorf("iteration %d exceeds %d", opts.Iteration, math.MaxUint16)
	}
	engines.Iteration = uint16(opts.Iteration)
	engines.Sequence = opts.Sequence

	return engines, nil
}
