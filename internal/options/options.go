// Package options contains the program options.
package options

import (
	"github.com/retroenv/nesutils/internal/chr"
)

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"ROM file to process"`
}

// Parameters contains file path and value options.
type Parameters struct {
	Input   string `flag:"i" usage:"input ROM file"`
	Output  string `flag:"o" usage:"output file, used as name stem if multiple files are written (default: derived from input)"`
	Palette string `flag:"palette" usage:"palette config file for CHR images"`
	Code    string `flag:"code" usage:"Game Genie code to decode, or ADDR:VV / ADDR?CC:VV to encode"`
	Seed    string `flag:"seed" usage:"PRNG seed, decimal or 0x prefixed hex"`
}

// Flags contains behavior options.
type Flags struct {
	Chr    bool `flag:"chr" usage:"extract CHR graphics into an image"`
	Disasm bool `flag:"disasm" usage:"disassemble PRG code"`
	Binary bool `flag:"binary" usage:"treat input as raw binary without header"`
	Debug  bool `flag:"debug" usage:"enable debug logging"`
	Quiet  bool `flag:"q" usage:"quiet mode"`
}

// ChrFlags contains CHR image options.
type ChrFlags struct {
	Format  string `flag:"format" usage:"image format: png, bmp" default:"png"`
	Scale   uint   `flag:"scale" usage:"integer image scale factor" default:"1"`
	Columns uint   `flag:"columns" usage:"tiles per image row" default:"16"`
	Banks   bool   `flag:"banks" usage:"write one image per 8 KiB CHR bank"`
}

// DisasmFlags contains disassembler and listing options.
type DisasmFlags struct {
	Offset           uint `flag:"offset" usage:"PRG offset to start disassembling at"`
	BaseAddress      uint `flag:"base" usage:"CPU address of the PRG start for listings (default: 0x8000)" default:"32768"`
	NoHexComments    bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets        bool `flag:"nooffsets" usage:"omit addresses in comments"`
	OutputUnofficial bool `flag:"output-unofficial" usage:"decode unofficial opcodes as instructions instead of .byte"`
}

// PrngFlags contains random number generator options.
type PrngFlags struct {
	Iteration uint `flag:"it" usage:"PRNG iteration to compute"`
	Sequence  bool `flag:"sequence" usage:"output all PRNG values up to the iteration"`
}

// Program options of the tool.
type Program struct {
	Positional
	Parameters
	Flags
	ChrFlags
	DisasmFlags
	PrngFlags
}

// Engines defines the validated settings of the engines to run.
type Engines struct {
	Chr       bool
	Disasm    bool
	GameGenie bool
	Prng      bool

	// CHR extraction
	ImageFormat chr.Format
	Scale       int
	Columns     int
	Banks       bool
	Palette     string

	// disassembler
	Start          int
	BaseAddress    uint16
	HexComments    bool
	OffsetComments bool
	Unofficial     bool

	// Game Genie
	Code string

	// PRNG
	Seed      uint16
	Iteration uint16
	Sequence  bool
}

// NewEngines returns engine settings with default options.
func NewEngines() Engines {
	return Engines{
		ImageFormat: chr.PNG,
		Scale:       1,
		Columns:     chr.DefaultColumns,

		BaseAddress:    0x8000,
		HexComments:    true,
		OffsetComments: true,
	}
}

// NeedsInput returns whether any of the enabled engines processes the input file.
func (e Engines) NeedsInput() bool {
	return e.Chr || e.Disasm
}

// Count returns the number of enabled engines.
func (e Engines) Count() int {
	var count int
	for _, enabled := range []bool{e.Chr, e.Disasm, e.GameGenie, e.Prng} {
		if enabled {
			count++
		}
	}
	return count
}
