package engine

import (
	"fmt"
	"io"

	"github.com/retroenv/nesutils/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// DisasmOptions configures the disassembler engine.
type DisasmOptions struct {
	Output

	Data    []byte // PRG region
	Decoder disasm.Options
	Listing disasm.ListingOptions
}

// Disassemble creates a straight-line 6502 listing of PRG data.
type Disassemble struct {
	base
	opts DisasmOptions
}

// NewDisassemble returns a new disassembler engine.
func NewDisassemble(opts DisasmOptions) *Disassemble {
	return &Disassemble{
		base: newBase("disasm", opts.Output),
		opts: opts,
	}
}

// Execute decodes all instructions. Data ending inside an instruction does not
// fail the run, the listing ends with the truncated bytes and a warning is logged.
func (e *Disassemble) Execute() (Artifact, error) {
	if e.opts.Decoder.Start >= len(e.opts.Data) && len(e.opts.Data) > 0 {
		return nil, fmt.Errorf("start offset %d outside of PRG data with length %d",
			e.opts.Decoder.Start, len(e.opts.Data))
	}

	dec := disasm.New(e.opts.Data, e.opts.Decoder)
	listing, err := disasm.NewListing(dec, e.opts.Listing)
	if err != nil {
		return nil, fmt.Errorf("disassembling: %w", err)
	}

	if listing.Truncated != nil {
		e.output.Logger.Warn("Data ends inside an instruction",
			log.Hex("offset", listing.Truncated.Offset),
			log.String("instruction", listing.Truncated.Mnemonic),
			log.Int("missing", listing.Truncated.Needed-listing.Truncated.Available))
	}
	e.output.Logger.Debug("Disassembled PRG", log.Int("instructions", len(listing.Instructions)))

	e.artifact = &listingArtifact{listing: listing}
	return e.artifact, nil
}

type listingArtifact struct {
	listing *disasm.Listing
}

func (a *listingArtifact) WriteTo(w io.Writer) (int64, error) {
	return a.listing.WriteTo(w)
}

func (a *listingArtifact) DefaultPath(stem string) string {
	return stem + ".asm"
}
