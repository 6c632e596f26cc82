package engine

import (
	"fmt"

	"github.com/retroenv/nesutils/internal/prng"
)

// PrngOptions configures the PRNG engine.
type PrngOptions struct {
	Output

	Seed      uint16
	Iteration uint16
	Sequence  bool // output all values up to the iteration instead of only the last
}

// Prng emulates the NES random number generator.
type Prng struct {
	base
	opts PrngOptions
}

// NewPrng returns a new PRNG engine.
func NewPrng(opts PrngOptions) *Prng {
	return &Prng{
		base: newBase("prng", opts.Output),
		opts: opts,
	}
}

// Execute computes the register value after the configured number of iterations.
func (e *Prng) Execute() (Artifact, error) {
	gen := prng.New(e.opts.Seed, e.opts.Iteration)

	artifact := &textArtifact{}
	if e.opts.Sequence {
		artifact.lines = append(artifact.lines, fmt.Sprintf("%5d  $%04X", 0, gen.Seed()))
		for i, value := range gen.Sequence(e.opts.Iteration) {
			artifact.lines = append(artifact.lines, fmt.Sprintf("%5d  $%04X", i, value))
		}
	} else {
		artifact.lines = append(artifact.lines, fmt.Sprintf("$%04X", gen.Value()))
	}

	e.artifact = artifact
	return e.artifact, nil
}
