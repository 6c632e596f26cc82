package engine

import (
	"fmt"

	"github.com/retroenv/nesutils/internal/gamegenie"
	"github.com/retroenv/retrogolib/log"
)

// GameGenieOptions configures the Game Genie engine.
type GameGenieOptions struct {
	Output

	// Code is either a letter code to decode or a code in the ADDR:VV or
	// ADDR?CC:VV notation to encode.
	Code string
}

// GameGenie decodes or encodes a Game Genie code.
type GameGenie struct {
	base
	opts GameGenieOptions
}

// NewGameGenie returns a new Game Genie engine.
func NewGameGenie(opts GameGenieOptions) *GameGenie {
	return &GameGenie{
		base: newBase("gamegenie", opts.Output),
		opts: opts,
	}
}

// Execute converts the code, the result line contains the canonical letter code
// followed by the hex notation.
func (e *GameGenie) Execute() (Artifact, error) {
	var code gamegenie.Code
	var err error

	if gamegenie.IsHexNotation(e.opts.Code) {
		code, err = gamegenie.ParseHex(e.opts.Code)
	} else {
		code, err = gamegenie.Decode(e.opts.Code)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing game genie code: %w", err)
	}

	letters, err := gamegenie.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("encoding game genie code: %w", err)
	}

	if !gamegenie.IsHexNotation(e.opts.Code) && letters != e.opts.Code {
		e.output.Logger.Debug("Code is not in canonical spelling",
			log.String("code", e.opts.Code), log.String("canonical", letters))
	}

	e.artifact = &textArtifact{
		lines: []string{fmt.Sprintf("%s = %s", letters, code)},
	}
	return e.artifact, nil
}
