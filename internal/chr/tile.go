// Package chr decodes NES CHR graphics data into tiles and renders them as images.
package chr

import (
	"errors"
	"fmt"
	"iter"
)

const (
	// TileSize is the number of bytes of a single encoded tile.
	TileSize = 16
	// TileWidth is the width and height of a tile in pixels.
	TileWidth = 8

	planeOffset = 8
)

// ErrTruncatedData is returned for CHR data that does not consist of whole tiles.
var ErrTruncatedData = errors.New("truncated CHR data")

// TruncatedError contains the details of truncated CHR data.
type TruncatedError struct {
	Length int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: length %d is not a multiple of %d, %d trailing bytes",
		ErrTruncatedData, e.Length, TileSize, e.Length%TileSize)
}

// Is matches ErrTruncatedData.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncatedData
}

// Tile is an 8x8 grid of 2 bit color indexes, addressed as [y][x].
type Tile [TileWidth][TileWidth]uint8

// DecodeTile decodes a 16 byte tile block. The first 8 bytes contain the low
// bitplane, the following 8 bytes the high bitplane, most significant bit first.
func DecodeTile(block []byte) Tile {
	_ = block[TileSize-1]

	var tile Tile
	for y := range TileWidth {
		lo := block[y]
		hi := block[y+planeOffset]
		for x := range TileWidth {
			bit := 7 - x
			tile[y][x] = (lo>>bit)&1 | ((hi>>bit)&1)<<1
		}
	}
	return tile
}

// Decoder decodes tiles from a CHR region.
type Decoder struct {
	data []byte
}

// New returns a decoder for the given CHR data.
func New(data []byte) (*Decoder, error) {
	if len(data)%TileSize != 0 {
		return nil, &TruncatedError{Length: len(data)}
	}
	return &Decoder{data: data}, nil
}

// Len returns the number of tiles.
func (d *Decoder) Len() int {
	return len(d.data) / TileSize
}

// Tile decodes the tile with the given index.
func (d *Decoder) Tile(index int) Tile {
	start := index * TileSize
	return DecodeTile(d.data[start : start+TileSize])
}

// All returns a sequence of all tiles in source order. Tiles are decoded
// while iterating and the sequence can be iterated again.
func (d *Decoder) All() iter.Seq2[int, Tile] {
	return func(yield func(int, Tile) bool) {
		for i := range d.Len() {
			if !yield(i, d.Tile(i)) {
				return
			}
		}
	}
}
