package chr

import (
	"image"

	"golang.org/x/image/draw"
)

// DefaultColumns is the conventional tile sheet width in tiles.
const DefaultColumns = 16

// SheetOptions controls the layout of a rendered tile sheet.
type SheetOptions struct {
	Columns int     // tiles per row, defaults to DefaultColumns
	Scale   int     // integer pixel scale factor, defaults to 1
	Palette Palette // zero value selects DefaultPalette
}

// NewSheetOptions returns the default options, 16 columns unscaled in grayscale.
func NewSheetOptions() SheetOptions {
	return SheetOptions{
		Columns: DefaultColumns,
		Scale:   1,
		Palette: DefaultPalette,
	}
}

// Sheet composes all tiles of the decoder into a paletted image, tiles are placed
// left to right and top to bottom. Unused cells of the last row keep color index 0.
func Sheet(dec *Decoder, opts SheetOptions) *image.Paletted {
	columns := opts.Columns
	if columns <= 0 {
		columns = DefaultColumns
	}
	palette := opts.Palette
	if palette == (Palette{}) {
		palette = DefaultPalette
	}
	count := dec.Len()
	rows := (count + columns - 1) / columns
	if rows == 0 {
		rows = 1
	}

	rect := image.Rect(0, 0, columns*TileWidth, rows*TileWidth)
	img := image.NewPaletted(rect, palette.colorPalette())

	for i, tile := range dec.All() {
		originX := (i % columns) * TileWidth
		originY := (i / columns) * TileWidth
		for y := range TileWidth {
			row := img.Pix[img.PixOffset(originX, originY+y):]
			copy(row[:TileWidth], tile[y][:])
		}
	}

	if opts.Scale > 1 {
		return scale(img, opts.Scale)
	}
	return img
}

// scale enlarges the image by an integer factor using nearest neighbor sampling.
func scale(src *image.Paletted, factor int) *image.Paletted {
	bounds := src.Bounds()
	rect := image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor)
	dst := image.NewPaletted(rect, src.Palette)
	draw.NearestNeighbor.Scale(dst, rect, src, bounds, draw.Src, nil)
	return dst
}
