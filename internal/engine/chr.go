package engine

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/retroenv/nesutils/internal/chr"
	"github.com/retroenv/retrogolib/log"
)

// ChrOptions configures the CHR extraction engine.
type ChrOptions struct {
	Output

	Data   []byte // CHR region
	Sheet  chr.SheetOptions
	Format chr.Format
}

// ChrExtract renders CHR tile data as an image.
type ChrExtract struct {
	base
	opts ChrOptions
}

// NewChrExtract returns a new CHR extraction engine.
func NewChrExtract(opts ChrOptions) *ChrExtract {
	if opts.Format == "" {
		opts.Format = chr.PNG
	}
	return &ChrExtract{
		base: newBase("chr", opts.Output),
		opts: opts,
	}
}

// Execute decodes all tiles and composes them into a tile sheet.
func (e *ChrExtract) Execute() (Artifact, error) {
	dec, err := chr.New(e.opts.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding CHR data: %w", err)
	}

	img := chr.Sheet(dec, e.opts.Sheet)
	e.output.Logger.Debug("Rendered tile sheet",
		log.Int("tiles", dec.Len()),
		log.Int("width", img.Bounds().Dx()),
		log.Int("height", img.Bounds().Dy()))

	e.artifact = &imageArtifact{
		image:  img,
		format: e.opts.Format,
	}
	return e.artifact, nil
}

type imageArtifact struct {
	image  image.Image
	format chr.Format
}

func (a *imageArtifact) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := chr.Encode(&buf, a.image, a.format); err != nil {
		return 0, err
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("writing image: %w", err)
	}
	return n, nil
}

func (a *imageArtifact) DefaultPath(stem string) string {
	return stem + ".chr" + a.format.Extension()
}
