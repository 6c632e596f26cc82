package chr

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is an image file format.
type Format string

// Supported image formats.
const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ParseFormat returns the format for the given name, an empty name selects PNG.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", PNG:
		return PNG, nil
	case BMP:
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported image format '%s', supported: png, bmp", name)
	}
}

// Extension returns the file name extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes the image in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding png: %w", err)
		}
	case BMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding bmp: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image format '%s'", format)
	}
	return nil
}
