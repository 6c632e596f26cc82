package chr

import (
	"fmt"
	"image/color"

	"github.com/retroenv/retrogolib/config"
)

// Palette maps the 4 tile color indexes to colors.
type Palette [4]color.RGBA

// DefaultPalette is a grayscale palette from black to white.
var DefaultPalette = Palette{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x55, G: 0x55, B: 0x55, A: 0xff},
	{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// paletteConfig is the palette file layout, colors are given as 0xRRGGBB.
type paletteConfig struct {
	Color0 int `config:"palette.color0,default=0x000000"`
	Color1 int `config:"palette.color1,default=0x555555"`
	Color2 int `config:"palette.color2,default=0xAAAAAA"`
	Color3 int `config:"palette.color3,default=0xFFFFFF"`
}

// LoadPalette loads a palette from a configuration file:
//
//	[palette]
//	color0 = 0x000000
//	color1 = 0x6888FC
//	color2 = 0xF83800
//	color3 = 0xFCA044
//
// Missing colors fall back to the grayscale default.
func LoadPalette(filename string) (Palette, error) {
	var cfg paletteConfig
	if err := config.Load(filename, &cfg); err != nil {
		return Palette{}, fmt.Errorf("loading palette file '%s': %w", filename, err)
	}
	return paletteFromConfig(cfg)
}

// ParsePalette parses a palette from configuration data.
func ParsePalette(data []byte) (Palette, error) {
	var cfg paletteConfig
	if err := config.LoadBytes(data, &cfg); err != nil {
		return Palette{}, fmt.Errorf("parsing palette: %w", err)
	}
	return paletteFromConfig(cfg)
}

func paletteFromConfig(cfg paletteConfig) (Palette, error) {
	var p Palette
	for i, value := range []int{cfg.Color0, cfg.Color1, cfg.Color2, cfg.Color3} {
		if value < 0 || value > 0xffffff {
			return Palette{}, fmt.Errorf("palette color %d value 0x%X out of range", i, value)
		}
		p[i] = color.RGBA{
			R: uint8(value >> 16),
			G: uint8(value >> 8),
			B: uint8(value),
			A: 0xff,
		}
	}
	return p, nil
}

func (p Palette) colorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}
