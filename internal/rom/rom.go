// Package rom parses iNES and NES 2.0 file headers and locates the data regions of a ROM image.
package rom

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

const (
	// HeaderSize is the size of the iNES file header in bytes.
	HeaderSize = 16
	// TrainerSize is the size of the optional trainer that follows the header.
	TrainerSize = 512
	// PRGBankSize is the size of a single PRG-ROM bank.
	PRGBankSize = 0x4000
	// CHRBankSize is the size of a single CHR-ROM bank.
	CHRBankSize = 0x2000

	// Magic is the file signature of iNES images.
	Magic = "NES\x1a"
)

const (
	flagMirroring  = 1 << 0
	flagBattery    = 1 << 1
	flagTrainer    = 1 << 2
	flagFourScreen = 1 << 3

	nes20Mask  = 0x0c
	nes20Value = 0x08
)

// ErrInvalidHeader is returned when the buffer does not contain a valid iNES header
// or the regions declared by the header extend past the buffer end.
var ErrInvalidHeader = errors.New("invalid iNES header")

// Format is the header format of a ROM image.
type Format int

const (
	// INES is the original iNES header format.
	INES Format = iota
	// NES20 is the extended NES 2.0 header format.
	NES20
)

func (f Format) String() string {
	if f == NES20 {
		return "NES 2.0"
	}
	return "iNES"
}

// HeaderError describes why a header was rejected.
type HeaderError struct {
	Reason string
	Need   int // number of bytes the header requires
	Have   int // number of bytes available
}

func (e *HeaderError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("%s: %s (need %d bytes, have %d)", ErrInvalidHeader, e.Reason, e.Need, e.Have)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidHeader, e.Reason)
}

// Is matches ErrInvalidHeader.
func (e *HeaderError) Is(target error) bool {
	return target == ErrInvalidHeader
}

// Image is a parsed ROM image. All region accessors return sub slices of the
// original buffer, the image must not be modified after parsing.
type Image struct {
	data []byte

	Format     Format
	PRGBanks   int
	CHRBanks   int
	HasTrainer bool
	Mapper     uint8
	MapperHigh uint8 // NES 2.0 mapper bits 8-11
	Submapper  uint8 // NES 2.0 submapper
	Mirror     cartridge.MirrorMode
	Battery    bool

	TrainerOffset int
	PRGOffset     int
	CHROffset     int
}

// Parse parses the header of the given buffer and locates its regions.
func Parse(data []byte) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, &HeaderError{Reason: "buffer too small", Need: HeaderSize, Have: len(data)}
	}
	if string(data[:4]) != Magic {
		return nil, &HeaderError{Reason: "invalid magic"}
	}

	flags6 := data[6]
	flags7 := data[7]

	img := &Image{
		data:       data,
		PRGBanks:   int(data[4]),
		CHRBanks:   int(data[5]),
		HasTrainer: flags6&flagTrainer != 0,
		Mapper:     flags7&0xf0 | flags6>>4,
		Battery:    flags6&flagBattery != 0,
	}

	switch {
	case flags6&flagFourScreen != 0:
		img.Mirror = cartridge.Mirror4
	case flags6&flagMirroring != 0:
		img.Mirror = cartridge.MirrorVertical
	default:
		img.Mirror = cartridge.MirrorHorizontal
	}

	if flags7&nes20Mask == nes20Value {
		img.Format = NES20
		img.MapperHigh = data[8] & 0x0f
		img.Submapper = data[8] >> 4
		img.PRGBanks |= int(data[9]&0x0f) << 8
		img.CHRBanks |= int(data[9]>>4) << 8
	}

	offset := HeaderSize
	if img.HasTrainer {
		img.TrainerOffset = offset
		offset += TrainerSize
	}
	img.PRGOffset = offset
	offset += img.PRGBanks * PRGBankSize
	img.CHROffset = offset
	offset += img.CHRBanks * CHRBankSize

	if offset > len(data) {
		return nil, &HeaderError{Reason: "declared regions exceed buffer", Need: offset, Have: len(data)}
	}
	return img, nil
}

// FromCartridge converts a cartridge into an image by serializing it in iNES format.
// It is used for raw binary input that has no header of its own.
func FromCartridge(cart *cartridge.Cartridge) (*Image, error) {
	var buf bytes.Buffer
	if err := cart.Save(&buf); err != nil {
		return nil, fmt.Errorf("saving cartridge: %w", err)
	}
	return Parse(buf.Bytes())
}

// PRG returns the PRG-ROM region.
func (img *Image) PRG() []byte {
	return img.data[img.PRGOffset:img.CHROffset]
}

// CHR returns the CHR-ROM region, it is empty for cartridges using CHR-RAM.
func (img *Image) CHR() []byte {
	return img.data[img.CHROffset : img.CHROffset+img.CHRBanks*CHRBankSize]
}

// Trainer returns the trainer or nil if none is present.
func (img *Image) Trainer() []byte {
	if !img.HasTrainer {
		return nil
	}
	return img.data[img.TrainerOffset : img.TrainerOffset+TrainerSize]
}

// CHRBank returns the CHR-ROM bank with the given index.
func (img *Image) CHRBank(index int) ([]byte, error) {
	if index < 0 || index >= img.CHRBanks {
		return nil, fmt.Errorf("chr bank %d out of range, image has %d banks", index, img.CHRBanks)
	}
	start := img.CHROffset + index*CHRBankSize
	return img.data[start : start+CHRBankSize], nil
}

// MapperNumber returns the full mapper number including the NES 2.0 extension bits.
func (img *Image) MapperNumber() uint16 {
	return uint16(img.MapperHigh)<<8 | uint16(img.Mapper)
}
