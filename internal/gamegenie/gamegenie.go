// Package gamegenie encodes and decodes NES Game Genie codes.
//
// A code consists of 6 or 8 letters from a 16 letter alphabet, each letter
// carrying 4 bits. The bits of the letters are interleaved into the patched
// CPU address, the replacement value and for 8 letter codes a compare value
// that has to match the original ROM value for the patch to apply.
package gamegenie

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ShortLength is the length of a code without compare value.
	ShortLength = 6
	// LongLength is the length of a code with compare value.
	LongLength = 8

	alphabet = "APZLGITYEOXUKSVN"

	addressBase = 0x8000
	lengthFlag  = 0x8 // bit 3 of the third letter marks 8 letter codes
)

var (
	// ErrInvalidLength is returned for codes that do not have 6 or 8 letters.
	ErrInvalidLength = errors.New("invalid code length")
	// ErrInvalidCharacter is returned for letters outside of the code alphabet.
	ErrInvalidCharacter = errors.New("invalid code character")
	// ErrInvalidAddress is returned when encoding an address outside of the cartridge space.
	ErrInvalidAddress = errors.New("address outside of $8000-$FFFF")
)

// CharacterError contains the position of an invalid letter in a code.
type CharacterError struct {
	Code     string
	Position int
	Char     rune
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("%s '%c' at position %d of code '%s'", ErrInvalidCharacter, e.Char, e.Position, e.Code)
}

// Is matches ErrInvalidCharacter.
func (e *CharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// Code is a decoded Game Genie code.
type Code struct {
	Address    uint16
	Value      uint8
	Compare    uint8
	HasCompare bool
}

// String returns the code in the hex notation ADDR:VV or ADDR?CC:VV.
func (c Code) String() string {
	if c.HasCompare {
		return fmt.Sprintf("%04X?%02X:%02X", c.Address, c.Compare, c.Value)
	}
	return fmt.Sprintf("%04X:%02X", c.Address, c.Value)
}

// Decode decodes a 6 or 8 letter code. Letters are case insensitive. The length
// flag of the third letter is not verified, non canonical spellings decode to
// the same code as their canonical form.
func Decode(s string) (Code, error) {
	n, err := letters(s)
	if err != nil {
		return Code{}, err
	}

	address := addressBase +
		(uint16(n[3]&7)<<12 |
			uint16(n[5]&7)<<8 | uint16(n[4]&8)<<8 |
			uint16(n[2]&7)<<4 | uint16(n[1]&8)<<4 |
			uint16(n[4]&7) | uint16(n[3]&8))

	code := Code{Address: address}
	value := (n[1]&7)<<4 | (n[0]&8)<<4 | n[0]&7

	if len(n) == ShortLength {
		code.Value = value | n[5]&8
		return code, nil
	}

	code.Value = value | n[7]&8
	code.Compare = (n[7]&7)<<4 | (n[6]&8)<<4 | n[6]&7 | n[5]&8
	code.HasCompare = true
	return code, nil
}

// Encode encodes the code into its canonical letter form, 8 letters if the code
// has a compare value and 6 letters otherwise.
func Encode(c Code) (string, error) {
	if c.Address < addressBase {
		return "", fmt.Errorf("%w: $%04X", ErrInvalidAddress, c.Address)
	}

	a := c.Address
	v := c.Value

	var n [LongLength]byte
	n[0] = v&7 | (v>>4)&8
	n[1] = (v>>4)&7 | byte(a>>4)&8
	n[2] = byte(a>>4) & 7
	n[3] = byte(a>>12)&7 | byte(a)&8
	n[4] = byte(a)&7 | byte(a>>8)&8
	n[5] = byte(a>>8) & 7

	length := ShortLength
	if c.HasCompare {
		length = LongLength
		cmp := c.Compare
		n[2] |= lengthFlag
		n[5] |= cmp & 8
		n[6] = cmp&7 | (cmp>>4)&8
		n[7] = (cmp>>4)&7 | v&8
	} else {
		n[5] |= v & 8
	}

	buf := make([]byte, length)
	for i := range length {
		buf[i] = alphabet[n[i]]
	}
	return string(buf), nil
}

// Normalize returns the canonical spelling of a code, which is upper case and
// has the length flag of the third letter set to match the code length.
func Normalize(s string) (string, error) {
	code, err := Decode(s)
	if err != nil {
		return "", err
	}
	return Encode(code)
}

// IsCanonical returns whether the given code is valid and in canonical spelling.
func IsCanonical(s string) bool {
	normalized, err := Normalize(s)
	return err == nil && normalized == s
}

func letters(s string) ([]byte, error) {
	runes := []rune(s)
	if len(runes) != ShortLength && len(runes) != LongLength {
		return nil, fmt.Errorf("%w: code '%s' has %d letters, expected %d or %d",
			ErrInvalidLength, s, len(runes), ShortLength, LongLength)
	}

	n := make([]byte, len(runes))
	for i, c := range runes {
		// only ASCII letters are folded, unicode case mapping turns some
		// non ASCII runes into valid letters
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		idx := strings.IndexRune(alphabet, c)
		if idx < 0 {
			return nil, &CharacterError{Code: s, Position: i, Char: runes[i]}
		}
		n[i] = byte(idx)
	}
	return n, nil
}
