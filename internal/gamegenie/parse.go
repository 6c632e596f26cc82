package gamegenie

import (
	"fmt"
	"strconv"
	"strings"
)

// IsHexNotation returns whether the string has the shape of the ADDR:VV or
// ADDR?CC:VV notation: an optional $ or 0x prefix, hex digits and exactly one
// ':' separator. Value ranges are checked by ParseHex.
func IsHexNotation(s string) bool {
	s = trimHexPrefix(strings.TrimSpace(s))
	if s == "" || !isHexDigit(s[0]) || strings.Count(s, ":") != 1 || strings.Count(s, "?") > 1 {
		return false
	}
	for i := range len(s) {
		switch c := s[i]; {
		case isHexDigit(c), c == ':', c == '?', c == ' ':
		default:
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func trimHexPrefix(s string) string {
	s = strings.TrimPrefix(s, "$")
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	return s
}

// ParseHex parses a code in the ADDR:VV or ADDR?CC:VV notation, a leading $ or 0x
// for the address is accepted.
func ParseHex(s string) (Code, error) {
	addressPart, valuePart, ok := strings.Cut(s, ":")
	if !ok {
		return Code{}, fmt.Errorf("missing ':' in code '%s'", s)
	}

	var code Code
	addressPart, comparePart, hasCompare := strings.Cut(addressPart, "?")
	if hasCompare {
		compare, err := parseHexValue(comparePart, 8)
		if err != nil {
			return Code{}, fmt.Errorf("parsing compare value of '%s': %w", s, err)
		}
		code.Compare = uint8(compare)
		code.HasCompare = true
	}

	address, err := parseHexValue(addressPart, 16)
	if err != nil {
		return Code{}, fmt.Errorf("parsing address of '%s': %w", s, err)
	}
	if address < addressBase {
		return Code{}, fmt.Errorf("%w: $%04X", ErrInvalidAddress, address)
	}
	code.Address = uint16(address)

	value, err := parseHexValue(valuePart, 8)
	if err != nil {
		return Code{}, fmt.Errorf("parsing value of '%s': %w", s, err)
	}
	code.Value = uint8(value)
	return code, nil
}

func parseHexValue(s string, bitSize int) (uint64, error) {
	s = trimHexPrefix(strings.TrimSpace(s))
	value, err := strconv.ParseUint(s, 16, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value '%s': %w", s, err)
	}
	return value, nil
}
