package gamegenie

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		code string
		want Code
	}{
		{code: "SXIOPO", want: Code{Address: 0x91d9, Value: 0xad}},
		{code: "sxiopo", want: Code{Address: 0x91d9, Value: 0xad}},
		{code: "GOSSIP", want: Code{Address: 0xd1dd, Value: 0x14}},
		{code: "AAAAAA", want: Code{Address: 0x8000, Value: 0x00}},
		{code: "NNYNNN", want: Code{Address: 0xffff, Value: 0xff}},
		{code: "SXSOPOGU", want: Code{Address: 0x91d9, Value: 0xad, Compare: 0x3c, HasCompare: true}},
		{code: "ZEXPYGLA", want: Code{Address: 0x94a7, Value: 0x02, Compare: 0x03, HasCompare: true}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Decode(tt.code)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		code        string
		expectedErr error
		position    int
	}{
		{code: "", expectedErr: ErrInvalidLength},
		{code: "SXIOP", expectedErr: ErrInvalidLength},
		{code: "SXIOPOG", expectedErr: ErrInvalidLength},
		{code: "SXIOPOGUX", expectedErr: ErrInvalidLength},
		{code: "SXIOPB", expectedErr: ErrInvalidCharacter, position: 5},
		{code: "1XIOPO", expectedErr: ErrInvalidCharacter, position: 0},
		{code: "SXIO-OGU", expectedErr: ErrInvalidCharacter, position: 4},
		{code: "AAAAı", expectedErr: ErrInvalidLength},
		{code: "SXIOſ", expectedErr: ErrInvalidLength},
		{code: "SXIOPı", expectedErr: ErrInvalidCharacter, position: 5},
		{code: "ſXIOPO", expectedErr: ErrInvalidCharacter, position: 0},
		{code: "SXIO:O", expectedErr: ErrInvalidCharacter, position: 4},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := Decode(tt.code)
			assert.ErrorIs(t, err, tt.expectedErr)

			var charErr *CharacterError
			if errors.As(err, &charErr) {
				assert.Equal(t, tt.position, charErr.Position)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{code: Code{Address: 0x91d9, Value: 0xad}, want: "SXIOPO"},
		{code: Code{Address: 0xd1dd, Value: 0x14}, want: "GOISIP"},
		{code: Code{Address: 0x91d9, Value: 0xad, Compare: 0x3c, HasCompare: true}, want: "SXSOPOGU"},
		{code: Code{Address: 0x8080, HasCompare: true}, want: "AEEAAAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Encode(tt.code)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Encode(Code{Address: 0x7fff})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for address := 0x8000; address <= 0xffff; address += 0x0111 {
		for value := 0; value <= 0xff; value += 0x0f {
			short := Code{Address: uint16(address), Value: uint8(value)}
			long := Code{Address: uint16(address), Value: uint8(value), Compare: uint8(0xff - value), HasCompare: true}

			for _, code := range []Code{short, long} {
				s, err := Encode(code)
				assert.NoError(t, err)
				decoded, err := Decode(s)
				assert.NoError(t, err)
				assert.Equal(t, code, decoded)
				assert.True(t, IsCanonical(s))
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// every letter at every position, canonical codes encode back to themselves
	// and non canonical codes to their normalized spelling
	for _, length := range []int{ShortLength, LongLength} {
		for pos := range length {
			for _, letter := range alphabet {
				buf := []byte("APAPAPAP")[:length]
				buf[pos] = byte(letter)
				s := string(buf)

				code, err := Decode(s)
				assert.NoError(t, err)
				encoded, err := Encode(code)
				assert.NoError(t, err)

				normalized, err := Normalize(s)
				assert.NoError(t, err)
				assert.Equal(t, normalized, encoded)
				if IsCanonical(s) {
					assert.Equal(t, s, encoded)
				}
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "GOSSIP", want: "GOISIP"},
		{code: "sxiopo", want: "SXIOPO"},
		{code: "SXIOPOGU", want: "SXSOPOGU"},
		{code: "SXSOPOGU", want: "SXSOPOGU"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Normalize(tt.code)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, IsCanonical("GOSSIP"))
	assert.True(t, IsCanonical("GOISIP"))
	assert.False(t, IsCanonical("goisip"))

	_, err := Normalize("XYZ")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "91D9:AD", Code{Address: 0x91d9, Value: 0xad}.String())
	assert.Equal(t, "91D9?3C:AD", Code{Address: 0x91d9, Value: 0xad, Compare: 0x3c, HasCompare: true}.String())
}
