package disasm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/m6502"
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/retrogolib/assert"
)

func collect(t *testing.T, dec *Decoder) ([]Instruction, error) {
	t.Helper()
	var result []Instruction
	for ins, err := range dec.All() {
		if err != nil {
			return result, err
		}
		result = append(result, ins)
	}
	return result, nil
}

func TestOpcodeTable(t *testing.T) {
	mnemonics := map[string]struct{}{}
	for b := range 256 {
		op := Lookup(byte(b))
		if op.Legal {
			mnemonics[op.Mnemonic] = struct{}{}
			assert.False(t, op.Unofficial)
		}
	}
	assert.Len(t, mnemonics, 56)

	assert.Equal(t, "lda", Lookup(0xa9).Mnemonic)
	assert.Equal(t, m6502.ImmediateAddressing, Lookup(0xa9).Addressing)
	assert.Equal(t, 1, Lookup(0xa9).OperandSize())
	assert.Equal(t, 2, Lookup(0x6c).OperandSize())
	assert.Equal(t, m6502.IndirectAddressing, Lookup(0x6c).Addressing)
	assert.Equal(t, 0, Lookup(0x0a).OperandSize())
	assert.False(t, Lookup(0x02).Legal)
	assert.False(t, Lookup(0x02).Unofficial)
	assert.True(t, Lookup(0x04).Unofficial)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		mnemonic    string
		addressing  m6502.AddressingMode
		size        int
		value       uint16
		illegal     bool
		unofficial  bool
		expectedErr error
	}{
		{name: "nop implied", data: []byte{0xea}, mnemonic: "nop", addressing: m6502.ImpliedAddressing, size: 1},
		{name: "lda immediate", data: []byte{0xa9, 0x05}, mnemonic: "lda", addressing: m6502.ImmediateAddressing, size: 2, value: 0x05},
		{name: "jmp absolute", data: []byte{0x4c, 0x34, 0x12}, mnemonic: "jmp", addressing: m6502.AbsoluteAddressing, size: 3, value: 0x1234},
		{name: "asl accumulator", data: []byte{0x0a}, mnemonic: "asl", addressing: m6502.AccumulatorAddressing, size: 1},
		{name: "undefined opcode", data: []byte{0x02, 0x00}, size: 1, illegal: true},
		{name: "unofficial as illegal", data: []byte{0x04, 0x10}, mnemonic: "nop", addressing: m6502.ZeroPageAddressing, size: 1, illegal: true},
		{name: "unofficial decoded", data: []byte{0x04, 0x10}, mnemonic: "nop", addressing: m6502.ZeroPageAddressing, size: 2, value: 0x10, unofficial: true},
		{name: "truncated immediate", data: []byte{0xa9}, mnemonic: "lda", expectedErr: ErrTruncatedInstruction},
		{name: "truncated absolute", data: []byte{0x8d, 0x00}, mnemonic: "sta", expectedErr: ErrTruncatedInstruction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := New(tt.data, Options{Unofficial: tt.unofficial})
			ins, err := dec.Decode(0)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, tt.mnemonic, ins.Mnemonic)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.mnemonic, ins.Mnemonic)
			assert.Equal(t, tt.size, ins.Size())
			assert.Equal(t, tt.value, ins.Value())
			assert.Equal(t, tt.illegal, ins.Illegal)
			if !tt.illegal {
				assert.Equal(t, tt.addressing, ins.Addressing)
			}
		})
	}
}

func TestDecodeAllOpcodes(t *testing.T) {
	for b := range 256 {
		data := []byte{byte(b), 0x00, 0x00}
		dec := New(data, Options{})
		ins, err := dec.Decode(0)
		assert.NoError(t, err)
		assert.True(t, ins.Size() >= 1 && ins.Size() <= m6502.MaxOpcodeSize)
	}
}

func TestAll(t *testing.T) {
	data := []byte{
		0xa9, 0x05, // lda #$05
		0xea, // nop
		0x02, // illegal
		0xd0, 0xfa, // bne -6
		0x60, // rts
	}
	dec := New(data, Options{})

	for range 2 {
		instructions, err := collect(t, dec)
		assert.NoError(t, err)
		assert.Len(t, instructions, 5)

		offsets := make([]int, 0, len(instructions))
		for _, ins := range instructions {
			offsets = append(offsets, ins.Offset)
		}
		assert.Equal(t, []int{0, 2, 3, 4, 6}, offsets)
	}

	dec = New(data, Options{Start: 4})
	instructions, err := collect(t, dec)
	assert.NoError(t, err)
	assert.Len(t, instructions, 2)
	assert.Equal(t, "bne", instructions[0].Mnemonic)

	dec = New(data, Options{Start: len(data) + 5})
	instructions, err = collect(t, dec)
	assert.NoError(t, err)
	assert.Empty(t, instructions)
}

func TestAllTruncated(t *testing.T) {
	dec := New([]byte{0xea, 0xad, 0x00}, Options{})
	instructions, err := collect(t, dec)
	assert.ErrorIs(t, err, ErrTruncatedInstruction)
	assert.Len(t, instructions, 1)

	var truncated *TruncatedError
	assert.True(t, errors.As(err, &truncated))
	assert.Equal(t, 1, truncated.Offset)
	assert.Equal(t, 2, truncated.Needed)
	assert.Equal(t, 1, truncated.Available)
	assert.Equal(t, "lda", truncated.Mnemonic)

	dec = New([]byte{0xa9}, Options{})
	instructions, err = collect(t, dec)
	assert.ErrorIs(t, err, ErrTruncatedInstruction)
	assert.Empty(t, instructions)
}

func TestTarget(t *testing.T) {
	dec := New([]byte{0xea, 0xea, 0xd0, 0xfc, 0x10, 0x02}, Options{})
	backward, err := dec.Decode(2)
	assert.NoError(t, err)
	target, ok := backward.Target()
	assert.True(t, ok)
	assert.Equal(t, 0, target)

	forward, err := dec.Decode(4)
	assert.NoError(t, err)
	target, ok = forward.Target()
	assert.True(t, ok)
	assert.Equal(t, 8, target)

	nop, err := dec.Decode(0)
	assert.NoError(t, err)
	_, ok = nop.Target()
	assert.False(t, ok)
}

func TestInstructionCode(t *testing.T) {
	converter := parameter.New(ParamConfig)

	tests := []struct {
		data []byte
		want string
	}{
		{data: []byte{0xea}, want: "nop"},
		{data: []byte{0x0a}, want: "asl a"},
		{data: []byte{0xa9, 0x05}, want: "lda #$05"},
		{data: []byte{0xa5, 0x10}, want: "lda $10"},
		{data: []byte{0xb5, 0x10}, want: "lda $10,X"},
		{data: []byte{0xb6, 0x10}, want: "ldx $10,Y"},
		{data: []byte{0xad, 0x00, 0x20}, want: "lda $2000"},
		{data: []byte{0xbd, 0x00, 0x20}, want: "lda $2000,X"},
		{data: []byte{0xb9, 0x00, 0x20}, want: "lda $2000,Y"},
		{data: []byte{0x6c, 0xfc, 0xff}, want: "jmp ($FFFC)"},
		{data: []byte{0xa1, 0x20}, want: "lda ($20,X)"},
		{data: []byte{0xb1, 0x20}, want: "lda ($20),Y"},
		{data: []byte{0xd0, 0xfe}, want: "bne $8000"},
		{data: []byte{0x02}, want: ".byte $02"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ins, err := New(tt.data, Options{}).Decode(0)
			assert.NoError(t, err)
			code, err := ins.Code(converter, DefaultBaseAddress)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestListing(t *testing.T) {
	data := []byte{
		0xa9, 0x05, // lda #$05
		0x4c, 0x00, 0x80, // jmp $8000
		0x02, // illegal
		0x60, // rts
		0xad, 0x00, // truncated lda
	}

	listing, err := NewListing(New(data, Options{}), NewListingOptions())
	assert.NoError(t, err)
	assert.Len(t, listing.Instructions, 4)
	assert.NotNil(t, listing.Truncated)

	var buf bytes.Buffer
	n, err := listing.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "; PRG CRC32 checksum: "))
	assert.Equal(t, "; Code base address: $8000", lines[1])
	assert.Equal(t, "", lines[2])

	expected := []string{
		"  lda #$05                       ; $8000  A9 05",
		"  jmp $8000                      ; $8002  4C 00 80",
		"",
		".byte $02                        ; $8005  02  illegal opcode",
		"",
		"  rts                            ; $8006  60",
		"",
		".byte $ad, $00                   ; $8007  AD 00  truncated instruction lda",
		"",
	}
	assert.Equal(t, expected, lines[3:])
}

func TestListingNoComments(t *testing.T) {
	opts := ListingOptions{BaseAddress: 0xc000}
	listing, err := NewListing(New([]byte{0xd0, 0xfe, 0x04, 0x10}, Options{Unofficial: true}), opts)
	assert.NoError(t, err)
	assert.Nil(t, listing.Truncated)

	var buf bytes.Buffer
	_, err = listing.WriteTo(&buf)
	assert.NoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "  bne $C000", lines[3])
	assert.Equal(t, "  nop $10                        ; unofficial instruction", lines[4])
}

func TestListingAddressWrap(t *testing.T) {
	opts := ListingOptions{BaseAddress: 0xfffe, OffsetComments: true}
	listing, err := NewListing(New([]byte{0xea, 0xd0, 0x00, 0xea}, Options{}), opts)
	assert.NoError(t, err)

	var buf bytes.Buffer
	_, err = listing.WriteTo(&buf)
	assert.NoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	expected := []string{
		"  nop                            ; $FFFE",
		"  bne $0001                      ; $FFFF",
		"  nop                            ; $0001",
		"",
	}
	assert.Equal(t, expected, lines[3:])
}
