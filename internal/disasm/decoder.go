package disasm

import (
	"errors"
	"fmt"
	"iter"
)

// ErrTruncatedInstruction is returned when the data ends inside an instruction.
var ErrTruncatedInstruction = errors.New("truncated instruction")

// TruncatedError describes an instruction that is missing operand bytes.
type TruncatedError struct {
	Offset    int
	Opcode    byte
	Mnemonic  string
	Needed    int // operand bytes required by the addressing mode
	Available int // operand bytes left in the data
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: %s at offset $%04X needs %d operand bytes, %d available",
		ErrTruncatedInstruction, e.Mnemonic, e.Offset, e.Needed, e.Available)
}

// Is matches ErrTruncatedInstruction.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncatedInstruction
}

// Options controls the decoding.
type Options struct {
	Start      int  // offset to start decoding at
	Unofficial bool // decode unofficial opcodes with their operands instead of as illegal bytes
}

// Decoder decodes 6502 instructions sequentially from a byte slice.
type Decoder struct {
	data []byte
	opts Options
}

// New returns a new decoder for the given data.
func New(data []byte, opts Options) *Decoder {
	opts.Start = max(opts.Start, 0)
	return &Decoder{
		data: data,
		opts: opts,
	}
}

// Decode decodes the instruction at the given offset.
func (d *Decoder) Decode(offset int) (Instruction, error) {
	if offset < 0 || offset >= len(d.data) {
		return Instruction{}, fmt.Errorf("offset %d outside of data with length %d", offset, len(d.data))
	}

	b := d.data[offset]
	op := opcodes[b]
	ins := Instruction{
		Offset:     offset,
		Opcode:     b,
		Mnemonic:   op.Mnemonic,
		Addressing: op.Addressing,
	}

	if !op.Legal && !(op.Unofficial && d.opts.Unofficial) {
		ins.Illegal = true
		return ins, nil
	}

	size := op.OperandSize()
	available := len(d.data) - offset - 1
	if available < size {
		return ins, &TruncatedError{
			Offset:    offset,
			Opcode:    b,
			Mnemonic:  op.Mnemonic,
			Needed:    size,
			Available: available,
		}
	}

	if size > 0 {
		ins.Operand = d.data[offset+1 : offset+1+size]
	}
	return ins, nil
}

// All returns a sequence of all instructions from the start offset to the end
// of the data. A truncated instruction ends the sequence with an error.
// Decoding is done while iterating and the sequence can be iterated again.
func (d *Decoder) All() iter.Seq2[Instruction, error] {
	return func(yield func(Instruction, error) bool) {
		for offset := d.opts.Start; offset < len(d.data); {
			ins, err := d.Decode(offset)
			if !yield(ins, err) || err != nil {
				return
			}
			offset += ins.Size()
		}
	}
}
