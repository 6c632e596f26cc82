package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/m6502"
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
)

// Instruction is a single decoded opcode occurrence.
type Instruction struct {
	Offset     int  // offset of the opcode byte in the decoded data
	Opcode     byte // first byte
	Mnemonic   string
	Addressing m6502.AddressingMode
	Operand    []byte // operand bytes in memory order, little endian for words
	Illegal    bool   // opcode is not decoded as an instruction
}

// Size returns the encoded size of the instruction in bytes.
func (ins Instruction) Size() int {
	return 1 + len(ins.Operand)
}

// Bytes returns the opcode byte followed by the operand.
func (ins Instruction) Bytes() []byte {
	b := make([]byte, 0, ins.Size())
	b = append(b, ins.Opcode)
	return append(b, ins.Operand...)
}

// Value returns the operand as unsigned value.
func (ins Instruction) Value() uint16 {
	switch len(ins.Operand) {
	case 1:
		return uint16(ins.Operand[0])
	case 2:
		return uint16(ins.Operand[1])<<8 | uint16(ins.Operand[0])
	default:
		return 0
	}
}

// Target returns the destination offset of a relative branch, computed from the
// signed operand. The second return value is false for other addressing modes.
func (ins Instruction) Target() (int, bool) {
	if ins.Addressing != m6502.RelativeAddressing || len(ins.Operand) != 1 {
		return 0, false
	}
	return ins.Offset + ins.Size() + int(int8(ins.Operand[0])), true
}

// Code returns the assembly source for the instruction. Relative branch
// targets are shown as CPU addresses based on the given base address.
func (ins Instruction) Code(converter parameter.Converter, base uint16) (string, error) {
	if ins.Illegal {
		return fmt.Sprintf(".byte $%02x", ins.Opcode), nil
	}

	fun, ok := paramValue[ins.Addressing]
	if !ok {
		return "", fmt.Errorf("unsupported addressing mode %d", ins.Addressing)
	}
	param, err := parameter.String(converter, ins.Addressing, fun(ins, base))
	if err != nil {
		return "", fmt.Errorf("formatting %s parameter: %w", ins.Mnemonic, err)
	}
	if param == "" {
		return ins.Mnemonic, nil
	}
	return ins.Mnemonic + " " + param, nil
}

type paramValueFunc func(ins Instruction, base uint16) any

var paramValue = map[m6502.AddressingMode]paramValueFunc{
	m6502.ImpliedAddressing:     paramImplied,
	m6502.AccumulatorAddressing: paramImplied,
	m6502.ImmediateAddressing:   paramImmediate,
	m6502.AbsoluteAddressing:    paramAbsolute,
	m6502.AbsoluteXAddressing:   paramAbsoluteX,
	m6502.AbsoluteYAddressing:   paramAbsoluteY,
	m6502.ZeroPageAddressing:    paramZeroPage,
	m6502.ZeroPageXAddressing:   paramZeroPageX,
	m6502.ZeroPageYAddressing:   paramZeroPageY,
	m6502.RelativeAddressing:    paramRelative,
	m6502.IndirectAddressing:    paramIndirect,
	m6502.IndirectXAddressing:   paramIndirectZeroPage,
	m6502.IndirectYAddressing:   paramIndirectZeroPage,
}

func paramImplied(Instruction, uint16) any {
	return nil
}

func paramImmediate(ins Instruction, _ uint16) any {
	return int(ins.Value())
}

func paramAbsolute(ins Instruction, _ uint16) any {
	return m6502.Absolute(ins.Value())
}

func paramAbsoluteX(ins Instruction, _ uint16) any {
	return m6502.AbsoluteX(ins.Value())
}

func paramAbsoluteY(ins Instruction, _ uint16) any {
	return m6502.AbsoluteY(ins.Value())
}

func paramZeroPage(ins Instruction, _ uint16) any {
	return m6502.ZeroPage(ins.Value())
}

func paramZeroPageX(ins Instruction, _ uint16) any {
	return m6502.ZeroPageX(ins.Value())
}

func paramZeroPageY(ins Instruction, _ uint16) any {
	return m6502.ZeroPageY(ins.Value())
}

func paramRelative(ins Instruction, base uint16) any {
	target, _ := ins.Target()
	return int(base + uint16(target))
}

func paramIndirect(ins Instruction, _ uint16) any {
	return m6502.Indirect(ins.Value())
}

// indexed indirect addressing uses a zero page pointer, the converter
// prints word values so the pointer is passed preformatted.
func paramIndirectZeroPage(ins Instruction, _ uint16) any {
	return fmt.Sprintf("$%02X", ins.Value())
}
