// Package disasm implements a straight-line 6502 disassembler for NES PRG data.
package disasm

import (
	"github.com/retroenv/retrogolib/arch/cpu/m6502"
)

// Opcode describes the decoding of a single opcode byte.
type Opcode struct {
	Mnemonic   string // lowercase mnemonic, empty for undefined opcodes
	Addressing m6502.AddressingMode
	Legal      bool // official 6502 instruction
	Unofficial bool // undocumented instruction with known behavior
}

// OperandSize returns the number of operand bytes following the opcode byte.
func (o Opcode) OperandSize() int {
	return operandSize(o.Addressing)
}

// opcodes covers all 256 byte values, undefined values are zero value entries.
var opcodes = buildOpcodeTable()

func buildOpcodeTable() [256]Opcode {
	var table [256]Opcode
	for b, op := range m6502.Opcodes {
		if op.Instruction == nil {
			continue
		}
		table[b] = Opcode{
			Mnemonic:   op.Instruction.Name,
			Addressing: op.Addressing,
			Legal:      !op.Instruction.Unofficial,
			Unofficial: op.Instruction.Unofficial,
		}
	}
	return table
}

// Lookup returns the opcode table entry for the given byte.
func Lookup(b byte) Opcode {
	return opcodes[b]
}

func operandSize(addressing m6502.AddressingMode) int {
	switch addressing {
	case m6502.ImmediateAddressing,
		m6502.ZeroPageAddressing, m6502.ZeroPageXAddressing, m6502.ZeroPageYAddressing,
		m6502.IndirectXAddressing, m6502.IndirectYAddressing,
		m6502.RelativeAddressing:
		return 1

	case m6502.AbsoluteAddressing, m6502.AbsoluteXAddressing, m6502.AbsoluteYAddressing,
		m6502.IndirectAddressing:
		return 2

	default:
		return 0
	}
}
