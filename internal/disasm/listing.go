package disasm

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/m6502"
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
)

// DefaultBaseAddress is the CPU address that PRG-ROM is mapped to.
const DefaultBaseAddress = 0x8000

// ParamConfig configures the instruction parameter string converter.
var ParamConfig = parameter.Config{
	IndirectPrefix: "(",
	IndirectSuffix: ")",
}

// ListingOptions controls the listing output.
type ListingOptions struct {
	BaseAddress    uint16
	HexComments    bool
	OffsetComments bool
}

// NewListingOptions returns the default listing options.
func NewListingOptions() ListingOptions {
	return ListingOptions{
		BaseAddress:    DefaultBaseAddress,
		HexComments:    true,
		OffsetComments: true,
	}
}

// Listing is the decoded result of a disassembly run.
type Listing struct {
	Instructions []Instruction
	Truncated    *TruncatedError // set if the data ended inside an instruction

	checksum  uint32
	tail      []byte
	opts      ListingOptions
	converter parameter.Converter
}

// NewListing decodes all instructions of the decoder. A truncated instruction at
// the end of the data does not fail the listing, it is available as Truncated.
func NewListing(dec *Decoder, opts ListingOptions) (*Listing, error) {
	l := &Listing{
		checksum:  crc32.ChecksumIEEE(dec.data),
		opts:      opts,
		converter: parameter.New(ParamConfig),
	}

	for ins, err := range dec.All() {
		if err != nil {
			var truncated *TruncatedError
			if !errors.As(err, &truncated) {
				return nil, fmt.Errorf("decoding instruction: %w", err)
			}
			l.Truncated = truncated
			l.tail = dec.data[truncated.Offset:]
			break
		}
		l.Instructions = append(l.Instructions, ins)
	}
	return l, nil
}

// WriteTo writes the textual listing, one line per instruction.
func (l *Listing) WriteTo(w io.Writer) (int64, error) {
	buf := &strings.Builder{}
	if err := l.writeHeader(buf); err != nil {
		return 0, err
	}

	previousWasCode := true
	emptyLine := true
	for _, ins := range l.Instructions {
		isCode := !ins.Illegal
		// print an empty line in case of data after code and vice versa
		if isCode != previousWasCode && !emptyLine {
			buf.WriteString("\n")
		}
		previousWasCode = isCode

		if err := l.writeInstruction(buf, ins); err != nil {
			return 0, err
		}
		emptyLine = false

		if isCode && m6502.NotExecutingFollowingOpcodeInstructions.Contains(ins.Mnemonic) {
			buf.WriteString("\n")
			emptyLine = true
		}
	}

	if l.Truncated != nil {
		if !emptyLine {
			buf.WriteString("\n")
		}
		comment := l.comment(l.Truncated.Offset, l.tail, "truncated instruction "+l.Truncated.Mnemonic)
		writeDataLine(buf, l.tail, comment)
	}

	n, err := io.WriteString(w, buf.String())
	if err != nil {
		return int64(n), fmt.Errorf("writing listing: %w", err)
	}
	return int64(n), nil
}

func (l *Listing) writeHeader(buf *strings.Builder) error {
	if _, err := fmt.Fprintf(buf, "; PRG CRC32 checksum: %08x\n", l.checksum); err != nil {
		return fmt.Errorf("writing prg checksum: %w", err)
	}
	if _, err := fmt.Fprintf(buf, "; Code base address: $%04x\n\n", l.opts.BaseAddress); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	return nil
}

func (l *Listing) writeInstruction(buf *strings.Builder, ins Instruction) error {
	if ins.Illegal {
		note := "illegal opcode"
		if ins.Mnemonic != "" {
			note = "unofficial opcode " + ins.Mnemonic
		}
		writeDataLine(buf, ins.Bytes(), l.comment(ins.Offset, ins.Bytes(), note))
		return nil
	}

	code, err := ins.Code(l.converter, l.opts.BaseAddress)
	if err != nil {
		return fmt.Errorf("formatting instruction at offset %d: %w", ins.Offset, err)
	}

	var note string
	if opcodes[ins.Opcode].Unofficial {
		note = "unofficial instruction"
	}
	comment := l.comment(ins.Offset, ins.Bytes(), note)

	if comment == "" {
		_, err = fmt.Fprintf(buf, "  %s\n", code)
	} else {
		_, err = fmt.Fprintf(buf, "  %-30s ; %s\n", code, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// comment joins the enabled address and hex byte comments with an optional note.
// Addresses wrap around at $FFFF like branch targets.
func (l *Listing) comment(offset int, data []byte, note string) string {
	var comments []string
	if l.opts.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", l.opts.BaseAddress+uint16(offset)))
	}
	if l.opts.HexComments {
		comments = append(comments, hexCodeComment(data))
	}
	if note != "" {
		comments = append(comments, note)
	}
	return strings.Join(comments, "  ")
}

func hexCodeComment(data []byte) string {
	buf := &strings.Builder{}
	for _, b := range data {
		fmt.Fprintf(buf, "%02X ", b)
	}
	return strings.TrimRight(buf.String(), " ")
}

func writeDataLine(buf *strings.Builder, data []byte, comment string) {
	line := &strings.Builder{}
	line.WriteString(".byte ")
	for _, b := range data {
		fmt.Fprintf(line, "$%02x, ", b)
	}
	code := strings.TrimRight(line.String(), ", ")

	if comment == "" {
		fmt.Fprintf(buf, "%s\n", code)
	} else {
		fmt.Fprintf(buf, "%-32s ; %s\n", code, comment)
	}
}
