package encoding

import (
	"testing"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/diag"
)

func noLabels(string) (int, bool) { return 0, false }

func TestEncodeRTypeOperandOrderIsDestSrcSrc(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpADD,
		Operands: []ast.Operand{
			ast.RegisterOperand(1, diag.SourceSpan{}), // dest
			ast.RegisterOperand(2, diag.SourceSpan{}), // src1
			ast.RegisterOperand(3, diag.SourceSpan{}), // src2
		},
	}
	word, err := Encode(instr, noLabels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint16(0x0000) | uint16(2)<<10 | uint16(3)<<8 | uint16(1)<<6
	if word != want {
		t.Fatalf("ADD $1,$2,$3 = %#04x, want %#04x", word, want)
	}
}

func TestEncodeR1TypeOperandOrderIsDestSrc(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpNOT,
		Operands: []ast.Operand{
			ast.RegisterOperand(2, diag.SourceSpan{}), // dest
			ast.RegisterOperand(1, diag.SourceSpan{}), // src
		},
	}
	word, err := Encode(instr, noLabels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint16(0x4000) | uint16(1)<<10 | uint16(2)<<6
	if word != want {
		t.Fatalf("NOT $2,$1 = %#04x, want %#04x", word, want)
	}
}

func TestEncodeITypeLoad(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpLD,
		Operands: []ast.Operand{
			ast.RegisterOperand(1, diag.SourceSpan{}),
			ast.AddressOperand(-5, 3, diag.SourceSpan{}),
		},
	}
	word, err := Encode(instr, noLabels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint16(0x8000) | uint16(1)<<10 | uint16(3)<<8 | uint16(0xFB) // -5 as an 8-bit two's-complement byte
	if word != want {
		t.Fatalf("LD $1,-5($3) = %#04x, want %#04x", word, want)
	}
}

func TestEncodeBALToLabelOverflowsIntoOpcodeField(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpBAL,
		Operands: []ast.Operand{
			ast.RegisterOperand(1, diag.SourceSpan{}),
			ast.LabelRefOperand("L", "L", diag.SourceSpan{}),
		},
	}

	below, err := Encode(instr, func(string) (int, bool) { return 0x3FF, true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if below != 0xF7FF {
		t.Fatalf("BAL $1,L (target=0x3FF) = %#04x, want 0xF7FF", below)
	}

	over, err := Encode(instr, func(string) (int, bool) { return 0x400, true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if over != 0xF800 {
		t.Fatalf("BAL $1,L (target=0x400) = %#04x, want 0xF800 (quirk must carry into the link-register bits)", over)
	}
}

func TestEncodeBALIndirectReturnForm(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpBAL,
		Operands: []ast.Operand{
			ast.RegisterOperand(2, diag.SourceSpan{}),
			ast.AddressOperand(0, 2, diag.SourceSpan{}),
		},
	}
	word, err := Encode(instr, noLabels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint16(0xF000) | uint16(2)<<10 | uint16(2)<<8
	if word != want {
		t.Fatalf("BAL $2,0($2) = %#04x, want %#04x", word, want)
	}
}

func TestEncodeUnresolvedLabelFails(t *testing.T) {
	instr := ast.InstructionIR{
		Opcode: ast.OpBZ,
		Operands: []ast.Operand{
			ast.RegisterOperand(1, diag.SourceSpan{}),
			ast.LabelRefOperand("NOWHERE", "NOWHERE", diag.SourceSpan{}),
		},
	}
	if _, err := Encode(instr, noLabels); err == nil {
		t.Fatal("expected an error for an unresolved label")
	}
}

func TestDecodeWordSplitsFields(t *testing.T) {
	d := DecodeWord(0x8000 | 1<<10 | 3<<8 | 0xFB)
	if d.OpField != 0x8 || d.Opcode != ast.OpLD {
		t.Fatalf("opcode field = %#x (%v), want 0x8 (LD)", d.OpField, d.Opcode)
	}
	if d.RA != 1 || d.RB != 3 {
		t.Fatalf("RA=%d RB=%d, want RA=1 RB=3", d.RA, d.RB)
	}
	if d.Imm8 != -5 {
		t.Fatalf("Imm8 = %d, want -5", d.Imm8)
	}
}

func TestFormatHexGroupsPerLine(t *testing.T) {
	got := FormatHex([]uint16{0x1234, 0xABCD, 0x0001}, 2)
	want := "1234 ABCD\n0001"
	if got != want {
		t.Fatalf("FormatHex = %q, want %q", got, want)
	}
}

func TestFormatIntelHexSingleWord(t *testing.T) {
	got := FormatIntelHex([]uint16{0x1234})

	sum := byte(0x02) + byte(0x12) + byte(0x34)
	checksum := byte(-sum)
	want := ":02000000" + "1234" + hexByte(checksum) + "\n" + ":00000001FF\n"
	if got != want {
		t.Fatalf("FormatIntelHex = %q, want %q", got, want)
	}
}

func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}
