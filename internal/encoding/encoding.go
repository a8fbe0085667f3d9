/*
 * SN/X - Instruction encoder / decoder.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package encoding packs InstructionIR values into 16-bit machine
// words and back, and renders word streams as hex dumps or Intel-HEX
// records, per spec.md §4.H.
package encoding

import (
	"fmt"
	"strings"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/word"
)

// opcodeNumbers is the closed numeric encoding of the opcode set.
// Values 5 and 11 are intentionally unassigned.
var opcodeNumbers = map[ast.Opcode]uint16{
	ast.OpADD: 0x0,
	ast.OpAND: 0x1,
	ast.OpSUB: 0x2,
	ast.OpSLT: 0x3,
	ast.OpNOT: 0x4,
	ast.OpSR:  0x6,
	ast.OpHLT: 0x7,
	ast.OpLD:  0x8,
	ast.OpST:  0x9,
	ast.OpLDA: 0xA,
	ast.OpIN:  0xC,
	ast.OpOUT: 0xD,
	ast.OpBZ:  0xE,
	ast.OpBAL: 0xF,
}

var numbersToOpcode = func() map[uint16]ast.Opcode {
	m := make(map[uint16]ast.Opcode, len(opcodeNumbers))
	for op, n := range opcodeNumbers {
		m[n] = op
	}
	return m
}()

// Error reports a failed encode: an opcode with no machine encoding,
// or a BZ/BAL label target that labelPC cannot resolve. Operand kinds
// and counts are not checked here; Encode expects validated IR.
type Error struct {
	PC      int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("encoding error at PC %d: %s", e.PC, e.Message)
}

// Encode packs one InstructionIR into a 16-bit machine word. labelPC
// resolves a label-reference operand's target PC (BZ, BAL-to-label);
// callers normally supply ir.PCForLabel.
func Encode(instr ast.InstructionIR, labelPC func(name string) (int, bool)) (uint16, error) {
	op, ok := opcodeNumbers[instr.Opcode]
	if !ok {
		return 0, &Error{PC: instr.PC, Message: "opcode has no machine encoding"}
	}
	opField := op << 12

	switch instr.Opcode {
	case ast.OpADD, ast.OpAND, ast.OpSUB, ast.OpSLT:
		dest, src1, src2 := instr.Operands[0].Register, instr.Operands[1].Register, instr.Operands[2].Register
		return opField | uint16(src1)<<10 | uint16(src2)<<8 | uint16(dest)<<6, nil

	case ast.OpNOT, ast.OpSR:
		// NOT/SR operand order is (dest, src) per spec.md §4.E.
		dest, src := instr.Operands[0].Register, instr.Operands[1].Register
		return opField | uint16(src)<<10 | uint16(dest)<<6, nil

	case ast.OpHLT:
		return opField, nil

	case ast.OpLD, ast.OpST, ast.OpLDA:
		reg := instr.Operands[0].Register
		addr := instr.Operands[1]
		imm := word.Imm8(int(addr.Offset))
		return opField | uint16(reg)<<10 | uint16(addr.Base)<<8 | uint16(imm), nil

	case ast.OpIN:
		return opField | uint16(instr.Operands[0].Register)<<10, nil

	case ast.OpOUT:
		return opField | uint16(instr.Operands[0].Register)<<10, nil

	case ast.OpBZ:
		condReg := instr.Operands[0].Register
		target, ok := labelPC(instr.Operands[1].Label)
		if !ok {
			return 0, &Error{PC: instr.PC, Message: "BZ target label is unresolved"}
		}
		return opField + uint16(condReg)<<10 + uint16(target), nil

	case ast.OpBAL:
		link := instr.Operands[0].Register
		if instr.Operands[1].Kind == ast.OperandLabelRef {
			target, ok := labelPC(instr.Operands[1].Label)
			if !ok {
				return 0, &Error{PC: instr.PC, Message: "BAL target label is unresolved"}
			}
			return opField + uint16(link)<<10 + uint16(target), nil
		}
		addr := instr.Operands[1]
		imm := word.Imm8(int(addr.Offset))
		return opField | uint16(link)<<10 | uint16(addr.Base)<<8 | uint16(imm), nil
	}

	return 0, &Error{PC: instr.PC, Message: "unsupported opcode"}
}

// Decoded is the structural inverse of one encoded word: every field
// the word could plausibly carry, named per spec.md §4.H's layout.
type Decoded struct {
	Opcode   ast.Opcode
	OpField  uint16
	RA       int
	RB       int
	RC       int
	Imm8     int8
	Target10 int
}

// DecodeWord splits raw into its OP/RA/RB/RC/IMM/TARGET10 fields. It
// is a structural split only — for a BZ/BAL word produced by an
// overflowing labelPC, the split fields will not recover the original
// operands, matching the disassembler's documented limitation.
func DecodeWord(raw uint16) Decoded {
	opField := raw >> 12
	d := Decoded{
		OpField:  opField,
		Opcode:   numbersToOpcode[opField],
		RA:       int((raw >> 10) & 0x3),
		RB:       int((raw >> 8) & 0x3),
		RC:       int((raw >> 6) & 0x3),
		Imm8:     word.Signed8(uint8(raw & 0xFF)),
		Target10: int(raw & 0x3FF),
	}
	return d
}

// FormatHex renders words as uppercase 4-digit hex, grouped perLine
// per row, space-separated.
func FormatHex(words []uint16, perLine int) string {
	if perLine <= 0 {
		perLine = 8
	}
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			if i%perLine == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		fmt.Fprintf(&b, "%04X", w)
	}
	return b.String()
}

// FormatIntelHex renders words as Intel-HEX data records (one word
// per record, byte count 02, record type 00, address = word index),
// terminated by the standard `:00000001FF` EOF record.
func FormatIntelHex(words []uint16) string {
	var b strings.Builder
	for i, w := range words {
		addr := uint16(i)
		hi := byte(w >> 8)
		lo := byte(w & 0xFF)
		sum := byte(0x02) + byte(addr>>8) + byte(addr&0xFF) + byte(0x00) + hi + lo
		checksum := -sum
		fmt.Fprintf(&b, ":02%04X00%02X%02X%02X\n", addr, hi, lo, checksum)
	}
	b.WriteString(":00000001FF\n")
	return b.String()
}
