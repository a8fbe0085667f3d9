package ast

import "github.com/snowykr/snx-simulator/internal/diag"

// LabelDef is a label definition pinned to a line ("L:").
type LabelDef struct {
	Name string // normalized (uppercased)
	Raw  string // original spelling
	Span diag.SourceSpan
}

// InstructionNode is a parsed instruction: a (possibly null, for an
// unknown mnemonic) opcode plus its operand list.
type InstructionNode struct {
	Opcode   Opcode
	Mnemonic string // original spelling, for diagnostics on unknown mnemonics
	Operands []Operand
	Span     diag.SourceSpan
}

// Line is one source line: an optional label definition, an optional
// instruction, the raw text, and the 1-based line number.
type Line struct {
	Number      int
	Raw         string
	Label       *LabelDef
	Instruction *InstructionNode
}

// HasLabel reports whether this line defines a label.
func (l Line) HasLabel() bool { return l.Label != nil }

// HasInstruction reports whether this line carries an instruction.
func (l Line) HasInstruction() bool { return l.Instruction != nil }

// Program is an ordered sequence of parsed lines.
type Program struct {
	Lines []Line
}
