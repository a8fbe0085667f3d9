package ast

import "github.com/snowykr/snx-simulator/internal/diag"

// InstructionIR is a validated instruction: opcode, operand tuple,
// display text, and the program counter it was assigned during
// semantic analysis.
type InstructionIR struct {
	Opcode   Opcode
	Operands []Operand
	Text     string // display text, e.g. "ADD $1, $2, $3"
	PC       int
	Span     diag.SourceSpan
}

// IRProgram is the output of a successful semantic analysis pass: the
// ordered instruction stream plus the resolved label table.
type IRProgram struct {
	Instructions []InstructionIR
	Labels       map[string]int // normalized label name -> PC
}

// PCForLabel resolves a normalized label name to its PC.
func (p *IRProgram) PCForLabel(name string) (int, bool) {
	pc, ok := p.Labels[name]
	return pc, ok
}
