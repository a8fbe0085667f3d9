/*
 * SN/X - Opcode set.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package ast defines the surface types shared by the parser, the
// semantic analyzer, the CFG builder and the encoder: the closed
// opcode set, the tagged-variant operand types, and the program/IR
// containers that flow between them.
package ast

import "strings"

// Opcode is one of the closed set of SN/X mnemonics.
type Opcode int

const (
	OpInvalid Opcode = iota
	OpADD
	OpAND
	OpSUB
	OpSLT
	OpNOT
	OpSR
	OpLDA
	OpLD
	OpST
	OpIN
	OpOUT
	OpBZ
	OpBAL
	OpHLT
)

var opcodeNames = map[Opcode]string{
	OpADD: "ADD",
	OpAND: "AND",
	OpSUB: "SUB",
	OpSLT: "SLT",
	OpNOT: "NOT",
	OpSR:  "SR",
	OpLDA: "LDA",
	OpLD:  "LD",
	OpST:  "ST",
	OpIN:  "IN",
	OpOUT: "OUT",
	OpBZ:  "BZ",
	OpBAL: "BAL",
	OpHLT: "HLT",
}

var namesToOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// String renders the opcode's canonical mnemonic, or "?" for OpInvalid.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "?"
}

// OpcodeFromString resolves a mnemonic case-insensitively. ok is false
// for any string that isn't one of the fourteen known mnemonics; the
// caller still gets OpInvalid back so an InstructionNode can be built
// with a null opcode and analysis can continue (per spec.md §4.D).
func OpcodeFromString(s string) (Opcode, bool) {
	op, ok := namesToOpcode[strings.ToUpper(s)]
	return op, ok
}

// OperandSlot describes one position of an opcode's expected operand
// shape: which OperandKind the operand must be. A LabelRef slot also
// accepts Address, only for BAL's second operand — see Alternate.
type OperandSlot struct {
	Kind      OperandKind
	Alternate OperandKind // zero value OperandKind(0) means "no alternate"
}

var operandSpecs = map[Opcode][]OperandSlot{
	OpADD: {{Kind: OperandRegister}, {Kind: OperandRegister}, {Kind: OperandRegister}},
	OpAND: {{Kind: OperandRegister}, {Kind: OperandRegister}, {Kind: OperandRegister}},
	OpSUB: {{Kind: OperandRegister}, {Kind: OperandRegister}, {Kind: OperandRegister}},
	OpSLT: {{Kind: OperandRegister}, {Kind: OperandRegister}, {Kind: OperandRegister}},
	OpNOT: {{Kind: OperandRegister}, {Kind: OperandRegister}},
	OpSR:  {{Kind: OperandRegister}, {Kind: OperandRegister}},
	OpLDA: {{Kind: OperandRegister}, {Kind: OperandAddress}},
	OpLD:  {{Kind: OperandRegister}, {Kind: OperandAddress}},
	OpST:  {{Kind: OperandRegister}, {Kind: OperandAddress}},
	OpIN:  {{Kind: OperandRegister}},
	OpOUT: {{Kind: OperandRegister}},
	OpBZ:  {{Kind: OperandRegister}, {Kind: OperandLabelRef}},
	OpBAL: {{Kind: OperandRegister}, {Kind: OperandLabelRef, Alternate: OperandAddress}},
	OpHLT: {},
}

// OperandSpecFor returns the expected operand slots for op, and false
// for OpInvalid (unknown mnemonics carry no operand contract).
func OperandSpecFor(op Opcode) ([]OperandSlot, bool) {
	spec, ok := operandSpecs[op]
	return spec, ok
}
