package ast

import "github.com/snowykr/snx-simulator/internal/diag"

// OperandKind tags which Operand variant is in play.
type OperandKind int

const (
	_ OperandKind = iota
	OperandRegister
	OperandAddress
	OperandLabelRef
	OperandImmediate // reserved; unused in the current opcode set
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "register"
	case OperandAddress:
		return "address"
	case OperandLabelRef:
		return "label"
	case OperandImmediate:
		return "immediate"
	default:
		return "?"
	}
}

// Operand is the tagged-variant operand the parser produces. Exactly
// one of the per-kind accessors below is meaningful, selected by Kind.
type Operand struct {
	Kind OperandKind
	Span diag.SourceSpan

	// Register: the register index. Valid when Kind == OperandRegister.
	Register int

	// Address: signed 8-bit offset + base register index. Valid when
	// Kind == OperandAddress.
	Offset int8
	Base   int

	// LabelRef: normalized (uppercased) name and original spelling.
	// Valid when Kind == OperandLabelRef.
	Label    string
	LabelRaw string

	// Immediate: reserved for a future opcode; unused today.
	Immediate int8
}

// RegisterOperand builds a Register operand.
func RegisterOperand(index int, span diag.SourceSpan) Operand {
	return Operand{Kind: OperandRegister, Register: index, Span: span}
}

// AddressOperand builds an Address operand.
func AddressOperand(offset int8, base int, span diag.SourceSpan) Operand {
	return Operand{Kind: OperandAddress, Offset: offset, Base: base, Span: span}
}

// LabelRefOperand builds a LabelRef operand; name is already
// normalized (uppercased), raw is the original spelling as written.
func LabelRefOperand(name, raw string, span diag.SourceSpan) Operand {
	return Operand{Kind: OperandLabelRef, Label: name, LabelRaw: raw, Span: span}
}
