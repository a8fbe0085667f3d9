/*
 * SN/X - Semantic analyzer.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package semantic implements the SN/X two-pass analyzer: AST to IR,
// label table construction, and operand arity/type/range checking,
// per spec.md §4.E.
package semantic

import (
	"fmt"
	"strings"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/diag"
)

// Analyzer runs the two-pass label/IR construction described in
// spec.md §4.E.
type Analyzer struct {
	diags    *diag.Collector
	regCount int
}

// New creates an Analyzer that validates register operands against
// [0, regCount) and reports diagnostics into diags.
func New(diags *diag.Collector, regCount int) *Analyzer {
	return &Analyzer{diags: diags, regCount: regCount}
}

type labelEntry struct {
	PC   int
	Span diag.SourceSpan
}

// Analyze runs both passes over prog. It returns the IRProgram on
// success, or nil if any error diagnostic was produced (by this pass
// or an earlier one already recorded in the collector) — per spec.md
// §4.E, IR is withheld whenever errors exist.
func (a *Analyzer) Analyze(prog *ast.Program) *ast.IRProgram {
	labels := a.buildLabelTable(prog)
	instructions := a.analyzeInstructions(prog, labels)

	if a.diags.HasErrors() {
		return nil
	}

	resolved := make(map[string]int, len(labels))
	for name, entry := range labels {
		resolved[name] = entry.PC
	}
	return &ast.IRProgram{Instructions: instructions, Labels: resolved}
}

// buildLabelTable is pass 1: assigns each instruction a PC (labels
// alone never advance PC), and records label -> PC for the first
// instruction at or after each label's line. Every repeated definition
// of a label name is reported where it occurs, with related-info
// pointing at the first definition.
func (a *Analyzer) buildLabelTable(prog *ast.Program) map[string]labelEntry {
	labels := make(map[string]labelEntry)
	seen := make(map[string]diag.SourceSpan)
	var pending []ast.LabelDef
	pc := 0

	for _, line := range prog.Lines {
		if line.Label != nil {
			name := line.Label.Name
			if prevSpan, dup := seen[name]; dup {
				a.diags.Add(diag.Diagnostic{
					Code:    diag.CodeDuplicateLabel,
					Sev:     diag.SeverityError,
					Message: "duplicate label '" + line.Label.Raw + "'",
					Span:    line.Label.Span,
					Related: []diag.RelatedInfo{{
						Message: "previous definition of '" + line.Label.Raw + "' here",
						Span:    prevSpan,
					}},
				})
			} else {
				seen[name] = line.Label.Span
				pending = append(pending, *line.Label)
			}
		}

		if line.HasInstruction() {
			for _, ld := range pending {
				if _, exists := labels[ld.Name]; !exists {
					labels[ld.Name] = labelEntry{PC: pc, Span: ld.Span}
				}
			}
			pending = nil
			pc++
		}
	}
	return labels
}

// analyzeInstructions is pass 2: validates each instruction's operand
// shape against its opcode's signature and builds the InstructionIR
// stream. PC assignment mirrors buildLabelTable exactly (every
// instruction-bearing line advances PC by one, in source order).
func (a *Analyzer) analyzeInstructions(prog *ast.Program, labels map[string]labelEntry) []ast.InstructionIR {
	var out []ast.InstructionIR
	pc := 0

	for _, line := range prog.Lines {
		if !line.HasInstruction() {
			continue
		}
		instr := line.Instruction
		if instr.Opcode != ast.OpInvalid {
			a.checkOperands(instr, labels)
			out = append(out, ast.InstructionIR{
				Opcode:   instr.Opcode,
				Operands: instr.Operands,
				Text:     renderText(instr),
				PC:       pc,
				Span:     instr.Span,
			})
		}
		pc++
	}
	return out
}

func (a *Analyzer) checkOperands(instr *ast.InstructionNode, labels map[string]labelEntry) {
	slots, _ := ast.OperandSpecFor(instr.Opcode)

	if len(instr.Operands) != len(slots) {
		a.diags.AddLineError(diag.Diagnostic{
			Code: diag.CodeWrongArity,
			Sev:  diag.SeverityError,
			Message: fmt.Sprintf("%s expects %d operand(s), got %d",
				instr.Opcode, len(slots), len(instr.Operands)),
			Span: instr.Span,
		})
		return
	}

	for i, slot := range slots {
		operand := instr.Operands[i]
		if operand.Kind != slot.Kind && (slot.Alternate == 0 || operand.Kind != slot.Alternate) {
			a.diags.AddLineError(diag.Diagnostic{
				Code: diag.CodeWrongOperandType,
				Sev:  diag.SeverityError,
				Message: fmt.Sprintf("%s operand %d: expected %s, got %s",
					instr.Opcode, i+1, expectedKindName(slot), operand.Kind),
				Span: operand.Span,
			})
			continue
		}

		switch operand.Kind {
		case ast.OperandRegister:
			a.checkRegisterRange(operand.Register, operand.Span)
		case ast.OperandAddress:
			a.checkRegisterRange(operand.Base, operand.Span)
		case ast.OperandLabelRef:
			if _, ok := labels[operand.Label]; !ok {
				a.diags.AddLineError(diag.Diagnostic{
					Code:    diag.CodeUndefinedLabel,
					Sev:     diag.SeverityError,
					Message: "undefined label '" + operand.LabelRaw + "'",
					Span:    operand.Span,
				})
			}
		}
	}
}

func (a *Analyzer) checkRegisterRange(index int, span diag.SourceSpan) {
	if index < 0 || index >= a.regCount {
		a.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeRegisterRange,
			Sev:     diag.SeverityError,
			Message: fmt.Sprintf("register $%d out of range [0, %d)", index, a.regCount),
			Span:    span,
		})
	}
}

func expectedKindName(slot ast.OperandSlot) string {
	if slot.Alternate == 0 {
		return slot.Kind.String()
	}
	return slot.Kind.String() + " or " + slot.Alternate.String()
}

func renderText(instr *ast.InstructionNode) string {
	var parts []string
	for _, operand := range instr.Operands {
		switch operand.Kind {
		case ast.OperandRegister:
			parts = append(parts, fmt.Sprintf("$%d", operand.Register))
		case ast.OperandAddress:
			parts = append(parts, fmt.Sprintf("%d($%d)", operand.Offset, operand.Base))
		case ast.OperandLabelRef:
			parts = append(parts, operand.LabelRaw)
		}
	}
	if len(parts) == 0 {
		return instr.Mnemonic
	}
	return instr.Mnemonic + " " + strings.Join(parts, ", ")
}
