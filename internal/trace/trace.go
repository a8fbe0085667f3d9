/*
 * SN/X - Execution trace formatting.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package trace renders fixed-width execution-trace rows for the
// simulator's --trace mode: one header, one row per step, and a
// separator, in the style of a disassembly listing.
package trace

import (
	"fmt"
	"strings"

	"github.com/snowykr/snx-simulator/internal/ast"
)

const pcWidth = 6
const opWidth = 20

// FormatHeader renders the fixed-width column header.
func FormatHeader(regCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %-*s", pcWidth, "PC", opWidth, "INSTRUCTION")
	for r := 0; r < regCount; r++ {
		fmt.Fprintf(&b, " $%-4d", r)
	}
	return b.String()
}

// FormatSeparator renders a rule line matching FormatHeader's width.
func FormatSeparator(regCount int) string {
	width := pcWidth + 1 + opWidth + regCount*6
	return strings.Repeat("-", width)
}

// FormatRow renders one executed instruction plus the register file
// snapshot taken immediately after it ran.
func FormatRow(instr ast.InstructionIR, registers []uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-*d %-*s", pcWidth, instr.PC, opWidth, instr.Text)
	for _, v := range registers {
		fmt.Fprintf(&b, " %04X", v)
	}
	return b.String()
}
