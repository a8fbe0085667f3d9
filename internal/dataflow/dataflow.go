/*
 * SN/X - Dataflow worklist analyzer.
 *
 * Copyright 2026, SN/X project contributors.
 */

package dataflow

import (
	"fmt"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/diag"
)

// stackPointerRegister and zeroRegister are the only two address bases
// the analyzer can key a stack slot against; any other base is
// untrackable.
const (
	stackPointerRegister = 3
	zeroRegister         = 0
	zeroRegionBase       = 1000
)

// Issue is one dataflow-level diagnostic (C001-C003, D001-D002),
// reported against the instruction PC that triggered it.
type Issue struct {
	PC      int
	Code    string
	Sev     diag.Severity
	Message string
}

// Result is the outcome of one Analyze run: every issue found, plus
// the fixpoint entry state computed for each reached PC (not required
// for diagnostics alone).
type Result struct {
	Issues      []Issue
	EntryStates map[int]AbstractState
	Exhausted   bool // true if the global iteration budget ran out first
}

// Analyzer runs the forward may-analysis described in spec.md §4.G.
type Analyzer struct {
	regCount int
}

// New creates an Analyzer that seeds regCount registers at entry.
func New(regCount int) *Analyzer {
	return &Analyzer{regCount: regCount}
}

// Analyze runs the worklist fixpoint starting at entryPC. Each
// instruction's control-flow successors come from its own transfer
// step (fallthrough, resolved label target, or none for HLT and
// indirect BAL).
func (a *Analyzer) Analyze(ir *ast.IRProgram, entryPC int) Result {
	instrByPC := make(map[int]ast.InstructionIR, len(ir.Instructions))
	branchTargets := make(map[int]int, len(ir.Instructions))
	for _, instr := range ir.Instructions {
		instrByPC[instr.PC] = instr
		switch instr.Opcode {
		case ast.OpBZ, ast.OpBAL:
			for _, operand := range instr.Operands {
				if operand.Kind == ast.OperandLabelRef {
					if pc, ok := ir.PCForLabel(operand.Label); ok {
						branchTargets[instr.PC] = pc
					}
				}
			}
		}
	}

	entryStates := map[int]AbstractState{entryPC: NewEntryState(a.regCount)}
	visitCount := map[int]int{}
	queued := map[int]bool{entryPC: true}
	queue := []int{entryPC}

	var issues []Issue
	maxIterations := 10 * len(ir.Instructions)
	if maxIterations == 0 {
		maxIterations = 1
	}
	exhausted := false

	for iterations := 0; len(queue) > 0; iterations++ {
		if iterations >= maxIterations {
			exhausted = true
			break
		}

		pc := queue[0]
		queue = queue[1:]
		queued[pc] = false

		instr, ok := instrByPC[pc]
		if !ok {
			continue
		}
		visitCount[pc]++
		if visitCount[pc] > 20 {
			continue
		}

		in := entryStates[pc]
		target, hasTarget := branchTargets[pc]
		out, successors, newIssues := a.transfer(instr, in, target, hasTarget)
		issues = append(issues, newIssues...)

		for _, succ := range successors {
			if succ < 0 {
				continue
			}
			if _, ok := instrByPC[succ]; !ok {
				continue
			}
			existing, has := entryStates[succ]
			merged := out
			if has {
				merged = existing.MergeWith(out)
			}
			if !has || !merged.Equal(existing) {
				entryStates[succ] = merged
				if !queued[succ] {
					queue = append(queue, succ)
					queued[succ] = true
				}
			}
		}
	}

	return Result{Issues: issues, EntryStates: entryStates, Exhausted: exhausted}
}

// transfer applies instr's effect to in, returning the resulting
// out-state, the instruction PCs control may flow to next, and any
// issues the transfer itself raises.
func (a *Analyzer) transfer(instr ast.InstructionIR, in AbstractState, branchTarget int, hasBranchTarget bool) (AbstractState, []int, []Issue) {
	out := in.Copy()
	var issues []Issue
	fallthroughPC := instr.PC + 1
	successors := []int{fallthroughPC}

	switch instr.Opcode {
	case ast.OpADD, ast.OpAND, ast.OpSUB, ast.OpSLT:
		dest := instr.Operands[0].Register
		out.Registers[dest] = Data

	case ast.OpNOT, ast.OpSR:
		dest := instr.Operands[0].Register
		out.Registers[dest] = Data

	case ast.OpIN:
		dest := instr.Operands[0].Register
		out.Registers[dest] = Data

	case ast.OpOUT:
		// no register effect

	case ast.OpLDA:
		dest := instr.Operands[0].Register
		addr := instr.Operands[1]
		out.Registers[dest] = Data
		if dest == stackPointerRegister && addr.Base == stackPointerRegister {
			out.SPOffset += int(addr.Offset)
		}

	case ast.OpLD:
		dest := instr.Operands[0].Register
		addr := instr.Operands[1]
		key, trackable := slotKey(addr, in.SPOffset)
		var state ValueState
		if trackable {
			state = in.Slot(key)
		} else {
			state = Unknown
		}
		switch state {
		case Uninit:
			issues = append(issues, Issue{
				PC: instr.PC, Code: diag.CodeLoadUninit, Sev: diag.SeverityError,
				Message: fmt.Sprintf("load from uninitialized stack slot at PC %d", instr.PC),
			})
		case Unknown:
			issues = append(issues, Issue{
				PC: instr.PC, Code: diag.CodeLoadMaybe, Sev: diag.SeverityWarning,
				Message: fmt.Sprintf("load from possibly-uninitialized stack slot at PC %d", instr.PC),
			})
		}
		out.Registers[dest] = state

	case ast.OpST:
		src := instr.Operands[0].Register
		addr := instr.Operands[1]
		if key, trackable := slotKey(addr, in.SPOffset); trackable {
			out.StackSlots[key] = in.Register(src)
		}

	case ast.OpBZ:
		if hasBranchTarget {
			successors = []int{fallthroughPC, branchTarget}
		}

	case ast.OpBAL:
		link := instr.Operands[0].Register
		target := instr.Operands[1]
		out.Registers[link] = ReturnAddr

		if target.Kind == ast.OperandLabelRef {
			if hasBranchTarget {
				successors = []int{fallthroughPC, branchTarget}
			}
		} else {
			baseState := in.Register(target.Base)
			switch baseState {
			case Uninit:
				issues = append(issues, Issue{
					PC: instr.PC, Code: diag.CodeReturnUninit, Sev: diag.SeverityError,
					Message: fmt.Sprintf("indirect return at PC %d reads an uninitialized register", instr.PC),
				})
			case Data:
				issues = append(issues, Issue{
					PC: instr.PC, Code: diag.CodeReturnNotAddr, Sev: diag.SeverityError,
					Message: fmt.Sprintf("indirect return at PC %d reads a register holding data, not a return address", instr.PC),
				})
			case Unknown:
				issues = append(issues, Issue{
					PC: instr.PC, Code: diag.CodeReturnMaybeAddr, Sev: diag.SeverityWarning,
					Message: fmt.Sprintf("indirect return at PC %d reads a register of uncertain origin", instr.PC),
				})
			}
			successors = nil
		}

	case ast.OpHLT:
		successors = nil
	}

	return out, successors, issues
}

// slotKey maps an Address operand to a stack-slot key: sp_offset +
// signed offset when based on the stack-pointer register, a separate
// 1000+offset region when based on the zero register, and untrackable
// (false) for any other base.
func slotKey(addr ast.Operand, spOffset int) (int, bool) {
	switch addr.Base {
	case stackPointerRegister:
		return spOffset + int(addr.Offset), true
	case zeroRegister:
		return zeroRegionBase + int(addr.Offset), true
	default:
		return 0, false
	}
}
