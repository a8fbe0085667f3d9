/*
 * SN/X - Control-flow graph construction.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package cfg builds the SN/X control-flow graph from an IRProgram —
// basic blocks, typed edges, reachability, and Tarjan's strongly
// connected components for infinite-loop detection — per spec.md §4.F.
package cfg

import (
	"sort"

	"github.com/snowykr/snx-simulator/internal/ast"
)

// EdgeKind classifies a CFG edge.
type EdgeKind int

const (
	EdgeFallthrough EdgeKind = iota
	EdgeBranchTaken
	EdgeBranchNotTaken
	EdgeCall
	EdgeReturn
	EdgeUnconditional
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeFallthrough:
		return "FALLTHROUGH"
	case EdgeBranchTaken:
		return "BRANCH_TAKEN"
	case EdgeBranchNotTaken:
		return "BRANCH_NOT_TAKEN"
	case EdgeCall:
		return "CALL"
	case EdgeReturn:
		return "RETURN"
	case EdgeUnconditional:
		return "UNCONDITIONAL"
	default:
		return "?"
	}
}

// IndirectReturnTarget is the sentinel target PC for a BAL-to-address
// edge: the return site cannot be resolved statically.
const IndirectReturnTarget = -1

// Edge is one typed CFG edge. SourcePC is the PC of the instruction
// that produced the edge (always a block's last instruction);
// TargetPC is either a block's StartPC or IndirectReturnTarget.
type Edge struct {
	SourcePC int
	TargetPC int
	Kind     EdgeKind
}

// BasicBlock is a maximal run of instructions with one entry at the
// top and one exit at the bottom.
type BasicBlock struct {
	StartPC      int
	EndPC        int // inclusive
	Instructions []ast.InstructionIR
	Successors   []int // block StartPCs; excludes IndirectReturnTarget
	Predecessors []int // block StartPCs
	IsEntry      bool
	IsExit       bool // last instruction is HLT
	Labels       []string
}

// CFG is the control-flow graph of an IRProgram.
type CFG struct {
	Blocks   map[int]*BasicBlock // keyed by StartPC
	Order    []int               // block StartPCs, ascending
	Edges    []Edge
	EntryPC  int
	ExitPCs  []int          // instruction PCs of HLT
	LabelsAt map[int][]string // PC -> labels pinned there
}

// GetBlockAt returns the block containing instruction PC pc.
func (c *CFG) GetBlockAt(pc int) (*BasicBlock, bool) {
	for _, start := range c.Order {
		b := c.Blocks[start]
		if pc >= b.StartPC && pc <= b.EndPC {
			return b, true
		}
	}
	return nil, false
}

// GetSuccessors returns the successor block StartPCs of the block
// starting at startPC.
func (c *CFG) GetSuccessors(startPC int) []int {
	if b, ok := c.Blocks[startPC]; ok {
		return b.Successors
	}
	return nil
}

// GetPredecessors returns the predecessor block StartPCs of the block
// starting at startPC.
func (c *CFG) GetPredecessors(startPC int) []int {
	if b, ok := c.Blocks[startPC]; ok {
		return b.Predecessors
	}
	return nil
}

// BuildCFG constructs the control-flow graph for ir.
func BuildCFG(ir *ast.IRProgram) *CFG {
	instructions := ir.Instructions
	pcToInstr := make(map[int]ast.InstructionIR, len(instructions))
	lastPC := -1
	for _, instr := range instructions {
		pcToInstr[instr.PC] = instr
		if instr.PC > lastPC {
			lastPC = instr.PC
		}
	}

	labelsAt := make(map[int][]string)
	for name, pc := range ir.Labels {
		labelsAt[pc] = append(labelsAt[pc], name)
	}
	for pc := range labelsAt {
		sort.Strings(labelsAt[pc])
	}

	starts := map[int]bool{0: true}
	for pc := range labelsAt {
		starts[pc] = true
	}
	for _, instr := range instructions {
		switch instr.Opcode {
		case ast.OpBZ:
			if target, ok := branchLabelTarget(instr, ir); ok {
				starts[target] = true
			}
			if _, ok := pcToInstr[instr.PC+1]; ok {
				starts[instr.PC+1] = true
			}
		case ast.OpBAL:
			if isLabelRefOperand(instr) {
				if target, ok := branchLabelTarget(instr, ir); ok {
					starts[target] = true
				}
			}
			if _, ok := pcToInstr[instr.PC+1]; ok {
				starts[instr.PC+1] = true
			}
		case ast.OpHLT:
			if _, ok := pcToInstr[instr.PC+1]; ok {
				starts[instr.PC+1] = true
			}
		}
	}

	sortedStarts := make([]int, 0, len(starts))
	for pc := range starts {
		sortedStarts = append(sortedStarts, pc)
	}
	sort.Ints(sortedStarts)

	blocks := make(map[int]*BasicBlock, len(sortedStarts))
	for i, start := range sortedStarts {
		end := lastPC
		if i+1 < len(sortedStarts) {
			end = sortedStarts[i+1] - 1
		}
		var blockInstrs []ast.InstructionIR
		for pc := start; pc <= end; pc++ {
			if instr, ok := pcToInstr[pc]; ok {
				blockInstrs = append(blockInstrs, instr)
			}
		}
		blocks[start] = &BasicBlock{
			StartPC:      start,
			EndPC:        end,
			Instructions: blockInstrs,
			Labels:       labelsAt[start],
		}
	}

	var edges []Edge
	var exitPCs []int
	for _, start := range sortedStarts {
		block := blocks[start]
		if len(block.Instructions) == 0 {
			continue
		}
		last := block.Instructions[len(block.Instructions)-1]

		switch last.Opcode {
		case ast.OpHLT:
			block.IsExit = true
			exitPCs = append(exitPCs, last.PC)

		case ast.OpBZ:
			if target, ok := branchLabelTarget(last, ir); ok {
				edges = append(edges, Edge{SourcePC: last.PC, TargetPC: target, Kind: EdgeBranchTaken})
			}
			if _, ok := pcToInstr[last.PC+1]; ok {
				edges = append(edges, Edge{SourcePC: last.PC, TargetPC: last.PC + 1, Kind: EdgeBranchNotTaken})
			}

		case ast.OpBAL:
			if isLabelRefOperand(last) {
				if target, ok := branchLabelTarget(last, ir); ok {
					edges = append(edges, Edge{SourcePC: last.PC, TargetPC: target, Kind: EdgeCall})
				}
				if _, ok := pcToInstr[last.PC+1]; ok {
					edges = append(edges, Edge{SourcePC: last.PC, TargetPC: last.PC + 1, Kind: EdgeFallthrough})
				}
			} else {
				edges = append(edges, Edge{SourcePC: last.PC, TargetPC: IndirectReturnTarget, Kind: EdgeReturn})
			}

		default:
			if _, ok := pcToInstr[last.PC+1]; ok {
				edges = append(edges, Edge{SourcePC: last.PC, TargetPC: last.PC + 1, Kind: EdgeFallthrough})
			}
		}
	}

	for _, e := range edges {
		if e.TargetPC < 0 {
			continue
		}
		srcBlock, ok := blockContaining(blocks, sortedStarts, e.SourcePC)
		if !ok {
			continue
		}
		srcBlock.Successors = appendUnique(srcBlock.Successors, e.TargetPC)
		if dstBlock, ok := blocks[e.TargetPC]; ok {
			dstBlock.Predecessors = appendUnique(dstBlock.Predecessors, srcBlock.StartPC)
		}
	}
	for _, start := range sortedStarts {
		sort.Ints(blocks[start].Successors)
		sort.Ints(blocks[start].Predecessors)
	}

	entryPC := 0
	if mainPC, ok := ir.Labels["MAIN"]; ok {
		entryPC = mainPC
	}
	if entryBlock, ok := blockContaining(blocks, sortedStarts, entryPC); ok {
		entryBlock.IsEntry = true
	}
	sort.Ints(exitPCs)

	return &CFG{
		Blocks:   blocks,
		Order:    sortedStarts,
		Edges:    edges,
		EntryPC:  entryPC,
		ExitPCs:  exitPCs,
		LabelsAt: labelsAt,
	}
}

func branchLabelTarget(instr ast.InstructionIR, ir *ast.IRProgram) (int, bool) {
	for _, operand := range instr.Operands {
		if operand.Kind == ast.OperandLabelRef {
			return ir.PCForLabel(operand.Label)
		}
	}
	return 0, false
}

func isLabelRefOperand(instr ast.InstructionIR) bool {
	for _, operand := range instr.Operands {
		if operand.Kind == ast.OperandLabelRef {
			return true
		}
	}
	return false
}

func blockContaining(blocks map[int]*BasicBlock, order []int, pc int) (*BasicBlock, bool) {
	for _, start := range order {
		b := blocks[start]
		if pc >= b.StartPC && pc <= b.EndPC {
			return b, true
		}
	}
	return nil, false
}

func appendUnique(list []int, v int) []int {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
