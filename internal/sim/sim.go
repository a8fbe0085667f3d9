/*
 * SN/X - Instruction-level simulator.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package sim executes a validated IRProgram one instruction at a
// time: register file, linear memory, initialization tracking, and
// the optional hooks a driver can install, per spec.md §4.I.
package sim

import (
	"fmt"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/word"
)

// InputFunc supplies a value for IN; OutputFunc observes a value from
// OUT; OOBCallback is invoked on an out-of-bounds memory access;
// TraceCallback is invoked after every executed step.
type InputFunc func() uint16
type OutputFunc func(value uint16)
type OOBCallback func(address int, isStore bool)
type TraceCallback func(s *Simulator)

// Machine is the simulator's configuration: register and memory sizes
// plus its optional hooks.
type Machine struct {
	RegCount int
	MemSize  int

	InputFn       InputFunc
	OutputFn      OutputFunc
	OOBCallback   OOBCallback
	TraceCallback TraceCallback
}

// Simulator runs one IRProgram against a Machine configuration.
type Simulator struct {
	Machine

	ir   *ast.IRProgram
	byPC map[int]ast.InstructionIR

	Registers    []uint16
	Memory       []uint16
	RegInit      []bool
	MemInit      []bool
	PC           int
	LastPC       int // PC of the instruction Step() most recently executed
	Running      bool
	OutputBuffer []uint16
}

// New creates a Simulator over ir using m's register/memory sizes and
// hooks. PC starts at 0 and Running is true until HLT or an unmapped
// PC is reached.
func New(ir *ast.IRProgram, m Machine) *Simulator {
	if m.RegCount <= 0 {
		m.RegCount = 4
	}
	if m.MemSize <= 0 {
		m.MemSize = 256
	}
	byPC := make(map[int]ast.InstructionIR, len(ir.Instructions))
	for _, instr := range ir.Instructions {
		byPC[instr.PC] = instr
	}
	return &Simulator{
		Machine:   m,
		ir:        ir,
		byPC:      byPC,
		Registers: make([]uint16, m.RegCount),
		Memory:    make([]uint16, m.MemSize),
		RegInit:   make([]bool, m.RegCount),
		MemInit:   make([]bool, m.MemSize),
		PC:        0,
		Running:   true,
	}
}

func (s *Simulator) instructionAt(pc int) (ast.InstructionIR, bool) {
	instr, ok := s.byPC[pc]
	return instr, ok
}

// effectiveAddress resolves off(base): register 0 is substituted with
// the constant 0 for this one purpose, per spec.md §4.I's documented
// register-0 asymmetry — its stored value is never read here, even
// though register 0 is otherwise a real, writable register.
func (s *Simulator) effectiveAddress(addr ast.Operand) int {
	var baseValue uint16
	if addr.Base != 0 {
		baseValue = s.Registers[addr.Base]
	}
	return int(word.Word(int(baseValue) + int(addr.Offset)))
}

func (s *Simulator) readMemory(addr int) uint16 {
	if addr < 0 || addr >= len(s.Memory) {
		if s.OOBCallback != nil {
			s.OOBCallback(addr, false)
		}
		return 0
	}
	return s.Memory[addr]
}

func (s *Simulator) writeMemory(addr int, value uint16) {
	if addr < 0 || addr >= len(s.Memory) {
		if s.OOBCallback != nil {
			s.OOBCallback(addr, true)
		}
		return
	}
	s.Memory[addr] = value
	s.MemInit[addr] = true
}

func (s *Simulator) setRegister(r int, value uint16) {
	s.Registers[r] = value
	s.RegInit[r] = true
}

// Step executes the instruction at PC, advances PC (unless the
// instruction itself redirected it), and returns the Running flag.
func (s *Simulator) Step() bool {
	if !s.Running {
		return false
	}
	instr, ok := s.instructionAt(s.PC)
	if !ok {
		s.Running = false
		return false
	}
	s.LastPC = s.PC

	nextPC := s.PC + 1

	switch instr.Opcode {
	case ast.OpADD:
		a, b := s.Registers[instr.Operands[1].Register], s.Registers[instr.Operands[2].Register]
		s.setRegister(instr.Operands[0].Register, word.Word(int(a)+int(b)))

	case ast.OpAND:
		a, b := s.Registers[instr.Operands[1].Register], s.Registers[instr.Operands[2].Register]
		s.setRegister(instr.Operands[0].Register, a&b)

	case ast.OpSUB:
		a, b := s.Registers[instr.Operands[1].Register], s.Registers[instr.Operands[2].Register]
		s.setRegister(instr.Operands[0].Register, word.Word(int(a)-int(b)))

	case ast.OpSLT:
		a, b := word.Signed16(s.Registers[instr.Operands[1].Register]), word.Signed16(s.Registers[instr.Operands[2].Register])
		result := uint16(0)
		if a < b {
			result = 1
		}
		s.setRegister(instr.Operands[0].Register, result)

	case ast.OpNOT:
		src := s.Registers[instr.Operands[1].Register]
		s.setRegister(instr.Operands[0].Register, word.Word(int(^src)))

	case ast.OpSR:
		src := s.Registers[instr.Operands[1].Register]
		s.setRegister(instr.Operands[0].Register, src>>1)

	case ast.OpLDA:
		ea := s.effectiveAddress(instr.Operands[1])
		s.setRegister(instr.Operands[0].Register, word.Word(ea))

	case ast.OpLD:
		ea := s.effectiveAddress(instr.Operands[1])
		s.setRegister(instr.Operands[0].Register, s.readMemory(ea))

	case ast.OpST:
		ea := s.effectiveAddress(instr.Operands[1])
		s.writeMemory(ea, s.Registers[instr.Operands[0].Register])

	case ast.OpIN:
		var v uint16
		if s.InputFn != nil {
			v = s.InputFn()
		}
		s.setRegister(instr.Operands[0].Register, v)

	case ast.OpOUT:
		v := s.Registers[instr.Operands[0].Register]
		s.OutputBuffer = append(s.OutputBuffer, v)
		if s.OutputFn != nil {
			s.OutputFn(v)
		}

	case ast.OpBZ:
		if s.Registers[instr.Operands[0].Register] == 0 {
			if target, ok := s.ir.PCForLabel(instr.Operands[1].Label); ok {
				nextPC = target
			}
		}

	case ast.OpBAL:
		// Target is resolved from the link register's old value before
		// the link register is overwritten with the return address: an
		// indirect return through the same register it links (e.g.
		// "BAL rL, 0(rL)") must jump to the address it held coming in,
		// not to the return address just written into it.
		target := instr.Operands[1]
		var resolvedPC int
		if target.Kind == ast.OperandLabelRef {
			resolvedPC = nextPC
			if pc, ok := s.ir.PCForLabel(target.Label); ok {
				resolvedPC = pc
			}
		} else {
			resolvedPC = s.effectiveAddress(target)
		}
		s.setRegister(instr.Operands[0].Register, word.Word(nextPC))
		nextPC = resolvedPC

	case ast.OpHLT:
		s.Running = false

	default:
		s.Running = false
	}

	s.PC = nextPC
	if s.Running {
		if _, ok := s.instructionAt(s.PC); !ok {
			s.Running = false
		}
	}
	if s.TraceCallback != nil {
		s.TraceCallback(s)
	}
	return s.Running
}

// Run steps until halted or maxSteps is exhausted (maxSteps <= 0 means
// unbounded). It returns the number of steps actually executed.
func (s *Simulator) Run(maxSteps int) int {
	executed := 0
	for s.Running {
		if maxSteps > 0 && executed >= maxSteps {
			break
		}
		s.Step()
		executed++
	}
	return executed
}

// DumpRegisters renders "$0=0000 $1=0001 ..." for trace/REPL display.
func (s *Simulator) DumpRegisters() string {
	out := ""
	for i, v := range s.Registers {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("$%d=%04X", i, v)
	}
	return out
}
