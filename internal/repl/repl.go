/*
 * SN/X - Interactive post-compile debugger.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package repl implements a liner-backed shell for stepping a compiled
// program through the simulator: step, regs, mem, break, continue,
// quit, with tab completion over the command set.
package repl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/snowykr/snx-simulator/internal/sim"
)

// commands is the closed set of REPL verbs, used for both dispatch and
// tab completion.
var commands = []string{"step", "regs", "mem", "break", "continue", "quit", "help"}

// REPL drives one Simulator from a liner-backed prompt.
type REPL struct {
	sim        *sim.Simulator
	out        io.Writer
	breakpoint map[int]bool
	line       *liner.State
}

// New creates a REPL over an already-constructed Simulator, writing
// output to out.
func New(s *sim.Simulator, out io.Writer) *REPL {
	r := &REPL{sim: s, out: out, breakpoint: make(map[int]bool)}
	r.line = liner.NewLiner()
	r.line.SetCtrlCAborts(true)
	r.line.SetCompleter(func(line string) []string {
		var matches []string
		for _, c := range commands {
			if strings.HasPrefix(c, strings.ToLower(line)) {
				matches = append(matches, c)
			}
		}
		sort.Strings(matches)
		return matches
	})
	return r
}

// Close releases the underlying liner terminal state.
func (r *REPL) Close() error {
	return r.line.Close()
}

// Run reads commands from the prompt until "quit" or EOF.
func (r *REPL) Run() error {
	for {
		input, err := r.line.Prompt(fmt.Sprintf("snx[$%04X]> ", r.sim.PC))
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		r.line.AppendHistory(input)

		if !r.dispatch(strings.TrimSpace(input)) {
			return nil
		}
	}
}

// dispatch executes one command line; it returns false to stop Run.
func (r *REPL) dispatch(input string) bool {
	if input == "" {
		return true
	}
	fields := strings.Fields(input)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch {
	case matchesCommand(cmd, "quit"):
		return false
	case matchesCommand(cmd, "help"):
		r.printHelp()
	case matchesCommand(cmd, "step"):
		r.doStep(args)
	case matchesCommand(cmd, "regs"):
		fmt.Fprintln(r.out, r.sim.DumpRegisters())
	case matchesCommand(cmd, "mem"):
		r.doMem(args)
	case matchesCommand(cmd, "break"):
		r.doBreak(args)
	case matchesCommand(cmd, "continue"):
		r.doContinue()
	default:
		fmt.Fprintf(r.out, "unknown command %q (try 'help')\n", cmd)
	}
	return true
}

// matchesCommand accepts any non-empty unambiguous prefix of full,
// mirroring the teacher's prefix-matched command shell.
func matchesCommand(input, full string) bool {
	return input != "" && strings.HasPrefix(full, input)
}

func (r *REPL) doStep(args []string) {
	n := 1
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}
	for i := 0; i < n && r.sim.Running; i++ {
		r.sim.Step()
		if r.breakpoint[r.sim.PC] {
			fmt.Fprintf(r.out, "breakpoint hit at $%04X\n", r.sim.PC)
			break
		}
	}
	fmt.Fprintf(r.out, "PC=$%04X running=%v\n", r.sim.PC, r.sim.Running)
}

func (r *REPL) doMem(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "usage: mem <address>")
		return
	}
	addr, err := strconv.Atoi(args[0])
	if err != nil || addr < 0 || addr >= len(r.sim.Memory) {
		fmt.Fprintf(r.out, "invalid address %q\n", args[0])
		return
	}
	fmt.Fprintf(r.out, "mem[%d] = %04X (init=%v)\n", addr, r.sim.Memory[addr], r.sim.MemInit[addr])
}

func (r *REPL) doBreak(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "usage: break <pc>")
		return
	}
	pc, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "invalid PC %q\n", args[0])
		return
	}
	r.breakpoint[pc] = true
	fmt.Fprintf(r.out, "breakpoint set at $%04X\n", pc)
}

func (r *REPL) doContinue() {
	for r.sim.Running {
		r.sim.Step()
		if r.breakpoint[r.sim.PC] {
			fmt.Fprintf(r.out, "breakpoint hit at $%04X\n", r.sim.PC)
			return
		}
	}
	fmt.Fprintln(r.out, "halted")
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "commands: step [n], regs, mem <addr>, break <pc>, continue, quit")
}
