/*
 * SN/X - Command-line driver.
 *
 * Copyright 2026, SN/X project contributors.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/compiler"
	"github.com/snowykr/snx-simulator/internal/config"
	"github.com/snowykr/snx-simulator/internal/encoding"
	"github.com/snowykr/snx-simulator/internal/logging"
	"github.com/snowykr/snx-simulator/internal/repl"
	"github.com/snowykr/snx-simulator/internal/sample"
	"github.com/snowykr/snx-simulator/internal/sim"
	"github.com/snowykr/snx-simulator/internal/trace"
)

var Logger *slog.Logger

func main() {
	optSource := getopt.StringLong("source", 's', "", "Source file (defaults to the bundled sample)")
	optConfig := getopt.StringLong("config", 'c', "SNX.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optRegCount := getopt.IntLong("regs", 'r', 8, "Register count")
	optIntelHex := getopt.BoolLong("intel-hex", 'x', "Print Intel-HEX of the encoded program and exit")
	optCheckOnly := getopt.BoolLong("check-only", 'k', "Run static analysis only, do not simulate")
	optNoCheck := getopt.BoolLong("no-check", 'n', "Skip static analysis (tokenize/parse/analyze only)")
	optTrace := getopt.BoolLong("trace", 't', "Print an execution trace while simulating")
	optRepl := getopt.BoolLong("repl", 'i', "Drop into the interactive debugger instead of running to completion")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logOut *os.File = os.Stderr
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err == nil {
			logOut = f
		}
	}
	Logger = slog.New(logging.New(logOut, slog.LevelInfo))
	slog.SetDefault(Logger)

	cfg := config.Default()
	if f, err := os.Open(*optConfig); err == nil {
		defer f.Close()
		if loaded, err := config.Load(f); err != nil {
			Logger.Error("failed to parse config file", "file", *optConfig, "error", err)
			os.Exit(1)
		} else {
			cfg = loaded
		}
	}

	source := sample.Fib3
	if *optSource != "" {
		data, err := os.ReadFile(*optSource)
		if err != nil {
			Logger.Error("failed to read source file", "file", *optSource, "error", err)
			os.Exit(1)
		}
		source = string(data)
	}

	runStaticChecks := !*optNoCheck
	result := compiler.Compile(source, *optRegCount, runStaticChecks)

	fmt.Println("=== Static Analysis Result ===")
	fmt.Print(result.FormatDiagnostics())
	fmt.Println()

	if result.HasErrors() {
		fmt.Println("Build failed due to errors above.")
		os.Exit(1)
	}
	if result.HasWarnings() {
		fmt.Println("Build succeeded with warnings.")
		fmt.Println()
	}
	if *optCheckOnly {
		return
	}

	if *optIntelHex {
		printIntelHex(result)
		return
	}

	machine := sim.Machine{RegCount: *optRegCount, MemSize: 1024}
	if *optTrace || cfg.TraceLevel == "full" {
		fmt.Println(trace.FormatHeader(*optRegCount))
		fmt.Println(trace.FormatSeparator(*optRegCount))
		machine.TraceCallback = func(s *sim.Simulator) {
			fmt.Println(trace.FormatRow(lastExecuted(result, s.LastPC), s.Registers))
		}
	}
	s := sim.New(result.IR, machine)

	if *optRepl {
		shell := repl.New(s, os.Stdout)
		defer shell.Close()
		if err := shell.Run(); err != nil {
			Logger.Error("REPL exited with error", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("=== Execution Trace ===")
	s.Run(cfg.MaxSteps)
	fmt.Println()
	fmt.Println("=== Execution completed ===")
	fmt.Println(s.DumpRegisters())
}

func printIntelHex(result *compiler.Result) {
	words := make([]uint16, 0, len(result.IR.Instructions))
	for _, instr := range result.IR.Instructions {
		w, err := encoding.Encode(instr, result.IR.PCForLabel)
		if err != nil {
			Logger.Error("encoding failed", "pc", instr.PC, "error", err)
			os.Exit(1)
		}
		words = append(words, w)
	}
	fmt.Print(encoding.FormatIntelHex(words))
}

// lastExecuted looks up the instruction at pc for trace display. The
// simulator's trace callback fires after PC has already advanced, so
// callers needing "what just ran" pass the pre-step PC they captured.
func lastExecuted(result *compiler.Result, pc int) ast.InstructionIR {
	for _, i := range result.IR.Instructions {
		if i.PC == pc {
			return i
		}
	}
	return ast.InstructionIR{PC: pc}
}
