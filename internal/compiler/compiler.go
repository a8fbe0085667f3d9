/*
 * SN/X - Compile facade.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package compiler wires tokenizer, parser, semantic analyzer, CFG
// builder and dataflow analyzer into the single entry point a driver
// calls, per spec.md §4.J.
package compiler

import (
	"log/slog"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/cfg"
	"github.com/snowykr/snx-simulator/internal/dataflow"
	"github.com/snowykr/snx-simulator/internal/diag"
	"github.com/snowykr/snx-simulator/internal/parser"
	"github.com/snowykr/snx-simulator/internal/semantic"
	"github.com/snowykr/snx-simulator/internal/token"
)

// Result bundles every artifact one compile produces, whether or not
// it got far enough to build all of them.
type Result struct {
	Program     *ast.Program
	IR          *ast.IRProgram
	CFG         *cfg.CFG
	Dataflow    *dataflow.Result
	Diagnostics *diag.Collector
	RegCount    int
}

// HasErrors reports whether compilation produced any error diagnostic.
func (r *Result) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// HasWarnings reports whether compilation produced any warning.
func (r *Result) HasWarnings() bool {
	return r.Diagnostics.HasWarnings()
}

// FormatDiagnostics renders every diagnostic, one per line (plus any
// related-info lines), in the source-position order of
// diag.Collector.All.
func (r *Result) FormatDiagnostics() string {
	out := ""
	for _, d := range r.Diagnostics.All() {
		out += d.String() + "\n"
	}
	return out
}

// Compile runs the full pipeline over source: tokenize, parse,
// analyze; if static checks are enabled and IR was produced, also
// builds the CFG, checks it for unreachable code (W001) and infinite
// loops (C010), runs dataflow, and projects dataflow issues back onto
// source spans.
func Compile(source string, regCount int, runStaticChecks bool) *Result {
	diags := diag.NewCollector()

	lexer := token.NewLexer(source, diags)
	tokens := lexer.Tokenize()

	prog := parser.Parse(source, tokens, diags)

	analyzer := semantic.New(diags, regCount)
	ir := analyzer.Analyze(prog)

	result := &Result{Program: prog, IR: ir, Diagnostics: diags, RegCount: regCount}
	if ir == nil {
		slog.Debug("compile stopped before static checks: no IR", "errors", diags.Count())
		return result
	}

	if !runStaticChecks {
		return result
	}

	graph := cfg.BuildCFG(ir)
	result.CFG = graph

	for _, pc := range graph.UnreachablePCs() {
		diags.Add(diag.Diagnostic{
			Code:    diag.CodeUnreachableCode,
			Sev:     diag.SeverityWarning,
			Message: "unreachable code",
			Span:    spanForPC(ir, pc),
		})
	}
	for _, start := range graph.FindInfiniteLoopSCCs() {
		diags.Add(diag.Diagnostic{
			Code:    diag.CodeInfiniteLoop,
			Sev:     diag.SeverityError,
			Message: "no path from this loop reaches HLT",
			Span:    spanForPC(ir, start),
		})
	}

	flowAnalyzer := dataflow.New(regCount)
	flow := flowAnalyzer.Analyze(ir, graph.EntryPC)
	result.Dataflow = &flow

	for _, issue := range flow.Issues {
		diags.Add(diag.Diagnostic{
			Code:    issue.Code,
			Sev:     issue.Sev,
			Message: issue.Message,
			Span:    spanForPC(ir, issue.PC),
		})
	}

	slog.Debug("compile finished", "instructions", len(ir.Instructions),
		"diagnostics", diags.Count(), "errors", diags.HasErrors())
	return result
}

func spanForPC(ir *ast.IRProgram, pc int) diag.SourceSpan {
	for _, instr := range ir.Instructions {
		if instr.PC == pc {
			return instr.Span
		}
	}
	return diag.SourceSpan{}
}
