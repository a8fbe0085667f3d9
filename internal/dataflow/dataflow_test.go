package dataflow

import (
	"testing"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/cfg"
	"github.com/snowykr/snx-simulator/internal/diag"
	"github.com/snowykr/snx-simulator/internal/parser"
	"github.com/snowykr/snx-simulator/internal/semantic"
	"github.com/snowykr/snx-simulator/internal/token"
)

func buildIRAndCFG(t *testing.T, source string, regCount int) (*ast.IRProgram, *cfg.CFG) {
	t.Helper()
	diags := diag.NewCollector()
	lexer := token.NewLexer(source, diags)
	toks := lexer.Tokenize()
	prog := parser.Parse(source, toks, diags)
	ir := semantic.New(diags, regCount).Analyze(prog)
	if ir == nil {
		t.Fatalf("analysis failed: %v", diags.All())
	}
	return ir, cfg.BuildCFG(ir)
}

func codesOf(issues []Issue) map[string]int {
	out := make(map[string]int)
	for _, i := range issues {
		out[i.Code]++
	}
	return out
}

func TestValueStateMerge(t *testing.T) {
	if Data.Merge(Data) != Data {
		t.Error("DATA join DATA should be DATA")
	}
	if Uninit.Merge(Data) != Unknown {
		t.Error("UNINIT join DATA should be UNKNOWN")
	}
	if Data.Merge(ReturnAddr) != Unknown {
		t.Error("DATA join RETURN_ADDR should be UNKNOWN")
	}
	if Uninit.Merge(Uninit) != Uninit {
		t.Error("UNINIT join UNINIT should be UNINIT")
	}
}

func TestLoadFromUninitializedStackSlotReportsD001(t *testing.T) {
	ir, graph := buildIRAndCFG(t, "MAIN:\n    LDA $3, 10($0)\n    LD $1, 0($3)\n    HLT\n", 4)
	result := New(4).Analyze(ir, graph.EntryPC)

	if codesOf(result.Issues)["D001"] == 0 {
		t.Fatalf("expected a D001 issue, got %v", result.Issues)
	}
}

func TestStoreThenLoadIsClean(t *testing.T) {
	ir, graph := buildIRAndCFG(t,
		"MAIN:\n    LDA $3, 10($0)\n    ADD $1, $0, $0\n    ST $1, 0($3)\n    LD $2, 0($3)\n    HLT\n", 4)
	result := New(4).Analyze(ir, graph.EntryPC)

	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues after store-then-load, got %v", result.Issues)
	}
}

func TestIndirectReturnOnDataValueReportsC002(t *testing.T) {
	ir, graph := buildIRAndCFG(t, "MAIN:\n    LDA $2, 5($0)\n    BAL $2, 0($2)\n    HLT\n", 4)
	result := New(4).Analyze(ir, graph.EntryPC)

	if codesOf(result.Issues)["C002"] == 0 {
		t.Fatalf("expected a C002 issue, got %v", result.Issues)
	}
}

func TestIndirectReturnOnUninitializedReportsC001(t *testing.T) {
	ir, graph := buildIRAndCFG(t, "MAIN:\n    BAL $1, 0($2)\n    HLT\n", 4)
	result := New(4).Analyze(ir, graph.EntryPC)

	if codesOf(result.Issues)["C001"] == 0 {
		t.Fatalf("expected a C001 issue, got %v", result.Issues)
	}
}

func TestIndirectReturnOnActualReturnAddressIsClean(t *testing.T) {
	ir, graph := buildIRAndCFG(t,
		"MAIN:\n    BAL $2, FOO\n    HLT\nFOO:\n    BAL $2, 0($2)\n", 4)
	result := New(4).Analyze(ir, graph.EntryPC)

	for _, issue := range result.Issues {
		if issue.Code == "C001" || issue.Code == "C002" {
			t.Errorf("unexpected %s issue for a well-formed call/return pair: %v", issue.Code, issue)
		}
	}
}
