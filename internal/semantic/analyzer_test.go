package semantic

import (
	"testing"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/diag"
	"github.com/snowykr/snx-simulator/internal/parser"
	"github.com/snowykr/snx-simulator/internal/token"
)

func analyzeSource(t *testing.T, source string, regCount int) (*ast.IRProgram, *diag.Collector) {
	t.Helper()
	diags := diag.NewCollector()
	lexer := token.NewLexer(source, diags)
	toks := lexer.Tokenize()
	prog := parser.Parse(source, toks, diags)
	ir := New(diags, regCount).Analyze(prog)
	return ir, diags
}

func TestAnalyzeAssignsSequentialPCs(t *testing.T) {
	ir, diags := analyzeSource(t, "main:\n    ADD $1, $2, $3\n    HLT\n", 4)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	if len(ir.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(ir.Instructions))
	}
	if ir.Instructions[0].PC != 0 || ir.Instructions[1].PC != 1 {
		t.Fatalf("PCs = %d, %d; want 0, 1", ir.Instructions[0].PC, ir.Instructions[1].PC)
	}
	if pc, ok := ir.PCForLabel("MAIN"); !ok || pc != 0 {
		t.Fatalf("MAIN label resolves to (%d, %v), want (0, true)", pc, ok)
	}
}

func TestDuplicateLabelReportsS006(t *testing.T) {
	_, diags := analyzeSource(t, "a:\nHLT\na:\nHLT\n", 4)
	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.CodeDuplicateLabel {
		t.Fatalf("expected one S006, got %v", all)
	}
	if len(all[0].Related) != 1 {
		t.Fatalf("expected related info pointing at first definition, got %v", all[0].Related)
	}
}

func TestDuplicatePendingLabelsCaughtBeforeResolution(t *testing.T) {
	_, diags := analyzeSource(t, "a:\na:\nHLT\n", 4)
	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.CodeDuplicateLabel {
		t.Fatalf("expected one S006 for two unresolved pending labels, got %v", all)
	}
}

func TestWrongArityReportsS002(t *testing.T) {
	_, diags := analyzeSource(t, "ADD $1, $2\n", 4)
	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.CodeWrongArity {
		t.Fatalf("expected one S002, got %v", all)
	}
}

func TestUndefinedLabelReportsS004(t *testing.T) {
	_, diags := analyzeSource(t, "BZ $1, NOWHERE\n", 4)
	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.CodeUndefinedLabel {
		t.Fatalf("expected one S004, got %v", all)
	}
}

func TestRegisterOutOfRangeReportsS005(t *testing.T) {
	_, diags := analyzeSource(t, "ADD $1, $2, $9\n", 4)
	all := diags.All()
	if len(all) != 1 || all[0].Code != diag.CodeRegisterRange {
		t.Fatalf("expected one S005, got %v", all)
	}
}

func TestIRWithheldOnErrors(t *testing.T) {
	ir, diags := analyzeSource(t, "ADD $1, $2\n", 4)
	if !diags.HasErrors() {
		t.Fatal("expected an error diagnostic")
	}
	if ir != nil {
		t.Fatal("expected nil IR when errors are present")
	}
}

func TestBALAcceptsLabelOrAddress(t *testing.T) {
	ir, diags := analyzeSource(t, "MAIN:\n    BAL $1, MAIN\n    BAL $2, 0($2)\n", 4)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	if ir.Instructions[0].Operands[1].Kind != ast.OperandLabelRef {
		t.Error("first BAL operand should parse as a label reference")
	}
	if ir.Instructions[1].Operands[1].Kind != ast.OperandAddress {
		t.Error("second BAL operand should parse as an address")
	}
}
