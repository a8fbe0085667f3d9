package compiler

import (
	"strings"
	"testing"

	"github.com/snowykr/snx-simulator/internal/diag"
)

func TestCompileCleanProgramProducesNoDiagnostics(t *testing.T) {
	result := Compile("MAIN:\n    LDA $1, 5($0)\n    HLT\n", 4, true)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %s", result.FormatDiagnostics())
	}
	if result.IR == nil || result.CFG == nil || result.Dataflow == nil {
		t.Fatal("expected a full pipeline result for a clean program")
	}
}

func TestCompileStopsBeforeStaticChecksOnParseError(t *testing.T) {
	result := Compile("MAIN:\n    BOGUS $1, $2\n    HLT\n", 4, true)
	if !result.HasErrors() {
		t.Fatal("expected a parse/semantic error for an unknown mnemonic")
	}
	if result.CFG != nil || result.Dataflow != nil {
		t.Fatal("expected no CFG or dataflow result once IR failed to build")
	}
}

func TestCompileSkipsStaticChecksWhenDisabled(t *testing.T) {
	result := Compile("MAIN:\n    LDA $1, 5($0)\n    HLT\n", 4, false)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %s", result.FormatDiagnostics())
	}
	if result.CFG != nil || result.Dataflow != nil {
		t.Fatal("expected CFG/dataflow to stay nil when static checks are disabled")
	}
}

func TestCompileReportsUnreachableCode(t *testing.T) {
	result := Compile("MAIN:\n    HLT\n    LDA $1, 1($0)\n", 4, true)
	if !result.HasWarnings() {
		t.Fatalf("expected a warning for code after HLT, got: %s", result.FormatDiagnostics())
	}
	found := false
	for _, d := range result.Diagnostics.All() {
		if d.Code == diag.CodeUnreachableCode {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among diagnostics, got: %s", diag.CodeUnreachableCode, result.FormatDiagnostics())
	}
}

func TestCompileReportsInfiniteLoop(t *testing.T) {
	result := Compile("MAIN:\n    BZ $0, MAIN\n", 4, true)
	if !result.HasErrors() {
		t.Fatalf("expected an infinite-loop error, got: %s", result.FormatDiagnostics())
	}
	found := false
	for _, d := range result.Diagnostics.All() {
		if d.Code == diag.CodeInfiniteLoop {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among diagnostics, got: %s", diag.CodeInfiniteLoop, result.FormatDiagnostics())
	}
}

func TestCompileProjectsDataflowIssuesOntoSourceSpans(t *testing.T) {
	result := Compile("MAIN:\n    LDA $3, 10($0)\n    LD $1, 0($3)\n    HLT\n", 4, true)
	if !result.HasErrors() {
		t.Fatal("expected a D001 error for the uninitialized load")
	}
	for _, d := range result.Diagnostics.All() {
		if d.Code == diag.CodeLoadUninit {
			if d.Span.StartLine == 0 {
				t.Fatalf("expected a real source span for %s, got zero-value span", diag.CodeLoadUninit)
			}
			return
		}
	}
	t.Fatalf("expected %s among diagnostics, got: %s", diag.CodeLoadUninit, result.FormatDiagnostics())
}

func TestFormatDiagnosticsRendersOnePerLine(t *testing.T) {
	result := Compile("MAIN:\n    BZ $0, MAIN\n", 4, true)
	out := result.FormatDiagnostics()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(result.Diagnostics.All()) {
		t.Fatalf("got %d lines for %d diagnostics", len(lines), len(result.Diagnostics.All()))
	}
}
