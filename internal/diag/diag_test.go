package diag

import "testing"

func TestAddLineErrorChainsRelated(t *testing.T) {
	c := NewCollector()
	c.AddLineError(Diagnostic{Code: "P003", Sev: SeverityError, Message: "first", Span: SourceSpan{StartLine: 1, StartCol: 1, EndCol: 2}})
	c.AddLineError(Diagnostic{Code: "P003", Sev: SeverityError, Message: "second", Span: SourceSpan{StartLine: 1, StartCol: 5, EndCol: 6}})

	all := c.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 top-level diagnostic, got %d", len(all))
	}
	if len(all[0].Related) != 1 {
		t.Fatalf("expected 1 related info entry, got %d", len(all[0].Related))
	}
	if all[0].Related[0].Message != "second" {
		t.Errorf("related message = %q, want %q", all[0].Related[0].Message, "second")
	}
}

func TestAddLineErrorSeparateLines(t *testing.T) {
	c := NewCollector()
	c.AddLineError(Diagnostic{Code: "P003", Sev: SeverityError, Span: SourceSpan{StartLine: 1}})
	c.AddLineError(Diagnostic{Code: "P003", Sev: SeverityError, Span: SourceSpan{StartLine: 2}})

	if len(c.All()) != 2 {
		t.Fatalf("expected 2 diagnostics on separate lines, got %d", len(c.All()))
	}
}

func TestAllSortsByPosition(t *testing.T) {
	c := NewCollector()
	c.Add(Diagnostic{Span: SourceSpan{StartLine: 5, StartCol: 1}})
	c.Add(Diagnostic{Span: SourceSpan{StartLine: 1, StartCol: 9}})
	c.Add(Diagnostic{Span: SourceSpan{StartLine: 1, StartCol: 2}})

	all := c.All()
	if all[0].Span.StartLine != 1 || all[0].Span.StartCol != 2 {
		t.Errorf("first diagnostic = %v, want line 1 col 2", all[0].Span)
	}
	if all[1].Span.StartCol != 9 {
		t.Errorf("second diagnostic col = %d, want 9", all[1].Span.StartCol)
	}
	if all[2].Span.StartLine != 5 {
		t.Errorf("third diagnostic line = %d, want 5", all[2].Span.StartLine)
	}
}

func TestHasErrorsAndWarnings(t *testing.T) {
	c := NewCollector()
	c.Add(Diagnostic{Sev: SeverityWarning})
	if c.HasErrors() {
		t.Error("HasErrors() true with only a warning present")
	}
	if !c.HasWarnings() {
		t.Error("HasWarnings() false with a warning present")
	}
	c.Add(Diagnostic{Sev: SeverityError})
	if !c.HasErrors() {
		t.Error("HasErrors() false after adding an error")
	}
}

func TestSourceSpanString(t *testing.T) {
	s := SourceSpan{StartLine: 3, StartCol: 1, EndLine: 3, EndCol: 4}
	if got, want := s.String(), "3:1-4"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	multi := SourceSpan{StartLine: 3, StartCol: 1, EndLine: 4, EndCol: 2}
	if got, want := multi.String(), "3:1-4:2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
