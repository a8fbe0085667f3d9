package config

import (
	"strings"
	"testing"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	if cfg.TraceLevel != "off" || cfg.MaxSteps != 100000 || cfg.EntryLabel != "MAIN" || !cfg.CheckMandatory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesRecognizedKeys(t *testing.T) {
	src := "trace=full\nmaxsteps 500\nentry start\ncheckmandatory=false\n"
	cfg, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TraceLevel != "full" {
		t.Fatalf("TraceLevel = %q, want %q", cfg.TraceLevel, "full")
	}
	if cfg.MaxSteps != 500 {
		t.Fatalf("MaxSteps = %d, want 500", cfg.MaxSteps)
	}
	if cfg.EntryLabel != "START" {
		t.Fatalf("EntryLabel = %q, want %q", cfg.EntryLabel, "START")
	}
	if cfg.CheckMandatory {
		t.Fatal("expected CheckMandatory to be false")
	}
}

func TestLoadIgnoresBlankAndCommentLines(t *testing.T) {
	src := "; a comment\n\n# another comment\ntrace=summary\n"
	cfg, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TraceLevel != "summary" {
		t.Fatalf("TraceLevel = %q, want %q", cfg.TraceLevel, "summary")
	}
}

func TestLoadRejectsUnrecognizedOption(t *testing.T) {
	_, err := Load(strings.NewReader("bogus=1\n"))
	if err == nil {
		t.Fatal("expected an error for an unrecognized option")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("error %q missing line number", err)
	}
}

func TestLoadRejectsMalformedMaxSteps(t *testing.T) {
	_, err := Load(strings.NewReader("maxsteps=notanumber\n"))
	if err == nil {
		t.Fatal("expected an error for a non-numeric maxsteps value")
	}
}

func TestLoadRejectsLineWithNoValue(t *testing.T) {
	_, err := Load(strings.NewReader("trace\n"))
	if err == nil {
		t.Fatal("expected an error for a key with no value")
	}
}
