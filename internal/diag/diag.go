/*
 * SN/X - Diagnostic collection.
 *
 * Copyright 2026, SN/X project contributors.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package diag implements the diagnostic model shared by every stage of
// the SN/X toolchain: source spans, diagnostics with chained related
// info, and a collector that aggregates them in source order.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// SourceSpan locates a diagnostic in the source text. Lines and columns
// are 1-based; EndCol is exclusive, so a span covering a single
// character "x" at line 1 column 1 has StartCol 1, EndCol 2.
type SourceSpan struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

func (s SourceSpan) String() string {
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%d:%d-%d", s.StartLine, s.StartCol, s.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// RelatedInfo attaches secondary context to a Diagnostic, e.g. pointing
// back at a conflicting label definition.
type RelatedInfo struct {
	Message string
	Span    SourceSpan
}

// Diagnostic is a single finding: a stable code, a severity, a message,
// the span it applies to, and a chain of related info.
type Diagnostic struct {
	Code    string
	Sev     Severity
	Message string
	Span    SourceSpan
	Related []RelatedInfo
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s [%s] %s", d.Span, d.Sev, d.Code, d.Message)
	for _, r := range d.Related {
		fmt.Fprintf(&b, "\n    note: %s: %s", r.Span, r.Message)
	}
	return b.String()
}

// Collector accumulates diagnostics across a compile run. A second
// error reported for a line that already has a primary diagnostic is
// folded into that diagnostic's Related chain rather than reported as
// a separate top-level finding, mirroring the line-primary chaining in
// the original diagnostic collector this one is modeled on.
type Collector struct {
	diagnostics []Diagnostic
	linePrimary map[int]int // source line -> index into diagnostics
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{linePrimary: make(map[int]int)}
}

// Add records a diagnostic unconditionally.
func (c *Collector) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// AddLineError records d as the primary diagnostic for its start line,
// unless that line already has one, in which case d is folded into the
// existing diagnostic's Related chain.
func (c *Collector) AddLineError(d Diagnostic) {
	line := d.Span.StartLine
	if idx, ok := c.linePrimary[line]; ok {
		primary := &c.diagnostics[idx]
		primary.Related = append(primary.Related, RelatedInfo{
			Message: d.Message,
			Span:    d.Span,
		})
		return
	}
	c.diagnostics = append(c.diagnostics, d)
	c.linePrimary[line] = len(c.diagnostics) - 1
}

// All returns every diagnostic collected so far, sorted by source
// position for stable, deterministic output.
func (c *Collector) All() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Span, out[j].Span
		if si.StartLine != sj.StartLine {
			return si.StartLine < sj.StartLine
		}
		return si.StartCol < sj.StartCol
	})
	return out
}

// HasErrors reports whether any collected diagnostic is an error.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if d.Sev == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any collected diagnostic is a warning.
func (c *Collector) HasWarnings() bool {
	for _, d := range c.diagnostics {
		if d.Sev == SeverityWarning {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics collected.
func (c *Collector) Count() int {
	return len(c.diagnostics)
}
